package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/jcbcouch/dotnetwebapi/internal/post"
)

// Gorm is the MySQL-backed repository. Updates match on (id, version) so a
// row changed or deleted since load surfaces as ErrConflict instead of being
// silently overwritten.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (r *Gorm) List(ctx context.Context) ([]post.Post, error) {
	const op = "repository.List"
	var posts []post.Post
	if err := r.db.WithContext(ctx).Preload("Owner").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return posts, nil
}

func (r *Gorm) Search(ctx context.Context, f Filter) ([]post.Post, error) {
	const op = "repository.Search"
	q := r.db.WithContext(ctx).Preload("Owner").Order("created_at DESC, id DESC")
	if t := strings.TrimSpace(f.Title); t != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(t)+"%")
	}
	if b := strings.TrimSpace(f.Body); b != "" {
		q = q.Where("LOWER(body) LIKE ?", "%"+strings.ToLower(b)+"%")
	}
	var posts []post.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return posts, nil
}

func (r *Gorm) GetByID(ctx context.Context, id uint) (*post.Post, error) {
	const op = "repository.GetByID"
	var p post.Post
	err := r.db.WithContext(ctx).Preload("Owner").First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

func (r *Gorm) Insert(ctx context.Context, p *post.Post) error {
	const op = "repository.Insert"
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *Gorm) Update(ctx context.Context, p *post.Post) error {
	const op = "repository.Update"
	tx := r.db.WithContext(ctx).Model(&post.Post{}).
		Where("id = ? AND version = ?", p.ID, p.Version).
		Updates(map[string]interface{}{
			"title":   p.Title,
			"body":    p.Body,
			"version": p.Version + 1,
		})
	if tx.Error != nil {
		return fmt.Errorf("%s: %w", op, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrConflict
	}
	p.Version++
	return nil
}

func (r *Gorm) Delete(ctx context.Context, id uint) error {
	const op = "repository.Delete"
	tx := r.db.WithContext(ctx).Delete(&post.Post{}, id)
	if tx.Error != nil {
		return fmt.Errorf("%s: %w", op, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Gorm) Exists(ctx context.Context, id uint) (bool, error) {
	const op = "repository.Exists"
	var count int64
	if err := r.db.WithContext(ctx).Model(&post.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return count > 0, nil
}
