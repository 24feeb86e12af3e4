// Package repository provides store access for posts: a GORM/MySQL
// implementation for production and an in-memory one for tests and local
// runs, behind a single interface.
package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jcbcouch/dotnetwebapi/internal/post"
)

var (
	ErrNotFound = errors.New("post not found")
	// ErrConflict means the row was modified or deleted since it was loaded;
	// callers disambiguate with Exists.
	ErrConflict = errors.New("post was modified concurrently")
)

// Filter holds the optional case-insensitive substring predicates for Search.
type Filter struct {
	Title string
	Body  string
}

func (f Filter) Empty() bool {
	return strings.TrimSpace(f.Title) == "" && strings.TrimSpace(f.Body) == ""
}

// Repository is the store access contract. Each write is atomic; Update uses
// the post's Version for optimistic conflict detection.
type Repository interface {
	List(ctx context.Context) ([]post.Post, error)
	Search(ctx context.Context, f Filter) ([]post.Post, error)
	GetByID(ctx context.Context, id uint) (*post.Post, error)
	Insert(ctx context.Context, p *post.Post) error
	Update(ctx context.Context, p *post.Post) error
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
}
