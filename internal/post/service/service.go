// Package service holds the post resource pipelines: each operation is a
// linear validate → authorize → map → persist sequence with early exit on the
// first failure. The store is the only state.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jcbcouch/dotnetwebapi/internal/identity"
	"github.com/jcbcouch/dotnetwebapi/internal/post"
	"github.com/jcbcouch/dotnetwebapi/internal/post/repository"
)

var (
	ErrNotFound     = errors.New("post not found")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("not allowed to modify this post")
	ErrConflict     = errors.New("post was modified by another request")
)

// ValidationError carries the full list of failed field constraints.
type ValidationError struct {
	Violations []post.Violation
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field)
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// Service implements the post operations over a repository. Mode selects the
// anonymous or authenticated behavior of the same pipelines.
type Service struct {
	repo repository.Repository
	mode identity.Mode
	log  *zap.Logger
}

func New(repo repository.Repository, mode identity.Mode, log *zap.Logger) *Service {
	return &Service{repo: repo, mode: mode, log: log}
}

// List returns all posts in store-native order.
func (s *Service) List(ctx context.Context) ([]post.Response, error) {
	const op = "service.List"
	posts, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("list posts failed", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return post.ToResponses(posts), nil
}

// Search returns posts matching the given case-insensitive substring filters,
// newest first. At least one filter must be non-blank.
func (s *Service) Search(ctx context.Context, title, body string) ([]post.Response, error) {
	const op = "service.Search"
	f := repository.Filter{Title: title, Body: body}
	if f.Empty() {
		return nil, &ValidationError{Violations: []post.Violation{
			{Field: "title", Message: "at least one of title or content must be provided"},
			{Field: "content", Message: "at least one of title or content must be provided"},
		}}
	}
	posts, err := s.repo.Search(ctx, f)
	if err != nil {
		s.log.Error("search posts failed", zap.String("title", title), zap.String("content", body), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return post.ToResponses(posts), nil
}

// Get returns the post with the given id.
func (s *Service) Get(ctx context.Context, id uint) (*post.Response, error) {
	const op = "service.Get"
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("get post failed", zap.Uint("id", id), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp := post.ToResponse(p)
	return &resp, nil
}

// Create validates the request, stamps ownership and creation time, and
// persists the new post.
func (s *Service) Create(ctx context.Context, actor *identity.Actor, req post.CreateRequest) (*post.Response, error) {
	const op = "service.Create"
	if violations := req.Validate(); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	if s.mode == identity.ModeRequired && actor == nil {
		return nil, ErrUnauthorized
	}

	p := post.NewPost(req)
	if actor != nil {
		p.OwnerID = actor.ID
	}
	p.CreatedAt = time.Now().UTC()

	if err := s.repo.Insert(ctx, p); err != nil {
		s.log.Error("create post failed", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp := post.ToResponse(p)
	return &resp, nil
}

// Update replaces the title and body of an existing post. The body id must
// match the path id; only the owner or an admin may update. A persist-time
// conflict is disambiguated with an existence check: gone means NotFound,
// changed means Conflict.
func (s *Service) Update(ctx context.Context, actor *identity.Actor, id uint, req post.UpdateRequest) error {
	const op = "service.Update"
	violations := req.Validate()
	if req.ID != id {
		violations = append(violations, post.Violation{Field: "id", Message: "id in body must match the path id"})
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		s.log.Error("load post for update failed", zap.Uint("id", id), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if s.mode == identity.ModeRequired {
		if actor == nil {
			return ErrUnauthorized
		}
		if !post.CanMutate(*actor, existing) {
			return ErrForbidden
		}
	}

	post.ApplyUpdate(req, existing)
	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return s.resolveConflict(ctx, id)
		}
		s.log.Error("update post failed", zap.Uint("id", id), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete removes an existing post; only the owner or an admin may delete.
func (s *Service) Delete(ctx context.Context, actor *identity.Actor, id uint) error {
	const op = "service.Delete"
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		s.log.Error("load post for delete failed", zap.Uint("id", id), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if s.mode == identity.ModeRequired {
		if actor == nil {
			return ErrUnauthorized
		}
		if !post.CanMutate(*actor, existing) {
			return ErrForbidden
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		s.log.Error("delete post failed", zap.Uint("id", id), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) resolveConflict(ctx context.Context, id uint) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		s.log.Error("conflict existence check failed", zap.Uint("id", id), zap.Error(err))
		return fmt.Errorf("service.resolveConflict: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrConflict
}
