package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jcbcouch/dotnetwebapi/internal/post"
)

// Memory is a mutex-guarded map repository used by unit tests and selectable
// as the "memory" database driver. It mirrors the optimistic-concurrency
// semantics of the GORM repository.
type Memory struct {
	mu     sync.RWMutex
	store  map[uint]post.Post
	nextID uint
}

func NewMemory() *Memory {
	return &Memory{store: make(map[uint]post.Post), nextID: 1}
}

func (m *Memory) List(ctx context.Context) ([]post.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]post.Post, 0, len(m.store))
	for _, p := range m.store {
		out = append(out, p)
	}
	// map iteration order is random; keep listings stable by id
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) Search(ctx context.Context, f Filter) ([]post.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	title := strings.ToLower(strings.TrimSpace(f.Title))
	body := strings.ToLower(strings.TrimSpace(f.Body))

	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]post.Post, 0)
	for _, p := range m.store {
		if title != "" && !strings.Contains(strings.ToLower(p.Title), title) {
			continue
		}
		if body != "" && !strings.Contains(strings.ToLower(p.Body), body) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Memory) GetByID(ctx context.Context, id uint) (*post.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.store[id]; ok {
		return &p, nil
	}
	return nil, ErrNotFound
}

func (m *Memory) Insert(ctx context.Context, p *post.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextID
	m.nextID++
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.Version = 0
	m.store[p.ID] = *p
	return nil
}

func (m *Memory) Update(ctx context.Context, p *post.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.store[p.ID]
	if !ok || cur.Version != p.Version {
		return ErrConflict
	}
	cur.Title = p.Title
	cur.Body = p.Body
	cur.Version++
	cur.UpdatedAt = time.Now().UTC()
	m.store[p.ID] = cur
	p.Version = cur.Version
	return nil
}

func (m *Memory) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *Memory) Exists(ctx context.Context, id uint) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.store[id]
	return ok, nil
}
