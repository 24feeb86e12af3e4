package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jcbcouch/dotnetwebapi/internal/identity"
	"github.com/jcbcouch/dotnetwebapi/internal/post"
	"github.com/jcbcouch/dotnetwebapi/internal/post/repository"
)

var (
	alice = identity.Actor{ID: 1, Name: "alice"}
	bob   = identity.Actor{ID: 2, Name: "bob"}
	admin = identity.Actor{ID: 3, Name: "root", Roles: []string{identity.RoleAdmin}}
)

func newService(t *testing.T) (*Service, *repository.Memory) {
	t.Helper()
	repo := repository.NewMemory()
	return New(repo, identity.ModeRequired, zap.NewNop()), repo
}

func mustCreate(t *testing.T, svc *Service, actor identity.Actor, title, body string) *post.Response {
	t.Helper()
	resp, err := svc.Create(context.Background(), &actor, post.CreateRequest{Title: title, Body: body})
	require.NoError(t, err)
	return resp
}

func TestCreateThenGet(t *testing.T) {
	svc, _ := newService(t)
	before := time.Now().UTC()

	resp := mustCreate(t, svc, alice, "Hello World", "First post")
	require.NotZero(t, resp.ID)

	got, err := svc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", got.Title)
	assert.Equal(t, "First post", got.Body)
	assert.WithinDuration(t, before, got.CreatedAt, 5*time.Second)
}

func TestCreateValidation(t *testing.T) {
	svc, repo := newService(t)

	_, err := svc.Create(context.Background(), &alice, post.CreateRequest{Title: "Hi", Body: "First post"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Violations, 1)
	assert.Equal(t, "title", ve.Violations[0].Field)

	// nothing was persisted
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateRequiresActor(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Create(context.Background(), nil, post.CreateRequest{Title: "Hello", Body: "b"})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestGetNotFound(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Get(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateOwnership(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created := mustCreate(t, svc, alice, "Hello World", "First post")

	upd := post.UpdateRequest{ID: created.ID, Title: "Hello Universe", Body: "First post"}

	// not the owner, not an admin
	require.ErrorIs(t, svc.Update(ctx, &bob, created.ID, upd), ErrForbidden)
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", got.Title, "forbidden update must not change the post")

	// owner
	require.NoError(t, svc.Update(ctx, &alice, created.ID, upd))
	got, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello Universe", got.Title)

	// admin may mutate someone else's post
	require.NoError(t, svc.Update(ctx, &admin, created.ID, post.UpdateRequest{ID: created.ID, Title: "Moderated", Body: "First post"}))

	// unresolved actor
	require.ErrorIs(t, svc.Update(ctx, nil, created.ID, upd), ErrUnauthorized)
}

func TestUpdateIsIdempotent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created := mustCreate(t, svc, alice, "Hello World", "First post")

	upd := post.UpdateRequest{ID: created.ID, Title: "Hello Universe", Body: "Second draft"}
	require.NoError(t, svc.Update(ctx, &alice, created.ID, upd))
	first, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, &alice, created.ID, upd))
	second, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Body, second.Body)
}

func TestUpdateIDMismatch(t *testing.T) {
	svc, _ := newService(t)
	created := mustCreate(t, svc, alice, "Hello World", "First post")

	err := svc.Update(context.Background(), &alice, created.ID, post.UpdateRequest{ID: created.ID + 1, Title: "Hello Universe", Body: "b"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "id", ve.Violations[len(ve.Violations)-1].Field)
}

func TestUpdateNotFound(t *testing.T) {
	svc, _ := newService(t)
	err := svc.Update(context.Background(), &alice, 42, post.UpdateRequest{ID: 42, Title: "Hello", Body: "b"})
	require.ErrorIs(t, err, ErrNotFound)
}

// conflictRepo forces every Update into the optimistic-conflict path so the
// service's disambiguation can be observed.
type conflictRepo struct {
	repository.Repository
	stillExists bool
}

func (r *conflictRepo) Update(ctx context.Context, p *post.Post) error {
	return repository.ErrConflict
}

func (r *conflictRepo) Exists(ctx context.Context, id uint) (bool, error) {
	return r.stillExists, nil
}

func TestUpdateConflictDisambiguation(t *testing.T) {
	mem := repository.NewMemory()
	seed := &post.Post{Title: "Hello World", Body: "First post", OwnerID: alice.ID}
	require.NoError(t, mem.Insert(context.Background(), seed))
	upd := post.UpdateRequest{ID: seed.ID, Title: "Hello Universe", Body: "First post"}

	// record still exists: the caller lost the race -> Conflict
	svc := New(&conflictRepo{Repository: mem, stillExists: true}, identity.ModeRequired, zap.NewNop())
	require.ErrorIs(t, svc.Update(context.Background(), &alice, seed.ID, upd), ErrConflict)

	// record is gone: treat as NotFound
	svc = New(&conflictRepo{Repository: mem, stillExists: false}, identity.ModeRequired, zap.NewNop())
	require.ErrorIs(t, svc.Update(context.Background(), &alice, seed.ID, upd), ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created := mustCreate(t, svc, alice, "Hello World", "First post")

	require.ErrorIs(t, svc.Delete(ctx, &bob, created.ID), ErrForbidden)
	require.ErrorIs(t, svc.Delete(ctx, nil, created.ID), ErrUnauthorized)

	require.NoError(t, svc.Delete(ctx, &alice, created.ID))
	_, err := svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, svc.Delete(ctx, &alice, created.ID), ErrNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSearch(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	mustCreate(t, svc, alice, "Go concurrency", "channels everywhere")
	mustCreate(t, svc, alice, "Gardening", "tomatoes and channels of water")

	_, err := svc.Search(ctx, "  ", "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve, "blank filters are a validation error")

	got, err := svc.Search(ctx, "go", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Go concurrency", got[0].Title)

	got, err = svc.Search(ctx, "", "CHANNELS")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAnonymousMode(t *testing.T) {
	repo := repository.NewMemory()
	svc := New(repo, identity.ModeNone, zap.NewNop())
	ctx := context.Background()

	// no actor anywhere
	created, err := svc.Create(ctx, nil, post.CreateRequest{Title: "Open season", Body: "no auth"})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, nil, created.ID, post.UpdateRequest{ID: created.ID, Title: "Still open", Body: "no auth"}))
	require.NoError(t, svc.Delete(ctx, nil, created.ID))
}

// failingRepo simulates an unavailable store.
type failingRepo struct {
	repository.Repository
}

var errDown = errors.New("connection refused")

func (failingRepo) List(ctx context.Context) ([]post.Post, error) { return nil, errDown }

func TestStoreFailureIsOpaque(t *testing.T) {
	svc := New(failingRepo{}, identity.ModeRequired, zap.NewNop())
	_, err := svc.List(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, errDown, "cause stays wrapped for the log boundary")
}
