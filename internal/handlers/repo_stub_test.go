package handlers

import (
	"context"
	"sync"
	"time"

	dom "github.com/Adarsh-yadav-ui/Sangeet/internal/domain"
	"github.com/Adarsh-yadav-ui/Sangeet/internal/repo"
)

// stubRepo is a minimal in-memory UserRepo for handler tests. The unique
// constraint on clerk_user_id is enforced the way the database enforces it.
type stubRepo struct {
	mu   sync.Mutex
	seq  int64
	rows map[int64]dom.User
}

func newStubRepo() *stubRepo {
	return &stubRepo{rows: make(map[int64]dom.User)}
}

var _ repo.UserRepo = (*stubRepo)(nil)

func (r *stubRepo) GetByClerkID(ctx context.Context, clerkUserID string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.ClerkUserID == clerkUserID {
			return u, nil
		}
	}
	return dom.User{}, repo.ErrNotFound
}

func (r *stubRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return dom.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (r *stubRepo) List(ctx context.Context) ([]dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []dom.User
	for _, u := range r.rows {
		list = append(list, u)
	}
	return list, nil
}

func (r *stubRepo) Recent(ctx context.Context, limit int) ([]dom.User, error) {
	list, _ := r.List(ctx)
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *stubRepo) Insert(ctx context.Context, attrs dom.UserAttrs) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.ClerkUserID == attrs.ClerkUserID {
			return dom.User{}, repo.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	r.seq++
	u := dom.User{
		ID:          r.seq,
		ClerkUserID: attrs.ClerkUserID,
		Email:       attrs.Email,
		FirstName:   attrs.FirstName,
		LastName:    attrs.LastName,
		Username:    attrs.Username,
		ImageURL:    attrs.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.rows[u.ID] = u
	return u, nil
}

func (r *stubRepo) Patch(ctx context.Context, id int64, attrs dom.UserAttrs) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return dom.User{}, repo.ErrNotFound
	}
	if attrs.Email != nil {
		u.Email = attrs.Email
	}
	if attrs.FirstName != nil {
		u.FirstName = attrs.FirstName
	}
	if attrs.LastName != nil {
		u.LastName = attrs.LastName
	}
	if attrs.Username != nil {
		u.Username = attrs.Username
	}
	if attrs.ImageURL != nil {
		u.ImageURL = attrs.ImageURL
	}
	u.UpdatedAt = time.Now().UTC()
	r.rows[id] = u
	return u, nil
}

func (r *stubRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *stubRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}
