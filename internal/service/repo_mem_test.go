package service

import (
	"context"
	"sort"
	"sync"
	"time"

	dom "github.com/Adarsh-yadav-ui/Sangeet/internal/domain"
	"github.com/Adarsh-yadav-ui/Sangeet/internal/repo"
)

// memRepo is an in-memory UserRepo. It enforces the clerk_user_id unique
// constraint under a mutex, exactly like the database does with its unique
// index, so the services' race handling can be exercised without Postgres.
type memRepo struct {
	mu   sync.Mutex
	seq  int64
	rows map[int64]dom.User
	now  func() time.Time

	getCalls    int
	insertCalls int
	patchCalls  int
	deleteCalls int

	// beforeInsert, when set, runs once at the start of Insert, without
	// the lock held. Used to interleave a competing writer between a
	// caller's read miss and its insert.
	beforeInsert func()
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[int64]dom.User), now: time.Now}
}

var _ repo.UserRepo = (*memRepo)(nil)

func (r *memRepo) GetByClerkID(ctx context.Context, clerkUserID string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	for _, u := range r.rows {
		if u.ClerkUserID == clerkUserID {
			return u, nil
		}
	}
	return dom.User{}, repo.ErrNotFound
}

func (r *memRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return dom.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (r *memRepo) List(ctx context.Context) ([]dom.User, error) {
	return r.Recent(ctx, 0)
}

func (r *memRepo) Recent(ctx context.Context, limit int) ([]dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []dom.User
	for _, u := range r.rows {
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *memRepo) Insert(ctx context.Context, attrs dom.UserAttrs) (dom.User, error) {
	if hook := r.takeBeforeInsert(); hook != nil {
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertCalls++
	for _, u := range r.rows {
		if u.ClerkUserID == attrs.ClerkUserID {
			return dom.User{}, repo.ErrDuplicate
		}
	}
	now := r.now()
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

func (r *memRepo) Patch(ctx context.Context, id int64, attrs dom.UserAttrs) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patchCalls++
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
	u.UpdatedAt = r.now()
	r.rows[id] = u
	return u, nil
}

func (r *memRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteCalls++
	if _, ok := r.rows[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memRepo) takeBeforeInsert() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	hook := r.beforeInsert
	r.beforeInsert = nil
	return hook
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func strPtr(s string) *string { return &s }
