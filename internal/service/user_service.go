package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Adarsh-yadav-ui/Sangeet/internal/auth"
	"github.com/Adarsh-yadav-ui/Sangeet/internal/cache"
	dom "github.com/Adarsh-yadav-ui/Sangeet/internal/domain"
	"github.com/Adarsh-yadav-ui/Sangeet/internal/repo"

	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("authentication required")
)

// recentUsersLimit matches what the landing page shows.
const recentUsersLimit = 5

// UserService resolves the current principal to a stored user and serves
// user lookups for the API.
type UserService struct {
	repo  repo.UserRepo
	cache *cache.UserCache
	sf    singleflight.Group
}

// NewUserService creates a UserService. If c is nil, caching is disabled.
func NewUserService(r repo.UserRepo, c *cache.UserCache) *UserService {
	return &UserService{repo: r, cache: c}
}

// Current returns the stored user for the principal, or nil when the
// principal is anonymous or has no record yet. It never writes.
func (s *UserService) Current(ctx context.Context, p auth.Principal) (*dom.User, error) {
	if p.ClerkUserID == "" {
		return nil, nil
	}
	if s.cache != nil {
		v, err, _ := s.sf.Do("current:"+p.ClerkUserID, func() (interface{}, error) {
			if u, err := s.cache.GetByClerkID(ctx, p.ClerkUserID); err == nil && u != nil {
				return u, nil
			}
			u, err := s.repo.GetByClerkID(ctx, p.ClerkUserID)
			if err != nil {
				return nil, err
			}
			if err := s.cache.SetByClerkID(ctx, u); err != nil {
				log.Printf("users: cache set for %s: %v", p.ClerkUserID, err)
			}
			return &u, nil
		})
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return v.(*dom.User), nil
	}
	u, err := s.repo.GetByClerkID(ctx, p.ClerkUserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// EnsureStored makes sure a record exists for the principal, creating it
// from the session claims on first touch. The steady-state path is a single
// read and zero writes. When the create loses against a concurrent writer —
// a webhook upsert in flight, or a second EnsureStored for the same
// principal — the duplicate-insert failure is the designed outcome, not an
// error: the record exists, just not written by this call.
func (s *UserService) EnsureStored(ctx context.Context, p auth.Principal) (dom.User, error) {
	if p.ClerkUserID == "" {
		return dom.User{}, ErrUnauthenticated
	}

	u, err := s.repo.GetByClerkID(ctx, p.ClerkUserID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return dom.User{}, err
	}

	u, err = s.repo.Insert(ctx, attrsFromPrincipal(p))
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			winner, err := s.repo.GetByClerkID(ctx, p.ClerkUserID)
			if err != nil {
				return dom.User{}, fmt.Errorf("reread after duplicate insert: %w", err)
			}
			return winner, nil
		}
		return dom.User{}, err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, p.ClerkUserID); err != nil {
			log.Printf("users: cache invalidate for %s: %v", p.ClerkUserID, err)
		}
	}
	return u, nil
}

// Get returns a user by internal ID.
func (s *UserService) Get(ctx context.Context, id int64) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// List returns all users, newest first.
func (s *UserService) List(ctx context.Context) ([]dom.User, error) {
	return s.repo.List(ctx)
}

// Recent returns the newest users for the landing page.
func (s *UserService) Recent(ctx context.Context) ([]dom.User, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("recent", func() (interface{}, error) {
			if list, err := s.cache.GetRecent(ctx); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.Recent(ctx, recentUsersLimit)
			if err != nil {
				return nil, err
			}
			if err := s.cache.SetRecent(ctx, list); err != nil {
				log.Printf("users: cache set recent: %v", err)
			}
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.User), nil
	}
	return s.repo.Recent(ctx, recentUsersLimit)
}

func attrsFromPrincipal(p auth.Principal) dom.UserAttrs {
	return dom.UserAttrs{
		ClerkUserID: p.ClerkUserID,
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Username:    p.Username,
		ImageURL:    p.ImageURL,
	}
}
