package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Adarsh-yadav-ui/Sangeet/internal/cache"
	dom "github.com/Adarsh-yadav-ui/Sangeet/internal/domain"
	"github.com/Adarsh-yadav-ui/Sangeet/internal/dto"
	"github.com/Adarsh-yadav-ui/Sangeet/internal/repo"
)

var ErrInvalidEvent = errors.New("event payload has no clerk user id")

// NormalizeUser projects a Clerk user payload onto internal user attrs.
// Pure mapping, no side effects. The primary email is the first entry of
// email_addresses; absent fields stay nil, never empty string, so a patch
// built from these attrs cannot clear a stored value. Callers must feed
// the full payload every time, not a diff — Clerk always sends the whole
// user object, which is what makes that safe.
func NormalizeUser(p dto.ClerkUserPayload) dom.UserAttrs {
	attrs := dom.UserAttrs{
		ClerkUserID: p.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Username:    p.Username,
		ImageURL:    p.ImageURL,
	}
	if len(p.EmailAddresses) > 0 {
		email := p.EmailAddresses[0].EmailAddress
		attrs.Email = &email
	}
	return attrs
}

// SyncService applies Clerk identity events to the user store. Both
// operations are idempotent under at-least-once, out-of-order delivery.
type SyncService struct {
	repo  repo.UserRepo
	cache *cache.UserCache
}

// NewSyncService creates a SyncService. If c is nil, caching is disabled.
func NewSyncService(r repo.UserRepo, c *cache.UserCache) *SyncService {
	return &SyncService{repo: r, cache: c}
}

// Upsert reconciles a user.created / user.updated event: insert when the
// clerk user is unseen, patch otherwise. Delivering the same create event
// twice turns the second delivery into a patch. An insert losing against a
// concurrent insert (the session lazy-create path, or a duplicate delivery
// in flight) falls through to a patch of the winner's row.
func (s *SyncService) Upsert(ctx context.Context, p dto.ClerkUserPayload) (dom.User, error) {
	if p.ID == "" {
		return dom.User{}, ErrInvalidEvent
	}
	attrs := NormalizeUser(p)

	existing, err := s.repo.GetByClerkID(ctx, attrs.ClerkUserID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return dom.User{}, err
		}
		u, err := s.repo.Insert(ctx, attrs)
		if err == nil {
			s.invalidateCache(ctx, attrs.ClerkUserID)
			return u, nil
		}
		if !errors.Is(err, repo.ErrDuplicate) {
			return dom.User{}, err
		}
		// Lost the insert race; the row exists now, reconcile onto it.
		existing, err = s.repo.GetByClerkID(ctx, attrs.ClerkUserID)
		if err != nil {
			return dom.User{}, fmt.Errorf("reread after duplicate insert: %w", err)
		}
	}

	u, err := s.repo.Patch(ctx, existing.ID, attrs)
	if err != nil {
		// A patch hitting a deleted row means events arrived out of order
		// badly enough to be worth observing; surface it.
		return dom.User{}, err
	}
	s.invalidateCache(ctx, attrs.ClerkUserID)
	return u, nil
}

// Remove reconciles a user.deleted event. Deleting an already-absent user
// is not an error: duplicate delete deliveries, or a delete arriving before
// the create it follows, are expected races.
func (s *SyncService) Remove(ctx context.Context, clerkUserID string) error {
	if clerkUserID == "" {
		return ErrInvalidEvent
	}
	u, err := s.repo.GetByClerkID(ctx, clerkUserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			log.Printf("sync: no user to delete for clerk user %s", clerkUserID)
			return nil
		}
		return err
	}
	if err := s.repo.Delete(ctx, u.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Raced another delete of the same row.
			log.Printf("sync: user %s already deleted", clerkUserID)
			return nil
		}
		return err
	}
	s.invalidateCache(ctx, clerkUserID)
	return nil
}

func (s *SyncService) invalidateCache(ctx context.Context, clerkUserID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, clerkUserID); err != nil {
		log.Printf("sync: cache invalidate for %s: %v", clerkUserID, err)
	}
}
