package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lawhelp/lawhelp/internal/domain"
	"github.com/lawhelp/lawhelp/internal/store"
)

var (
	ErrNotALawyer      = errors.New("account is not flagged as a lawyer")
	ErrProfileNotFound = errors.New("lawyer profile not found")
)

// LawyerService maintains the public lawyer directory. Only accounts
// flagged as lawyers may publish a profile.
type LawyerService struct {
	Store store.Store

	// Now is injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *LawyerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// PublishProfile creates or updates the caller's directory entry.
func (s *LawyerService) PublishProfile(ctx context.Context, userID string, p domain.LawyerProfile) (domain.LawyerProfile, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.LawyerProfile{}, err
	}
	if !user.Lawyer {
		return domain.LawyerProfile{}, ErrNotALawyer
	}

	now := s.now()
	p.UserID = userID
	if strings.TrimSpace(p.Name) == "" {
		p.Name = user.Name
	}
	p.UpdatedAt = now

	existing, err := s.Store.Lawyers().GetProfile(ctx, userID)
	switch {
	case err == nil:
		p.CreatedAt = existing.CreatedAt
	case errors.Is(err, store.ErrNotFound):
		p.CreatedAt = now
	default:
		return domain.LawyerProfile{}, err
	}

	if err := s.Store.Lawyers().UpsertProfile(ctx, p); err != nil {
		return domain.LawyerProfile{}, err
	}
	return p, nil
}

// GetProfile returns one directory entry.
func (s *LawyerService) GetProfile(ctx context.Context, userID string) (domain.LawyerProfile, error) {
	p, err := s.Store.Lawyers().GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.LawyerProfile{}, ErrProfileNotFound
		}
		return domain.LawyerProfile{}, err
	}
	return p, nil
}

// List returns directory entries matching the filter.
func (s *LawyerService) List(ctx context.Context, f domain.LawyerFilter) ([]domain.LawyerProfile, error) {
	return s.Store.Lawyers().ListProfiles(ctx, f)
}
