package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vibescout/internal/adapters/observability"
	"vibescout/internal/domain"
	"vibescout/internal/explore"
)

const catalogKey = "catalog:v1"

func profileKey(userID string) string { return fmt.Sprintf("profile:%s", userID) }

type QueryService struct {
	venues   domain.VenueRepository
	profiles domain.ProfileRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(v domain.VenueRepository, p domain.ProfileRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{venues: v, profiles: p, cache: c, cacheTTL: ttl}
}

// Catalog returns the full merged venue list in dataset order.
func (s *QueryService) Catalog(ctx context.Context) ([]domain.Venue, error) {
	var out []domain.Venue
	if ok, _ := s.cache.Get(ctx, catalogKey, &out); ok {
		return out, nil
	}
	out, err := s.venues.ListVenues(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, catalogKey, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *QueryService) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	if userID == "" {
		return domain.Profile{}, domain.ErrNotFound
	}
	key := profileKey(userID)
	var p domain.Profile
	if ok, _ := s.cache.Get(ctx, key, &p); ok {
		return p, nil
	}
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	_ = s.cache.Set(ctx, key, p, int(s.cacheTTL.Seconds()))
	return p, nil
}

// UserLocation returns the user's home city. Anonymous users and users without
// a profile or city get nil and no error.
func (s *QueryService) UserLocation(ctx context.Context, userID string) (*domain.UserLocation, error) {
	if userID == "" {
		return nil, nil
	}
	p, err := s.Profile(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p.Location(), nil
}

// ListVenues filters and ranks the catalog for the given user.
func (s *QueryService) ListVenues(ctx context.Context, loc *domain.UserLocation, fs domain.FilterState) ([]explore.Row, error) {
	all, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	out := explore.Filter(all, fs, loc)
	observability.ObserveExploreResults(len(out))
	return explore.Rows(out), nil
}

func (s *QueryService) GetVenue(ctx context.Context, id string, loc *domain.UserLocation) (explore.Row, error) {
	all, err := s.Catalog(ctx)
	if err != nil {
		return explore.Row{}, err
	}
	for _, v := range all {
		if v.ID == id {
			return explore.Rows(explore.Filter([]domain.Venue{v}, domain.FilterState{}, loc))[0], nil
		}
	}
	// the cached catalog may predate an ingest
	v, err := s.venues.GetVenue(ctx, id)
	if err != nil {
		return explore.Row{}, err
	}
	return explore.Rows(explore.Filter([]domain.Venue{v}, domain.FilterState{}, loc))[0], nil
}
