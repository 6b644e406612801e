package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/multierr"

	"vibescout/internal/domain"
	"vibescout/internal/geo"
)

type IngestionService struct {
	repo  domain.VenueRepository
	cache domain.Cache
}

func NewIngestionService(r domain.VenueRepository, cache domain.Cache) *IngestionService {
	return &IngestionService{repo: r, cache: cache}
}

// IngestVenue upserts one merged venue at its catalog position.
func (s *IngestionService) IngestVenue(ctx context.Context, position int, v domain.Venue) error {
	if v.ID == "" {
		return fmt.Errorf("venue at position %d has no id", position)
	}
	v.DistanceFromUser = nil
	if err := s.repo.UpsertVenue(ctx, position, v); err != nil {
		return fmt.Errorf("upsert venue %s: %w", v.ID, err)
	}
	return nil
}

// Finish evicts the cached catalog so readers pick up the new rows.
func (s *IngestionService) Finish(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, catalogKey)
}

type ProfileService struct {
	repo  domain.ProfileRepository
	cache domain.Cache
}

func NewProfileService(r domain.ProfileRepository, cache domain.Cache) *ProfileService {
	return &ProfileService{repo: r, cache: cache}
}

// Upsert validates p, fills coordinates for a known city when the client sent
// only its name, stores it and returns the stored profile.
func (s *ProfileService) Upsert(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	p, err := normalizeProfile(p)
	if err != nil {
		return domain.Profile{}, err
	}
	if err := s.repo.UpsertProfile(ctx, p); err != nil {
		return domain.Profile{}, err
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, profileKey(p.UserID))
	}
	return s.repo.GetProfile(ctx, p.UserID)
}

func normalizeProfile(p domain.Profile) (domain.Profile, error) {
	var errs error
	p.UserID = strings.TrimSpace(p.UserID)
	if p.UserID == "" {
		errs = multierr.Append(errs, fmt.Errorf("user_id is required"))
	}
	if p.Username != nil && len(strings.TrimSpace(*p.Username)) < 3 {
		errs = multierr.Append(errs, fmt.Errorf("username must be at least 3 characters"))
	}
	if p.Website != nil && *p.Website != "" {
		u, err := url.ParseRequestURI(*p.Website)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = multierr.Append(errs, fmt.Errorf("website must be an absolute http(s) URL"))
		}
	}

	switch {
	case (p.CityLat == nil) != (p.CityLong == nil):
		errs = multierr.Append(errs, fmt.Errorf("city_lat and city_long must be set together"))
	case p.CityLat != nil:
		if *p.CityLat < -90 || *p.CityLat > 90 {
			errs = multierr.Append(errs, fmt.Errorf("city_lat out of range"))
		}
		if *p.CityLong < -180 || *p.CityLong > 180 {
			errs = multierr.Append(errs, fmt.Errorf("city_long out of range"))
		}
		if p.City == nil || strings.TrimSpace(*p.City) == "" {
			errs = multierr.Append(errs, fmt.Errorf("city is required with coordinates"))
		}
	case p.City != nil && *p.City != "":
		c, ok := geo.CityByName(*p.City)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("unknown city %q", *p.City))
			break
		}
		p.City, p.CityLat, p.CityLong = &c.Name, &c.Lat, &c.Long
	}

	if errs != nil {
		return domain.Profile{}, multierr.Append(domain.ErrInvalidProfile, errs)
	}
	return p, nil
}
