package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"vibescout/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valJSON(ss []string) any {
	if ss == nil {
		return nil
	}
	b, _ := json.Marshal(ss)
	return string(b)
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
func nullF64(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

// Repo implements domain.VenueRepository and domain.ProfileRepository.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertVenue(ctx context.Context, position int, v domain.Venue) error {
	_, err := r.db.ExecContext(ctx, upsertVenueSQL,
		v.ID,
		position,
		v.Name,
		v.Address,
		v.Coords.Lat,
		v.Coords.Lon,
		v.PlusCode,
		v.ImageURL,
		v.ShortDescription,
		v.Rating,
		valStr(v.City),
		valStr(v.Category),
		valJSON(v.Cuisine),
		valJSON(v.Atmosphere),
		valJSON(v.Features),
	)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVenue(s scanner) (domain.Venue, error) {
	var v domain.Venue
	var city, category sql.NullString
	var cuisine, atmosphere, features []byte
	if err := s.Scan(
		&v.ID,
		&v.Name,
		&v.Address,
		&v.Coords.Lat, &v.Coords.Lon,
		&v.PlusCode,
		&v.ImageURL,
		&v.ShortDescription,
		&v.Rating,
		&city, &category,
		&cuisine, &atmosphere, &features,
	); err != nil {
		return domain.Venue{}, err
	}
	v.City = nullStr(city)
	v.Category = nullStr(category)
	// NULL sets stay nil, meaning "no metadata"
	for _, col := range []struct {
		name string
		raw  []byte
		dst  *[]string
	}{
		{"cuisine", cuisine, &v.Cuisine},
		{"atmosphere", atmosphere, &v.Atmosphere},
		{"features", features, &v.Features},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return domain.Venue{}, fmt.Errorf("venue %s: decode %s: %w", v.ID, col.name, err)
		}
	}
	return v, nil
}

func (r *Repo) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	rows, err := r.db.QueryContext(ctx, listVenuesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Venue{}
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetVenue(ctx context.Context, id string) (domain.Venue, error) {
	v, err := scanVenue(r.db.QueryRowContext(ctx, getVenueSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Venue{}, domain.ErrNotFound
	}
	return v, err
}

func (r *Repo) UpsertProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.db.ExecContext(ctx, upsertProfileSQL,
		p.UserID,
		valStr(p.Username),
		valStr(p.FullName),
		valStr(p.Website),
		valStr(p.AvatarURL),
		valStr(p.City),
		valF64(p.CityLat),
		valF64(p.CityLong),
	)
	return err
}

func (r *Repo) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	var p domain.Profile
	var username, fullName, website, avatar, city sql.NullString
	var lat, long sql.NullFloat64
	var updated sql.NullTime
	err := r.db.QueryRowContext(ctx, getProfileSQL, userID).Scan(
		&p.UserID,
		&username, &fullName, &website, &avatar,
		&city, &lat, &long,
		&updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Profile{}, err
	}
	p.Username = nullStr(username)
	p.FullName = nullStr(fullName)
	p.Website = nullStr(website)
	p.AvatarURL = nullStr(avatar)
	p.City = nullStr(city)
	p.CityLat = nullF64(lat)
	p.CityLong = nullF64(long)
	if updated.Valid {
		t := updated.Time
		p.UpdatedAt = &t
	}
	return p, nil
}
