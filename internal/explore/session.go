package explore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"vibescout/internal/domain"
)

type EventType string

const (
	EventQuery            EventType = "query"
	EventSelectSuggestion EventType = "select_suggestion"
	EventSelectMarker     EventType = "select_marker"
	EventDismiss          EventType = "dismiss"
	EventSetView          EventType = "set_view"
	EventSetFilters       EventType = "set_filters"
)

var ErrInvalidEvent = errors.New("explore: invalid event")

type Event struct {
	Type    EventType           `json:"type"`
	Query   string              `json:"query,omitempty"`
	VenueID string              `json:"venue_id,omitempty"`
	View    View                `json:"view,omitempty"`
	Filters *domain.FilterState `json:"filters,omitempty"`
}

// Reduce applies one event to s.
func Reduce(s ViewState, ev Event) (ViewState, error) {
	switch ev.Type {
	case EventQuery:
		return s.WithQuery(ev.Query), nil
	case EventSelectSuggestion:
		if ev.VenueID == "" {
			return s, fmt.Errorf("%w: venue_id required", ErrInvalidEvent)
		}
		return s.SelectSuggestion(ev.VenueID), nil
	case EventSelectMarker:
		if ev.VenueID == "" {
			return s, fmt.Errorf("%w: venue_id required", ErrInvalidEvent)
		}
		return s.SelectMarker(ev.VenueID), nil
	case EventDismiss:
		return s.Dismiss(), nil
	case EventSetView:
		if !ev.View.Valid() {
			return s, fmt.Errorf("%w: unknown view %q", ErrInvalidEvent, ev.View)
		}
		return s.SwitchView(ev.View), nil
	case EventSetFilters:
		if ev.Filters == nil {
			return s.WithFilters(domain.FilterState{}), nil
		}
		return s.WithFilters(*ev.Filters), nil
	default:
		return s, fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, ev.Type)
	}
}

// LocationFetcher loads the user's home location; nil means none is set.
type LocationFetcher func(ctx context.Context) (*domain.UserLocation, error)

// Session is one open explore screen. The user location is fetched in the
// background under a lifetime token: a result that lands after Blur, or after a
// newer Focus, is dropped.
type Session struct {
	mu       sync.Mutex
	venues   []domain.Venue
	state    ViewState
	loc      *domain.UserLocation
	gen      uint64
	cancel   context.CancelFunc
	lastUsed time.Time
}

func NewSession(venues []domain.Venue, initial ViewState) *Session {
	if !initial.View.Valid() {
		initial.View = ViewMap
	}
	return &Session{venues: venues, state: initial, lastUsed: time.Now()}
}

// Focus starts a location fetch bound to a fresh lifetime token. The returned
// channel closes once the fetch has finished, whether or not it was applied.
func (s *Session) Focus(parent context.Context, fetch LocationFetcher) <-chan struct{} {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.lastUsed = time.Now()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		loc, err := fetch(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen {
			log.Debug().Uint64("gen", gen).Msg("explore: stale location result dropped")
			return
		}
		if err != nil {
			log.Warn().Err(err).Msg("explore: location fetch failed")
			return
		}
		s.loc = loc
	}()
	return done
}

// Blur invalidates the current lifetime token and cancels any fetch in flight.
func (s *Session) Blur() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) Apply(ev Event) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := Reduce(s.state, ev)
	if err != nil {
		return Snapshot{}, err
	}
	s.state = next
	s.lastUsed = time.Now()
	return Render(s.state, s.venues, s.loc), nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return Render(s.state, s.venues, s.loc)
}

func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}
