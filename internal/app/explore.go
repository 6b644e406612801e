package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"vibescout/internal/adapters/observability"
	"vibescout/internal/domain"
	"vibescout/internal/explore"
)

type exploreEntry struct {
	userID  string
	session *explore.Session
}

// ExploreService keeps the open explore sessions in memory. Sessions belong to
// the user who opened them.
type ExploreService struct {
	q      *QueryService
	base   context.Context
	settle time.Duration

	mu       sync.Mutex
	sessions map[string]exploreEntry
}

// NewExploreService ties every session's background work to base. settle is how
// long Open waits for the location fetch before rendering the first frame.
func NewExploreService(base context.Context, q *QueryService, settle time.Duration) *ExploreService {
	return &ExploreService{q: q, base: base, settle: settle, sessions: map[string]exploreEntry{}}
}

func (e *ExploreService) Open(ctx context.Context, userID string, initial explore.ViewState) (string, explore.Snapshot, error) {
	venues, err := e.q.Catalog(ctx)
	if err != nil {
		return "", explore.Snapshot{}, err
	}
	if initial.Query != "" {
		initial = initial.WithQuery(initial.Query)
	}
	s := explore.NewSession(venues, initial)
	done := s.Focus(e.base, func(ctx context.Context) (*domain.UserLocation, error) {
		return e.q.UserLocation(ctx, userID)
	})

	id := uuid.NewString()
	e.mu.Lock()
	e.sessions[id] = exploreEntry{userID: userID, session: s}
	observability.SetExploreSessions(len(e.sessions))
	e.mu.Unlock()

	if e.settle > 0 {
		t := time.NewTimer(e.settle)
		defer t.Stop()
		select {
		case <-done:
		case <-t.C:
		case <-ctx.Done():
		}
	}
	return id, s.Snapshot(), nil
}

func (e *ExploreService) lookup(id, userID string) (*explore.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.sessions[id]
	if !ok || ent.userID != userID {
		return nil, domain.ErrNotFound
	}
	return ent.session, nil
}

func (e *ExploreService) Get(id, userID string) (explore.Snapshot, error) {
	s, err := e.lookup(id, userID)
	if err != nil {
		return explore.Snapshot{}, err
	}
	return s.Snapshot(), nil
}

func (e *ExploreService) Apply(id, userID string, ev explore.Event) (explore.Snapshot, error) {
	s, err := e.lookup(id, userID)
	if err != nil {
		return explore.Snapshot{}, err
	}
	return s.Apply(ev)
}

// Close tears a session down; a location fetch still in flight is discarded.
func (e *ExploreService) Close(id, userID string) error {
	e.mu.Lock()
	ent, ok := e.sessions[id]
	if !ok || ent.userID != userID {
		e.mu.Unlock()
		return domain.ErrNotFound
	}
	delete(e.sessions, id)
	observability.SetExploreSessions(len(e.sessions))
	e.mu.Unlock()

	ent.session.Blur()
	return nil
}

// Sweep closes sessions idle for longer than idle and reports how many went.
func (e *ExploreService) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)
	var stale []*explore.Session

	e.mu.Lock()
	for id, ent := range e.sessions {
		if ent.session.LastUsed().Before(cutoff) {
			stale = append(stale, ent.session)
			delete(e.sessions, id)
		}
	}
	observability.SetExploreSessions(len(e.sessions))
	e.mu.Unlock()

	for _, s := range stale {
		s.Blur()
	}
	return len(stale)
}
