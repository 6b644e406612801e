package explore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibescout/internal/domain"
	"vibescout/internal/explore"
)

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("location fetch did not finish")
	}
}

func TestSession_FocusLoadsLocation(t *testing.T) {
	s := explore.NewSession([]domain.Venue{venueA(), venueB()}, explore.NewViewState())
	wait(t, s.Focus(context.Background(), func(ctx context.Context) (*domain.UserLocation, error) {
		return bucharest, nil
	}))

	snap := s.Snapshot()
	require.NotNil(t, snap.Location)
	assert.Equal(t, []string{"2", "1"}, []string{snap.Venues[0].ID, snap.Venues[1].ID})
}

func TestSession_ResultAfterBlurIsDropped(t *testing.T) {
	s := explore.NewSession([]domain.Venue{venueA(), venueB()}, explore.NewViewState())
	release := make(chan struct{})
	done := s.Focus(context.Background(), func(ctx context.Context) (*domain.UserLocation, error) {
		<-release
		return bucharest, nil
	})

	s.Blur()
	close(release)
	wait(t, done)

	snap := s.Snapshot()
	assert.Nil(t, snap.Location)
	assert.Equal(t, "1", snap.Venues[0].ID, "no distance sort without a location")
}

func TestSession_BlurCancelsFetchContext(t *testing.T) {
	s := explore.NewSession(nil, explore.NewViewState())
	started := make(chan struct{})
	done := s.Focus(context.Background(), func(ctx context.Context) (*domain.UserLocation, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	<-started
	s.Blur()
	wait(t, done)
	assert.Nil(t, s.Snapshot().Location)
}

func TestSession_FetchFailureLeavesLocationNil(t *testing.T) {
	s := explore.NewSession([]domain.Venue{venueA()}, explore.NewViewState())
	wait(t, s.Focus(context.Background(), func(ctx context.Context) (*domain.UserLocation, error) {
		return nil, errors.New("profile store down")
	}))
	assert.Nil(t, s.Snapshot().Location)
}

func TestSession_TypingClearsFocus(t *testing.T) {
	s := explore.NewSession([]domain.Venue{venueA(), venueB()}, explore.NewViewState())

	snap, err := s.Apply(explore.Event{Type: explore.EventSelectMarker, VenueID: "2"})
	require.NoError(t, err)
	require.NotNil(t, snap.Preview)
	assert.Equal(t, "2", snap.Preview.ID)

	snap, err = s.Apply(explore.Event{Type: explore.EventQuery, Query: "Venue"})
	require.NoError(t, err)
	assert.Empty(t, snap.State.FocusedID)
	assert.Nil(t, snap.Preview)
	assert.Equal(t, explore.ViewMap, snap.State.View)
	assert.Equal(t, "Venue", snap.State.Query)

	_, err = s.Apply(explore.Event{Type: "teleport"})
	assert.ErrorIs(t, err, explore.ErrInvalidEvent)
	assert.Equal(t, "Venue", s.Snapshot().State.Query, "rejected events leave state untouched")
}
