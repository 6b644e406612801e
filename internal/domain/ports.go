package domain

import "context"

type VenueRepository interface {
	// Write paths
	UpsertVenue(ctx context.Context, position int, v Venue) error

	// Read paths
	ListVenues(ctx context.Context) ([]Venue, error)
	GetVenue(ctx context.Context, id string) (Venue, error)
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (Profile, error)
	UpsertProfile(ctx context.Context, p Profile) error
}

// ChatCompleter sends an ordered message history to a chat-completion model and
// returns the assistant's reply text.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
