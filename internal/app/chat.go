package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"vibescout/internal/domain"
	"vibescout/internal/explore"
)

// Replies shown to the user when the assistant cannot answer.
const (
	ReplyNoModel  = "I'm sorry, I can't chat right now because my brain (API Key) is missing. 🧠❌"
	ReplyEmpty    = "I'm having trouble thinking right now. 🤔"
	ReplyFailed   = "Oops! Something went wrong. Please try again later. 😅"
	maxHistoryLen = 40
)

var ErrInvalidChat = errors.New("invalid chat request")

const chatSystemPrompt = `You are VibeBot, the assistant of the VibeScout app. You help people pick a place to hang out.

Venues you know about (JSON):
%s

Rules:
1. Only recommend venues from the data above.
2. Be concise, friendly and use emojis.
3. Say so politely when you do not know.
4. When venues carry distanceKm, always say how far they are and prefer closer ones unless the user asks for a city or type.
5. Phrase distances naturally, e.g. "just 15 km away".
6. For "near me" or "close by", focus on venues within 50-100 km.
7. Without distanceKm values, remind the user they can set a home city in their profile.`

const vibeSystemPrompt = `You are a creative marketing copywriter. Rewrite the following venue description to be catchy, exciting and "vibey". Keep it under 50 words.`

type ChatService struct {
	q   *QueryService
	llm domain.ChatCompleter // nil when no API key is configured
}

func NewChatService(q *QueryService, llm domain.ChatCompleter) *ChatService {
	return &ChatService{q: q, llm: llm}
}

type venueContext struct {
	Name        string   `json:"name"`
	City        *string  `json:"city,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Rating      float64  `json:"rating"`
	Description string   `json:"description"`
	Features    []string `json:"features,omitempty"`
	Atmosphere  []string `json:"atmosphere,omitempty"`
	DistanceKm  *float64 `json:"distanceKm,omitempty"`
}

// VenueContext serializes the catalog for the model, closest venues first when
// loc is known.
func VenueContext(venues []domain.Venue, loc *domain.UserLocation) (string, error) {
	ranked := explore.Filter(venues, domain.FilterState{}, loc)
	out := make([]venueContext, 0, len(ranked))
	for _, v := range ranked {
		out = append(out, venueContext{
			Name:        v.Name,
			City:        v.City,
			Category:    v.Category,
			Rating:      v.Rating,
			Description: v.ShortDescription,
			Features:    v.Features,
			Atmosphere:  v.Atmosphere,
			DistanceKm:  v.DistanceFromUser,
		})
	}
	b, err := json.Marshal(out)
	return string(b), err
}

// Reply answers the last user message of history. Model and context failures
// become one of the canned replies; only a malformed history is an error.
func (s *ChatService) Reply(ctx context.Context, userID string, history []domain.ChatMessage) (string, error) {
	msgs, err := sanitizeHistory(history)
	if err != nil {
		return "", err
	}
	if s.llm == nil {
		return ReplyNoModel, nil
	}

	venues, err := s.q.Catalog(ctx)
	if err != nil {
		log.Error().Err(err).Msg("chat: load catalog failed")
		return ReplyFailed, nil
	}
	loc, err := s.q.UserLocation(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user", userID).Msg("chat: user location unavailable")
	}
	vctx, err := VenueContext(venues, loc)
	if err != nil {
		log.Error().Err(err).Msg("chat: encode venue context failed")
		return ReplyFailed, nil
	}

	prompt := append([]domain.ChatMessage{{Role: "system", Content: fmt.Sprintf(chatSystemPrompt, vctx)}}, msgs...)
	out, err := s.llm.Complete(ctx, prompt)
	if errors.Is(err, domain.ErrEmptyReply) || (err == nil && strings.TrimSpace(out) == "") {
		return ReplyEmpty, nil
	}
	if err != nil {
		log.Warn().Err(err).Msg("chat: completion failed")
		return ReplyFailed, nil
	}
	return out, nil
}

// sanitizeHistory keeps the most recent user/assistant turns. Client-sent
// system messages are dropped; the last message must come from the user.
func sanitizeHistory(history []domain.ChatMessage) ([]domain.ChatMessage, error) {
	out := make([]domain.ChatMessage, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case "user", "assistant":
			out = append(out, m)
		case "system":
		default:
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidChat, m.Role)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no messages", ErrInvalidChat)
	}
	last := out[len(out)-1]
	if last.Role != "user" || strings.TrimSpace(last.Content) == "" {
		return nil, fmt.Errorf("%w: last message must be a non-empty user message", ErrInvalidChat)
	}
	if len(out) > maxHistoryLen {
		out = out[len(out)-maxHistoryLen:]
	}
	return out, nil
}

// Vibe rewrites a venue's short description. Any model problem falls back to
// the original text.
func (s *ChatService) Vibe(ctx context.Context, venueID string) (string, error) {
	v, err := s.q.GetVenue(ctx, venueID, nil)
	if err != nil {
		return "", err
	}
	if s.llm == nil {
		return v.ShortDescription, nil
	}
	out, err := s.llm.Complete(ctx, []domain.ChatMessage{
		{Role: "system", Content: vibeSystemPrompt},
		{Role: "user", Content: v.ShortDescription},
	})
	if err != nil || strings.TrimSpace(out) == "" {
		log.Warn().Err(err).Str("venue", venueID).Msg("vibe: falling back to original description")
		return v.ShortDescription, nil
	}
	return out, nil
}
