package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"vibescout/internal/app"
	"vibescout/internal/domain"
	"vibescout/internal/explore"
	"vibescout/internal/geo"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Q *app.QueryService
	P *app.ProfileService
	C *app.ChatService
	E *app.ExploreService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/v1", func(r chi.Router) {
		r.Use(UserID)
		r.Get("/cities", h.listCities)
		r.Get("/venues", h.listVenues)
		r.Get("/venues/{id}", h.getVenue)
		r.Post("/venues/{id}/vibe", h.vibe)
		r.Get("/profile", h.getProfile)
		r.Put("/profile", h.putProfile)
		r.Post("/chat", h.chat)
		r.Post("/explore/sessions", h.openSession)
		r.Get("/explore/sessions/{sid}", h.getSession)
		r.Post("/explore/sessions/{sid}/events", h.sessionEvent)
		r.Delete("/explore/sessions/{sid}", h.closeSession)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", what+" not found")
	case errors.Is(err, domain.ErrInvalidProfile),
		errors.Is(err, app.ErrInvalidChat),
		errors.Is(err, explore.ErrInvalidEvent):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	default:
		log.Error().Err(err).Str("what", what).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached answers GETs with a weak ETag and honors If-None-Match.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// decodeBody reads a JSON body into dst. An empty body leaves dst untouched
// when allowEmpty is set.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}
	writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
	return false
}

// location resolves the caller's home city. A failing profile lookup only
// disables distance features.
func (h *Handlers) location(r *http.Request) *domain.UserLocation {
	uid := userFrom(r.Context())
	loc, err := h.Q.UserLocation(r.Context(), uid)
	if err != nil {
		log.Warn().Err(err).Str("user", uid).Msg("user location unavailable")
		return nil
	}
	return loc
}

func (h *Handlers) listCities(w http.ResponseWriter, r *http.Request) {
	writeCached(w, r, geo.Cities())
}

// parseFilters reads the venue filter query. List parameters may repeat or
// carry comma-separated values.
func parseFilters(r *http.Request) (domain.FilterState, error) {
	q := r.URL.Query()
	fs := domain.FilterState{
		Query:       strings.TrimSpace(q.Get("q")),
		Cities:      multi(q["city"]),
		Categories:  multi(q["category"]),
		Cuisines:    multi(q["cuisine"]),
		Atmospheres: multi(q["atmosphere"]),
		Features:    multi(q["feature"]),
	}
	var err error
	if fs.MinRating, err = optFloat(q.Get("min_rating"), 0, 5); err != nil {
		return fs, errors.New("min_rating must be a number between 0 and 5")
	}
	if fs.MaxDistance, err = optFloat(q.Get("max_distance"), 0, 20037); err != nil {
		return fs, errors.New("max_distance must be a non-negative number of km")
	}
	return fs, nil
}

func multi(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func optFloat(s string, lo, hi float64) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < lo || f > hi {
		return nil, errors.New("out of range")
	}
	return &f, nil
}

func (h *Handlers) listVenues(w http.ResponseWriter, r *http.Request) {
	fs, err := parseFilters(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}
	rows, err := h.Q.ListVenues(r.Context(), h.location(r), fs)
	if err != nil {
		writeError(w, err, "venues")
		return
	}
	w.Header().Set("Vary", UserHeader)
	writeCached(w, r, rows)
}

func (h *Handlers) getVenue(w http.ResponseWriter, r *http.Request) {
	row, err := h.Q.GetVenue(r.Context(), chi.URLParam(r, "id"), h.location(r))
	if err != nil {
		writeError(w, err, "venue")
		return
	}
	w.Header().Set("Vary", UserHeader)
	writeCached(w, r, row)
}

func (h *Handlers) vibe(w http.ResponseWriter, r *http.Request) {
	out, err := h.C.Vibe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, "venue")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"description": out})
}

func (h *Handlers) getProfile(w http.ResponseWriter, r *http.Request) {
	uid := userFrom(r.Context())
	if uid == "" {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "X-User-ID header required")
		return
	}
	p, err := h.Q.Profile(r.Context(), uid)
	if err != nil {
		writeError(w, err, "profile")
		return
	}
	w.Header().Set("Vary", UserHeader)
	writeCached(w, r, p)
}

func (h *Handlers) putProfile(w http.ResponseWriter, r *http.Request) {
	uid := userFrom(r.Context())
	if uid == "" {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "X-User-ID header required")
		return
	}
	var p domain.Profile
	if !decodeBody(w, r, &p, false) {
		return
	}
	p.UserID = uid
	out, err := h.P.Upsert(r.Context(), p)
	if err != nil {
		writeError(w, err, "profile")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type chatRequest struct {
	Messages []domain.ChatMessage `json:"messages"`
}

func (h *Handlers) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	reply, err := h.C.Reply(r.Context(), userFrom(r.Context()), req.Messages)
	if err != nil {
		writeError(w, err, "chat")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

type openSessionRequest struct {
	View    explore.View       `json:"view"`
	Query   string             `json:"query"`
	Filters domain.FilterState `json:"filters"`
}

type sessionResponse struct {
	ID string `json:"id"`
	explore.Snapshot
}

func (h *Handlers) openSession(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if !decodeBody(w, r, &req, true) {
		return
	}
	initial := explore.NewViewState().WithFilters(req.Filters)
	if req.View != "" {
		if !req.View.Valid() {
			writeProblem(w, http.StatusBadRequest, "Invalid view", "view must be map or list")
			return
		}
		initial = initial.SwitchView(req.View)
	}
	// the query may also arrive inside filters
	initial.Query = req.Query
	if initial.Query == "" {
		initial.Query = req.Filters.Query
	}

	id, snap, err := h.E.Open(r.Context(), userFrom(r.Context()), initial)
	if err != nil {
		writeError(w, err, "session")
		return
	}
	w.Header().Set("Location", "/v1/explore/sessions/"+id)
	writeJSON(w, http.StatusCreated, sessionResponse{ID: id, Snapshot: snap})
}

func (h *Handlers) getSession(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	snap, err := h.E.Get(sid, userFrom(r.Context()))
	if err != nil {
		writeError(w, err, "session")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: sid, Snapshot: snap})
}

func (h *Handlers) sessionEvent(w http.ResponseWriter, r *http.Request) {
	var ev explore.Event
	if !decodeBody(w, r, &ev, false) {
		return
	}
	sid := chi.URLParam(r, "sid")
	snap, err := h.E.Apply(sid, userFrom(r.Context()), ev)
	if err != nil {
		writeError(w, err, "session")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: sid, Snapshot: snap})
}

func (h *Handlers) closeSession(w http.ResponseWriter, r *http.Request) {
	if err := h.E.Close(chi.URLParam(r, "sid"), userFrom(r.Context())); err != nil {
		writeError(w, err, "session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
