package explore

import (
	"time"

	"vibescout/internal/catalog"
	"vibescout/internal/domain"
	"vibescout/internal/geo"
)

type View string

const (
	ViewMap  View = "map"
	ViewList View = "list"
)

func (v View) Valid() bool { return v == ViewMap || v == ViewList }

const (
	FocusZoom       = 15
	FlyDuration     = time.Second
	SuggestionLimit = 5
)

// ViewState is the explore screen's interactive state. Transitions return a new
// value; the receiver is never modified.
type ViewState struct {
	View               View               `json:"view"`
	Query              string             `json:"query"`
	FocusedID          string             `json:"focused_id,omitempty"`
	SuggestionsVisible bool               `json:"suggestions_visible"`
	Filters            domain.FilterState `json:"filters"`
}

func NewViewState() ViewState {
	return ViewState{View: ViewMap}
}

// WithQuery starts a fresh search: the focused venue is dropped and the
// suggestion overlay follows whether there is anything typed.
func (s ViewState) WithQuery(q string) ViewState {
	s.Query = q
	s.FocusedID = ""
	s.SuggestionsVisible = q != ""
	return s
}

// SelectSuggestion focuses a venue and forces the map so it can recenter.
func (s ViewState) SelectSuggestion(id string) ViewState {
	s.FocusedID = id
	s.View = ViewMap
	s.SuggestionsVisible = false
	return s
}

// SelectMarker focuses a venue tapped on the map.
func (s ViewState) SelectMarker(id string) ViewState {
	s.FocusedID = id
	return s
}

func (s ViewState) Dismiss() ViewState {
	s.FocusedID = ""
	return s
}

// SwitchView keeps the focused venue; it is just not shown in list view.
func (s ViewState) SwitchView(v View) ViewState {
	s.View = v
	return s
}

func (s ViewState) WithFilters(fs domain.FilterState) ViewState {
	fs.Query = ""
	s.Filters = fs
	return s
}

// Row is a venue plus its display distance.
type Row struct {
	domain.Venue
	DistanceLabel string `json:"distance_label,omitempty"`
}

type Marker struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Camera is a fly-to target. OpenCalloutID names the marker whose callout opens
// once the animation has settled.
type Camera struct {
	Lat           float64       `json:"lat"`
	Lon           float64       `json:"lon"`
	Zoom          int           `json:"zoom"`
	FlyDuration   time.Duration `json:"fly_duration"`
	OpenCalloutID string        `json:"open_callout_id"`
}

// Snapshot is everything the rendering layer needs for one frame.
type Snapshot struct {
	State       ViewState            `json:"state"`
	Location    *domain.UserLocation `json:"location,omitempty"`
	Venues      []Row                `json:"venues"`
	Suggestions []Row                `json:"suggestions,omitempty"`
	Markers     []Marker             `json:"markers,omitempty"`
	Preview     *Row                 `json:"preview,omitempty"`
	Camera      *Camera              `json:"camera,omitempty"`
}

// Render derives a snapshot from scratch. The focused venue is resolved against
// the whole catalog so a preview survives filters that hide it from the list.
func Render(s ViewState, venues []domain.Venue, loc *domain.UserLocation) Snapshot {
	fs := s.Filters
	fs.Query = s.Query
	filtered := Filter(venues, fs, loc)

	snap := Snapshot{State: s, Location: loc, Venues: Rows(filtered)}
	if s.SuggestionsVisible {
		snap.Suggestions = Rows(Suggestions(filtered, s.Query, SuggestionLimit))
	}
	if s.View != ViewMap {
		return snap
	}

	snap.Markers = make([]Marker, 0, len(filtered))
	for _, v := range filtered {
		snap.Markers = append(snap.Markers, Marker{ID: v.ID, Name: v.Name, Lat: v.Coords.Lat, Lon: v.Coords.Lon})
	}

	if s.FocusedID == "" {
		return snap
	}
	for _, v := range catalog.WithDistances(venues, loc) {
		if v.ID != s.FocusedID {
			continue
		}
		r := RowOf(v)
		snap.Preview = &r
		snap.Camera = &Camera{
			Lat:           v.Coords.Lat,
			Lon:           v.Coords.Lon,
			Zoom:          FocusZoom,
			FlyDuration:   FlyDuration,
			OpenCalloutID: v.ID,
		}
		break
	}
	return snap
}

func Rows(vs []domain.Venue) []Row {
	out := make([]Row, 0, len(vs))
	for _, v := range vs {
		out = append(out, RowOf(v))
	}
	return out
}

// RowOf labels v's distance when it has one.
func RowOf(v domain.Venue) Row {
	r := Row{Venue: v}
	if v.DistanceFromUser != nil {
		r.DistanceLabel = geo.DistanceLabel(*v.DistanceFromUser)
	}
	return r
}
