package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"
)

// RawVenue is one record of the venue dataset. Records carry no id; the id is
// their 1-based position.
type RawVenue struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Coordinates struct {
		Lat  float64 `json:"lat"`
		Long float64 `json:"long"`
	} `json:"coordinates"`
	ImageURL         string  `json:"image_url"`
	ShortDescription string  `json:"short_description"`
	Rating           float64 `json:"rating"`
}

// Metadata is one record of the classification dataset, keyed by the synthetic
// venue id.
type Metadata struct {
	ID         string   `json:"id"`
	City       *string  `json:"city,omitempty"`
	Category   *string  `json:"category,omitempty"`
	Cuisine    []string `json:"cuisine,omitempty"`
	Atmosphere []string `json:"atmosphere,omitempty"`
	Features   []string `json:"features,omitempty"`
}

func LoadVenues(r io.Reader) ([]RawVenue, error) {
	var out []RawVenue
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode venues: %w", err)
	}
	return out, nil
}

func LoadMetadata(r io.Reader) ([]Metadata, error) {
	var out []Metadata
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return out, nil
}

// LoadFiles reads both datasets from disk.
func LoadFiles(venuesPath, metadataPath string) ([]RawVenue, []Metadata, error) {
	vf, err := os.Open(venuesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open %q: %w", venuesPath, err)
	}
	defer vf.Close()
	venues, err := LoadVenues(vf)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", venuesPath, err)
	}

	mf, err := os.Open(metadataPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open %q: %w", metadataPath, err)
	}
	defer mf.Close()
	meta, err := LoadMetadata(mf)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", metadataPath, err)
	}
	return venues, meta, nil
}

// CheckMetadata drops records that can never join (blank or duplicate id) and
// returns the kept records together with one error per dropped record. The
// error is informational; merging the kept records is always safe.
func CheckMetadata(meta []Metadata) ([]Metadata, error) {
	var errs error
	seen := make(map[string]struct{}, len(meta))
	kept := make([]Metadata, 0, len(meta))
	for i, m := range meta {
		id := strings.TrimSpace(m.ID)
		if id == "" {
			errs = multierr.Append(errs, fmt.Errorf("metadata[%d]: empty id", i))
			continue
		}
		if _, dup := seen[id]; dup {
			errs = multierr.Append(errs, fmt.Errorf("metadata[%d]: duplicate id %q", i, id))
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, m)
	}
	return kept, errs
}
