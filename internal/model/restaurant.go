package model

import (
	"errors"
	"strings"
)

// All is the wildcard value for a filter dimension.
const All = "all"

// IsAll reports whether v is the wildcard. Empty counts, and case is ignored.
func IsAll(v string) bool { return v == "" || strings.EqualFold(v, All) }

// LatLng is a map coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Restaurant is the domain record owned by the data layer.
type Restaurant struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Neighborhood string `json:"neighborhood"`
	Photograph   string `json:"photograph,omitempty"`
	Address      string `json:"address"`
	LatLng       LatLng `json:"latlng"`
	CuisineType  string `json:"cuisine_type"`
	IsFavorite   Flag   `json:"is_favorite"`
}

// Matches reports whether r passes both filter dimensions.
// All (or an empty value) matches everything.
func (r Restaurant) Matches(cuisine, neighborhood string) bool {
	if !IsAll(cuisine) && r.CuisineType != cuisine {
		return false
	}
	if !IsAll(neighborhood) && r.Neighborhood != neighborhood {
		return false
	}
	return true
}

// Filter returns the restaurants matching cuisine and neighborhood, in input order.
func Filter(rs []Restaurant, cuisine, neighborhood string) []Restaurant {
	out := make([]Restaurant, 0, len(rs))
	for _, r := range rs {
		if r.Matches(cuisine, neighborhood) {
			out = append(out, r)
		}
	}
	return out
}

// Neighborhoods returns the unique neighborhoods in first-seen order.
func Neighborhoods(rs []Restaurant) []string {
	return distinct(rs, func(r Restaurant) string { return r.Neighborhood })
}

// Cuisines returns the unique cuisine types in first-seen order.
func Cuisines(rs []Restaurant) []string {
	return distinct(rs, func(r Restaurant) string { return r.CuisineType })
}

func distinct(rs []Restaurant, field func(Restaurant) string) []string {
	seen := make(map[string]struct{}, len(rs))
	out := make([]string, 0)
	for _, r := range rs {
		v := field(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ErrNotFound is returned by data layers for unknown restaurant ids.
var ErrNotFound = errors.New("restaurant not found")
