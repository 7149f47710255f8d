package directory

import (
	"context"

	"github.com/idilsaglam/restaurants/internal/model"
)

// All is the wildcard value for either filter dimension.
const All = model.All

// DataSource is the data layer the core reads from and writes favorites to.
// Implementations may block; the core only calls them from Fetch, LoadReference
// and Persist, never from state-mutating methods.
type DataSource interface {
	Neighborhoods(ctx context.Context) ([]string, error)
	Cuisines(ctx context.Context) ([]string, error)
	RestaurantsByCuisineAndNeighborhood(ctx context.Context, cuisine, neighborhood string) ([]model.Restaurant, error)
	FavoriteWriter
}

// FavoriteWriter persists a favorite flag.
type FavoriteWriter interface {
	UpdateFavoriteStatus(ctx context.Context, id int, favorite bool) error
}

// Selection is the user's (neighborhood, cuisine) filter pair.
type Selection struct {
	Neighborhood string
	Cuisine      string
}

// AllSelection is the initial selection.
func AllSelection() Selection {
	return Selection{Neighborhood: All, Cuisine: All}
}

// Normalize maps empty dimensions, and any casing of "all", to All.
func (s Selection) Normalize() Selection {
	if model.IsAll(s.Neighborhood) {
		s.Neighborhood = All
	}
	if model.IsAll(s.Cuisine) {
		s.Cuisine = All
	}
	return s
}

// Label is the display text for an option value.
func Label(v string) string {
	if model.IsAll(v) {
		return "All"
	}
	return v
}
