package directory

import "github.com/idilsaglam/restaurants/internal/model"

// EventClick is the marker event that navigates to the detail page.
const EventClick = "click"

// ListEntry is what a list view shows for one restaurant.
type ListEntry struct {
	ID            int
	Name          string
	Neighborhood  string
	Address       string
	Image         ImageSet
	Favorite      bool
	FavoriteLabel string
	DetailsURL    string
}

// EntryHandle addresses one rendered list entry.
type EntryHandle interface {
	SetFavorite(favorite bool)
}

// ListView is the restaurant list container.
type ListView interface {
	Clear()
	Append(entry ListEntry) EntryHandle
}

// Marker is what the map shows for one restaurant.
type Marker struct {
	ID       int
	Title    string
	Position model.LatLng
	URL      string
}

// MarkerHandle addresses one marker on the map.
type MarkerHandle interface {
	On(event string, fn func())
	Remove()
	URL() string
}

// MarkerLayer places markers on the map.
type MarkerLayer interface {
	AddMarker(m Marker) MarkerHandle
}

// Navigator opens a detail URL.
type Navigator interface {
	Navigate(url string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(url string)

func (f NavigatorFunc) Navigate(url string) { f(url) }
