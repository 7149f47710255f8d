package directory

import (
	"github.com/idilsaglam/restaurants/internal/model"
	"github.com/sirupsen/logrus"
)

// RenderedItem pairs the list entry and the marker of one committed restaurant.
type RenderedItem struct {
	Restaurant model.Restaurant
	URL        string
	Entry      EntryHandle
	Marker     MarkerHandle
}

// Synchronizer keeps the list view and the marker layer in 1:1
// correspondence with the committed restaurant set, and owns the
// favorite-toggle path. It must only be used from the event loop.
type Synchronizer struct {
	list    ListView
	markers MarkerLayer
	nav     Navigator
	writer  FavoriteWriter
	log     logrus.FieldLogger

	items     []*RenderedItem
	byID      map[int]*RenderedItem
	epoch     uint64
	favorites *FavoriteCache
}

// SyncOption configures a Synchronizer.
type SyncOption func(*Synchronizer)

// WithFailurePolicy sets what happens to the optimistic flag when a write fails.
func WithFailurePolicy(p FailurePolicy) SyncOption {
	return func(s *Synchronizer) { s.favorites.policy = p }
}

func NewSynchronizer(list ListView, markers MarkerLayer, nav Navigator, writer FavoriteWriter, log logrus.FieldLogger, opts ...SyncOption) *Synchronizer {
	s := &Synchronizer{
		list:      list,
		markers:   markers,
		nav:       nav,
		writer:    writer,
		log:       log.WithField("component", "view"),
		byID:      make(map[int]*RenderedItem),
		favorites: newFavoriteCache(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Commit replaces everything rendered with set. Old markers are removed
// and the list cleared before any new entry or marker is added.
func (s *Synchronizer) Commit(set []model.Restaurant) {
	for _, it := range s.items {
		it.Marker.Remove()
	}
	s.list.Clear()
	s.epoch++
	s.items = make([]*RenderedItem, 0, len(set))
	s.byID = make(map[int]*RenderedItem, len(set))

	for _, r := range set {
		if _, dup := s.byID[r.ID]; dup {
			s.log.WithField("restaurant_id", r.ID).Warn("duplicate restaurant in set, skipping")
			continue
		}
		s.render(r)
	}
}

func (s *Synchronizer) render(r model.Restaurant) {
	s.favorites.overlay(&r, s.epoch)
	url := RestaurantURL(r)
	it := &RenderedItem{Restaurant: r, URL: url}

	it.Entry = s.list.Append(ListEntry{
		ID:            r.ID,
		Name:          r.Name,
		Neighborhood:  r.Neighborhood,
		Address:       r.Address,
		Image:         Images(r),
		Favorite:      bool(r.IsFavorite),
		FavoriteLabel: FavoriteLabel(bool(r.IsFavorite)),
		DetailsURL:    url,
	})
	it.Marker = s.markers.AddMarker(Marker{
		ID:       r.ID,
		Title:    r.Name,
		Position: r.LatLng,
		URL:      url,
	})
	if got := it.Marker.URL(); got != url {
		s.log.WithFields(logrus.Fields{
			"restaurant_id": r.ID,
			"marker_url":    got,
			"url":           url,
		}).Error("marker url differs from list url")
	}
	it.Marker.On(EventClick, func() { s.nav.Navigate(it.URL) })

	s.items = append(s.items, it)
	s.byID[r.ID] = it
}

// Items returns the rendered items in commit order.
func (s *Synchronizer) Items() []RenderedItem {
	out := make([]RenderedItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, *it)
	}
	return out
}

// Restaurant returns the in-memory copy of a committed restaurant.
func (s *Synchronizer) Restaurant(id int) (model.Restaurant, bool) {
	it, ok := s.byID[id]
	if !ok {
		return model.Restaurant{}, false
	}
	return it.Restaurant, true
}

// ByURL finds the committed restaurant with the given detail URL.
func (s *Synchronizer) ByURL(url string) (model.Restaurant, bool) {
	for _, it := range s.items {
		if it.URL == url {
			return it.Restaurant, true
		}
	}
	return model.Restaurant{}, false
}

// Navigate opens the detail URL of a rendered restaurant, the same URL its
// list entry and marker carry.
func (s *Synchronizer) Navigate(id int) bool {
	it, ok := s.byID[id]
	if !ok {
		return false
	}
	s.nav.Navigate(it.URL)
	return true
}

// Len is the number of rendered items.
func (s *Synchronizer) Len() int { return len(s.items) }

// ToggleFavorite flips the flag of one rendered restaurant, updates only its
// favorite control, and returns the write to hand to Persist.
func (s *Synchronizer) ToggleFavorite(id int) (PersistJob, error) {
	it, ok := s.byID[id]
	if !ok {
		return PersistJob{}, ErrUnknownRestaurant
	}
	prev := bool(it.Restaurant.IsFavorite)
	fav := !prev
	it.Restaurant.IsFavorite = model.Flag(fav)
	it.Entry.SetFavorite(fav)

	job := s.favorites.begin(id, prev, fav, s.epoch)
	s.log.WithFields(logrus.Fields{
		"restaurant_id": id,
		"favorite":      fav,
		"request_id":    job.RequestID,
	}).Debug("favorite toggled")
	return job, nil
}

// FavoriteState reports the write-through state of a restaurant's flag.
func (s *Synchronizer) FavoriteState(id int) (WriteState, bool) {
	return s.favorites.state(id)
}

// FailurePolicy returns the configured policy for failed writes.
func (s *Synchronizer) FailurePolicy() FailurePolicy { return s.favorites.policy }
