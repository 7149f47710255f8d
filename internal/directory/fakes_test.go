package directory

import (
	"context"

	"github.com/idilsaglam/restaurants/internal/model"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Neighborhoods(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]string)
	return v, args.Error(1)
}

func (m *mockSource) Cuisines(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]string)
	return v, args.Error(1)
}

func (m *mockSource) RestaurantsByCuisineAndNeighborhood(ctx context.Context, cuisine, neighborhood string) ([]model.Restaurant, error) {
	args := m.Called(ctx, cuisine, neighborhood)
	v, _ := args.Get(0).([]model.Restaurant)
	return v, args.Error(1)
}

func (m *mockSource) UpdateFavoriteStatus(ctx context.Context, id int, favorite bool) error {
	return m.Called(ctx, id, favorite).Error(0)
}

type fakeEntry struct {
	entry    ListEntry
	sets     int
	detached bool
}

func (e *fakeEntry) SetFavorite(fav bool) {
	e.entry.Favorite = fav
	e.entry.FavoriteLabel = FavoriteLabel(fav)
	e.sets++
}

type fakeList struct {
	entries []*fakeEntry
	clears  int
}

func (l *fakeList) Clear() {
	for _, e := range l.entries {
		e.detached = true
	}
	l.entries = nil
	l.clears++
}

func (l *fakeList) Append(entry ListEntry) EntryHandle {
	e := &fakeEntry{entry: entry}
	l.entries = append(l.entries, e)
	return e
}

func (l *fakeList) ids() []int {
	out := make([]int, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e.entry.ID)
	}
	return out
}

func (l *fakeList) byID(id int) *fakeEntry {
	for _, e := range l.entries {
		if e.entry.ID == id {
			return e
		}
	}
	return nil
}

type fakeMarker struct {
	layer    *fakeLayer
	marker   Marker
	url      string
	handlers map[string][]func()
	removed  bool
}

func (m *fakeMarker) On(event string, fn func()) {
	m.handlers[event] = append(m.handlers[event], fn)
}

func (m *fakeMarker) Remove() {
	m.removed = true
	for i, other := range m.layer.markers {
		if other == m {
			m.layer.markers = append(m.layer.markers[:i], m.layer.markers[i+1:]...)
			break
		}
	}
}

func (m *fakeMarker) URL() string { return m.url }

func (m *fakeMarker) fire(event string) {
	for _, fn := range m.handlers[event] {
		fn()
	}
}

type fakeLayer struct {
	markers []*fakeMarker
	// rewrite, when set, changes the url a marker reports.
	rewrite func(string) string
}

func (l *fakeLayer) AddMarker(m Marker) MarkerHandle {
	url := m.URL
	if l.rewrite != nil {
		url = l.rewrite(url)
	}
	fm := &fakeMarker{layer: l, marker: m, url: url, handlers: make(map[string][]func())}
	l.markers = append(l.markers, fm)
	return fm
}

func (l *fakeLayer) ids() []int {
	out := make([]int, 0, len(l.markers))
	for _, m := range l.markers {
		out = append(out, m.marker.ID)
	}
	return out
}

func (l *fakeLayer) byID(id int) *fakeMarker {
	for _, m := range l.markers {
		if m.marker.ID == id {
			return m
		}
	}
	return nil
}

type fakeNav struct {
	visited []string
}

func (n *fakeNav) Navigate(url string) { n.visited = append(n.visited, url) }

type harness struct {
	src    *mockSource
	list   *fakeList
	layer  *fakeLayer
	nav    *fakeNav
	hook   *test.Hook
	log    *logrus.Logger
	sync   *Synchronizer
	filter *FilterController
}

func newHarness(opts ...SyncOption) *harness {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	h := &harness{
		src:   &mockSource{},
		list:  &fakeList{},
		layer: &fakeLayer{},
		nav:   &fakeNav{},
		hook:  hook,
		log:   log,
	}
	h.sync = NewSynchronizer(h.list, h.layer, h.nav, h.src, log, opts...)
	h.filter = NewFilterController(h.src, h.sync, log)
	return h
}

func (h *harness) errorEntries() []*logrus.Entry {
	var out []*logrus.Entry
	for _, e := range h.hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			out = append(out, e)
		}
	}
	return out
}

func restaurants(ids ...int) []model.Restaurant {
	names := map[int]string{
		1: "Mission Chinese Food",
		2: "Emily",
		3: "Kang Ho Dong Baekjeong",
		4: "Katz's Delicatessen",
		5: "Roberta's Pizza",
		7: "Superiority Burger",
	}
	out := make([]model.Restaurant, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Restaurant{
			ID:           id,
			Name:         names[id],
			Neighborhood: "Manhattan",
			Address:      "171 E Broadway, New York, NY 10002",
			CuisineType:  "Asian",
			LatLng:       model.LatLng{Lat: 40.7 + float64(id)/100, Lng: -73.9 - float64(id)/100},
		})
	}
	return out
}
