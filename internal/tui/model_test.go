package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/restaurants/internal/directory"
	"github.com/idilsaglam/restaurants/internal/model"
	"github.com/idilsaglam/restaurants/internal/store/jsonstore"
)

var seed = []model.Restaurant{
	{ID: 1, Name: "Mission Chinese Food", Neighborhood: "Manhattan", CuisineType: "Asian", Address: "171 E Broadway", LatLng: model.LatLng{Lat: 40.713829, Lng: -73.989667}},
	{ID: 2, Name: "Emily", Neighborhood: "Brooklyn", CuisineType: "Pizza", Address: "919 Fulton St", LatLng: model.LatLng{Lat: 40.683555, Lng: -73.966393}},
	{ID: 3, Name: "Kang Ho Dong Baekjeong", Neighborhood: "Manhattan", CuisineType: "Asian", Address: "1 E 32nd St", LatLng: model.LatLng{Lat: 40.747143, Lng: -73.985414}},
	{ID: 4, Name: "Casa Enrique", Neighborhood: "Queens", CuisineType: "Mexican", Address: "5-48 49th Ave", LatLng: model.LatLng{Lat: 40.743394, Lng: -73.954235}},
}

func newStore(t *testing.T) *jsonstore.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "restaurants.json")
	require.NoError(t, jsonstore.Save(path, seed))
	s, err := jsonstore.Open(path)
	require.NoError(t, err)
	return s
}

// brokenSource fails the calls it is told to fail.
type brokenSource struct {
	*jsonstore.Store
	neighborhoods bool
	writes        bool
}

var errBroken = errors.New("backend down")

func (b *brokenSource) Neighborhoods(ctx context.Context) ([]string, error) {
	if b.neighborhoods {
		return nil, errBroken
	}
	return b.Store.Neighborhoods(ctx)
}

func (b *brokenSource) UpdateFavoriteStatus(ctx context.Context, id int, fav bool) error {
	if b.writes {
		return errBroken
	}
	return b.Store.UpdateFavoriteStatus(ctx, id, fav)
}

func newModel(t *testing.T, src directory.DataSource, policy directory.FailurePolicy) *Model {
	t.Helper()
	log, _ := test.NewNullLogger()
	m := New(testContext(t), src, Options{
		Selection: directory.AllSelection(),
		Policy:    policy,
		Center:    model.LatLng{Lat: 40.722216, Lng: -73.987501},
		Zoom:      12,
		Log:       log,
	})
	drain(m, m.Init())
	return m
}

// drain runs cmd and feeds back the messages the browser produces itself.
func drain(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			drain(m, c)
		}
	case referenceMsg, resultMsg, persistMsg:
		_, next := m.Update(msg)
		drain(m, next)
	}
}

func press(m *Model, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func ids(m *Model) []int {
	var out []int
	for _, e := range m.lv.Entries() {
		out = append(out, e.ID)
	}
	return out
}

func TestInitRendersEverything(t *testing.T) {
	m := newModel(t, newStore(t), directory.KeepOptimistic)

	assert.Equal(t, []int{1, 2, 3, 4}, ids(m))
	assert.Equal(t, 4, m.mapv.Len())
	assert.Equal(t, directory.Committed, m.filter.Phase())
	assert.Contains(t, m.filterBar(), "Neighborhood: ‹ All ›")
	assert.Contains(t, m.View(), "Mission Chinese Food")
}

func TestCyclingNeighborhoodRefilters(t *testing.T) {
	m := newModel(t, newStore(t), directory.KeepOptimistic)

	drain(m, press(m, "n"))
	assert.Equal(t, "Manhattan", m.Selection().Neighborhood)
	assert.Equal(t, []int{1, 3}, ids(m))
	assert.Equal(t, 2, m.mapv.Len())

	drain(m, press(m, "c"))
	assert.Equal(t, "Asian", m.Selection().Cuisine)
	assert.Equal(t, []int{1, 3}, ids(m))

	drain(m, press(m, "N"))
	assert.Equal(t, directory.All, m.Selection().Neighborhood)
	assert.Equal(t, []int{1, 3}, ids(m))
}

func TestOnlyLatestSelectionCommits(t *testing.T) {
	m := newModel(t, newStore(t), directory.KeepOptimistic)

	manhattan := press(m, "n")
	brooklyn := press(m, "n")
	require.NotNil(t, manhattan)
	require.NotNil(t, brooklyn)

	late := manhattan()
	drain(m, func() tea.Msg { return brooklyn() })
	assert.Equal(t, []int{2}, ids(m))

	m.Update(late)
	assert.Equal(t, []int{2}, ids(m))
	assert.Equal(t, 1, m.mapv.Len())
}

func TestFavoriteTogglePersists(t *testing.T) {
	store := newStore(t)
	m := newModel(t, store, directory.KeepOptimistic)

	drain(m, press(m, "f"))
	entries := m.lv.Entries()
	assert.True(t, entries[0].Favorite)
	assert.Equal(t, "Remove as favorite", entries[0].FavoriteLabel)
	for _, e := range entries[1:] {
		assert.False(t, e.Favorite)
	}
	state, tracked := m.view.FavoriteState(1)
	assert.True(t, tracked)
	assert.Equal(t, directory.Confirmed, state)

	r, err := store.ByID(testContext(t), 1)
	require.NoError(t, err)
	assert.True(t, bool(r.IsFavorite))
}

func TestRefreshBeforeWriteLandsKeepsToggle(t *testing.T) {
	store := newStore(t)
	m := newModel(t, store, directory.KeepOptimistic)

	save := press(m, "f")
	require.NotNil(t, save)
	drain(m, press(m, "r"))
	assert.True(t, m.lv.Entries()[0].Favorite)

	drain(m, save)
	assert.True(t, m.lv.Entries()[0].Favorite)
	state, _ := m.view.FavoriteState(1)
	assert.Equal(t, directory.Confirmed, state)
}

func TestFailedWriteRevertsWithRevertPolicy(t *testing.T) {
	src := &brokenSource{Store: newStore(t), writes: true}
	m := newModel(t, src, directory.RevertOnFailure)

	drain(m, press(m, "f"))
	assert.False(t, m.lv.Entries()[0].Favorite)
	assert.Equal(t, "favorite not saved, reverted", m.Status())
	state, _ := m.view.FavoriteState(1)
	assert.Equal(t, directory.Failed, state)
}

func TestFailedWriteKeepsFlagByDefault(t *testing.T) {
	src := &brokenSource{Store: newStore(t), writes: true}
	m := newModel(t, src, directory.KeepOptimistic)

	drain(m, press(m, "f"))
	assert.True(t, m.lv.Entries()[0].Favorite)
	assert.Equal(t, "favorite not saved", m.Status())
}

func TestDetailsFromListAndMapShareURL(t *testing.T) {
	m := newModel(t, newStore(t), directory.KeepOptimistic)

	press(m, "enter")
	assert.Equal(t, "restaurant.html?id=1", m.DetailURL())
	assert.Contains(t, m.View(), "171 E Broadway")

	press(m, "esc")
	assert.Empty(t, m.DetailURL())

	press(m, "tab")
	press(m, "l")
	press(m, "enter")
	assert.Equal(t, "restaurant.html?id=2", m.DetailURL())
	assert.Contains(t, m.View(), "919 Fulton St")
}

func TestDetailsOfFilteredOutRestaurant(t *testing.T) {
	m := newModel(t, newStore(t), directory.KeepOptimistic)

	press(m, "tab")
	press(m, "l")
	press(m, "enter")
	require.Equal(t, "restaurant.html?id=2", m.DetailURL())

	drain(m, press(m, "n"))
	assert.Contains(t, m.View(), "no longer listed")
}

func TestReferenceFailureDisablesControl(t *testing.T) {
	src := &brokenSource{Store: newStore(t), neighborhoods: true}
	m := newModel(t, src, directory.KeepOptimistic)

	assert.Contains(t, m.filterBar(), "Neighborhood: unavailable")
	assert.Equal(t, "neighborhoods unavailable", m.Status())
	assert.Nil(t, press(m, "n"))

	assert.Equal(t, []int{1, 2, 3, 4}, ids(m))
	drain(m, press(m, "c"))
	assert.Equal(t, []int{1, 3}, ids(m))
}

func TestMapRenderPlacesEveryMarker(t *testing.T) {
	v := newMapView(model.LatLng{Lat: 40.722216, Lng: -73.987501}, 12)
	out := v.Render(20, 6)
	assert.Contains(t, out, "no markers")

	for _, r := range seed {
		v.AddMarker(directory.Marker{ID: r.ID, Title: r.Name, Position: r.LatLng, URL: directory.RestaurantURL(r)})
	}
	c1, r1 := v.project(seed[1].LatLng, 20, 6)
	c2, r2 := v.project(seed[3].LatLng, 20, 6)
	assert.Less(t, c1, c2, "west to east")
	assert.Greater(t, r1, r2, "north is up")

	v.Select(-1)
	sel, ok := v.Selected()
	require.True(t, ok)
	assert.Equal(t, 4, sel.ID)
	assert.Contains(t, v.Render(20, 6), "Casa Enrique")
}
