package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/restaurants/internal/model"
)

func openSeeded(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	n, err := s.Import(ctx, []model.Restaurant{
		{ID: 1, Name: "Mission Chinese Food", Neighborhood: "Manhattan", CuisineType: "Asian", LatLng: model.LatLng{Lat: 40.713829, Lng: -73.989667}},
		{ID: 2, Name: "Emily", Neighborhood: "Brooklyn", CuisineType: "Pizza", IsFavorite: true},
		{ID: 3, Name: "Kang Ho Dong Baekjeong", Neighborhood: "Manhattan", CuisineType: "Asian"},
		{ID: 4, Name: "Katz's Delicatessen", Neighborhood: "Manhattan", CuisineType: "American"},
	})
	require.NoError(t, err)
	require.Equal(t, 4, n)
	return s
}

func TestFilterQueries(t *testing.T) {
	s := openSeeded(t)
	ctx := context.Background()

	tests := []struct {
		name         string
		cuisine      string
		neighborhood string
		want         []int
	}{
		{"all", model.All, model.All, []int{1, 2, 3, 4}},
		{"capitalized all", "All", "All", []int{1, 2, 3, 4}},
		{"neighborhood", model.All, "Manhattan", []int{1, 3, 4}},
		{"cuisine", "Asian", model.All, []int{1, 3}},
		{"both", "American", "Manhattan", []int{4}},
		{"none", "Pizza", "Manhattan", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := s.RestaurantsByCuisineAndNeighborhood(ctx, tt.cuisine, tt.neighborhood)
			require.NoError(t, err)
			ids := make([]int, 0, len(rs))
			for _, r := range rs {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestDistinctValues(t *testing.T) {
	s := openSeeded(t)
	ctx := context.Background()

	n, err := s.Neighborhoods(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Manhattan", "Brooklyn"}, n)

	c, err := s.Cuisines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Asian", "Pizza", "American"}, c)
}

func TestRoundTripsRestaurant(t *testing.T) {
	s := openSeeded(t)
	r, err := s.ByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Mission Chinese Food", r.Name)
	assert.Equal(t, model.LatLng{Lat: 40.713829, Lng: -73.989667}, r.LatLng)
	assert.False(t, bool(r.IsFavorite))

	r, err = s.ByID(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, bool(r.IsFavorite))
}

func TestUpdateFavoriteStatus(t *testing.T) {
	s := openSeeded(t)
	ctx := context.Background()

	require.NoError(t, s.UpdateFavoriteStatus(ctx, 3, true))
	r, err := s.ByID(ctx, 3)
	require.NoError(t, err)
	assert.True(t, bool(r.IsFavorite))

	require.NoError(t, s.UpdateFavoriteStatus(ctx, 3, false))
	r, _ = s.ByID(ctx, 3)
	assert.False(t, bool(r.IsFavorite))

	assert.ErrorIs(t, s.UpdateFavoriteStatus(ctx, 99, true), ErrNotFound)
	_, err = s.ByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImportUpserts(t *testing.T) {
	s := openSeeded(t)
	ctx := context.Background()

	_, err := s.Import(ctx, []model.Restaurant{{ID: 1, Name: "Mission Chinese", Neighborhood: "Manhattan", CuisineType: "Asian"}})
	require.NoError(t, err)

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "Mission Chinese", all[0].Name)
}
