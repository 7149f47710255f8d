package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/restaurants/internal/model"
	"github.com/idilsaglam/restaurants/internal/store/jsonstore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, token string) (*Server, *jsonstore.Store) {
	t.Helper()
	p := filepath.Join(t.TempDir(), "restaurants.json")
	require.NoError(t, jsonstore.Save(p, []model.Restaurant{
		{ID: 1, Name: "Mission Chinese Food", Neighborhood: "Manhattan", CuisineType: "Asian"},
		{ID: 2, Name: "Emily", Neighborhood: "Brooklyn", CuisineType: "Pizza"},
		{ID: 3, Name: "Kang Ho Dong Baekjeong", Neighborhood: "Manhattan", CuisineType: "Asian"},
	}))
	st, err := jsonstore.Open(p)
	require.NoError(t, err)
	log, _ := test.NewNullLogger()
	return New(st, log, token), st
}

func do(t *testing.T, s *Server, method, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestListRestaurantsFilters(t *testing.T) {
	s, _ := newTestServer(t, "")

	tests := []struct {
		target string
		want   []int
	}{
		{"/restaurants", []int{1, 2, 3}},
		{"/restaurants?neighborhood=Manhattan", []int{1, 3}},
		{"/restaurants?cuisine_type=Pizza&neighborhood=all", []int{2}},
		{"/restaurants?cuisine_type=Pizza&neighborhood=Manhattan", []int{}},
	}
	for _, tt := range tests {
		w := do(t, s, http.MethodGet, tt.target, nil)
		require.Equal(t, http.StatusOK, w.Code, tt.target)
		var rs []model.Restaurant
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rs))
		ids := make([]int, 0, len(rs))
		for _, r := range rs {
			ids = append(ids, r.ID)
		}
		assert.Equal(t, tt.want, ids, tt.target)
	}
}

func TestReferenceRoutes(t *testing.T) {
	s, _ := newTestServer(t, "")

	w := do(t, s, http.MethodGet, "/neighborhoods", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["Manhattan","Brooklyn"]`, w.Body.String())

	w = do(t, s, http.MethodGet, "/cuisines", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["Asian","Pizza"]`, w.Body.String())
}

func TestFavoriteRoute(t *testing.T) {
	s, st := newTestServer(t, "")

	w := do(t, s, http.MethodPut, "/restaurants/2?is_favorite=true", map[string]string{
		HeaderRequestID: "7a4c6c5e-6f39-4b6f-8d0c-2f5d8a1c9b10",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7a4c6c5e-6f39-4b6f-8d0c-2f5d8a1c9b10", w.Header().Get(HeaderRequestID))

	var r model.Restaurant
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	assert.True(t, bool(r.IsFavorite))

	stored, err := st.ByID(testContext(t), 2)
	require.NoError(t, err)
	assert.True(t, bool(stored.IsFavorite))

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPut, "/restaurants/2?is_favorite=maybe", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPut, "/restaurants/2", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPut, "/restaurants/abc?is_favorite=true", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPut, "/restaurants/99?is_favorite=true", nil).Code)
}

func TestGetRestaurant(t *testing.T) {
	s, _ := newTestServer(t, "")

	w := do(t, s, http.MethodGet, "/restaurants/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/restaurants/42", nil).Code)
}

func TestTokenRequired(t *testing.T) {
	s, _ := newTestServer(t, "secret")

	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodGet, "/restaurants", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodGet, "/restaurants", map[string]string{
		"Authorization": "Bearer wrong",
	}).Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/restaurants", map[string]string{
		"Authorization": "Bearer secret",
	}).Code)
}
