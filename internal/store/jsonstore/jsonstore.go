package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/idilsaglam/restaurants/internal/model"
)

// JSON-backed restaurant data. Single file, human-readable, portable.
// Favorite writes rewrite the whole file.

// DefaultFile is used when no path is configured.
const DefaultFile = "data/restaurants.json"

// ErrNotFound is returned for unknown restaurant ids.
var ErrNotFound = model.ErrNotFound

type Store struct {
	path string

	mu          sync.RWMutex
	restaurants []model.Restaurant
}

// Open reads path. A missing file yields an empty store that is created on
// the first write.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultFile
	}
	rs, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, restaurants: rs}, nil
}

// Load decodes a restaurant file: either a bare array or {"restaurants": [...]}.
func Load(path string) ([]model.Restaurant, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Restaurant{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Decode(b)
}

// Decode accepts either seed layout.
func Decode(b []byte) ([]model.Restaurant, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return []model.Restaurant{}, nil
	}
	var rs []model.Restaurant
	if b[0] == '{' {
		var wrapped struct {
			Restaurants []model.Restaurant `json:"restaurants"`
		}
		if err := json.Unmarshal(b, &wrapped); err != nil {
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}
		rs = wrapped.Restaurants
	} else if err := json.Unmarshal(b, &rs); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if rs == nil {
		rs = []model.Restaurant{}
	}
	return rs, nil
}

// Save writes restaurants to path as an indented array. The file is
// written next to path and renamed over it, so readers never see a
// partial file.
func Save(path string, restaurants []model.Restaurant) error {
	b, err := json.MarshalIndent(restaurants, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Path is the file the store reads and writes.
func (s *Store) Path() string { return s.path }

func (s *Store) All(ctx context.Context) ([]model.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Restaurant(nil), s.restaurants...), nil
}

func (s *Store) ByID(ctx context.Context, id int) (model.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.restaurants {
		if r.ID == id {
			return r, nil
		}
	}
	return model.Restaurant{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
}

func (s *Store) Neighborhoods(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Neighborhoods(s.restaurants), nil
}

func (s *Store) Cuisines(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Cuisines(s.restaurants), nil
}

func (s *Store) RestaurantsByCuisineAndNeighborhood(ctx context.Context, cuisine, neighborhood string) ([]model.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Filter(s.restaurants, cuisine, neighborhood), nil
}

// UpdateFavoriteStatus sets the flag and rewrites the file. The in-memory
// copy is only changed once the write succeeded.
func (s *Store) UpdateFavoriteStatus(ctx context.Context, id int, favorite bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, r := range s.restaurants {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	next := append([]model.Restaurant(nil), s.restaurants...)
	next[idx].IsFavorite = model.Flag(favorite)
	if err := Save(s.path, next); err != nil {
		return err
	}
	s.restaurants = next
	return nil
}
