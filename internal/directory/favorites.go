package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/idilsaglam/restaurants/internal/model"
	"github.com/sirupsen/logrus"
)

// WriteState is where a favorite write stands.
type WriteState int

const (
	Pending WriteState = iota
	Confirmed
	Failed
)

func (w WriteState) String() string {
	switch w {
	case Confirmed:
		return "confirmed"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// FailurePolicy decides what a failed write does to the optimistic flag.
type FailurePolicy int

const (
	// KeepOptimistic logs the failure and leaves the flag as toggled.
	KeepOptimistic FailurePolicy = iota
	// RevertOnFailure restores the previous flag if no newer toggle happened.
	RevertOnFailure
)

func (p FailurePolicy) String() string {
	if p == RevertOnFailure {
		return "revert"
	}
	return "keep"
}

// ParseFailurePolicy accepts "keep" or "revert".
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep":
		return KeepOptimistic, nil
	case "revert":
		return RevertOnFailure, nil
	}
	return KeepOptimistic, fmt.Errorf("unknown favorite failure policy %q", s)
}

// PersistJob is one favorite write waiting to be sent.
type PersistJob struct {
	ID        int
	Favorite  bool
	Previous  bool
	Version   uint64
	Epoch     uint64 // commit the toggle was made against
	RequestID uuid.UUID
}

// PersistResult is the outcome of a PersistJob.
type PersistResult struct {
	PersistJob
	Err error
}

type favoriteEntry struct {
	value   bool
	version uint64
	state   WriteState

	// base is what the data layer reported when the item was last
	// re-committed while the write was pending, at commit epoch.
	base  bool
	epoch uint64
}

// FavoriteCache tracks the latest optimistic write per restaurant.
type FavoriteCache struct {
	policy  FailurePolicy
	entries map[int]*favoriteEntry
}

func newFavoriteCache() *FavoriteCache {
	return &FavoriteCache{entries: make(map[int]*favoriteEntry)}
}

func (c *FavoriteCache) begin(id int, prev, fav bool, epoch uint64) PersistJob {
	e, ok := c.entries[id]
	if !ok {
		e = &favoriteEntry{}
		c.entries[id] = e
	}
	e.version++
	e.value = fav
	e.state = Pending
	return PersistJob{
		ID:        id,
		Favorite:  fav,
		Previous:  prev,
		Version:   e.version,
		Epoch:     epoch,
		RequestID: uuid.New(),
	}
}

// overlay puts a pending optimistic value over a freshly fetched restaurant,
// which may have been read before the write landed.
func (c *FavoriteCache) overlay(r *model.Restaurant, epoch uint64) {
	e, ok := c.entries[r.ID]
	if !ok || e.state != Pending {
		return
	}
	e.base, e.epoch = bool(r.IsFavorite), epoch
	r.IsFavorite = model.Flag(e.value)
}

func (c *FavoriteCache) state(id int) (WriteState, bool) {
	e, ok := c.entries[id]
	if !ok {
		return Confirmed, false
	}
	return e.state, true
}

// Persist sends job to the data layer. It only reads the writer and is safe
// to call off the event loop.
func (s *Synchronizer) Persist(ctx context.Context, job PersistJob) PersistResult {
	if err := s.writer.UpdateFavoriteStatus(ctx, job.ID, job.Favorite); err != nil {
		return PersistResult{PersistJob: job, Err: persistFailed("update favorite", err)}
	}
	return PersistResult{PersistJob: job}
}

// Settle records the outcome of a write. Results for superseded writes only
// get logged; the latest write decides the entry state.
func (s *Synchronizer) Settle(res PersistResult) {
	log := s.log.WithFields(logrus.Fields{
		"restaurant_id": res.ID,
		"favorite":      res.Favorite,
		"request_id":    res.RequestID,
	})
	if res.Err != nil {
		log.WithError(res.Err).Error("favorite not persisted")
	}

	e, ok := s.favorites.entries[res.ID]
	if !ok || e.version != res.Version {
		log.Debug("superseded favorite write settled")
		return
	}
	if res.Err == nil {
		e.state = Confirmed
		return
	}
	e.state = Failed
	if s.favorites.policy != RevertOnFailure {
		return
	}

	// Restore the flag from before the toggle, unless the item was
	// re-committed since; then the data layer's value is the one to show.
	prev := res.Previous
	if res.Epoch != s.epoch && e.epoch == s.epoch {
		prev = e.base
	}
	e.value = prev
	if it, rendered := s.byID[res.ID]; rendered {
		it.Restaurant.IsFavorite = model.Flag(prev)
		it.Entry.SetFavorite(prev)
	}
	log.Warn("favorite reverted after failed write")
}
