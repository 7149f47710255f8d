package directory

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/restaurants/internal/model"
)

// ReferenceKind names one of the two option lists.
type ReferenceKind int

const (
	NeighborhoodOptions ReferenceKind = iota
	CuisineOptions
)

func (k ReferenceKind) String() string {
	if k == CuisineOptions {
		return "cuisines"
	}
	return "neighborhoods"
}

// ReferenceResult is the outcome of one reference-data load.
type ReferenceResult struct {
	Kind   ReferenceKind
	Values []string
	Err    error
}

// LoadReference fetches one option list. It only reads src and is safe to
// call off the event loop.
func LoadReference(ctx context.Context, src DataSource, kind ReferenceKind) ReferenceResult {
	var (
		values []string
		err    error
	)
	switch kind {
	case CuisineOptions:
		values, err = src.Cuisines(ctx)
	default:
		values, err = src.Neighborhoods(ctx)
	}
	if err != nil {
		return ReferenceResult{Kind: kind, Err: fetchFailed("load "+kind.String(), err)}
	}
	return ReferenceResult{Kind: kind, Values: values}
}

// Reference holds the two filter option lists. Each list starts with All
// once loaded; a list whose load failed stays empty and disabled.
type Reference struct {
	log           logrus.FieldLogger
	neighborhoods []string
	cuisines      []string
}

func NewReference(log logrus.FieldLogger) *Reference {
	return &Reference{log: log.WithField("component", "reference")}
}

// Apply folds a load result into the option lists. A failure is logged and
// leaves the list as it was.
func (r *Reference) Apply(res ReferenceResult) {
	if res.Err != nil {
		r.log.WithError(res.Err).WithField("kind", res.Kind.String()).Error("reference data unavailable")
		return
	}
	opts := make([]string, 0, len(res.Values)+1)
	opts = append(opts, All)
	seen := make(map[string]bool, len(res.Values))
	for _, v := range res.Values {
		if model.IsAll(v) || seen[v] {
			continue
		}
		seen[v] = true
		opts = append(opts, v)
	}
	switch res.Kind {
	case CuisineOptions:
		r.cuisines = opts
	default:
		r.neighborhoods = opts
	}
	r.log.WithField("kind", res.Kind.String()).Debugf("loaded %d options", len(opts)-1)
}

// Options returns the option list for kind, All first. Nil when not loaded.
func (r *Reference) Options(kind ReferenceKind) []string {
	if kind == CuisineOptions {
		return r.cuisines
	}
	return r.neighborhoods
}

// Enabled reports whether the control for kind can be used.
func (r *Reference) Enabled(kind ReferenceKind) bool {
	return len(r.Options(kind)) > 0
}

// Cycle returns the option after (step > 0) or before (step < 0) current,
// wrapping around. Disabled lists and unknown values return All.
func (r *Reference) Cycle(kind ReferenceKind, current string, step int) string {
	opts := r.Options(kind)
	if len(opts) == 0 {
		return All
	}
	idx := 0
	for i, v := range opts {
		if v == current {
			idx = i
			break
		}
	}
	idx = ((idx+step)%len(opts) + len(opts)) % len(opts)
	return opts[idx]
}
