package directory

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchFailed marks reference data or a restaurant set that could not be loaded.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrPersistFailed marks a favorite-status write that did not reach the data layer.
	ErrPersistFailed = errors.New("persist failed")
	// ErrUnknownRestaurant is returned for ids that are not in the committed set.
	ErrUnknownRestaurant = errors.New("restaurant not rendered")
)

// OpError ties a data-layer failure to the operation that hit it.
// errors.Is matches both Kind and the underlying Err.
type OpError struct {
	Op   string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *OpError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func fetchFailed(op string, err error) error {
	return &OpError{Op: op, Kind: ErrFetchFailed, Err: err}
}

func persistFailed(op string, err error) error {
	return &OpError{Op: op, Kind: ErrPersistFailed, Err: err}
}
