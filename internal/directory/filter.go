package directory

import (
	"context"

	"github.com/idilsaglam/restaurants/internal/model"
	"github.com/sirupsen/logrus"
)

// Phase is the filter cycle state.
type Phase int

const (
	Idle Phase = iota
	Fetching
	Committed
)

func (p Phase) String() string {
	switch p {
	case Fetching:
		return "fetching"
	case Committed:
		return "committed"
	default:
		return "idle"
	}
}

// Request is the ticket for one refresh. Only the ticket with the latest
// generation may commit.
type Request struct {
	Generation uint64
	Selection  Selection
}

// Result is the outcome of fetching a Request.
type Result struct {
	Request
	Restaurants []model.Restaurant
	Err         error
}

// FilterController owns the selection and drives refreshes into the view.
// All methods except Fetch must be called from the event loop.
type FilterController struct {
	src  DataSource
	view *Synchronizer
	log  logrus.FieldLogger

	selection  Selection
	generation uint64
	phase      Phase
}

func NewFilterController(src DataSource, view *Synchronizer, log logrus.FieldLogger) *FilterController {
	return &FilterController{
		src:       src,
		view:      view,
		log:       log.WithField("component", "filter"),
		selection: AllSelection(),
	}
}

func (c *FilterController) Selection() Selection { return c.selection }
func (c *FilterController) Phase() Phase         { return c.phase }
func (c *FilterController) Generation() uint64   { return c.generation }

// SelectionChanged replaces the selection and starts a refresh.
func (c *FilterController) SelectionChanged(sel Selection) Request {
	c.selection = sel.Normalize()
	return c.Refresh()
}

// Refresh starts a new fetch for the current selection. Any ticket issued
// before this one becomes stale.
func (c *FilterController) Refresh() Request {
	c.generation++
	c.phase = Fetching
	req := Request{Generation: c.generation, Selection: c.selection}
	c.log.WithFields(logrus.Fields{
		"generation":   req.Generation,
		"neighborhood": req.Selection.Neighborhood,
		"cuisine":      req.Selection.Cuisine,
	}).Debug("refresh requested")
	return req
}

// Fetch loads the restaurant set for req. It does not touch controller state.
func (c *FilterController) Fetch(ctx context.Context, req Request) Result {
	rs, err := c.src.RestaurantsByCuisineAndNeighborhood(ctx, req.Selection.Cuisine, req.Selection.Neighborhood)
	if err != nil {
		return Result{Request: req, Err: fetchFailed("fetch restaurants", err)}
	}
	return Result{Request: req, Restaurants: rs}
}

// Resolve commits res if it answers the latest request. Stale results are
// dropped; failures are logged and the rendered view is kept. Reports
// whether the view was replaced.
func (c *FilterController) Resolve(res Result) bool {
	log := c.log.WithFields(logrus.Fields{
		"generation":   res.Generation,
		"neighborhood": res.Selection.Neighborhood,
		"cuisine":      res.Selection.Cuisine,
	})
	if res.Generation != c.generation {
		log.WithField("latest", c.generation).Debug("discarding stale result")
		return false
	}
	if res.Err != nil {
		log.WithError(res.Err).Error("restaurant fetch failed, keeping current view")
		c.phase = Idle
		return false
	}
	c.view.Commit(res.Restaurants)
	c.phase = Committed
	log.Debugf("committed %d restaurants", len(res.Restaurants))
	return true
}
