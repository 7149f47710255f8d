package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/restaurants/internal/directory"
	"github.com/idilsaglam/restaurants/internal/ui"
)

// headless drives the directory core synchronously against the panel views.
type headless struct {
	list    *ui.ListPanel
	markers *ui.MarkerTable
	ref     *directory.Reference
	sync    *directory.Synchronizer
	filter  *directory.FilterController
}

func newHeadless(src directory.DataSource, opts ...directory.SyncOption) *headless {
	h := &headless{list: &ui.ListPanel{}, markers: &ui.MarkerTable{}}
	nav := directory.NavigatorFunc(func(url string) { ui.OK("open " + url) })
	h.ref = directory.NewReference(log)
	h.sync = directory.NewSynchronizer(h.list, h.markers, nav, src, log, opts...)
	h.filter = directory.NewFilterController(src, h.sync, log)
	return h
}

func (h *headless) load(ctx context.Context, src directory.DataSource, sel directory.Selection) error {
	h.ref.Apply(directory.LoadReference(ctx, src, directory.NeighborhoodOptions))
	h.ref.Apply(directory.LoadReference(ctx, src, directory.CuisineOptions))

	req := h.filter.SelectionChanged(sel)
	res := h.filter.Fetch(ctx, req)
	if !h.filter.Resolve(res) {
		if res.Err != nil {
			return res.Err
		}
		return errors.New("restaurant list was superseded")
	}
	return nil
}

func lsCmd() *cobra.Command {
	var (
		sel     directory.Selection
		showMap bool
	)
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List restaurants matching a neighborhood and cuisine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, closeSrc, err := openSource(ctx)
			if err != nil {
				return err
			}
			defer closeSrc()

			h := newHeadless(src)
			if err := h.load(ctx, src, sel); err != nil {
				return err
			}
			ui.Panel(h.lines(showMap))
			return nil
		},
	}
	cmd.Flags().StringVarP(&sel.Neighborhood, "neighborhood", "n", directory.All, "neighborhood filter")
	cmd.Flags().StringVarP(&sel.Cuisine, "cuisine", "c", directory.All, "cuisine filter")
	cmd.Flags().BoolVarP(&showMap, "map", "m", false, "also list map markers")
	return cmd
}

func favCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fav <id>",
		Short: "Toggle the favorite flag of a restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("fav: not a number: %s", args[0])
			}
			policy, err := failurePolicy()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			src, closeSrc, err := openSource(ctx)
			if err != nil {
				return err
			}
			defer closeSrc()

			h := newHeadless(src, directory.WithFailurePolicy(policy))
			if err := h.load(ctx, src, directory.AllSelection()); err != nil {
				return err
			}
			job, err := h.sync.ToggleFavorite(id)
			if errors.Is(err, directory.ErrUnknownRestaurant) {
				return fmt.Errorf("no restaurant with id %d (run `restaurants ls`)", id)
			}
			if err != nil {
				return err
			}

			res := h.sync.Persist(ctx, job)
			h.sync.Settle(res)
			r, _ := h.sync.Restaurant(id)
			state, _ := h.sync.FavoriteState(id)
			if res.Err != nil {
				ui.Fail(fmt.Sprintf("%s: %s", r.Name, ui.StateBadge(state)))
				return res.Err
			}
			verb := "removed from favorites"
			if r.IsFavorite {
				verb = "marked as favorite"
			}
			ui.OK(fmt.Sprintf("%s %s %s", r.Name, verb, ui.StateBadge(state)))
			return nil
		},
	}
}

// -------------- rendering helpers --------------

func (h *headless) lines(showMap bool) []string {
	t := ui.Current()
	sel := h.filter.Selection()
	total, favs := len(h.list.Entries()), h.list.Favorites()

	header := fmt.Sprintf("%s  %s %d  %s %d",
		ui.C(t.Title, "Restaurants"),
		ui.C(t.Accent, "Total"), total,
		ui.C(t.Favorite, t.HeartOn), favs,
	)
	lines := []string{
		header,
		ui.C(t.Muted, ui.ProgressBar(favs, total, 28)),
		fmt.Sprintf("Neighborhood: %s   Cuisine: %s",
			ui.C(t.Accent, directory.Label(sel.Neighborhood)),
			ui.C(t.Accent, directory.Label(sel.Cuisine))),
		h.optionLine("Neighborhoods", directory.NeighborhoodOptions),
		h.optionLine("Cuisines", directory.CuisineOptions),
		"",
	}
	lines = append(lines, h.list.Lines()...)
	if showMap {
		lines = append(lines, "")
		lines = append(lines, h.markers.Lines()...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: favorite with `restaurants fav <id>`"))
	return lines
}

func (h *headless) optionLine(name string, kind directory.ReferenceKind) string {
	t := ui.Current()
	if !h.ref.Enabled(kind) {
		return ui.C(t.Muted, name+": unavailable")
	}
	labels := make([]string, 0, len(h.ref.Options(kind)))
	for _, v := range h.ref.Options(kind) {
		labels = append(labels, directory.Label(v))
	}
	return ui.C(t.Muted, name+": "+strings.Join(labels, ", "))
}
