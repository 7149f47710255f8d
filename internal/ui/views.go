package ui

import (
	"fmt"

	"github.com/idilsaglam/restaurants/internal/directory"
)

// ListPanel is a non-interactive directory.ListView that renders to lines.
type ListPanel struct {
	rows []*listRow
}

type listRow struct {
	entry directory.ListEntry
}

func (r *listRow) SetFavorite(fav bool) {
	r.entry.Favorite = fav
	r.entry.FavoriteLabel = directory.FavoriteLabel(fav)
}

func (p *ListPanel) Clear() { p.rows = nil }

func (p *ListPanel) Append(e directory.ListEntry) directory.EntryHandle {
	r := &listRow{entry: e}
	p.rows = append(p.rows, r)
	return r
}

// Entries returns the rows as currently rendered.
func (p *ListPanel) Entries() []directory.ListEntry {
	out := make([]directory.ListEntry, 0, len(p.rows))
	for _, r := range p.rows {
		out = append(out, r.entry)
	}
	return out
}

// Favorites counts rows whose control is active.
func (p *ListPanel) Favorites() int {
	n := 0
	for _, r := range p.rows {
		if r.entry.Favorite {
			n++
		}
	}
	return n
}

// Lines renders one block per entry.
func (p *ListPanel) Lines() []string {
	t := Current()
	if len(p.rows) == 0 {
		return []string{C(t.Muted, "no restaurants match")}
	}
	out := make([]string, 0, len(p.rows)*3)
	for _, r := range p.rows {
		e := r.entry
		heart := C(t.Muted, t.HeartOff)
		if e.Favorite {
			heart = C(t.Favorite, t.HeartOn)
		}
		out = append(out,
			fmt.Sprintf("%s %s %s", Dim(fmt.Sprintf("%3d.", e.ID)), heart, C(t.Title, e.Name)),
			fmt.Sprintf("     %s %s", e.Neighborhood, C(t.Muted, "· "+e.Address)),
			fmt.Sprintf("     %s %s", C(t.Accent, "View Details"), C(t.Muted, e.DetailsURL)),
		)
	}
	return out
}

// MarkerTable is a non-interactive directory.MarkerLayer that lists markers.
type MarkerTable struct {
	markers []*tableMarker
}

type tableMarker struct {
	table    *MarkerTable
	marker   directory.Marker
	handlers map[string][]func()
}

func (m *tableMarker) On(event string, fn func()) {
	m.handlers[event] = append(m.handlers[event], fn)
}

func (m *tableMarker) Remove() {
	for i, other := range m.table.markers {
		if other == m {
			m.table.markers = append(m.table.markers[:i], m.table.markers[i+1:]...)
			return
		}
	}
}

func (m *tableMarker) URL() string { return m.marker.URL }

func (t *MarkerTable) AddMarker(m directory.Marker) directory.MarkerHandle {
	tm := &tableMarker{table: t, marker: m, handlers: make(map[string][]func())}
	t.markers = append(t.markers, tm)
	return tm
}

// Markers returns the markers currently on the table.
func (t *MarkerTable) Markers() []directory.Marker {
	out := make([]directory.Marker, 0, len(t.markers))
	for _, m := range t.markers {
		out = append(out, m.marker)
	}
	return out
}

// Click fires the click handlers of the marker for id.
func (t *MarkerTable) Click(id int) bool {
	for _, m := range t.markers {
		if m.marker.ID == id {
			for _, fn := range m.handlers[directory.EventClick] {
				fn()
			}
			return true
		}
	}
	return false
}

// Lines renders one line per marker.
func (t *MarkerTable) Lines() []string {
	th := Current()
	if len(t.markers) == 0 {
		return []string{C(th.Muted, "no markers")}
	}
	out := make([]string, 0, len(t.markers))
	for _, m := range t.markers {
		out = append(out, fmt.Sprintf("%s %-28s %9.5f,%10.5f  %s",
			C(th.Accent, th.SymMarker), m.marker.Title,
			m.marker.Position.Lat, m.marker.Position.Lng,
			C(th.Muted, m.marker.URL)))
	}
	return out
}

// StateBadge is a short tag for a favorite write state.
func StateBadge(s directory.WriteState) string {
	switch s {
	case directory.Pending:
		return C(current.Accent, "pending")
	case directory.Failed:
		return C(current.Error, "not saved")
	default:
		return C(current.Success, "saved")
	}
}
