package tui

import (
	"math"
	"strings"

	"github.com/idilsaglam/restaurants/internal/directory"
	"github.com/idilsaglam/restaurants/internal/model"
)

// mapView is the directory.MarkerLayer drawn as a character grid. Markers
// are projected onto the bounding box of what is placed, or onto a window
// around the centre when there is less than two of them.
type mapView struct {
	center  model.LatLng
	zoom    int
	markers []*mapMarker
	sel     int
}

type mapMarker struct {
	view     *mapView
	marker   directory.Marker
	handlers map[string][]func()
}

func newMapView(center model.LatLng, zoom int) *mapView {
	return &mapView{center: center, zoom: zoom}
}

func (v *mapView) AddMarker(m directory.Marker) directory.MarkerHandle {
	mm := &mapMarker{view: v, marker: m, handlers: make(map[string][]func())}
	v.markers = append(v.markers, mm)
	return mm
}

func (m *mapMarker) On(event string, fn func()) {
	m.handlers[event] = append(m.handlers[event], fn)
}

func (m *mapMarker) Remove() {
	v := m.view
	for i, other := range v.markers {
		if other != m {
			continue
		}
		v.markers = append(v.markers[:i], v.markers[i+1:]...)
		if v.sel >= len(v.markers) {
			v.sel = max(len(v.markers)-1, 0)
		}
		return
	}
}

func (m *mapMarker) URL() string { return m.marker.URL }

func (m *mapMarker) fire(event string) {
	for _, fn := range m.handlers[event] {
		fn()
	}
}

// Len is the number of markers on the map.
func (v *mapView) Len() int { return len(v.markers) }

// Select moves the marker selection by step, wrapping around.
func (v *mapView) Select(step int) {
	n := len(v.markers)
	if n == 0 {
		return
	}
	v.sel = ((v.sel+step)%n + n) % n
}

// Selected is the marker under the cursor.
func (v *mapView) Selected() (directory.Marker, bool) {
	if len(v.markers) == 0 {
		return directory.Marker{}, false
	}
	return v.markers[v.sel].marker, true
}

// ClickSelected fires the click handlers of the selected marker.
func (v *mapView) ClickSelected() bool {
	if len(v.markers) == 0 {
		return false
	}
	v.markers[v.sel].fire(directory.EventClick)
	return true
}

func (v *mapView) bounds() (minLat, maxLat, minLng, maxLng float64) {
	if len(v.markers) < 2 {
		span := 360 / math.Pow(2, float64(v.zoom))
		c := v.center
		if len(v.markers) == 1 {
			c = v.markers[0].marker.Position
		}
		return c.Lat - span/4, c.Lat + span/4, c.Lng - span/2, c.Lng + span/2
	}
	minLat, maxLat = math.Inf(1), math.Inf(-1)
	minLng, maxLng = math.Inf(1), math.Inf(-1)
	for _, m := range v.markers {
		p := m.marker.Position
		minLat, maxLat = math.Min(minLat, p.Lat), math.Max(maxLat, p.Lat)
		minLng, maxLng = math.Min(minLng, p.Lng), math.Max(maxLng, p.Lng)
	}
	padLat := math.Max((maxLat-minLat)*0.1, 1e-4)
	padLng := math.Max((maxLng-minLng)*0.1, 1e-4)
	return minLat - padLat, maxLat + padLat, minLng - padLng, maxLng + padLng
}

// project maps p to a cell; north is row 0.
func (v *mapView) project(p model.LatLng, w, h int) (col, row int) {
	minLat, maxLat, minLng, maxLng := v.bounds()
	fx := (p.Lng - minLng) / (maxLng - minLng)
	fy := (maxLat - p.Lat) / (maxLat - minLat)
	col = int(math.Round(fx * float64(w-1)))
	row = int(math.Round(fy * float64(h-1)))
	return min(max(col, 0), w-1), min(max(row, 0), h-1)
}

// Render draws a w by h grid followed by the selected marker's title.
func (v *mapView) Render(w, h int) string {
	w, h = max(w, 4), max(h, 2)
	grid := make([][]string, h)
	for r := range grid {
		grid[r] = make([]string, w)
		for c := range grid[r] {
			grid[r][c] = mutedStyle.Render(dotEmpty)
		}
	}
	for i, m := range v.markers {
		c, r := v.project(m.marker.Position, w, h)
		if i == v.sel {
			grid[r][c] = selectedStyle.Render(dotSel)
			continue
		}
		if grid[r][c] != selectedStyle.Render(dotSel) {
			grid[r][c] = markerStyle.Render(dotPin)
		}
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(strings.Join(row, ""))
		b.WriteString("\n")
	}
	if m, ok := v.Selected(); ok {
		b.WriteString(markerStyle.Render(dotPin) + " " + titleStyle.Render(m.Title))
	} else {
		b.WriteString(mutedStyle.Render("no markers"))
	}
	return b.String()
}
