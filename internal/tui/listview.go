package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/restaurants/internal/directory"
)

// restaurantItem adapts a list entry to bubbles/list.Item
type restaurantItem struct {
	entry directory.ListEntry
}

func (i restaurantItem) Title() string       { return i.entry.Name }
func (i restaurantItem) Description() string { return i.entry.Neighborhood + " · " + i.entry.Address }
func (i restaurantItem) FilterValue() string { return i.entry.Name }

// Custom delegate: name line with the favorite control, then the address line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 2 }
func (d itemDelegate) Spacing() int                              { return 1 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(restaurantItem)
	if !ok {
		return
	}
	prefix := "  "
	name := titleStyle.Render(it.entry.Name)
	if index == m.Index() {
		prefix = selectedStyle.Render(">") + " "
	}
	fmt.Fprintf(w, "%s%s %s\n", prefix, heart(it.entry.Favorite), name)
	fmt.Fprintf(w, "    %s", mutedStyle.Render(it.Description()))
}

// listView is the directory.ListView backed by the bubbles list. Handles
// from before the last Clear are inert.
type listView struct {
	l     *list.Model
	epoch int
}

type entryHandle struct {
	view  *listView
	epoch int
	id    int
}

func (v *listView) Clear() {
	v.epoch++
	v.l.SetItems(nil)
	v.l.ResetSelected()
}

func (v *listView) Append(e directory.ListEntry) directory.EntryHandle {
	v.l.InsertItem(len(v.l.Items()), restaurantItem{entry: e})
	return &entryHandle{view: v, epoch: v.epoch, id: e.ID}
}

// Entries returns the rendered entries in order.
func (v *listView) Entries() []directory.ListEntry {
	items := v.l.Items()
	out := make([]directory.ListEntry, 0, len(items))
	for _, it := range items {
		if ri, ok := it.(restaurantItem); ok {
			out = append(out, ri.entry)
		}
	}
	return out
}

// Selected is the entry under the cursor.
func (v *listView) Selected() (directory.ListEntry, bool) {
	ri, ok := v.l.SelectedItem().(restaurantItem)
	return ri.entry, ok
}

func (h *entryHandle) SetFavorite(fav bool) {
	if h.epoch != h.view.epoch {
		return
	}
	for i, it := range h.view.l.Items() {
		ri, ok := it.(restaurantItem)
		if !ok || ri.entry.ID != h.id {
			continue
		}
		ri.entry.Favorite = fav
		ri.entry.FavoriteLabel = directory.FavoriteLabel(fav)
		h.view.l.SetItem(i, ri)
		return
	}
}
