package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/restaurants/internal/directory"
	"github.com/idilsaglam/restaurants/internal/model"
)

// Messages carrying results of work done off the event loop.
type (
	referenceMsg directory.ReferenceResult
	resultMsg    directory.Result
	persistMsg   directory.PersistResult
)

type pane int

const (
	listPane pane = iota
	mapPane
)

type keyMap struct {
	Quit         key.Binding
	Focus        key.Binding
	Neighborhood key.Binding
	PrevHood     key.Binding
	Cuisine      key.Binding
	PrevCuisine  key.Binding
	Refresh      key.Binding
	Favorite     key.Binding
	Open         key.Binding
	Close        key.Binding
	MapPrev      key.Binding
	MapNext      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Focus:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "list/map")),
		Neighborhood: key.NewBinding(key.WithKeys("n"), key.WithHelp("n/N", "neighborhood")),
		PrevHood:     key.NewBinding(key.WithKeys("N")),
		Cuisine:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c/C", "cuisine")),
		PrevCuisine:  key.NewBinding(key.WithKeys("C")),
		Refresh:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Favorite:     key.NewBinding(key.WithKeys("f", " "), key.WithHelp("f", "favorite")),
		Open:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Close:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		MapPrev:      key.NewBinding(key.WithKeys("left", "up", "h", "k")),
		MapNext:      key.NewBinding(key.WithKeys("right", "down", "l", "j")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Neighborhood, k.Cuisine, k.Favorite, k.Open, k.Focus, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Refresh, k.Close}}
}

// Options configures the browser.
type Options struct {
	Selection directory.Selection
	Policy    directory.FailurePolicy
	Center    model.LatLng
	Zoom      int
	Log       logrus.FieldLogger
}

// Model is the Bubble Tea model of the restaurant browser. The directory
// core is only touched from Update, so every state change happens on the
// event loop; data-layer calls run as commands.
type Model struct {
	ctx context.Context
	src directory.DataSource
	log logrus.FieldLogger

	ref    *directory.Reference
	filter *directory.FilterController
	view   *directory.Synchronizer

	list list.Model
	lv   *listView
	mapv *mapView
	keys keyMap
	help help.Model

	initial   directory.Selection
	focus     pane
	detailURL string
	status    string
	statusErr bool
	width     int
	height    int
}

// New wires the directory core to the list and map panes.
func New(ctx context.Context, src directory.DataSource, opt Options) *Model {
	log := opt.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("restaurant", "restaurants")
	l.Styles.PaginationStyle = helpStyle
	l.KeyMap.Quit.SetEnabled(false)

	m := &Model{
		ctx:     ctx,
		src:     src,
		log:     log,
		list:    l,
		mapv:    newMapView(opt.Center, opt.Zoom),
		keys:    defaultKeys(),
		help:    help.New(),
		initial: opt.Selection.Normalize(),
		width:   100,
		height:  30,
	}
	m.lv = &listView{l: &m.list}
	nav := directory.NavigatorFunc(m.navigate)
	m.view = directory.NewSynchronizer(m.lv, m.mapv, nav, src, log, directory.WithFailurePolicy(opt.Policy))
	m.filter = directory.NewFilterController(src, m.view, log)
	m.ref = directory.NewReference(log)
	m.resize()
	return m
}

func (m *Model) navigate(url string) {
	m.detailURL = url
	m.log.WithField("url", url).Debug("open details")
}

// Commands. Each closure only reads the data layer.

func (m *Model) loadReference(kind directory.ReferenceKind) tea.Cmd {
	ctx, src := m.ctx, m.src
	return func() tea.Msg {
		return referenceMsg(directory.LoadReference(ctx, src, kind))
	}
}

func (m *Model) fetch(req directory.Request) tea.Cmd {
	ctx, filter := m.ctx, m.filter
	m.status, m.statusErr = "", false
	return func() tea.Msg {
		return resultMsg(filter.Fetch(ctx, req))
	}
}

func (m *Model) persist(job directory.PersistJob) tea.Cmd {
	ctx, view := m.ctx, m.view
	return func() tea.Msg {
		return persistMsg(view.Persist(ctx, job))
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadReference(directory.NeighborhoodOptions),
		m.loadReference(directory.CuisineOptions),
		m.fetch(m.filter.SelectionChanged(m.initial)),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case referenceMsg:
		m.ref.Apply(directory.ReferenceResult(msg))
		if msg.Err != nil {
			m.setError(fmt.Sprintf("%s unavailable", msg.Kind))
		}
		return m, nil

	case resultMsg:
		res := directory.Result(msg)
		if !m.filter.Resolve(res) {
			if res.Generation == m.filter.Generation() && res.Err != nil {
				m.setError("could not load restaurants")
			}
			return m, nil
		}
		m.mapv.sel = 0
		return m, nil

	case persistMsg:
		res := directory.PersistResult(msg)
		m.view.Settle(res)
		switch {
		case res.Err == nil:
		case m.view.FailurePolicy() == directory.RevertOnFailure:
			m.setError("favorite not saved, reverted")
		default:
			m.setError("favorite not saved")
		}
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	if m.focus != listPane {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.Focus):
		if m.focus == listPane {
			m.focus = mapPane
		} else {
			m.focus = listPane
		}
		return nil, true
	case key.Matches(msg, m.keys.Neighborhood):
		return m.cycle(directory.NeighborhoodOptions, 1), true
	case key.Matches(msg, m.keys.PrevHood):
		return m.cycle(directory.NeighborhoodOptions, -1), true
	case key.Matches(msg, m.keys.Cuisine):
		return m.cycle(directory.CuisineOptions, 1), true
	case key.Matches(msg, m.keys.PrevCuisine):
		return m.cycle(directory.CuisineOptions, -1), true
	case key.Matches(msg, m.keys.Refresh):
		return m.fetch(m.filter.Refresh()), true
	case key.Matches(msg, m.keys.Favorite):
		return m.toggleFavorite(), true
	case key.Matches(msg, m.keys.Open):
		m.open()
		return nil, true
	case key.Matches(msg, m.keys.Close):
		m.detailURL = ""
		return nil, true
	}
	if m.focus == mapPane {
		switch {
		case key.Matches(msg, m.keys.MapPrev):
			m.mapv.Select(-1)
			return nil, true
		case key.Matches(msg, m.keys.MapNext):
			m.mapv.Select(1)
			return nil, true
		}
	}
	return nil, false
}

func (m *Model) cycle(kind directory.ReferenceKind, step int) tea.Cmd {
	if !m.ref.Enabled(kind) {
		return nil
	}
	sel := m.filter.Selection()
	if kind == directory.CuisineOptions {
		sel.Cuisine = m.ref.Cycle(kind, sel.Cuisine, step)
	} else {
		sel.Neighborhood = m.ref.Cycle(kind, sel.Neighborhood, step)
	}
	return m.fetch(m.filter.SelectionChanged(sel))
}

func (m *Model) selectedID() (int, bool) {
	if m.focus == mapPane {
		mk, ok := m.mapv.Selected()
		return mk.ID, ok
	}
	e, ok := m.lv.Selected()
	return e.ID, ok
}

func (m *Model) toggleFavorite() tea.Cmd {
	id, ok := m.selectedID()
	if !ok {
		return nil
	}
	job, err := m.view.ToggleFavorite(id)
	if err != nil {
		m.setError(err.Error())
		return nil
	}
	m.status, m.statusErr = "", false
	return m.persist(job)
}

func (m *Model) open() {
	if m.focus == mapPane {
		m.mapv.ClickSelected()
		return
	}
	if e, ok := m.lv.Selected(); ok {
		m.view.Navigate(e.ID)
	}
}

func (m *Model) setError(s string) {
	m.status, m.statusErr = s, true
}

// Selection is the committed or in-flight filter selection.
func (m *Model) Selection() directory.Selection { return m.filter.Selection() }

// DetailURL is the page last navigated to, empty when none is open.
func (m *Model) DetailURL() string { return m.detailURL }

// Status is the last status-line message.
func (m *Model) Status() string { return m.status }

func (m *Model) paneSizes() (listW, mapW, bodyH int) {
	listW = m.width * 3 / 5
	mapW = m.width - listW
	bodyH = m.height - 8
	if m.detailURL != "" {
		bodyH -= 7
	}
	return listW, mapW, max(bodyH, 4)
}

func (m *Model) resize() {
	listW, _, bodyH := m.paneSizes()
	m.list.SetSize(max(listW-4, 10), bodyH)
	m.help.Width = m.width
}

func (m *Model) View() string {
	m.resize()
	listW, mapW, bodyH := m.paneSizes()

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.filterBar())
	b.WriteString("\n")

	left := paneStyle(m.focus == listPane).Width(listW - 2).Render(m.list.View())
	right := paneStyle(m.focus == mapPane).Width(mapW - 2).Render(m.mapv.Render(mapW-4, bodyH-1))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")

	if m.detailURL != "" {
		b.WriteString(m.details(m.width - 2))
		b.WriteString("\n")
	}
	if m.status != "" {
		style := successStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) header() string {
	favs := 0
	for _, it := range m.view.Items() {
		if it.Restaurant.IsFavorite {
			favs++
		}
	}
	title := fmt.Sprintf("%s   %s %d  %s %d",
		titleStyle.Render("Restaurants"),
		accentStyle.Render("Total"), m.view.Len(),
		favoriteStyle.Render(heartOn), favs,
	)
	if m.filter.Phase() == directory.Fetching {
		title += "  " + pendingStyle.Render("loading…")
	}
	return title
}

func (m *Model) filterBar() string {
	sel := m.filter.Selection()
	option := func(name string, kind directory.ReferenceKind, v string) string {
		if !m.ref.Enabled(kind) {
			return mutedStyle.Render(name + ": unavailable")
		}
		return name + ": " + accentStyle.Render("‹ "+directory.Label(v)+" ›")
	}
	return option("Neighborhood", directory.NeighborhoodOptions, sel.Neighborhood) + "   " +
		option("Cuisine", directory.CuisineOptions, sel.Cuisine)
}

func (m *Model) details(width int) string {
	r, ok := m.view.ByURL(m.detailURL)
	if !ok {
		body := mutedStyle.Render(m.detailURL + " is no longer listed")
		return paneStyle(false).Width(width).Render(body)
	}
	img := directory.Images(r)
	state := ""
	if ws, tracked := m.view.FavoriteState(r.ID); tracked {
		state = "  " + mutedStyle.Render(ws.String())
	}
	lines := []string{
		titleStyle.Render(r.Name) + "  " + heart(bool(r.IsFavorite)) + state,
		r.CuisineType + " · " + r.Neighborhood,
		r.Address,
		mutedStyle.Render(img.Alt + " " + img.Src),
		mutedStyle.Render(m.detailURL),
	}
	return paneStyle(true).Width(width).Render(strings.Join(lines, "\n"))
}
