// Package ui implements the interactive terminal playground: a Bubble
// Tea program that feeds terminal mouse and key input into a viewport
// controller over an in-memory surface and renders a world-space scene
// through the resulting transform.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/recera/vantage/pkg/frame"
	"github.com/recera/vantage/pkg/geom"
	"github.com/recera/vantage/pkg/surface/sim"
	"github.com/recera/vantage/pkg/viewport"
)

// tickInterval drives the cooperative animation clock. Terminal cells
// are coarse; ~30fps is plenty.
const tickInterval = 33 * time.Millisecond

// sceneNode is a labeled marker in world space.
type sceneNode struct {
	Pos   geom.Point
	Label string
	Glyph rune
}

// demoScene is the fixed world-space content the playground projects.
var demoScene = []sceneNode{
	{Pos: geom.Pt(0, 0), Label: "origin", Glyph: '◆'},
	{Pos: geom.Pt(40, 0), Label: "east", Glyph: '●'},
	{Pos: geom.Pt(-40, 0), Label: "west", Glyph: '●'},
	{Pos: geom.Pt(0, 12), Label: "south", Glyph: '●'},
	{Pos: geom.Pt(0, -12), Label: "north", Glyph: '●'},
	{Pos: geom.Pt(25, 8), Label: "a1", Glyph: '○'},
	{Pos: geom.Pt(-18, -6), Label: "b2", Glyph: '○'},
	{Pos: geom.Pt(55, -10), Label: "c3", Glyph: '○'},
	{Pos: geom.Pt(-50, 9), Label: "d4", Glyph: '○'},
}

// sceneBounds returns the world-space bounding box of the demo scene.
func sceneBounds() geom.Rect {
	minX, minY := demoScene[0].Pos.X, demoScene[0].Pos.Y
	maxX, maxY := minX, minY
	for _, n := range demoScene {
		if n.Pos.X < minX {
			minX = n.Pos.X
		}
		if n.Pos.Y < minY {
			minY = n.Pos.Y
		}
		if n.Pos.X > maxX {
			maxX = n.Pos.X
		}
		if n.Pos.Y > maxY {
			maxY = n.Pos.Y
		}
	}
	return geom.RectOf(minX, minY, maxX-minX, maxY-minY)
}

// changeFeed records controller change notifications. The controller
// invokes it synchronously on the Update goroutine, so plain fields are
// safe.
type changeFeed struct {
	last  viewport.Transform
	count int
}

// Model is the playground's Bubble Tea model.
type Model struct {
	keys keyMap
	help help.Model

	surface *sim.Surface
	ctrl    *viewport.Controller
	frames  *frame.Manual
	feed    *changeFeed

	width  int
	height int
	// viewport pane size in cells, excluding chrome
	viewW int
	viewH int

	quitting bool
}

type tickMsg time.Time

// NewModel builds the playground model and its controller.
func NewModel() (Model, error) {
	surface := sim.New(geom.RectOf(0, 0, 80, 24))
	frames := frame.NewManual(time.Now())
	feed := &changeFeed{last: viewport.Identity()}

	ctrl, err := viewport.New(surface, viewport.Config{
		Scheduler: frames,
	})
	if err != nil {
		return Model{}, err
	}
	ctrl.OnChange(func(tf viewport.Transform) {
		feed.last = tf
		feed.count++
	})

	return Model{
		keys:    newKeyMap(),
		help:    help.New(),
		surface: surface,
		ctrl:    ctrl,
		frames:  frames,
		feed:    feed,
	}, nil
}

// Controller exposes the playground's controller, mainly for tests.
func (m Model) Controller() *viewport.Controller {
	return m.ctrl
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
