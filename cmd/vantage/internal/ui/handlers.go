package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/recera/vantage/pkg/geom"
	"github.com/recera/vantage/pkg/viewport"
)

// Chrome around the viewport pane: one border cell on each side.
const (
	paneBorder   = 1
	sidebarWidth = 28
	statusHeight = 2
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tickMsg:
		// Advance the cooperative animation clock. Pending frame
		// callbacks (animated reset, fit) fire here.
		m.frames.Advance(tickInterval)
		if m.quitting {
			return m, tea.Quit
		}
		return m, tick()

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width

	m.viewW = msg.Width - sidebarWidth - 2*paneBorder
	if m.viewW < 10 {
		m.viewW = 10
	}
	m.viewH = msg.Height - statusHeight - 2*paneBorder
	if m.viewH < 5 {
		m.viewH = 5
	}
	m.surface.SetBounds(geom.RectOf(0, 0, float64(m.viewW), float64(m.viewH)))
	return m
}

// handleMouse translates terminal mouse input into the controller's
// event vocabulary. Coordinates become pane-local; events outside the
// viewport pane are ignored.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	x := float64(msg.X - paneBorder)
	y := float64(msg.Y - paneBorder)
	if x < 0 || y < 0 || x >= float64(m.viewW) || y >= float64(m.viewH) {
		return m
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.surface.Dispatch(viewport.Event{Kind: viewport.Wheel, X: x, Y: y, DeltaY: -1})
		return m
	case tea.MouseButtonWheelDown:
		m.surface.Dispatch(viewport.Event{Kind: viewport.Wheel, X: x, Y: y, DeltaY: 1})
		return m
	}

	switch msg.Action {
	case tea.MouseActionPress:
		m.surface.Dispatch(viewport.Event{
			Kind:   viewport.PointerDown,
			X:      x,
			Y:      y,
			Button: translateMouseButton(msg.Button),
		})
	case tea.MouseActionMotion:
		m.surface.Dispatch(viewport.Event{Kind: viewport.PointerMove, X: x, Y: y})
	case tea.MouseActionRelease:
		m.surface.Dispatch(viewport.Event{Kind: viewport.PointerUp, X: x, Y: y})
	}
	return m
}

func translateMouseButton(b tea.MouseButton) viewport.Button {
	switch b {
	case tea.MouseButtonLeft:
		return viewport.ButtonPrimary
	case tea.MouseButtonMiddle:
		return viewport.ButtonAuxiliary
	case tea.MouseButtonRight:
		return viewport.ButtonSecondary
	default:
		return viewport.ButtonNone
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Fit):
		m.ctrl.FitToContent(sceneBounds(), 4)
		return m, nil

	// The navigation keys go through the surface so the controller's own
	// keyboard handling is what moves the view.
	case key.Matches(msg, m.keys.Up):
		m.surface.Dispatch(viewport.Event{Kind: viewport.KeyDown, Key: "ArrowUp"})
	case key.Matches(msg, m.keys.Down):
		m.surface.Dispatch(viewport.Event{Kind: viewport.KeyDown, Key: "ArrowDown"})
	case key.Matches(msg, m.keys.Left):
		m.surface.Dispatch(viewport.Event{Kind: viewport.KeyDown, Key: "ArrowLeft"})
	case key.Matches(msg, m.keys.Right):
		m.surface.Dispatch(viewport.Event{Kind: viewport.KeyDown, Key: "ArrowRight"})
	case key.Matches(msg, m.keys.ZoomIn):
		m.surface.Dispatch(viewport.Event{Kind: viewport.KeyDown, Key: "+"})
	case key.Matches(msg, m.keys.ZoomOut):
		m.surface.Dispatch(viewport.Event{Kind: viewport.KeyDown, Key: "-"})
	case key.Matches(msg, m.keys.Reset):
		m.surface.Dispatch(viewport.Event{Kind: viewport.KeyDown, Key: "0"})
	}
	return m, nil
}
