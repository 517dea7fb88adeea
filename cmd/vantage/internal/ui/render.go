package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/recera/vantage/pkg/geom"
)

var (
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	nodeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212"))

	minimapStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.viewW == 0 || m.viewH == 0 {
		return "loading..."
	}

	pane := paneStyle.Render(m.renderScene())
	sidebar := sidebarStyle.Render(m.renderSidebar())
	body := lipgloss.JoinHorizontal(lipgloss.Top, pane, sidebar)

	status := statusStyle.Render(m.renderStatus())
	helpView := m.help.View(m.keys)
	return lipgloss.JoinVertical(lipgloss.Left, body, status, helpView)
}

// renderScene projects the world-space scene through the current
// transform into a character grid, one terminal cell per screen pixel.
func (m Model) renderScene() string {
	grid := make([][]rune, m.viewH)
	for y := range grid {
		grid[y] = make([]rune, m.viewW)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	tf := m.ctrl.Transform()

	// World axes: the x axis projects to screen row tf.Y, the y axis to
	// screen column tf.X.
	if sy := int(tf.Y); sy >= 0 && sy < m.viewH {
		for x := 0; x < m.viewW; x++ {
			grid[sy][x] = '·'
		}
	}
	if sx := int(tf.X); sx >= 0 && sx < m.viewW {
		for y := 0; y < m.viewH; y++ {
			grid[y][sx] = '·'
		}
	}

	for _, n := range demoScene {
		p := tf.ApplyPoint(n.Pos)
		x, y := int(p.X), int(p.Y)
		if x < 0 || y < 0 || x >= m.viewW || y >= m.viewH {
			continue
		}
		grid[y][x] = n.Glyph
		// Label to the right of the glyph when it fits.
		for i, r := range n.Label {
			lx := x + 2 + i
			if lx >= m.viewW {
				break
			}
			grid[y][lx] = r
		}
	}

	lines := make([]string, m.viewH)
	for y, row := range grid {
		lines[y] = string(row)
	}
	return nodeStyle.Render(strings.Join(lines, "\n"))
}

// renderSidebar shows the live transform and a minimap of the visible
// world region, both fed by the controller's change notifications.
func (m Model) renderSidebar() string {
	tf := m.feed.last

	var b strings.Builder
	b.WriteString(titleStyle.Render("viewport"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("x     "), valueStyle.Render(fmt.Sprintf("%8.1f", tf.X)))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("y     "), valueStyle.Render(fmt.Sprintf("%8.1f", tf.Y)))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("scale "), valueStyle.Render(fmt.Sprintf("%8.2f", tf.Scale)))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("events"), valueStyle.Render(fmt.Sprintf("%8d", m.feed.count)))
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("minimap"))
	b.WriteString("\n")
	b.WriteString(minimapStyle.Render(m.renderMinimap(16, 8)))
	return b.String()
}

// renderMinimap draws the scene bounds as a fixed map and marks the
// currently visible world window inside it.
func (m Model) renderMinimap(w, h int) string {
	world := sceneBounds().Inset(-10)
	tf := m.ctrl.Transform()

	// Visible world window under the current transform.
	wx0, wy0 := tf.Unapply(0, 0)
	wx1, wy1 := tf.Unapply(float64(m.viewW), float64(m.viewH))

	toCell := func(p geom.Point) (int, int) {
		cx := int((p.X - world.X) / world.Width * float64(w))
		cy := int((p.Y - world.Y) / world.Height * float64(h))
		return cx, cy
	}

	grid := make([][]rune, h)
	for y := range grid {
		grid[y] = make([]rune, w)
		for x := range grid[y] {
			grid[y][x] = '░'
		}
	}

	x0, y0 := toCell(geom.Pt(wx0, wy0))
	x1, y1 := toCell(geom.Pt(wx1, wy1))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if x >= 0 && y >= 0 && x < w && y < h {
				grid[y][x] = '█'
			}
		}
	}
	for _, n := range demoScene {
		cx, cy := toCell(n.Pos)
		if cx >= 0 && cy >= 0 && cx < w && cy < h {
			grid[cy][cx] = '•'
		}
	}

	lines := make([]string, h)
	for y, row := range grid {
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatus() string {
	tf := m.ctrl.Transform()
	wx, wy := m.ctrl.ScreenToWorld(float64(m.viewW)/2, float64(m.viewH)/2)
	return fmt.Sprintf(" drag: pan  wheel: zoom  center: (%.1f, %.1f)  scale: %.2fx", wx, wy, tf.Scale)
}
