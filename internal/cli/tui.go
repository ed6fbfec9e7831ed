package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWire)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorMuted)
	listHeaderStyle   = lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
)

// =============================================================================
// RouteListModel - Interactive route browser
// =============================================================================

// RouteListModel is the bubbletea model behind "inspect". It lists the
// routes of a layout, shows the waypoints of the selected one, and filters
// with "/".
type RouteListModel struct {
	Title   string
	Summary string
	Rows    []routeRow

	visible   []int
	cursor    int
	offset    int
	height    int
	filtering bool
	query     string
}

// NewRouteListModel creates a route browser over rows.
func NewRouteListModel(title, summary string, rows []routeRow) RouteListModel {
	return RouteListModel{
		Title:   title,
		Summary: summary,
		Rows:    rows,
		visible: filterRows(rows, ""),
		height:  12,
	}
}

func (m RouteListModel) Init() tea.Cmd {
	return nil
}

func (m RouteListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg), nil
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "/":
			m.filtering = true
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.height)
		case "pgdown":
			m.move(m.height)
		case "home", "g":
			m.move(-len(m.visible))
		case "end", "G":
			m.move(len(m.visible))
		}
	case tea.WindowSizeMsg:
		// Header, table borders, detail pane and help line.
		m.height = max(msg.Height-16, 3)
		m.move(0)
	}
	return m, nil
}

// updateFilter edits the query while the filter prompt is open.
func (m RouteListModel) updateFilter(msg tea.KeyMsg) RouteListModel {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.filtering = false
		m.query = ""
	case tea.KeyEnter:
		m.filtering = false
		return m
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.query += string(msg.Runes)
	default:
		return m
	}
	m.visible = filterRows(m.Rows, m.query)
	m.cursor, m.offset = 0, 0
	return m
}

// move shifts the cursor by delta and keeps it inside the window.
func (m *RouteListModel) move(delta int) {
	m.cursor = min(max(m.cursor+delta, 0), max(len(m.visible)-1, 0))
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// Selected returns the row under the cursor.
func (m RouteListModel) Selected() (routeRow, bool) {
	if len(m.visible) == 0 {
		return routeRow{}, false
	}
	return m.Rows[m.visible[m.cursor]], true
}

func (m RouteListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(m.Summary))
	b.WriteString("\n")
	if m.filtering {
		b.WriteString(StyleHighlight.Render("/" + m.query + "▏"))
	} else if m.query != "" {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("filter: %s  (/ edit, esc in prompt clears)", m.query)))
	} else {
		b.WriteString(listDimStyle.Render("↑/↓ navigate  / filter  q quit"))
	}
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.visible))
	window := make([]routeRow, 0, end-m.offset)
	for _, i := range m.visible[m.offset:end] {
		window = append(window, m.Rows[i])
	}
	b.WriteString(routeTable(window, m.cursor-m.offset))
	b.WriteString("\n")

	if r, ok := m.Selected(); ok {
		b.WriteString(listSelectedStyle.Render(fmt.Sprintf("#%d %s %s %s", r.ID, r.Source, iconArrow, r.Target)))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("  waypoints: " + strings.Join(r.Points, " ")))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.cursor+1, len(m.visible)), len(m.visible))))

	return b.String()
}

// =============================================================================
// Route table
// =============================================================================

var routeHeaders = []string{"#", "Source", "Target", "Kind", "Scope", "Dir", "Channels", "Ports", "Pts", "X", "Flags"}

// routeTable renders rows as a bordered table. The row at cursor is
// highlighted; pass -1 for none.
func routeTable(rows []routeRow, cursor int) string {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			strconv.Itoa(r.ID),
			r.Source,
			r.Target,
			r.Kind,
			r.scope(),
			r.Direction,
			r.Channels,
			r.Ports,
			strconv.Itoa(len(r.Points)),
			strconv.Itoa(r.Crossings),
			r.Flags,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers(routeHeaders...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(rows) {
				return base
			}
			r := rows[row]
			switch {
			case row == cursor:
				return base.Foreground(colorWire).Bold(true)
			case col == 9 && r.Crossings > 0:
				return base.Foreground(colorFail)
			case col == 4 && r.Cross:
				return base.Inherit(StyleCross)
			case col == 0 || col == 7 || col == 8:
				return base.Foreground(colorLabel)
			}
			return base.Foreground(colorValue)
		})

	return t.Render()
}
