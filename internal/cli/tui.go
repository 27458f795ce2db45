package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/discdraw/pkg/document"
	"github.com/matzehuels/discdraw/pkg/mtext"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// EntityListModel - Interactive entity browser
// =============================================================================

// EntityListModel is the bubbletea model for browsing the entities of a
// drawing. Enter opens the properties of the entity under the cursor.
type EntityListModel struct {
	Snapshot *document.Snapshot
	Cursor   int
	Height   int
	Offset   int
	Detail   bool
}

// NewEntityListModel creates a new entity list model.
func NewEntityListModel(snap *document.Snapshot) EntityListModel {
	return EntityListModel{
		Snapshot: snap,
		Height:   15,
	}
}

func (m EntityListModel) Init() tea.Cmd {
	return nil
}

func (m EntityListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.Snapshot.Entities)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if !m.Detail {
				return m, tea.Quit
			}
			m.Detail = false
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < n-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if n > 0 {
				m.Detail = !m.Detail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m EntityListModel) View() string {
	if m.Detail {
		return m.detailView()
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Snapshot.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ properties  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Snapshot.Entities))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Snapshot.Entities[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, e.ID, e.Kind, e.Layer, entitySummary(e)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Handle", "Kind", "Layer", "Geometry").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 4 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Snapshot.Entities))))
	return b.String()
}

func (m EntityListModel) detailView() string {
	e := m.Snapshot.Entities[m.Cursor]

	var b strings.Builder
	b.WriteString(listSelectedStyle.Render(e.Kind + " " + e.ID))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")
	b.WriteString(renderTable([]string{"Property", "Value"}, entityProperties(m.Snapshot, e)))
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// entitySummary is the one-line geometry of an entity.
func entitySummary(e document.Entity) string {
	switch e.Kind {
	case document.KindCircle:
		return fmt.Sprintf("%s r %s", pt(e.Center), num(e.Radius))
	case document.KindLine:
		return pt(e.Start) + " → " + pt(e.End)
	case document.KindDimension:
		return fmt.Sprintf("%q at %s", e.DimensionText(), pt(e.TextPosition))
	case document.KindText:
		lines := mtext.Plain(e.Content)
		if len(lines) == 0 {
			return pt(e.Anchor)
		}
		return fmt.Sprintf("%q at %s", lines[0], pt(e.Anchor))
	}
	return ""
}

// entityProperties lists the properties of e that are meaningful for its
// kind. Colours are shown with their effective value.
func entityProperties(snap *document.Snapshot, e document.Entity) [][]string {
	rows := [][]string{
		{"Handle", e.ID},
		{"Layer", e.Layer},
		{"Color", fmt.Sprintf("%s (%s)", e.Color, snap.EffectiveColor(e))},
	}
	switch e.Kind {
	case document.KindCircle:
		rows = append(rows,
			[]string{"Center", pt(e.Center)},
			[]string{"Radius", num(e.Radius)},
		)
	case document.KindLine:
		rows = append(rows,
			[]string{"Start", pt(e.Start)},
			[]string{"End", pt(e.End)},
		)
	case document.KindDimension:
		rows = append(rows,
			[]string{"P1", pt(e.P1)},
			[]string{"P2", pt(e.P2)},
			[]string{"Leader", pt(e.Leader)},
			[]string{"Measurement", num(e.Measurement())},
			[]string{"Text", e.DimensionText()},
			[]string{"TextPosition", pt(e.TextPosition)},
			[]string{"TextHeight", num(e.TextHeight)},
			[]string{"TextRotation", num(e.TextRotation)},
			[]string{"TextColor", e.TextColor.String()},
			[]string{"ArrowheadSize", num(e.ArrowSize)},
			[]string{"Precision", fmt.Sprint(e.Precision)},
		)
	case document.KindText:
		rows = append(rows,
			[]string{"Anchor", pt(e.Anchor)},
			[]string{"Width", num(e.Width)},
			[]string{"Height", num(e.Height)},
			[]string{"Rotation", num(e.Rotation)},
			[]string{"Attachment", fmt.Sprint(int(e.Attachment))},
			[]string{"Content", strings.Join(mtext.Plain(e.Content), " / ")},
		)
	}
	return rows
}

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
