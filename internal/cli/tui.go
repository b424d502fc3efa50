package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/atlan-go/pkg/model"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// assetPicker - Interactive asset selection
// =============================================================================

// assetPicker is the bubbletea model behind asset search --pick.
type assetPicker struct {
	Assets   []model.Entity
	Cursor   int
	Offset   int
	Height   int
	Selected model.Entity
}

func newAssetPicker(assets []model.Entity) assetPicker {
	return assetPicker{Assets: assets, Height: 15}
}

func (m assetPicker) Init() tea.Cmd {
	return nil
}

func (m assetPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Assets)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = len(m.Assets) - 1
			m.Offset = max(0, m.Cursor-m.Height+1)
		case "enter":
			if len(m.Assets) > 0 {
				m.Selected = m.Assets[m.Cursor]
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-6)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m assetPicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Asset"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Assets))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Assets[i]
		h, a := e.Header(), e.Attrs()

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		updated := "—"
		if h.UpdateTime > 0 {
			updated = formatRelativeTime(time.UnixMilli(h.UpdateTime))
		}
		cert := "—"
		if a.CertificateStatus != "" {
			cert = string(a.CertificateStatus)
		}
		rows = append(rows, []string{cursor, model.DisplayName(e), h.TypeName, cert, updated, a.QualifiedName})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Type", "Certificate", "Updated", "Qualified name").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Assets) {
				return lipgloss.NewStyle()
			}
			current := idx == m.Cursor

			base := lipgloss.NewStyle()
			switch col {
			case 3:
				base = certificateStyle(m.Assets[idx].Attrs().CertificateStatus)
			case 2, 4, 5:
				base = base.Foreground(colorDim)
			}
			if current {
				if col == 1 {
					return base.Foreground(colorCyan).Bold(true)
				}
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Assets))))

	return b.String()
}

func certificateStyle(s model.CertificateStatus) lipgloss.Style {
	switch s {
	case model.CertificateVerified:
		return StyleSuccess
	case model.CertificateDraft:
		return StyleWarning
	case model.CertificateDeprecated:
		return StyleDanger
	}
	return StyleDim
}

// =============================================================================
// Helpers
// =============================================================================

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
