// Package dashboard renders hygiene insights for a terminal.
package dashboard

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nexuscrm/hygiene/internal/domain/models"
)

const (
	// Columns is the number of insight cards per row
	Columns   = 4
	cardWidth = 30

	Title = "CRM Data Hygiene Dashboard"

	ColorTitle = lipgloss.Color("#0066CC")
	ColorScore = lipgloss.Color("#00B140")
	ColorClean = lipgloss.Color("#1f77b4")
	ColorIssue = lipgloss.Color("#E74C3C")
	colorMuted = lipgloss.Color("#999999")
)

// ValueColor is blue for a clean (zero) counter and red otherwise
func ValueColor(count int) lipgloss.Color {
	if count == 0 {
		return ColorClean
	}
	return ColorIssue
}

// Terminal renders dashboards with a renderer bound to its writer, so colour
// is dropped when the writer is not a terminal.
type Terminal struct {
	out      io.Writer
	renderer *lipgloss.Renderer
}

// NewTerminal creates a Terminal writing to out
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out, renderer: lipgloss.NewRenderer(out)}
}

// Render builds the dashboard text for insights and a health score
func (t *Terminal) Render(insights models.Insights, score int) string {
	r := t.renderer
	title := r.NewStyle().Foreground(ColorTitle).Bold(true).Render(Title)
	scoreLine := r.NewStyle().Foreground(ColorScore).Bold(true).
		Render(fmt.Sprintf("CRM Health Score: %d/100", score))

	card := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Padding(0, 1).
		Width(cardWidth)
	name := r.NewStyle().Bold(true)

	var rows []string
	for start := 0; start < len(insights); start += Columns {
		end := start + Columns
		if end > len(insights) {
			end = len(insights)
		}
		cards := make([]string, 0, Columns)
		for _, in := range insights[start:end] {
			value := r.NewStyle().Foreground(ValueColor(in.Count)).Bold(true).
				Render(strconv.Itoa(in.Count))
			cards = append(cards, card.Render(name.Render(in.Name)+"\n"+value))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(scoreLine)
	b.WriteString("\n\n")
	if len(rows) > 0 {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
		b.WriteString("\n")
	}
	return b.String()
}

// Print writes the dashboard for a report
func (t *Terminal) Print(report *models.Report) error {
	_, err := io.WriteString(t.out, t.Render(report.Insights, report.HealthScore))
	return err
}
