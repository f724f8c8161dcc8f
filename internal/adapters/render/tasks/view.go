package tasks

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nitwit45/automation-tm/internal/domain"
)

const maxCellWidth = 60

// Render formats one day's task table for the terminal.
func Render(date string, list domain.TaskList) string {
	return renderView(date, list, newStyles())
}

func renderView(date string, list domain.TaskList, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("Tasks for %s", date)),
	}

	if !list.Success {
		reason := list.Err
		if reason == "" {
			reason = "unknown error"
		}
		lines = append(lines, s.failure.Render("Could not fetch tasks: "+reason))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, s.header.Render(fmt.Sprintf("records: %d · total hours: %s", list.TotalRecords, list.TotalHours)))

	if len(list.Tasks) == 0 {
		lines = append(lines, s.empty.Render("No tasks recorded."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, row := range list.Tasks {
		lines = append(lines, s.section.Render(renderRow(row, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRow(row domain.TaskRow, s styles) string {
	statusStyle := s.status
	if row.Ongoing() {
		statusStyle = s.ongoing
	}

	parts := []string{
		lipgloss.JoinHorizontal(lipgloss.Top,
			s.id.Render("#"+string(row.ID())),
			"  ",
			statusStyle.Render(cellText(row.StatusText())),
		),
	}

	// The row is opaque beyond the two known columns; show what's readable.
	for i, cell := range row {
		if i == domain.ColumnTaskID || i == domain.ColumnStatus {
			continue
		}
		text := cellText(cell)
		if text == "" {
			continue
		}
		parts = append(parts, s.detail.Render("  "+text))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// cellText strips markup out of a table cell; the remote embeds HTML in most
// columns.
func cellText(cell string) string {
	var b strings.Builder
	inTag := false
	for _, r := range cell {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}

	text := strings.Join(strings.Fields(b.String()), " ")
	if runes := []rune(text); len(runes) > maxCellWidth {
		text = string(runes[:maxCellWidth-1]) + "…"
	}
	return text
}
