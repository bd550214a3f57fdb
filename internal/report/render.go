// Package report renders BBH tables for the terminal and compares the pair
// sets of two runs.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/zjrosen/bbh/internal/bbh"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numStyle    = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	footerStyle = lipgloss.NewStyle().Faint(true)
)

// RenderTable draws t as a bordered table followed by a pair count. If limit
// is positive only the first limit rows are drawn.
func RenderTable(t *bbh.Table, limit int) string {
	pairs := t.Pairs
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}

	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{p.GeneA, p.GeneB, bbh.FormatSimilarity(p.Forward), bbh.FormatSimilarity(p.Reverse)})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(t.Columns()...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= 2:
				return numStyle
			default:
				return cellStyle
			}
		})

	var b strings.Builder
	b.WriteString(tbl.String())
	b.WriteByte('\n')
	footer := fmt.Sprintf("%d bidirectional best hits between %s and %s", t.Len(), t.OrgA, t.OrgB)
	if len(pairs) < t.Len() {
		footer += fmt.Sprintf(" (showing %d)", len(pairs))
	}
	b.WriteString(footerStyle.Render(footer))
	b.WriteByte('\n')
	return b.String()
}
