package report

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/zjrosen/bbh/internal/bbh"
	"github.com/zjrosen/bbh/internal/history/domain"
)

var (
	failedStyle    = cellStyle.Foreground(lipgloss.Color("1"))
	succeededStyle = cellStyle.Foreground(lipgloss.Color("2"))
	labelStyle     = lipgloss.NewStyle().Bold(true).Width(11)
)

const timeLayout = "2006-01-02 15:04:05"

func statusStyle(s domain.Status) lipgloss.Style {
	switch s {
	case domain.StatusFailed:
		return failedStyle
	case domain.StatusSucceeded:
		return succeededStyle
	default:
		return cellStyle
	}
}

// RenderRuns draws recorded runs, newest first as given.
func RenderRuns(runs []*domain.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		pairs := ""
		if r.Status() == domain.StatusSucceeded {
			pairs = strconv.Itoa(r.Pairs())
		}
		duration := ""
		if d := r.Duration(); d > 0 {
			duration = d.Round(time.Millisecond).String()
		}
		rows = append(rows, []string{
			r.GUID(),
			r.StartedAt().Local().Format(timeLayout),
			r.OrgA() + " / " + r.OrgB(),
			string(r.Status()),
			pairs,
			duration,
			r.ErrorMessage(),
		})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("RUN", "STARTED", "ORGANISMS", "STATUS", "PAIRS", "DURATION", "ERROR").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 3:
				return statusStyle(runs[row].Status())
			case col == 4 || col == 5:
				return numStyle
			default:
				return cellStyle
			}
		})
	return tbl.String() + "\n"
}

// RenderRun prints every recorded field of one run. Output file paths are
// listed for runs that succeeded.
func RenderRun(r *domain.Run) string {
	var b strings.Builder
	field := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(label), value)
	}

	field("Run", r.GUID())
	field("Status", statusStyle(r.Status()).UnsetPadding().Render(string(r.Status())))
	field("Organisms", r.OrgA()+" / "+r.OrgB())
	field("FASTA 1", r.FastaA())
	field("FASTA 2", r.FastaB())
	field("Output", r.OutDir())
	field("Started", r.StartedAt().Local().Format(timeLayout))
	if !r.FinishedAt().IsZero() {
		field("Finished", r.FinishedAt().Local().Format(timeLayout))
		field("Duration", r.Duration().Round(time.Millisecond).String())
	}
	field("Error", r.ErrorMessage())

	if r.Status() == domain.StatusSucceeded {
		field("Pairs", strconv.Itoa(r.Pairs()))
		field("Table", filepath.Join(r.OutDir(), bbh.TableFileName(r.OrgA(), r.OrgB())))
		field("Sexp", filepath.Join(r.OutDir(), bbh.SexpFileName(r.OrgA(), r.OrgB())))
	}
	return b.String()
}
