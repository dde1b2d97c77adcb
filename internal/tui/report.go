package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"slotting.dev/slotting/internal/utilization"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// ResultSummary is the headline of a solve or check
type ResultSummary struct {
	Status     string
	Objective  float64
	LowerBound *float64
	Gap        float64
	Dropped    int
	Nodes      int64
}

// RenderResult renders the headline lines of a result
func RenderResult(r ResultSummary) string {
	var b strings.Builder
	status := ColorGreen(r.Status)
	if r.Status != "optimal" {
		status = ColorYellow(r.Status)
	}
	fmt.Fprintf(&b, "Status:     %s\n", status)
	fmt.Fprintf(&b, "Objective:  %s\n", bold.Render(strconv.FormatFloat(r.Objective, 'f', 2, 64)))
	if r.LowerBound != nil {
		fmt.Fprintf(&b, "Bound:      %.2f", *r.LowerBound)
		if r.Gap > 0 {
			fmt.Fprintf(&b, " (gap %.2f%%)", 100*r.Gap)
		}
		b.WriteString("\n")
	}
	if r.Nodes > 0 {
		fmt.Fprintf(&b, "Nodes:      %d\n", r.Nodes)
	}
	if r.Dropped > 0 {
		fmt.Fprintf(&b, "Dropped:    %s\n", ColorYellow(fmt.Sprintf("%d items without par or pick frequency", r.Dropped)))
	}
	return b.String()
}

// RenderUtilization renders one row per shelf followed by a totals row
func RenderUtilization(usages []utilization.ShelfUsage, sum utilization.Summary) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dim).
		Headers("Shelf", "Distance", "Items", "Volume", "Capacity", "Used").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			style := cellStyle
			if col > 0 {
				style = style.Align(lipgloss.Right)
			}
			if col == 5 && row < len(usages) {
				style = style.Inherit(utilizationStyle(usages[row].Utilization))
			}
			return style
		})

	for _, u := range usages {
		t.Row(
			u.ShelfID,
			formatNumber(u.Distance),
			strconv.Itoa(u.Items),
			formatNumber(u.Volume),
			formatNumber(u.Capacity),
			formatPercent(u.Utilization),
		)
	}
	t.Row(
		fmt.Sprintf("%d used of %d", sum.ShelvesUsed, sum.Shelves),
		"",
		strconv.Itoa(sum.Items),
		formatNumber(sum.Volume),
		formatNumber(sum.Capacity),
		formatPercent(sum.Utilization),
	)
	return t.Render()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(100*v, 'f', 1, 64) + "%"
}
