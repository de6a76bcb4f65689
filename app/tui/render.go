package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lexcodex/bonebudget/framework"
	"github.com/lexcodex/bonebudget/persistence"
)

// RenderEstimation renders the rated totals of report as a table.
func RenderEstimation(report *persistence.Report) string {
	if report == nil {
		return dimStyle.Render("no report")
	}
	title := headerStyle.Render(report.Scene) + dimStyle.Render(" on "+report.Platform)
	overall := "overall " + ratingStyle(report.Overall).Render(report.Overall.String())

	ratings := make([]framework.Rating, 0, len(framework.Metrics))
	rows := make([][]string, 0, len(framework.Metrics))
	for _, metric := range framework.Metrics {
		rating := report.Ratings.Get(metric)
		ratings = append(ratings, rating)
		rows = append(rows, []string{
			string(metric),
			strconv.Itoa(report.Stats.Value(metric)),
			rating.String(),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("METRIC", "VALUE", "RATING").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return sectionHeaderStyle.Padding(0, 1)
			case col == 2 && row >= 0 && row < len(ratings):
				return ratingStyle(ratings[row]).Padding(0, 1)
			case col == 1:
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		})
	return lipgloss.JoinVertical(lipgloss.Left, title, t.String(), overall)
}

// RenderChains renders one row per chain, skipped chains included.
func RenderChains(chains []framework.ChainReport) string {
	if len(chains) == 0 {
		return dimStyle.Render("no chains")
	}
	rows := make([][]string, 0, len(chains))
	skipped := make([]bool, 0, len(chains))
	for _, c := range chains {
		rows = append(rows, chainRow(c))
		skipped = append(skipped, c.Skipped)
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(chainHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return sectionHeaderStyle.Padding(0, 1)
			case row >= 0 && row < len(skipped) && skipped[row]:
				return cellStyle.Foreground(colorDim)
			}
			return cellStyle
		})
	return t.String()
}

var chainHeaders = []string{"CHAIN", "ROOT", "TRANSFORMS", "COLLIDERS", "CHECKS", "RADIUS", "NOTE"}

func chainRow(c framework.ChainReport) []string {
	name := c.Name
	if name == "" {
		name = "-"
	}
	if c.Skipped {
		return []string{name, c.Root, "-", "-", "-", "-", "skipped: " + string(c.SkipReason)}
	}
	var notes []string
	if c.InactiveRoot {
		notes = append(notes, "inactive")
	}
	if c.MultiChildRoots > 0 {
		notes = append(notes, fmt.Sprintf("%d branch", c.MultiChildRoots))
	}
	if c.Endpoints > 0 {
		notes = append(notes, fmt.Sprintf("%d endpoint", c.Endpoints))
	}
	return []string{
		name,
		c.Root,
		strconv.Itoa(c.Transforms),
		strconv.Itoa(c.Colliders),
		strconv.Itoa(c.CollisionChecks),
		strconv.FormatFloat(float64(c.MaxRadius), 'g', 4, 32),
		strings.Join(notes, ", "),
	}
}

// RenderReportList renders saved reports, one line each.
func RenderReportList(reports []persistence.Report) string {
	if len(reports) == 0 {
		return dimStyle.Render("no saved reports")
	}
	var b strings.Builder
	for _, r := range reports {
		fmt.Fprintf(&b, "%s  %s  %-8s %s\n",
			dimStyle.Render(r.ID),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Platform,
			headerStyle.Render(r.Scene)+" "+ratingStyle(r.Overall).Render(r.Overall.String()),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderThresholds renders the tier ceilings of one platform table.
func RenderThresholds(tbl framework.ThresholdTable) string {
	rows := make([][]string, 0, len(framework.Metrics))
	for _, metric := range framework.Metrics {
		tiers := tbl.Tiers(metric)
		rows = append(rows, []string{
			string(metric),
			strconv.Itoa(tiers.Excellent),
			strconv.Itoa(tiers.Good),
			strconv.Itoa(tiers.Medium),
			strconv.Itoa(tiers.Poor),
		})
	}
	headers := []string{"METRIC"}
	for r := framework.RatingExcellent; r < framework.RatingVeryPoor; r++ {
		headers = append(headers, r.String())
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if col > 0 {
					return ratingStyle(framework.Rating(col - 1)).Padding(0, 1)
				}
				return sectionHeaderStyle.Padding(0, 1)
			}
			return cellStyle
		})
	return lipgloss.JoinVertical(lipgloss.Left, headerStyle.Render(tbl.Platform), t.String())
}
