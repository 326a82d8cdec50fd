package reports

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"app/models"
)

// Rendering layout: greedy word wrap against a fixed column budget, page
// break markers every linesPerPage content lines.
const (
	wrapWidth    = 72
	linesPerPage = 50
)

// RenderDocument writes the report as a paginated plain-text document.
// It is a pure function of the report content: rendering the same report
// twice produces byte-identical output. Fails only when the sink does;
// any valid payload renders, including one with empty optional sections.
func RenderDocument(w io.Writer, rep *models.Report) error {
	lines := documentLines(rep)

	var buf bytes.Buffer
	page := 1
	for i, line := range lines {
		if i > 0 && i%linesPerPage == 0 {
			page++
			fmt.Fprintf(&buf, "%s\n--- Page %d ---\n", strings.Repeat("-", wrapWidth), page)
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	return nil
}

func documentLines(rep *models.Report) []string {
	payload := rep.Payload
	if payload == nil {
		payload = &models.ReportPayload{}
	}

	rule := strings.Repeat("=", wrapWidth)
	thin := strings.Repeat("-", wrapWidth)

	lines := []string{
		rule,
		"TOURISM ANALYTICS REPORT",
		rule,
		fmt.Sprintf("%-14s%s", "Title:", rep.Title),
		fmt.Sprintf("%-14s%s", "Kind:", rep.Kind),
		fmt.Sprintf("%-14s%s", "Date range:", rep.DateRange),
		fmt.Sprintf("%-14s%s", "Scope:", payload.Provenance.Scope),
		fmt.Sprintf("%-14s%s", "Generated:", payload.Provenance.GeneratedAt.UTC().Format(time.RFC3339)),
		fmt.Sprintf("%-14s%s", "Source:", payload.Provenance.Source),
		"",
		"EXECUTIVE SUMMARY",
		thin,
	}
	lines = append(lines, wrapText(payload.ExecutiveSummary, wrapWidth)...)

	lines = append(lines, "", "KEY FINDINGS", thin)
	for i, finding := range payload.KeyFindings {
		lines = append(lines, wrapItem(fmt.Sprintf("%d. ", i+1), finding)...)
	}

	lines = append(lines, "", "INSIGHTS", thin)
	for _, insight := range payload.Insights {
		lines = append(lines, wrapItem("- ", insight)...)
	}

	lines = append(lines, "", "RECOMMENDATIONS", thin)
	for i, rec := range payload.Recommendations {
		lines = append(lines, wrapItem(fmt.Sprintf("%d. ", i+1), rec)...)
	}

	snap := payload.Snapshot
	lines = append(lines, "", "DATA SUMMARY", thin,
		fmt.Sprintf("%-20s%.0f", "Total visits:", snap.TotalVisits),
		fmt.Sprintf("%-20s%.2f", "Total revenue:", snap.TotalRevenue),
		fmt.Sprintf("%-20s%.0f", "Unique visitors:", snap.UniqueVisitors),
		fmt.Sprintf("%-20s%.1f", "Average rating:", snap.AverageRating),
	)

	if len(snap.TopAttractions) > 0 {
		lines = append(lines, "", "TOP ATTRACTIONS", thin,
			fmt.Sprintf("%-4s %-32s %10s %14s %8s", "#", "Attraction", "Visits", "Revenue", "Rating"))
		for i, a := range snap.TopAttractions {
			lines = append(lines, fmt.Sprintf("%-4d %-32s %10.0f %14.2f %8.1f",
				i+1, truncate(a.Name, 32), a.Visits, a.Revenue, a.AvgRating))
		}
	}

	if payload.Forecast != nil {
		f := payload.Forecast
		lines = append(lines, "", "FORECAST", thin,
			fmt.Sprintf("%-24s%.0f", "Next month visitors:", f.NextMonthVisitors),
			fmt.Sprintf("%-24s%.2f", "Next month revenue:", f.NextMonthRevenue),
			fmt.Sprintf("%-24s%.2f", "Quarterly revenue:", f.QuarterlyRevenue),
			fmt.Sprintf("%-24s%.2f", "Seasonal index:", f.SeasonalIndex),
			fmt.Sprintf("%-24s%.1f", "Accuracy score:", f.AccuracyScore),
			fmt.Sprintf("%-24s%.1f%%", "Growth rate:", f.GrowthRate),
		)
	}

	lines = appendScenarioSection(lines, thin, "VISITOR SCENARIOS", payload.VisitorScenarios)
	lines = appendScenarioSection(lines, thin, "REVENUE SCENARIOS", payload.RevenueScenarios)

	if len(payload.TrendFactors) > 0 {
		lines = append(lines, "", "TREND FACTORS", thin)
		for _, tf := range payload.TrendFactors {
			lines = append(lines, fmt.Sprintf("%s [%s, %s] %+.0f%% (confidence %.0f)",
				tf.Name, tf.Impact, tf.Category, tf.ExpectedChange, tf.Confidence))
			lines = append(lines, wrapItem("    ", tf.Description)...)
		}
	}

	lines = append(lines, "", rule)
	return lines
}

func appendScenarioSection(lines []string, thin, title string, scenarios []models.Scenario) []string {
	if len(scenarios) == 0 {
		return lines
	}
	lines = append(lines, "", title, thin,
		fmt.Sprintf("%-10s %12s %12s %12s %12s", "Month", "Optimistic", "Realistic", "Pessimistic", "Confidence"))
	for _, s := range scenarios {
		lines = append(lines, fmt.Sprintf("%-10s %12.0f %12.0f %12.0f %12.1f",
			s.Month, s.Optimistic, s.Realistic, s.Pessimistic, s.Confidence))
	}
	return lines
}

// wrapText greedily wraps text into lines of at most width characters.
// Words longer than the budget get a line of their own.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	lines := []string{}
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	return append(lines, current)
}

// wrapItem wraps a list entry under its prefix, indenting continuation
// lines to the prefix width.
func wrapItem(prefix, text string) []string {
	indent := strings.Repeat(" ", len(prefix))
	wrapped := wrapText(text, wrapWidth-len(prefix))

	out := make([]string, 0, len(wrapped))
	for i, line := range wrapped {
		if i == 0 {
			out = append(out, prefix+line)
		} else {
			out = append(out, indent+line)
		}
	}
	return out
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
