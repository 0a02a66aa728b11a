package cmd

import (
	"fmt"
	"io"
	"strings"

	"alertscope/pipeline"
	"alertscope/summary"
	"alertscope/threat"
)

const reportWidth = 70

// renderReport displays the console summary of a run
func renderReport(w io.Writer, res *pipeline.Result, written []string) {
	headerColor.Fprintln(w, strings.Repeat("=", reportWidth))
	headerColor.Fprintln(w, "  SECURITY EVENTS ANALYSIS")
	headerColor.Fprintln(w, strings.Repeat("=", reportWidth))
	mutedColor.Fprintf(w, "  Run %s, %d ms\n", res.RunID, res.Duration.Milliseconds())
	fmt.Fprintln(w)

	printSection(w, "Overview")
	for _, m := range res.Summary.Metrics() {
		printField(w, m.Name, formatMetric(m))
	}
	if res.Temporal.Skipped > 0 {
		warningColor.Fprintf(w, "  %d events had an unparsable timestamp and are excluded from time statistics\n",
			res.Temporal.Skipped)
	}
	fmt.Fprintln(w)

	printSection(w, "Threat categories")
	if len(res.Summary.MainCategories) == 0 {
		warningColor.Fprintln(w, "  No events")
	}
	for _, c := range res.Summary.MainCategories {
		fmt.Fprintf(w, "  %-25s %6d  %s\n", c.Value, c.Count, formatShare(c.Share))
	}
	fmt.Fprintln(w)

	printSection(w, "Top detailed categories")
	for _, c := range res.Summary.DetailCategories {
		fmt.Fprintf(w, "  %-40s %6d\n", truncate(c.Value, 40), c.Count)
	}
	fmt.Fprintln(w)

	printSection(w, "Top signatures")
	for i, s := range res.Summary.TopSignatures {
		fmt.Fprintf(w, "  %2d. %-55s %6d\n", i+1, truncate(s.Value, 55), s.Count)
	}
	fmt.Fprintln(w)

	printSection(w, "Hourly activity")
	renderHourBars(w, res)
	fmt.Fprintln(w)

	printSection(w, "Cyclic patterns")
	for _, pr := range res.Patterns {
		label := fmt.Sprintf("Window %d", pr.WindowLength)
		if !pr.Found() {
			printField(w, label, mutedColor.Sprint("not found"))
			continue
		}
		printField(w, label, fmt.Sprintf("at %d, repeated %d time(s)", pr.Match.Start, pr.Match.Repetitions))
		for _, tok := range pr.Match.Window {
			fmt.Fprintf(w, "    -> %s\n", truncate(tok, 60))
		}
	}

	if len(written) > 0 {
		fmt.Fprintln(w)
		printSection(w, "Files")
		for _, path := range written {
			fmt.Fprintf(w, "  %s\n", path)
		}
	}
	headerColor.Fprintln(w, strings.Repeat("=", reportWidth))
}

// renderHourBars prints one bar per hour with events, scaled to the peak
func renderHourBars(w io.Writer, res *pipeline.Result) {
	hours := res.Temporal.Hours
	_, peak, ok := hours.Peak()
	if !ok {
		warningColor.Fprintln(w, "  No valid timestamps")
		return
	}

	const barWidth = 40
	for _, h := range hours.Hours() {
		n := hours.Count(h)
		bar := strings.Repeat("#", max(1, n*barWidth/peak))
		fmt.Fprintf(w, "  %02d:00 %6d %s\n", h, n, infoColor.Sprint(bar))
	}
}

// renderTaxonomy displays the classification rules in a formatted table
func renderTaxonomy(w io.Writer, tax *threat.Taxonomy) {
	headerColor.Fprintln(w, "TAXONOMY")
	headerColor.Fprintln(w, strings.Repeat("=", 100))
	fmt.Fprintf(w, "%-4s %-22s %-12s %-30s %s\n", "#", "Rule", "Category", "Keywords", "Detail")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, r := range tax.Rules() {
		fmt.Fprintf(w, "%-4d %-22s %-12s %-30s %s\n",
			i+1, r.Name, r.Main, strings.Join(r.Keywords, ", "), r.Default+" (default)")
		for _, d := range r.Details {
			fmt.Fprintf(w, "%-4s %-22s %-12s %-30s %s\n", "", "", "", "  "+strings.Join(d.Keywords, ", "), d.Label)
		}
	}
	fmt.Fprintf(w, "%-4s %-22s %-12s %-30s %s\n", "-", "fallback", threat.Fallback.MainCategory, "(no match)", threat.Fallback.DetailedCategory)
	fmt.Fprintln(w, strings.Repeat("=", 100))
}

// printSection prints a section header
func printSection(w io.Writer, title string) {
	headerColor.Fprintf(w, "  %s\n", title)
	headerColor.Fprintln(w, "  "+strings.Repeat("─", len(title)))
}

// printField prints a key-value field
func printField(w io.Writer, key, value string) {
	if value == "" {
		value = "(not set)"
	}
	fmt.Fprintf(w, "  %-25s %s\n", key+":", value)
}

func formatMetric(m summary.Metric) string {
	if !m.Available {
		return mutedColor.Sprint(m.Value)
	}
	return m.Value
}

func formatShare(share float64) string {
	return fmt.Sprintf("%5.1f%%", share*100)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
