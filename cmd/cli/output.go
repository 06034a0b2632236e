package main

import (
	"fmt"
	"io"
	"strings"

	"cholwatch/app"
	"cholwatch/domain/risk"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#2E9E44")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#6B6F7B")
)

// Styles used for terminal output
var Styles = struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	Header:  lipgloss.NewStyle().Bold(true).Underline(true),
	Success: lipgloss.NewStyle().Foreground(colorSuccess),
	Warning: lipgloss.NewStyle().Foreground(colorWarning),
	Error:   lipgloss.NewStyle().Foreground(colorError),
	Info: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Padding(0, 1),
}

// advisoryStyle maps an advisory style to its terminal colour
func advisoryStyle(s risk.Style) lipgloss.Style {
	switch s {
	case risk.StyleWarning:
		return Styles.Warning
	case risk.StyleError:
		return Styles.Error
	default:
		return Styles.Success
	}
}

// emptyMessage is printed when the file has the column but no usable reading
const emptyMessage = "No cholesterol data found in the uploaded file."

func renderReport(out io.Writer, report *app.Report) {
	fmt.Fprintln(out, Styles.Title.Render("Cholesterol Risk Analysis"))
	fmt.Fprintln(out, Styles.Muted.Render(fmt.Sprintf("%s: %d rows, column %q", report.Filename, report.TotalRows, report.Column)))
	fmt.Fprintln(out)

	if report.Empty {
		fmt.Fprintln(out, Styles.Info.Render(emptyMessage))
		return
	}

	fmt.Fprintln(out, renderPreview(report.RiskPreview))
	fmt.Fprintln(out)

	for _, adv := range report.Advisories {
		fmt.Fprintln(out, advisoryStyle(adv.Style).Render(adv.Message))
	}
	fmt.Fprintln(out)

	counts := make([]string, 0, len(risk.Categories))
	for _, c := range risk.Categories {
		counts = append(counts, advisoryStyle(risk.StyleFor(c)).Render(fmt.Sprintf("%s: %d", c.Label(), report.Counts[c])))
	}
	fmt.Fprintln(out, strings.Join(counts, "  "))

	if skipped := report.Dropped.Missing + report.Dropped.Unparseable; skipped > 0 {
		fmt.Fprintln(out, Styles.Muted.Render(fmt.Sprintf("%d cells skipped (%d missing, %d unreadable)",
			skipped, report.Dropped.Missing, report.Dropped.Unparseable)))
	}
}

// renderPreview formats classified readings as an aligned two-column table
func renderPreview(rows []risk.ClassifiedReading) string {
	valueWidth := len("Cholesterol")
	for _, r := range rows {
		if w := len(risk.FormatValue(r.Value)); w > valueWidth {
			valueWidth = w
		}
	}

	var b strings.Builder
	b.WriteString(Styles.Header.Render(fmt.Sprintf("%-*s", valueWidth, "Cholesterol")))
	b.WriteString("  ")
	b.WriteString(Styles.Header.Render("Risk Category"))
	for _, r := range rows {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%-*s  ", valueWidth, risk.FormatValue(r.Value))
		b.WriteString(advisoryStyle(risk.StyleFor(r.Category)).Render(r.Category.Label()))
	}
	return b.String()
}
