package doctor

import (
	"fmt"
	"strings"

	"github.com/kjourdan1/zonectl/internal/output"
)

// StatusIcon returns the icon for a check status.
func StatusIcon(s Status) string {
	if output.NoColor() {
		switch s {
		case StatusPass:
			return "[PASS]"
		case StatusFail:
			return "[FAIL]"
		case StatusWarn:
			return "[WARN]"
		case StatusSkip:
			return "[SKIP]"
		default:
			return "[????]"
		}
	}
	switch s {
	case StatusPass:
		return "✅"
	case StatusFail:
		return "❌"
	case StatusWarn:
		return "⚠️"
	case StatusSkip:
		return "⏭️"
	default:
		return "❓"
	}
}

// PrintResults writes the check table to output.Stdout and a summary line to
// the log. The caller decides the exit code from summary.HasFailure.
func PrintResults(summary Summary) {
	if output.JSONMode {
		output.JSON(summary)
		return
	}

	output.Info("Running prerequisite checks...")

	lastCategory := ""
	for i, r := range summary.Results {
		cat := ""
		if i < len(summary.categories) {
			cat = summary.categories[i]
		}
		if cat != lastCategory {
			printCategoryHeader(cat)
			lastCategory = cat
		}
		printCheckResult(r)
	}

	fmt.Fprintln(output.Stdout)
	printSummaryLine(summary)
}

func printCategoryHeader(cat string) {
	var label string
	switch cat {
	case "tool":
		label = "Required Tools"
	case "files":
		label = "Template & Working Directory"
	case "provider":
		label = "Provider"
	default:
		label = cat
	}
	fmt.Fprintln(output.Stdout)
	if output.NoColor() {
		fmt.Fprintf(output.Stdout, "--- %s ---\n", label)
	} else {
		fmt.Fprintln(output.Stdout, output.StyleBold.Render("━━ "+label+" ━━"))
	}
}

func printCheckResult(r CheckResult) {
	fmt.Fprintf(output.Stdout, "  %s  %s\n", StatusIcon(r.Status), r.Message)
	if r.Fix != "" && r.Status != StatusPass {
		if output.NoColor() {
			fmt.Fprintf(output.Stdout, "       Fix: %s\n", r.Fix)
		} else {
			fmt.Fprintf(output.Stdout, "       💡 %s\n", r.Fix)
		}
	}
}

func printSummaryLine(s Summary) {
	parts := []string{}
	if s.TotalPass > 0 {
		parts = append(parts, fmt.Sprintf("%d passed", s.TotalPass))
	}
	if s.TotalWarn > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", s.TotalWarn))
	}
	if s.TotalFail > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", s.TotalFail))
	}
	line := strings.Join(parts, ", ")

	switch {
	case s.HasFailure:
		output.Fail(fmt.Sprintf("Doctor found issues: %s", line))
	case s.TotalWarn > 0:
		output.Warn(fmt.Sprintf("Doctor completed with warnings: %s", line))
	default:
		output.Success(fmt.Sprintf("All checks passed (%d)", s.TotalPass))
	}
}
