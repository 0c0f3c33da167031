// Package report renders scan results for the console and exports them as
// JSON and SARIF.
package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/sensit/sensit/internal/types"
)

type PrintOptions struct {
	NoColor bool
	// ShowScore adds the composite score column. The score is informational
	// only; nothing downstream consumes it.
	ShowScore bool
}

// Render writes the human-readable scan report.
func Render(w io.Writer, res *types.ScanResult, opts PrintOptions) {
	if len(res.Secrets) == 0 {
		fmt.Fprintln(w, "No secrets found ✅")
		printFooter(w, res)
		return
	}

	fmt.Fprintf(w, "Secrets found in %s: %d\n\n", res.Target, len(res.Secrets))
	for _, s := range res.Secrets {
		sev := string(s.Severity)
		status := string(s.Status)
		if !opts.NoColor {
			sev = colorSeverity(s.Severity)
			status = colorStatus(s.Status)
		}
		fmt.Fprintf(w, "%s %s %s  %s:%d  %s\n", sev, status, s.RuleType, s.Location, s.LineNumber, maskValue(s.Value))
		if s.AIReasoning != "" {
			fmt.Fprintf(w, "       ai: %.0f%% — %s\n", s.AIConfidence, s.AIReasoning)
		}
		if s.LiveValid != nil && *s.LiveValid {
			fmt.Fprintf(w, "       ⚠ live credential confirmed against %s\n", s.LiveDetails["service"])
		}
		if opts.ShowScore {
			fmt.Fprintf(w, "       score: %.0f/100\n", s.Score())
		}
	}

	fmt.Fprintln(w)
	printSummaryTable(w, res)
	printFooter(w, res)
}

// printSummaryTable renders the severity/status breakdown.
func printSummaryTable(w io.Writer, res *types.ScanResult) {
	bySev := res.CountBySeverity()
	byStatus := res.CountByStatus()

	table := tablewriter.NewWriter(w)
	table.Header("Severity", "Count", "Status", "Count")
	rows := [][2]struct {
		label string
		count int
	}{
		{{string(types.SevCritical), bySev[types.SevCritical]}, {string(types.StatusConfirmed), byStatus[types.StatusConfirmed]}},
		{{string(types.SevHigh), bySev[types.SevHigh]}, {string(types.StatusLikely), byStatus[types.StatusLikely]}},
		{{string(types.SevMedium), bySev[types.SevMedium]}, {string(types.StatusPossible), byStatus[types.StatusPossible]}},
		{{string(types.SevLow), bySev[types.SevLow]}, {string(types.StatusUnverified), byStatus[types.StatusUnverified]}},
	}
	for _, r := range rows {
		_ = table.Append([]string{
			r[0].label, fmt.Sprintf("%d", r[0].count),
			r[1].label, fmt.Sprintf("%d", r[1].count),
		})
	}
	_ = table.Render()
}

func printFooter(w io.Writer, res *types.ScanResult) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Files scanned: %d\n", res.FilesScanned)
	fmt.Fprintf(w, "Scan duration: %.2fs\n", res.Duration.Seconds())
	if live := len(res.LiveConfirmed()); live > 0 {
		fmt.Fprintf(w, "Live-confirmed secrets: %d — rotate these credentials immediately\n", live)
	}
}

func maskValue(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "…" + s[len(s)-4:]
}

func colorSeverity(s types.Severity) string {
	switch s {
	case types.SevCritical:
		return "\x1b[1;31mCRITICAL\x1b[0m" // bold red
	case types.SevHigh:
		return "\x1b[31mHIGH\x1b[0m" // red
	case types.SevMedium:
		return "\x1b[33mMEDIUM\x1b[0m" // yellow
	default:
		return "\x1b[36mLOW\x1b[0m" // cyan
	}
}

func colorStatus(s types.Status) string {
	switch s {
	case types.StatusConfirmed:
		return "\x1b[1;31mCONFIRMED\x1b[0m"
	case types.StatusLikely:
		return "\x1b[33mLIKELY\x1b[0m"
	case types.StatusPossible:
		return "\x1b[36mPOSSIBLE\x1b[0m"
	default:
		return "\x1b[90mUNVERIFIED\x1b[0m" // grey
	}
}
