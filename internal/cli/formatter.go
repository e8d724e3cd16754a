package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/recstat/internal/recstat"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
	// RuleWidth is the width of horizontal separators.
	RuleWidth = 40
)

// PrintJSON outputs statistics in JSON format.
func PrintJSON(stats *recstat.Stats, writer io.Writer) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// FormatRow formats a histogram row as label, file count, percentage and bar.
func FormatRow(row recstat.BinCount) string {
	return fmt.Sprintf("%-20s | %10d | %6.1f%%  %s", row.Label, row.Count, row.Percent, row.Bar())
}

// PrintTable outputs statistics in human-readable table format.
func PrintTable(stats *recstat.Stats, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)
	rule := strings.Repeat("-", RuleWidth)

	fmt.Fprintln(w, "📊 --- Record Length Distribution ---")
	fmt.Fprintf(w, "Directory:\t%s\n", stats.Path)
	fmt.Fprintf(w, "Total Files:\t%d\n", stats.TotalFiles)
	fmt.Fprintf(w, "Total Steps:\t%d\n", stats.TotalSteps)
	fmt.Fprintf(w, "Total Size:\t%s\n", humanize.IBytes(uint64(stats.TotalBytes))) //nolint:gosec // Size is positive
	fmt.Fprintf(w, "Min Length:\t%d\n", stats.Min)
	fmt.Fprintf(w, "Max Length:\t%d\n", stats.Max)
	fmt.Fprintf(w, "Mean Length:\t%.2f\n", stats.Mean)
	fmt.Fprintf(w, "Median:\t%d\n", stats.Median)
	fmt.Fprintf(w, "Std Dev:\t%.2f\n", stats.StdDev)
	fmt.Fprintln(w, rule)

	// Histogram rows carry no tabs and are printed as is
	fmt.Fprintln(w, "Length Ranges (Steps) | File Count | Percentage")
	fmt.Fprintln(w, rule)

	for _, row := range stats.Bins {
		fmt.Fprintln(w, FormatRow(row))
	}

	if len(stats.Longest) > 0 {
		fmt.Fprintln(w, "\nLongest files:\t")

		for i, f := range stats.Longest {
			fmt.Fprintf(w, "  %d) '%s'\t%d lines (%s)\n", i+1, f.Path, f.Lines, humanize.IBytes(uint64(f.Size))) //nolint:gosec // Size is positive
		}
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", stats.Elapsed)

	return w.Flush()
}
