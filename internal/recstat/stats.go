package recstat

import (
	"cmp"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
)

// ErrNoRecords is returned when no record files are available for analysis.
var ErrNoRecords = errors.New("no record files found")

// Sample is the line count of a single record file.
type Sample struct {
	// Path is the record file path.
	Path string `json:"path"`
	// Lines is the number of lines in the file.
	Lines int `json:"lines"`
	// Size is the file size in bytes.
	Size int64 `json:"size"`
}

// BinCount is a histogram row.
type BinCount struct {
	// Bin is the range of line counts covered by the row.
	Bin Bin `json:"bin"`
	// Label is the display label of the bin.
	Label string `json:"label"`
	// Count is the number of files in the bin.
	Count int `json:"count"`
	// Percent is Count as a percentage of all files.
	Percent float64 `json:"percent"`
}

// Bar returns the histogram bar, one block per two percent.
func (b BinCount) Bar() string {
	return strings.Repeat("█", int(b.Percent/2)) //nolint:mnd // 1 block ≈ 2%
}

// Stats holds aggregate statistics over the line counts of record files.
type Stats struct {
	// Path is the analyzed directory.
	Path string `json:"path"`
	// TotalFiles is the number of record files analyzed.
	TotalFiles int `json:"total_files"`
	// TotalSteps is the sum of all line counts.
	TotalSteps int `json:"total_steps"`
	// TotalBytes is the cumulative size of all analyzed files.
	TotalBytes int64 `json:"total_bytes"`
	// Min is the smallest line count.
	Min int `json:"min"`
	// Max is the largest line count.
	Max int `json:"max"`
	// Mean is TotalSteps / TotalFiles.
	Mean float64 `json:"mean"`
	// Median is the element at index TotalFiles/2 of the sorted line counts.
	Median int `json:"median"`
	// StdDev is the population standard deviation of the line counts.
	StdDev float64 `json:"std_dev"`
	// Bins is the histogram.
	Bins []BinCount `json:"bins"`
	// Longest contains the files with the most lines, longest first.
	Longest []Sample `json:"longest,omitempty"`
	// Elapsed is the total time taken for analysis.
	Elapsed time.Duration `json:"elapsed"`
}

// Compute aggregates samples into Stats.
// Each sample is counted in the first bin containing it; samples outside
// every bin are not counted. topN limits the Longest list (0 disables it).
func Compute(samples []Sample, bins []Bin, topN int) (*Stats, error) {
	if len(samples) == 0 {
		return nil, ErrNoRecords
	}

	lengths := make([]int, len(samples))
	values := make([]float64, len(samples))

	var (
		totalSteps int
		totalBytes int64
	)

	for i, s := range samples {
		lengths[i] = s.Lines
		totalSteps += s.Lines
		totalBytes += s.Size
	}

	slices.Sort(lengths)

	for i, l := range lengths {
		values[i] = float64(l)
	}

	mean, stdDev := stat.PopMeanStdDev(values, nil)

	stats := &Stats{
		TotalFiles: len(lengths),
		TotalSteps: totalSteps,
		TotalBytes: totalBytes,
		Min:        lengths[0],
		Max:        lengths[len(lengths)-1],
		Mean:       mean,
		Median:     lengths[len(lengths)/2],
		StdDev:     stdDev,
		Bins:       histogram(lengths, bins),
		Longest:    longest(samples, topN),
	}

	return stats, nil
}

// histogram counts sorted lengths into bins.
func histogram(lengths []int, bins []Bin) []BinCount {
	counts := make([]BinCount, len(bins))
	for i, b := range bins {
		counts[i] = BinCount{Bin: b, Label: b.Label()}
	}

	for _, l := range lengths {
		for i := range counts {
			if counts[i].Bin.Contains(l) {
				counts[i].Count++

				break
			}
		}
	}

	for i := range counts {
		counts[i].Percent = 100 * float64(counts[i].Count) / float64(len(lengths))
	}

	return counts
}

// longest returns the topN samples with the most lines.
func longest(samples []Sample, topN int) []Sample {
	if topN <= 0 {
		return nil
	}

	sorted := slices.Clone(samples)
	slices.SortFunc(sorted, func(a, b Sample) int {
		if c := cmp.Compare(b.Lines, a.Lines); c != 0 {
			return c
		}

		return strings.Compare(a.Path, b.Path)
	})

	if len(sorted) > topN {
		sorted = sorted[:topN]
	}

	// Convert paths to slash format for display
	for i := range sorted {
		sorted[i].Path = strings.TrimPrefix(filepath.ToSlash(sorted[i].Path), "./")
	}

	return sorted
}
