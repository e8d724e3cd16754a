package recstat_test

import (
	"math"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/idelchi/recstat/internal/recstat"
)

func samplesOf(lines ...int) []recstat.Sample {
	samples := make([]recstat.Sample, len(lines))
	for i, l := range lines {
		samples[i] = recstat.Sample{Path: string(rune('a'+i)) + ".jsonl", Lines: l, Size: int64(l * 3)}
	}

	return samples
}

func binCounts(stats *recstat.Stats) []int {
	counts := make([]int, len(stats.Bins))
	for i, b := range stats.Bins {
		counts[i] = b.Count
	}

	return counts
}

func TestCompute(t *testing.T) {
	stats, err := recstat.Compute(samplesOf(1500, 10, 150, 60), recstat.DefaultBins(), 0)
	assert.NilError(t, err)

	assert.Equal(t, stats.TotalFiles, 4)
	assert.Equal(t, stats.TotalSteps, 1720)
	assert.Equal(t, stats.TotalBytes, int64(1720*3))
	assert.Equal(t, stats.Min, 10)
	assert.Equal(t, stats.Max, 1500)
	assert.Equal(t, stats.Mean, 430.0)
	assert.Equal(t, stats.Median, 150)
	assert.Assert(t, math.Abs(stats.StdDev-math.Sqrt(384150)) < 1e-9)
	assert.DeepEqual(t, binCounts(stats), []int{1, 1, 1, 0, 0, 1})
	assert.Equal(t, stats.Bins[0].Percent, 25.0)
	assert.Equal(t, stats.Bins[3].Percent, 0.0)
	assert.Assert(t, stats.Longest == nil)
}

func TestComputeMedianUsesUpperMiddle(t *testing.T) {
	stats, err := recstat.Compute(samplesOf(40, 10, 30, 20), recstat.DefaultBins(), 0)
	assert.NilError(t, err)

	assert.Equal(t, stats.Median, 30)
	assert.Equal(t, stats.Mean, 25.0)
}

func TestComputeSingleSample(t *testing.T) {
	stats, err := recstat.Compute(samplesOf(0), recstat.DefaultBins(), 0)
	assert.NilError(t, err)

	assert.Equal(t, stats.TotalFiles, 1)
	assert.Equal(t, stats.Min, 0)
	assert.Equal(t, stats.Max, 0)
	assert.Equal(t, stats.Median, 0)
	assert.Equal(t, stats.Mean, 0.0)
	assert.Equal(t, stats.StdDev, 0.0)
	assert.Equal(t, stats.Bins[0].Count, 1)
	assert.Equal(t, stats.Bins[0].Percent, 100.0)
}

func TestComputeNoSamples(t *testing.T) {
	_, err := recstat.Compute(nil, recstat.DefaultBins(), 0)
	assert.ErrorIs(t, err, recstat.ErrNoRecords)
}

func TestComputeBinBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		lines int
		bin   int
	}{
		{"zero", 0, 0},
		{"top of first bin", 50, 0},
		{"bottom of second bin", 51, 1},
		{"top of second bin", 100, 1},
		{"bottom of third bin", 101, 2},
		{"inside fourth bin", 350, 3},
		{"top of fifth bin", 1000, 4},
		{"bottom of open bin", 1001, 5},
		{"far into open bin", 1_000_000, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := recstat.Compute(samplesOf(tt.lines), recstat.DefaultBins(), 0)
			assert.NilError(t, err)

			for i, b := range stats.Bins {
				want := 0
				if i == tt.bin {
					want = 1
				}

				assert.Equal(t, b.Count, want, "bin %s", b.Label)
			}
		})
	}
}

func TestComputeInvariants(t *testing.T) {
	lines := []int{0, 3, 7, 50, 51, 99, 100, 101, 199, 200, 201, 480, 500, 501, 999, 1000, 1001, 4000, 12, 12}

	for n := 1; n <= len(lines); n++ {
		stats, err := recstat.Compute(samplesOf(lines[:n]...), recstat.DefaultBins(), 0)
		assert.NilError(t, err)

		sum := 0
		for _, b := range stats.Bins {
			sum += b.Count
		}

		assert.Equal(t, sum, stats.TotalFiles)
		assert.Assert(t, stats.Min <= stats.Median && stats.Median <= stats.Max)
		assert.Assert(t, math.Abs(stats.Mean-float64(stats.TotalSteps)/float64(stats.TotalFiles)) < 1e-9)
	}
}

func TestComputeLongest(t *testing.T) {
	samples := []recstat.Sample{
		{Path: "./b.jsonl", Lines: 20},
		{Path: "./a.jsonl", Lines: 20},
		{Path: "./c.jsonl", Lines: 5},
		{Path: "./d.jsonl", Lines: 90},
	}

	stats, err := recstat.Compute(samples, recstat.DefaultBins(), 3)
	assert.NilError(t, err)

	assert.DeepEqual(t, stats.Longest, []recstat.Sample{
		{Path: "d.jsonl", Lines: 90},
		{Path: "a.jsonl", Lines: 20},
		{Path: "b.jsonl", Lines: 20},
	})
	// Input order is untouched.
	assert.Equal(t, samples[0].Path, "./b.jsonl")
}

func TestBarScale(t *testing.T) {
	tests := []struct {
		percent float64
		want    int
	}{
		{0, 0},
		{1.9, 0},
		{2, 1},
		{25, 12},
		{33.3, 16},
		{100, 50},
	}
	for _, tt := range tests {
		row := recstat.BinCount{Percent: tt.percent}
		assert.Equal(t, len([]rune(row.Bar())), tt.want, "percent %v", tt.percent)
	}
}
