package recstat_test

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/idelchi/recstat/internal/recstat"
)

func TestDefaultBins(t *testing.T) {
	bins := recstat.DefaultBins()

	assert.DeepEqual(t, bins, []recstat.Bin{
		{Low: 0, High: 50},
		{Low: 51, High: 100},
		{Low: 101, High: 200},
		{Low: 201, High: 500},
		{Low: 501, High: 1000},
		{Low: 1001, High: recstat.Unbounded},
	})

	labels := make([]string, len(bins))
	for i, b := range bins {
		labels[i] = b.Label()
	}

	assert.DeepEqual(t, labels, []string{"0-50", "51-100", "101-200", "201-500", "501-1000", "1001+"})
}

func TestNewBins(t *testing.T) {
	tests := []struct {
		name    string
		bounds  []int
		want    []recstat.Bin
		wantErr string
	}{
		{
			name:   "no bounds",
			bounds: nil,
			want:   []recstat.Bin{{Low: 0, High: recstat.Unbounded}},
		},
		{
			name:   "zero bound",
			bounds: []int{0, 10},
			want:   []recstat.Bin{{Low: 0, High: 0}, {Low: 1, High: 10}, {Low: 11, High: recstat.Unbounded}},
		},
		{
			name:    "negative",
			bounds:  []int{-1},
			wantErr: "bin bound -1 is out of range",
		},
		{
			name:    "not increasing",
			bounds:  []int{10, 10},
			wantErr: "bin bound 10 must be greater than 10",
		},
		{
			name:    "decreasing",
			bounds:  []int{100, 50},
			wantErr: "bin bound 50 must be greater than 100",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bins, err := recstat.NewBins(tt.bounds)
			if tt.wantErr != "" {
				assert.Error(t, err, tt.wantErr)

				return
			}

			assert.NilError(t, err)
			assert.DeepEqual(t, bins, tt.want)
		})
	}
}
