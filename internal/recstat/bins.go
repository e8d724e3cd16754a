package recstat

import (
	"fmt"
	"math"
	"strconv"
)

// Unbounded marks the upper bound of the open top bin.
const Unbounded = math.MaxInt

// Bin is an inclusive range of line counts.
type Bin struct {
	// Low is the smallest line count in the bin.
	Low int `json:"low"`
	// High is the largest line count in the bin, or Unbounded.
	High int `json:"high"`
}

// DefaultBounds are the upper bounds of the default histogram bins.
//
//nolint:gochecknoglobals // Config constant
var DefaultBounds = []int{50, 100, 200, 500, 1000}

// Contains reports whether n lies within the bin.
func (b Bin) Contains(n int) bool {
	return n >= b.Low && n <= b.High
}

// Label returns "low-high", or "low+" for the open bin.
func (b Bin) Label() string {
	if b.High == Unbounded {
		return strconv.Itoa(b.Low) + "+"
	}

	return fmt.Sprintf("%d-%d", b.Low, b.High)
}

// DefaultBins returns [0,50] [51,100] [101,200] [201,500] [501,1000] [1001,+).
func DefaultBins() []Bin {
	bins, _ := NewBins(DefaultBounds)

	return bins
}

// NewBins builds contiguous bins from strictly increasing upper bounds.
// The last bin starts after the final bound and has no upper limit.
func NewBins(bounds []int) ([]Bin, error) {
	bins := make([]Bin, 0, len(bounds)+1)
	low := 0

	for i, high := range bounds {
		if high < 0 || high == Unbounded {
			return nil, fmt.Errorf("bin bound %d is out of range", high)
		}

		if high < low {
			return nil, fmt.Errorf("bin bound %d must be greater than %d", high, bounds[i-1])
		}

		bins = append(bins, Bin{Low: low, High: high})
		low = high + 1
	}

	return append(bins, Bin{Low: low, High: Unbounded}), nil
}
