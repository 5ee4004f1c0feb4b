// Package frame maps playback time onto the pre-rendered artwork sequence.
package frame

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/framecast/framecast/constant"
)

const (
	prefix = "output_"
	suffix = ".jpg"
)

// Index returns the 1-based frame shown at positionSeconds: floor(p*fps)+1, clamped to [1, total].
// Non-finite or negative positions map to the first frame.
func Index(positionSeconds float64, fps, total int) int {
	if fps <= 0 {
		fps = 1
	}
	if total < 1 {
		total = 1
	}
	if math.IsNaN(positionSeconds) || positionSeconds < 0 {
		return 1
	}
	if math.IsInf(positionSeconds, 1) {
		return total
	}

	f := math.Floor(positionSeconds*float64(fps)) + 1
	if f >= float64(total) {
		return total
	}
	return int(f)
}

// Ref names the artwork of frame i, e.g. frame 42 is output_0042.jpg.
func Ref(i int) string {
	return fmt.Sprintf(constant.ArtworkPattern, i)
}

// InRange reports whether i addresses an existing frame.
func InRange(i, total int) bool {
	return i >= 1 && i <= total
}

// Parse is the inverse of Ref.
func Parse(name string) (int, bool) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
		return 0, false
	}

	digits := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
	if len(digits) < 4 {
		return 0, false
	}

	i, err := strconv.Atoi(digits)
	if err != nil || i < 1 {
		return 0, false
	}
	return i, true
}
