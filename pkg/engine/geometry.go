package engine

import "math"

const (
	// ColumnTolerance is the largest column difference at which two
	// endpoints count as vertically aligned.
	ColumnTolerance = 0.01

	// CorridorMargin is the minimum half-width, in column units, kept clear
	// around a node's column when testing a corridor.
	CorridorMargin = 0.02
)

// ColumnPosition returns the column of position k (1-based) among n nodes:
// (2k-1)/(2n). An empty row is a single centered point.
func ColumnPosition(k, n int) float64 {
	if n <= 0 {
		return 0.5
	}
	return float64(2*k-1) / float64(2*n)
}

// ExitPosition returns corridor e of a row with n nodes: e/n. With n == 0
// the row has a single corridor spanning the whole width, whose bounds are
// 0 and 1.
func ExitPosition(e, n int) float64 {
	if n > 0 {
		return float64(e) / float64(n)
	}
	if e == 0 {
		return 0
	}
	return 1
}

// Exits returns the n+1 exit positions of a row with n nodes. An empty row
// yields the two bounds of its single corridor.
func Exits(n int) []float64 {
	if n <= 0 {
		return []float64{0, 1}
	}
	out := make([]float64, n+1)
	for e := 0; e <= n; e++ {
		out[e] = ExitPosition(e, n)
	}
	return out
}

// FloorExit returns the largest exit position of an n-node row that is not
// greater than target, or 0.
func FloorExit(target float64, n int) float64 {
	for e := n; e >= 0; e-- {
		if p := ExitPosition(e, n); p <= target {
			return p
		}
	}
	return 0
}

// CeilExit returns the smallest exit position of an n-node row that is not
// less than target, or 1.
func CeilExit(target float64, n int) float64 {
	for e := 0; e <= n; e++ {
		if p := ExitPosition(e, n); p >= target {
			return p
		}
	}
	return 1
}

func aligned(a, b float64) bool { return math.Abs(a-b) <= ColumnTolerance }

// Corridor is the horizontal occupancy of one row: the columns of its nodes
// and the exit positions between them.
type Corridor struct {
	Columns []float64
	Exits   []float64
}

// Clear reports whether col lies outside every node column of the row by
// more than margin.
func (c Corridor) Clear(col, margin float64) bool {
	for _, nc := range c.Columns {
		if math.Abs(col-nc) <= margin {
			return false
		}
	}
	return true
}

// InClearCorridor reports whether col passes a row without touching any of
// its node columns ± margin.
func InClearCorridor(col float64, columns []float64, margin float64) bool {
	return Corridor{Columns: columns}.Clear(col, margin)
}

// SelectOptimalColumn picks the column a multi-row wire runs along while it
// passes the rows in through. The source column wins if it is clear in
// every row, then the target column. Otherwise an exit of the first row in
// through is chosen: exits clear in all rows are preferred, exits between
// source and target before exits outside, nearer to the source first, and
// ties go to the exit closer to the target.
func SelectOptimalColumn(source, target float64, through []Corridor, margin float64) float64 {
	clearAll := func(col float64) bool {
		for _, c := range through {
			if !c.Clear(col, margin) {
				return false
			}
		}
		return true
	}
	if clearAll(source) {
		return source
	}
	if clearAll(target) {
		return target
	}

	var candidates []float64
	for _, e := range through[0].Exits {
		if clearAll(e) {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		candidates = through[0].Exits
	}

	lo, hi := math.Min(source, target), math.Max(source, target)
	outside := func(e float64) float64 {
		switch {
		case e < lo:
			return lo - e
		case e > hi:
			return e - hi
		}
		return 0
	}
	const eps = 1e-9
	best := candidates[0]
	for _, e := range candidates[1:] {
		do, bo := outside(e), outside(best)
		if do < bo-eps {
			best = e
			continue
		}
		if do > bo+eps {
			continue
		}
		ds, bs := math.Abs(e-source), math.Abs(best-source)
		if ds < bs-eps || (math.Abs(ds-bs) <= eps && math.Abs(e-target) < math.Abs(best-target)) {
			best = e
		}
	}
	return best
}
