package engine

import (
	"math"
	"sort"
)

// PortSpacing is the distance between adjacent ports on a node edge.
const PortSpacing = 12.0

// Bucket is the class of a port entry relative to the node it sits on.
// Ports are laid out left to right in bucket order.
type Bucket int

const (
	BucketSameRowLeft  Bucket = iota // A: same row, left of center
	BucketLeft                       // B: other row, left
	BucketAligned                    // C: aligned with center
	BucketSameRowRight               // D: same row, right
	BucketRight                      // E: other row, right
)

func (b Bucket) String() string {
	return [...]string{"A", "B", "C", "D", "E"}[b]
}

// PortEntry describes the far endpoint of a wire attached to a node edge.
type PortEntry struct {
	Key         string  // caller identity, carried through unchanged
	Column      float64 // effective column of the far endpoint
	SameRow     bool
	RowDistance int
}

// Classify returns the bucket of an entry for a node at column center.
func Classify(center float64, e PortEntry) Bucket {
	switch {
	case math.Abs(e.Column-center) <= ColumnTolerance:
		return BucketAligned
	case e.Column < center:
		if e.SameRow {
			return BucketSameRowLeft
		}
		return BucketLeft
	default:
		if e.SameRow {
			return BucketSameRowRight
		}
		return BucketRight
	}
}

// OrderPorts returns entries in left-to-right port order: buckets A to E,
// A and D by column, B and E by column then row distance, C by row
// distance. Entries that compare equal keep their input order.
func OrderPorts(center float64, entries []PortEntry) []PortEntry {
	type keyed struct {
		e       PortEntry
		bucket  Bucket
		primary float64
		second  int
	}
	ks := make([]keyed, len(entries))
	for i, e := range entries {
		k := keyed{e: e, bucket: Classify(center, e), primary: e.Column}
		switch k.bucket {
		case BucketAligned:
			k.primary = float64(e.RowDistance)
		case BucketLeft, BucketRight:
			k.second = e.RowDistance
		}
		ks[i] = k
	}
	sort.SliceStable(ks, func(i, j int) bool {
		a, b := ks[i], ks[j]
		if a.bucket != b.bucket {
			return a.bucket < b.bucket
		}
		if a.primary != b.primary {
			return a.primary < b.primary
		}
		return a.second < b.second
	})
	out := make([]PortEntry, len(ks))
	for i, k := range ks {
		out[i] = k.e
	}
	return out
}

// PortOffset returns the offset from the node center of port i of n:
// (2i - n + 1) * PortSpacing / 2.
func PortOffset(i, n int) float64 {
	return float64(2*i-n+1) * PortSpacing / 2
}

// EffectiveColumn is the column the far endpoint of a wire is ordered by.
// Endpoints in the same or the adjacent row use their own column; farther
// endpoints use the exit of the adjacent row (adjacentCount nodes) their
// wire threads: the floor exit when left of center, the ceiling exit when
// right.
func EffectiveColumn(center, other float64, rowDistance, adjacentCount int) float64 {
	if rowDistance <= 1 {
		return other
	}
	switch {
	case other < center-ColumnTolerance:
		return FloorExit(other, adjacentCount)
	case other > center+ColumnTolerance:
		return CeilExit(other, adjacentCount)
	}
	return other
}
