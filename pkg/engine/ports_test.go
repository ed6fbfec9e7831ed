package engine

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		entry PortEntry
		want  Bucket
	}{
		{"same row left", PortEntry{Column: 0.1, SameRow: true}, BucketSameRowLeft},
		{"other row left", PortEntry{Column: 0.1, RowDistance: 1}, BucketLeft},
		{"aligned", PortEntry{Column: 0.505, RowDistance: 2}, BucketAligned},
		{"same row aligned", PortEntry{Column: 0.5, SameRow: true}, BucketAligned},
		{"same row right", PortEntry{Column: 0.9, SameRow: true}, BucketSameRowRight},
		{"other row right", PortEntry{Column: 0.9, RowDistance: 3}, BucketRight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(0.5, tt.entry); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func keys(entries []PortEntry) string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return strings.Join(out, ",")
}

func TestOrderPorts(t *testing.T) {
	tests := []struct {
		name    string
		entries []PortEntry
		want    string
	}{
		{
			name: "buckets in order",
			entries: []PortEntry{
				{Key: "E", Column: 0.9, RowDistance: 1},
				{Key: "C", Column: 0.5, RowDistance: 1},
				{Key: "A", Column: 0.1, SameRow: true},
				{Key: "D", Column: 0.8, SameRow: true},
				{Key: "B", Column: 0.2, RowDistance: 1},
			},
			want: "A,B,C,D,E",
		},
		{
			name: "left by column then distance",
			entries: []PortEntry{
				{Key: "far", Column: 0.25, RowDistance: 3},
				{Key: "near", Column: 0.25, RowDistance: 1},
				{Key: "outer", Column: 0.1, RowDistance: 2},
			},
			want: "outer,near,far",
		},
		{
			name: "aligned by distance",
			entries: []PortEntry{
				{Key: "c3", Column: 0.5, RowDistance: 3},
				{Key: "c1", Column: 0.5, RowDistance: 1},
				{Key: "c2", Column: 0.5, RowDistance: 2},
			},
			want: "c1,c2,c3",
		},
		{
			name: "ties keep input order",
			entries: []PortEntry{
				{Key: "x", Column: 0.8, RowDistance: 1},
				{Key: "y", Column: 0.8, RowDistance: 1},
			},
			want: "x,y",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keys(OrderPorts(0.5, tt.entries)); got != tt.want {
				t.Errorf("OrderPorts() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOrderPortsPartition(t *testing.T) {
	var entries []PortEntry
	for i := 0; i < 40; i++ {
		entries = append(entries, PortEntry{
			Key:         string(rune('a' + i%26)),
			Column:      float64(i%9) / 8,
			SameRow:     i%3 == 0,
			RowDistance: i % 4,
		})
	}
	got := OrderPorts(0.5, entries)
	if len(got) != len(entries) {
		t.Fatalf("OrderPorts() returned %d entries, want %d", len(got), len(entries))
	}
	last := BucketSameRowLeft
	for i, e := range got {
		b := Classify(0.5, e)
		if b < last {
			t.Fatalf("entry %d in bucket %v after bucket %v", i, b, last)
		}
		last = b
	}
}

func TestPortOffset(t *testing.T) {
	tests := []struct {
		i, n int
		want float64
	}{
		{0, 1, 0},
		{0, 2, -6},
		{1, 2, 6},
		{0, 3, -12},
		{1, 3, 0},
		{2, 3, 12},
	}
	for _, tt := range tests {
		if got := PortOffset(tt.i, tt.n); got != tt.want {
			t.Errorf("PortOffset(%d, %d) = %v, want %v", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestEffectiveColumn(t *testing.T) {
	tests := []struct {
		name          string
		center, other float64
		dist, count   int
		want          float64
	}{
		{"adjacent keeps column", 0.5, 0.1, 1, 3, 0.1},
		{"far left floors", 0.5, 0.2, 3, 3, 0},
		{"far right ceils", 0.5, 0.8, 3, 3, 1},
		{"far aligned keeps column", 0.5, 0.5, 3, 3, 0.5},
		{"far right ceils to inner exit", 0.25, 0.4, 2, 2, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveColumn(tt.center, tt.other, tt.dist, tt.count); !near(got, tt.want) {
				t.Errorf("EffectiveColumn() = %v, want %v", got, tt.want)
			}
		})
	}
}
