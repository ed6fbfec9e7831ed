package engine

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestColumnPosition(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for k := 1; k <= n; k++ {
			want := float64(2*k-1) / float64(2*n)
			if got := ColumnPosition(k, n); !near(got, want) {
				t.Errorf("ColumnPosition(%d, %d) = %v, want %v", k, n, got, want)
			}
		}
	}
	if got := ColumnPosition(1, 0); got != 0.5 {
		t.Errorf("ColumnPosition(1, 0) = %v, want 0.5", got)
	}
}

func TestExits(t *testing.T) {
	tests := []struct {
		n    int
		want []float64
	}{
		{0, []float64{0, 1}},
		{1, []float64{0, 1}},
		{2, []float64{0, 0.5, 1}},
		{4, []float64{0, 0.25, 0.5, 0.75, 1}},
	}
	for _, tt := range tests {
		got := Exits(tt.n)
		if len(got) != len(tt.want) {
			t.Errorf("Exits(%d) = %v, want %v", tt.n, got, tt.want)
			continue
		}
		for i := range got {
			if !near(got[i], tt.want[i]) {
				t.Errorf("Exits(%d) = %v, want %v", tt.n, got, tt.want)
				break
			}
		}
	}
}

func TestFloorCeilExit(t *testing.T) {
	tests := []struct {
		target      float64
		n           int
		floor, ceil float64
	}{
		{0.5, 3, 1.0 / 3, 2.0 / 3},
		{0.5, 2, 0.5, 0.5},
		{0.1, 4, 0, 0.25},
		{0.9, 4, 0.75, 1},
		{0, 3, 0, 0},
		{1, 3, 1, 1},
	}
	for _, tt := range tests {
		if got := FloorExit(tt.target, tt.n); !near(got, tt.floor) {
			t.Errorf("FloorExit(%v, %d) = %v, want %v", tt.target, tt.n, got, tt.floor)
		}
		if got := CeilExit(tt.target, tt.n); !near(got, tt.ceil) {
			t.Errorf("CeilExit(%v, %d) = %v, want %v", tt.target, tt.n, got, tt.ceil)
		}
	}
}

func TestFloorCeilBounds(t *testing.T) {
	for n := 1; n <= 5; n++ {
		for i := 0; i <= 20; i++ {
			target := float64(i) / 20
			f, c := FloorExit(target, n), CeilExit(target, n)
			if f > target+1e-12 || c < target-1e-12 {
				t.Errorf("n=%d target=%v: floor %v, ceil %v do not bracket", n, target, f, c)
			}
			if c-f > 1/float64(n)+1e-12 {
				t.Errorf("n=%d target=%v: floor %v and ceil %v more than one exit apart", n, target, f, c)
			}
		}
	}
}

func TestInClearCorridor(t *testing.T) {
	cols := []float64{0.25, 0.75}
	tests := []struct {
		col  float64
		want bool
	}{
		{0.5, true},
		{0.25, false},
		{0.26, false},
		{0.3, true},
		{0, true},
	}
	for _, tt := range tests {
		if got := InClearCorridor(tt.col, cols, CorridorMargin); got != tt.want {
			t.Errorf("InClearCorridor(%v) = %v, want %v", tt.col, got, tt.want)
		}
	}
}

func TestSelectOptimalColumn(t *testing.T) {
	row := func(n int) Corridor {
		c := Corridor{Exits: Exits(n)}
		for k := 1; k <= n; k++ {
			c.Columns = append(c.Columns, ColumnPosition(k, n))
		}
		return c
	}
	tests := []struct {
		name           string
		source, target float64
		through        []Corridor
		want           float64
	}{
		{"source clear", 0.25, 0.75, []Corridor{row(1)}, 0.25},
		{"target clear", 0.5, 0.25, []Corridor{row(1)}, 0.25},
		{"equal exits keep the first", 0.5, 0.5, []Corridor{row(1)}, 0},
		{"exit inside range wins", 1.0 / 6, 5.0 / 6, []Corridor{row(3)}, 1.0 / 3},
		{"exit clear in every row", 0.5, 0.5, []Corridor{row(2), row(1)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectOptimalColumn(tt.source, tt.target, tt.through, CorridorMargin)
			if !near(got, tt.want) {
				t.Errorf("SelectOptimalColumn() = %v, want %v", got, tt.want)
			}
		})
	}
}
