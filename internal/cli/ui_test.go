package cli

import (
	"strings"
	"testing"
)

func TestStatsLine(t *testing.T) {
	tests := []struct {
		name              string
		crossings         int
		cached            bool
		want, wantMissing []string
	}{
		{"fresh", 0, false, []string{"4 nodes", "3 wires", "fresh"}, []string{"crossings", "cached"}},
		{"cached with crossings", 2, true, []string{"4 nodes", "3 wires", "2 crossings", "cached"}, []string{"fresh"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statsLine(4, 3, tt.crossings, tt.cached)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("statsLine() = %q, missing %q", got, w)
				}
			}
			for _, w := range tt.wantMissing {
				if strings.Contains(got, w) {
					t.Errorf("statsLine() = %q, should not contain %q", got, w)
				}
			}
		})
	}
}
