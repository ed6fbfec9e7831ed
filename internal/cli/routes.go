package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/matzehuels/flowschem/pkg/engine"
)

// routeRow is the display form of one routed connection.
type routeRow struct {
	ID        int
	Source    string
	Target    string
	Kind      string
	Cross     bool
	Direction string
	Channels  string
	Ports     string
	Crossings int
	Flags     string
	Points    []string
}

// scope returns "cross" for wires between sections and "intra" otherwise.
func (r routeRow) scope() string {
	if r.Cross {
		return "cross"
	}
	return "intra"
}

// searchKey is the text the "/" filter matches against.
func (r routeRow) searchKey() string {
	return strings.Join([]string{r.Source, r.Target, r.Kind, r.scope(), r.Flags}, " ")
}

func routeRows(l *engine.Layout) []routeRow {
	rows := make([]routeRow, 0, len(l.Routes))
	for _, r := range l.Routes {
		row := routeRow{
			ID:        r.ID,
			Source:    r.Source,
			Target:    r.Target,
			Kind:      r.Kind.String(),
			Cross:     r.Cross,
			Direction: r.Direction.String(),
			Channels:  formatChannels(r.Channels),
			Ports:     fmt.Sprintf("%+.1f %s %+.1f", r.SourcePort, iconArrow, r.TargetPort),
			Crossings: engine.RouteCrossings(l, r),
			Flags:     routeFlags(r),
		}
		for _, p := range r.Points {
			row.Points = append(row.Points, fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y))
		}
		rows = append(rows, row)
	}
	return rows
}

// formatChannels lists the channel per gap in gap order, e.g. "g0:1 g2:3".
// Cross-section channels are shown as "x:N".
func formatChannels(channels map[int]int) string {
	if len(channels) == 0 {
		return "-"
	}
	gaps := make([]int, 0, len(channels))
	for g := range channels {
		gaps = append(gaps, g)
	}
	sort.Ints(gaps)
	parts := make([]string, 0, len(gaps))
	for _, g := range gaps {
		if g == engine.GlobalGap {
			parts = append(parts, fmt.Sprintf("x:%d", channels[g]))
			continue
		}
		parts = append(parts, fmt.Sprintf("g%d:%d", g, channels[g]))
	}
	return strings.Join(parts, " ")
}

func routeFlags(r *engine.Route) string {
	var flags []string
	if r.Straight {
		flags = append(flags, "straight")
	}
	if r.Merged {
		flags = append(flags, "merged")
	}
	if r.Dashed {
		flags = append(flags, "dashed")
	}
	return strings.Join(flags, ",")
}

// filterRows returns the indices of the rows matching query, best match
// first. An empty query keeps every row in order.
func filterRows(rows []routeRow, query string) []int {
	if strings.TrimSpace(query) == "" {
		out := make([]int, len(rows))
		for i := range rows {
			out[i] = i
		}
		return out
	}
	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = r.searchKey()
	}
	ranks := fuzzy.RankFindFold(query, keys)
	sort.Stable(ranks)
	out := make([]int, len(ranks))
	for i, r := range ranks {
		out[i] = r.OriginalIndex
	}
	return out
}
