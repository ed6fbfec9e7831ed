// Package flow defines the input model of a FlowSchem diagram.
//
// A diagram is described by two independent structures:
//
//   - A segment tree ([Element]) that partitions the page into nested
//     rectangular regions. Inner elements are [Container] or [Segment]
//     values with children; leaves are [Segment] values without children
//     that hold node content.
//   - A [Graph] of [Node] and [Connection] records, with a [Section] index
//     that maps each leaf segment name to its rows of node IDs.
//
// Both structures are read-only once built. The layout engine in
// pkg/engine keeps all per-render state (columns, pixel boxes, ports) in
// its own context and never writes back into these types.
//
// # Element Variants
//
// [Element] is a sealed interface: only [*Container] and [*Segment]
// implement it, so type switches over an Element are exhaustive:
//
//	switch el := e.(type) {
//	case *flow.Container:
//	    // el.Children laid out along el.Direction
//	case *flow.Segment:
//	    if el.IsLeaf() { /* node content */ }
//	}
//
// # Connections
//
// Connections come in three kinds. [KindFrom] is only an input convenience;
// [Graph.Normalized] rewrites it into a reversed [KindTo] so that consumers
// only ever see [KindTo] and [KindBidirectional].
//
// # Section Keys
//
// Sections may carry a parent qualifier to disambiguate leaf segments with
// the same name under different parents. The key of a qualified section is
// "parent:name". [Graph.LookupSection] tries the qualified key first and
// falls back to the unqualified one.
package flow
