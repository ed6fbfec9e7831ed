// Package dsl parses .flow documents.
//
// A document has up to three blocks, each opened by a header line:
//
//	@style
//	theme: engineering
//	node-min-width: 140
//
//	@layout
//	[plant:1[boiler][turbine]]/[grid]
//
//	@nodes
//	plant:boiler-1
//	Burner/gas > Drum
//	plant:boiler-2
//	Drum > Turbine
//	turbine-1
//	Turbine <-> Grid
//	grid-1
//	Grid
//
// Section headers name a section and a row ("grid-1"), optionally
// qualified by the parent segment ("plant:boiler-1"). Node lines declare a
// node in the current row and connect it to a comma-separated list of
// targets with one of the operators:
//
//	>    to            ->   to, dashed
//	<    from          <-   from, dashed
//	<>   bidirectional <->  bidirectional, dashed
//
// A label may carry a hint after a slash ("Burner/gas"). Targets are
// matched against declarations once the whole block is read; targets that
// match nothing become unresolved nodes that the layout engine skips.
//
// Errors are [errors.Error] values with INVALID_STYLE, INVALID_LAYOUT or
// INVALID_NODES codes and the line number they refer to.
package dsl
