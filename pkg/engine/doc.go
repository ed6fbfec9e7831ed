// Package engine lays out segment trees and routes orthogonal wires between
// their nodes.
//
// # Overview
//
// [Render] takes a segment tree, a [flow.Graph] and a [style.Config] and
// returns a [Layout]: segment bounds, node boxes, wire waypoints with
// arrowheads, and merge buses with junction dots. The procedure is exact
// and combinatorial; rendering the same input twice yields the same
// geometry.
//
// # Columns and Exits
//
// Within a section, the nodes of a row with n nodes sit at columns
// (2k-1)/(2n), k = 1..n, as fractions of the section width. The n+1 exits
// e/n between and around them are the corridors wires use to pass a row:
//
//	row of 3:   |   A   |   B   |   C   |
//	columns:       1/6     1/2     5/6
//	exits:      0      1/3     2/3      1
//
// # Wires
//
// A wire leaves its source from the bottom edge when heading down and the
// top edge otherwise, and turns in a channel of the gap next to its target.
// Channels are numbered per gap by destination, so wires into one node share
// a channel. Wires into the same node edge merge: they end on a bus and a
// single drop carries one arrow into the node.
//
// Ports are spread along node edges in five buckets, left to right: same-row
// left, other-row left, aligned, same-row right, other-row right. See
// [OrderPorts].
//
// Wires between sections are routed after every segment is placed. Their
// horizontal run sits halfway between the two nodes, shifted by channel.
//
// # Diagnostics
//
// [CountCrossings] counts proper crossings between wire pieces and is
// reported in [Stats].
package engine
