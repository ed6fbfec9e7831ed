// Package graph provides serialization types for connection graphs and
// layouts.
//
// This package defines the canonical wire format for FlowSchem's data, used
// for JSON files, API responses, caching, and cross-tool interoperability.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph], [Layout]: Serialization types (this package)
//   - pkg/flow.Graph: Internal nodes, connections and section index
//   - pkg/engine.Layout: Internal layout (routes with per-render state)
//
// Use [FromFlow]/[ToFlow] and engine.Layout.Export to convert between them.
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format. Edges are stored as written;
// "from" edges are not normalized:
//
//	{
//	  "nodes": [{"id": "core_app", "section": "core", "row": 1}],
//	  "edges": [{"from": "core_app", "to": "core_db", "kind": "to"}]
//	}
//
// # Layout Serialization
//
// A [Layout] carries every coordinate a drawing layer needs: segment
// bounds, node boxes, wire waypoints with arrowheads, and merge buses with
// their junction dots and drops.
//
//	data, _ := graph.MarshalLayout(l)
//	back, _ := graph.UnmarshalLayout(data)
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
