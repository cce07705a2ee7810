// Package graph defines the typed node/edge model drawn by forcegraph and
// its file serialization.
//
// # Core Types
//
//   - [Node]: an entity with a [Category], a world position, a velocity and
//     an optional pin
//   - [Edge]: a weighted link between two node ids
//   - [Graph]: the ordered node list plus edges, indexed by id
//   - [Category]: the closed set of entity kinds, mapped to a [Style] by [StyleOf]
//
// # Ordering
//
// Node order is significant. It is the draw order (later nodes are painted
// on top) and therefore the reverse of the hit-test order. The core never
// adds or removes nodes; it only mutates positions in place.
//
// # Dangling Edges
//
// An edge may reference an id that is not in the node list. Such edges are
// kept as data but [Graph.Endpoints] reports them as unresolved, and every
// consumer skips them. Constructing a graph never fails because of one.
//
// # File Format
//
// Graph documents are JSON or YAML, chosen by file extension:
//
//	nodes:
//	  - id: core
//	    label: Core Platform
//	    category: module
//	  - id: acme
//	    category: company
//	    x: 320
//	    y: 180
//	edges:
//	  - source: core
//	    target: acme
//	    weight: 2
//
// Nodes with x/y are placed where given; all others are scattered around the
// viewport center when a simulation starts. fx/fy pin a node from the start.
package graph
