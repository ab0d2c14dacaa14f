// Package model builds the normalized graph model from scanned statements.
//
// A [Graph] accumulates nodes, edges, the subgraph forest, and graph-level
// attributes by folding statements in input order. Repeated declarations
// merge: attributes are last-write-wins per key, labels and comments keep
// the last non-empty value. Structural problems (malformed lines, subgraph
// forest violations) accumulate in a [Report] and never abort the build;
// the resulting model is always renderable.
package model
