// Package spec scans raw text for graph statements.
//
// The notation is line oriented and designed to survive inside arbitrary
// prose or code: anything that does not look like a statement is ignored.
// Two statement families exist:
//
//	a --> b --> c :: optional comment
//	..attr: a --> b, Label: color=red; style=dashed :: optional comment
//	..subgraph: scope, Label: child1, child2
//	..ancestors: node: pink
//	..descendants: node: green
//	..allPaths: a --> b: highlight
//
// A line yields zero or more edge statements and at most one directive; a
// directive consumes the remainder of its line. Scanning never fails: the
// scanner reports recoverable, line-scoped problems alongside whatever
// statements it could extract.
package spec
