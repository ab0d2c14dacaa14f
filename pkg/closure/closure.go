// Package closure computes reachability over directed edge sets: forward
// and inverse transitive closure, transitive reduction, and shortest-path
// membership. Everything here is a pure function of its inputs; the
// functions are safe to call from concurrent parses as long as each works
// on its own data.
package closure

import (
	"errors"
	"fmt"
	"sort"
)

// ErrReductionInvariant is returned by [Reduce] when the reduced edge set
// no longer produces the original closure. This indicates a bug in the
// reduction itself, never bad input.
var ErrReductionInvariant = errors.New("transitive reduction changed reachability")

// Edge is a directed edge between two node ids.
type Edge struct {
	From string
	To   string
}

// Set is a set of node ids.
type Set map[string]struct{}

// Contains reports whether id is in the set.
func (s Set) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in lexical order, for deterministic output.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Table maps each node id to the set of ids reachable from it by a
// directed path of length >= 1. Every known node has an entry, possibly
// empty. A node inside a cycle is its own descendant.
type Table map[string]Set

// Reachable reports whether to is reachable from from.
func (t Table) Reachable(from, to string) bool {
	return t[from].Contains(to)
}

// Compute builds the forward closure table for the given nodes and edges.
// Nodes referenced only by edges are included automatically; listing nodes
// explicitly guarantees isolated nodes get (empty) entries too.
//
// Each node is resolved by an iterative depth-first traversal with a
// visited set, so cyclic graphs terminate. Complexity is O(V*(V+E)),
// fine for diagrams meant for human viewing.
func Compute(nodes []string, edges []Edge) Table {
	succ := adjacency(edges)

	table := make(Table, len(nodes))
	for _, id := range nodes {
		table[id] = reach(succ, id)
	}
	for _, e := range edges {
		if _, ok := table[e.From]; !ok {
			table[e.From] = reach(succ, e.From)
		}
		if _, ok := table[e.To]; !ok {
			table[e.To] = reach(succ, e.To)
		}
	}
	return table
}

// Invert flips a closure table: the result maps each node to its ancestors.
// Every node of the input has an entry in the output.
func Invert(t Table) Table {
	inv := make(Table, len(t))
	for id := range t {
		inv[id] = make(Set)
	}
	for from, reachable := range t {
		for to := range reachable {
			if _, ok := inv[to]; !ok {
				inv[to] = make(Set)
			}
			inv[to][from] = struct{}{}
		}
	}
	return inv
}

// Reduce returns a subset of edges with the same closure as the full set.
// An edge is dropped when its target stays reachable from its source
// without it; removals are applied one at a time in input order, so every
// intermediate edge set still carries the full reachability. For acyclic
// graphs this is the standard transitive reduction; for cyclic graphs it
// is best-effort but never disconnects a reachable pair.
//
// The original closure table must be passed in; Reduce verifies the
// invariant closure(reduced) == closure(original) before returning and
// reports ErrReductionInvariant if it ever fails to hold.
func Reduce(edges []Edge, original Table) ([]Edge, error) {
	kept := make([]Edge, len(edges))
	copy(kept, edges)

	for i := 0; i < len(kept); {
		if reachableWithout(kept, i) {
			kept = append(kept[:i], kept[i+1:]...)
			continue
		}
		i++
	}

	reduced := Compute(keys(original), kept)
	if !equal(reduced, original) {
		return nil, fmt.Errorf("%w: %d edges reduced to %d", ErrReductionInvariant, len(edges), len(kept))
	}
	return kept, nil
}

// PathNodes returns every node lying on some shortest path from from to to,
// endpoints included. The result is empty when to is unreachable.
func PathNodes(edges []Edge, from, to string) Set {
	succ := adjacency(edges)
	pred := adjacency(flip(edges))

	distFrom := bfs(succ, from)
	distTo := bfs(pred, to)

	total, ok := distFrom[to]
	if !ok {
		return Set{}
	}

	nodes := make(Set)
	for id, df := range distFrom {
		if dt, ok := distTo[id]; ok && df+dt == total {
			nodes[id] = struct{}{}
		}
	}
	return nodes
}

func adjacency(edges []Edge) map[string][]string {
	succ := make(map[string][]string)
	for _, e := range edges {
		succ[e.From] = append(succ[e.From], e.To)
	}
	return succ
}

func flip(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	for i, e := range edges {
		out[i] = Edge{From: e.To, To: e.From}
	}
	return out
}

// reach collects everything reachable from start by a path of length >= 1.
// start itself is included only if it sits on a cycle.
func reach(succ map[string][]string, start string) Set {
	visited := make(Set)
	stack := append([]string(nil), succ[start]...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited.Contains(id) {
			continue
		}
		visited[id] = struct{}{}
		stack = append(stack, succ[id]...)
	}
	return visited
}

// reachableWithout reports whether edges[skip].To is still reachable from
// edges[skip].From when that edge is ignored.
func reachableWithout(edges []Edge, skip int) bool {
	target := edges[skip]
	succ := make(map[string][]string)
	for i, e := range edges {
		if i == skip {
			continue
		}
		succ[e.From] = append(succ[e.From], e.To)
	}
	return reach(succ, target.From).Contains(target.To)
}

func bfs(succ map[string][]string, start string) map[string]int {
	dist := map[string]int{start: 0}
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range succ[id] {
			if _, seen := dist[next]; !seen {
				dist[next] = dist[id] + 1
				queue = append(queue, next)
			}
		}
	}
	return dist
}

func keys(t Table) []string {
	out := make([]string, 0, len(t))
	for id := range t {
		out = append(out, id)
	}
	return out
}

func equal(a, b Table) bool {
	if len(a) != len(b) {
		return false
	}
	for id, as := range a {
		bs, ok := b[id]
		if !ok || len(as) != len(bs) {
			return false
		}
		for member := range as {
			if !bs.Contains(member) {
				return false
			}
		}
	}
	return true
}
