// Package highlight implements the interactive selection state machine for
// rendered diagrams. The engine is a pure reducer: (state, event) -> state,
// with no I/O and no suspension points. All reachability lookups hit the
// precomputed closure tables, so every transition is cheap enough for
// per-keystroke use. The same semantics ship as the embedded browser
// script; this package is the testable reference and drives the terminal
// explorer.
package highlight

import (
	"github.com/graphspec/graphspec/pkg/closure"
	"github.com/graphspec/graphspec/pkg/model"
)

// Status is the visual emphasis of a node or edge.
type Status int

const (
	// Neutral is the resting state, before any selection.
	Neutral Status = iota
	// Highlighted marks members of the selected reachability set.
	Highlighted
	// Dimmed marks everything outside the selected set.
	Dimmed
)

func (s Status) String() string {
	switch s {
	case Highlighted:
		return "highlighted"
	case Dimmed:
		return "dimmed"
	}
	return "neutral"
}

// Event is a discrete user interaction. Concrete types are [Select],
// [Hover], and [Unhover].
type Event interface {
	isEvent()
}

// Select picks a node and emphasizes its reachability set: descendants by
// default, ancestors when Upward is set. Additive keeps earlier highlights
// and only adds new ones.
type Select struct {
	Target   string
	Additive bool
	Upward   bool
}

func (Select) isEvent() {}

// Hover shows the description attached to a node or edge, if any.
// Purely presentational; highlights are untouched.
type Hover struct {
	Target string
}

func (Hover) isEvent() {}

// Unhover hides the current description.
type Unhover struct{}

func (Unhover) isEvent() {}

// Edge pairs the endpoint ids of a rendered edge.
type Edge struct {
	From string
	To   string
}

// ID returns the composite identifier the edge is addressed by.
func (e Edge) ID() string { return model.EdgeID(e.From, e.To) }

// State is the full highlight state. States are values: Reduce returns a
// fresh copy and never mutates its input.
type State struct {
	Selected map[string]bool   // currently selected node ids
	Nodes    map[string]Status // node id -> status
	Edges    map[string]Status // composite edge id -> status
	Hovered  string            // id whose description is showing, "" for none
}

func (s State) clone() State {
	out := State{
		Selected: make(map[string]bool, len(s.Selected)),
		Nodes:    make(map[string]Status, len(s.Nodes)),
		Edges:    make(map[string]Status, len(s.Edges)),
		Hovered:  s.Hovered,
	}
	for id := range s.Selected {
		out.Selected[id] = true
	}
	for id, st := range s.Nodes {
		out.Nodes[id] = st
	}
	for id, st := range s.Edges {
		out.Edges[id] = st
	}
	return out
}

// Engine holds the immutable data a diagram ships with: the identifier
// sets, the forward closure, and its inverse (derived once here).
type Engine struct {
	nodes        []string
	edges        []Edge
	forward      closure.Table
	inverse      closure.Table
	descriptions map[string]string
}

// New creates an engine for the given identifier sets and forward closure.
// descriptions maps node and edge ids to hover text and may be nil.
func New(nodes []string, edges []Edge, forward closure.Table, descriptions map[string]string) *Engine {
	return &Engine{
		nodes:        nodes,
		edges:        edges,
		forward:      forward,
		inverse:      closure.Invert(forward),
		descriptions: descriptions,
	}
}

// Initial returns the resting state: nothing selected, everything neutral.
func (e *Engine) Initial() State {
	s := State{
		Selected: make(map[string]bool),
		Nodes:    make(map[string]Status, len(e.nodes)),
		Edges:    make(map[string]Status, len(e.edges)),
	}
	for _, id := range e.nodes {
		s.Nodes[id] = Neutral
	}
	for _, edge := range e.edges {
		s.Edges[edge.ID()] = Neutral
	}
	return s
}

// Description returns the hover text attached to a node or edge id.
func (e *Engine) Description(id string) (string, bool) {
	d, ok := e.descriptions[id]
	return d, ok
}

// Reduce applies one event and returns the next state.
func (e *Engine) Reduce(state State, event Event) State {
	switch ev := event.(type) {
	case Select:
		return e.reduceSelect(state, ev)
	case Hover:
		next := state.clone()
		next.Hovered = ev.Target
		return next
	case Unhover:
		next := state.clone()
		next.Hovered = ""
		return next
	}
	return state
}

func (e *Engine) reduceSelect(state State, ev Select) State {
	var next State
	if ev.Additive {
		next = state.clone()
	} else {
		next = e.Initial()
		next.Hovered = state.Hovered
	}
	next.Selected[ev.Target] = true

	table := e.forward
	if ev.Upward {
		table = e.inverse
	}
	reachable := table[ev.Target]

	for _, id := range e.nodes {
		switch {
		case id == ev.Target || reachable.Contains(id):
			next.Nodes[id] = Highlighted
		case !ev.Additive:
			next.Nodes[id] = Dimmed
		}
	}

	for _, edge := range e.edges {
		switch {
		case edgeMatches(edge, ev.Target, ev.Upward, reachable):
			next.Edges[edge.ID()] = Highlighted
		case !ev.Additive:
			next.Edges[edge.ID()] = Dimmed
		}
	}

	return next
}

// edgeMatches reports whether an edge belongs to the selection: it touches
// the target on the traversal side, or both endpoints are in the reachable
// set.
func edgeMatches(edge Edge, target string, upward bool, reachable closure.Set) bool {
	if upward && edge.To == target {
		return true
	}
	if !upward && edge.From == target {
		return true
	}
	return reachable.Contains(edge.From) && reachable.Contains(edge.To)
}
