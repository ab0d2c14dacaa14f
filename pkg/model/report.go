package model

import "fmt"

// ProblemKind classifies a structural problem found during the build.
type ProblemKind int

const (
	// ProblemParse is a malformed directive or edge on a specific line.
	// The line is skipped; parsing continues.
	ProblemParse ProblemKind = iota
	// ProblemTreeViolation is an id assigned a second parent subgraph.
	// The conflicting assignment is skipped; the first parent wins.
	ProblemTreeViolation
	// ProblemUnresolvedRef is a directive referencing an id never declared
	// anywhere else. Advisory only: the id is created with defaults.
	ProblemUnresolvedRef
)

func (k ProblemKind) String() string {
	switch k {
	case ProblemParse:
		return "parse error"
	case ProblemTreeViolation:
		return "subgraph tree violation"
	case ProblemUnresolvedRef:
		return "unresolved reference"
	}
	return fmt.Sprintf("ProblemKind(%d)", int(k))
}

// Problem is one structural finding tied to an input line. Line is 1-based;
// 0 means the problem was found after the fold (no single line to blame).
type Problem struct {
	Line    int
	Kind    ProblemKind
	Message string
}

func (p Problem) String() string {
	if p.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", p.Line, p.Kind, p.Message)
	}
	return fmt.Sprintf("%s: %s", p.Kind, p.Message)
}

// Report collects every structural problem of a build, in discovery order.
// A model with a non-empty report is still renderable; problems are
// surfaced to the caller, never fatal.
type Report []Problem

// Errors returns the problems that indicate dropped input (parse errors and
// tree violations), excluding advisory warnings.
func (r Report) Errors() []Problem {
	var out []Problem
	for _, p := range r {
		if p.Kind != ProblemUnresolvedRef {
			out = append(out, p)
		}
	}
	return out
}

// Warnings returns the advisory findings.
func (r Report) Warnings() []Problem {
	var out []Problem
	for _, p := range r {
		if p.Kind == ProblemUnresolvedRef {
			out = append(out, p)
		}
	}
	return out
}
