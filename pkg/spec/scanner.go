package spec

import (
	"regexp"
	"strings"
)

const arrow = "-->"

var (
	// Identifiers match the characters Graphviz tolerates unquoted plus
	// dots and dashes, so dotted scopes like "host.root" work.
	idRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

	// A chain is one or more arrow-separated identifiers: a --> b --> c.
	chainRe = regexp.MustCompile(`[A-Za-z0-9._-]+(?:[ \t]*-->[ \t]*[A-Za-z0-9._-]+)+`)

	// A directive header: ".." marker, directive name, colon. The rest of
	// the line belongs to the directive.
	directiveRe = regexp.MustCompile(`\.\.[ \t]*(attr|subgraph|allPaths|ancestors|descendants)[ \t]*:`)
)

// ScanLine extracts every statement from a single line of input. Text that
// is not part of a statement is ignored, so statements can live inside
// prose, code comments, or log output. Recoverable problems are returned
// alongside the statements that did parse.
func ScanLine(line string) ([]Statement, []*Error) {
	var stmts []Statement
	var errs []*Error

	pos := 0
	for pos < len(line) {
		rest := line[pos:]
		dir := directiveRe.FindStringSubmatchIndex(rest)
		chain := chainRe.FindStringIndex(rest)

		if dir == nil && chain == nil {
			break
		}

		if chain != nil && (dir == nil || chain[0] < dir[0]) {
			edges, next := scanChain(line, pos+chain[0], pos+chain[1])
			for _, e := range edges {
				stmts = append(stmts, e)
			}
			pos = next
			continue
		}

		// A directive consumes the remainder of the line.
		name := rest[dir[2]:dir[3]]
		stmt, err := parseDirective(name, rest[dir[1]:])
		if err != nil {
			errs = append(errs, err)
		} else {
			stmts = append(stmts, stmt)
		}
		break
	}

	return stmts, errs
}

// scanChain turns the chain at line[start:end] into edge statements and
// returns the position scanning should resume from. A trailing "::" after
// the chain attaches the rest of the line as a comment on the last edge.
func scanChain(line string, start, end int) ([]Edge, int) {
	ids := strings.Split(line[start:end], arrow)
	for i := range ids {
		ids[i] = strings.Trim(ids[i], " \t")
	}

	edges := make([]Edge, 0, len(ids)-1)
	for i := 0; i+1 < len(ids); i++ {
		edges = append(edges, Edge{Start: ids[i], End: ids[i+1]})
	}

	next := skipSpace(line, end)
	if strings.HasPrefix(line[next:], "::") {
		// Comments run to end of line, so nothing after them is scanned.
		edges[len(edges)-1].Comment = strings.TrimLeft(line[next+2:], " \t")
		next = len(line)
	}
	return edges, next
}

// parseDirective parses a directive body of the form
//
//	<target>[, <label>]: <data>[ :: <comment>]
//
// where target is a single identifier or an edge pattern. The data section
// is interpreted per directive: attributes for attr, a child list for
// subgraph, and a style spec for the reachability directives.
func parseDirective(name, body string) (Statement, *Error) {
	target, label, rest, err := parseTarget(body)
	if err != nil {
		return nil, err
	}

	data, comment := splitComment(rest)

	switch name {
	case "attr":
		pairs, err := parseAttrs(body, data)
		if err != nil {
			return nil, err
		}
		return Attr{Target: target, Label: label, Attrs: pairs, Comment: comment}, nil

	case "subgraph":
		if target.IsEdge() {
			return nil, scanError(body, "subgraph id cannot be an edge pattern")
		}
		children, err := parseChildren(body, data)
		if err != nil {
			return nil, err
		}
		return Subgraph{ID: target.Node, Label: label, Children: children, Comment: comment}, nil

	case "ancestors", "descendants":
		if target.IsEdge() {
			return nil, scanError(body, "%s target must be a single id", name)
		}
		kind := StyleAncestors
		if name == "descendants" {
			kind = StyleDescendants
		}
		return styleStatement(kind, target, body, data)

	case "allPaths":
		if !target.IsEdge() {
			return nil, scanError(body, "allPaths target must be an edge pattern")
		}
		return styleStatement(StyleAllPaths, target, body, data)
	}

	return nil, scanError(body, "unknown directive %q", name)
}

func styleStatement(kind StyleKind, target Target, body, data string) (Statement, *Error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, scanError(body, "missing style for %s directive", kind)
	}
	return Style{Kind: kind, Target: target, Spec: data}, nil
}

// parseTarget consumes the target and optional label from a directive body
// and returns whatever follows the separating colon.
func parseTarget(body string) (target Target, label, rest string, err *Error) {
	pos := skipSpace(body, 0)

	start, pos := scanID(body, pos)
	if start == "" {
		return target, "", "", scanError(body, "missing directive target")
	}

	pos = skipSpace(body, pos)
	if strings.HasPrefix(body[pos:], arrow) {
		pos = skipSpace(body, pos+len(arrow))
		var end string
		end, pos = scanID(body, pos)
		if end == "" {
			return target, "", "", scanError(body, "edge arrow is missing its right operand")
		}
		target = Target{Start: start, End: end}
	} else {
		target = Target{Node: start}
	}

	pos = skipSpace(body, pos)
	if pos < len(body) && body[pos] == ',' {
		tail := body[pos+1:]
		colon := strings.IndexByte(tail, ':')
		if colon < 0 {
			return target, "", "", scanError(body, "label is not followed by ':'")
		}
		label = strings.TrimSpace(tail[:colon])
		if label == "" {
			return target, "", "", scanError(body, "empty label")
		}
		return target, label, tail[colon+1:], nil
	}

	if pos >= len(body) || body[pos] != ':' {
		return target, "", "", scanError(body, "expected ':' after directive target")
	}
	return target, "", body[pos+1:], nil
}

// splitComment separates a data section from its trailing "::" comment.
// Leading whitespace of the comment is stripped, trailing kept.
func splitComment(s string) (data, comment string) {
	if i := strings.Index(s, "::"); i >= 0 {
		return s[:i], strings.TrimLeft(s[i+2:], " \t")
	}
	return s, ""
}

// parseAttrs parses a semicolon-separated key=value list. An empty list is
// fine (the directive may only carry a label or comment); a malformed pair
// fails the whole statement.
func parseAttrs(body, data string) ([]Pair, *Error) {
	var pairs []Pair
	for _, item := range strings.Split(data, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		eq := strings.IndexByte(item, '=')
		if eq <= 0 {
			return nil, scanError(body, "malformed attribute %q: expected key=value", item)
		}
		pairs = append(pairs, Pair{
			Key:   strings.TrimSpace(item[:eq]),
			Value: strings.TrimSpace(item[eq+1:]),
		})
	}
	return pairs, nil
}

// parseChildren parses a comma-separated id list for a subgraph directive.
func parseChildren(body, data string) ([]string, *Error) {
	var children []string
	for _, child := range strings.Split(data, ",") {
		child = strings.TrimSpace(child)
		if child == "" {
			continue
		}
		if !idRe.MatchString(child) {
			return nil, scanError(body, "invalid child id %q", child)
		}
		children = append(children, child)
	}
	if len(children) == 0 {
		return nil, scanError(body, "empty subgraph child list")
	}
	return children, nil
}

// scanID returns the identifier starting at pos and the position after it.
func scanID(s string, pos int) (string, int) {
	end := pos
	for end < len(s) && isIDChar(s[end]) {
		end++
	}
	return s[pos:end], end
}

func isIDChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '.' || c == '_' || c == '-'
}

func skipSpace(s string, pos int) int {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t') {
		pos++
	}
	return pos
}
