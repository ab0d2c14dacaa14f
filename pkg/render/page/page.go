// Package page wraps a laid-out SVG diagram in a standalone HTML document.
//
// The page embeds everything the browser-side highlight engine needs: the
// diagram itself, the graph data payload (edge set and forward transitive
// closure), hover descriptions, and the script and stylesheet assets. No
// further server round-trip happens after the page is delivered.
package page

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
)

//go:embed assets/graphspec.js
var script string

//go:embed assets/graphspec.css
var stylesheet string

//go:embed assets/page.html
var pageHTML string

//go:embed assets/index.html
var indexHTML string

var (
	pageTmpl  = template.Must(template.New("page").Parse(pageHTML))
	indexTmpl = template.Must(template.New("index").Parse(indexHTML))
)

// Payload is the graph data embedded alongside the diagram for the
// client-side highlight engine.
type Payload struct {
	// Edges maps each node id to its direct successors.
	Edges map[string][]string `json:"edges"`
	// Closure maps each node id to everything reachable from it.
	Closure map[string][]string `json:"transitive_closure"`
	// Descriptions maps node and edge ids to hover text.
	Descriptions map[string]string `json:"descriptions,omitempty"`
}

// Doc is the input for one rendered page.
type Doc struct {
	Title    string
	SVG      []byte
	Data     Payload
	Problems []string // advisory parse report, shown in a collapsible panel
}

// Render produces the standalone HTML document.
func Render(doc Doc) ([]byte, error) {
	data, err := json.Marshal(doc.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal graph data: %w", err)
	}

	var buf bytes.Buffer
	err = pageTmpl.Execute(&buf, map[string]any{
		"Title":    doc.Title,
		"SVG":      template.HTML(doc.SVG),
		"Data":     template.JS(data),
		"Script":   template.JS(script),
		"Style":    template.CSS(stylesheet),
		"Problems": doc.Problems,
	})
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

// IndexEntry is one profile link on the index page.
type IndexEntry struct {
	Name  string
	Label string
}

// RenderIndex produces the profile listing page.
func RenderIndex(entries []IndexEntry) ([]byte, error) {
	var buf bytes.Buffer
	err := indexTmpl.Execute(&buf, map[string]any{
		"Style":    template.CSS(stylesheet),
		"Profiles": entries,
	})
	if err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}
	return buf.Bytes(), nil
}
