package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/graphspec/graphspec/pkg/closure"
	"github.com/graphspec/graphspec/pkg/highlight"
	"github.com/graphspec/graphspec/pkg/model"
	"github.com/graphspec/graphspec/pkg/pipeline"
)

// newExploreCmd creates the explore command, a terminal UI for walking a
// graph's reachability interactively.
func newExploreCmd() *cobra.Command {
	var includeEverything bool

	cmd := &cobra.Command{
		Use:   "explore [file]",
		Short: "Explore a graph interactively in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			lines, err := readInput(input)
			if err != nil {
				return err
			}
			m, err := newExploreModel(lines, includeEverything)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&includeEverything, "include-everything", false, "keep nodes with no edges and no attributes")

	return cmd
}

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1)
	cursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	highlightedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimmedStyle      = lipgloss.NewStyle().Faint(true)
	modeStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	helpStyle        = lipgloss.NewStyle().Faint(true).MarginTop(1)
	panelStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// exploreModel is the bubbletea model behind the explore command. It keeps
// the highlight state in the engine's value form and re-derives the view
// from it on every frame.
type exploreModel struct {
	engine *highlight.Engine
	state  highlight.State
	nodes  []string
	labels map[string]string

	cursor   int
	additive bool
	upward   bool

	markdown    *glamour.TermRenderer
	description string
	width       int
	height      int
}

func newExploreModel(lines []string, includeEverything bool) (*exploreModel, error) {
	g := model.FromLines(lines, model.Config{IncludeEverything: includeEverything})

	var ids []string
	labels := make(map[string]string)
	for _, n := range g.Nodes() {
		if !g.Include(n.ID) {
			continue
		}
		ids = append(ids, n.ID)
		if n.Label != "" {
			labels[n.ID] = n.Label
		}
	}

	var edges []closure.Edge
	var hEdges []highlight.Edge
	for _, e := range g.Edges() {
		edges = append(edges, closure.Edge{From: e.From, To: e.To})
		hEdges = append(hEdges, highlight.Edge{From: e.From, To: e.To})
	}

	table := closure.Compute(ids, edges)
	engine := highlight.New(ids, hEdges, table, pipeline.BuildPayload(g, table).Descriptions)

	markdown, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(60))
	if err != nil {
		return nil, err
	}

	m := &exploreModel{
		engine:   engine,
		state:    engine.Initial(),
		nodes:    ids,
		labels:   labels,
		markdown: markdown,
	}
	m.hoverCursor()
	return m, nil
}

func (m *exploreModel) Init() tea.Cmd {
	return nil
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.hoverCursor()
			}
		case "down", "j":
			if m.cursor < len(m.nodes)-1 {
				m.cursor++
				m.hoverCursor()
			}
		case "enter", " ":
			if len(m.nodes) > 0 {
				m.state = m.engine.Reduce(m.state, highlight.Select{
					Target:   m.nodes[m.cursor],
					Additive: m.additive,
					Upward:   m.upward,
				})
			}
		case "a":
			m.additive = !m.additive
		case "u":
			m.upward = !m.upward
		case "c", "esc":
			m.state = m.engine.Initial()
			m.hoverCursor()
		}
	}
	return m, nil
}

// hoverCursor moves the hover to the node under the cursor and renders its
// description, if it has one.
func (m *exploreModel) hoverCursor() {
	if len(m.nodes) == 0 {
		return
	}
	m.state = m.engine.Reduce(m.state, highlight.Hover{Target: m.nodes[m.cursor]})
	m.description = ""
	if text, ok := m.engine.Description(m.nodes[m.cursor]); ok {
		rendered, err := m.markdown.Render(text)
		if err != nil {
			rendered = text
		}
		m.description = strings.TrimRight(rendered, "\n")
	}
}

func (m *exploreModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("graphspec explore") + "\n")

	for i, id := range m.nodes {
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		line := id
		if label, ok := m.labels[id]; ok {
			line = fmt.Sprintf("%s (%s)", id, label)
		}
		if m.state.Selected[id] {
			line = "* " + line
		}
		switch m.state.Nodes[id] {
		case highlight.Highlighted:
			line = highlightedStyle.Render(line)
		case highlight.Dimmed:
			line = dimmedStyle.Render(line)
		}
		b.WriteString(marker + line + "\n")
	}

	if m.description != "" {
		b.WriteString("\n" + panelStyle.Render(m.description) + "\n")
	}

	modes := []string{}
	if m.additive {
		modes = append(modes, "additive")
	}
	if m.upward {
		modes = append(modes, "upward")
	}
	if len(modes) > 0 {
		b.WriteString("\n" + modeStyle.Render("mode: "+strings.Join(modes, ", ")))
	}

	b.WriteString(helpStyle.Render("\nenter select · a additive · u upward · c clear · q quit"))
	return b.String()
}
