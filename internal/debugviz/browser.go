package debugviz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"stacky/internal/ir"
)

// node is one row of the interactive browser: an operation plus the
// edges out of it, precomputed once so View stays a pure render.
type node struct {
	index int
	label string
	edges []edge
}

type edge struct {
	to    int
	label string
}

// buildNodes mirrors WriteDOT's per-Kind labeling but produces data for
// an interactive list instead of Graphviz text, so both sinks describe
// exactly the same control flow.
func buildNodes(body []ir.Operation) []node {
	nodes := make([]node, 0, len(body)+1)
	for i, op := range body {
		n := node{index: i}
		switch op.Kind {
		case ir.OpPushInt:
			n.label = fmt.Sprintf("push %d", op.IntValue)
			n.edges = []edge{{to: nextAfter(body, i + 1)}}
		case ir.OpCast:
			n.label = "cast " + ir.TypeName(op.Type)
			n.edges = []edge{{to: nextAfter(body, i + 1)}}
		case ir.OpIntrinsic:
			n.label = op.Intrinsic.String()
			n.edges = []edge{{to: nextAfter(body, i + 1)}}
		case ir.OpPushSymbol:
			n.label = "push " + op.Symbol
			n.edges = []edge{{to: nextAfter(body, i + 1)}}
		case ir.OpCallSymbol:
			n.label = "call " + op.Symbol
			n.edges = []edge{{to: nextAfter(body, i + 1)}}
		case ir.OpIf:
			n.label = "if"
			n.edges = []edge{
				{to: nextAfter(body, i + 1), label: "true"},
				{to: nextAfter(body, op.Jump), label: "false"},
			}
		case ir.OpDo:
			n.label = "do"
			n.edges = []edge{
				{to: nextAfter(body, i + 1), label: "true"},
				{to: nextAfter(body, op.Jump), label: "false"},
			}
		case ir.OpElse:
			n.label = "else"
			n.edges = []edge{{to: nextAfter(body, op.Jump)}}
		case ir.OpWhile:
			n.label = "while"
			n.edges = []edge{{to: nextAfter(body, i + 1)}}
		case ir.OpReturn:
			n.label = "return"
			n.edges = []edge{{to: len(body)}}
		case ir.OpEnd:
			n.label = "end"
			n.edges = []edge{{to: nextAfter(body, op.Jump)}}
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func nextAfter(body []ir.Operation, to int) int {
	resolved, _ := linkNext(body, 0, to)
	return resolved
}

// browserModel is a bubbletea.Model listing a function body's operations
// with the currently-selected node's outgoing edges highlighted,
// following the buffer-and-render style of
// vovakirdan-surge/internal/ui/progress.go (a plain struct model, no
// bubbles/list dependency needed for a flat instruction list).
type browserModel struct {
	title  string
	nodes  []node
	cursor int
	height int
	width  int
}

// NewBrowser returns a tea.Model for interactively stepping through
// function's control flow (main's, if function is empty).
func NewBrowser(prog *ir.Program, function string) (tea.Model, error) {
	body, err := FunctionBody(prog, function)
	if err != nil {
		return nil, err
	}
	title := "main"
	if function != "" {
		title = function
	}
	return &browserModel{title: title, nodes: buildNodes(body), height: 20, width: 80}, nil
}

func (m *browserModel) Init() tea.Cmd { return nil }

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.nodes)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(m.nodes) {
				if edges := m.nodes[m.cursor].edges; len(edges) > 0 {
					m.jumpTo(edges[0].to)
				}
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m *browserModel) jumpTo(idx int) {
	for i, n := range m.nodes {
		if n.index == idx {
			m.cursor = i
			return
		}
	}
}

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	edgeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
)

func (m *browserModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("control flow: %s", m.title)))
	b.WriteString("\n\n")

	nameWidth := m.width - 8
	if nameWidth < 20 {
		nameWidth = 20
	}

	for i, n := range m.nodes {
		row := fmt.Sprintf("%4d  %s", n.index, truncateLabel(n.label, nameWidth))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}

	if m.cursor < len(m.nodes) {
		b.WriteString("\n")
		for _, e := range m.nodes[m.cursor].edges {
			if e.label != "" {
				b.WriteString(edgeStyle.Render(fmt.Sprintf("  -> %d (%s)\n", e.to, e.label)))
			} else {
				b.WriteString(edgeStyle.Render(fmt.Sprintf("  -> %d\n", e.to)))
			}
		}
	}

	b.WriteString("\n(up/down to move, enter to follow the first edge, q to quit)\n")
	return b.String()
}

func truncateLabel(value string, width int) string {
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
