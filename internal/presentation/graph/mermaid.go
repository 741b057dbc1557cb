package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/hodr/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of an execution's journal.
// Shapes follow the step kind:
// - Initial: ((Circle))
// - Step: [Rectangle]
// - Parallel branches: dotted edges into the forked lanes
// - Finalize: [/Parallelogram/]
// Every node is styled by its state (finalized, error, pending).
func GenerateMermaid(exec *domain.Execution) string {
	g := &builder{}
	g.sb.WriteString("graph TD\n")

	prev := ""
	if exec.InitialStep != nil {
		prev = g.node(exec.InitialStep, "((", "))")
	}
	prev = g.chain(prev, exec.Steps, "-->")
	if exec.FinalizeStep != nil {
		id := g.node(exec.FinalizeStep, "[/", "/]")
		if prev != "" {
			fmt.Fprintf(&g.sb, "    %s --> %s\n", prev, id)
		}
	}

	g.sb.WriteString("\n    %% State Styles\n")
	// Force black text (color:#000) so labels stay readable on any theme.
	g.sb.WriteString("    classDef finalized fill:#e8f5e9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
	g.sb.WriteString("    classDef error fill:#ffebee,stroke:#c62828,stroke-width:4px,color:#000;\n")
	g.sb.WriteString("    classDef pending fill:#fff8e1,stroke:#f9a825,stroke-dasharray:4,color:#000;\n")
	for _, c := range g.classes {
		fmt.Fprintf(&g.sb, "    class %s %s;\n", c[0], c[1])
	}
	return g.sb.String()
}

type builder struct {
	sb      strings.Builder
	next    int
	classes [][2]string
}

// chain draws steps one after the other from prev and returns the last id.
func (g *builder) chain(prev string, steps []*domain.StepExecution, arrow string) string {
	for _, s := range steps {
		id := g.node(s, "[", "]")
		if prev != "" {
			fmt.Fprintf(&g.sb, "    %s %s %s\n", prev, arrow, id)
		}
		for i, fork := range s.Forks {
			g.chain(id, fork, fmt.Sprintf("-. \"lane %d\" .->", i))
		}
		prev = id
		arrow = "-->"
	}
	return prev
}

func (g *builder) node(s *domain.StepExecution, opener, closer string) string {
	id := fmt.Sprintf("s%d", g.next)
	g.next++

	label := sanitizeLabel(s.Name)
	if d := s.Duration(); d > 0 {
		label = fmt.Sprintf("%s <br/> %s", label, d)
	}
	fmt.Fprintf(&g.sb, "    %s%s\"%s\"%s\n", id, opener, label, closer)
	g.classes = append(g.classes, [2]string{id, string(s.State)})
	return id
}

func sanitizeLabel(name string) string {
	return strings.ReplaceAll(name, "\"", "'")
}
