package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/muesli/termenv"
)

// ExecutionMarkdown renders an execution as markdown: a summary, the step
// table and every journal entry.
func ExecutionMarkdown(exec *domain.Execution) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s / %s\n\n", exec.Origin.Name, exec.Origin.Input)
	fmt.Fprintf(&sb, "- **Execution:** `%s`\n", exec.ID)
	fmt.Fprintf(&sb, "- **Variant:** %s\n", exec.Origin.Variant)
	fmt.Fprintf(&sb, "- **State:** %s\n", exec.State)
	if !exec.FinishedAt.IsZero() {
		fmt.Fprintf(&sb, "- **Duration:** %s\n", exec.FinishedAt.Sub(exec.StartedAt))
	}

	steps := allSteps(exec)
	sb.WriteString("\n## Steps\n\n| # | Step | Kind | State | Duration |\n|---|---|---|---|---|\n")
	for i, s := range steps {
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s |\n", i, s.Name, s.Kind, s.State, s.Duration())
	}

	for _, s := range steps {
		if len(s.Metadata.Journal) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n## %s\n", s.Name)
		for _, e := range s.Metadata.Journal {
			title := e.Title
			if title == "" {
				title = e.ID
			}
			fmt.Fprintf(&sb, "\n### %s\n\n", title)
			if e.Description != "" {
				fmt.Fprintf(&sb, "%s\n\n", e.Description)
			}
			sb.WriteString(entryBlock(e))
		}
	}

	if fin := exec.FinalizeStep; fin != nil && fin.State == domain.StepError {
		sb.WriteString("\n## Error\n\n")
		sb.WriteString(codeBlock("json", fin.Input))
	}
	return sb.String()
}

// StateLabel colors an execution or step state for terminals.
func StateLabel(state string) string {
	p := termenv.ColorProfile()
	s := termenv.String(state)
	switch state {
	case string(domain.StatusFinalized):
		return s.Foreground(p.Color("#22c55e")).String()
	case string(domain.StatusError):
		return s.Foreground(p.Color("#ef4444")).Bold().String()
	}
	return s.Foreground(p.Color("#eab308")).String()
}

func allSteps(exec *domain.Execution) []*domain.StepExecution {
	var out []*domain.StepExecution
	if exec.InitialStep != nil {
		out = append(out, exec.InitialStep)
	}
	out = appendSteps(out, exec.Steps)
	if exec.FinalizeStep != nil {
		out = append(out, exec.FinalizeStep)
	}
	return out
}

func appendSteps(out, steps []*domain.StepExecution) []*domain.StepExecution {
	for _, s := range steps {
		out = append(out, s)
		for _, fork := range s.Forks {
			out = appendSteps(out, fork)
		}
	}
	return out
}

func entryBlock(e domain.JournalEntry) string {
	if e.TypeHint == domain.HintPlaintext {
		if s, ok := e.Entry.(string); ok {
			return codeBlock("", s)
		}
	}
	return codeBlock("json", e.Entry)
}

func codeBlock(lang string, v any) string {
	text, ok := v.(string)
	if !ok || lang == "json" {
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			out = []byte(fmt.Sprint(v))
		}
		text = string(out)
	}
	return fmt.Sprintf("```%s\n%s\n```\n", lang, text)
}
