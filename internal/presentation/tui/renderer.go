package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/scriptcell/scriptcell/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// FormatOutcome turns one run outcome into markdown for terminal display:
// the captured output as a code block, plus a figure note per drawn element.
func FormatOutcome(cellID string, out *domain.Outcome) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n\n", cellID)

	if out.Dropped {
		b.WriteString("_Run dropped: another run was in flight._\n")
		return b.String()
	}

	if strings.TrimSpace(out.Block) != "" {
		fmt.Fprintf(&b, "```\n%s```\n", out.Block)
	} else {
		b.WriteString("_No output._\n")
	}

	if out.Artifact != nil {
		caption := out.Artifact.Caption
		if caption == "" {
			caption = "figure"
		}
		fmt.Fprintf(&b, "\n> %d graphic element(s): %s\n", len(out.Artifact.Elements), caption)
	}

	return b.String()
}
