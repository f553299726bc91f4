package graph

import (
	"fmt"
	"strings"

	"github.com/scriptcell/scriptcell/pkg/cell"
	"github.com/scriptcell/scriptcell/pkg/domain"
)

// Overlay contains dynamic state data to visualize on the graph.
type Overlay struct {
	// RanCells are cells with a saved outcome in the current session.
	RanCells []string
	// RunningCell is the cell currently holding the run lock, if any.
	RunningCell string
}

// GenerateMermaid produces a Mermaid flowchart syntax string from the cell
// declarations of a document. Execution order is document order, drawn as a
// chain. It applies semantic styling:
// - Setup: ((Circle))
// - Output: [[Subroutine]]
// - Interactive: [/Parallelogram/] (takes edits)
// It also applies overlay styles (Ran/Running) if provided.
func GenerateMermaid(decls []domain.Declaration, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var prev string
	for _, decl := range decls {
		safeID := sanitizeMermaidID(decl.ID)

		// Node shape based on kind
		opener, closer := "[", "]"
		switch cell.KindFor(decl.Options.Context) {
		case cell.KindSetup:
			opener, closer = "((", "))" // Circle
		case cell.KindOutput:
			opener, closer = "[[", "]]" // Subroutine
		case cell.KindInteractive:
			opener, closer = "[/", "/]" // Parallelogram (takes edits)
		}

		title := decl.ID
		if decl.Options.Label != "" {
			title = decl.Options.Label
		}
		if decl.Options.ReadOnly {
			// Annotate read-only cells with a lock icon
			title = title + " <br/> 🔒"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, title, closer))

		if prev != "" {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", prev, safeID))
		}
		prev = safeID
	}

	// Apply overlay styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef ran fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef running fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		ranSet := make(map[string]bool)
		for _, id := range overlay.RanCells {
			safeID := sanitizeMermaidID(id)
			if !ranSet[safeID] && safeID != "" {
				ranSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s ran;\n", safeID))
			}
		}

		if overlay.RunningCell != "" {
			sb.WriteString(fmt.Sprintf("    class %s running;\n", sanitizeMermaidID(overlay.RunningCell)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
