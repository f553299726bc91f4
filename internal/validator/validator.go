package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/scriptcell/scriptcell/pkg/domain"
	"github.com/scriptcell/scriptcell/pkg/ports"
)

// ValidateDocument loads every cell declaration and checks it for problems a
// load alone would not surface: unknown context tags, options that have no
// effect on the declared variant, cells that can neither run nor be edited.
func ValidateDocument(ctx context.Context, loader ports.NotebookLoader) error {
	decls, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading declarations: %w", err)
	}

	var errors []string

	seen := make(map[string]bool, len(decls))
	for _, decl := range decls {
		if decl.ID == "" {
			errors = append(errors, "cell with empty ID")
			continue
		}
		if seen[decl.ID] {
			errors = append(errors, fmt.Sprintf("duplicate cell ID: '%s'", decl.ID))
			continue
		}
		seen[decl.ID] = true

		errors = append(errors, checkDeclaration(decl)...)
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}

	return nil
}

func checkDeclaration(decl domain.Declaration) []string {
	var errors []string

	switch decl.Options.Context {
	case "", domain.ContextInteractive, domain.ContextOutput, domain.ContextSetup:
	default:
		errors = append(errors, fmt.Sprintf("cell '%s': unknown context tag '%s' (falls back to interactive)", decl.ID, decl.Options.Context))
	}

	if decl.Options.Context == domain.ContextSetup && decl.Options.FigCaption != "" {
		errors = append(errors, fmt.Sprintf("cell '%s': fig-cap has no effect on a setup cell (its regions are hidden)", decl.ID))
	}

	if decl.Options.ReadOnly && strings.TrimSpace(decl.Source) == "" {
		errors = append(errors, fmt.Sprintf("cell '%s': read-only with empty source can never produce output", decl.ID))
	}

	return errors
}
