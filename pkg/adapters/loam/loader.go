// Package loam loads cell declarations from a Loam document repository.
// Each cell is one document: YAML frontmatter declares the options, the body
// is the source text.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/scriptcell/scriptcell/pkg/domain"
)

// Loader adapts a Loam repository to the NotebookLoader interface.
type Loader struct {
	Repo *loam.TypedRepository[CellMetadata]
}

// New creates a Loam-backed loader.
func New(repo *loam.TypedRepository[CellMetadata]) *Loader {
	return &Loader{Repo: repo}
}

// Load returns every cell declaration of the document. Cells are ordered by
// their declared order, ties broken by ID; duplicate IDs are rejected.
func (l *Loader) Load(ctx context.Context) ([]domain.Declaration, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing cell documents: %w", err)
	}

	type ordered struct {
		decl  domain.Declaration
		order int
	}

	seen := make(map[string]string, len(docs))
	cells := make([]ordered, 0, len(docs))

	for _, doc := range docs {
		meta := doc.Data

		rawID := meta.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if prior, ok := seen[id]; ok {
			return nil, fmt.Errorf("cell id %q declared in both %q and %q", id, prior, doc.ID)
		}
		seen[id] = doc.ID

		cells = append(cells, ordered{
			order: meta.Order,
			decl: domain.Declaration{
				ID:     id,
				Source: strings.TrimSpace(doc.Content),
				Options: domain.CellOptions{
					Context:    meta.Context,
					Label:      meta.Label,
					Classes:    meta.Classes,
					ReadOnly:   meta.ReadOnly,
					FigCaption: meta.FigCaption,
					Extra:      meta.Extra,
				},
			},
		})
	}

	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].order != cells[j].order {
			return cells[i].order < cells[j].order
		}
		return cells[i].decl.ID < cells[j].decl.ID
	})

	decls := make([]domain.Declaration, len(cells))
	for i, c := range cells {
		decls[i] = c.decl
	}
	return decls, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext == "" {
		return id
	}
	return filepath.ToSlash(strings.TrimSuffix(id, ext))
}
