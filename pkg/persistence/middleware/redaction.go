package middleware

import (
	"context"
	"regexp"

	"github.com/scriptcell/scriptcell/pkg/domain"
	"github.com/scriptcell/scriptcell/pkg/ports"
)

type redactionMiddleware struct {
	next     ports.RunStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware creates a middleware that masks content matching the
// patterns before an outcome is stored. Scripts echo whatever they were fed,
// tokens and connection strings included; the in-memory outcome shown to the
// user stays untouched.
func NewRedactionMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.RunStore) ports.RunStore {
		return &redactionMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactionMiddleware) Save(ctx context.Context, sessionID, cellID string, out *domain.Outcome) error {
	// Clone to avoid side effects on the outcome the host is rendering.
	cloned := *out
	cloned.Block = m.mask(out.Block)
	if s, ok := out.Value.(string); ok {
		cloned.Value = m.mask(s)
	}

	return m.next.Save(ctx, sessionID, cellID, &cloned)
}

func (m *redactionMiddleware) Load(ctx context.Context, sessionID, cellID string) (*domain.Outcome, error) {
	return m.next.Load(ctx, sessionID, cellID)
}

func (m *redactionMiddleware) Delete(ctx context.Context, sessionID, cellID string) error {
	return m.next.Delete(ctx, sessionID, cellID)
}

func (m *redactionMiddleware) List(ctx context.Context, sessionID string) ([]string, error) {
	return m.next.List(ctx, sessionID)
}

func (m *redactionMiddleware) mask(s string) string {
	for _, p := range m.patterns {
		s = p.ReplaceAllString(s, "***")
	}
	return s
}
