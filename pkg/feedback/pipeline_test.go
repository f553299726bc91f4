package feedback_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptcell/scriptcell/internal/runtime"
	"github.com/scriptcell/scriptcell/pkg/adapters/memory"
	"github.com/scriptcell/scriptcell/pkg/cell"
	"github.com/scriptcell/scriptcell/pkg/domain"
	"github.com/scriptcell/scriptcell/pkg/feedback"
)

// stubBackend scripts the Submit behavior and records the exchange.
type stubBackend struct {
	reply string
	err   error
	got   *feedback.Exchange
}

func (s *stubBackend) Name() string { return "stub" }

func (s *stubBackend) Submit(_ context.Context, ex feedback.Exchange) (string, error) {
	s.got = &ex
	return s.reply, s.err
}

type pipelineFixture struct {
	cell     *cell.Cell
	surface  cell.Surface
	backend  *stubBackend
	notifier *memory.Notifier
	pipeline *feedback.Pipeline
}

func newPipelineFixture(t *testing.T, decl domain.Declaration) *pipelineFixture {
	t.Helper()

	var surface cell.Surface
	factory := func(string, int) cell.Surface {
		s := cell.Surface{
			Buffer:   memory.NewBuffer(""),
			Output:   memory.NewRegion(),
			Graphic:  memory.NewCanvas(),
			Feedback: memory.NewRegion(),
		}
		surface = s
		return s
	}

	interp := memory.NewInterpreter(memory.WithRunFunc(
		func(_ context.Context, it *memory.Interpreter, source string) (any, error) {
			it.EmitStdout(source + "\n")
			return nil, nil
		},
	))
	engine := runtime.NewEngine(interp)
	c := cell.New(decl, engine, factory)

	backend := &stubBackend{}
	notifier := memory.NewNotifier()
	return &pipelineFixture{
		cell:     c,
		surface:  surface,
		backend:  backend,
		notifier: notifier,
		pipeline: feedback.NewPipeline(backend, notifier),
	}
}

func TestPipelineRendersReplyWithLineBreaks(t *testing.T) {
	fix := newPipelineFixture(t, domain.Declaration{ID: "c1", Source: "print(1+1)"})
	fix.backend.reply = "Correct.\nTry naming the variable."

	require.NoError(t, fix.pipeline.Request(context.Background(), fix.cell, 0))

	region := fix.surface.Feedback
	assert.False(t, region.IsEmpty())
	assert.Equal(t, "Correct.<br>Try naming the variable.", region.Content())

	// The exchange carries fresh output from the re-run plus the source.
	require.NotNil(t, fix.backend.got)
	require.Len(t, fix.backend.got.Messages, 2)
	assert.Contains(t, fix.backend.got.Messages[1].Content, "print(1+1)\n")
}

func TestPipelineClearsRegionBeforeSubmitting(t *testing.T) {
	fix := newPipelineFixture(t, domain.Declaration{ID: "c1", Source: "x"})
	fix.surface.Feedback.Show("stale reply")
	fix.backend.err = errors.New("connection refused")

	err := fix.pipeline.Request(context.Background(), fix.cell, 0)
	require.Error(t, err)

	assert.True(t, fix.surface.Feedback.IsEmpty(), "failed request must leave the region cleared")
	assert.Len(t, fix.notifier.Alerts(), 1)
}

func TestPipelineShapeErrorAlerts(t *testing.T) {
	fix := newPipelineFixture(t, domain.Declaration{ID: "c1", Source: "x"})
	fix.backend.err = &feedback.ShapeError{Backend: "stub", Detail: "missing choices"}

	err := fix.pipeline.Request(context.Background(), fix.cell, 0)
	require.Error(t, err)

	assert.True(t, fix.surface.Feedback.IsEmpty())
	assert.Len(t, fix.notifier.Alerts(), 1)
	assert.Empty(t, fix.notifier.Prompts())
}

func TestPipelineMissingCredentialPrompts(t *testing.T) {
	fix := newPipelineFixture(t, domain.Declaration{ID: "c1", Source: "x"})
	fix.backend.err = domain.ErrCredentialMissing

	err := fix.pipeline.Request(context.Background(), fix.cell, 0)
	assert.ErrorIs(t, err, domain.ErrCredentialMissing)

	assert.Len(t, fix.notifier.Prompts(), 1)
	assert.Empty(t, fix.notifier.Alerts())
}

func TestPipelineRejectsNonInteractiveCells(t *testing.T) {
	fix := newPipelineFixture(t, domain.Declaration{
		ID:      "prep",
		Options: domain.CellOptions{Context: domain.ContextSetup},
	})

	err := fix.pipeline.Request(context.Background(), fix.cell, 0)
	assert.ErrorIs(t, err, domain.ErrNotInteractive)
	assert.Nil(t, fix.backend.got)
}

func TestPipelineAlertsWhenRunDropped(t *testing.T) {
	fix := newPipelineFixture(t, domain.Declaration{ID: "c1", Source: "x"})

	// Simulate an in-flight run elsewhere on the page.
	require.True(t, fix.cell.MarkRunning())
	t.Cleanup(fix.cell.MarkIdle)

	err := fix.pipeline.Request(context.Background(), fix.cell, 0)
	require.NoError(t, err)

	assert.Len(t, fix.notifier.Alerts(), 1)
	assert.Nil(t, fix.backend.got, "no submission may happen without a fresh run")
}
