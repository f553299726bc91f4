package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/scriptcell/scriptcell/internal/logging"
	"github.com/scriptcell/scriptcell/internal/metrics"
	"github.com/scriptcell/scriptcell/pkg/cell"
	"github.com/scriptcell/scriptcell/pkg/domain"
	"github.com/scriptcell/scriptcell/pkg/ports"
)

// Pipeline drives one feedback request end to end: fresh run, exchange
// build, backend submission, reply render. It holds no per-request state.
type Pipeline struct {
	backend  Backend
	notifier ports.Notifier
	logger   *slog.Logger
}

// PipelineOption configures the pipeline.
type PipelineOption func(*Pipeline)

// WithLogger injects a logger.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates a pipeline over one backend. The notifier carries
// user-visible alerts and prompts; it must not be nil.
func NewPipeline(backend Backend, notifier ports.Notifier, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		backend:  backend,
		notifier: notifier,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Request asks the backend for feedback on one run target.
//
// The target's source is re-run first so the exchange always carries fresh
// output; the feedback region is cleared before any network call, so a
// failing request can never leave stale or partial content behind. The run
// lock has been released by the time network calls begin.
func (p *Pipeline) Request(ctx context.Context, c *cell.Cell, block int) error {
	if c.Kind() != cell.KindInteractive {
		return domain.ErrNotInteractive
	}
	target, err := c.Target(block)
	if err != nil {
		return err
	}

	target.Feedback().Reset()

	out, err := c.ExecuteBlock(ctx, block)
	if err != nil {
		return fmt.Errorf("running cell for feedback: %w", err)
	}
	if out.Dropped {
		p.notifier.Alert("Another run is in progress; try again when it finishes.")
		p.count("dropped")
		return nil
	}

	source, err := c.CopySource(block)
	if err != nil {
		return err
	}

	reply, err := p.backend.Submit(ctx, NewExchange(out.Block, source))
	if err != nil {
		p.report(c.ID(), err)
		return err
	}

	target.Feedback().Show(strings.ReplaceAll(reply, "\n", "<br>"))
	p.count("completed")
	p.logger.Debug("feedback rendered", "cell_id", c.ID(), "block", block, "backend", p.backend.Name())
	return nil
}

func (p *Pipeline) report(cellID string, err error) {
	var shape *ShapeError
	switch {
	case errors.Is(err, domain.ErrCredentialMissing):
		p.notifier.Prompt("Store a feedback credential to request feedback.")
		p.count("missing_credential")
	case errors.As(err, &shape):
		p.logger.Error("feedback response malformed", "cell_id", cellID, "err", err)
		p.notifier.Alert("The feedback service returned an unexpected response.")
		p.count("shape_error")
	default:
		p.logger.Error("feedback request failed", "cell_id", cellID, "err", err)
		p.notifier.Alert("Could not reach the feedback service.")
		p.count("network_error")
	}
}

func (p *Pipeline) count(result string) {
	metrics.FeedbackTotal.WithLabelValues(p.backend.Name(), result).Inc()
}
