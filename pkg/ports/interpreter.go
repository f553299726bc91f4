package ports

import (
	"context"

	"github.com/scriptcell/scriptcell/pkg/domain"
)

// StreamSink receives stdout/stderr writes emitted while a run is in flight.
type StreamSink func(kind domain.StreamKind, text string)

// GraphicSink is the target figures are drawn into during a run. The engine
// installs a fresh sink before every run and reads it once afterwards.
type GraphicSink interface {
	Draw(el domain.Drawable)
}

// Interpreter is the single process-wide script execution service shared by
// all cells. Implementations are not required to be safe for concurrent runs;
// the engine's run lock guarantees one in-flight call at a time.
type Interpreter interface {
	// Ready blocks until the interpreter has finished bootstrapping, or the
	// context is canceled. Calling it on a ready interpreter is cheap.
	Ready(ctx context.Context) error

	// Run executes source text and returns its value, or an error when the
	// script raised. Output written during the run goes to the stream sink.
	Run(ctx context.Context, source string) (any, error)

	// LoadDependencies resolves and loads any dependencies referenced by the
	// source text. Failures are advisory; execution proceeds regardless.
	LoadDependencies(ctx context.Context, source string) error

	// SetStreamSink redirects stdout/stderr writes. A nil sink discards.
	SetStreamSink(sink StreamSink)

	// SetGraphicSink replaces the graphic target. A nil sink discards.
	SetGraphicSink(sink GraphicSink)
}
