package memory

import (
	"context"
	"sync"

	"github.com/scriptcell/scriptcell/pkg/domain"
	"github.com/scriptcell/scriptcell/pkg/ports"
)

// RunFunc is the scriptable behavior of the fake interpreter. It receives
// the interpreter itself so scripts can emit stream writes and draw into the
// current graphic sink.
type RunFunc func(ctx context.Context, it *Interpreter, source string) (any, error)

// Interpreter is a scriptable ports.Interpreter for tests and demos.
// It starts ready unless built with WithManualBootstrap.
type Interpreter struct {
	mu      sync.Mutex
	stream  ports.StreamSink
	graphic ports.GraphicSink

	run  RunFunc
	deps func(ctx context.Context, source string) error

	ready     chan struct{}
	readyOnce sync.Once
}

// InterpreterOption configures the fake interpreter.
type InterpreterOption func(*Interpreter)

// WithRunFunc scripts the behavior of Run.
func WithRunFunc(fn RunFunc) InterpreterOption {
	return func(it *Interpreter) {
		it.run = fn
	}
}

// WithDependencyFunc scripts the behavior of LoadDependencies.
func WithDependencyFunc(fn func(ctx context.Context, source string) error) InterpreterOption {
	return func(it *Interpreter) {
		it.deps = fn
	}
}

// WithManualBootstrap makes Ready block until SignalReady is called,
// simulating a slow interpreter bootstrap.
func WithManualBootstrap() InterpreterOption {
	return func(it *Interpreter) {
		it.ready = make(chan struct{})
	}
}

// NewInterpreter creates a fake interpreter. Without options, Run returns
// (nil, nil) and emits nothing.
func NewInterpreter(opts ...InterpreterOption) *Interpreter {
	it := &Interpreter{
		ready: make(chan struct{}),
		run: func(ctx context.Context, _ *Interpreter, _ string) (any, error) {
			return nil, nil
		},
		deps: func(ctx context.Context, _ string) error {
			return nil
		},
	}

	manual := false
	for _, opt := range opts {
		before := it.ready
		opt(it)
		if it.ready != before {
			manual = true
		}
	}
	if !manual {
		it.SignalReady()
	}

	return it
}

// SignalReady completes the simulated bootstrap.
func (it *Interpreter) SignalReady() {
	it.readyOnce.Do(func() {
		close(it.ready)
	})
}

// Ready blocks until the simulated bootstrap finished.
func (it *Interpreter) Ready(ctx context.Context) error {
	select {
	case <-it.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes the scripted behavior.
func (it *Interpreter) Run(ctx context.Context, source string) (any, error) {
	return it.run(ctx, it, source)
}

// LoadDependencies executes the scripted dependency behavior.
func (it *Interpreter) LoadDependencies(ctx context.Context, source string) error {
	return it.deps(ctx, source)
}

// SetStreamSink redirects stream writes.
func (it *Interpreter) SetStreamSink(sink ports.StreamSink) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.stream = sink
}

// SetGraphicSink replaces the graphic target.
func (it *Interpreter) SetGraphicSink(sink ports.GraphicSink) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.graphic = sink
}

// EmitStdout writes to the stream sink, as a running script would.
func (it *Interpreter) EmitStdout(text string) {
	it.emit(domain.StreamStdout, text)
}

// EmitStderr writes to the stream sink, as a running script would.
func (it *Interpreter) EmitStderr(text string) {
	it.emit(domain.StreamStderr, text)
}

// DrawGraphic draws an element into the current graphic sink.
func (it *Interpreter) DrawGraphic(el domain.Drawable) {
	it.mu.Lock()
	sink := it.graphic
	it.mu.Unlock()
	if sink != nil {
		sink.Draw(el)
	}
}

func (it *Interpreter) emit(kind domain.StreamKind, text string) {
	it.mu.Lock()
	sink := it.stream
	it.mu.Unlock()
	if sink != nil {
		sink(kind, text)
	}
}
