package process

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"

	"github.com/google/uuid"
	"github.com/scriptcell/scriptcell/internal/logging"
	"github.com/scriptcell/scriptcell/pkg/domain"
	"github.com/scriptcell/scriptcell/pkg/ports"
)

// Interpreter implements ports.Interpreter over a worker subprocess. The
// engine's run lock guarantees a single in-flight request, but the adapter
// serializes defensively anyway.
type Interpreter struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	enc    *json.Encoder
	logger *slog.Logger

	sinkMu  sync.Mutex
	stream  ports.StreamSink
	graphic ports.GraphicSink

	callMu   sync.Mutex
	inflight chan event

	ready     chan struct{}
	readyOnce sync.Once
	done      chan struct{}
	exitErr   error
}

// Option configures the adapter.
type Option func(*Interpreter)

// WithLogger injects a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(it *Interpreter) {
		if logger != nil {
			it.logger = logger
		}
	}
}

// New starts the worker subprocess and begins reading its event stream.
// Ready blocks until the worker announces itself.
func New(cfg Config, opts ...Option) (*Interpreter, error) {
	it := newInterpreter(opts...)

	cmd := exec.Command(cfg.Command, cfg.Args...)
	cmd.Dir = cfg.Dir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("opening worker stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("opening worker stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting worker %q: %w", cfg.Command, err)
	}

	it.cmd = cmd
	it.attach(stdin, stdout)
	return it, nil
}

func newInterpreter(opts ...Option) *Interpreter {
	it := &Interpreter{
		logger: logging.NewNop(),
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// attach wires the adapter to the worker's pipes and starts the read loop.
func (it *Interpreter) attach(stdin io.WriteCloser, stdout io.Reader) {
	it.stdin = stdin
	it.enc = json.NewEncoder(stdin)
	go it.readLoop(stdout)
}

func (it *Interpreter) readLoop(stdout io.Reader) {
	defer close(it.done)

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var ev event
		if err := json.Unmarshal(line, &ev); err != nil {
			it.logger.Warn("discarding malformed worker event", "err", err)
			continue
		}
		it.dispatch(ev)
	}
	if err := scanner.Err(); err != nil {
		it.exitErr = fmt.Errorf("reading worker stream: %w", err)
	} else {
		it.exitErr = fmt.Errorf("worker closed its event stream")
	}
}

func (it *Interpreter) dispatch(ev event) {
	switch ev.Event {
	case eventReady:
		it.readyOnce.Do(func() {
			close(it.ready)
		})
	case eventStream:
		it.sinkMu.Lock()
		sink := it.stream
		it.sinkMu.Unlock()
		if sink != nil {
			sink(streamKind(ev.Kind), ev.Text)
		}
	case eventGraphic:
		it.sinkMu.Lock()
		sink := it.graphic
		it.sinkMu.Unlock()
		if sink != nil {
			sink.Draw(domain.Drawable{MIME: ev.MIME, Data: ev.Data})
		}
	case eventResult, eventError:
		it.callMu.Lock()
		ch := it.inflight
		it.callMu.Unlock()
		if ch != nil {
			ch <- ev
		}
	default:
		it.logger.Warn("discarding unknown worker event", "event", ev.Event)
	}
}

func streamKind(kind string) domain.StreamKind {
	if kind == string(domain.StreamStderr) {
		return domain.StreamStderr
	}
	return domain.StreamStdout
}

// Ready blocks until the worker announced itself or the context is canceled.
func (it *Interpreter) Ready(ctx context.Context) error {
	select {
	case <-it.ready:
		return nil
	case <-it.done:
		return it.exitErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run sends the source to the worker and waits for its result. A worker
// error event surfaces as a domain.ScriptError carrying the full trace.
func (it *Interpreter) Run(ctx context.Context, source string) (any, error) {
	ev, err := it.call(ctx, opRun, source)
	if err != nil {
		return nil, err
	}
	if ev.Event == eventError {
		return nil, &domain.ScriptError{Trace: ev.Trace}
	}
	return ev.Value, nil
}

// LoadDependencies asks the worker to resolve dependencies referenced by the
// source. The caller treats failures as advisory.
func (it *Interpreter) LoadDependencies(ctx context.Context, source string) error {
	ev, err := it.call(ctx, opDeps, source)
	if err != nil {
		return err
	}
	if ev.Event == eventError {
		return fmt.Errorf("resolving dependencies: %s", ev.Trace)
	}
	return nil
}

func (it *Interpreter) call(ctx context.Context, op, source string) (event, error) {
	it.callMu.Lock()
	ch := make(chan event, 1)
	it.inflight = ch
	it.callMu.Unlock()

	defer func() {
		it.callMu.Lock()
		it.inflight = nil
		it.callMu.Unlock()
	}()

	req := request{Op: op, ID: uuid.NewString(), Source: source}
	if err := it.enc.Encode(req); err != nil {
		return event{}, fmt.Errorf("writing %s request: %w", op, err)
	}

	select {
	case ev := <-ch:
		return ev, nil
	case <-it.done:
		return event{}, it.exitErr
	case <-ctx.Done():
		return event{}, ctx.Err()
	}
}

// SetStreamSink redirects stdout/stderr writes. A nil sink discards.
func (it *Interpreter) SetStreamSink(sink ports.StreamSink) {
	it.sinkMu.Lock()
	defer it.sinkMu.Unlock()
	it.stream = sink
}

// SetGraphicSink replaces the graphic target. A nil sink discards.
func (it *Interpreter) SetGraphicSink(sink ports.GraphicSink) {
	it.sinkMu.Lock()
	defer it.sinkMu.Unlock()
	it.graphic = sink
}

// Close shuts the worker down by closing its stdin and waits for it to exit.
func (it *Interpreter) Close() error {
	if it.stdin != nil {
		it.stdin.Close()
	}
	<-it.done
	if it.cmd != nil {
		return it.cmd.Wait()
	}
	return nil
}
