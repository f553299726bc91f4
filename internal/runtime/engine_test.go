package runtime

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptcell/scriptcell/pkg/adapters/memory"
	"github.com/scriptcell/scriptcell/pkg/domain"
)

type fakeOwner struct {
	id      string
	running atomic.Bool
}

func (o *fakeOwner) ID() string { return o.id }

func (o *fakeOwner) MarkRunning() bool { return o.running.CompareAndSwap(false, true) }

func (o *fakeOwner) MarkIdle() { o.running.Store(false) }

func TestExecuteRendersCapturedBlock(t *testing.T) {
	interp := memory.NewInterpreter(memory.WithRunFunc(
		func(_ context.Context, it *memory.Interpreter, source string) (any, error) {
			it.EmitStdout("2\n")
			return 2, nil
		},
	))
	e := NewEngine(interp)

	output := memory.NewRegion()
	graphic := memory.NewCanvas()

	out, err := e.Execute(context.Background(), Request{
		Source:  "print(1+1)",
		Owner:   &fakeOwner{id: "c1"},
		Output:  output,
		Graphic: graphic,
	})
	require.NoError(t, err)

	assert.False(t, out.Dropped)
	assert.NotEmpty(t, out.RunID)
	assert.Equal(t, "2\n", out.Block)
	assert.Equal(t, 2, out.Value)
	assert.NoError(t, out.ScriptErr)

	assert.Equal(t, "2\n", output.Content())
	assert.True(t, graphic.IsEmpty())
	assert.False(t, e.Lock().Held())
}

func TestExecuteHidesWhitespaceOnlyOutput(t *testing.T) {
	interp := memory.NewInterpreter(memory.WithRunFunc(
		func(_ context.Context, it *memory.Interpreter, _ string) (any, error) {
			it.EmitStdout("   \n")
			return nil, nil
		},
	))
	e := NewEngine(interp)
	output := memory.NewRegion()

	_, err := e.Execute(context.Background(), Request{Source: "x", Output: output})
	require.NoError(t, err)

	assert.True(t, output.IsEmpty())
}

func TestExecuteCapturesScriptErrorAsStderr(t *testing.T) {
	interp := memory.NewInterpreter(memory.WithRunFunc(
		func(_ context.Context, it *memory.Interpreter, _ string) (any, error) {
			it.EmitStdout("partial\n")
			return nil, errors.New("ZeroDivisionError: division by zero")
		},
	))
	e := NewEngine(interp)
	output := memory.NewRegion()

	out, err := e.Execute(context.Background(), Request{Source: "1/0", Output: output})
	require.NoError(t, err, "script errors are captured, not returned")

	require.Error(t, out.ScriptErr)
	assert.Equal(t, "partial\nZeroDivisionError: division by zero\n", out.Block)
	assert.Equal(t, out.Block, output.Content())
	assert.False(t, e.Lock().Held(), "lock must be released after a failed run")
}

func TestExecuteIgnoresDependencyFailure(t *testing.T) {
	interp := memory.NewInterpreter(
		memory.WithDependencyFunc(func(context.Context, string) error {
			return errors.New("resolver unreachable")
		}),
		memory.WithRunFunc(func(_ context.Context, it *memory.Interpreter, _ string) (any, error) {
			it.EmitStdout("ran anyway\n")
			return nil, nil
		}),
	)
	e := NewEngine(interp)
	output := memory.NewRegion()

	out, err := e.Execute(context.Background(), Request{Source: "x", Output: output})
	require.NoError(t, err)
	assert.NoError(t, out.ScriptErr)
	assert.Equal(t, "ran anyway\n", output.Content())
}

func TestExecuteBuildsArtifactWithCaption(t *testing.T) {
	interp := memory.NewInterpreter(memory.WithRunFunc(
		func(_ context.Context, it *memory.Interpreter, _ string) (any, error) {
			it.DrawGraphic(domain.Drawable{MIME: "image/png", Data: []byte{1}})
			it.DrawGraphic(domain.Drawable{MIME: "image/png", Data: []byte{2}})
			return nil, nil
		},
	))
	e := NewEngine(interp)
	graphic := memory.NewCanvas()

	out, err := e.Execute(context.Background(), Request{
		Source:  "plot()",
		Caption: "Figure 1: results",
		Graphic: graphic,
	})
	require.NoError(t, err)

	require.NotNil(t, out.Artifact)
	assert.Len(t, out.Artifact.Elements, 2)
	assert.Equal(t, "Figure 1: results", out.Artifact.Caption)
	assert.Same(t, out.Artifact, graphic.Artifact())
}

func TestExecuteOverwritesPreviousGraphics(t *testing.T) {
	draw := true
	interp := memory.NewInterpreter(memory.WithRunFunc(
		func(_ context.Context, it *memory.Interpreter, _ string) (any, error) {
			if draw {
				it.DrawGraphic(domain.Drawable{MIME: "image/svg+xml"})
			}
			return nil, nil
		},
	))
	e := NewEngine(interp)
	graphic := memory.NewCanvas()

	_, err := e.Execute(context.Background(), Request{Source: "plot()", Graphic: graphic})
	require.NoError(t, err)
	require.False(t, graphic.IsEmpty())

	// A run that draws nothing clears the region instead of stacking.
	draw = false
	_, err = e.Execute(context.Background(), Request{Source: "noop", Graphic: graphic})
	require.NoError(t, err)
	assert.True(t, graphic.IsEmpty())
}

func TestExecuteDropsWhenOwnerRunning(t *testing.T) {
	e := NewEngine(memory.NewInterpreter())

	owner := &fakeOwner{id: "c1"}
	require.True(t, owner.MarkRunning())

	out, err := e.Execute(context.Background(), Request{Source: "x", Owner: owner})
	require.NoError(t, err)
	assert.True(t, out.Dropped)
	assert.Empty(t, out.RunID)
}

func TestExecuteDropsWhenLockHeld(t *testing.T) {
	e := NewEngine(memory.NewInterpreter())
	require.True(t, e.Lock().TryAcquire())

	out, err := e.Execute(context.Background(), Request{Source: "x"})
	require.NoError(t, err)
	assert.True(t, out.Dropped)

	e.Lock().Release()
	out, err = e.Execute(context.Background(), Request{Source: "x"})
	require.NoError(t, err)
	assert.False(t, out.Dropped)
}

func TestExecuteConcurrentTriggersDropAllButOne(t *testing.T) {
	release := make(chan struct{})
	interp := memory.NewInterpreter(memory.WithRunFunc(
		func(ctx context.Context, _ *memory.Interpreter, _ string) (any, error) {
			<-release
			return nil, nil
		},
	))
	e := NewEngine(interp)

	var wg sync.WaitGroup
	var accepted, dropped atomic.Int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := e.Execute(context.Background(), Request{Source: "x"})
			require.NoError(t, err)
			if out.Dropped {
				dropped.Add(1)
			} else {
				accepted.Add(1)
			}
		}()
	}

	// Let the goroutines race for the lock before releasing the winner.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())
	assert.Equal(t, int32(7), dropped.Load())
}

func TestExecuteReturnsErrorWhenBootstrapInterrupted(t *testing.T) {
	interp := memory.NewInterpreter(memory.WithManualBootstrap())
	e := NewEngine(interp)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Execute(ctx, Request{Source: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, e.Lock().Held())
}

func TestExecuteFiresLifecycleHooks(t *testing.T) {
	interp := memory.NewInterpreter(memory.WithRunFunc(
		func(context.Context, *memory.Interpreter, string) (any, error) {
			return nil, errors.New("boom")
		},
	))

	var started, ended *domain.RunEvent
	e := NewEngine(interp, WithHooks(domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, ev *domain.RunEvent) { started = ev },
		OnRunEnd:   func(_ context.Context, ev *domain.RunEvent) { ended = ev },
	}))

	out, err := e.Execute(context.Background(), Request{
		Source: "x",
		Block:  1,
		Owner:  &fakeOwner{id: "c1"},
	})
	require.NoError(t, err)

	require.NotNil(t, started)
	assert.Equal(t, "c1", started.CellID)
	assert.Equal(t, 1, started.Block)
	assert.Equal(t, out.RunID, started.RunID)

	require.NotNil(t, ended)
	assert.True(t, ended.IsError)
}
