// Package cli wires the notebook library into the command line: flag
// handling, signal-aware execution and terminal rendering of outcomes.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/scriptcell/scriptcell/internal/presentation/tui"
	"github.com/scriptcell/scriptcell/pkg/cell"
	"github.com/scriptcell/scriptcell/pkg/domain"
)

// RunOptions holds the flags of the run command.
type RunOptions struct {
	RepoPath  string
	CellID    string // run only this cell; empty means every cell
	JSON      bool   // NDJSON outcomes on stdout instead of rendered markdown
	Debug     bool
	SessionID string
	RedisURL  string
}

// outcomeLine is the NDJSON shape emitted per run in JSON mode.
type outcomeLine struct {
	CellID string `json:"cell_id"`
	domain.Outcome
	Error string `json:"error,omitempty"`
}

// RunDocument opens the document, bootstraps the interpreter, then executes
// the requested cells and renders their outcomes.
func RunDocument(opts RunOptions) error {
	logger := createLogger(opts.Debug)

	if !opts.JSON {
		tui.PrintBanner()
	}

	nb, err := createNotebook(opts, logger)
	if err != nil {
		return err
	}
	defer nb.Close()

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	if err := nb.Ready(sigCtx); err != nil {
		return handleExecutionError(fmt.Errorf("interpreter bootstrap: %w", err))
	}
	if err := nb.Bootstrap(sigCtx); err != nil {
		return handleExecutionError(fmt.Errorf("setup cells: %w", err))
	}

	if opts.SessionID != "" && !opts.JSON {
		printSystemMessage("Session '%s' active.", opts.SessionID)
	}

	ran, runErr := runCells(sigCtx, nb, opts)

	if sigCtx.Err() != nil && runErr == nil {
		runErr = sigCtx.Err()
	}
	logCompletion(ran, runErr, opts.JSON, sigCtx.Signal())

	return handleExecutionError(runErr)
}

// notebook is the facade surface the run loop needs.
type notebook interface {
	Cells() []*cell.Cell
	RunCell(ctx context.Context, id string) (domain.Outcome, error)
}

func runCells(ctx context.Context, nb notebook, opts RunOptions) (int, error) {
	render := newOutcomePrinter(opts.JSON)

	ids := make([]string, 0)
	if opts.CellID != "" {
		ids = append(ids, opts.CellID)
	} else {
		for _, c := range nb.Cells() {
			// Setup cells already ran during bootstrap.
			if c.Kind() == cell.KindSetup {
				continue
			}
			ids = append(ids, c.ID())
		}
	}

	if len(ids) == 0 {
		printSystemMessage("Document has no runnable cells.")
		return 0, nil
	}

	ran := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return ran, ctx.Err()
		}
		out, err := nb.RunCell(ctx, id)
		if err != nil {
			return ran, fmt.Errorf("running cell %s: %w", id, err)
		}
		ran++
		render(id, &out)
	}
	return ran, nil
}

func newOutcomePrinter(jsonMode bool) func(string, *domain.Outcome) {
	if jsonMode {
		enc := json.NewEncoder(os.Stdout)
		return func(id string, out *domain.Outcome) {
			line := outcomeLine{CellID: id, Outcome: *out}
			if out.ScriptErr != nil {
				line.Error = out.ScriptErr.Error()
			}
			_ = enc.Encode(line)
		}
	}

	render := tui.NewRenderer()
	return func(id string, out *domain.Outcome) {
		md := tui.FormatOutcome(id, out)
		text, err := render(md)
		if err != nil {
			// Fall back to raw markdown on renderer failures.
			fmt.Print(md)
			return
		}
		fmt.Print(text)
	}
}
