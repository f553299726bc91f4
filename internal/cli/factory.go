package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/scriptcell/scriptcell"
	"github.com/scriptcell/scriptcell/pkg/adapters/file"
	redisStore "github.com/scriptcell/scriptcell/pkg/adapters/redis"
)

// createNotebook assembles the functional options for the notebook from the
// command line flags and opens the document.
func createNotebook(opts RunOptions, logger *slog.Logger) (*scriptcell.Notebook, error) {
	nbOpts := []scriptcell.Option{
		scriptcell.WithLogger(logger),
	}

	if opts.Debug {
		nbOpts = append(nbOpts, scriptcell.WithLifecycleHooks(createDebugHooks(logger)))
	}

	if opts.SessionID != "" {
		nbOpts = append(nbOpts, scriptcell.WithSession(opts.SessionID))
	}

	switch {
	case opts.RedisURL != "":
		store, err := NewRedisStore(opts.RedisURL)
		if err != nil {
			return nil, err
		}
		nbOpts = append(nbOpts, scriptcell.WithStore(store))
	case opts.SessionID != "":
		// A named session outlives the process, so outcomes go to disk.
		store := file.New(filepath.Join(opts.RepoPath, ".scriptcell", "sessions"))
		nbOpts = append(nbOpts, scriptcell.WithStore(store))
	}

	nb, err := scriptcell.New(opts.RepoPath, nbOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing notebook: %w", err)
	}
	return nb, nil
}

// NewRedisStore connects the run store to Redis and verifies the
// connection before handing it to the notebook.
func NewRedisStore(url string) (*redisStore.RunStore, error) {
	redisOpts, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	store := redisStore.NewFromClient(backend.NewClient(redisOpts))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("redis unreachable: %w", err)
	}
	return store, nil
}
