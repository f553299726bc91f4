package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/scriptcell/scriptcell"
	httpAdapter "github.com/scriptcell/scriptcell/internal/adapters/http"
	"github.com/scriptcell/scriptcell/internal/cli"
	"github.com/scriptcell/scriptcell/internal/logging"
	"github.com/scriptcell/scriptcell/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the notebook HTTP server",
	Long:  `Starts the notebook in server mode, exposing cells, runs and lock events as a JSON API over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		port, _ := cmd.Flags().GetString("port")
		debug, _ := cmd.Flags().GetBool("debug")
		redisURL, _ := cmd.Flags().GetString("redis-url")

		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		logger := logging.NewJSON(level)

		collector := observability.NewCollector()
		nbOpts := []scriptcell.Option{
			scriptcell.WithLogger(logger),
			scriptcell.WithLifecycleHooks(collector.Hooks()),
		}
		if redisURL != "" {
			store, err := cli.NewRedisStore(redisURL)
			if err != nil {
				fmt.Printf("Error connecting redis: %v\n", err)
				os.Exit(1)
			}
			nbOpts = append(nbOpts, scriptcell.WithStore(store))
		}

		nb, err := scriptcell.New(dir, nbOpts...)
		if err != nil {
			fmt.Printf("Error initializing notebook: %v\n", err)
			os.Exit(1)
		}
		defer nb.Close()

		bootCtx, cancelBoot := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancelBoot()
		if err := nb.Ready(bootCtx); err != nil {
			fmt.Printf("Interpreter bootstrap failed: %v\n", err)
			os.Exit(1)
		}
		if err := nb.Bootstrap(bootCtx); err != nil {
			fmt.Printf("Setup cells failed: %v\n", err)
			os.Exit(1)
		}

		handler := httpAdapter.NewHandler(nb,
			httpAdapter.WithVersion(scriptcell.Version),
			httpAdapter.WithLogger(logger),
		)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Scriptcell Server on %s\n", srv.Addr)
			fmt.Printf("Serving document from: %s\n", dir)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			snap := collector.Snapshot()
			logger.Info("run summary", "runs", snap.Runs, "errors", snap.Errors)
			fmt.Println("Scriptcell Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis-url", "", "Persist outcomes in Redis (e.g. redis://localhost:6379/0)")
}
