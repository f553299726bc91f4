package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scriptcell/scriptcell/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [dir]",
	Short: "Execute the cells of a document",
	Long: `Bootstraps the interpreter, runs every setup cell, then executes the
remaining cells in document order and renders their output.`,
	Run: func(cmd *cobra.Command, args []string) {
		repoPath, _ := cmd.Flags().GetString("dir")
		if !cmd.Flags().Changed("dir") && len(args) > 0 {
			repoPath = args[0]
		}

		cellID, _ := cmd.Flags().GetString("cell")
		jsonMode, _ := cmd.Flags().GetBool("json")
		debug, _ := cmd.Flags().GetBool("debug")
		sessionID, _ := cmd.Flags().GetString("session")
		redisURL, _ := cmd.Flags().GetString("redis-url")

		opts := cli.RunOptions{
			RepoPath:  repoPath,
			CellID:    cellID,
			JSON:      jsonMode,
			Debug:     debug,
			SessionID: sessionID,
			RedisURL:  redisURL,
		}

		if err := cli.RunDocument(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("cell", "", "Run only this cell instead of the whole document")
	runCmd.Flags().Bool("json", false, "Emit outcomes as NDJSON instead of rendered markdown")
	runCmd.Flags().String("session", "", "Session ID for outcome persistence")
	runCmd.Flags().String("redis-url", "", "Persist outcomes in Redis (e.g. redis://localhost:6379/0)")

	// Make 'run' the default if no command is provided.
	rootCmd.Run = runCmd.Run
}
