package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scriptcell/scriptcell/pkg/adapters/file"
	"github.com/scriptcell/scriptcell/pkg/domain"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persisted page sessions",
	Long:  `List, inspect, and remove page sessions stored in .scriptcell/sessions.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions with saved outcomes",
	Run: func(cmd *cobra.Command, args []string) {
		store := getStore(cmd)
		sessions, err := store.Sessions(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return
		}

		fmt.Println("Sessions:")
		for _, s := range sessions {
			fmt.Println("- " + s)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the saved outcomes of a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessionID := args[0]
		store := getStore(cmd)

		cells, err := store.List(cmd.Context(), sessionID)
		if err != nil {
			fmt.Printf("Error listing session '%s': %v\n", sessionID, err)
			os.Exit(1)
		}

		outcomes := make(map[string]*domain.Outcome, len(cells))
		for _, cellID := range cells {
			out, err := store.Load(cmd.Context(), sessionID, cellID)
			if err != nil {
				fmt.Printf("Error loading outcome '%s/%s': %v\n", sessionID, cellID, err)
				os.Exit(1)
			}
			outcomes[cellID] = out
		}

		// Pretty print JSON
		data, err := json.MarshalIndent(outcomes, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling outcomes: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := getStore(cmd)
		hasError := false

		for _, sessionID := range args {
			if err := store.DeleteSession(cmd.Context(), sessionID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", sessionID, err)
				hasError = true
			} else {
				fmt.Printf("Removed session '%s'\n", sessionID)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}

func getStore(cmd *cobra.Command) *file.Store {
	projectDir, _ := cmd.Flags().GetString("dir")
	if projectDir == "" {
		projectDir = "."
	}
	return file.New(filepath.Join(projectDir, ".scriptcell", "sessions"))
}
