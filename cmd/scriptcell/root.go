package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scriptcell",
	Short: "Scriptcell runs the executable cells of a document",
	Long:  `Scriptcell loads a document of script cells, bootstraps a shared interpreter and executes the cells against it.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the document repository")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
}
