package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scriptcell/scriptcell"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of scriptcell",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scriptcell version %s\n", strings.TrimSpace(scriptcell.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
