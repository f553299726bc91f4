package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/loam"
	"github.com/spf13/cobra"

	"github.com/scriptcell/scriptcell/internal/presentation/graph"
	loamAdapter "github.com/scriptcell/scriptcell/pkg/adapters/loam"
	"github.com/scriptcell/scriptcell/pkg/ports"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the document structure visualization",
	Long:  `Inspects the document and outputs a Mermaid diagram (graph TD) of its cells in execution order.`,
	Run: func(cmd *cobra.Command, args []string) {
		repoPath, _ := cmd.Flags().GetString("dir")
		if !cmd.Flags().Changed("dir") && len(args) > 0 {
			repoPath = args[0]
		}

		loader, err := openLoader(repoPath)
		if err != nil {
			fmt.Printf("Error opening document: %v\n", err)
			os.Exit(1)
		}

		decls, err := loader.Load(cmd.Context())
		if err != nil {
			fmt.Printf("Error loading cells: %v\n", err)
			os.Exit(1)
		}

		// Generate and print Mermaid graph
		fmt.Print(graph.GenerateMermaid(decls, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

// openLoader opens the document repository without starting an interpreter,
// for commands that only inspect declarations.
func openLoader(repoPath string) (ports.NotebookLoader, error) {
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return loamAdapter.New(loam.NewTypedRepository[loamAdapter.CellMetadata](repo)), nil
}
