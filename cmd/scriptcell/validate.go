package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scriptcell/scriptcell/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the document for consistency",
	Long:  `Loads every cell declaration and reports unknown context tags, conflicting options and cells that can never run.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd.Context(), args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Document is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(ctx context.Context, args []string) error {
	var dir string
	var err error

	if len(args) > 0 {
		dir = args[0]
	} else {
		dir, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	loader, err := openLoader(dir)
	if err != nil {
		return err
	}

	return validator.ValidateDocument(ctx, loader)
}
