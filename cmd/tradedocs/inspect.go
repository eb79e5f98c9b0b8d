package main

import (
	"fmt"

	"github.com/dslipak/pdf"
	"github.com/spf13/cobra"
)

var inspectCommand = &cobra.Command{
	Use:   "inspect <file.pdf>",
	Short: "Open a downloaded artifact and report basic facts about it",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCommand)
}

func runInspect(cmd *cobra.Command, args []string) error {
	reader, err := pdf.Open(args[0])
	if err != nil {
		return fmt.Errorf("not a readable PDF: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d page(s)\n", args[0], reader.NumPage())
	return nil
}
