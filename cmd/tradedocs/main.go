// Package main is the tradedocs CLI: generate trade documents against a
// rendering service, run the bundled development service, inspect
// downloaded artifacts.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tradedocs/pdfgen/pkg/logger_i"
)

var rootCmd = &cobra.Command{
	Use:   "tradedocs",
	Short: "Trade document PDF generation client",
	Long:  "tradedocs submits document generation jobs to a rendering service, polls them to completion and saves the resulting PDFs.",
}

func main() {
	_ = godotenv.Load()
	logger_i.Init()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
