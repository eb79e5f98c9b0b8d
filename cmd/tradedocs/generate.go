package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradedocs/pdfgen/internal/auth"
	"github.com/tradedocs/pdfgen/internal/config"
	"github.com/tradedocs/pdfgen/internal/domain/docmodel"
	"github.com/tradedocs/pdfgen/internal/facade"
	"github.com/tradedocs/pdfgen/internal/httpclient"
	"github.com/tradedocs/pdfgen/internal/orchestrator"
	"github.com/tradedocs/pdfgen/internal/pdfjob"
)

var generateCommand = &cobra.Command{
	Use:   "generate",
	Short: "Generate one trade document from a form-data JSON file",
	RunE:  runGenerate,
}

var (
	genDocType   string
	genFormPath  string
	genLanguage  string
	genOutputDir string
	genTimeout   time.Duration
)

func init() {
	generateCommand.Flags().StringVarP(&genDocType, "doc-type", "d", "", "Document type (invoice, packing-list, ...)")
	generateCommand.Flags().StringVarP(&genFormPath, "form", "f", "", "Path to the form data JSON file")
	generateCommand.Flags().StringVarP(&genLanguage, "language", "l", "tr", "Document language: tr or en")
	generateCommand.Flags().StringVarP(&genOutputDir, "output-dir", "o", "", "Directory for the downloaded PDF")
	generateCommand.Flags().DurationVar(&genTimeout, "timeout", config.DefaultJobTimeout, "How long to wait for the job to finish")
	_ = generateCommand.MarkFlagRequired("doc-type")
	_ = generateCommand.MarkFlagRequired("form")
	rootCmd.AddCommand(generateCommand)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(genFormPath)
	if err != nil {
		return fmt.Errorf("reading form data: %w", err)
	}
	var form docmodel.FormData
	if err := json.Unmarshal(raw, &form); err != nil {
		return fmt.Errorf("parsing form data: %w", err)
	}

	docType := docmodel.DocType(genDocType)
	if !docType.Known() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: unrecognized document type %q, using the generic layout\n", genDocType)
	}

	outputDir := genOutputDir
	if outputDir == "" {
		outputDir = config.OutputDir()
	}

	jobs := pdfjob.New(config.BaseURL(), httpclient.New(auth.NewEnvProvider()))
	gen := orchestrator.New(jobs, outputDir)
	gen.Timeout = genTimeout
	ui := facade.New(gen)

	done := make(chan struct{})
	go reportProgress(cmd, ui, done)

	err = ui.Generate(cmd.Context(), docmodel.GenerationRequest{
		DocType:  docType,
		FormData: form,
		Language: docmodel.Language(genLanguage),
	})
	close(done)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Document saved under %s\n", outputDir)
	return nil
}

func reportProgress(cmd *cobra.Command, ui *facade.Facade, done chan struct{}) {
	last := ""
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if state := ui.Snapshot(); state.Progress != "" && state.Progress != last {
				last = state.Progress
				fmt.Fprintln(cmd.OutOrStdout(), state.Progress)
			}
		}
	}
}
