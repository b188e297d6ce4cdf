package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/workready/internal/observability"
	"github.com/jonathan/workready/internal/pipeline"
)

var personalizeCmd = &cobra.Command{
	Use:   "personalize",
	Short: "Personalize a PDF résumé for a job description",
	Long: `Reads a PDF résumé and a job description (text file or posting URL), asks the
model for a tailored version and writes the rendered PDF.`,
	RunE: runPersonalize,
}

var (
	resumePath      string
	jobPath         string
	jobURL          string
	outPath         string
	modelName       string
	temperature     float64
	replyPath       string
	personalVerbose bool
)

func init() {
	personalizeCmd.Flags().StringVar(&resumePath, "curriculo", "", "Path to the résumé PDF (required)")
	personalizeCmd.Flags().StringVar(&jobPath, "vaga", "", "Path to a text file with the job description")
	personalizeCmd.Flags().StringVar(&jobURL, "vaga-url", "", "URL of the job posting")
	personalizeCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output PDF path (default derived from the candidate name)")
	personalizeCmd.Flags().StringVar(&modelName, "model", "", "Gemini model (default from WORKREADY_MODEL or gemini-2.5-flash)")
	personalizeCmd.Flags().Float64Var(&temperature, "temperature", 0, "Sampling temperature (default 0.3)")
	personalizeCmd.Flags().StringVar(&replyPath, "save-reply", "", "Also write the raw model reply to this path")
	personalizeCmd.Flags().BoolVarP(&personalVerbose, "verbose", "v", false, "Print detailed progress")

	_ = personalizeCmd.MarkFlagRequired("curriculo")

	rootCmd.AddCommand(personalizeCmd)
}

func runPersonalize(cmd *cobra.Command, _ []string) error {
	if jobPath == "" && jobURL == "" {
		return fmt.Errorf("either --vaga or --vaga-url must be provided")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if modelName != "" {
		cfg.Model = modelName
	}
	if cmd.Flags().Changed("temperature") {
		cfg.Temperature = temperature
	}
	if personalVerbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := os.ReadFile(resumePath)
	if err != nil {
		return fmt.Errorf("failed to read résumé: %w", err)
	}

	var jobText string
	if jobPath != "" {
		raw, err := os.ReadFile(jobPath)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		jobText = string(raw)
	}

	ctx := context.Background()
	model, err := newModel(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = model.Close() }()

	p := newPipeline(model, cfg)
	if cfg.Verbose {
		p.Printer = observability.NewPrinter(cmd.OutOrStdout())
	}

	result, err := p.Run(ctx, pipeline.Request{
		File:           data,
		FileName:       filepath.Base(resumePath),
		JobDescription: jobText,
		JobURL:         jobURL,
	})
	if err != nil {
		return err
	}

	if replyPath != "" {
		if err := os.WriteFile(replyPath, []byte(result.Reply+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write reply: %w", err)
		}
	}

	target := outPath
	if target == "" {
		target = result.Filename
	}
	target, err = writePDF(target, result.PDF)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Personalized résumé written to %s (%d pages)\n", absPath(target), result.Pages)
	return nil
}

// writePDF writes pdf to path, creating parent directories, and returns the
// path actually written
func writePDF(path string, pdf []byte) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		path += ".pdf"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, pdf, 0644); err != nil {
		return "", fmt.Errorf("failed to write PDF: %w", err)
	}
	return path, nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
