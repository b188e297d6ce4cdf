// Package main provides the entry point for the WorkReady CLI and HTTP server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/workready/internal/config"
	"github.com/jonathan/workready/internal/fetch"
	"github.com/jonathan/workready/internal/ingestion"
	"github.com/jonathan/workready/internal/llm"
	"github.com/jonathan/workready/internal/pipeline"
	"github.com/jonathan/workready/internal/rendering"
	"github.com/jonathan/workready/internal/validation"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "workready",
	Short: "WorkReady résumé personalizer",
	Long:  "WorkReady rewrites an uploaded PDF résumé for a job description with Gemini and renders the result as a styled, paginated PDF.",
	// errors are printed once by main
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file (optional)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and the optional --config file
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newModel creates the Gemini client for cfg
func newModel(ctx context.Context, cfg config.Config) (llm.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("set one of %v (in the environment or .env) to call the model", config.APIKeyEnvVars)
	}

	llmCfg := llm.DefaultGeminiConfig().
		WithModel(llm.TierStandard, cfg.Model).
		WithTemperature(float32(cfg.Temperature))
	return llm.NewClient(ctx, llmCfg, cfg.APIKey)
}

// rendererOptions maps the configured label language to layout options
func rendererOptions(cfg config.Config) rendering.Options {
	opts := rendering.DefaultOptions()
	if cfg.Labels == "en" {
		opts.Labels = rendering.EnglishLabels()
	}
	return opts
}

// newPipeline wires the pipeline collaborators from cfg
func newPipeline(model llm.Client, cfg config.Config) *pipeline.Pipeline {
	p := pipeline.New(model)
	p.Renderer = rendering.NewRenderer(rendererOptions(cfg))
	p.MaxUploadBytes = cfg.MaxUploadBytes()
	p.Verbose = cfg.Verbose

	jobs := ingestion.NewJobFetcher()
	jobs.Verbose = cfg.Verbose
	if cfg.BrowserFetch {
		browser := fetch.NewBrowser()
		browser.Verbose = cfg.Verbose
		jobs.Browser = browser
	}
	p.Fetcher = jobs

	opts := validation.DefaultOptions()
	opts.MaxPages = cfg.MaxPages
	p.Checker = validation.NewChecker(opts)
	return p
}
