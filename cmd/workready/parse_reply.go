package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/workready/internal/llm"
	"github.com/jonathan/workready/internal/observability"
	"github.com/jonathan/workready/internal/parsing"
	"github.com/jonathan/workready/internal/rendering"
	"github.com/jonathan/workready/internal/schemas"
)

var parseReplyCmd = &cobra.Command{
	Use:   "parse-reply",
	Short: "Parse a saved model reply into a structured document",
	Long: `Parses a model reply saved as text into the structured document JSON,
validates it against the document schema and optionally renders the PDF.
No API key is needed.`,
	RunE: runParseReply,
}

var (
	replyIn      string
	replyJSONOut string
	replyPDFOut  string
	replyVerbose bool
)

func init() {
	parseReplyCmd.Flags().StringVarP(&replyIn, "in", "i", "", "Path to the reply text, or - for stdin (required)")
	parseReplyCmd.Flags().StringVarP(&replyJSONOut, "out", "o", "", "Path for the document JSON (default stdout)")
	parseReplyCmd.Flags().StringVar(&replyPDFOut, "pdf", "", "Also render the document to this PDF path")
	parseReplyCmd.Flags().BoolVarP(&replyVerbose, "verbose", "v", false, "Print the parsed document and PDF metadata")

	_ = parseReplyCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(parseReplyCmd)
}

func runParseReply(cmd *cobra.Command, _ []string) error {
	raw, err := readInput(cmd, replyIn)
	if err != nil {
		return err
	}

	doc := parsing.Parse(llm.CleanReply(string(raw)))
	if err := schemas.ValidateDocument(doc); err != nil {
		return fmt.Errorf("parsed document failed schema validation: %w", err)
	}

	var printer *observability.Printer
	if replyVerbose {
		printer = observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintDocument(doc)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	out = append(out, '\n')

	if replyJSONOut == "" {
		if _, err := cmd.OutOrStdout().Write(out); err != nil {
			return err
		}
	} else if err := os.WriteFile(replyJSONOut, out, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	if replyPDFOut == "" {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	result, err := rendering.NewRenderer(rendererOptions(cfg)).Render(doc)
	if err != nil {
		return err
	}
	if printer != nil {
		printer.PrintInfo(result.Info, result.Pages)
	}

	path, err := writePDF(replyPDFOut, result.PDF)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "PDF written to %s (%d pages)\n", absPath(path), result.Pages)
	return nil
}

// readInput reads a file, or stdin when path is "-"
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reply: %w", err)
	}
	return data, nil
}
