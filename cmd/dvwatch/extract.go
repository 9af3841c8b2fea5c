package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shanehull/dvwatch/internal/ai"
	"github.com/shanehull/dvwatch/internal/config"
	"github.com/shanehull/dvwatch/internal/dvpage"
	"github.com/shanehull/dvwatch/internal/logging"
)

var extractFile string

var extractCmd = &cobra.Command{
	Use:   "extract [--file <page.txt>]",
	Short: "Runs only the Gemini extraction on page text from a file or stdin.",
	Long: `extract sends the given text through the same prompt the check uses and
prints what the model found. Use it to try the prompt against sample
announcements without touching the state file or sending messages.
Only GEMINI_API_KEY is required.`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "Read page text from this file instead of stdin")
}

func readInput(cmd *cobra.Command) (string, error) {
	if extractFile == "" || extractFile == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(extractFile)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", extractFile, err)
	}
	return string(data), nil
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, config.ScopeExtract)
	if err != nil {
		return err
	}

	text, err := readInput(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := logging.New(cfg.LogLevel).With("component", "ai")

	gen, err := ai.NewGeminiGenerator(ctx, cfg.Gemini)
	if err != nil {
		return err
	}

	result, err := ai.NewExtractor(gen, logger).Extract(ctx, dvpage.Truncate(text, cfg.Page.MaxChars))
	if err != nil {
		return err
	}

	return printResult(cmd.OutOrStdout(), result)
}

func printResult(w io.Writer, result ai.Result) error {
	status := result.Status()
	_, err := fmt.Fprintf(w, "kind:        %s\nidentifier:  %s\nsummary:     %s\n", result.Kind, status.ID, status.Summary)
	return err
}
