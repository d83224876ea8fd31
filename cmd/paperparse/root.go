package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/examtools/paperparse/internal/config"
	"github.com/examtools/paperparse/version"
)

var (
	cfgFile      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "paperparse",
	Short: "Exam paper parsing pipeline with LLM-assisted question extraction",
	Long: `Paperparse turns raw exam-paper text into a structured, validated list
of exam questions.

The pipeline includes:
  - Section segmentation with size-bounded fallback splitting
  - Rule-based question format detection and structural extraction
  - Confidence-gated AI validation and optimization
  - JSON repair of model replies
  - Exam template matching and structural validation`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.paperparse/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(segmentCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(initCmd)
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (*config.Manager, error) {
	return config.NewManager(cfgFile)
}

// readInput reads the document text from a file argument or stdin when the
// argument is "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// writeOutput renders v in the selected output format.
func writeOutput(v any) error {
	return writeOutputTo(os.Stdout, outputFormat, v)
}

func writeOutputTo(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(v); err != nil {
			return err
		}
		// yaml.v3 buffers the document until Close.
		return enc.Close()
	}
}
