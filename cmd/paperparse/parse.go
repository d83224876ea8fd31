package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/examtools/paperparse/internal/pipeline"
	"github.com/examtools/paperparse/internal/providers"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse an exam paper into structured questions",
	Long: `Parse runs the full pipeline over one exam paper: segmentation,
per-fragment extraction through the completion model, merging, template
selection, and structural validation. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args[0])
		if err != nil {
			return err
		}

		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		client := providers.NewOpenAIClient(cfg.ClientConfig())
		p := pipeline.New(pipeline.Options{
			Client:            client,
			Logger:            newLogger(),
			FragmentBudget:    cfg.Pipeline.FragmentBudget,
			TemplateThreshold: cfg.Pipeline.TemplateThreshold,
			OptimizeThreshold: cfg.Pipeline.OptimizeThreshold,
		})

		result, err := p.Parse(cmd.Context(), uuid.NewString(), text)
		if err != nil {
			return fmt.Errorf("parse document: %w", err)
		}
		return writeOutput(result)
	},
}
