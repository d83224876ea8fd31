package main

import (
	"github.com/spf13/cobra"

	"github.com/examtools/paperparse/internal/detect"
	"github.com/examtools/paperparse/internal/extract"
	"github.com/examtools/paperparse/internal/segment"
)

var detectCmd = &cobra.Command{
	Use:   "detect [file]",
	Short: "Show per-fragment format detection and structural extraction",
	Long: `Detect runs segmentation, format detection, and rule-based structural
extraction without calling the completion model. Use "-" to read from
stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args[0])
		if err != nil {
			return err
		}

		detector := detect.New()
		frags := segment.Segment(segment.RemoveDuplicateOptionBlocks(text))

		type report struct {
			PartName   string  `json:"part_name" yaml:"part_name"`
			Type       string  `json:"question_type" yaml:"question_type"`
			SubType    string  `json:"sub_type" yaml:"sub_type"`
			Confidence float64 `json:"detection_confidence" yaml:"detection_confidence"`
			Extraction float64 `json:"extraction_confidence" yaml:"extraction_confidence"`
			Rule       string  `json:"rule,omitempty" yaml:"rule,omitempty"`
		}
		out := make([]report, 0, len(frags))
		for _, f := range frags {
			d := detector.Detect(f.Text)
			e := extract.Extract(f.Text, d)
			out = append(out, report{
				PartName:   f.PartName,
				Type:       string(d.QuestionType),
				SubType:    d.SubType,
				Confidence: d.Confidence,
				Extraction: e.Confidence,
				Rule:       e.Rule,
			})
		}
		return writeOutput(out)
	},
}
