package main

import (
	"github.com/spf13/cobra"

	"github.com/examtools/paperparse/internal/segment"
)

var segmentBudget int

var segmentCmd = &cobra.Command{
	Use:   "segment [file]",
	Short: "Split an exam paper into part fragments",
	Long: `Segment shows how the pipeline would split a paper into exam parts,
without calling the completion model. Useful for debugging section
anchors. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args[0])
		if err != nil {
			return err
		}

		cleaned := segment.RemoveDuplicateOptionBlocks(text)
		frags := segment.SegmentWithBudget(cleaned, segmentBudget)

		type summary struct {
			PartName   string `json:"part_name" yaml:"part_name"`
			Heading    string `json:"heading,omitempty" yaml:"heading,omitempty"`
			Directions string `json:"directions,omitempty" yaml:"directions,omitempty"`
			Chars      int    `json:"chars" yaml:"chars"`
		}
		out := make([]summary, 0, len(frags))
		for _, f := range frags {
			out = append(out, summary{
				PartName:   f.PartName,
				Heading:    f.Heading,
				Directions: f.Directions,
				Chars:      len(f.Text),
			})
		}
		return writeOutput(out)
	},
}

func init() {
	segmentCmd.Flags().IntVar(&segmentBudget, "budget", 0, "fragment size budget in characters (0 = default)")
}
