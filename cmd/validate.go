package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-labs/gamebook/internal/snapshot"
	"github.com/inkwell-labs/gamebook/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [story file]",
	Short: "Check a story for structural problems",
	Long: `Validate checks a built story for dead-end branches, ending conditions no
choice tags can feed, and final endings no reachable gauge state satisfies.

The command exits non-zero when any check fails; warnings alone pass.

Examples:
  gamebook validate story.json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	s, err := snapshot.Load(args[0])
	if err != nil {
		return err
	}

	r := validate.Story(s)

	for _, d := range r.DeadEnds {
		fmt.Printf("dead end: episode %s node %s at depth %d (%s)\n", d.EpisodeID, d.NodeID, d.Depth, d.Kind)
	}
	for _, g := range r.TagGaps {
		fmt.Printf("tag gap: episode %s ending %s needs %q but no choice carries it\n", g.EpisodeID, g.EndingID, g.Identifier)
	}
	for _, u := range r.UnusedTags {
		fmt.Printf("unused tag: episode %s tag %q is read by no ending condition\n", u.EpisodeID, u.Tag)
	}
	for _, u := range r.Unreachable {
		fmt.Printf("unreachable ending: %s (%s): %s\n", u.EndingID, u.Condition, u.Reason)
	}
	for _, w := range r.Warnings {
		fmt.Printf("warning: %s\n", w)
	}

	if !r.Clean() {
		return fmt.Errorf("validation failed: %d dead ends, %d tag gaps, %d unreachable endings",
			len(r.DeadEnds), len(r.TagGaps), len(r.Unreachable))
	}

	fmt.Printf("✓ Story is structurally sound (tag coverage %.0f%%)\n", r.TagCoverageRatio*100)
	return nil
}
