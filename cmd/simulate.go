package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkwell-labs/gamebook/internal/simulate"
	"github.com/inkwell-labs/gamebook/internal/snapshot"
)

var (
	simChoices  string
	simEpisode  string
	simOutcomes bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [story file]",
	Short: "Replay a story without any generation",
	Long: `Simulate walks the story trees by choice index and reports the endings a
player would reach. Choices are given per episode, separated by ';', with
choice indexes separated by ','. Missing or out-of-range indexes fall back
to the first choice.

Examples:
  gamebook simulate story.json
  gamebook simulate story.json --choices "0,1,0;1,0,0"
  gamebook simulate story.json --episode ep1 --outcomes`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVar(&simChoices, "choices", "", `Choice indexes, e.g. "0,1,0;1,0,0"`)
	simulateCmd.Flags().StringVar(&simEpisode, "episode", "", "Enumerate a single episode instead of playing the full game")
	simulateCmd.Flags().BoolVar(&simOutcomes, "outcomes", false, "With --episode: list every root-to-leaf outcome")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	s, err := snapshot.Load(args[0])
	if err != nil {
		return err
	}

	if simEpisode != "" {
		return simulateEpisode(s, simEpisode)
	}

	picks, err := parseChoices(simChoices)
	if err != nil {
		return err
	}

	g, err := simulate.FullGame(s, picks)
	if err != nil {
		return err
	}

	for _, p := range g.Episodes {
		ending := "(none)"
		if p.EndingFound {
			ending = p.Ending.ID
		}
		fmt.Printf("episode %s: %d steps, ending %s\n", p.EpisodeID, len(p.Steps), ending)
	}

	fmt.Println("\nfinal gauges:")
	ids := make([]string, 0, len(g.Gauges))
	for id := range g.Gauges {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Printf("  %s = %d\n", id, g.Gauges[id])
	}

	if g.FinalFound {
		fmt.Printf("\nfinal ending: %s (%s, id %s)\n", g.Final.Title, g.Final.Type, g.Final.ID)
	} else {
		fmt.Println("\nno final ending matched")
	}
	return nil
}

func simulateEpisode(s *snapshot.Story, id string) error {
	ep, ok := s.Episode(id)
	if !ok {
		return fmt.Errorf("episode %q not found", id)
	}

	outcomes, err := simulate.AllOutcomes(*ep)
	if err != nil {
		return err
	}

	if simOutcomes {
		for _, o := range outcomes {
			fmt.Printf("picks %v -> leaf %s, ending %s\n", o.Picks, o.LeafID, o.EndingID)
		}
	}

	counts := simulate.EndingCounts(outcomes)
	ids := make([]string, 0, len(counts))
	for eid := range counts {
		ids = append(ids, eid)
	}
	sort.Strings(ids)

	fmt.Printf("%d outcomes:\n", len(outcomes))
	for _, eid := range ids {
		name := eid
		if name == "" {
			name = "(no ending)"
		}
		fmt.Printf("  %s: %d\n", name, counts[eid])
	}
	return nil
}

// parseChoices parses "0,1,0;1,0" into per-episode index slices.
func parseChoices(raw string) ([][]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var picks [][]int
	for _, epPart := range strings.Split(raw, ";") {
		var epPicks []int
		for _, idxPart := range strings.Split(epPart, ",") {
			idxPart = strings.TrimSpace(idxPart)
			if idxPart == "" {
				continue
			}
			n, err := strconv.Atoi(idxPart)
			if err != nil {
				return nil, fmt.Errorf("invalid choice index %q", idxPart)
			}
			epPicks = append(epPicks, n)
		}
		picks = append(picks, epPicks)
	}
	return picks, nil
}
