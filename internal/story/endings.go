package story

import (
	"github.com/inkwell-labs/gamebook/internal/cond"
)

// TagScores accumulates one point per tag across the taken choices.
func TagScores(taken []Choice) map[string]int {
	scores := make(map[string]int)
	for _, choice := range taken {
		for _, tag := range choice.Tags {
			scores[tag]++
		}
	}
	return scores
}

// ResolveEpisodeEnding picks the episode ending for the given tag scores:
// the first non-default ending whose condition matches, else the ending
// whose condition is literally "default", else the first ending. The bool
// result is false only when the ending list is empty.
func ResolveEpisodeEnding(endings []EpisodeEnding, scores map[string]int) (EpisodeEnding, bool) {
	for _, e := range endings {
		if e.Condition != cond.Default && cond.Evaluate(e.Condition, scores) {
			return e, true
		}
	}
	for _, e := range endings {
		if e.Condition == cond.Default {
			return e, true
		}
	}
	if len(endings) > 0 {
		return endings[0], true
	}
	return EpisodeEnding{}, false
}

// ResolveFinalEnding picks the final ending for the given gauge state,
// using the same order as ResolveEpisodeEnding.
func ResolveFinalEnding(endings []FinalEnding, gauges GaugeState) (FinalEnding, bool) {
	scores := gauges.Scores()
	for _, e := range endings {
		if e.Condition != cond.Default && cond.Evaluate(e.Condition, scores) {
			return e, true
		}
	}
	for _, e := range endings {
		if e.Condition == cond.Default {
			return e, true
		}
	}
	if len(endings) > 0 {
		return endings[0], true
	}
	return FinalEnding{}, false
}
