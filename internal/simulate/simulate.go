// Package simulate replays finished stories without any generation: it
// walks episode trees by choice index, accumulates tag scores and gauge
// deltas, and resolves the endings a player would see.
package simulate

import (
	"fmt"

	"github.com/inkwell-labs/gamebook/internal/snapshot"
	"github.com/inkwell-labs/gamebook/internal/story"
)

// Step is one visited node plus the choice taken to leave it. The final
// step of a playthrough has Index -1 and no choice.
type Step struct {
	Node   story.Node
	Index  int
	Choice *story.Choice
}

// Playthrough is the trace of one walk through an episode tree.
type Playthrough struct {
	EpisodeID   string
	Steps       []Step
	TagScores   map[string]int
	Ending      story.EpisodeEnding
	EndingFound bool
}

// Taken returns the choices made during the playthrough, in order.
func (p *Playthrough) Taken() []story.Choice {
	var out []story.Choice
	for _, s := range p.Steps {
		if s.Choice != nil {
			out = append(out, *s.Choice)
		}
	}
	return out
}

// Episode walks the tree from the root, taking picks[i] at step i. A
// missing or out-of-range pick falls back to the first choice, so any
// pick sequence yields a complete playthrough.
func Episode(ep story.Episode, picks []int) (*Playthrough, error) {
	tree := story.TreeFromNodes(ep.Nodes)
	cur := tree.Root()
	if cur == nil {
		return nil, fmt.Errorf("episode %q: %w", ep.ID, story.ErrNoRoot)
	}

	p := &Playthrough{EpisodeID: ep.ID}
	for step := 0; ; step++ {
		children := tree.Children(cur.ID)
		if len(children) == 0 {
			p.Steps = append(p.Steps, Step{Node: *cur, Index: -1})
			break
		}

		idx := 0
		if step < len(picks) && picks[step] >= 0 && picks[step] < len(children) {
			idx = picks[step]
		}

		var choice *story.Choice
		if idx < len(cur.Choices) {
			choice = &cur.Choices[idx]
		}
		p.Steps = append(p.Steps, Step{Node: *cur, Index: idx, Choice: choice})
		cur = children[idx]
	}

	p.TagScores = story.TagScores(p.Taken())
	p.Ending, p.EndingFound = story.ResolveEpisodeEnding(ep.Endings, p.TagScores)
	return p, nil
}

// GameResult is a full multi-episode run: every episode playthrough, the
// gauge state after folding their ending deltas in episode order, and
// the final ending that state resolves to.
type GameResult struct {
	Episodes   []Playthrough
	Gauges     story.GaugeState
	Final      story.FinalEnding
	FinalFound bool
}

// FullGame plays every episode of the story in order. picks[i] drives
// episode i; missing pick sequences default every step to the first
// choice.
func FullGame(s *snapshot.Story, picks [][]int) (*GameResult, error) {
	result := &GameResult{}

	var reached []story.EpisodeEnding
	for i, ep := range s.Episodes {
		var epPicks []int
		if i < len(picks) {
			epPicks = picks[i]
		}

		p, err := Episode(ep, epPicks)
		if err != nil {
			return nil, err
		}
		result.Episodes = append(result.Episodes, *p)
		if p.EndingFound {
			reached = append(reached, p.Ending)
		}
	}

	initial := story.NewGaugeState(s.Context.Gauges)
	result.Gauges = story.AggregateEpisodes(initial, reached)
	result.Final, result.FinalFound = story.ResolveFinalEnding(s.Context.FinalEndings, result.Gauges)
	return result, nil
}

// Outcome is one root-to-leaf path and the episode ending it resolves
// to.
type Outcome struct {
	Picks     []int
	LeafID    string
	TagScores map[string]int
	EndingID  string
}

// AllOutcomes enumerates every root-to-leaf path of the episode. The
// result grows with fan-out^depth, which stays small for the tree sizes
// the engine generates.
func AllOutcomes(ep story.Episode) ([]Outcome, error) {
	tree := story.TreeFromNodes(ep.Nodes)
	root := tree.Root()
	if root == nil {
		return nil, fmt.Errorf("episode %q: %w", ep.ID, story.ErrNoRoot)
	}

	var outcomes []Outcome
	var walk func(n *story.Node, picks []int, taken []story.Choice)
	walk = func(n *story.Node, picks []int, taken []story.Choice) {
		children := tree.Children(n.ID)
		if len(children) == 0 {
			scores := story.TagScores(taken)
			o := Outcome{
				Picks:     append([]int(nil), picks...),
				LeafID:    n.ID,
				TagScores: scores,
			}
			if e, ok := story.ResolveEpisodeEnding(ep.Endings, scores); ok {
				o.EndingID = e.ID
			}
			outcomes = append(outcomes, o)
			return
		}

		for i, child := range children {
			// Full-capacity slicing keeps sibling branches from sharing
			// backing arrays.
			next := taken
			if i < len(n.Choices) {
				next = append(taken[:len(taken):len(taken)], n.Choices[i])
			}
			walk(child, append(picks[:len(picks):len(picks)], i), next)
		}
	}
	walk(root, nil, nil)

	return outcomes, nil
}

// EndingCounts tallies how many leaves resolve to each ending.
func EndingCounts(outcomes []Outcome) map[string]int {
	counts := make(map[string]int)
	for _, o := range outcomes {
		counts[o.EndingID]++
	}
	return counts
}
