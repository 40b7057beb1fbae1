package simulate

import (
	"errors"
	"strings"
	"testing"

	"github.com/inkwell-labs/gamebook/internal/snapshot"
	"github.com/inkwell-labs/gamebook/internal/story"
)

func choice(tag string) story.Choice {
	return story.Choice{
		Text:              tag + " choice",
		Tags:              []string{tag},
		ImmediateReaction: strings.Repeat("x", 20),
	}
}

// testEpisode builds a depth-2 tree: the root's first branch plays
// cooperative twice, the second plays aggressive twice.
func testEpisode() story.Episode {
	return story.Episode{
		ID: "ep1",
		Nodes: []story.Node{
			{ID: "r", Depth: 0, Kind: story.KindRoot, Choices: []story.Choice{choice("cooperative"), choice("aggressive")}},
			{ID: "a", Depth: 1, ParentID: "r", Kind: story.KindClimax, Choices: []story.Choice{choice("cooperative"), choice("cautious")}},
			{ID: "b", Depth: 1, ParentID: "r", Kind: story.KindClimax, Choices: []story.Choice{choice("aggressive"), choice("cautious")}},
			{ID: "aa", Depth: 2, ParentID: "a", Kind: story.KindEnding},
			{ID: "ab", Depth: 2, ParentID: "a", Kind: story.KindEnding},
			{ID: "ba", Depth: 2, ParentID: "b", Kind: story.KindEnding},
			{ID: "bb", Depth: 2, ParentID: "b", Kind: story.KindEnding},
		},
		Endings: []story.EpisodeEnding{
			{ID: "coop", Condition: "cooperative >= 2", GaugeChanges: map[string]int{"hope": 10}},
			{ID: "war", Condition: "aggressive >= 2", GaugeChanges: map[string]int{"hope": -20}},
			{ID: "drift", Condition: "default", GaugeChanges: map[string]int{}},
		},
	}
}

func TestEpisode_Walk(t *testing.T) {
	p, err := Episode(testEpisode(), []int{0, 0})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	if len(p.Steps) != 3 {
		t.Fatalf("steps = %d, want 3", len(p.Steps))
	}
	if p.Steps[2].Node.ID != "aa" || p.Steps[2].Index != -1 {
		t.Errorf("terminal step = %+v", p.Steps[2])
	}
	if p.TagScores["cooperative"] != 2 {
		t.Errorf("cooperative score = %d, want 2", p.TagScores["cooperative"])
	}
	if !p.EndingFound || p.Ending.ID != "coop" {
		t.Errorf("ending = %+v (found %v)", p.Ending, p.EndingFound)
	}
}

func TestEpisode_OutOfRangePickFallsBackToFirst(t *testing.T) {
	p, err := Episode(testEpisode(), []int{5, -1, 9})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	// Every pick degrades to 0, so the walk follows r -> a -> aa.
	if p.Steps[len(p.Steps)-1].Node.ID != "aa" {
		t.Errorf("leaf = %s, want aa", p.Steps[len(p.Steps)-1].Node.ID)
	}
	if p.Ending.ID != "coop" {
		t.Errorf("ending = %s, want coop", p.Ending.ID)
	}
}

func TestEpisode_ShortPicksDefaultRemainder(t *testing.T) {
	p, err := Episode(testEpisode(), []int{1})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	// r -> b by pick, then b -> ba by default.
	if p.Steps[len(p.Steps)-1].Node.ID != "ba" {
		t.Errorf("leaf = %s, want ba", p.Steps[len(p.Steps)-1].Node.ID)
	}
	if p.Ending.ID != "war" {
		t.Errorf("ending = %s, want war", p.Ending.ID)
	}
}

func TestEpisode_NoRoot(t *testing.T) {
	_, err := Episode(story.Episode{ID: "empty"}, nil)
	if !errors.Is(err, story.ErrNoRoot) {
		t.Fatalf("expected ErrNoRoot, got %v", err)
	}
}

func testStory() *snapshot.Story {
	ep1 := testEpisode()
	ep2 := testEpisode()
	ep2.ID = "ep2"
	for i := range ep2.Nodes {
		ep2.Nodes[i].ID += "2"
		if ep2.Nodes[i].ParentID != "" {
			ep2.Nodes[i].ParentID += "2"
		}
	}

	return snapshot.New(snapshot.Context{
		Gauges: []story.GaugeDefinition{
			{ID: "hope", InitialValue: 50},
			{ID: "order", InitialValue: 50},
		},
		FinalEndings: []story.FinalEnding{
			{ID: "rescue", Type: "happy", Condition: "hope >= 70"},
			{ID: "ruin", Type: "tragic", Condition: "hope <= 20"},
			{ID: "drift", Type: "neutral", Condition: "default"},
		},
	}, []story.Episode{ep1, ep2}, "m")
}

func TestFullGame_GaugeFoldAndFinalEnding(t *testing.T) {
	tests := []struct {
		name      string
		picks     [][]int
		wantHope  int
		wantFinal string
	}{
		{
			name:      "cooperative both episodes",
			picks:     [][]int{{0, 0}, {0, 0}},
			wantHope:  70, // 50 +10 +10
			wantFinal: "rescue",
		},
		{
			name:      "aggressive both episodes",
			picks:     [][]int{{1, 0}, {1, 0}},
			wantHope:  10, // 50 -20 -20
			wantFinal: "ruin",
		},
		{
			name:      "split decisions fall through to default",
			picks:     [][]int{{0, 0}, {1, 0}},
			wantHope:  40, // 50 +10 -20
			wantFinal: "drift",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FullGame(testStory(), tt.picks)
			if err != nil {
				t.Fatalf("game: %v", err)
			}
			if got := g.Gauges.Get("hope"); got != tt.wantHope {
				t.Errorf("hope = %d, want %d", got, tt.wantHope)
			}
			if g.Gauges.Get("order") != 50 {
				t.Errorf("untouched gauge moved to %d", g.Gauges.Get("order"))
			}
			if !g.FinalFound || g.Final.ID != tt.wantFinal {
				t.Errorf("final = %s (found %v), want %s", g.Final.ID, g.FinalFound, tt.wantFinal)
			}
		})
	}
}

func TestAllOutcomes(t *testing.T) {
	outcomes, err := AllOutcomes(testEpisode())
	if err != nil {
		t.Fatalf("outcomes: %v", err)
	}
	if len(outcomes) != 4 {
		t.Fatalf("outcomes = %d, want 4", len(outcomes))
	}

	byLeaf := make(map[string]Outcome, len(outcomes))
	for _, o := range outcomes {
		byLeaf[o.LeafID] = o
	}
	if o := byLeaf["aa"]; o.EndingID != "coop" || len(o.Picks) != 2 {
		t.Errorf("aa outcome = %+v", o)
	}
	if o := byLeaf["ba"]; o.EndingID != "war" {
		t.Errorf("ba outcome = %+v", o)
	}
	if o := byLeaf["ab"]; o.EndingID != "drift" {
		t.Errorf("ab outcome = %+v", o)
	}

	counts := EndingCounts(outcomes)
	if counts["coop"] != 1 || counts["war"] != 1 || counts["drift"] != 2 {
		t.Errorf("counts = %v", counts)
	}
}
