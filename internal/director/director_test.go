package director

import (
	"context"
	"errors"
	"testing"

	"github.com/inkwell-labs/gamebook/internal/provider"
	"github.com/inkwell-labs/gamebook/internal/story"
)

func pipelineSource() *fakeSource {
	return &fakeSource{
		summary: "Boys stranded on an island descend into savagery.",
		characters: []story.Character{
			{Name: "Ralph"}, {Name: "Jack"}, {Name: "Piggy"},
		},
		gauges: []story.GaugeDefinition{
			{ID: "hope", Name: "Hope", InitialValue: 50},
			{ID: "order", Name: "Order", InitialValue: 60},
			{ID: "fear", Name: "Fear", InitialValue: 30},
		},
		endings: []story.FinalEnding{
			{ID: "rescue", Type: "happy", Title: "Rescue", Condition: "hope >= 70", Summary: "s"},
			{ID: "drift", Type: "neutral", Title: "Drift", Condition: "default", Summary: "s"},
		},
		plans: []story.EpisodePlan{
			{ID: "ep1", Title: "The Shell", Order: 1},
			{ID: "ep2", Title: "The Fire", Order: 2},
		},
		epEndings: []story.EpisodeEnding{
			{ID: "e1", Title: "Chief", Condition: "cooperative >= 2", GaugeChanges: map[string]int{"hope": 10}},
			{ID: "e2", Title: "Drift", Condition: "default", GaugeChanges: map[string]int{}},
		},
		nodeFn: func(_ context.Context, req provider.NodeRequest) (*provider.NodePayload, error) {
			return binaryPayload(req), nil
		},
	}
}

func TestBuildStory_Pipeline(t *testing.T) {
	src := pipelineSource()
	d := New(src, Config{Episodes: 2, MaxDepth: 2, Concurrency: 4})

	s, err := d.BuildStory(context.Background(), "novel text", []string{"hope", "order"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if s.Metadata.TotalEpisodes != 2 {
		t.Errorf("episodes = %d, want 2", s.Metadata.TotalEpisodes)
	}
	if s.Metadata.TotalNodes != 14 {
		t.Errorf("total nodes = %d, want 14 (two full binary trees of depth 2)", s.Metadata.TotalNodes)
	}
	if s.Metadata.Model != "fake-model" {
		t.Errorf("model = %q", s.Metadata.Model)
	}
	if len(s.Context.Gauges) != 2 {
		t.Errorf("selected gauges = %d, want 2", len(s.Context.Gauges))
	}
	if s.Context.NovelSummary == "" {
		t.Error("summary missing from context")
	}

	for _, ep := range s.Episodes {
		if ep.IntroText != "intro for "+ep.Title {
			t.Errorf("episode %s intro = %q", ep.ID, ep.IntroText)
		}
		if len(ep.Endings) != 2 {
			t.Errorf("episode %s endings = %d, want 2", ep.ID, len(ep.Endings))
		}
		for _, n := range ep.Nodes {
			if n.Episode != ep.ID {
				t.Errorf("node %s tagged with episode %q, want %q", n.ID, n.Episode, ep.ID)
			}
		}
	}
}

func TestBuildStory_RejectsBadDepth(t *testing.T) {
	d := New(pipelineSource(), Config{MaxDepth: 7})

	_, err := d.BuildStory(context.Background(), "novel", []string{"hope", "order"})
	if !errors.Is(err, ErrBadConfig) {
		t.Fatalf("expected ErrBadConfig, got %v", err)
	}
}

func TestAnalyze(t *testing.T) {
	d := New(pipelineSource(), DefaultConfig())

	a, err := d.Analyze(context.Background(), "novel text")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if a.Summary == "" || len(a.Characters) != 3 || len(a.GaugeProposals) != 3 {
		t.Errorf("analysis = %+v", a)
	}
}

func TestSelectGauges(t *testing.T) {
	proposals := []story.GaugeDefinition{
		{ID: "hope"}, {ID: "order"}, {ID: "fear"},
	}

	tests := []struct {
		name    string
		ids     []string
		want    []string
		wantErr error
	}{
		{name: "exact pick", ids: []string{"order", "fear"}, want: []string{"order", "fear"}},
		{name: "single pick padded", ids: []string{"fear"}, want: []string{"fear", "hope"}},
		{name: "empty pick padded to two", ids: nil, want: []string{"hope", "order"}},
		{name: "unknown ids padded", ids: []string{"love"}, want: []string{"hope", "order"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectGauges(proposals, tt.ids)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("selected %d gauges, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("gauge %d = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestSelectGauges_TooFewProposals(t *testing.T) {
	_, err := SelectGauges([]story.GaugeDefinition{{ID: "hope"}}, nil)
	if !errors.Is(err, ErrNotEnoughGauges) {
		t.Fatalf("expected ErrNotEnoughGauges, got %v", err)
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	d := New(pipelineSource(), Config{})

	def := DefaultConfig()
	if d.cfg.Episodes != def.Episodes || d.cfg.MaxDepth != def.MaxDepth ||
		d.cfg.Concurrency != def.Concurrency || d.cfg.CallTimeout != def.CallTimeout {
		t.Errorf("defaults not applied: %+v", d.cfg)
	}
	if d.cfg.Strict {
		t.Error("strict should default to off")
	}
}
