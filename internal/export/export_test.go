package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/inkwell-labs/gamebook/internal/snapshot"
	"github.com/inkwell-labs/gamebook/internal/story"
)

func exportStory() *snapshot.Story {
	nodes := []story.Node{
		{
			ID: "r", Depth: 0, Kind: story.KindRoot,
			Text: "The island at dawn.",
			Choices: []story.Choice{
				{Text: "Blow the conch", Tags: []string{"cooperative"}, ImmediateReaction: strings.Repeat("x", 20), GaugeChanges: map[string]int{"hope": 5}},
				{Text: "Hide & wait", Tags: []string{"cautious"}, ImmediateReaction: strings.Repeat("y", 20)},
			},
		},
		{ID: "a", Depth: 1, ParentID: "r", Kind: story.KindEnding, Text: "End one."},
		{ID: "b", Depth: 1, ParentID: "r", Kind: story.KindEnding, Text: "End two."},
	}
	return snapshot.New(snapshot.Context{
		NovelSummary: "A summary with <markup> & symbols.",
		Gauges:       []story.GaugeDefinition{{ID: "hope", Name: "Hope", InitialValue: 50}},
		FinalEndings: []story.FinalEnding{{ID: "f1", Type: "happy", Title: "Rescue", Condition: "hope >= 70"}},
	}, []story.Episode{{
		ID: "ep1", Title: "The Shell", Order: 1, IntroText: "It begins.",
		Nodes:   nodes,
		Endings: []story.EpisodeEnding{{ID: "e1", Title: "Chief", Condition: "cooperative >= 1", GaugeChanges: map[string]int{"hope": 10}}},
	}}, "m")
}

func TestExport_UnsupportedFormat(t *testing.T) {
	err := Export(exportStory(), "pdf", &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "unsupported export format") {
		t.Fatalf("err = %v", err)
	}
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(exportStory(), "markdown", &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Interactive Story",
		"## Episode 1: The Shell",
		"The island at dawn.",
		"1. Blow the conch",
		"_(cooperative)_",
		"**Chief** — `cooperative >= 1`",
		"**Rescue** (happy) — `hope >= 70`",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestHTML_EscapesContent(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(exportStory(), "html", &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "<markup>") {
		t.Error("summary markup not escaped")
	}
	if !strings.Contains(out, "&lt;markup&gt; &amp; symbols") {
		t.Error("escaped summary missing")
	}
	if !strings.Contains(out, "<li>Hide &amp; wait</li>") {
		t.Error("choice not rendered as list item")
	}
}

func TestGameEngine_FlatLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(exportStory(), "engine", &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	var out struct {
		Episodes []struct {
			Start string `json:"start_node"`
			Nodes map[string]struct {
				Choices []struct {
					Next   string         `json:"next"`
					Deltas map[string]int `json:"gauge_changes"`
				} `json:"choices"`
			} `json:"nodes"`
		} `json:"episodes"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("reparse: %v", err)
	}

	ep := out.Episodes[0]
	if ep.Start != "r" {
		t.Errorf("start node = %q, want r", ep.Start)
	}
	root := ep.Nodes["r"]
	if len(root.Choices) != 2 {
		t.Fatalf("root choices = %d", len(root.Choices))
	}
	// Choice order maps onto child order.
	if root.Choices[0].Next != "a" || root.Choices[1].Next != "b" {
		t.Errorf("choice links = %q, %q", root.Choices[0].Next, root.Choices[1].Next)
	}
	if root.Choices[0].Deltas["hope"] != 5 {
		t.Error("choice deltas lost")
	}
	if len(ep.Nodes["a"].Choices) != 0 {
		t.Error("ending node has choices")
	}
}
