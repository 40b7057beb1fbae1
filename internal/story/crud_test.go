package story

import (
	"errors"
	"testing"
)

func testEpisode() *Episode {
	return &Episode{
		ID: "ep1",
		Nodes: []Node{
			{ID: "root", Depth: 0, Text: "start", Choices: []Choice{{Text: "go"}, {Text: "stay"}}},
			{ID: "a", Depth: 1, ParentID: "root", Text: "went"},
			{ID: "b", Depth: 1, ParentID: "root", Text: "stayed"},
			{ID: "aa", Depth: 2, ParentID: "a", Text: "deeper"},
		},
		Endings: []EpisodeEnding{
			{ID: "e1", Title: "Trust", Condition: "trusting >= 1", GaugeChanges: map[string]int{"hope": 5}},
			{ID: "e2", Title: "Default", Condition: "default"},
		},
	}
}

func TestEditNode(t *testing.T) {
	ep := testEpisode()

	text := "rewritten"
	if err := EditNode(ep, "a", NodeUpdate{Text: &text}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if ep.Nodes[1].Text != "rewritten" {
		t.Errorf("text = %q, want rewritten", ep.Nodes[1].Text)
	}
	// Untouched fields survive.
	if ep.Nodes[1].ParentID != "root" {
		t.Errorf("parent changed: %q", ep.Nodes[1].ParentID)
	}

	err := EditNode(ep, "ghost", NodeUpdate{Text: &text})
	if !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestDeleteNode_Cascades(t *testing.T) {
	ep := testEpisode()

	if err := DeleteNode(ep, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	for _, n := range ep.Nodes {
		if n.ID == "a" || n.ID == "aa" {
			t.Errorf("node %s should have been deleted", n.ID)
		}
	}
	if len(ep.Nodes) != 2 {
		t.Errorf("remaining nodes = %d, want 2", len(ep.Nodes))
	}
}

func TestDeleteNode_Missing(t *testing.T) {
	ep := testEpisode()
	if err := DeleteNode(ep, "ghost"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestAddRemoveChoice(t *testing.T) {
	ep := testEpisode()

	if err := AddChoice(ep, "a", Choice{Text: "new option", Tags: []string{"brave"}}); err != nil {
		t.Fatalf("add choice: %v", err)
	}
	if len(ep.Nodes[1].Choices) != 1 {
		t.Fatalf("choices = %d, want 1", len(ep.Nodes[1].Choices))
	}

	if err := RemoveChoice(ep, "a", 0); err != nil {
		t.Fatalf("remove choice: %v", err)
	}
	if len(ep.Nodes[1].Choices) != 0 {
		t.Errorf("choices = %d, want 0", len(ep.Nodes[1].Choices))
	}

	if err := RemoveChoice(ep, "a", 3); !errors.Is(err, ErrChoiceIndex) {
		t.Errorf("expected ErrChoiceIndex, got %v", err)
	}
}

func TestUpdateEnding(t *testing.T) {
	ep := testEpisode()

	condition := "trusting >= 2"
	changes := map[string]int{"hope": 20}
	err := UpdateEnding(ep, "e1", EndingUpdate{Condition: &condition, GaugeChanges: &changes})
	if err != nil {
		t.Fatalf("update ending: %v", err)
	}

	if ep.Endings[0].Condition != "trusting >= 2" {
		t.Errorf("condition = %q", ep.Endings[0].Condition)
	}
	if ep.Endings[0].GaugeChanges["hope"] != 20 {
		t.Errorf("hope delta = %d, want 20", ep.Endings[0].GaugeChanges["hope"])
	}
	if ep.Endings[0].Title != "Trust" {
		t.Errorf("title changed: %q", ep.Endings[0].Title)
	}

	if err := UpdateEnding(ep, "ghost", EndingUpdate{}); !errors.Is(err, ErrEndingNotFound) {
		t.Errorf("expected ErrEndingNotFound, got %v", err)
	}
}

func TestUpdateIntro(t *testing.T) {
	ep := testEpisode()
	UpdateIntro(ep, "a new beginning")
	if ep.IntroText != "a new beginning" {
		t.Errorf("intro = %q", ep.IntroText)
	}
}
