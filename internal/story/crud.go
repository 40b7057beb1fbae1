package story

import (
	"errors"
	"fmt"
)

var (
	ErrEndingNotFound = errors.New("ending not found")
	ErrChoiceIndex    = errors.New("choice index out of range")
)

// NodeUpdate names the node fields an external edit may change. Nil
// pointers leave the field untouched.
type NodeUpdate struct {
	Text    *string
	Details *NodeDetail
	Choices *[]Choice
}

// EditNode applies an update to a node of the episode.
func EditNode(ep *Episode, nodeID string, update NodeUpdate) error {
	for i := range ep.Nodes {
		if ep.Nodes[i].ID != nodeID {
			continue
		}
		if update.Text != nil {
			ep.Nodes[i].Text = *update.Text
		}
		if update.Details != nil {
			ep.Nodes[i].Details = *update.Details
		}
		if update.Choices != nil {
			ep.Nodes[i].Choices = *update.Choices
		}
		return nil
	}
	return fmt.Errorf("edit node: %w: %q", ErrNodeNotFound, nodeID)
}

// DeleteNode removes a node and every descendant from the episode.
func DeleteNode(ep *Episode, nodeID string) error {
	found := false
	for i := range ep.Nodes {
		if ep.Nodes[i].ID == nodeID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("delete node: %w: %q", ErrNodeNotFound, nodeID)
	}

	doomed := map[string]struct{}{nodeID: {}}
	// Nodes may appear in any order; sweep until the closure stabilizes.
	for changed := true; changed; {
		changed = false
		for i := range ep.Nodes {
			n := &ep.Nodes[i]
			if _, gone := doomed[n.ID]; gone {
				continue
			}
			if _, parentGone := doomed[n.ParentID]; parentGone && n.ParentID != "" {
				doomed[n.ID] = struct{}{}
				changed = true
			}
		}
	}

	kept := ep.Nodes[:0]
	for _, n := range ep.Nodes {
		if _, gone := doomed[n.ID]; !gone {
			kept = append(kept, n)
		}
	}
	ep.Nodes = kept
	return nil
}

// AddChoice appends a choice to a node of the episode.
func AddChoice(ep *Episode, nodeID string, choice Choice) error {
	for i := range ep.Nodes {
		if ep.Nodes[i].ID == nodeID {
			ep.Nodes[i].Choices = append(ep.Nodes[i].Choices, choice)
			return nil
		}
	}
	return fmt.Errorf("add choice: %w: %q", ErrNodeNotFound, nodeID)
}

// RemoveChoice removes the choice at the given index from a node.
func RemoveChoice(ep *Episode, nodeID string, index int) error {
	for i := range ep.Nodes {
		if ep.Nodes[i].ID != nodeID {
			continue
		}
		choices := ep.Nodes[i].Choices
		if index < 0 || index >= len(choices) {
			return fmt.Errorf("remove choice: %w: %d of %d", ErrChoiceIndex, index, len(choices))
		}
		ep.Nodes[i].Choices = append(choices[:index], choices[index+1:]...)
		return nil
	}
	return fmt.Errorf("remove choice: %w: %q", ErrNodeNotFound, nodeID)
}

// EndingUpdate names the episode-ending fields an edit may change.
type EndingUpdate struct {
	Title        *string
	Condition    *string
	Text         *string
	GaugeChanges *map[string]int
}

// UpdateEnding applies an update to one of the episode's endings.
func UpdateEnding(ep *Episode, endingID string, update EndingUpdate) error {
	for i := range ep.Endings {
		if ep.Endings[i].ID != endingID {
			continue
		}
		if update.Title != nil {
			ep.Endings[i].Title = *update.Title
		}
		if update.Condition != nil {
			ep.Endings[i].Condition = *update.Condition
		}
		if update.Text != nil {
			ep.Endings[i].Text = *update.Text
		}
		if update.GaugeChanges != nil {
			ep.Endings[i].GaugeChanges = *update.GaugeChanges
		}
		return nil
	}
	return fmt.Errorf("update ending: %w: %q", ErrEndingNotFound, endingID)
}

// UpdateIntro replaces the episode's intro text.
func UpdateIntro(ep *Episode, intro string) {
	ep.IntroText = intro
}
