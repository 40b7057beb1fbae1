package provider

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/inkwell-labs/gamebook/internal/cond"
	"github.com/inkwell-labs/gamebook/internal/story"
)

// MinReactionLen is the minimum length, in runes, of a choice's
// immediate reaction.
const MinReactionLen = 20

const (
	// MinChoices and MaxChoices bound the fan-out of a non-ending node.
	MinChoices = 2
	MaxChoices = 4
)

// NodePayload is the structured content of one generated node.
type NodePayload struct {
	Text    string           `json:"text"`
	Details story.NodeDetail `json:"details"`
	Choices []story.Choice   `json:"choices"`
}

// NodeRequest carries everything a single node-generation call needs.
// Gauges is a read-only clone of the build's baseline, supplied purely as
// descriptive context; in-tree generation never mutates gauges.
type NodeRequest struct {
	Context  story.EpisodeContext
	Depth    int
	MaxDepth int
	Kind     story.NodeKind
	Parent   *story.Node
	Choice   *story.Choice
	Gauges   story.GaugeState
}

// ValidateNodePayload enforces the node/choice contract. A non-ending
// payload must carry 2-4 choices, each with an immediate reaction of at
// least MinReactionLen runes. Ending payloads are checked for text only;
// the orchestrator forces their choices empty regardless.
func ValidateNodePayload(p *NodePayload, kind story.NodeKind) error {
	if p == nil {
		return fmt.Errorf("%w: nil payload", ErrInvalidPayload)
	}
	if strings.TrimSpace(p.Text) == "" {
		return fmt.Errorf("%w: node text is empty", ErrInvalidPayload)
	}
	if kind == story.KindEnding {
		return nil
	}

	if len(p.Choices) < MinChoices || len(p.Choices) > MaxChoices {
		return fmt.Errorf("%w: %d choices, want %d-%d", ErrInvalidPayload, len(p.Choices), MinChoices, MaxChoices)
	}
	for i, c := range p.Choices {
		if strings.TrimSpace(c.Text) == "" {
			return fmt.Errorf("%w: choice %d has no text", ErrInvalidPayload, i+1)
		}
		reaction := strings.TrimSpace(c.ImmediateReaction)
		if reaction == "" {
			return fmt.Errorf("%w: choice %d is missing an immediate reaction", ErrInvalidPayload, i+1)
		}
		if utf8.RuneCountInString(reaction) < MinReactionLen {
			return fmt.Errorf("%w: choice %d immediate reaction too short (len=%d, minimum %d)",
				ErrInvalidPayload, i+1, utf8.RuneCountInString(reaction), MinReactionLen)
		}
	}
	return nil
}

// validateEpisodeEndings checks the structural contract of designed
// episode endings: id and condition present, deltas map non-nil.
func validateEpisodeEndings(endings []story.EpisodeEnding) error {
	if len(endings) == 0 {
		return fmt.Errorf("%w: no endings generated", ErrInvalidPayload)
	}
	for i, e := range endings {
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("%w: ending %d has no id", ErrInvalidPayload, i+1)
		}
		if strings.TrimSpace(e.Condition) == "" {
			return fmt.Errorf("%w: ending %q has no condition", ErrInvalidPayload, e.ID)
		}
		if e.GaugeChanges == nil {
			return fmt.Errorf("%w: ending %q has no gauge changes", ErrInvalidPayload, e.ID)
		}
	}
	return nil
}

// validateFinalEndings checks the structural contract of designed final
// endings: ids and conditions present, and exactly one catch-all so every
// playthrough resolves somewhere.
func validateFinalEndings(endings []story.FinalEnding) error {
	if len(endings) == 0 {
		return fmt.Errorf("%w: no endings generated", ErrInvalidPayload)
	}
	defaults := 0
	for i, e := range endings {
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("%w: ending %d has no id", ErrInvalidPayload, i+1)
		}
		if strings.TrimSpace(e.Condition) == "" {
			return fmt.Errorf("%w: ending %q has no condition", ErrInvalidPayload, e.ID)
		}
		if strings.TrimSpace(e.Condition) == cond.Default {
			defaults++
		}
	}
	if defaults != 1 {
		return fmt.Errorf("%w: %d default endings, want exactly 1", ErrInvalidPayload, defaults)
	}
	return nil
}
