// Package snapshot defines the on-disk story document and its
// serialization. The JSON key layout is the interchange surface for
// exporters and external engines, so keys here are stable.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/inkwell-labs/gamebook/internal/story"
)

var ErrBadSnapshot = errors.New("malformed story snapshot")

// Metadata summarizes a finished build.
type Metadata struct {
	TotalEpisodes  int       `json:"total_episodes"`
	TotalNodes     int       `json:"total_nodes"`
	MaxDepth       int       `json:"max_depth"`
	Gauges         []string  `json:"gauges"`
	CharacterCount int       `json:"character_count"`
	Model          string    `json:"model"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// Context is the novel-level material shared by every episode.
type Context struct {
	NovelSummary string                  `json:"novel_summary"`
	Characters   []story.Character       `json:"characters"`
	Gauges       []story.GaugeDefinition `json:"gauges"`
	FinalEndings []story.FinalEnding     `json:"final_endings"`
}

// Story is the complete build artifact: shared context plus one entry
// per episode.
type Story struct {
	Metadata Metadata        `json:"metadata"`
	Context  Context         `json:"context"`
	Episodes []story.Episode `json:"episodes"`
}

// New assembles a story document and derives its metadata from the
// episode contents.
func New(sctx Context, episodes []story.Episode, model string) *Story {
	meta := Metadata{
		TotalEpisodes:  len(episodes),
		CharacterCount: len(sctx.Characters),
		Model:          model,
		GeneratedAt:    time.Now().UTC(),
	}
	for _, g := range sctx.Gauges {
		meta.Gauges = append(meta.Gauges, g.ID)
	}
	for _, ep := range episodes {
		meta.TotalNodes += len(ep.Nodes)
		for _, n := range ep.Nodes {
			if n.Depth > meta.MaxDepth {
				meta.MaxDepth = n.Depth
			}
		}
	}
	return &Story{Metadata: meta, Context: sctx, Episodes: episodes}
}

// Episode returns the episode with the given ID.
func (s *Story) Episode(id string) (*story.Episode, bool) {
	for i := range s.Episodes {
		if s.Episodes[i].ID == id {
			return &s.Episodes[i], true
		}
	}
	return nil, false
}

// Write serializes the story as indented JSON.
func Write(w io.Writer, s *Story) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding story snapshot: %w", err)
	}
	return nil
}

// Read parses a story snapshot.
func Read(r io.Reader) (*Story, error) {
	var s Story
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	if len(s.Episodes) == 0 {
		return nil, fmt.Errorf("%w: no episodes", ErrBadSnapshot)
	}
	return &s, nil
}

// Save writes the story to path, creating or truncating the file.
func Save(path string, s *Story) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	defer f.Close()

	if err := Write(f, s); err != nil {
		return err
	}
	return f.Close()
}

// Load reads a story from path.
func Load(path string) (*Story, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot file: %w", err)
	}
	defer f.Close()

	return Read(f)
}
