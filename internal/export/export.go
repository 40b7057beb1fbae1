// Package export renders finished stories into reader-facing and
// engine-facing formats.
package export

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/inkwell-labs/gamebook/internal/snapshot"
	"github.com/inkwell-labs/gamebook/internal/story"
)

// Format selects an export rendering.
type Format string

const (
	// FormatMarkdown is a human-readable document of the whole story.
	FormatMarkdown Format = "markdown"
	// FormatHTML is a single self-contained page.
	FormatHTML Format = "html"
	// FormatEngine is a flat JSON layout for external game runtimes:
	// one node table per episode, keyed by node ID.
	FormatEngine Format = "engine"
)

// Export renders the story in the given format.
func Export(s *snapshot.Story, format string, w io.Writer) error {
	switch Format(strings.ToLower(format)) {
	case FormatMarkdown:
		return Markdown(s, w)
	case FormatHTML:
		return HTML(s, w)
	case FormatEngine, "game":
		return GameEngine(s, w)
	default:
		return fmt.Errorf("unsupported export format: %s (supported: markdown, html, engine)", format)
	}
}

// Markdown writes the story as a Markdown document: summary, gauges,
// final endings, then every episode with its intro, nodes grouped by
// depth, and endings.
func Markdown(s *snapshot.Story, w io.Writer) error {
	var b strings.Builder

	b.WriteString("# Interactive Story\n\n")
	b.WriteString(s.Context.NovelSummary)
	b.WriteString("\n\n## Gauges\n\n")
	for _, g := range s.Context.Gauges {
		fmt.Fprintf(&b, "- **%s** (`%s`), starts at %d", g.Name, g.ID, initialValue(g))
		if g.Meaning != "" {
			b.WriteString(": " + g.Meaning)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Final Endings\n\n")
	for _, f := range s.Context.FinalEndings {
		fmt.Fprintf(&b, "- **%s** (%s) — `%s`\n", f.Title, f.Type, f.Condition)
	}

	for _, ep := range s.Episodes {
		fmt.Fprintf(&b, "\n## Episode %d: %s\n\n", ep.Order, ep.Title)
		b.WriteString(ep.IntroText)
		b.WriteString("\n")

		for _, n := range ep.Nodes {
			fmt.Fprintf(&b, "\n### Node `%s` (depth %d, %s)\n\n", n.ID, n.Depth, n.Kind)
			b.WriteString(n.Text)
			b.WriteString("\n")
			for i, c := range n.Choices {
				fmt.Fprintf(&b, "\n%d. %s", i+1, c.Text)
				if len(c.Tags) > 0 {
					fmt.Fprintf(&b, " _(%s)_", strings.Join(c.Tags, ", "))
				}
			}
			if len(n.Choices) > 0 {
				b.WriteString("\n")
			}
		}

		b.WriteString("\n### Endings\n\n")
		for _, e := range ep.Endings {
			fmt.Fprintf(&b, "- **%s** — `%s`\n", e.Title, e.Condition)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// HTML writes a minimal standalone page. Content passes through
// htmlEscape, nothing else; styling is left to the reader.
func HTML(s *snapshot.Story, w io.Writer) error {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>Interactive Story</title>\n</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>Interactive Story</h1>\n<p>%s</p>\n", htmlEscape(s.Context.NovelSummary))

	for _, ep := range s.Episodes {
		fmt.Fprintf(&b, "<h2>Episode %d: %s</h2>\n", ep.Order, htmlEscape(ep.Title))
		fmt.Fprintf(&b, "<p><em>%s</em></p>\n", htmlEscape(ep.IntroText))

		for _, n := range ep.Nodes {
			fmt.Fprintf(&b, "<h3 id=%q>%s</h3>\n", "node-"+n.ID, htmlEscape(n.Text))
			if len(n.Choices) > 0 {
				b.WriteString("<ol>\n")
				for _, c := range n.Choices {
					fmt.Fprintf(&b, "<li>%s</li>\n", htmlEscape(c.Text))
				}
				b.WriteString("</ol>\n")
			}
		}
	}

	b.WriteString("</body>\n</html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// engineStory is the flat runtime layout: nodes keyed by ID so a runtime
// can jump by reference instead of walking a tree.
type engineStory struct {
	Gauges   []story.GaugeDefinition `json:"gauges"`
	Finals   []story.FinalEnding     `json:"final_endings"`
	Episodes []engineEpisode         `json:"episodes"`
}

type engineEpisode struct {
	ID      string                 `json:"id"`
	Title   string                 `json:"title"`
	Intro   string                 `json:"intro_text"`
	Start   string                 `json:"start_node"`
	Nodes   map[string]engineNode  `json:"nodes"`
	Endings []story.EpisodeEnding  `json:"endings"`
}

type engineNode struct {
	Text    string         `json:"text"`
	Kind    story.NodeKind `json:"node_type"`
	Choices []engineChoice `json:"choices"`
}

type engineChoice struct {
	Text     string         `json:"text"`
	Tags     []string       `json:"tags"`
	Reaction string         `json:"immediate_reaction"`
	Deltas   map[string]int `json:"gauge_changes,omitempty"`
	Next     string         `json:"next"`
}

// GameEngine writes the flat JSON runtime layout. Choice order maps onto
// child order, which is how the generator lays trees out.
func GameEngine(s *snapshot.Story, w io.Writer) error {
	out := engineStory{
		Gauges: s.Context.Gauges,
		Finals: s.Context.FinalEndings,
	}

	for _, ep := range s.Episodes {
		tree := story.TreeFromNodes(ep.Nodes)
		e := engineEpisode{
			ID:      ep.ID,
			Title:   ep.Title,
			Intro:   ep.IntroText,
			Nodes:   make(map[string]engineNode, len(ep.Nodes)),
			Endings: ep.Endings,
		}
		if root := tree.Root(); root != nil {
			e.Start = root.ID
		}

		for _, n := range ep.Nodes {
			children := tree.Children(n.ID)
			en := engineNode{Text: n.Text, Kind: n.Kind, Choices: []engineChoice{}}
			for i, c := range n.Choices {
				ec := engineChoice{
					Text:     c.Text,
					Tags:     c.Tags,
					Reaction: c.ImmediateReaction,
					Deltas:   c.GaugeChanges,
				}
				if i < len(children) {
					ec.Next = children[i].ID
				}
				en.Choices = append(en.Choices, ec)
			}
			e.Nodes[n.ID] = en
		}
		out.Episodes = append(out.Episodes, e)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func initialValue(g story.GaugeDefinition) int {
	if g.InitialValue == 0 {
		return story.DefaultGaugeValue
	}
	return story.Clamp(g.InitialValue)
}

func htmlEscape(s string) string {
	return html.EscapeString(s)
}
