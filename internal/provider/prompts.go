package provider

import (
	"fmt"
	"sort"
	"strings"

	"github.com/inkwell-labs/gamebook/internal/story"
)

// Long inputs are sampled rather than sent whole: summaries chunk the
// text, character extraction takes the head, middle and tail.
const (
	summaryChunkSize     = 20000
	characterSampleLines = 1000
)

func summaryPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Summarize the following novel text in roughly 500 words. ")
	b.WriteString("Cover the core plot, themes, conflict structure, and the ending.\n\n")
	b.WriteString("[Novel Text]\n")
	b.WriteString(text)
	return b.String()
}

func chunkSummaryPrompt(index int, chunk string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The following is part %d of a novel. Summarize its key content in roughly 200 words, ", index+1)
	b.WriteString("covering the main events, character actions, and conflicts.\n\n")
	b.WriteString("[Text]\n")
	b.WriteString(chunk)
	return b.String()
}

func combinedSummaryPrompt(chunkSummaries []string) string {
	var b strings.Builder
	b.WriteString("The following are per-part summaries of a novel. Combine them into a single summary ")
	b.WriteString("of roughly 500 words covering the core plot, themes, conflict structure, and ending.\n\n")
	b.WriteString("[Part Summaries]\n")
	b.WriteString(strings.Join(chunkSummaries, "\n\n"))
	return b.String()
}

func charactersPrompt(novelText string) string {
	lines := strings.Split(novelText, "\n")
	selected := lines
	if len(lines) > characterSampleLines {
		// Head, middle and tail keep the cast introductions, arcs and fates.
		mid := len(lines)/2 - 100
		selected = append(append(append([]string{}, lines[:400]...), lines[mid:mid+200]...), lines[len(lines)-400:]...)
	}

	var numbered strings.Builder
	for i, line := range selected {
		fmt.Fprintf(&numbered, "[%d] %s\n", i+1, line)
	}

	var b strings.Builder
	b.WriteString("You are a literary analyst. Extract detailed information about the main characters ")
	b.WriteString("from the novel text below (line numbers included).\n\n")
	b.WriteString("[Novel Text]\n")
	b.WriteString(numbered.String())
	b.WriteString("\nFor each character provide:\n")
	b.WriteString("- name: the character's name\n")
	b.WriteString("- aliases: other names they are called in the text\n")
	b.WriteString("- description: appearance, personality, key actions, and how they change\n")
	b.WriteString("- relationships: their relationships to other characters, with concrete scenes\n\n")
	b.WriteString("Respond with only this JSON shape:\n")
	b.WriteString(`{"characters": [{"name": "...", "aliases": ["..."], "description": "...", "relationships": ["..."]}]}`)
	return b.String()
}

func gaugesPrompt(summary string) string {
	var b strings.Builder
	b.WriteString("Design a gauge (numeric meter) system that captures this novel's core conflicts and themes. ")
	b.WriteString("Propose the five most fitting gauges.\n\n")
	b.WriteString("[Novel Summary]\n")
	b.WriteString(summary)
	b.WriteString("\n\nFor each gauge define:\n")
	b.WriteString("- id: a lowercase identifier (e.g. \"civilization\", \"fear\")\n")
	b.WriteString("- name: a display name\n")
	b.WriteString("- meaning: what the gauge measures, in one or two sentences\n")
	b.WriteString("- min_label: the state at 0\n")
	b.WriteString("- max_label: the state at 100\n")
	b.WriteString("- description: how the story uses this gauge\n")
	b.WriteString("- initial_value: the starting value (0-100) fitting the novel's opening situation\n\n")
	b.WriteString("Respond with only this JSON shape:\n")
	b.WriteString(`{"gauges": [{"id": "...", "name": "...", "meaning": "...", "min_label": "...", "max_label": "...", "description": "...", "initial_value": 50}]}`)
	return b.String()
}

func finalEndingsPrompt(summary string, gauges []story.GaugeDefinition, counts map[string]int) string {
	typeDescriptions := map[string]string{
		"happy":       "a hopeful resolution where goals are achieved",
		"tragic":      "downfall, death, or failure",
		"neutral":     "an uneventful resolution without major change",
		"open":        "an open ending leaving room for interpretation",
		"bad":         "an unhappy resolution with loss",
		"bittersweet": "success through sacrifice",
	}

	total := 0
	types := make([]string, 0, len(counts))
	for t, n := range counts {
		if n > 0 {
			total += n
			types = append(types, t)
		}
	}
	sort.Strings(types)

	var b strings.Builder
	b.WriteString("Design the final endings reachable from the accumulated gauge values after all episodes.\n\n")
	b.WriteString("[Novel Summary]\n")
	b.WriteString(summary)
	b.WriteString("\n\n[Gauge System]\n")
	b.WriteString(formatGauges(gauges))
	b.WriteString("\n\n[Required ending types]\n")
	for _, t := range types {
		desc := typeDescriptions[t]
		if desc == "" {
			desc = t
		}
		fmt.Fprintf(&b, "- %s (%s): %d\n", t, desc, counts[t])
	}
	fmt.Fprintf(&b, "\nGenerate %d endings in total.\n\n", total)
	b.WriteString("Important: these endings are decided by gauge values accumulated across episodes. ")
	b.WriteString("Gauges range 0-100. Exactly one ending must have the condition \"default\" as the catch-all.\n\n")
	b.WriteString("For each ending define:\n")
	b.WriteString("- id: a lowercase identifier (e.g. \"ending_hope\")\n")
	b.WriteString("- type: the ending type\n")
	b.WriteString("- title: the ending's title\n")
	b.WriteString("- condition: a gauge condition (e.g. \"hope >= 70 AND trust >= 60\") or \"default\"\n")
	b.WriteString("- summary: three to five sentences describing the ending\n\n")
	b.WriteString("Respond with only this JSON shape:\n")
	b.WriteString(`{"endings": [{"id": "...", "type": "...", "title": "...", "condition": "...", "summary": "..."}]}`)
	return b.String()
}

func splitEpisodesPrompt(summary string, characters []story.Character, n int) string {
	names := make([]string, 0, len(characters))
	for _, c := range characters {
		names = append(names, c.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Split the novel into %d independent episodes.\n\n", n)
	b.WriteString("[Novel Summary]\n")
	b.WriteString(summary)
	b.WriteString("\n\n[Characters]\n")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString("\n\nRules:\n")
	b.WriteString("- Episodes are not narratively connected; only gauges carry across them.\n")
	b.WriteString("- Each episode has its own beginning, development, and endings.\n\n")
	b.WriteString("For each episode define:\n")
	b.WriteString("- id: a lowercase identifier (e.g. \"ep1_encounter\")\n")
	b.WriteString("- title, order (1, 2, 3...), description (2-3 sentences)\n")
	b.WriteString("- theme: the core theme or conflict\n")
	b.WriteString("- key_characters: the main characters involved\n\n")
	b.WriteString("Respond with only this JSON shape:\n")
	b.WriteString(`{"episodes": [{"id": "...", "title": "...", "order": 1, "description": "...", "theme": "...", "key_characters": ["..."]}]}`)
	return b.String()
}

func introPrompt(plan story.EpisodePlan, characters []story.Character, summary string) string {
	names := make([]string, 0, len(characters))
	for _, c := range characters {
		names = append(names, c.Name)
	}
	key := plan.KeyCharacters
	if len(key) == 0 && len(names) > 3 {
		key = names[:3]
	} else if len(key) == 0 {
		key = names
	}

	var b strings.Builder
	b.WriteString("Write the intro for the episode below: the story the player reads before ")
	b.WriteString("meeting the first choice.\n\n")
	b.WriteString("[Novel Background]\n")
	b.WriteString(summary)
	b.WriteString("\n\n[Episode]\n")
	fmt.Fprintf(&b, "- Title: %s\n", plan.Title)
	fmt.Fprintf(&b, "- Description: %s\n", plan.Description)
	fmt.Fprintf(&b, "- Theme: %s\n", plan.Theme)
	fmt.Fprintf(&b, "- Key characters: %s\n", strings.Join(key, ", "))
	b.WriteString("\nRequirements: vivid novelistic prose that sets the scene, shows the characters ")
	b.WriteString("talking and acting, hints at the episode's core conflict, and flows naturally ")
	b.WriteString("into the moment of choice. Write only the intro text, not JSON.")
	return b.String()
}

func episodeEndingsPrompt(plan story.EpisodePlan, gauges []story.GaugeDefinition, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Design %d endings for this episode. Each ending is reached by accumulated ", count)
	b.WriteString("choice tags and affects the gauges.\n\n")
	b.WriteString("[Episode]\n")
	fmt.Fprintf(&b, "- Title: %s\n- Description: %s\n- Theme: %s\n", plan.Title, plan.Description, plan.Theme)
	b.WriteString("\n[Gauge System]\n")
	b.WriteString(formatGauges(gauges))
	b.WriteString("\n\n[Choice tag system]\n")
	b.WriteString("Every choice the player takes accumulates its tags. Available tags: ")
	b.WriteString("cooperative, aggressive, cautious, trusting, doubtful, brave, fearful, rational, emotional\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Gauges change only at endings. Scale deltas to dramatic weight: ±10 small, ±20 moderate, ±30 dramatic.\n")
	b.WriteString("- Conditions are tag-score expressions (e.g. \"cooperative >= 2\", \"trusting > doubtful\").\n")
	b.WriteString("- Exactly one ending must have the condition \"default\" as the catch-all.\n\n")
	b.WriteString("For each ending define:\n")
	b.WriteString("- id: a lowercase identifier\n")
	b.WriteString("- title, condition, text (3-5 sentences)\n")
	b.WriteString("- gauge_changes: gauge deltas, e.g. {\"hope\": 15, \"trust\": 10}\n\n")
	b.WriteString("Respond with only this JSON shape:\n")
	b.WriteString(`{"endings": [{"id": "...", "title": "...", "condition": "...", "text": "...", "gauge_changes": {"hope": 10}}]}`)
	return b.String()
}

func nodeSystemPrompt(req NodeRequest) string {
	ctx := req.Context

	var b strings.Builder
	b.WriteString("You are an interactive fiction writer. Generate story nodes from the context below.\n\n")
	b.WriteString("[Novel Background]\n")
	b.WriteString(ctx.Summary)
	b.WriteString("\n\n[Characters]\n")
	b.WriteString(formatCharacters(ctx.Characters))
	b.WriteString("\n\n[Gauge System]\n")
	b.WriteString(formatGauges(ctx.Gauges))
	b.WriteString("\n\n[Current Gauge State]\n")
	b.WriteString(formatGaugeState(req.Gauges))
	b.WriteString("\n\n[Possible Final Endings]\n")
	b.WriteString(formatFinalEndings(ctx.FinalEndings))
	fmt.Fprintf(&b, "\n\n[Episode]\n- Title: %s\n- Theme: %s\n", ctx.Plan.Title, ctx.Plan.Theme)
	fmt.Fprintf(&b, "\n[Current Node]\n- Depth: %d/%d\n- Type: %s\n", req.Depth, req.MaxDepth, req.Kind)

	if req.Parent != nil {
		b.WriteString("\n[Story So Far]\n")
		b.WriteString(req.Parent.Text)
		b.WriteString("\n\n[Player's Choice]\n")
		if req.Choice != nil {
			b.WriteString(req.Choice.Text)
		} else {
			b.WriteString("(start)")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func nodeUserPrompt(req NodeRequest) string {
	var b strings.Builder
	b.WriteString("Generate the next story node from the context above.\n\n")
	b.WriteString("Requirements:\n")
	b.WriteString("1. text: a vivid scene with character dialogue and action.\n")
	b.WriteString("2. details: npc_emotions (character name to emotion), situation (one-line summary), ")
	b.WriteString("relations_update (relationship changes caused by this scene).\n")

	if req.Kind == story.KindEnding {
		b.WriteString("3. This node leads into the episode ending. Wrap up the scene and leave choices as an empty array.\n\n")
	} else {
		b.WriteString("3. choices: 2-4 options, chosen to fit the situation (2 for tense moments, ")
		b.WriteString("4 for major branch points). Write choice text in first person. Each choice carries ")
		b.WriteString("1-2 tags from: cooperative, aggressive, cautious, trusting, doubtful, brave, fearful, ")
		b.WriteString("rational, emotional — and an immediate_reaction of at least 20 characters describing ")
		b.WriteString("what happens right after the choice.\n\n")
	}

	b.WriteString("Respond with only this JSON shape:\n")
	b.WriteString(`{"text": "...", "details": {"npc_emotions": {"Name": "emotion"}, "situation": "...", "relations_update": {}}, `)
	b.WriteString(`"choices": [{"text": "...", "tags": ["cooperative"], "immediate_reaction": "..."}]}`)
	return b.String()
}

func formatCharacters(characters []story.Character) string {
	if len(characters) == 0 {
		return "(none registered)"
	}
	var b strings.Builder
	for i, c := range characters {
		if i > 0 {
			b.WriteString("\n")
		}
		desc := c.Description
		if len(desc) > 300 {
			desc = desc[:300] + "..."
		}
		rels := c.Relationships
		if len(rels) > 3 {
			rels = rels[:3]
		}
		fmt.Fprintf(&b, "- %s (aliases: %s)\n  description: %s\n  relationships: %s",
			c.Name, strings.Join(c.Aliases, ", "), desc, strings.Join(rels, "; "))
	}
	return b.String()
}

func formatGauges(gauges []story.GaugeDefinition) string {
	if len(gauges) == 0 {
		return "(none registered)"
	}
	var b strings.Builder
	for i, g := range gauges {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s (id: %s): %s | 0 = %s, 100 = %s", g.Name, g.ID, g.Meaning, g.MinLabel, g.MaxLabel)
	}
	return b.String()
}

func formatGaugeState(state story.GaugeState) string {
	if len(state) == 0 {
		return "(none)"
	}
	ids := make([]string, 0, len(state))
	for id := range state {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s=%d", id, state[id]))
	}
	return strings.Join(parts, ", ")
}

func formatFinalEndings(endings []story.FinalEnding) string {
	if len(endings) == 0 {
		return "(none registered)"
	}
	var b strings.Builder
	for i, e := range endings {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- [%s] %s (condition: %s)", e.Type, e.Title, e.Condition)
	}
	return b.String()
}
