package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkwell-labs/gamebook/internal/story"
)

// Provider exposes the typed story-generation operations on top of an
// injected LLM. It holds no global state; construct one per build and
// share it freely: all methods are safe for concurrent use.
type Provider struct {
	llm    LLM
	config LLMConfig
}

// New creates a provider backed by the given LLM.
func New(llm LLM, config LLMConfig) *Provider {
	return &Provider{llm: llm, config: config}
}

// Model returns the configured model identifier.
func (p *Provider) Model() string {
	return p.config.Model
}

// Summarize produces a novel summary. Long texts are summarized in
// chunks and then combined.
func (p *Provider) Summarize(ctx context.Context, novelText string) (string, error) {
	runes := []rune(novelText)
	if len(runes) <= summaryChunkSize {
		out, err := p.llm.Generate(ctx, "", summaryPrompt(novelText))
		if err != nil {
			return "", fmt.Errorf("%w: summary: %w", ErrGeneration, err)
		}
		return strings.TrimSpace(out), nil
	}

	var chunkSummaries []string
	for i := 0; i < len(runes); i += summaryChunkSize {
		end := i + summaryChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out, err := p.llm.Generate(ctx, "", chunkSummaryPrompt(len(chunkSummaries), string(runes[i:end])))
		if err != nil {
			return "", fmt.Errorf("%w: summary chunk %d: %w", ErrGeneration, len(chunkSummaries)+1, err)
		}
		chunkSummaries = append(chunkSummaries, fmt.Sprintf("[Part %d] %s", len(chunkSummaries)+1, strings.TrimSpace(out)))
	}

	out, err := p.llm.Generate(ctx, "", combinedSummaryPrompt(chunkSummaries))
	if err != nil {
		return "", fmt.Errorf("%w: combined summary: %w", ErrGeneration, err)
	}
	return strings.TrimSpace(out), nil
}

// ExtractCharacters pulls the main characters out of the novel text.
func (p *Provider) ExtractCharacters(ctx context.Context, novelText string) ([]story.Character, error) {
	out, err := p.llm.Generate(ctx, "", charactersPrompt(novelText))
	if err != nil {
		return nil, fmt.Errorf("%w: characters: %w", ErrGeneration, err)
	}

	var resp struct {
		Characters []story.Character `json:"characters"`
	}
	if err := decodeInto(out, &resp); err != nil {
		return nil, fmt.Errorf("characters: %w", err)
	}
	if len(resp.Characters) == 0 {
		return nil, fmt.Errorf("%w: no characters extracted", ErrGeneration)
	}
	return resp.Characters, nil
}

// SuggestGauges proposes gauge definitions fitting the novel summary.
func (p *Provider) SuggestGauges(ctx context.Context, summary string) ([]story.GaugeDefinition, error) {
	out, err := p.llm.Generate(ctx, "", gaugesPrompt(summary))
	if err != nil {
		return nil, fmt.Errorf("%w: gauges: %w", ErrGeneration, err)
	}

	var resp struct {
		Gauges []story.GaugeDefinition `json:"gauges"`
	}
	if err := decodeInto(out, &resp); err != nil {
		return nil, fmt.Errorf("gauges: %w", err)
	}
	if len(resp.Gauges) == 0 {
		return nil, fmt.Errorf("%w: no gauges proposed", ErrGeneration)
	}
	return resp.Gauges, nil
}

// DesignFinalEndings designs the global endings, countsByType mapping
// ending types (happy, tragic, ...) to how many of each to produce.
func (p *Provider) DesignFinalEndings(ctx context.Context, summary string, gauges []story.GaugeDefinition, countsByType map[string]int) ([]story.FinalEnding, error) {
	if len(countsByType) == 0 {
		countsByType = map[string]int{"happy": 2, "tragic": 1, "neutral": 1, "open": 1}
	}

	out, err := p.llm.Generate(ctx, "", finalEndingsPrompt(summary, gauges, countsByType))
	if err != nil {
		return nil, fmt.Errorf("%w: final endings: %w", ErrGeneration, err)
	}

	var resp struct {
		Endings []story.FinalEnding `json:"endings"`
	}
	if err := decodeInto(out, &resp); err != nil {
		return nil, fmt.Errorf("final endings: %w", err)
	}
	if err := validateFinalEndings(resp.Endings); err != nil {
		return nil, fmt.Errorf("final endings: %w", err)
	}
	return resp.Endings, nil
}

// SplitEpisodes divides the novel into n independent episode plans.
func (p *Provider) SplitEpisodes(ctx context.Context, summary string, characters []story.Character, n int) ([]story.EpisodePlan, error) {
	out, err := p.llm.Generate(ctx, "", splitEpisodesPrompt(summary, characters, n))
	if err != nil {
		return nil, fmt.Errorf("%w: episode split: %w", ErrGeneration, err)
	}

	var resp struct {
		Episodes []story.EpisodePlan `json:"episodes"`
	}
	if err := decodeInto(out, &resp); err != nil {
		return nil, fmt.Errorf("episode split: %w", err)
	}
	if len(resp.Episodes) == 0 {
		return nil, fmt.Errorf("%w: no episodes planned", ErrGeneration)
	}
	return resp.Episodes, nil
}

// GenerateIntro writes the episode's intro text, read before the first
// choice.
func (p *Provider) GenerateIntro(ctx context.Context, plan story.EpisodePlan, characters []story.Character, summary string) (string, error) {
	out, err := p.llm.Generate(ctx, "", introPrompt(plan, characters, summary))
	if err != nil {
		return "", fmt.Errorf("%w: intro: %w", ErrGeneration, err)
	}
	intro := strings.TrimSpace(out)
	if intro == "" {
		return "", fmt.Errorf("%w: empty intro", ErrGeneration)
	}
	return intro, nil
}

// DesignEpisodeEndings designs count tag-conditioned endings for the
// episode.
func (p *Provider) DesignEpisodeEndings(ctx context.Context, plan story.EpisodePlan, gauges []story.GaugeDefinition, count int) ([]story.EpisodeEnding, error) {
	out, err := p.llm.Generate(ctx, "", episodeEndingsPrompt(plan, gauges, count))
	if err != nil {
		return nil, fmt.Errorf("%w: episode endings: %w", ErrGeneration, err)
	}

	var resp struct {
		Endings []story.EpisodeEnding `json:"endings"`
	}
	if err := decodeInto(out, &resp); err != nil {
		return nil, fmt.Errorf("episode endings: %w", err)
	}
	if err := validateEpisodeEndings(resp.Endings); err != nil {
		return nil, fmt.Errorf("episode endings: %w", err)
	}
	return resp.Endings, nil
}

// GenerateNode produces one structured story node. The payload is
// validated against the node/choice contract before it is returned;
// ending payloads get their choices forced empty regardless of what the
// model produced.
func (p *Provider) GenerateNode(ctx context.Context, req NodeRequest) (*NodePayload, error) {
	out, err := p.llm.Generate(ctx, nodeSystemPrompt(req), nodeUserPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("%w: node at depth %d: %w", ErrGeneration, req.Depth, err)
	}

	var payload NodePayload
	if err := decodeInto(out, &payload); err != nil {
		return nil, fmt.Errorf("node at depth %d: %w", req.Depth, err)
	}
	if err := ValidateNodePayload(&payload, req.Kind); err != nil {
		return nil, fmt.Errorf("node at depth %d: %w", req.Depth, err)
	}
	if req.Kind == story.KindEnding {
		payload.Choices = nil
	}
	return &payload, nil
}
