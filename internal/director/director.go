// Package director orchestrates story builds: it analyzes a novel through
// the content provider, designs gauges and endings, and grows one
// branching tree per episode with round-based, depth-synchronous fan-out.
package director

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inkwell-labs/gamebook/internal/provider"
	"github.com/inkwell-labs/gamebook/internal/snapshot"
	"github.com/inkwell-labs/gamebook/internal/story"
)

var (
	ErrNotEnoughGauges = errors.New("at least two gauges must be selected")
	ErrBadConfig       = errors.New("invalid build configuration")
)

// ContentSource is the generative capability the director consumes. It is
// satisfied by *provider.Provider and by test doubles; the director never
// constructs a client itself.
type ContentSource interface {
	Summarize(ctx context.Context, novelText string) (string, error)
	ExtractCharacters(ctx context.Context, novelText string) ([]story.Character, error)
	SuggestGauges(ctx context.Context, summary string) ([]story.GaugeDefinition, error)
	DesignFinalEndings(ctx context.Context, summary string, gauges []story.GaugeDefinition, countsByType map[string]int) ([]story.FinalEnding, error)
	SplitEpisodes(ctx context.Context, summary string, characters []story.Character, n int) ([]story.EpisodePlan, error)
	GenerateIntro(ctx context.Context, plan story.EpisodePlan, characters []story.Character, summary string) (string, error)
	DesignEpisodeEndings(ctx context.Context, plan story.EpisodePlan, gauges []story.GaugeDefinition, count int) ([]story.EpisodeEnding, error)
	GenerateNode(ctx context.Context, req provider.NodeRequest) (*provider.NodePayload, error)
	Model() string
}

// Config holds the tunables of one build.
type Config struct {
	// Episodes is how many independent episodes to generate.
	Episodes int

	// MaxDepth bounds each episode tree. Total node count grows with
	// fan-out^depth, so the practical range is 2-5.
	MaxDepth int

	// EpisodeEndings is how many endings to design per episode.
	EpisodeEndings int

	// FinalEndingCounts maps ending types to how many of each to design.
	// Empty means the provider's default mix.
	FinalEndingCounts map[string]int

	// Concurrency bounds in-flight generation calls within one depth
	// round.
	Concurrency int

	// CallTimeout bounds each individual provider call.
	CallTimeout time.Duration

	// Strict makes structurally invalid provider payloads abort the
	// build instead of degrading into terminal error nodes.
	Strict bool
}

// DefaultConfig returns the standard build configuration.
func DefaultConfig() Config {
	return Config{
		Episodes:       4,
		MaxDepth:       3,
		EpisodeEndings: 3,
		Concurrency:    8,
		CallTimeout:    90 * time.Second,
	}
}

func (c Config) validate() error {
	if c.Episodes < 1 {
		return fmt.Errorf("%w: episodes must be at least 1", ErrBadConfig)
	}
	if c.MaxDepth < 2 || c.MaxDepth > 5 {
		return fmt.Errorf("%w: max depth %d outside supported range 2-5", ErrBadConfig, c.MaxDepth)
	}
	if c.EpisodeEndings < 1 {
		return fmt.Errorf("%w: at least one episode ending required", ErrBadConfig)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1", ErrBadConfig)
	}
	return nil
}

// Director runs story builds against an injected content source.
type Director struct {
	src ContentSource
	cfg Config
}

// New creates a director. The source is required; zero-value config
// fields fall back to defaults.
func New(src ContentSource, cfg Config) *Director {
	def := DefaultConfig()
	if cfg.Episodes == 0 {
		cfg.Episodes = def.Episodes
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.EpisodeEndings == 0 {
		cfg.EpisodeEndings = def.EpisodeEndings
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.CallTimeout == 0 {
		cfg.CallTimeout = def.CallTimeout
	}
	return &Director{src: src, cfg: cfg}
}

// Analysis is the novel-level analysis that precedes a build. The caller
// selects at least two of the proposed gauges before building.
type Analysis struct {
	Summary        string
	Characters     []story.Character
	GaugeProposals []story.GaugeDefinition
}

// Analyze summarizes the novel, extracts its characters, and proposes
// gauges.
func (d *Director) Analyze(ctx context.Context, novelText string) (*Analysis, error) {
	summary, err := d.src.Summarize(ctx, novelText)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	characters, err := d.src.ExtractCharacters(ctx, novelText)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	gauges, err := d.src.SuggestGauges(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	return &Analysis{
		Summary:        summary,
		Characters:     characters,
		GaugeProposals: gauges,
	}, nil
}

// SelectGauges filters the proposals down to the requested IDs, padding
// from the proposal order until at least two gauges are selected.
func SelectGauges(proposals []story.GaugeDefinition, ids []string) ([]story.GaugeDefinition, error) {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	var selected []story.GaugeDefinition
	for _, g := range proposals {
		if _, ok := wanted[g.ID]; ok {
			selected = append(selected, g)
		}
	}

	for _, g := range proposals {
		if len(selected) >= 2 {
			break
		}
		already := false
		for _, s := range selected {
			if s.ID == g.ID {
				already = true
				break
			}
		}
		if !already {
			selected = append(selected, g)
		}
	}

	if len(selected) < 2 {
		return nil, ErrNotEnoughGauges
	}
	return selected, nil
}

// BuildStory runs the full pipeline: analysis, gauge selection, final
// endings, episode split, then one intro + ending set + tree per episode.
// The gauge baseline is created once from the selected definitions and
// stays read-only for the entire build.
func (d *Director) BuildStory(ctx context.Context, novelText string, gaugeIDs []string) (*snapshot.Story, error) {
	if err := d.cfg.validate(); err != nil {
		return nil, err
	}

	analysis, err := d.Analyze(ctx, novelText)
	if err != nil {
		return nil, err
	}

	gauges, err := SelectGauges(analysis.GaugeProposals, gaugeIDs)
	if err != nil {
		return nil, err
	}

	finalEndings, err := d.src.DesignFinalEndings(ctx, analysis.Summary, gauges, d.cfg.FinalEndingCounts)
	if err != nil {
		return nil, fmt.Errorf("final endings: %w", err)
	}

	plans, err := d.src.SplitEpisodes(ctx, analysis.Summary, analysis.Characters, d.cfg.Episodes)
	if err != nil {
		return nil, fmt.Errorf("episode split: %w", err)
	}

	baseline := story.NewGaugeState(gauges)

	episodes := make([]story.Episode, 0, len(plans))
	for i, plan := range plans {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build cancelled before episode %d: %w", i+1, err)
		}

		ep, err := d.buildEpisode(ctx, plan, analysis, gauges, finalEndings, baseline)
		if err != nil {
			return nil, fmt.Errorf("episode %q: %w", plan.ID, err)
		}
		episodes = append(episodes, *ep)
	}

	return snapshot.New(snapshot.Context{
		NovelSummary: analysis.Summary,
		Characters:   analysis.Characters,
		Gauges:       gauges,
		FinalEndings: finalEndings,
	}, episodes, d.src.Model()), nil
}

// buildEpisode generates one episode: intro, endings, then the tree.
func (d *Director) buildEpisode(
	ctx context.Context,
	plan story.EpisodePlan,
	analysis *Analysis,
	gauges []story.GaugeDefinition,
	finalEndings []story.FinalEnding,
	baseline story.GaugeState,
) (*story.Episode, error) {
	if plan.ID == "" {
		plan.ID = fmt.Sprintf("ep%d", plan.Order)
	}

	intro, err := d.src.GenerateIntro(ctx, plan, analysis.Characters, analysis.Summary)
	if err != nil {
		return nil, fmt.Errorf("intro: %w", err)
	}

	endings, err := d.src.DesignEpisodeEndings(ctx, plan, gauges, d.cfg.EpisodeEndings)
	if err != nil {
		return nil, fmt.Errorf("endings: %w", err)
	}

	epCtx := story.EpisodeContext{
		Summary:      analysis.Summary,
		Characters:   analysis.Characters,
		Gauges:       gauges,
		FinalEndings: finalEndings,
		Plan:         plan,
		IntroText:    intro,
	}

	tree, err := d.BuildTree(ctx, epCtx, baseline)
	if err != nil {
		return nil, fmt.Errorf("tree: %w", err)
	}

	return &story.Episode{
		ID:          plan.ID,
		Title:       plan.Title,
		Order:       plan.Order,
		Description: plan.Description,
		Theme:       plan.Theme,
		IntroText:   intro,
		Nodes:       tree.Nodes(),
		Endings:     endings,
	}, nil
}
