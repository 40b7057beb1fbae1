package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/inkwell-labs/gamebook/internal/director"
	"github.com/inkwell-labs/gamebook/internal/provider"
	"github.com/inkwell-labs/gamebook/internal/snapshot"
	"github.com/inkwell-labs/gamebook/internal/store"
)

var (
	buildOut         string
	buildEpisodes    int
	buildDepth       int
	buildEndings     int
	buildConcurrency int
	buildTimeout     time.Duration
	buildStrict      bool
	buildGauges      string
	buildModel       string
	buildTitle       string
	buildSave        bool
)

var buildCmd = &cobra.Command{
	Use:   "build [novel file]",
	Short: "Generate a branching story from a novel",
	Long: `Build reads a novel text file and generates a complete branching story:
summary, characters, gauges, final endings, and one choice tree per episode.

Examples:
  gamebook build novel.txt
  gamebook build novel.txt --gauges hope,order --depth 3 --episodes 4
  gamebook build novel.txt --out story.json --save --title "Lord of the Flies"`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildOut, "out", "story.json", "Output story file")
	buildCmd.Flags().IntVar(&buildEpisodes, "episodes", 4, "Number of episodes to generate")
	buildCmd.Flags().IntVar(&buildDepth, "depth", 3, "Maximum tree depth (2-5)")
	buildCmd.Flags().IntVar(&buildEndings, "endings", 3, "Endings per episode")
	buildCmd.Flags().IntVar(&buildConcurrency, "concurrency", 8, "Concurrent generation calls per round")
	buildCmd.Flags().DurationVar(&buildTimeout, "timeout", 90*time.Second, "Timeout per generation call")
	buildCmd.Flags().BoolVar(&buildStrict, "strict", false, "Abort on invalid generation output instead of degrading")
	buildCmd.Flags().StringVar(&buildGauges, "gauges", "", "Comma-separated gauge IDs to track (default: first two proposals)")
	buildCmd.Flags().StringVar(&buildModel, "model", "", "Model to use (default from config)")
	buildCmd.Flags().StringVar(&buildTitle, "title", "", "Story title for the library (default: output file name)")
	buildCmd.Flags().BoolVar(&buildSave, "save", false, "Also save the story to the local library")
	buildCmd.Flags().StringVar(&libraryFile, "db", "", "Library database file (default: ~/.gamebook/library.db)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	novel, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading novel: %w", err)
	}

	d, err := newDirector()
	if err != nil {
		return err
	}

	var gaugeIDs []string
	if buildGauges != "" {
		for _, id := range strings.Split(buildGauges, ",") {
			gaugeIDs = append(gaugeIDs, strings.TrimSpace(id))
		}
	}

	fmt.Printf("Building story from %s (%d episodes, depth %d)...\n", args[0], buildEpisodes, buildDepth)

	s, err := d.BuildStory(context.Background(), string(novel), gaugeIDs)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if err := snapshot.Save(buildOut, s); err != nil {
		return err
	}
	episodeTable(s)
	fmt.Printf("\n✓ Wrote %d episodes, %d nodes to %s\n",
		s.Metadata.TotalEpisodes, s.Metadata.TotalNodes, buildOut)

	if buildSave {
		title := buildTitle
		if title == "" {
			title = buildOut
		}
		lib, err := store.Open(libraryPath())
		if err != nil {
			return err
		}
		defer lib.Close()

		id, err := lib.SaveStory(context.Background(), "", title, s)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Saved to library as %s\n", id)
	}
	return nil
}

func episodeTable(s *snapshot.Story) {
	// LipGloss signature purple/pink palette
	var (
		headerColor = lipgloss.Color("#F780FF")
		idColor     = lipgloss.Color("#BD93F9")
		numberColor = lipgloss.Color("#FF79C6")
		textColor   = lipgloss.Color("#E9E9F4")
		borderColor = lipgloss.Color("#6272A4")
	)

	const (
		idWidth     = 10
		titleWidth  = 30
		nodeWidth   = 8
		endingWidth = 9
	)

	headerStyle := lipgloss.NewStyle().Foreground(headerColor).Bold(true).Padding(0, 1)
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)

	headers := []string{
		headerStyle.Width(idWidth).Render("EPISODE"),
		headerStyle.Width(titleWidth).Render("TITLE"),
		headerStyle.Width(nodeWidth).Render("NODES"),
		headerStyle.Width(endingWidth).Render("ENDINGS"),
	}
	fmt.Println(strings.Join(headers, borderStyle.Render("│")))

	separatorParts := []string{
		strings.Repeat("─", idWidth),
		strings.Repeat("─", titleWidth),
		strings.Repeat("─", nodeWidth),
		strings.Repeat("─", endingWidth),
	}
	fmt.Println(borderStyle.Render(strings.Join(separatorParts, "┼")))

	idStyle := lipgloss.NewStyle().Foreground(idColor).Padding(0, 1)
	numberStyle := lipgloss.NewStyle().Foreground(numberColor).Padding(0, 1)
	textStyle := lipgloss.NewStyle().Foreground(textColor).Padding(0, 1)

	for _, ep := range s.Episodes {
		title := ep.Title
		if len(title) > titleWidth-2 {
			title = title[:titleWidth-5] + "..."
		}
		row := []string{
			idStyle.Width(idWidth).Render(ep.ID),
			textStyle.Width(titleWidth).Render(title),
			numberStyle.Width(nodeWidth).Render(fmt.Sprintf("%d", len(ep.Nodes))),
			numberStyle.Width(endingWidth).Render(fmt.Sprintf("%d", len(ep.Endings))),
		}
		fmt.Println(strings.Join(row, borderStyle.Render("│")))
	}
}

// newDirector wires the OpenAI-backed provider into a director using the
// build flags.
func newDirector() (*director.Director, error) {
	cfg := provider.DefaultLLMConfig()
	if buildModel != "" {
		cfg.Model = buildModel
	}

	llm, err := provider.NewOpenAILLM(cfg)
	if err != nil {
		return nil, err
	}

	return director.New(provider.New(llm, cfg), director.Config{
		Episodes:       buildEpisodes,
		MaxDepth:       buildDepth,
		EpisodeEndings: buildEndings,
		Concurrency:    buildConcurrency,
		CallTimeout:    buildTimeout,
		Strict:         buildStrict,
	}), nil
}
