package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/inkwell-labs/gamebook/internal/story"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [novel file]",
	Short: "Analyze a novel and list proposed gauges",
	Long: `Analyze reads a novel, extracts its characters, and proposes the gauges
a build could track. Use it to pick --gauges values before running build.

Examples:
  gamebook analyze novel.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&buildModel, "model", "", "Model to use (default from config)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	novel, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading novel: %w", err)
	}

	d, err := newDirector()
	if err != nil {
		return err
	}

	analysis, err := d.Analyze(context.Background(), string(novel))
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Println(analysis.Summary)
	fmt.Println()
	fmt.Printf("Characters: %s\n\n", characterNames(analysis.Characters))

	return gaugeTable(analysis.GaugeProposals)
}

func characterNames(chars []story.Character) string {
	names := make([]string, len(chars))
	for i, c := range chars {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}

func gaugeTable(gauges []story.GaugeDefinition) error {
	// LipGloss signature purple/pink palette
	var (
		headerColor = lipgloss.Color("#F780FF") // Bright pink/magenta
		idColor     = lipgloss.Color("#BD93F9") // Purple
		numberColor = lipgloss.Color("#FF79C6") // Pink
		textColor   = lipgloss.Color("#E9E9F4") // Light purple/white
		borderColor = lipgloss.Color("#6272A4") // Muted purple
	)

	const (
		idWidth      = 14
		nameWidth    = 18
		initialWidth = 9
		meaningWidth = 44
	)

	headerStyle := lipgloss.NewStyle().
		Foreground(headerColor).
		Bold(true).
		Padding(0, 1)

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)

	headers := []string{
		headerStyle.Width(idWidth).Render("GAUGE"),
		headerStyle.Width(nameWidth).Render("NAME"),
		headerStyle.Width(initialWidth).Render("INITIAL"),
		headerStyle.Width(meaningWidth).Render("MEANING"),
	}
	fmt.Println(strings.Join(headers, borderStyle.Render("│")))

	separatorParts := []string{
		strings.Repeat("─", idWidth),
		strings.Repeat("─", nameWidth),
		strings.Repeat("─", initialWidth),
		strings.Repeat("─", meaningWidth),
	}
	fmt.Println(borderStyle.Render(strings.Join(separatorParts, "┼")))

	idStyle := lipgloss.NewStyle().Foreground(idColor).Padding(0, 1)
	numberStyle := lipgloss.NewStyle().Foreground(numberColor).Padding(0, 1)
	textStyle := lipgloss.NewStyle().Foreground(textColor).Padding(0, 1)

	initial := story.NewGaugeState(gauges)
	for _, g := range gauges {
		meaning := g.Meaning
		if len(meaning) > meaningWidth-2 {
			meaning = meaning[:meaningWidth-5] + "..."
		}
		row := []string{
			idStyle.Width(idWidth).Render(g.ID),
			textStyle.Width(nameWidth).Render(g.Name),
			numberStyle.Width(initialWidth).Render(fmt.Sprintf("%d", initial.Get(g.ID))),
			textStyle.Width(meaningWidth).Render(meaning),
		}
		fmt.Println(strings.Join(row, borderStyle.Render("│")))
	}
	return nil
}
