package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkwell-labs/gamebook/internal/export"
	"github.com/inkwell-labs/gamebook/internal/snapshot"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export [story file]",
	Short: "Export a story to another format",
	Long: `Export renders a built story as markdown, html, or the flat "engine" JSON
layout consumed by external game runtimes.

Examples:
  gamebook export story.json --format markdown --out story.md
  gamebook export story.json --format engine --out story.engine.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "markdown", "Export format: markdown, html, or engine")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := snapshot.Load(args[0])
	if err != nil {
		return err
	}

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := export.Export(s, exportFormat, out); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if exportOut != "" {
		fmt.Printf("✓ Exported %s story to %s\n", exportFormat, exportOut)
	}
	return nil
}
