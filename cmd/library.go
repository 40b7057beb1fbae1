package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/inkwell-labs/gamebook/internal/snapshot"
	"github.com/inkwell-labs/gamebook/internal/store"
)

var libraryFile string

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the local story library",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored stories",
	Args:  cobra.NoArgs,
	RunE:  runLibraryList,
}

var libraryShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Write a stored story to a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryShow,
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a stored story",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryDelete,
}

var libraryShowOut string

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryListCmd, libraryShowCmd, libraryDeleteCmd)
	libraryCmd.PersistentFlags().StringVar(&libraryFile, "db", "", "Library database file (default: ~/.gamebook/library.db)")
	libraryShowCmd.Flags().StringVar(&libraryShowOut, "out", "story.json", "Output story file")
}

// libraryPath resolves the library database location, creating its
// directory on first use.
func libraryPath() string {
	if libraryFile != "" {
		return libraryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "library.db"
	}
	dir := filepath.Join(home, ".gamebook")
	_ = os.MkdirAll(dir, 0o755)
	return filepath.Join(dir, "library.db")
}

func openLibrary() (*store.Store, error) {
	return store.Open(libraryPath())
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}
	defer lib.Close()

	entries, err := lib.ListStories(context.Background())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("Library is empty")
		return nil
	}

	// LipGloss signature purple/pink palette
	var (
		headerColor = lipgloss.Color("#F780FF")
		idColor     = lipgloss.Color("#BD93F9")
		numberColor = lipgloss.Color("#FF79C6")
		textColor   = lipgloss.Color("#E9E9F4")
		borderColor = lipgloss.Color("#6272A4")
	)

	const (
		idWidth    = 10
		titleWidth = 28
		epWidth    = 10
		nodeWidth  = 8
		dateWidth  = 21
	)

	headerStyle := lipgloss.NewStyle().Foreground(headerColor).Bold(true).Padding(0, 1)
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)

	headers := []string{
		headerStyle.Width(idWidth).Render("ID"),
		headerStyle.Width(titleWidth).Render("TITLE"),
		headerStyle.Width(epWidth).Render("EPISODES"),
		headerStyle.Width(nodeWidth).Render("NODES"),
		headerStyle.Width(dateWidth).Render("CREATED"),
	}
	fmt.Println(strings.Join(headers, borderStyle.Render("│")))

	separatorParts := []string{
		strings.Repeat("─", idWidth),
		strings.Repeat("─", titleWidth),
		strings.Repeat("─", epWidth),
		strings.Repeat("─", nodeWidth),
		strings.Repeat("─", dateWidth),
	}
	fmt.Println(borderStyle.Render(strings.Join(separatorParts, "┼")))

	idStyle := lipgloss.NewStyle().Foreground(idColor).Padding(0, 1)
	numberStyle := lipgloss.NewStyle().Foreground(numberColor).Padding(0, 1)
	textStyle := lipgloss.NewStyle().Foreground(textColor).Padding(0, 1)

	for _, e := range entries {
		title := e.Title
		if len(title) > titleWidth-2 {
			title = title[:titleWidth-5] + "..."
		}
		row := []string{
			idStyle.Width(idWidth).Render(e.ID),
			textStyle.Width(titleWidth).Render(title),
			numberStyle.Width(epWidth).Render(fmt.Sprintf("%d", e.Episodes)),
			numberStyle.Width(nodeWidth).Render(fmt.Sprintf("%d", e.Nodes)),
			textStyle.Width(dateWidth).Render(e.CreatedAt.Format("2006-01-02 15:04")),
		}
		fmt.Println(strings.Join(row, borderStyle.Render("│")))
	}
	return nil
}

func runLibraryShow(cmd *cobra.Command, args []string) error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}
	defer lib.Close()

	s, err := lib.GetStory(context.Background(), args[0])
	if err != nil {
		return err
	}

	if err := snapshot.Save(libraryShowOut, s); err != nil {
		return err
	}
	fmt.Printf("✓ Wrote story %s to %s\n", args[0], libraryShowOut)
	return nil
}

func runLibraryDelete(cmd *cobra.Command, args []string) error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}
	defer lib.Close()

	if err := lib.DeleteStory(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted story %s\n", args[0])
	return nil
}
