package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gamebook",
	Short: "Gamebook - branching story generator",
	Long: `Gamebook turns a novel into an interactive branching story.

It analyzes the source text, designs gauges and endings, generates one
bounded-depth choice tree per episode, and writes the result as a JSON
story that can be validated, simulated, exported, and kept in a local
library.`,
}

// Execute runs the root command
func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
