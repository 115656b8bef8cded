// Package cli implements the phrasebot command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "phrasebot",
	Short: "Telegram bot that counts phrase occurrences per chat",
	Long: `phrasebot is a Telegram bot that counts how often user-defined
phrases appear in a chat's messages.

Phrases are registered per chat with /add and matched as plain
case-insensitive substrings. Counts are persisted to
.phrasebot/state.json after every change, so they survive restarts.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// GetRootCmd returns the root command (used by gendocs).
func GetRootCmd() *cobra.Command {
	return rootCmd
}
