package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yoanbernabeu/phrasebot/config"
	"github.com/yoanbernabeu/phrasebot/tracker"
)

var resetAll bool

var resetCmd = &cobra.Command{
	Use:   "reset [chat-id]",
	Short: "Clear counters for one chat or the whole snapshot",
	Long: `Remove a chat's phrase counters and tracking state from the
persisted snapshot, or clear everything with --all.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVar(&resetAll, "all", false, "Clear every chat")
}

func runReset(cmd *cobra.Command, args []string) error {
	if resetAll == (len(args) == 1) {
		return fmt.Errorf("specify either a chat id or --all")
	}

	projectRoot, err := config.FindProjectRoot()
	if err != nil {
		return err
	}
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store := tracker.NewStore(cfg.StatePath(projectRoot))
	if err := store.Load(); err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if resetAll {
		if err := store.ResetAll(); err != nil {
			return err
		}
		fmt.Println("Cleared all chats.")
		return nil
	}

	if err := store.ResetChat(args[0]); err != nil {
		return err
	}
	fmt.Printf("Cleared chat %s.\n", args[0])
	return nil
}
