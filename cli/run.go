package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yoanbernabeu/phrasebot/bot"
	"github.com/yoanbernabeu/phrasebot/config"
	"github.com/yoanbernabeu/phrasebot/counter"
	"github.com/yoanbernabeu/phrasebot/tracker"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Telegram bot",
	Long: `Start long polling the Telegram Bot API and serve commands and
message counting until interrupted.

Counting only happens in chats where /track was issued. Every change
to the counters is flushed to .phrasebot/state.json, and a final flush
runs on shutdown.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	// A local .env is optional; the environment wins over the config file.
	_ = godotenv.Load()

	projectRoot, err := config.FindProjectRoot()
	if err != nil {
		return err
	}
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("no bot token: set telegram.token in %s or export %s",
			config.ConfigPath(projectRoot), config.TokenEnv)
	}

	store := tracker.NewStore(cfg.StatePath(projectRoot))
	if err := store.Load(); err != nil {
		// Unreadable snapshot: degrade to first-run state rather than crash.
		fmt.Fprintf(os.Stderr, "warning: %v; starting with empty state\n", err)
	}

	engine := counter.NewEngine(store)
	b, err := bot.New(cfg, bot.NewRouter(store, engine))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.Start(ctx)
	})

	log.Printf("phrasebot running (state: %s)", store.Path())
	if err := g.Wait(); err != nil {
		return err
	}

	// One last flush so shutdown never loses applied counts.
	if err := store.Flush(); err != nil {
		return fmt.Errorf("final flush: %w", err)
	}
	log.Println("phrasebot stopped")
	return nil
}
