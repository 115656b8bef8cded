package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alpkeskin/gotoon"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yoanbernabeu/phrasebot/config"
	"github.com/yoanbernabeu/phrasebot/tracker"
)

var (
	statsJSON bool
	statsTOON bool
	statsChat string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show phrase counts from the persisted snapshot",
	Long: `Display per-chat phrase counters from .phrasebot/state.json.

Counts are shown highest first, ties in the order the phrases were
registered. Chats where counting is currently enabled are marked as
tracked.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVarP(&statsJSON, "json", "j", false, "Output results in JSON format")
	statsCmd.Flags().BoolVarP(&statsTOON, "toon", "t", false, "Output results in TOON format (token-efficient for AI agents)")
	statsCmd.Flags().StringVar(&statsChat, "chat", "", "Only show the given chat id")
	statsCmd.MarkFlagsMutuallyExclusive("json", "toon")
}

// ChatReport is the machine-readable form of one chat's counters.
type ChatReport struct {
	ChatID  string                `json:"chat_id"`
	Tracked bool                  `json:"tracked"`
	Phrases []tracker.PhraseCount `json:"phrases"`
}

func runStats(cmd *cobra.Command, args []string) error {
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

	reports := collectReports(store, statsChat)
	if len(reports) == 0 {
		fmt.Println("No phrases recorded yet.")
		fmt.Println("Use /add and /track in a chat to start counting.")
		return nil
	}

	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	if statsTOON {
		output, err := gotoon.Encode(reports)
		if err != nil {
			return fmt.Errorf("encode TOON: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	outputStatsHuman(reports)
	return nil
}

// collectReports builds one report per chat, optionally filtered to a
// single chat id.
func collectReports(store *tracker.Store, onlyChat string) []ChatReport {
	if onlyChat != "" {
		onlyChat = tracker.CanonicalChatID(onlyChat)
	}
	var reports []ChatReport
	for _, chatID := range store.Chats() {
		if onlyChat != "" && chatID != onlyChat {
			continue
		}
		reports = append(reports, ChatReport{
			ChatID:  chatID,
			Tracked: store.Tracked(chatID),
			Phrases: store.Stats(chatID),
		})
	}
	return reports
}

// outputStatsHuman renders the reports using lipgloss styles.
func outputStatsHuman(reports []ChatReport) {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(28)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2)

	content := headerStyle.Render("phrasebot stats — Phrase Counts") + "\n"

	for _, report := range reports {
		content += "\n" + headerStyle.Render("Chat "+report.ChatID)
		if report.Tracked {
			content += dimStyle.Render("  (tracked)")
		} else {
			content += dimStyle.Render("  (not tracked)")
		}
		content += "\n"

		if len(report.Phrases) == 0 {
			content += dimStyle.Render("no phrases registered") + "\n"
			continue
		}
		for _, pc := range report.Phrases {
			content += labelStyle.Render(pc.Phrase) +
				valueStyle.Render(fmt.Sprintf("%d", pc.Count)) + "\n"
		}
	}

	fmt.Println(boxStyle.Render(content))
}
