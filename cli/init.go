package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yoanbernabeu/phrasebot/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the .phrasebot directory with a default configuration",
	Long: `Create a .phrasebot directory in the current working directory,
holding the configuration file and, once the bot runs, the persisted
phrase counters.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	path := config.ConfigPath(cwd)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(cwd, config.Default()); err != nil {
		return err
	}

	fmt.Printf("Created %s\n", path)
	fmt.Printf("Set your bot token there or export %s, then run 'phrasebot run'.\n", config.TokenEnv)
	return nil
}
