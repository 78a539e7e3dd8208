package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/dealcast/internal/config"
	"github.com/theirongolddev/dealcast/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Choose the default action, period and theme",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Edit the file's contents, not the environment-adjusted view.
	fileCfg := cfg
	if !config.Exists() {
		fileCfg = config.DefaultConfig()
	}

	vals := tui.NewSetupValues(fileCfg)
	if err := tui.NewSetupForm(vals, 0).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled; nothing saved.")
			return nil
		}
		return err
	}
	vals.Apply(&fileCfg)

	if err := config.Save(fileCfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `dealcast setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
