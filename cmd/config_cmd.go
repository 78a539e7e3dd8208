package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/dealcast/internal/cli"
	"github.com/theirongolddev/dealcast/internal/config"

	"github.com/spf13/cobra"
)

var (
	flagConfigForget    bool
	flagConfigForgetKey []string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigForget, "forget", false, "Forget every remembered deal action")
	configCmd.Flags().StringArrayVar(&flagConfigForgetKey, "forget-key", nil, "Forget the remembered action for one deal key (repeatable)")
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	if flagConfigForget || len(flagConfigForgetKey) > 0 {
		return forgetChoices()
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Printf("  Environment prefix: %s_\n", config.EnvPrefix)
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default action: %s\n", cfg.General.DefaultAction)
	period := cfg.General.DefaultPeriod
	if period == "" {
		period = "first offered"
	}
	fmt.Printf("    Default period: %s\n", period)
	if cfg.General.Sheet != "" {
		fmt.Printf("    Sheet:          %s\n", cfg.General.Sheet)
	}
	fmt.Printf("    Log level:      %s\n", cfg.General.LogLevel)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:      %s\n", cfg.Server.Addr)
	fmt.Printf("    Upload TTL:   %s\n", cfg.Server.SessionTTL())
	fmt.Printf("    Upload limit: %d MB\n", cfg.Server.MaxUploadBytes()>>20)
	fmt.Println()

	fmt.Println("  [Stages]")
	for _, sp := range config.StageTable() {
		fmt.Printf("    %-6s %s\n", cli.FormatPercent(sp.Probability), sp.Stage.Label())
	}
	fmt.Println()

	fmt.Println("  [Memory]")
	fmt.Printf("    Database: %s\n", config.CachePath())
	st := openStore()
	if st == nil {
		fmt.Println("    Remembered actions: unavailable")
	} else {
		n, err := st.ChoiceCount()
		_ = st.Close()
		if err != nil {
			return err
		}
		fmt.Printf("    Remembered actions: %s\n", cli.FormatNumber(int64(n)))
	}
	fmt.Println()

	fmt.Println("  Run `dealcast setup` to reconfigure.")
	return nil
}

func forgetChoices() error {
	if flagNoCache {
		return errors.New("--forget cannot be combined with --no-cache")
	}
	st := openStore()
	if st == nil {
		return fmt.Errorf("choice memory unavailable at %s", config.CachePath())
	}
	defer func() { _ = st.Close() }()

	if !flagConfigForget {
		for _, key := range flagConfigForgetKey {
			if err := st.Forget(key); err != nil {
				return fmt.Errorf("forgetting %s: %w", key, err)
			}
		}
		fmt.Printf("  Forgot %d deal keys\n", len(flagConfigForgetKey))
		return nil
	}

	n, err := st.ChoiceCount()
	if err != nil {
		return err
	}
	if err := st.Clear(); err != nil {
		return fmt.Errorf("clearing remembered actions: %w", err)
	}
	fmt.Printf("  Forgot %s remembered actions\n", cli.FormatNumber(int64(n)))
	return nil
}
