package cmd

import (
	"fmt"

	"github.com/theirongolddev/dealcast/internal/cli"
	"github.com/theirongolddev/dealcast/internal/config"
	"github.com/theirongolddev/dealcast/internal/store"

	"github.com/spf13/cobra"
)

var recentLimit int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently opened deal files",
	Args:  cobra.NoArgs,
	RunE:  runRecent,
}

func init() {
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "l", 10, "Number of files to show")
	rootCmd.AddCommand(recentCmd)
}

func runRecent(_ *cobra.Command, _ []string) error {
	st, err := store.Open(config.CachePath())
	if err != nil {
		return fmt.Errorf("opening choice store: %w", err)
	}
	defer func() { _ = st.Close() }()

	files, err := st.RecentFiles(recentLimit)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("\n  No files opened yet.")
		return nil
	}

	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{
			f.OpenedAt.Local().Format("Jan 02 15:04"),
			cli.FormatNumber(int64(f.DealCount)),
			f.Path,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "RECENT FILES",
		Headers: []string{"Opened", "Deals", "Path"},
		Rows:    rows,
		Right:   []bool{false, true, false},
	}))
	return nil
}
