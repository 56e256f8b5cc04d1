package commands

import (
	"os"
	"time"

	"mirrorfeed/internal/accounts"
	"mirrorfeed/internal/history"
	"mirrorfeed/internal/runner"
	"mirrorfeed/internal/scraper/nitter"
	"mirrorfeed/internal/state"
	"mirrorfeed/lib/serviceutil"
	"mirrorfeed/lib/sqliteutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// exit code for a run that completed but wrote nothing, so an
// external scheduler can skip its commit step
const exitNothingUpdated = 3

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs one full fetch-and-update cycle over the account list.",
	Args:  cobra.MaximumNArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := readConfig()
		if err != nil {
			serviceutil.Fatal("read config", err)
		}

		list, err := accounts.ReadFile(cfg.AccountsFile)
		if err != nil {
			serviceutil.Fatal("read account list", err)
		}

		states, err := state.NewStore(cfg.StateDir)
		if err != nil {
			serviceutil.Fatal("init state store", err)
		}

		db, err := sqliteutil.OpenDB(history.Schema, cfg.HistoryDatabase)
		if err != nil {
			serviceutil.Fatal("init history db", err)
		}
		defer db.Close()
		hist := history.NewStore(db)

		r := runner.Runner{
			Fetcher:       nitter.NewClient(cfg.scraperOptions()),
			States:        states,
			Policy:        cfg.policy(),
			History:       &hist,
			FeedsDir:      cfg.FeedsDir,
			PublicBaseUrl: cfg.PublicBaseUrl,
			AccountDelay:  time.Duration(cfg.AccountDelaySeconds) * time.Second,
		}

		summary, err := r.Run(cmd.Context(), list)
		if err != nil {
			serviceutil.Fatal("run", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Total", "Updated", "Skipped", "Failed"})
		t.AppendRow(table.Row{summary.Total, summary.Updated, summary.Skipped, summary.Failed})
		t.Render()

		if summary.Updated == 0 {
			os.Exit(exitNothingUpdated)
		}
	},
}
