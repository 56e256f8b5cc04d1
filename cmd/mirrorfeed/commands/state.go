package commands

import (
	"time"

	"mirrorfeed/internal/history"
	"mirrorfeed/internal/state"
	"mirrorfeed/lib/serviceutil"
	"mirrorfeed/lib/sqliteutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(stateCmd)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format(time.RFC3339)
}

var stateCmd = &cobra.Command{
	Use:   "state [account]",
	Short: "Dumps the persisted per-account state, with update history for a single account.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := readConfig()
		if err != nil {
			serviceutil.Fatal("read config", err)
		}

		states, err := state.NewStore(cfg.StateDir)
		if err != nil {
			serviceutil.Fatal("init state store", err)
		}

		var list []string
		if len(args) == 1 {
			list = args
		} else {
			list, err = states.List()
			if err != nil {
				serviceutil.Fatal("list state records", err)
			}
		}

		t := newTable()
		t.AppendHeader(table.Row{"Account", "Fingerprint", "Last Update", "Items", "Failures", "Mirror"})
		for _, account := range list {
			st := states.Load(account)
			t.AppendRow(table.Row{
				account,
				st.Fingerprint,
				formatTime(st.LastUpdateTime),
				st.LastItemCount,
				st.ConsecutiveFailures,
				st.LastMirror,
			})
		}
		t.Render()

		if len(args) != 1 {
			return
		}

		db, err := sqliteutil.OpenDB(history.Schema, cfg.HistoryDatabase)
		if err != nil {
			serviceutil.Fatal("init history db", err)
		}
		defer db.Close()

		updates, err := history.NewStore(db).ForAccount(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("load update history", err)
		}

		h := newTable()
		h.AppendHeader(table.Row{"Time", "Reason", "Fingerprint", "Items", "Mirror", "Run"})
		for _, u := range updates {
			h.AppendRow(table.Row{
				formatTime(u.Time),
				u.Reason,
				u.Fingerprint,
				u.ItemCount,
				u.Mirror,
				u.RunId,
			})
		}
		h.Render()
	},
}
