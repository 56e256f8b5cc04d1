package commands

import (
	"mirrorfeed/internal/accounts"
	"mirrorfeed/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(accountsCmd)
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Parses and lists the configured account list.",
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

		t := newTable()
		t.AppendHeader(table.Row{"Account"})
		for _, account := range list {
			t.AppendRow(table.Row{account})
		}
		t.Render()
	},
}
