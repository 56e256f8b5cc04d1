package commands

import (
	"context"
	"fmt"
	"os"

	"mirrorfeed/internal/scraper/nitter"
	"mirrorfeed/lib/restyutil"
	"mirrorfeed/lib/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "mirrorfeed",
	Short: "mirrorfeed scrapes nitter mirrors and emits one RSS feed per account.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)

		err := telemetry.SetupFromEnv(cmd.Context(), "mirrorfeed")
		if err != nil && !os.IsNotExist(err) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		go func() {
			<-cmd.Context().Done()
			telemetry.Shutdown(context.Background())
		}()
		telemetry.InstrumentPerfStats(cmd.Context())

		if *verbose {
			nitter.SetRestyInstrumentOutput(
				restyutil.NewFilesystemOutput(".dev/resty/nitter"),
			)
		}
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging/instrumentation.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
