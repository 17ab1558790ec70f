package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/toolbelt/internal/history"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the 'toolbelt history' command
func NewHistoryCommand(app *App) *cobra.Command {
	var limit int
	var scriptName string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent script runs",
		Long: `Show the most recent live script runs, newest first.

Runs are recorded when history.enabled is true in toolbelt.yaml. The
database lives at history.db_path (default .toolbelt/history.db).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			dbPath := app.Conf.HistoryDBPath()

			if _, err := os.Stat(dbPath); os.IsNotExist(err) {
				fmt.Fprintln(out, "No runs recorded yet.")
				if !app.Conf.GetBool("history.enabled", false) {
					fmt.Fprintln(out, "Set history.enabled: true in toolbelt.yaml to record runs.")
				}
				return nil
			}

			store, err := history.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			runs, err := store.Recent(context.Background(), scriptName, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}

			green := color.New(color.FgGreen)
			red := color.New(color.FgRed)
			if !app.Color {
				green.DisableColor()
				red.DisableColor()
			}

			for _, run := range runs {
				status := green.Sprint("ok")
				if !run.Success {
					status = red.Sprintf("exit %d", run.ExitCode)
				}
				fmt.Fprintf(out, "%s  %-20s %-8s %s\n",
					run.StartedAt.Format("2006-01-02 15:04:05"),
					run.Script,
					run.Duration.Round(time.Millisecond),
					status,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "Number of runs to show")
	cmd.Flags().StringVar(&scriptName, "script", "", "Only show runs of this script")

	return cmd
}
