// Command patchctl inspects and maintains the patch history from a terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dom/patch-meta/internal/app"
	"github.com/dom/patch-meta/internal/config"
	"github.com/dom/patch-meta/internal/events"
)

var noColor bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "patchctl",
		Short: "Patch notes and meta analysis for League of Legends",
		Long: `patchctl fetches patch notes, stores them and reports on them.

It reads the same environment variables as the server (DATABASE_URL,
PATCH_NOTES_LOCALE, STATS_API_URL, ...). JWT_SECRET is not needed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newPatchesCommand(),
		newFetchCommand(),
		newAnalyzeCommand(),
		newTiersCommand(),
		newHistoryCommand(),
		newBackfillCommand(),
		newClearCommand(),
		newChampionsCommand(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withApp builds the application for one command run and closes it afterwards.
func withApp(cmd *cobra.Command, run func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Parse()
	if err != nil {
		return err
	}

	a, err := app.New(cfg, eventPrinter(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer a.Close()

	return run(cmd.Context(), a)
}

var levelColors = map[events.Level]*color.Color{
	events.LevelInfo:    color.New(color.FgCyan),
	events.LevelSuccess: color.New(color.FgGreen),
	events.LevelError:   color.New(color.FgRed),
}

// eventPrinter writes progress events as one colored line each.
func eventPrinter(w io.Writer) events.Emitter {
	return events.EmitterFunc(func(e events.Event) {
		c, ok := levelColors[e.Level]
		if !ok {
			c = color.New(color.Reset)
		}
		c.Fprintf(w, "[%s] %s\n", e.Level, e.Message)
	})
}
