// ABOUTME: TUI command for prodctl CLI
// ABOUTME: Launches the interactive product browser with logs sent to the config directory

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui/debuglog"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive interface",
	Long: `Open the interactive interface for browsing and managing products.
Logs are written to debug.log in the config directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runTUI(ctx, os.Stderr)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runTUI blocks until the interface exits and returns exit code
func runTUI(ctx context.Context, w io.Writer) int {
	c, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUnavailable
	}

	log, closer, err := debuglog.Open(c.ConfigDir, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	if err != nil {
		fmt.Fprintf(w, "Error: cannot open debug log: %v\n", err)
		return exitUnavailable
	}
	defer closer.Close()

	d, err := newDeps(log)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUnavailable
	}

	app := tui.New(d.sessions, d.products, d.validate, c.AppName, log)
	if err := tui.Run(ctx, app); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFailed
	}
	return exitOK
}
