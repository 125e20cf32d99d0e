// ABOUTME: Health command for prodctl CLI
// ABOUTME: Checks backend connectivity, application version, and database status

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long:  `Check connectivity to the Product Management backend and report application and database status.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runHealth(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	d, code := setup(w)
	if d == nil {
		return code
	}
	url := d.api.BaseURL()

	resp, err := d.api.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUnavailable
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatHealthJSON(url, resp))
	} else {
		fmt.Fprintln(w, formatHealthHuman(url, resp))
	}

	if resp.Status != "healthy" || resp.Database.Status != "healthy" {
		return exitFailed
	}
	return exitOK
}

// formatHealthHuman formats health response for human readability
func formatHealthHuman(url string, resp *client.HealthResponse) string {
	db := resp.Database.Status
	if resp.Database.Error != nil {
		db += " (" + *resp.Database.Error + ")"
	}
	return fmt.Sprintf(`Backend:      %s
Status:       %s
Application:  %s %s
Database:     %s`, url, resp.Status, resp.Application.Name, resp.Application.Version, db)
}

// formatHealthJSON formats health response as JSON
func formatHealthJSON(url string, resp *client.HealthResponse) string {
	output := map[string]interface{}{
		"backend":     url,
		"status":      resp.Status,
		"application": resp.Application,
		"database":    resp.Database,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
