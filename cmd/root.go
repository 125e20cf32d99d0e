// ABOUTME: Root command for prodctl CLI
// ABOUTME: Handles global flags, configuration loading, and logger setup

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/config"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/logger"
)

var (
	apiURL     string
	jsonOutput bool

	// cfg is loaded once per process
	cfg *config.Config
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "prodctl",
	Short: "CLI for the Product Management System",
	Long: `prodctl signs in to the Product Management System and manages products
from the terminal. Run "prodctl tui" for the interactive interface.

Environment Variables:
  PRODCTL_API_URL              Backend API URL (default: http://localhost:8000/api)
  PRODCTL_CONFIG_DIR           Where the session token and debug log are kept
  PRODCTL_HTTP_TIMEOUT         Request timeout (default: 30s)
  PRODCTL_PASSWORD_MIN_LENGTH  Minimum password length (default: 8)
  PRODCTL_PASSWORD_REGEX       Extra pattern new passwords must match
  LOG_LEVEL, LOG_FORMAT        Logging to stderr (info/text)`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Init()
		_, err := loadConfig()
		return err
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides PRODCTL_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// loadConfig returns the process configuration, reading it on first use
func loadConfig() (*config.Config, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return config.NormalizeURL(apiURL)
	}
	if c, err := loadConfig(); err == nil {
		return c.APIURL
	}
	return config.DefaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}
