// Package cli implements the bizzctl command line tool.
package cli

import (
	"github.com/bizzai/go-session/internal/config"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	storeKind  string
	envFile    string
	jsonOutput bool
	verbose    bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "bizzctl",
	Short: "Session and dashboard client for the Bizz AI platform",
	Long: `bizzctl signs in to the Bizz AI identity service, keeps the session token
in a local store and calls the dashboard APIs as the signed in user.

Environment Variables:
  BIZZ_API_URL            Identity service URL (default: https://api.teenytechtrek.com)
  BIZZ_DASHBOARD_API_URL  Dashboard API URL (default: BIZZ_API_URL)
  BIZZ_TRAINER_URL        Training service URL (default: BIZZ_DASHBOARD_API_URL)
  BIZZ_STORE              Session store: file, sqlite, redis or memory (default: file)
  BIZZ_STORE_PATH         Location of the file or sqlite store
  BIZZ_STORE_KEY          Key the token is kept under (default: authToken)
  BIZZ_REDIS_ADDR         Redis address for the redis store
  BIZZ_REQUEST_TIMEOUT    Per request timeout, e.g. 10s
  BIZZ_LISTEN_ADDR        Address used by "bizzctl serve" (default: :8573)
  BIZZ_ACTIVITY_LOG       Append session events to this file as JSON lines`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Identity service URL (overrides BIZZ_API_URL)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "Session store backend (overrides BIZZ_STORE)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment from this file instead of .env")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig reads the configuration and applies flag overrides, flags
// taking priority over the environment.
func loadConfig() (*config.Config, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}

	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}

	if apiURL != "" {
		// dashboard and trainer follow the identity URL unless set explicitly
		if cfg.DashboardAPIURL == cfg.APIURL {
			cfg.DashboardAPIURL = apiURL
		}
		if cfg.TrainerURL == cfg.APIURL {
			cfg.TrainerURL = apiURL
		}
		cfg.APIURL = apiURL
	}
	if storeKind != "" && storeKind != cfg.Store {
		cfg.Store = storeKind
		cfg.StorePath = ""
		cfg.ApplyDefaults()
	}
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
