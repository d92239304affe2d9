package commands

import (
	"context"
	"fmt"
	"os"

	"enrollmate-backend/lib/configutil"
	"enrollmate-backend/lib/restyutil"
	"enrollmate-backend/lib/scrapers/courselist"
	"enrollmate-backend/services/importer"

	"github.com/spf13/cobra"
)

var verbose *bool

func init() {
	verbose = rootCmd.PersistentFlags().BoolP(
		"verbose", "v", false,
		"Dump http exchanges to .dev/resty for inspection.",
	)
}

var rootCmd = &cobra.Command{
	Use:   "enrollmate-cli",
	Short: "enrollmate-cli scrapes university course listings and imports them into EnrollMate.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !*verbose {
			return
		}
		courselist.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/courselist"))
		importer.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/importer"))
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type Config struct {
	BaseUrl string `json:"base_url"`
	Email   string `json:"email"`
	Token   string `json:"token"`
	UserId  string `json:"user_id"`
}

func readConfig() Config {
	config, err := configutil.ReadConfig[Config]("enrollmate.json5")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to read enrollmate.json5:", err)
		os.Exit(1)
	}
	if config.BaseUrl == "" {
		config.BaseUrl = "http://localhost:8000"
	}
	return config
}

// apiClient builds an importer client carrying any token stored in the
// config.
func apiClient(config Config) *importer.Client {
	client := importer.NewClient(config.BaseUrl)
	if config.Token != "" {
		client.SetToken(config.Token)
	}
	return client
}
