package main

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mycelian/rancher-client/client"
	"github.com/mycelian/rancher-client/internal/config"
)

// rootOptions holds the persistent flags shared by all sub-commands.
type rootOptions struct {
	url       string
	accessKey string
	secretKey string
	timeout   time.Duration
	debug     bool
	json      bool
}

// envDefaults are the RANCHER_* variables used as flag defaults. Unlike
// client.Config nothing is required here; flags may supply the values.
type envDefaults struct {
	URL         string        `envconfig:"URL"`
	AccessKey   string        `envconfig:"ACCESS_KEY"`
	SecretKey   string        `envconfig:"SECRET_KEY"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	Debug       bool          `envconfig:"DEBUG"        default:"false"`
}

func loadEnvDefaults() envDefaults {
	var env envDefaults
	if err := envconfig.Process("RANCHER", &env); err != nil {
		log.Warn().Err(err).Msg("ignoring malformed RANCHER_* environment")
		return envDefaults{HTTPTimeout: 30 * time.Second}
	}
	return env
}

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	env := loadEnvDefaults()

	rootCmd := &cobra.Command{
		Use:           "rancherctl",
		Short:         "Inspect Rancher projects and roll workloads to a new image",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.Init(opts.debug)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.url, "url", env.URL, "Rancher API base URL, e.g. https://rancher.example.com/v3 (env RANCHER_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.accessKey, "access-key", env.AccessKey, "API access key (env RANCHER_ACCESS_KEY)")
	rootCmd.PersistentFlags().StringVar(&opts.secretKey, "secret-key", env.SecretKey, "API secret key (env RANCHER_SECRET_KEY)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", env.HTTPTimeout, "Per-request HTTP timeout (env RANCHER_HTTP_TIMEOUT)")
	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", env.Debug, "Enable debug logging, including HTTP dumps (env RANCHER_DEBUG)")
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print results as JSON")

	rootCmd.AddCommand(newProjectsCmd(opts))
	rootCmd.AddCommand(newWorkloadsCmd(opts))
	rootCmd.AddCommand(newSetImageCmd(opts))
	rootCmd.AddCommand(newActionCmd(opts, client.ActionPause, (*client.Client).PauseWorkload))
	rootCmd.AddCommand(newActionCmd(opts, client.ActionResume, (*client.Client).ResumeWorkload))
	rootCmd.AddCommand(newActionCmd(opts, client.ActionRollback, (*client.Client).RollbackWorkload))

	return rootCmd
}

// newClient builds the SDK client from the persistent flags.
func (o *rootOptions) newClient() (*client.Client, error) {
	if o.url == "" {
		return nil, errors.New("--url (or RANCHER_URL) is required")
	}
	cfg := client.Config{
		URL:         o.url,
		AccessKey:   o.accessKey,
		SecretKey:   o.secretKey,
		HTTPTimeout: o.timeout,
		Debug:       o.debug,
	}
	return client.NewFromConfig(cfg)
}
