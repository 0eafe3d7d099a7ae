package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"remotewebdemo/internal/app"
	"remotewebdemo/internal/config"
)

// options holds command line overrides. Flags win over DEMO_* variables,
// which win over the YAML file.
type options struct {
	configFile string
	host       string
	port       int
	workers    int
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "demo-server",
		Short: "Remote web object demo server",
		Long: `demo-server exposes password hashing, digest and CRC-32 resources as a
hypermedia API, plus tick and clock event streams over SSE or WebSocket.`,
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			application, err := app.NewApplication(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run()
		},
	}
	cmd.SetVersionTemplate(config.AppName + " version {{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "YAML configuration file (default: $"+config.ConfigFileEnv+", config.yaml or configs/config.yaml)")
	flags.StringVar(&opts.host, "host", config.DefaultHost, "Host to bind to")
	flags.IntVarP(&opts.port, "port", "p", config.DefaultPort, "Port to listen on")
	flags.IntVar(&opts.workers, "workers", 0, "Connection workers (0 means one per CPU)")
	flags.StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn or error")

	cmd.AddCommand(newConfigCmd(opts))
	return cmd
}

// load resolves configuration and applies the flags the user set
func (o *options) load(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configFile != "" {
		cfg, err = config.LoadFrom(o.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host = o.host
	}
	if flags.Changed("port") {
		cfg.Server.Port = o.port
	}
	if flags.Changed("workers") {
		cfg.Pool.Workers = o.workers
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command line options: %w", err)
	}
	return cfg, nil
}
