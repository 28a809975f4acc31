package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/swezzy/sheetcms"
	"github.com/swezzy/sheetcms/cache"
	"github.com/swezzy/sheetcms/config"
	"github.com/swezzy/sheetcms/feed"
	"github.com/swezzy/sheetcms/log"
	"github.com/swezzy/sheetcms/parser"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// settings is filled in before any subcommand runs.
type settings struct {
	configPath string
	envPath    string

	config config.Config
}

func newRootCmd() *cobra.Command {
	s := &settings{}

	rootCmd := &cobra.Command{
		Use:           "sheetcms",
		Short:         "Serve site posts maintained in a published spreadsheet",
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&s.configPath, "config", "sheetcms.toml", "sheetcms config path")
	rootCmd.PersistentFlags().StringVar(&s.envPath, "env", ".env", "file with SHEETCMS_* environment overrides")

	rootCmd.AddCommand(newServeCmd(s))
	rootCmd.AddCommand(newFetchCmd(s))
	rootCmd.AddCommand(newCacheCmd(s))
	rootCmd.AddCommand(newConfigCmd(s))

	return rootCmd
}

func (s *settings) load() error {
	if s.envPath != "" {
		if err := godotenv.Load(s.envPath); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return errors.Wrapf(err, "loading environment from %s", s.envPath)
		}
	}

	cfg, err := config.Read(s.configPath)
	if err != nil {
		return errors.WithMessage(err, "reading config")
	}
	s.config = cfg

	return nil
}

func initLog(cfg config.Log) log.Log {
	return log.WithLogrus(cfg)
}

func initCache(cfg config.Config, log log.Log) (*cache.Cache, error) {
	c, err := cache.Open(cfg.Cache, cfg.Log, log)
	if err != nil {
		return nil, errors.WithMessage(err, "initializing cache")
	}

	return c, nil
}

func initPipeline(cfg config.Config, c *cache.Cache, log log.Log) *sheetcms.Pipeline {
	client := sheetcms.NewTimeoutClient(cfg.Source.Converted.ConnectTimeout, cfg.Source.Converted.Timeout)
	fetcher := feed.FetcherFromConfig(cfg.Source, client, log)

	return sheetcms.NewPipeline(fetcher, c, parser.NormalizerFromConfig(cfg.Parser), log)
}
