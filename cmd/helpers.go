package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/mdparty/internal/config"
	"github.com/ziadkadry99/mdparty/internal/content"
	"github.com/ziadkadry99/mdparty/internal/fetch"
	"github.com/ziadkadry99/mdparty/internal/progress"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `mdparty init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger. Logs always go to stderr so that
// rendered output on stdout stays clean.
func newLogger(format config.LogFormat) (*zap.SugaredLogger, error) {
	var zc zap.Config
	if format == config.LogJSON {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	}
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.Sugar(), nil
}

// newFetcher returns a fetcher over the configured content source.
func newFetcher(cfg *config.Config, logger *zap.SugaredLogger) (*fetch.Fetcher, error) {
	opts := []fetch.Option{
		fetch.WithLogger(logger),
		fetch.WithTimeout(cfg.FetchTimeout),
	}
	if cfg.Remote() {
		return fetch.New(cfg.ContentURL, opts...)
	}
	return fetch.NewDir(cfg.ContentDir, opts...)
}

// newLoader returns a loader reporting batch progress to the terminal.
func newLoader(cfg *config.Config, f *fetch.Fetcher, logger *zap.SugaredLogger) *content.Loader {
	return content.NewLoader(f,
		content.WithLogger(logger),
		content.WithConfigLocation(cfg.ConfigLocation),
		content.WithStrictSlugs(cfg.StrictSlugs),
		content.WithProgress(progress.NewReporter("Loading content")),
	)
}

// setup loads the config and builds the logger and fetcher every command
// needs.
func setup() (*config.Config, *zap.SugaredLogger, *fetch.Fetcher, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := newLogger(cfg.LogFormat)
	if err != nil {
		return nil, nil, nil, err
	}
	f, err := newFetcher(cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("content source: %w", err)
	}
	return cfg, logger, f, nil
}
