package main

import (
	"fmt"

	"github.com/jonathan/portfolio-site/internal/config"
	"github.com/jonathan/portfolio-site/internal/contact"
	"github.com/jonathan/portfolio-site/internal/content"
	"github.com/jonathan/portfolio-site/internal/types"
	"github.com/spf13/cobra"
)

// resolveConfig layers flags over the config file over the environment over the built-in
// defaults, then validates the result.
func resolveConfig(cmd *cobra.Command, flags config.Config) (config.Config, error) {
	var fileCfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return config.Config{}, err
		}
		fileCfg = *loaded
		if verbose {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Loaded config from: %s\n", configPath)
		}
	}

	flags.Verbose = flags.Verbose || verbose

	env := config.FromEnv()
	merged := fileCfg.MergeWithDefaults(env)
	cfg := flags.MergeWithDefaults(merged)
	cfg = cfg.WithBuiltins()

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadPortfolio reads the content file, or the built-in content when path is empty.
func loadPortfolio(path string) (*types.Portfolio, error) {
	if path == "" {
		return content.Default()
	}
	p, err := content.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	return p, nil
}

// newRelay builds the contact relay client from cfg.
func newRelay(cfg config.Config) (*contact.Client, error) {
	client, err := contact.NewClient(contact.ClientConfig{
		Endpoint:  cfg.RelayEndpoint,
		AccessKey: cfg.RelayAccessKey,
		Variant:   contact.Variant(cfg.RelayVariant),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure contact relay: %w", err)
	}
	return client, nil
}
