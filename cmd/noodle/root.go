package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/noodle"
	"github.com/aretw0/noodle/internal/config"
	"github.com/aretw0/noodle/pkg/core"
)

var (
	verbose    bool
	configPath string
	adapter    string
	storePath  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "noodle",
	Short: "A persistence engine for per-section course notes",
	Long: `Noodle stores small per-section notes in a capacity-limited key/value
medium and aggregates them back into per-course views. Stored values never
fail to decode: legacy and corrupted payloads degrade to plain text.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: XDG config dir)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Storage adapter: jar, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Store file path (default: XDG data dir)")
}

// newStore resolves flags and config into just the storage adapter, for
// commands that operate below the service layer.
func newStore() (core.Store, error) {
	chosenAdapter, chosenPath, _, err := resolveStore()
	if err != nil {
		return nil, err
	}
	return noodle.OpenStore(chosenPath,
		noodle.WithAdapter(chosenAdapter),
		noodle.WithLogger(slog.Default()),
	)
}

// resolveStore merges flags and the TOML config file. Flags win over config
// values, config values win over defaults.
func resolveStore() (adapterName, path string, cfg config.FileConfig, err error) {
	cfgPath := configPath
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath()
	}
	cfg, err = config.LoadConfig(cfgPath)
	if err != nil {
		return "", "", cfg, err
	}

	adapterName = adapter
	if adapterName == "" && cfg.Store.Adapter != nil {
		adapterName = *cfg.Store.Adapter
	}
	if adapterName == "" {
		adapterName = "jar"
	}

	path = storePath
	if path == "" && cfg.Store.Path != nil {
		path = *cfg.Store.Path
	}
	path = config.StorePath(adapterName, path)
	return adapterName, path, cfg, nil
}

// newService resolves flags and the TOML config file into a note service.
func newService() (*core.Service, error) {
	chosenAdapter, chosenPath, cfg, err := resolveStore()
	if err != nil {
		return nil, err
	}

	opts := []noodle.Option{
		noodle.WithAdapter(chosenAdapter),
		noodle.WithLogger(slog.Default()),
	}
	if cfg.Notes.TTLDays != nil {
		opts = append(opts, noodle.WithTTL(*cfg.Notes.TTLDays))
	}
	if cfg.Notes.DebounceMS != nil {
		opts = append(opts, noodle.WithDebounceWindow(time.Duration(*cfg.Notes.DebounceMS)*time.Millisecond))
	}
	if cfg.Notes.BaseURL != nil {
		base, err := url.Parse(*cfg.Notes.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base-url in config: %w", err)
		}
		opts = append(opts, noodle.WithBaseURL(base))
	}

	return noodle.New(chosenPath, opts...)
}
