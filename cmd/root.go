package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nvollmar/roost/internal/cachemanager"
	"github.com/nvollmar/roost/internal/config"
	"github.com/nvollmar/roost/internal/flags"
	"github.com/nvollmar/roost/internal/log"
	"github.com/nvollmar/roost/internal/registry"
)

var (
	version      = "dev"
	cfgFile      string
	debug        bool
	cfg          config.Config
	featureFlags *flags.Registry
	logCleanup   func()
)

var rootCmd = &cobra.Command{
	Use:   "roost",
	Short: "A named filesystem location registry",
	Long: `Roost maps logical path keys ("uploads", "cache") to filesystem locations
resolved against a configured home directory. Resolution is deterministic,
lexically normalized and traversal-safe; directories are created idempotently.

Running roost without a subcommand lists all configured keys.`,
	Version: version,
	RunE:    runList,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/roost/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write a debug log to .roost/debug.log")
	rootCmd.PersistentFlags().String("home", "",
		"base directory for relative path entries")

	// Bind flags to viper
	_ = viper.BindPFlag("home", rootCmd.PersistentFlags().Lookup("home"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("home", defaults.Home)
	viper.SetDefault("flags.resolve-cache", defaults.Flags[flags.FlagResolveCache])
	viper.SetDefault("watch.enabled", defaults.Watch.Enabled)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .roost/config.yaml (current directory)
		// 2. ~/.config/roost/config.yaml (user config)
		if _, err := os.Stat(".roost/config.yaml"); err == nil {
			viper.SetConfigFile(".roost/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "roost"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .roost/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".roost/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)

	if debug || os.Getenv("ROOST_DEBUG") != "" {
		_ = os.MkdirAll(".roost", 0o750)
		if cleanup, err := log.Init(".roost/debug.log"); err == nil {
			logCleanup = cleanup
		}
	}

	featureFlags = flags.New(cfg.Flags)
}

// buildRegistry validates the loaded configuration and constructs the
// registry instance every command runs against. The resolved-path cache is
// owned by this instance, so each invocation (and each reload in watch mode)
// starts from a fresh cache.
func buildRegistry() (*registry.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var opts []registry.Option
	if featureFlags.Enabled(flags.FlagResolveCache) {
		cache := cachemanager.NewInMemoryCacheManager[string, string](
			"resolve", cachemanager.NoExpiration, 0)
		opts = append(opts, registry.WithCache(cache))
	}

	reg, err := registry.New(cfg.Home, cfg.Paths, opts...)
	if err != nil {
		return nil, fmt.Errorf("building registry: %w", err)
	}

	log.Debug(log.CatCLI, "Registry ready", "home", reg.Home(), "keys", len(reg.Keys()))
	return reg, nil
}

// configFilePath returns the config file backing this run, for commands that
// write configuration (set) or watch it.
func configFilePath() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}
	return ".roost/config.yaml"
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if logCleanup != nil {
		logCleanup()
	}
	return err
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
