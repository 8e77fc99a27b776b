package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nvollmar/roost/internal/flags"
	"github.com/nvollmar/roost/internal/log"
	"github.com/nvollmar/roost/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-validate directories whenever the config file changes",
	Long: `Watch the config file and re-run the doctor checks on every change.

Each reload rebuilds the registry from scratch, which is also what discards
the resolved-path cache: caches never outlive the configuration they were
built from. Stops on Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := configFilePath()

		wcfg := watcher.DefaultConfig(configPath)
		if cfg.Watch.Debounce > 0 {
			wcfg.DebounceDur = cfg.Watch.Debounce
		}
		w, err := watcher.New(wcfg)
		if err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()

		onChange, err := w.Start()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Mirror debug log entries to stderr while watching (only active
		// when the logger was initialized via --debug / ROOST_DEBUG).
		if entries := log.Subscribe(ctx); entries != nil {
			go func() {
				for entry := range entries {
					fmt.Fprint(cmd.ErrOrStderr(), entry.Payload)
				}
			}()
		}

		fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", configPath)
		if err := checkOnce(cmd); err != nil {
			// Keep watching: a broken config that gets fixed should recover.
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}

		for {
			select {
			case <-ctx.Done():
				fmt.Fprintln(cmd.OutOrStdout(), "stopped")
				return nil
			case <-onChange:
				log.Info(log.CatWatcher, "Config changed, reloading", "path", configPath)
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s changed, re-checking\n", configPath)
				if err := reloadConfig(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
					continue
				}
				if err := checkOnce(cmd); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
				}
			}
		}
	},
}

// reloadConfig re-reads the config file into cfg and refreshes the flag
// registry. The registry itself is rebuilt by the next checkOnce call.
func reloadConfig() error {
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("re-reading config: %w", err)
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	featureFlags = flags.New(cfg.Flags)
	return nil
}

// checkOnce builds a fresh registry and runs the doctor checks against it.
func checkOnce(cmd *cobra.Command) error {
	reg, err := buildRegistry()
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	strict := featureFlags.Enabled(flags.FlagStrictEnsure)
	keys := cfg.RequiredKeys(strict)
	log.Info(log.CatWatcher, "Check pass", "run_id", runID, "keys", len(keys))

	if len(keys) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing to check (no required keys configured)")
		return nil
	}

	if failures := runChecks(cmd, reg, keys); len(failures) > 0 {
		return fmt.Errorf("%d key(s) failing", len(failures))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
