package cmd

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nvollmar/roost/internal/flags"
	"github.com/nvollmar/roost/internal/log"
	"github.com/nvollmar/roost/internal/registry"
)

var doctorStrict bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Validate that required directories can be created and written",
	Long: `Run the startup validation an application embedding roost should perform:
every required key must resolve, its directory must exist (it is created if
missing), and the directory must be writable.

Exits non-zero naming each offending key and the underlying cause, so a
process supervisor can refuse to start the application.

--strict (or the strict-ensure feature flag) treats every configured key as
required.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := buildRegistry()
		if err != nil {
			return err
		}

		runID := uuid.NewString()
		strict := doctorStrict || featureFlags.Enabled(flags.FlagStrictEnsure)
		keys := cfg.RequiredKeys(strict)
		log.Info(log.CatCLI, "Doctor run started", "run_id", runID, "keys", len(keys), "strict", strict)

		if len(keys) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing to check (no required keys configured)")
			return nil
		}

		failures := runChecks(cmd, reg, keys)
		if len(failures) > 0 {
			log.Error(log.CatCLI, "Doctor run failed", "run_id", runID, "failures", len(failures))
			return fmt.Errorf("doctor found %d problem(s):\n%w", len(failures), errors.Join(failures...))
		}

		log.Info(log.CatCLI, "Doctor run passed", "run_id", runID)
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d key(s) resolved, materialized and writable\n", len(keys))
		return nil
	},
}

// runChecks materializes and probes each key, printing per-key results.
// Shared with watch mode.
func runChecks(cmd *cobra.Command, reg *registry.Registry, keys []string) []error {
	var failures []error
	for _, key := range keys {
		path, err := reg.EnsureDirectory(key)
		if err != nil {
			failures = append(failures, fmt.Errorf("key %q: %w", key, err))
			fmt.Fprintf(cmd.OutOrStdout(), "fail  %s: %v\n", key, err)
			continue
		}

		status, err := reg.Check(key)
		if err != nil {
			failures = append(failures, fmt.Errorf("key %q: %w", key, err))
			fmt.Fprintf(cmd.OutOrStdout(), "fail  %s: %v\n", key, err)
			continue
		}
		if !status.Writable {
			failures = append(failures, fmt.Errorf("key %q: directory %s is not writable", key, path))
			fmt.Fprintf(cmd.OutOrStdout(), "fail  %s: %s not writable\n", key, path)
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "ok    %s -> %s\n", key, path)
	}
	return failures
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorStrict, "strict", false,
		"treat every configured key as required")
	rootCmd.AddCommand(doctorCmd)
}
