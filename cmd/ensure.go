package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ensureAll bool

var ensureCmd = &cobra.Command{
	Use:   "ensure [KEY...]",
	Short: "Create directories for configured keys",
	Long: `Create the directory (and missing ancestors) for each named key.
Idempotent: existing directories are left untouched and repeated runs succeed.

Without arguments the keys listed under 'required' in the config are ensured;
--all ensures every configured key.

Examples:
  roost ensure uploads cache
  roost ensure            # required keys only
  roost ensure --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := buildRegistry()
		if err != nil {
			return err
		}

		keys := args
		if len(keys) == 0 {
			keys = cfg.RequiredKeys(ensureAll)
		}
		if len(keys) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing to ensure (no required keys configured)")
			return nil
		}

		for _, key := range keys {
			path, err := reg.EnsureDirectory(key)
			if err != nil {
				return fmt.Errorf("ensure %q: %w", key, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", key, path)
		}
		return nil
	},
}

func init() {
	ensureCmd.Flags().BoolVar(&ensureAll, "all", false,
		"ensure every configured key, not just required ones")
	rootCmd.AddCommand(ensureCmd)
}
