package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvollmar/roost/internal/config"
	"github.com/nvollmar/roost/internal/log"
)

var setCmd = &cobra.Command{
	Use:   "set KEY PATH",
	Short: "Add or update a path entry in the config file",
	Long: `Add or update a single entry under 'paths' in the config file.
Comments and formatting elsewhere in the file are preserved.

PATH may be relative (resolved against home) or absolute (overrides home).

Examples:
  roost set uploads files/uploads
  roost set logs /var/log/app`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		path := configFilePath()

		if err := config.SetPath(path, key, value); err != nil {
			return fmt.Errorf("updating %s: %w", path, err)
		}

		log.Info(log.CatConfig, "Path entry saved", "key", key, "value", value, "config", path)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s = %s\n", path, key, value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
}
