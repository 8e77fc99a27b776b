package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvollmar/roost/internal/log"
)

var resolveEnsure bool

var resolveCmd = &cobra.Command{
	Use:   "resolve KEY [CHILD]",
	Short: "Resolve a logical key to an absolute path",
	Long: `Resolve a logical key to an absolute, normalized path.

With a CHILD argument the child name is joined onto the key's directory and
checked for containment: a child that would escape the base directory (via
".." segments or an absolute path pointing elsewhere) is rejected. This makes
resolve safe for untrusted file names.

Examples:
  # Resolve a configured key
  roost resolve uploads

  # Resolve an untrusted file name inside the uploads directory
  roost resolve uploads photo.png
  roost resolve uploads 2024/10/photo.png

  # Create the directory if missing, then print the path
  roost resolve uploads --ensure`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := buildRegistry()
		if err != nil {
			return err
		}

		key := args[0]
		if resolveEnsure {
			if _, err := reg.EnsureDirectory(key); err != nil {
				return err
			}
		}

		path, err := reg.Resolve(key)
		if len(args) == 2 {
			path, err = reg.ResolveChild(key, args[1])
		}
		if err != nil {
			return err
		}

		log.Debug(log.CatCLI, "Resolved", "key", key, "path", path)
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveEnsure, "ensure", false,
		"create the key's directory before resolving")
	rootCmd.AddCommand(resolveCmd)
}
