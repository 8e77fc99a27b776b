package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured keys and their resolved paths",
	Long: `List every configured key with its resolved path and on-disk state.

STATUS is one of:
  ok       the path exists and is a directory
  missing  the path does not exist yet (run 'roost ensure')
  file     the path exists but is a regular file, not a directory`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	reg, err := buildRegistry()
	if err != nil {
		return err
	}

	keys := reg.Keys()
	if len(keys) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no paths configured (home: %s)\n", reg.Home())
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tPATH\tSTATUS\tWRITABLE")
	for _, key := range keys {
		status, err := reg.Check(key)
		if err != nil {
			return fmt.Errorf("checking %q: %w", key, err)
		}

		state := "ok"
		writable := "yes"
		switch {
		case !status.Exists:
			state = "missing"
			writable = "-"
		case !status.Dir:
			state = "file"
			writable = "-"
		case !status.Writable:
			writable = "no"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", key, status.Path, state, writable)
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(listCmd)
}
