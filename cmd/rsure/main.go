// Command rsure scans a directory tree, archives its state, and
// reports what changed between scans -- a Go port of the rsure
// integrity-checking tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &Globals{}

	root := &cobra.Command{
		Use:           "rsure",
		Short:         "Track filesystem integrity over time",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			g.configureLogging()
		},
	}
	root.PersistentFlags().StringVarP(&g.File, "file", "f", "2sure.dat.gz", "base archive file name (.dat.gz or .weave)")
	root.PersistentFlags().StringVarP(&g.Dir, "dir", "d", ".", "directory to scan")
	root.PersistentFlags().BoolVarP(&g.Verbose, "verbose", "V", false, "enable debug logging")

	root.AddCommand(
		newScanCmd(g),
		newUpdateCmd(g),
		newCheckCmd(g),
		newSignoffCmd(g),
		newShowCmd(g),
	)
	return root
}
