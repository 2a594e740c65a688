package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ruonli/rsure"
)

func newShowCmd(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Pretty-print the saved state",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rsure.ParseStore(g.File)
			if err != nil {
				return err
			}
			return rsure.ShowTree(s, os.Stdout)
		},
	}
}
