package main

import (
	"github.com/spf13/cobra"

	"github.com/ruonli/rsure"
)

func newSignoffCmd(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "signoff",
		Short: "Compare the prior saved state against the latest, without scanning",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rsure.ParseStore(g.File)
			if err != nil {
				return err
			}
			return rsure.Signoff(s)
		},
	}
}
