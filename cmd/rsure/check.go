package main

import (
	"github.com/spf13/cobra"

	"github.com/ruonli/rsure"
	"github.com/ruonli/rsure/tree"
)

func newCheckCmd(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Scan and compare against the saved state, without saving",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rsure.ParseStore(g.File)
			if err != nil {
				return err
			}

			newTree, err := rsure.ScanFS(g.Dir)
			if err != nil {
				return err
			}

			est := tree.NewHasher(g.Dir).Estimate(newTree)
			bar := g.newProgress("hashing", est)
			rsure.HashTree(g.Dir, newTree, bar)
			bar.Done()

			oldTree, err := rsure.Load(s, rsure.LatestVersion())
			if err != nil {
				return err
			}
			rsure.Compare(oldTree, newTree, rsure.StdoutVisitor())
			return nil
		},
	}
}
