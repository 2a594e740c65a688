package main

import (
	"github.com/spf13/cobra"

	"github.com/ruonli/rsure"
	"github.com/ruonli/rsure/tree"
)

func newScanCmd(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan a directory for the first time and save its state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return scanAndSave(g, false)
		},
	}
}

func newUpdateCmd(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Rescan a directory and report changes since the last save",
		RunE: func(cmd *cobra.Command, args []string) error {
			return scanAndSave(g, true)
		},
	}
}

// scanAndSave implements both scan and update: scan dir, hash its
// content, optionally diff against the store's latest generation,
// then save the result as the next generation.
func scanAndSave(g *Globals, compareFirst bool) error {
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

	if compareFirst {
		oldTree, err := rsure.Load(s, rsure.LatestVersion())
		if err != nil {
			return err
		}
		rsure.Compare(oldTree, newTree, rsure.StdoutVisitor())
	}

	return rsure.Save(s, newTree, nil)
}
