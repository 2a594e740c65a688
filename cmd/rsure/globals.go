package main

import (
	"github.com/sirupsen/logrus"

	"github.com/ruonli/rsure/progress"
	"github.com/ruonli/rsure/tree"
)

// Globals holds the flags every subcommand shares, mirroring
// command.Globals's Verbose/CWD pattern: one small struct bound once
// at the root command and read by every subcommand's RunE.
type Globals struct {
	File    string
	Dir     string
	Verbose bool
}

func (g *Globals) configureLogging() {
	if g.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
		return
	}
	logrus.SetLevel(logrus.InfoLevel)
}

// newProgress starts a progress bar sized against est, or returns a
// quiet no-op one when verbose logging is off (a bar competing with
// debug lines on the same terminal is more noise than signal).
func (g *Globals) newProgress(description string, est tree.Estimate) *progress.Bar {
	if !g.Verbose {
		return &progress.Bar{}
	}
	return progress.New(description, est)
}
