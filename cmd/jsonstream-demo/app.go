package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// app wires up the cobra command tree, mirroring the teacher pack's
// cli.App shape (root command + signal-aware Execute, subcommands added in
// New).
type app struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer
}

func newApp() *app {
	a := &app{stdout: os.Stdout, stderr: os.Stderr}

	a.root = &cobra.Command{
		Use:   "jsonstream-demo",
		Short: "Feed JSON fragments into jsonstream and print what streams out",
		Long: `jsonstream-demo drives a jsonstream.Facade from a file or stdin, one
fragment at a time, and prints the chunks and final values observed on the
paths you subscribe to with --path.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	a.root.AddCommand(a.newWatchCmd())

	return a
}

func (a *app) Execute(ctx context.Context) error {
	a.root.SetOut(a.stdout)
	a.root.SetErr(a.stderr)
	return a.root.ExecuteContext(ctx)
}
