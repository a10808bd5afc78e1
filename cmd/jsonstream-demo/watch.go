package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/jsonstream-go/jsonstream"
)

type watchOptions struct {
	file   string
	paths  []string
	strict bool
	debug  bool
}

func (a *app) newWatchCmd() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream a JSON document and print updates for subscribed paths",
		Long: `watch reads JSON text from --file (or stdin when --file is omitted), one
line at a time, feeding it through jsonstream as though it were arriving
from a live LLM response. Each --path is subscribed to before parsing
starts; every incremental chunk and the final value are printed as they
resolve.

Examples:
  jsonstream-demo watch --path title --path tags[0] < response.jsonl
  jsonstream-demo watch --file response.jsonl --path user.email --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), a, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "path to a file of JSON fragments (defaults to stdin)")
	cmd.Flags().StringSliceVarP(&opts.paths, "path", "p", []string{""}, "dotted/indexed path to subscribe to (repeatable; empty means the root value)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "reject unknown escapes and trailing commas instead of tolerating them")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "print a debug summary after the stream ends")

	return cmd
}

func runWatch(ctx context.Context, a *app, opts *watchOptions) error {
	var fOpts []jsonstream.Option
	if opts.strict {
		fOpts = append(fOpts, jsonstream.WithStrict())
	}
	facade := jsonstream.New(fOpts...)

	type sub struct {
		text string
		s    *jsonstream.Subscription
	}
	var subs []sub
	for _, text := range opts.paths {
		s, err := facade.SubscribePath(text, jsonstream.KindUnknown)
		if err != nil {
			return fmt.Errorf("subscribing to %q: %w", text, err)
		}
		subs = append(subs, sub{text: text, s: s})
	}

	r := os.Stdin
	if opts.file != "" {
		f, err := os.Open(opts.file)
		if err != nil {
			return fmt.Errorf("opening %s: %w", opts.file, err)
		}
		defer f.Close()
		r = f
	}

	engine := jsonstream.NewParserEngine(facade, jsonstream.NewReaderSource(r))
	g := engine.RunAsync(ctx)

	var wg sync.WaitGroup
	for _, sb := range subs {
		wg.Add(1)
		go func(sb sub) {
			defer wg.Done()
			label := sb.text
			if label == "" {
				label = "<root>"
			}
			for v := range sb.s.Iterate() {
				fmt.Fprintf(a.stdout, "[%s] chunk: %+v\n", label, v)
			}
			final, err := sb.s.Await(ctx)
			if err != nil {
				fmt.Fprintf(a.stderr, "[%s] error: %v\n", label, err)
				return
			}
			fmt.Fprintf(a.stdout, "[%s] final: %+v\n", label, final)
		}(sb)
	}

	runErr := g.Wait()
	wg.Wait()

	if opts.debug {
		y, err := facade.DebugYAML()
		if err == nil {
			fmt.Fprintln(a.stdout, "---")
			fmt.Fprint(a.stdout, y)
		}
	}

	return runErr
}
