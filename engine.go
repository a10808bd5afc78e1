package jsonstream

import (
	"bufio"
	"context"
	"io"

	"golang.org/x/sync/errgroup"
)

// FragmentSource yields successive fragments of JSON text, each call
// returning the next chunk as it becomes available from whatever is
// producing it (an LLM token stream, a network read, a test fixture). A
// fragment boundary is exactly a Facade.OnChunkEnd point. Next returns
// io.EOF once the source is exhausted.
type FragmentSource interface {
	Next(ctx context.Context) (string, error)
}

// SliceSource replays a fixed list of fragments, used by tests that drive
// the engine at specific chunk sizes and timings.
type SliceSource struct {
	fragments []string
	i         int
}

// NewSliceSource builds a FragmentSource over fragments, in order.
func NewSliceSource(fragments ...string) *SliceSource {
	return &SliceSource{fragments: fragments}
}

func (s *SliceSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.i >= len(s.fragments) {
		return "", io.EOF
	}
	f := s.fragments[s.i]
	s.i++
	return f, nil
}

// ReaderSource reads fragments line-by-line from r via bufio.Scanner, the
// shape a CLI reading from stdin or a file actually has.
type ReaderSource struct {
	scanner *bufio.Scanner
}

// NewReaderSource wraps r as a FragmentSource, one line per fragment.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{scanner: bufio.NewScanner(r)}
}

func (s *ReaderSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

// ParserEngine drives a Facade from a FragmentSource: it owns the goroutine
// that pulls fragments, feeds each character to the Facade, calls
// OnChunkEnd after every fragment, and calls EndOfStream once the source is
// exhausted.
type ParserEngine struct {
	facade *Facade
	source FragmentSource
}

// NewParserEngine pairs facade with source. The caller still owns facade
// for subscribing before or while Run executes.
func NewParserEngine(facade *Facade, source FragmentSource) *ParserEngine {
	return &ParserEngine{facade: facade, source: source}
}

// Run pulls fragments from the source until it's exhausted or ctx is
// canceled, feeding every character to the Facade and flushing at each
// fragment boundary. On a source error other than io.EOF, every pending
// subscription is failed with SourceError via Facade.FailSource. On context
// cancellation, every pending subscription is failed the same way.
//
// Run blocks until done; callers that want to run it alongside other work
// should call it from their own goroutine (see RunAsync).
func (e *ParserEngine) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			e.facade.FailSource(err)
			return err
		}

		fragment, err := e.source.Next(ctx)
		if err != nil {
			if err == io.EOF {
				return e.facade.EndOfStream()
			}
			e.facade.FailSource(err)
			return err
		}

		for i := 0; i < len(fragment); i++ {
			if i%64 == 0 {
				if cerr := ctx.Err(); cerr != nil {
					e.facade.FailSource(cerr)
					return cerr
				}
			}
			if err := e.facade.AddCharacter(fragment[i]); err != nil {
				return err
			}
		}
		e.facade.OnChunkEnd()
	}
}

// RunAsync starts Run on its own goroutine and returns an errgroup.Group
// whose Wait reports Run's result, mirroring the teacher's mcp package use
// of golang.org/x/sync/errgroup to coordinate a background worker against
// its owner's lifetime.
func (e *ParserEngine) RunAsync(ctx context.Context) *errgroup.Group {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return e.Run(gctx)
	})
	return g
}

// Dispose tears the underlying Facade down, failing every pending
// subscription with Disposed. Safe to call after Run has already returned.
func (e *ParserEngine) Dispose() {
	e.facade.Dispose()
}
