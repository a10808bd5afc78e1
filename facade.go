package jsonstream

import (
	"sync"

	"github.com/google/uuid"
)

// Facade is the entry point described in SPEC_FULL.md §4.4/§4.5: the single
// object a caller feeds characters into and subscribes to paths on. It owns
// the root delegate, the registry of per-path controllers, and the optional
// schema hints and strict-mode toggle set at construction.
//
// A Facade's character-feeding methods (AddCharacter, OnChunkEnd,
// EndOfStream) are meant to be driven by one goroutine at a time, mirroring
// the single-threaded cooperative parser core in the specification.
// Dispose and FailSource may be called from any goroutine.
type Facade struct {
	mu          sync.Mutex
	controllers map[string]*controller
	schemas     map[string]*Schema
	strictMode  bool
	debugStats  debugStats

	root     propertyDelegate
	rootKind Kind
	started  bool
	rootDone bool

	disposed    bool
	disposeOnce sync.Once

	id string
}

// Option configures a Facade at construction, following the teacher's
// functional-options convention (llms.LLM's WithDebug/WithMaxTurns).
type Option func(*Facade)

// WithStrict rejects input a lenient parse would otherwise tolerate:
// unknown backslash escapes and a trailing comma before a closing bracket
// both become Malformed instead of being passed through or ignored.
func WithStrict() Option {
	return func(f *Facade) { f.strictMode = true }
}

// WithSchema declares a non-authoritative shape hint for the value at path.
// A missing required key surfaces when that node would otherwise have
// completed successfully; an array element of the wrong kind surfaces as
// soon as that element starts (SPEC_FULL.md §4.6).
func WithSchema(path Path, schema *Schema) Option {
	return func(f *Facade) { f.schemas[path.String()] = schema }
}

// New constructs a Facade ready to receive characters via AddCharacter.
func New(opts ...Option) *Facade {
	f := &Facade{
		controllers: make(map[string]*controller),
		schemas:     make(map[string]*Schema),
		id:          uuid.New().String(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ID returns a unique identifier for this parser instance, useful for
// correlating log lines across a long-running stream.
func (f *Facade) ID() string {
	return f.id
}

func (f *Facade) strict() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.strictMode
}

// SetSchema registers (or replaces) the schema hint for path after
// construction, for example once a caller learns the expected shape from a
// tool definition discovered mid-session.
func (f *Facade) SetSchema(path Path, schema *Schema) {
	f.mu.Lock()
	f.schemas[path.String()] = schema
	f.mu.Unlock()
}

// registerChildSchema is the internal counterpart used by object/array
// delegates to propagate a nested Schema down to a freshly spawned child's
// path, so that child's own delegate (if it is itself an object or array)
// picks it up via schemaFor when newDelegateFor constructs it.
func (f *Facade) registerChildSchema(path Path, schema *Schema) {
	if schema == nil {
		return
	}
	f.SetSchema(path, schema)
}

// controllerForParser is the parser-authoritative get-or-create: the first
// call for a path creates its controller with the parser's discovered kind;
// a later call (which only happens if a subscriber had already guessed a
// kind before the parser reached that path) reconciles the controller's kind
// against the parser's authoritative discovery via overrideKind.
func (f *Facade) controllerForParser(path Path, kind Kind) *controller {
	key := path.String()
	f.mu.Lock()
	ctrl, existed := f.controllers[key]
	if !existed {
		ctrl = newController(path, kind)
		ctrl.kindConfirmed = true
		f.controllers[key] = ctrl
	}
	f.mu.Unlock()
	if existed {
		ctrl.overrideKind(kind)
	}
	return ctrl
}

// controllerForSubscriber is the subscriber-side get-or-create: it never
// overrides an existing controller's kind, since the parser alone is
// authoritative over kind.
func (f *Facade) controllerForSubscriber(path Path, kind Kind) *controller {
	key := path.String()
	f.mu.Lock()
	defer f.mu.Unlock()
	ctrl, ok := f.controllers[key]
	if !ok {
		ctrl = newController(path, kind)
		f.controllers[key] = ctrl
	}
	return ctrl
}

// AddCharacter feeds one character of JSON text into the parser. It is the
// sole entry point the teacher's FragmentSource-driven engine (see
// engine.go) calls in a loop.
func (f *Facade) AddCharacter(c byte) error {
	f.mu.Lock()
	if f.disposed {
		f.mu.Unlock()
		return ErrDisposed
	}
	f.debugStats.chars++
	started := f.started
	rootDone := f.rootDone
	f.mu.Unlock()

	if rootDone {
		// Trailing whitespace/garbage after the root value completed is
		// ignored, mirroring the leading-whitespace tolerance below.
		return nil
	}

	if !started {
		if isSpace(c) {
			return nil
		}
		kind := kindForFirstChar(c)
		ctrl := f.controllerForParser(Root(), kind)
		root := f.newDelegateFor(kind, Root(), ctrl)

		f.mu.Lock()
		f.root = root
		f.rootKind = kind
		f.started = true
		f.mu.Unlock()
	}

	return f.feedRoot(c)
}

func (f *Facade) feedRoot(c byte) error {
	res := f.root.addCharacter(c)
	if res.err != nil {
		f.failAllMalformed(res.err)
		return res.err
	}
	if res.done {
		f.mu.Lock()
		f.rootDone = true
		f.mu.Unlock()
	}
	return nil
}

// OnChunkEnd notifies the parser that a fragment boundary was reached, so
// every delegate still buffering (most importantly an open string) flushes
// its pending text as a chunk.
func (f *Facade) OnChunkEnd() {
	f.mu.Lock()
	root := f.root
	done := f.rootDone
	f.debugStats.chunkEnds++
	f.mu.Unlock()
	if root != nil && !done {
		root.onChunkEnd()
	}
}

// EndOfStream signals that no more characters will arrive. A bare top-level
// number is completed here, since nothing else terminates it. Any path whose
// node never completed fails with Incomplete.
func (f *Facade) EndOfStream() error {
	f.OnChunkEnd()

	f.mu.Lock()
	root, started, done := f.root, f.started, f.rootDone
	f.mu.Unlock()

	if num, ok := root.(*numberDelegate); ok && !done {
		if res := num.finish(); res.err != nil {
			f.failAllMalformed(res.err)
			return res.err
		}
		f.mu.Lock()
		f.rootDone = true
		f.mu.Unlock()
		done = true
	}

	if started && done {
		// Only subscriptions to paths the document never contained are
		// still open here.
		f.failAllWith(newIncomplete)
		return nil
	}
	f.failAllWith(newIncomplete)
	return newIncomplete(Root())
}

// Subscribe returns a handle for path, creating its controller if the
// parser hasn't reached it yet. kind is the caller's best guess (KindUnknown
// if the caller has none); a guess that conflicts with what's already known
// fails immediately rather than silently being accepted.
func (f *Facade) Subscribe(path Path, kind Kind) (*Subscription, error) {
	f.mu.Lock()
	disposed := f.disposed
	f.mu.Unlock()
	if disposed {
		return nil, newDisposed(path)
	}

	ctrl := f.controllerForSubscriber(path, kind)
	if err := ctrl.checkKind(kind); err != nil {
		return nil, err
	}
	rec := ctrl.addSubscriber(kind)
	return &Subscription{path: path, ctrl: ctrl, rec: rec}, nil
}

// SubscribePath parses text as a canonical path expression before
// subscribing, for callers that address paths by string.
func (f *Facade) SubscribePath(text string, kind Kind) (*Subscription, error) {
	path, err := ParsePath(text)
	if err != nil {
		return nil, err
	}
	return f.Subscribe(path, kind)
}

// Dispose permanently shuts the parser down: every pending subscription
// fails with Disposed, and every subsequent AddCharacter call does too.
// Safe to call more than once or concurrently with AddCharacter.
func (f *Facade) Dispose() {
	f.disposeOnce.Do(func() {
		f.mu.Lock()
		f.disposed = true
		f.mu.Unlock()
		f.failAllWith(newDisposed)
	})
}

// FailSource propagates an error from the underlying character source (a
// failed read, a canceled context) to every pending subscription.
func (f *Facade) FailSource(cause error) {
	f.failAllWith(func(p Path) error { return newSourceError(p, cause) })
}

// failAllWith fails every controller that hasn't already completed or
// failed, each with its own path-scoped error from gen.
func (f *Facade) failAllWith(gen func(Path) error) {
	for _, c := range f.snapshotControllers() {
		c.fail(gen(c.path))
	}
}

// failAllMalformed implements the Malformed error's documented scope: once
// any part of the document is discovered to be malformed, the whole
// document is unparseable, so the root controller and every descendant
// controller fail with the same error.
func (f *Facade) failAllMalformed(err error) {
	for _, c := range f.snapshotControllers() {
		c.fail(err)
	}
}

func (f *Facade) snapshotControllers() []*controller {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*controller, 0, len(f.controllers))
	for _, c := range f.controllers {
		out = append(out, c)
	}
	return out
}
