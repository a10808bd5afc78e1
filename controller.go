package jsonstream

import "sync"

// subQueue is the per-subscriber delivery queue backing Subscription.Iterate.
// It is a classic condition-variable-guarded queue: pushes append and signal,
// the iterator loop waits until an item is available or the queue closes.
type subQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Value
	closed bool
	err    error
}

func newSubQueue() *subQueue {
	q := &subQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *subQueue) push(v Value) {
	q.mu.Lock()
	if !q.closed {
		q.items = append(q.items, v)
	}
	q.mu.Unlock()
	q.cond.Broadcast()
}

func (q *subQueue) finish(err error) {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.err = err
	}
	q.mu.Unlock()
	q.cond.Broadcast()
}

// next blocks until an item is available or the queue closes.
func (q *subQueue) next() (Value, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) > 0 {
		v := q.items[0]
		q.items = q.items[1:]
		return v, true, nil
	}
	return Value{}, false, q.err
}

// subscriberRecord tracks one issued Subscription so the controller can
// resolve a kind conflict discovered later against exactly that subscriber,
// per the "TypeMismatch affects that subscription only" scoping rule.
type subscriberRecord struct {
	wantKind Kind
	queue    *subQueue
	doneCh   chan struct{}
	// mu guards err/result, which are written at most once.
	mu     sync.Mutex
	err    error
	result Value
}

func (r *subscriberRecord) failWith(err error) {
	r.mu.Lock()
	select {
	case <-r.doneCh:
		r.mu.Unlock()
		return
	default:
	}
	r.err = err
	close(r.doneCh)
	r.mu.Unlock()
	r.queue.finish(err)
}

func (r *subscriberRecord) succeedWith(v Value) {
	r.mu.Lock()
	select {
	case <-r.doneCh:
		r.mu.Unlock()
		return
	default:
	}
	r.result = v
	close(r.doneCh)
	r.mu.Unlock()
}

// discoveredChild records the identity of a property/element spawned by an
// Object/Array delegate, kept so a late OnProperty/OnElement observer can be
// replayed the full discovery history rather than only future discoveries.
// It deliberately stores the child's raw path/kind/controller rather than a
// pre-built Subscription: building a Subscription means addSubscriber, which
// registers a permanent subscriber record that every later chunk on the
// child is pushed to for the controller's lifetime. Since most discovered
// children are never observed via OnProperty/OnElement, that Subscription is
// built lazily, only at the moment an observer callback actually fires.
type discoveredChild struct {
	key       string // object child
	index     int    // array child
	isIndex   bool
	childPath Path
	childKind Kind
	childCtrl *controller
}

// subscription builds the Subscription handed to an OnProperty/OnElement
// observer, creating the child's discovery subscriber at the point of use
// rather than at spawn time.
func (c *controller) subscription(path Path, kind Kind) *Subscription {
	return &Subscription{path: path, ctrl: c, rec: c.addSubscriber(kind)}
}

// controller is the per-path fan-out point described as StreamController<T>
// in the specification. One is created the first time either a subscriber or
// the parser touches a path.
type controller struct {
	mu sync.Mutex

	path Path
	kind Kind
	// kindConfirmed is true once the parser itself has created or confirmed
	// this controller's kind; until then the kind is only a subscriber's
	// guess and may be overridden by the parser's authoritative discovery.
	kindConfirmed bool

	latestText     string // String kind: full accumulated text so far.
	latestSnapshot Value  // Object/Array kind: last published snapshot.
	hasSnapshot    bool

	final    Value
	hasFinal bool
	err      error
	closed   bool
	doneCh   chan struct{}

	subscribers []*subscriberRecord

	propertyObservers []func(key string, child *Subscription)
	elementObservers  []func(index int, child *Subscription)
	discovered        []discoveredChild
}

func newController(path Path, kind Kind) *controller {
	return &controller{
		path:   path,
		kind:   kind,
		doneCh: make(chan struct{}),
	}
}

// pushChunk delivers one incremental update. For String kind, v.Text is a
// delta appended to the accumulated text. For Object/Array kind, v is the
// full current snapshot (already a defensive shallow copy). A push after
// completion or failure is silently dropped.
func (c *controller) pushChunk(v Value) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	switch c.kind {
	case KindString:
		c.latestText += v.Text
	case KindObject, KindArray:
		c.latestSnapshot = v
		c.hasSnapshot = true
	}
	subs := make([]*subQueue, 0, len(c.subscribers))
	for _, s := range c.subscribers {
		subs = append(subs, s.queue)
	}
	c.mu.Unlock()

	for _, q := range subs {
		q.push(v)
	}
}

// complete marks the controller as successfully finished with value v. For
// atomic kinds (Number/Boolean/Null) v is also delivered as the single
// iterate chunk, since no pushChunk call happens for those kinds otherwise.
// For Object/Array kinds the final snapshot is delivered once more so a late
// stream subscriber's last item always matches finalValue. For String kind
// no extra chunk is emitted: the delegate already flushed the tail buffer via
// pushChunk before calling complete, and emitting the full text again here
// would duplicate it.
func (c *controller) complete(v Value) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.final = v
	c.hasFinal = true
	c.closed = true
	emit := c.kind != KindString
	recs := append([]*subscriberRecord(nil), c.subscribers...)
	c.mu.Unlock()

	for _, r := range recs {
		if emit {
			r.queue.push(v)
		}
		r.succeedWith(v)
		r.queue.finish(nil)
	}
	close(c.doneCh)
}

// fail marks the controller as failed. Every current and future subscriber
// observes err.
func (c *controller) fail(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.err = err
	c.closed = true
	recs := append([]*subscriberRecord(nil), c.subscribers...)
	c.mu.Unlock()

	for _, r := range recs {
		r.failWith(err)
	}
	close(c.doneCh)
}

// currentKind safely reads the controller's kind, which the parser may
// still revise via overrideKind after a subscription was created against an
// earlier guess.
func (c *controller) currentKind() Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kind
}

// checkKind synchronously validates a prospective subscriber's wanted kind
// against whatever is already known about this controller, without
// registering anything. A mismatch against the parser's confirmed kind, or
// against an earlier subscriber's still-unconfirmed guess, is reported
// immediately to the caller of Subscribe rather than deferred to a later
// TypeMismatch failure.
func (c *controller) checkKind(want Kind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if want == KindUnknown || c.kind == KindUnknown {
		return nil
	}
	if c.kind != want {
		return newTypeMismatch(c.path, want, c.kind)
	}
	return nil
}

// addSubscriber registers a new subscriber record and returns it with its
// queue already seeded with the replay items (per the "replay the latest"
// buffered semantics); for an already-closed controller the record is
// resolved immediately instead of registered.
func (c *controller) addSubscriber(wantKind Kind) *subscriberRecord {
	rec := &subscriberRecord{wantKind: wantKind, queue: newSubQueue(), doneCh: make(chan struct{})}

	c.mu.Lock()
	closed, err, final, kind := c.closed, c.err, c.final, c.kind
	if !closed {
		switch kind {
		case KindString:
			if c.latestText != "" {
				rec.queue.push(Value{Kind: KindString, Text: c.latestText})
			}
		case KindObject, KindArray:
			if c.hasSnapshot {
				rec.queue.push(c.latestSnapshot)
			}
		}
		c.subscribers = append(c.subscribers, rec)
	}
	c.mu.Unlock()

	if closed {
		if err != nil {
			rec.failWith(err)
			return rec
		}
		rec.succeedWith(final)
		if kind == KindString {
			rec.queue.push(Value{Kind: KindString, Text: final.Text})
		} else {
			rec.queue.push(final)
		}
		rec.queue.finish(nil)
	}
	return rec
}

// notifyProperty records a newly discovered object key and fires any
// registered OnProperty observers, replaying discovery history to late
// registrants via addPropertyObserver. The child's Subscription is built
// only if there is at least one observer to hand it to.
func (c *controller) notifyProperty(key string, childPath Path, childKind Kind, childCtrl *controller) {
	c.mu.Lock()
	c.discovered = append(c.discovered, discoveredChild{key: key, childPath: childPath, childKind: childKind, childCtrl: childCtrl})
	observers := append([]func(string, *Subscription){}, c.propertyObservers...)
	c.mu.Unlock()
	for _, obs := range observers {
		obs(key, childCtrl.subscription(childPath, childKind))
	}
}

// notifyElement records a newly discovered array element and fires any
// registered OnElement observers, under the same lazy-Subscription rule as
// notifyProperty.
func (c *controller) notifyElement(index int, childPath Path, childKind Kind, childCtrl *controller) {
	c.mu.Lock()
	c.discovered = append(c.discovered, discoveredChild{index: index, isIndex: true, childPath: childPath, childKind: childKind, childCtrl: childCtrl})
	observers := append([]func(int, *Subscription){}, c.elementObservers...)
	c.mu.Unlock()
	for _, obs := range observers {
		obs(index, childCtrl.subscription(childPath, childKind))
	}
}

func (c *controller) addPropertyObserver(cb func(key string, child *Subscription)) {
	c.mu.Lock()
	past := make([]discoveredChild, 0, len(c.discovered))
	for _, d := range c.discovered {
		if !d.isIndex {
			past = append(past, d)
		}
	}
	c.propertyObservers = append(c.propertyObservers, cb)
	c.mu.Unlock()
	for _, d := range past {
		cb(d.key, d.childCtrl.subscription(d.childPath, d.childKind))
	}
}

func (c *controller) addElementObserver(cb func(index int, child *Subscription)) {
	c.mu.Lock()
	past := make([]discoveredChild, 0, len(c.discovered))
	for _, d := range c.discovered {
		if d.isIndex {
			past = append(past, d)
		}
	}
	c.elementObservers = append(c.elementObservers, cb)
	c.mu.Unlock()
	for _, d := range past {
		cb(d.index, d.childCtrl.subscription(d.childPath, d.childKind))
	}
}

// overrideKind is invoked by the parser's get-or-create path when it
// discovers this path's true kind differs from an earlier subscriber guess.
// Every already-issued subscription whose requested kind doesn't match the
// newly confirmed kind fails with TypeMismatch; the controller itself adopts
// the new kind and continues operating normally for the parser and for any
// future, correctly-kinded subscribers.
func (c *controller) overrideKind(newKind Kind) {
	c.mu.Lock()
	c.kind = newKind
	c.kindConfirmed = true
	mismatched := make([]*subscriberRecord, 0)
	for _, r := range c.subscribers {
		if r.wantKind != KindUnknown && r.wantKind != newKind {
			mismatched = append(mismatched, r)
		}
	}
	path := c.path
	c.mu.Unlock()

	for _, r := range mismatched {
		r.failWith(newTypeMismatch(path, r.wantKind, newKind))
	}
}
