package jsonstream

import "context"

// Subscription is a consumer-side handle combining a one-shot future
// (Await) and an asynchronous sequence (Iterate) over a single path. A
// Subscription may be obtained before, during, or after the node at its
// path has been parsed.
type Subscription struct {
	path Path
	ctrl *controller
	rec  *subscriberRecord
}

// Path returns the path this subscription addresses.
func (s *Subscription) Path() Path {
	return s.path
}

// Kind returns the kind this subscription was created with.
func (s *Subscription) Kind() Kind {
	return s.rec.wantKind
}

// Await blocks until the node at this path completes or fails, or until ctx
// is done. It may be called any number of times and always returns the same
// result once resolved.
func (s *Subscription) Await(ctx context.Context) (Value, error) {
	select {
	case <-s.rec.doneCh:
		s.rec.mu.Lock()
		defer s.rec.mu.Unlock()
		return s.rec.result, s.rec.err
	case <-ctx.Done():
		return Value{}, ctx.Err()
	}
}

// Iterate returns a range-over-func iterator of incremental updates: text
// deltas for String paths, monotonic snapshots for Object/Array paths, and a
// single final value for atomic kinds. Iteration stops once the underlying
// controller completes or fails; a failure is available afterwards via
// Await, mirroring the teacher's pattern of checking stream.Err() after
// ranging over stream.Iter().
func (s *Subscription) Iterate() func(yield func(Value) bool) {
	return func(yield func(Value) bool) {
		for {
			v, ok, _ := s.rec.queue.next()
			if !ok {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

// OnProperty registers a callback fired once for each object key discovered
// at this path, in discovery order. Keys already discovered before this call
// are replayed immediately. A no-op unless the path's controller currently
// holds KindObject (as discovered by the parser, or as first declared by a
// subscriber before that).
func (s *Subscription) OnProperty(cb func(child *Subscription, key string)) {
	if s.ctrl.currentKind() != KindObject {
		return
	}
	s.ctrl.addPropertyObserver(func(key string, child *Subscription) {
		cb(child, key)
	})
}

// OnElement registers a callback fired once for each array element
// discovered at this path, in index order. Elements already discovered
// before this call are replayed immediately. A no-op unless the path's
// controller currently holds KindArray (as discovered by the parser, or as
// first declared by a subscriber before that).
func (s *Subscription) OnElement(cb func(child *Subscription, index int)) {
	if s.ctrl.currentKind() != KindArray {
		return
	}
	s.ctrl.addElementObserver(func(index int, child *Subscription) {
		cb(child, index)
	})
}
