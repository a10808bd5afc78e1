package jsonstream

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerStringChunkingAndCompletion(t *testing.T) {
	ctrl := newController(Root(), KindString)
	rec := ctrl.addSubscriber(KindString)
	sub := &Subscription{path: Root(), ctrl: ctrl, rec: rec}

	ctrl.pushChunk(Value{Kind: KindString, Text: "hel"})
	ctrl.pushChunk(Value{Kind: KindString, Text: "lo"})
	ctrl.complete(Value{Kind: KindString, Text: "hello"})

	var got []string
	for v := range sub.Iterate() {
		got = append(got, v.Text)
	}
	assert.Equal(t, []string{"hel", "lo"}, got, "string completion must not re-emit the full text as an extra chunk")

	final, err := sub.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", final.Text)
}

func TestControllerAtomicEmitsFinalAsOnlyChunk(t *testing.T) {
	ctrl := newController(Root(), KindNumber)
	rec := ctrl.addSubscriber(KindNumber)
	sub := &Subscription{path: Root(), ctrl: ctrl, rec: rec}

	ctrl.complete(Float(42))

	var got []Value
	for v := range sub.Iterate() {
		got = append(got, v)
	}
	require.Len(t, got, 1)
	assert.Equal(t, 42.0, got[0].Num.Value)
}

func TestControllerLateSubscriberReplaysLatest(t *testing.T) {
	ctrl := newController(Root(), KindObject)
	ctrl.pushChunk(Value{Kind: KindObject, Object: map[string]Value{"a": Float(1)}})

	rec := ctrl.addSubscriber(KindObject)
	v, ok, err := rec.queue.next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1.0, v.Object["a"].Num.Value)
}

func TestControllerSubscribeAfterCompletionResolvesImmediately(t *testing.T) {
	ctrl := newController(Root(), KindBoolean)
	ctrl.complete(Boolean(true))

	rec := ctrl.addSubscriber(KindBoolean)
	sub := &Subscription{path: Root(), ctrl: ctrl, rec: rec}
	final, err := sub.Await(context.Background())
	require.NoError(t, err)
	assert.True(t, final.Bool)
}

func TestControllerFailFailsAllSubscribers(t *testing.T) {
	ctrl := newController(Root(), KindString)
	recA := ctrl.addSubscriber(KindString)
	recB := ctrl.addSubscriber(KindString)

	ctrl.fail(ErrMalformed)

	for _, rec := range []*subscriberRecord{recA, recB} {
		sub := &Subscription{path: Root(), ctrl: ctrl, rec: rec}
		_, err := sub.Await(context.Background())
		assert.ErrorIs(t, err, ErrMalformed)
	}
}

func TestControllerOverrideKindFailsOnlyMismatchedSubscribers(t *testing.T) {
	ctrl := newController(Root(), KindUnknown)
	wantString := ctrl.addSubscriber(KindString)
	wantNumber := ctrl.addSubscriber(KindNumber)

	ctrl.overrideKind(KindString)
	ctrl.complete(String("hi"))

	stringSub := &Subscription{path: Root(), ctrl: ctrl, rec: wantString}
	v, err := stringSub.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hi", v.Text)

	numberSub := &Subscription{path: Root(), ctrl: ctrl, rec: wantNumber}
	_, err = numberSub.Await(context.Background())
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestControllerPropertyObserverReplaysPastDiscoveries(t *testing.T) {
	ctrl := newController(Root(), KindObject)
	childPath := Root().AppendKey("a")
	childCtrl := newController(childPath, KindString)

	ctrl.notifyProperty("a", childPath, KindString, childCtrl)

	var seen []string
	ctrl.addPropertyObserver(func(key string, c *Subscription) {
		seen = append(seen, key)
	})
	assert.Equal(t, []string{"a"}, seen)
}

func TestControllerDiscoveredChildWithNoObserverNeverBecomesSubscriber(t *testing.T) {
	ctrl := newController(Root(), KindObject)
	childPath := Root().AppendKey("a")
	childCtrl := newController(childPath, KindString)

	ctrl.notifyProperty("a", childPath, KindString, childCtrl)

	childCtrl.mu.Lock()
	n := len(childCtrl.subscribers)
	childCtrl.mu.Unlock()
	assert.Zero(t, n, "a discovered child with no OnProperty observer must not register a permanent subscriber")

	for i := 0; i < 1000; i++ {
		childCtrl.pushChunk(Value{Kind: KindString, Text: "x"})
	}

	childCtrl.mu.Lock()
	n = len(childCtrl.subscribers)
	childCtrl.mu.Unlock()
	assert.Zero(t, n, "pushChunk must not have caused a subscriber to accumulate")
}
