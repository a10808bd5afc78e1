package jsonstream

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayDelegateBasic(t *testing.T) {
	f := New()
	sub, err := f.Subscribe(Root(), KindArray)
	require.NoError(t, err)

	feedString(t, f, `[1, "two", true, null]`)
	require.NoError(t, f.EndOfStream())

	v, err := sub.Await(context.Background())
	require.NoError(t, err)
	require.Len(t, v.Array, 4)
	assert.Equal(t, 1.0, v.Array[0].Num.Value)
	assert.Equal(t, "two", v.Array[1].Text)
	assert.True(t, v.Array[2].Bool)
	assert.Equal(t, KindNull, v.Array[3].Kind)
}

func TestArrayDelegateOnElementFiresInIndexOrder(t *testing.T) {
	f := New()
	root, err := f.Subscribe(Root(), KindArray)
	require.NoError(t, err)

	var indices []int
	root.OnElement(func(child *Subscription, index int) {
		indices = append(indices, index)
	})

	feedString(t, f, `[10, 20, 30]`)
	require.NoError(t, f.EndOfStream())

	assert.Equal(t, []int{0, 1, 2}, indices)
}

func TestArrayDelegateElementSubscription(t *testing.T) {
	f := New()
	second, err := f.Subscribe(Root().AppendIndex(1), KindString)
	require.NoError(t, err)

	feedString(t, f, `["a", "b", "c"]`)
	require.NoError(t, f.EndOfStream())

	v, err := second.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b", v.Text)
}

func TestArrayDelegateElementKindSchemaViolationIsMalformed(t *testing.T) {
	f := New(WithSchema(Root(), &Schema{ElementKind: KindNumber}))
	sub, err := f.Subscribe(Root(), KindArray)
	require.NoError(t, err)

	require.ErrorIs(t, feedUntilError(f, `[1, "oops"]`), ErrMalformed)

	_, err = sub.Await(context.Background())
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestArrayDelegateEmptyArray(t *testing.T) {
	f := New()
	sub, err := f.Subscribe(Root(), KindArray)
	require.NoError(t, err)

	feedString(t, f, `[]`)
	require.NoError(t, f.EndOfStream())

	v, err := sub.Await(context.Background())
	require.NoError(t, err)
	assert.Empty(t, v.Array)
}
