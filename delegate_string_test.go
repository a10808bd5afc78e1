package jsonstream

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedString(t *testing.T, f *Facade, text string) {
	t.Helper()
	for i := 0; i < len(text); i++ {
		require.NoError(t, f.AddCharacter(text[i]))
	}
}

// feedUntilError feeds text one character at a time and returns the first
// error AddCharacter reports, or nil if every character was accepted.
func feedUntilError(f *Facade, text string) error {
	for i := 0; i < len(text); i++ {
		if err := f.AddCharacter(text[i]); err != nil {
			return err
		}
	}
	return nil
}

func TestStringDelegateBasic(t *testing.T) {
	f := New()
	sub, err := f.Subscribe(Root(), KindString)
	require.NoError(t, err)

	feedString(t, f, `"hello"`)
	require.NoError(t, f.EndOfStream())

	v, err := sub.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", v.Text)
}

func TestStringDelegateEscapes(t *testing.T) {
	f := New()
	sub, err := f.Subscribe(Root(), KindString)
	require.NoError(t, err)

	feedString(t, f, `"line\nbreak\tand\"quote"`)
	require.NoError(t, f.EndOfStream())

	v, err := sub.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "line\nbreak\tand\"quote", v.Text)
}

func TestStringDelegateUnicodeEscapePassesThroughVerbatim(t *testing.T) {
	f := New()
	sub, err := f.Subscribe(Root(), KindString)
	require.NoError(t, err)

	feedString(t, f, `"\`+`u00e9"`)
	require.NoError(t, f.EndOfStream())

	v, err := sub.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `\`+`u00e9`, v.Text, "\\u escapes are not decoded, per the spec's explicit non-goal")
}

func TestStringDelegateStrictRejectsUnknownEscape(t *testing.T) {
	f := New(WithStrict())
	sub, err := f.Subscribe(Root(), KindString)
	require.NoError(t, err)

	require.ErrorIs(t, feedUntilError(f, `"bad\qescape"`), ErrMalformed)

	_, err = sub.Await(context.Background())
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestStringDelegateLenientPassesThroughUnknownEscape(t *testing.T) {
	f := New()
	sub, err := f.Subscribe(Root(), KindString)
	require.NoError(t, err)

	feedString(t, f, `"bad\qescape"`)
	require.NoError(t, f.EndOfStream())

	v, err := sub.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `bad\qescape`, v.Text)
}

func TestStringDelegateConcatenationInvariant(t *testing.T) {
	f := New()
	sub, err := f.Subscribe(Root(), KindString)
	require.NoError(t, err)

	for _, ch := range []string{`"`, "hel", "lo ", "wor", `ld"`} {
		feedString(t, f, ch)
		f.OnChunkEnd()
	}
	require.NoError(t, f.EndOfStream())

	var concatenated string
	for v := range sub.Iterate() {
		concatenated += v.Text
	}
	v, err := sub.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, v.Text, concatenated)
	assert.Equal(t, "hello world", concatenated)
}

func TestStringDelegateLateSubscriberAfterCompletionReplaysFullText(t *testing.T) {
	f := New()
	feedString(t, f, `"hello world"`)
	require.NoError(t, f.EndOfStream())

	sub, err := f.Subscribe(Root(), KindString)
	require.NoError(t, err)

	var concatenated string
	for v := range sub.Iterate() {
		concatenated += v.Text
	}
	assert.Equal(t, "hello world", concatenated)

	v, err := sub.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello world", v.Text)
}
