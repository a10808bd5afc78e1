package jsonstream

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooleanDelegateTrueAndFalse(t *testing.T) {
	for _, tc := range []struct {
		text string
		want bool
	}{
		{"true", true},
		{"false", false},
	} {
		f := New()
		sub, err := f.Subscribe(Root(), KindBoolean)
		require.NoError(t, err)
		feedString(t, f, tc.text)
		require.NoError(t, f.EndOfStream())

		v, err := sub.Await(context.Background())
		require.NoError(t, err, tc.text)
		assert.Equal(t, tc.want, v.Bool, tc.text)
	}
}

func TestBooleanDelegateRejectsGarbage(t *testing.T) {
	f := New()
	sub, err := f.Subscribe(Root(), KindBoolean)
	require.NoError(t, err)
	err = f.AddCharacter('t')
	require.NoError(t, err)
	err = f.AddCharacter('x')
	if err == nil {
		_, err = sub.Await(context.Background())
	}
	assert.ErrorIs(t, err, ErrMalformed)
}
