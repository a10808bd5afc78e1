package jsonstream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePathCanonicalForms(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"", ""},
		{"a", "a"},
		{"ab", "ab"},
		{"a.b", "a.b"},
		{"a.b.c", "a.b.c"},
		{"a[0]", "a[0]"},
		{"a[0].b", "a[0].b"},
		{"[0]", "[0]"},
		{"[0][1]", "[0][1]"},
		{"[0].b", "[0].b"},
	}
	for _, tc := range cases {
		p, err := ParsePath(tc.text)
		require.NoError(t, err, tc.text)
		assert.Equal(t, tc.want, p.String(), tc.text)
	}
}

func TestParsePathRejectsMalformedText(t *testing.T) {
	bad := []string{
		".a", "a.", "a..b", "a.[0]", "[0]b", "[", "[]", "[x]", "[-1]", "..",
	}
	for _, text := range bad {
		_, err := ParsePath(text)
		require.Error(t, err, text)
		assert.True(t, errors.Is(err, ErrBadPath), text)
	}
}

func TestPathEqualAndAppend(t *testing.T) {
	a := Root().AppendKey("items").AppendIndex(2).AppendKey("name")
	b, err := ParsePath("items[2].name")
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.Equal(t, "items[2].name", a.String())

	c := Root().AppendKey("items").AppendIndex(3).AppendKey("name")
	assert.False(t, a.Equal(c))
}

func TestPathIsRoot(t *testing.T) {
	assert.True(t, Root().IsRoot())
	p, err := ParsePath("a")
	require.NoError(t, err)
	assert.False(t, p.IsRoot())
}
