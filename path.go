package jsonstream

import (
	"strconv"
	"strings"
)

// pathSegment is either an object key or an array index.
type pathSegment struct {
	key     string
	index   int
	isIndex bool
}

// Path is the canonical address of a JSON node relative to the root value.
// Two paths are equal iff their segment sequences are equal; the zero value
// is the root path.
type Path struct {
	segments []pathSegment
}

// Root returns the empty path, denoting the top-level value.
func Root() Path {
	return Path{}
}

// IsRoot reports whether p addresses the top-level value.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// AppendKey returns the path of an object property named key, reached from p.
func (p Path) AppendKey(key string) Path {
	next := make([]pathSegment, len(p.segments), len(p.segments)+1)
	copy(next, p.segments)
	next = append(next, pathSegment{key: key})
	return Path{segments: next}
}

// AppendIndex returns the path of an array element at index i, reached from p.
func (p Path) AppendIndex(i int) Path {
	next := make([]pathSegment, len(p.segments), len(p.segments)+1)
	copy(next, p.segments)
	next = append(next, pathSegment{index: i, isIndex: true})
	return Path{segments: next}
}

// Equal reports whether p and other address the same node.
func (p Path) Equal(other Path) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i, s := range p.segments {
		o := other.segments[i]
		if s.isIndex != o.isIndex || s.index != o.index || s.key != o.key {
			return false
		}
	}
	return true
}

// String renders the canonical form of the path: no leading dot, and "[n]"
// immediately follows its parent with no separator.
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p.segments {
		if s.isIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.key)
	}
	return b.String()
}

// ErrBadPath is returned by ParsePath when the input text is not a valid
// dotted/indexed path expression.
var ErrBadPath = &PathError{Kind: "BadPath"}

// PathError reports a failure to parse or resolve a path expression.
type PathError struct {
	Kind string
	Text string
}

func (e *PathError) Error() string {
	if e.Text == "" {
		return "jsonstream: " + e.Kind
	}
	return "jsonstream: " + e.Kind + ": " + strconv.Quote(e.Text)
}

func (e *PathError) Is(target error) bool {
	other, ok := target.(*PathError)
	return ok && other.Kind == e.Kind
}

func badPath(text string) error {
	return &PathError{Kind: "BadPath", Text: text}
}

// ParsePath parses a canonical path expression such as "a.b", "a[0].b",
// "[0].b", or "[0][1]". Two consecutive dots, a leading or trailing dot, a
// dot directly before "[", or a bare key segment not at the start and not
// preceded by a dot are all rejected with ErrBadPath.
func ParsePath(text string) (Path, error) {
	if text == "" {
		return Root(), nil
	}
	if strings.HasPrefix(text, ".") || strings.HasSuffix(text, ".") || strings.Contains(text, "..") {
		return Path{}, badPath(text)
	}

	var p Path
	i, n := 0, len(text)
	first := true
	for i < n {
		switch text[i] {
		case '[':
			end := strings.IndexByte(text[i:], ']')
			if end < 0 {
				return Path{}, badPath(text)
			}
			end += i
			numText := text[i+1 : end]
			idx, err := strconv.Atoi(numText)
			if numText == "" || err != nil || idx < 0 {
				return Path{}, badPath(text)
			}
			p = p.AppendIndex(idx)
			i = end + 1
		case '.':
			i++
			if i >= n || text[i] == '.' || text[i] == '[' {
				return Path{}, badPath(text)
			}
			start := i
			for i < n && text[i] != '.' && text[i] != '[' {
				i++
			}
			p = p.AppendKey(text[start:i])
		default:
			if !first {
				// A bare key segment must be introduced by '.', except as
				// the very first segment in the path.
				return Path{}, badPath(text)
			}
			start := i
			for i < n && text[i] != '.' && text[i] != '[' {
				i++
			}
			p = p.AppendKey(text[start:i])
		}
		first = false
	}
	return p, nil
}
