package jsonstream

import "strings"

// stringDelegate implements SPEC_FULL.md §4.3.1.
type stringDelegate struct {
	delegateBase
	buffer   strings.Builder // unflushed text since the last flush
	full     strings.Builder // entire accumulated text, used as the final value
	escaping bool
	seenOpen bool
}

func newStringDelegate(base delegateBase) *stringDelegate {
	return &stringDelegate{delegateBase: base}
}

func (d *stringDelegate) append(s string) {
	d.buffer.WriteString(s)
	d.full.WriteString(s)
}

func (d *stringDelegate) addCharacter(c byte) addCharResult {
	if !d.seenOpen {
		if isSpace(c) {
			return notDone()
		}
		if c == '"' {
			d.seenOpen = true
			return notDone()
		}
		return malformedResult(newMalformed(d.path, "expected opening '\"' for string value"))
	}

	if d.escaping {
		mapped, _ := escapeByte(c)
		if d.f.strict() {
			if _, ok := escapeByte(c); !ok {
				return malformedResult(newMalformed(d.path, "unknown escape sequence \\"+string(c)))
			}
		}
		d.append(mapped)
		d.escaping = false
		return notDone()
	}

	switch c {
	case '\\':
		d.escaping = true
		return notDone()
	case '"':
		d.done = true
		d.flush()
		final := Value{Kind: KindString, Text: d.full.String()}
		d.ctrl.complete(final)
		return addCharResult{done: true, consumed: true, final: final}
	default:
		d.append(string(c))
		return notDone()
	}
}

// flush pushes whatever has accumulated in buffer since the last flush as a
// single chunk, exactly at an upstream fragment boundary (or at the closing
// quote). This is what makes string growth observable in fragments that
// correspond to upstream chunk boundaries.
func (d *stringDelegate) flush() {
	if d.buffer.Len() == 0 {
		return
	}
	text := d.buffer.String()
	d.buffer.Reset()
	d.ctrl.pushChunk(Value{Kind: KindString, Text: text})
}

func (d *stringDelegate) onChunkEnd() {
	if d.done {
		return
	}
	d.flush()
}
