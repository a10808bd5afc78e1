package jsonstream

import (
	"strconv"
	"strings"
)

// numberDelegate implements SPEC_FULL.md §4.3.2. Numbers are atomic: no
// intermediate chunks are emitted, and completion never consumes the
// delimiter that triggered it.
type numberDelegate struct {
	delegateBase
	buffer strings.Builder
}

func newNumberDelegate(base delegateBase) *numberDelegate {
	return &numberDelegate{delegateBase: base}
}

func isNumberChar(c byte) bool {
	switch c {
	case '-', '+', '.', 'e', 'E':
		return true
	default:
		return isDigit(c)
	}
}

func (d *numberDelegate) addCharacter(c byte) addCharResult {
	if isNumberChar(c) {
		d.buffer.WriteByte(c)
		return notDone()
	}
	return d.finish()
}

func (d *numberDelegate) finish() addCharResult {
	text := d.buffer.String()
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return malformedResult(newMalformed(d.path, "invalid number literal "+strconv.Quote(text)))
	}
	final := Value{Kind: KindNumber, Num: Number{Value: f, Literal: text}}
	d.done = true
	d.ctrl.complete(final)
	return addCharResult{done: true, consumed: false, final: final}
}

func (d *numberDelegate) onChunkEnd() {
	// A number never buffers across a chunk boundary in a way that needs
	// flushing: it emits nothing until it completes atomically.
}
