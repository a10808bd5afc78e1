package jsonstream

// booleanDelegate implements SPEC_FULL.md §4.3.3.
type booleanDelegate struct {
	delegateBase
	expected string
	matched  int
}

func newBooleanDelegate(base delegateBase) *booleanDelegate {
	return &booleanDelegate{delegateBase: base}
}

func (d *booleanDelegate) addCharacter(c byte) addCharResult {
	if d.expected == "" {
		switch c {
		case 't':
			d.expected = "true"
		case 'f':
			d.expected = "false"
		default:
			return malformedResult(newMalformed(d.path, "expected 'true' or 'false'"))
		}
		d.matched = 1
		return notDone()
	}

	if d.matched < len(d.expected) && c == d.expected[d.matched] {
		d.matched++
		if d.matched == len(d.expected) {
			return d.finish(true)
		}
		return notDone()
	}

	if isContainerDelimiter(c) && d.matched > 0 {
		// Lenient: the literal's identity was already known from its first
		// character, so a premature delimiter still resolves to that value.
		return d.finish(false)
	}

	return malformedResult(newMalformed(d.path, "malformed boolean literal"))
}

func (d *booleanDelegate) finish(consumedLastChar bool) addCharResult {
	final := Boolean(d.expected == "true")
	d.done = true
	d.ctrl.complete(final)
	return addCharResult{done: true, consumed: consumedLastChar, final: final}
}

func (d *booleanDelegate) onChunkEnd() {}
