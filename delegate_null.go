package jsonstream

// nullDelegate implements SPEC_FULL.md §4.3.4, analogous to booleanDelegate
// but for the single literal "null".
type nullDelegate struct {
	delegateBase
	matched int
}

const nullLiteral = "null"

func newNullDelegate(base delegateBase) *nullDelegate {
	return &nullDelegate{delegateBase: base}
}

func (d *nullDelegate) addCharacter(c byte) addCharResult {
	if d.matched == 0 {
		if c != 'n' {
			return malformedResult(newMalformed(d.path, "expected 'null'"))
		}
		d.matched = 1
		return notDone()
	}

	if d.matched < len(nullLiteral) && c == nullLiteral[d.matched] {
		d.matched++
		if d.matched == len(nullLiteral) {
			return d.finish(true)
		}
		return notDone()
	}

	if isContainerDelimiter(c) && d.matched > 0 {
		return d.finish(false)
	}

	return malformedResult(newMalformed(d.path, "malformed null literal"))
}

func (d *nullDelegate) finish(consumedLastChar bool) addCharResult {
	d.done = true
	d.ctrl.complete(Null)
	return addCharResult{done: true, consumed: consumedLastChar, final: Null}
}

func (d *nullDelegate) onChunkEnd() {}
