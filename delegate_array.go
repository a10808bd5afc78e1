package jsonstream

type arrayState int

const (
	arrStart arrayState = iota
	arrWaitingForValue
	arrReadingValue
	arrWaitingForCommaOrEnd
)

// arrayDelegate implements SPEC_FULL.md §4.3.6, the array counterpart of
// objectDelegate: integer indices instead of string keys, notifyElement
// instead of notifyProperty.
type arrayDelegate struct {
	delegateBase

	state arrayState

	latest      []Value
	activeChild propertyDelegate

	lastWasComma bool

	schema *Schema
}

func newArrayDelegate(base delegateBase, schema *Schema) *arrayDelegate {
	return &arrayDelegate{delegateBase: base, schema: schema}
}

func (d *arrayDelegate) snapshot() Value {
	cp := make([]Value, len(d.latest))
	copy(cp, d.latest)
	return Value{Kind: KindArray, Array: cp}
}

func (d *arrayDelegate) addCharacter(c byte) addCharResult {
	switch d.state {
	case arrStart:
		if c == '[' {
			d.state = arrWaitingForValue
			return notDone()
		}
		return malformedResult(newMalformed(d.path, "expected '['"))

	case arrWaitingForValue:
		if isSpace(c) {
			return notDone()
		}
		if c == ']' {
			if d.lastWasComma && d.f.strict() {
				return malformedResult(newMalformed(d.path, "trailing comma before ']'"))
			}
			return d.finish()
		}
		return d.spawnChild(c)

	case arrReadingValue:
		return d.forwardToChild(c)

	case arrWaitingForCommaOrEnd:
		if isSpace(c) {
			return notDone()
		}
		if c == ',' {
			d.lastWasComma = true
			d.state = arrWaitingForValue
			return notDone()
		}
		if c == ']' {
			return d.finish()
		}
		return malformedResult(newMalformed(d.path, "expected ',' or ']'"))
	}
	return malformedResult(newMalformed(d.path, "array delegate reached an unknown state"))
}

func (d *arrayDelegate) spawnChild(c byte) addCharResult {
	index := len(d.latest)
	childKind := kindForFirstChar(c)

	if d.schema != nil && d.schema.ElementKind != KindUnknown && childKind != d.schema.ElementKind {
		return malformedResult(newMalformed(d.path, "array element does not match declared element kind"))
	}

	childPath := d.path.AppendIndex(index)
	childCtrl := d.f.controllerForParser(childPath, childKind)
	d.f.registerChildSchema(childPath, d.schema.elementSchema())

	d.latest = append(d.latest, Null)

	d.ctrl.notifyElement(index, childPath, childKind, childCtrl)

	child := d.f.newDelegateFor(childKind, childPath, childCtrl)
	d.activeChild = child
	d.state = arrReadingValue
	d.lastWasComma = false
	return d.forwardToChild(c)
}

func (d *arrayDelegate) forwardToChild(c byte) addCharResult {
	res := d.activeChild.addCharacter(c)
	if res.err != nil {
		return res
	}
	if !res.done {
		return notDone()
	}
	d.latest[len(d.latest)-1] = res.final
	d.activeChild = nil
	d.state = arrWaitingForCommaOrEnd
	if res.consumed {
		return notDone()
	}
	return d.addCharacter(c)
}

func (d *arrayDelegate) finish() addCharResult {
	final := d.snapshot()
	d.done = true
	d.ctrl.complete(final)
	return addCharResult{done: true, consumed: true, final: final}
}

func (d *arrayDelegate) onChunkEnd() {
	if d.done {
		return
	}
	if d.activeChild != nil {
		d.activeChild.onChunkEnd()
	}
	d.ctrl.pushChunk(d.snapshot())
}
