package jsonstream

import "strings"

type objectState int

const (
	objStart objectState = iota
	objWaitingForKey
	objReadingKey
	objWaitingForValue
	objReadingValue
	objWaitingForCommaOrEnd
)

// objectDelegate implements SPEC_FULL.md §4.3.5.
type objectDelegate struct {
	delegateBase

	state objectState

	keyBuffer   strings.Builder
	keyEscaping bool
	activeKey   string

	latest map[string]Value

	activeChild propertyDelegate

	lastWasComma bool

	schema   *Schema
	seenKeys map[string]bool
}

func newObjectDelegate(base delegateBase, schema *Schema) *objectDelegate {
	return &objectDelegate{
		delegateBase: base,
		latest:       make(map[string]Value),
		schema:       schema,
		seenKeys:     make(map[string]bool),
	}
}

func (d *objectDelegate) snapshot() Value {
	cp := make(map[string]Value, len(d.latest))
	for k, v := range d.latest {
		cp[k] = v
	}
	return Value{Kind: KindObject, Object: cp}
}

func (d *objectDelegate) addCharacter(c byte) addCharResult {
	switch d.state {
	case objStart:
		if c == '{' {
			d.state = objWaitingForKey
			return notDone()
		}
		return malformedResult(newMalformed(d.path, "expected '{'"))

	case objWaitingForKey:
		if isSpace(c) {
			return notDone()
		}
		if c == '"' {
			d.state = objReadingKey
			d.keyBuffer.Reset()
			d.keyEscaping = false
			return notDone()
		}
		if c == '}' {
			if d.lastWasComma && d.f.strict() {
				return malformedResult(newMalformed(d.path, "trailing comma before '}'"))
			}
			return d.finish()
		}
		return malformedResult(newMalformed(d.path, "expected object key or '}'"))

	case objReadingKey:
		if d.keyEscaping {
			mapped, ok := escapeByte(c)
			if !ok && d.f.strict() {
				return malformedResult(newMalformed(d.path, "unknown escape sequence \\"+string(c)+" in object key"))
			}
			d.keyBuffer.WriteString(mapped)
			d.keyEscaping = false
			return notDone()
		}
		switch c {
		case '\\':
			d.keyEscaping = true
			return notDone()
		case '"':
			d.activeKey = d.keyBuffer.String()
			d.state = objWaitingForValue
			return notDone()
		default:
			d.keyBuffer.WriteByte(c)
			return notDone()
		}

	case objWaitingForValue:
		if isSpace(c) || c == ':' {
			return notDone()
		}
		return d.spawnChild(c)

	case objReadingValue:
		return d.forwardToChild(c)

	case objWaitingForCommaOrEnd:
		if isSpace(c) {
			return notDone()
		}
		if c == ',' {
			d.lastWasComma = true
			d.state = objWaitingForKey
			return notDone()
		}
		if c == '}' {
			return d.finish()
		}
		return malformedResult(newMalformed(d.path, "expected ',' or '}'"))
	}
	return malformedResult(newMalformed(d.path, "object delegate reached an unknown state"))
}

func (d *objectDelegate) spawnChild(c byte) addCharResult {
	childKind := kindForFirstChar(c)
	childPath := d.path.AppendKey(d.activeKey)
	childCtrl := d.f.controllerForParser(childPath, childKind)
	d.f.registerChildSchema(childPath, d.schema.childSchema(d.activeKey))

	d.latest[d.activeKey] = Null
	d.seenKeys[d.activeKey] = true

	d.ctrl.notifyProperty(d.activeKey, childPath, childKind, childCtrl)

	child := d.f.newDelegateFor(childKind, childPath, childCtrl)
	d.activeChild = child
	d.state = objReadingValue
	d.lastWasComma = false
	return d.forwardToChild(c)
}

func (d *objectDelegate) forwardToChild(c byte) addCharResult {
	res := d.activeChild.addCharacter(c)
	if res.err != nil {
		return res
	}
	if !res.done {
		return notDone()
	}
	d.latest[d.activeKey] = res.final
	d.activeChild = nil
	d.state = objWaitingForCommaOrEnd
	if res.consumed {
		return notDone()
	}
	// The delimiter that completed the child was left unconsumed; reprocess
	// it now that we've transitioned to WaitingForCommaOrEnd.
	return d.addCharacter(c)
}

func (d *objectDelegate) finish() addCharResult {
	if d.schema != nil {
		for _, key := range d.schema.Required {
			if !d.seenKeys[key] {
				return malformedResult(newMalformed(d.path, "missing required key "+key))
			}
		}
	}
	final := d.snapshot()
	d.done = true
	d.ctrl.complete(final)
	return addCharResult{done: true, consumed: true, final: final}
}

func (d *objectDelegate) onChunkEnd() {
	if d.done {
		return
	}
	if d.activeChild != nil {
		d.activeChild.onChunkEnd()
	}
	d.ctrl.pushChunk(d.snapshot())
}
