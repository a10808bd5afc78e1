package jsonstream

// addCharResult is returned by every propertyDelegate.addCharacter call. It
// plays the role the design notes (SPEC_FULL.md §9) call out explicitly: a
// typed result instead of type-switching on the delegate to learn whether a
// just-consumed character was absorbed by the child or must be redelivered
// to the parent.
type addCharResult struct {
	// done is true once this delegate has completed (successfully or not).
	done bool
	// consumed is only meaningful when done is true. true means this
	// delegate itself consumed the character that triggered completion (a
	// container consuming its own closing bracket); false means the
	// character is a delimiter that was NOT consumed and must be
	// reprocessed by the parent at its new state.
	consumed bool
	// final holds the completed value, set only when done && err == nil.
	final Value
	// err, when non-nil, is a Malformed error; the caller must propagate it
	// to Facade.failAllMalformed rather than treat it as a normal
	// completion.
	err error
}

func notDone() addCharResult {
	return addCharResult{}
}

func malformedResult(err error) addCharResult {
	return addCharResult{done: true, err: err}
}

// propertyDelegate is the common contract described in SPEC_FULL.md §4.3: a
// per-node state machine that consumes characters and flushes progress at
// chunk boundaries. Containers (Object/Array) recurse into their active
// child's addCharacter/onChunkEnd directly, which is what makes the
// "delegate stack" in the specification show up here as plain recursive call
// chains rather than an explicit stack data structure (see DESIGN.md).
type propertyDelegate interface {
	addCharacter(c byte) addCharResult
	onChunkEnd()
}

// delegateBase holds the fields every delegate variant needs.
type delegateBase struct {
	path Path
	f    *Facade
	ctrl *controller
	done bool
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isContainerDelimiter(c byte) bool {
	switch c {
	case ',', '}', ']':
		return true
	default:
		return false
	}
}

// escapeByte maps the character following a backslash to its decoded form,
// per the named-escape table in SPEC_FULL.md §4.3.1. The second return value
// is false for an unrecognized escape letter, in which case the lenient
// default is to pass the backslash and the letter through verbatim.
func escapeByte(c byte) (string, bool) {
	switch c {
	case '"':
		return "\"", true
	case '\\':
		return "\\", true
	case '/':
		return "/", true
	case 'b':
		return "\b", true
	case 'f':
		return "\f", true
	case 'n':
		return "\n", true
	case 'r':
		return "\r", true
	case 't':
		return "\t", true
	default:
		return "\\" + string(c), false
	}
}

// newDelegateFor constructs the delegate variant matching kind, wired to
// controller ctrl at path.
func (f *Facade) newDelegateFor(kind Kind, path Path, ctrl *controller) propertyDelegate {
	base := delegateBase{path: path, f: f, ctrl: ctrl}
	switch kind {
	case KindString:
		return newStringDelegate(base)
	case KindNumber:
		return newNumberDelegate(base)
	case KindBoolean:
		return newBooleanDelegate(base)
	case KindNull:
		return newNullDelegate(base)
	case KindObject:
		return newObjectDelegate(base, f.schemaFor(path))
	case KindArray:
		return newArrayDelegate(base, f.schemaFor(path))
	default:
		return newNumberDelegate(base)
	}
}
