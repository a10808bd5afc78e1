package jsonstream

import "fmt"

// controllerError is the concrete error type surfaced by Subscription.Await
// (Subscription.Iterate simply stops on failure). Its kind is
// errors.Is-comparable against the package-level sentinels below; path
// identifies the controller that failed, when known.
type controllerError struct {
	kind string
	path Path
	msg  string
}

func (e *controllerError) Error() string {
	if e.path.IsRoot() {
		return fmt.Sprintf("jsonstream: %s: %s", e.kind, e.msg)
	}
	return fmt.Sprintf("jsonstream: %s at %q: %s", e.kind, e.path.String(), e.msg)
}

func (e *controllerError) Is(target error) bool {
	other, ok := target.(*controllerError)
	return ok && other.kind == e.kind
}

// Sentinel errors, one per taxonomy entry in §7 of the specification.
// Compare with errors.Is; the offending Path, when known, appears in the
// error message. BadPath is declared separately, as ErrBadPath in path.go.
var (
	ErrIncomplete   = &controllerError{kind: "Incomplete"}
	ErrMalformed    = &controllerError{kind: "Malformed"}
	ErrTypeMismatch = &controllerError{kind: "TypeMismatch"}
	ErrDisposed     = &controllerError{kind: "Disposed"}
	ErrSourceError  = &controllerError{kind: "SourceError"}
)

func newIncomplete(path Path) error {
	return &controllerError{kind: "Incomplete", path: path, msg: "end of stream reached before this node completed"}
}

func newMalformed(path Path, msg string) error {
	return &controllerError{kind: "Malformed", path: path, msg: msg}
}

func newTypeMismatch(path Path, want, got Kind) error {
	return &controllerError{
		kind: "TypeMismatch",
		path: path,
		msg:  fmt.Sprintf("subscribed as %s but parser discovered %s", want, got),
	}
}

func newDisposed(path Path) error {
	return &controllerError{kind: "Disposed", path: path, msg: "parser was disposed"}
}

func newSourceError(path Path, cause error) error {
	return &controllerError{kind: "SourceError", path: path, msg: cause.Error()}
}
