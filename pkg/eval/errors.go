package eval

import (
	"fmt"
	"oomph/pkg/ast"
)

// ErrorKind classifies evaluation failures.
type ErrorKind uint8

const (
	UnboundVariable ErrorKind = iota + 1
	TypeMismatch
	ArityMismatch
	NotAFunction
	PrivacyViolation
	AssertionFailed
	StructuralError
	IndexOutOfRange
	KeyNotFound
	InputFailure
	RecursionLimit
)

var errorKindNames = map[ErrorKind]string{
	UnboundVariable:  "UnboundVariable",
	TypeMismatch:     "TypeMismatch",
	ArityMismatch:    "ArityMismatch",
	NotAFunction:     "NotAFunction",
	PrivacyViolation: "PrivacyViolation",
	AssertionFailed:  "AssertionFailed",
	StructuralError:  "StructuralError",
	IndexOutOfRange:  "IndexOutOfRange",
	KeyNotFound:      "KeyNotFound",
	InputFailure:     "InputFailure",
	RecursionLimit:   "RecursionLimit",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// ParseErrorKind maps a kind name such as "TypeMismatch" back to its kind.
func ParseErrorKind(name string) (ErrorKind, bool) {
	for k, n := range errorKindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrUnboundVariable  = &Error{Kind: UnboundVariable}
	ErrTypeMismatch     = &Error{Kind: TypeMismatch}
	ErrArityMismatch    = &Error{Kind: ArityMismatch}
	ErrNotAFunction     = &Error{Kind: NotAFunction}
	ErrPrivacyViolation = &Error{Kind: PrivacyViolation}
	ErrAssertionFailed  = &Error{Kind: AssertionFailed}
	ErrStructural       = &Error{Kind: StructuralError}
	ErrIndexOutOfRange  = &Error{Kind: IndexOutOfRange}
	ErrKeyNotFound      = &Error{Kind: KeyNotFound}
	ErrInputFailure     = &Error{Kind: InputFailure}
	ErrRecursionLimit   = &Error{Kind: RecursionLimit}
)

// Error is the failure of an evaluation. Node is the syntax form that raised
// it, when known.
type Error struct {
	Kind    ErrorKind
	Message string
	Node    ast.Node
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels: an *Error without a message equals any error of its
// kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Node == nil
}

func newError(kind ErrorKind, node ast.Node, format string, a ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...), Node: node}
}

// at attaches node to an *Error that has none yet.
func at(err error, node ast.Node) error {
	if e, ok := err.(*Error); ok && e.Node == nil {
		e.Node = node
	}
	return err
}

// controlSignal carries break and continue out of the loop body.
type controlSignal struct {
	node ast.Node
}

func (c *controlSignal) Error() string {
	return c.node.String() + " outside of a loop"
}

func (c *controlSignal) isBreak() bool {
	_, ok := c.node.(*ast.Break)
	return ok
}

func strayControl(sig *controlSignal) error {
	return newError(StructuralError, sig.node, "%s outside of a loop", sig.node.String())
}
