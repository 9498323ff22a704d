package types

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindNotFound     ErrKind = iota // element absent from the model
	ErrKindPrecondition                // caller misuse (e.g. edit target resolves to the root)
	ErrKindState                       // internal consistency violation
)

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinels commonly returned by implementations.
var (
	// ErrNotFound indicates an element that was never inserted or has
	// already been deleted.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "element not found"}
	// ErrNoParent indicates an edit target that resolved to a parentless
	// node, i.e. the synthetic root.
	ErrNoParent = &Error{Kind: ErrKindPrecondition, Msg: "element has no parent"}
	// ErrDuplicateElement indicates an insert that would map one element to
	// two live nodes at once.
	ErrDuplicateElement = &Error{Kind: ErrKindState, Msg: "duplicate element"}
	// ErrZeroElement indicates an insert of the zero value, which is
	// reserved for the root.
	ErrZeroElement = &Error{Kind: ErrKindPrecondition, Msg: "zero value is reserved for the root"}
)
