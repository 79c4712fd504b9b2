package engine

// Kind classifies a dispatch failure.
type Kind int

const (
	// KindValidation is malformed slot data.
	KindValidation Kind = iota + 1
	// KindNotFound is a missing scene or exploration target.
	KindNotFound
	// KindState is an action attempted in a state that forbids it.
	KindState
	// KindExternalLoad is a persistence failure.
	KindExternalLoad
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindState:
		return "state"
	case KindExternalLoad:
		return "external load"
	default:
		return "unknown"
	}
}

// Error is a recoverable dispatch failure. Message is shown to the player.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is.
var (
	ErrValidation   = &Error{Kind: KindValidation, Message: "invalid slot"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "not found"}
	ErrState        = &Error{Kind: KindState, Message: "action not allowed"}
	ErrExternalLoad = &Error{Kind: KindExternalLoad, Message: "load failed"}
)

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}
