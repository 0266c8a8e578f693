package adept

import "fmt"

// ErrorKind classifies recovery failures.
type ErrorKind int

const (
	// NotActivated: the device key or activation record is absent.
	NotActivated ErrorKind = iota + 1
	// NoCredentials: the credential tree root is missing.
	NoCredentials
	// Unwrap: the OS refused to unprotect the device key.
	Unwrap
	// NoKeyFound: nothing usable was found, or a payload was malformed.
	NoKeyFound
	// UnsupportedPlatform: no recovery strategy exists for this host.
	UnsupportedPlatform
)

func (k ErrorKind) String() string {
	switch k {
	case NotActivated:
		return "not-activated"
	case NoCredentials:
		return "no-credentials"
	case Unwrap:
		return "unwrap"
	case NoKeyFound:
		return "no-key-found"
	case UnsupportedPlatform:
		return "unsupported-platform"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the single domain error type. Msg is meant for end users; Err,
// when set, carries the underlying cause for diagnostics.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNotActivated        = &Error{Kind: NotActivated, Msg: "Adobe Digital Editions not activated"}
	ErrNoCredentials       = &Error{Kind: NoCredentials, Msg: "Could not locate ADE activation"}
	ErrUnwrap              = &Error{Kind: Unwrap, Msg: "Failed to decrypt user key key"}
	ErrNoKeyFound          = &Error{Kind: NoKeyFound, Msg: "Could not locate privateLicenseKey"}
	ErrUnsupportedPlatform = &Error{Kind: UnsupportedPlatform, Msg: "Only Windows and macOS activations are supported"}
)

// NewError builds a domain error of the given kind wrapping cause. msg is
// used as is.
func NewError(kind ErrorKind, cause error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// Errorf builds a domain error of the given kind wrapping cause.
func Errorf(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}
