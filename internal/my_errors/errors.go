package my_errors

import "errors"

// Kinds. Every business error unwraps to exactly one of these.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrConflict        = errors.New("conflict")
	ErrInvalidState    = errors.New("invalid state")
	ErrUnavailable     = errors.New("unavailable")
)

// Error is a business error with a stable kind and a human-readable message.
type Error struct {
	kind error
	msg  string
}

func New(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

// Sentinel my_errors для бизнес-логики
var (
	// User my_errors
	ErrUserNotFound       = New(ErrNotFound, "user not found")
	ErrEmailInUse         = New(ErrConflict, "email already in use")
	ErrInvalidCredentials = New(ErrUnauthenticated, "email or password incorrect")
	ErrInvalidRole        = New(ErrInvalidState, "invalid role")

	// Team my_errors
	ErrTeamNotFound      = New(ErrNotFound, "team not found")
	ErrTeamAlreadyExists = New(ErrConflict, "team already exists")

	// Membership my_errors
	ErrAlreadyTeamMember = New(ErrConflict, "user is already a member of a team")
	ErrMemberNotFound    = New(ErrNotFound, "member not found in this team")
	ErrNotTeamMember     = New(ErrNotFound, "user is not a member of the team")

	// Task my_errors
	ErrTaskNotFound = New(ErrNotFound, "task not found")

	// Auth my_errors
	ErrNotAuthenticated = New(ErrUnauthenticated, "user not authenticated")
	ErrRoleNotAllowed   = New(ErrForbidden, "user not authorized")
	ErrNotTaskAssignee  = New(ErrForbidden, "user not authorized to access this task")
	ErrInvalidToken     = New(ErrUnauthenticated, "invalid or expired token")

	// Validation my_errors
	ErrEmptyPatch = New(ErrInvalidState, "at least one field must be provided to update")

	// Store my_errors
	ErrStoreUnavailable = New(ErrUnavailable, "store temporarily unavailable, retry later")
)

// Kind is the stable code of an error as seen by API clients.
type Kind string

const (
	KindNotFound        Kind = "NOT_FOUND"
	KindForbidden       Kind = "FORBIDDEN"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindConflict        Kind = "CONFLICT"
	KindInvalidState    Kind = "INVALID_STATE"
	KindUnavailable     Kind = "UNAVAILABLE"
	KindInternal        Kind = "INTERNAL"
)

// KindOf classifies err. Errors that carry no kind are internal.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	default:
		return KindInternal
	}
}

// Message returns the message of the innermost business error in err's chain,
// so wrapping context added by lower layers does not leak to clients.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}
	return err.Error()
}
