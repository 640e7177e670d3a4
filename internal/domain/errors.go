package domain

// ErrKind classifies an error so the HTTP boundary can map it to a status
// code without inspecting message text.
type ErrKind int

const (
	KindValidation ErrKind = iota + 1
	KindNotFound
	KindForbidden
	KindUnauthenticated
	KindConflict
)

// Error is a categorized domain error. The message is user-facing and
// propagates unmodified to the API boundary.
type Error struct {
	Kind    ErrKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Common errors shared across services and repositories.
var (
	ErrTaskNotFound       = NotFound("task not found")
	ErrUserNotFound       = NotFound("user not found")
	ErrDueDateInPast      = Validation("due date must be in the future")
	ErrInvalidAssigneeID  = Validation("invalid assigned user ID")
	ErrNotTaskUpdater     = Forbidden("not authorized to update this task")
	ErrNotTaskCreator     = Forbidden("not authorized to delete this task")
	ErrEmailTaken         = Conflict("email already registered")
	ErrInvalidCredentials = Unauthenticated("invalid email or password")
)
