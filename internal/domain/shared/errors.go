package shared

// DomainError carries a stable machine-readable code alongside the
// human message. The HTTP layer maps codes to status responses.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Sentinel errors shared across aggregates. Errors specific to one
// concern, such as identifier allocation or import validation, are
// created where they occur.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Record not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "A record with this identifier already exists")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Record was modified by another request")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)
