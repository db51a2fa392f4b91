package custom_err

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Kind int

const (
	KindApplication Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "application"
	}
}

var (
	ErrApplication  = errors.New("application error")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrStorage      = errors.New("storage failure")

	ErrInvalidID    = errors.New("invalid transaction id")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenMissing = errors.New("token missing")
)

// Keys and messages surfaced to API callers.
const (
	FieldApp          = "app"
	FieldResource     = "resource"
	FieldTransaction  = "transaction"
	FieldTransactions = "transactions"
	FieldMessage      = "message"
	FieldRate         = "rate"

	AppErrorMessage            = "We couldn't process your request at the moment, please try again."
	ResourceNotFoundMessage    = "Requested resource does not exist or has been moved."
	TransactionNotFoundMessage = "No fx transaction found with the supplied parameter"
	TransactionsEmptyMessage   = "No fx transactions found at the moment, please check back later!"
	TransactionIDRequired      = "Please provide a transaction ID to get an fx transaction. Transaction ID must be a valid Hexdecimal string and 24 characters long. e.g. 507f191e810c19729de860ea"
	TransactionIDInvalid       = "Please provide a valid transaction ID to get an fx transaction. Transaction ID must be a valid Hexdecimal string and 24 characters long. e.g. 507f191e810c19729de860ea"
	UpdateIDInvalid            = "Transaction ID is required to update a record and must be a valid hexadecimal string of 24 characters."
	UpdateTargetMissing        = "No Transaction found with the provided ID. Please provide a valid transaction ID."
	TokenMissingMessage        = "Unauthorized Access: No Authorization token header provided"
	TokenRejectedMessage       = "Unauthorized Access: Failed to authenticate token"
	RateLimitedMessage         = "Too many requests, please try again later."
)

// Error is the tagged error every layer returns to the handlers. Fields holds the
// caller-facing messages keyed by field name.
type Error struct {
	Kind   Kind
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" [")
		for i, k := range keys {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(e.Fields[k])
		}
		b.WriteString("]")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match an Error against the kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrApplication:
		return e.Kind == KindApplication
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	}
	return false
}

func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Fields: fields}
}

func NotFound(field, message string) *Error {
	return &Error{Kind: KindNotFound, Fields: map[string]string{field: message}}
}

func Unauthorized(message string, cause error) *Error {
	return &Error{Kind: KindUnauthorized, Fields: map[string]string{FieldMessage: message}, Err: cause}
}

// Application hides cause behind the generic message.
func Application(cause error) *Error {
	return &Error{Kind: KindApplication, Fields: map[string]string{FieldApp: AppErrorMessage}, Err: cause}
}

// Storage wraps a driver fault so that both ErrStorage and ErrApplication match it.
func Storage(cause error) *Error {
	return Application(fmt.Errorf("%w: %w", ErrStorage, cause))
}

// FieldsOf returns the caller-facing messages of err, falling back to the generic
// application message for anything that is not an *Error.
func FieldsOf(err error) (Kind, map[string]string) {
	var e *Error
	if errors.As(err, &e) && len(e.Fields) > 0 {
		return e.Kind, e.Fields
	}
	return KindApplication, map[string]string{FieldApp: AppErrorMessage}
}
