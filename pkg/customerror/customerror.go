package customerror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type CustomError struct {
	Module   string
	Endpoint string
	Message  string
}

var ErrTimedOut = fmt.Errorf("TimedOut")

var ErrWrongCredentials = fmt.Errorf("WrongCredentials")

var ErrJwtInvalid = fmt.Errorf("JWTInvalid")

var ErrJwtVersionIncorrect = fmt.Errorf("JwtVersionIncorrect")

var ErrAttemptsEnded = fmt.Errorf("AttemptsEnded")

var ErrNotFound = fmt.Errorf("NotFound")

var ErrDuplicateEmail = fmt.Errorf("DuplicateEmail")

var ErrInvalidCredentials = fmt.Errorf("InvalidCredentials")

var ErrAccountBlocked = fmt.Errorf("AccountBlocked")

var ErrForbidden = fmt.Errorf("Forbidden")

// ErrPendingApproval is returned when an owner touches a listing under review.
var ErrPendingApproval = fmt.Errorf("PendingApproval")

var ErrInvalidTransition = fmt.Errorf("InvalidTransition")

func (customError CustomError) Error() string {
	return fmt.Sprintf("ERROR|%s|%s:%s", customError.Endpoint, customError.Module, customError.Message)
}

func (customError *CustomError) AppendModule(module string) {
	customError.Module = module + "." + customError.Module
}

func NewError(module, endpoint, message string) error {
	return CustomError{
		Module:   module,
		Endpoint: endpoint,
		Message:  message,
	}
}

// Wrap prefixes module onto a CustomError. Any other error is returned as is.
func Wrap(err error, module string) error {
	if err == nil {
		return nil
	}
	var customErr CustomError
	if errors.As(err, &customErr) {
		customErr.AppendModule(module)
		return customErr
	}
	return err
}

// ValidationErrors maps a field name to a human readable problem.
type ValidationErrors map[string]string

func (validationErrors ValidationErrors) Error() string {
	fields := make([]string, 0, len(validationErrors))
	for field := range validationErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+validationErrors[field])
	}
	return "ValidationFailed(" + strings.Join(parts, "; ") + ")"
}

// OrNil returns nil for an empty map so callers can return it directly.
func (validationErrors ValidationErrors) OrNil() error {
	if len(validationErrors) == 0 {
		return nil
	}
	return validationErrors
}
