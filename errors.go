package emailcheck

import "errors"

var (
	// ErrInvalidMXOptions is returned when WithMXOptions is given a
	// negative Timeout or MaxAttempts.
	ErrInvalidMXOptions = errors.New("emailcheck: MXOptions requires non-negative Timeout and MaxAttempts")
)

// Sentinels for the failure kinds. A *ValidationError matches the one for
// its Kind with errors.Is.
var (
	ErrSyntax         = errors.New("emailcheck: syntax violation")
	ErrUnknownTLD     = errors.New("emailcheck: unknown top level domain")
	ErrDomainNotFound = errors.New("emailcheck: domain not found")
	ErrNoMX           = errors.New("emailcheck: no mail exchanger")
	ErrTimeout        = errors.New("emailcheck: resolution timeout")
	ErrResolver       = errors.New("emailcheck: resolver error")
)

var kindErrors = map[Kind]error{
	KindSyntaxViolation:           ErrSyntax,
	KindUnknownTopLevelDomain:     ErrUnknownTLD,
	KindDomainNotFound:            ErrDomainNotFound,
	KindNoMailExchanger:           ErrNoMX,
	KindResolutionTimeout:         ErrTimeout,
	KindUnclassifiedResolverError: ErrResolver,
}

// ValidationError is returned when an address fails a check.
// Error returns Message unchanged, e.g. "Missing @ sign".
type ValidationError struct {
	Email   string
	Level   CheckLevel
	Kind    Kind
	Message string
	// Err is the resolver error behind an MX failure, if any.
	Err error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *ValidationError) Is(target error) bool {
	sentinel, ok := kindErrors[e.Kind]
	return ok && target == sentinel
}

func newValidationError(email string, cr CheckResult) *ValidationError {
	return &ValidationError{
		Email:   email,
		Level:   cr.Level,
		Kind:    cr.Kind,
		Message: cr.Details,
		Err:     cr.Err,
	}
}
