// Package types contains the shared types for emailcheck.
// This package does not import anything from other emailcheck packages
// to avoid circular imports.
package types

// CheckLevel identifies the validation check.
type CheckLevel = string

const (
	LevelRegexp CheckLevel = "regexp"
	LevelTLD    CheckLevel = "tld"
	LevelMX     CheckLevel = "mx"
)

// Kind classifies why a check failed.
type Kind string

const (
	KindNone                      Kind = ""
	KindSyntaxViolation           Kind = "syntax_violation"
	KindUnknownTopLevelDomain     Kind = "unknown_tld"
	KindDomainNotFound            Kind = "domain_not_found"
	KindNoMailExchanger           Kind = "no_mx"
	KindResolutionTimeout         Kind = "timeout"
	KindUnclassifiedResolverError Kind = "resolver_error"
)

// CheckResult is the outcome of a single check.
// On failure Details carries the message reported to the caller.
type CheckResult struct {
	Level   CheckLevel `json:"level"`
	Passed  bool       `json:"passed"`
	Kind    Kind       `json:"kind,omitempty"`
	Details string     `json:"details,omitempty"`
	MXHost  string     `json:"mxHost,omitempty"`
	// Suggestion is a likely intended top-level domain when the TLD check fails.
	Suggestion string `json:"suggestion,omitempty"`
	// Err is the underlying resolver error, if any.
	Err error `json:"-"`
}
