// Package emailcheck tells whether a string is a plausible, deliverable
// email address. Three checks run in a fixed order, each of which can be
// switched off: the address pattern, the top-level domain against the IANA
// list, and the domain's MX records.
//
// Basic usage:
//
//	ok, err := emailcheck.Validate(ctx, "user@example.com")
//
// Pattern and TLD only, with a custom resolver for anything else:
//
//	v := emailcheck.New().WithResolver(myResolver)
//	ok, err := v.Validate(ctx, "user@example.com", emailcheck.Options{Regexp: true, TLD: true})
//
// A failed validation returns a *ValidationError whose message says why.
package emailcheck

import "github.com/optimode/emailcheck/types"

// CheckResult is a re-export from the types package so that consumers
// don't need to import the types package directly.
type CheckResult = types.CheckResult

// CheckLevel is a re-export.
type CheckLevel = types.CheckLevel

// Kind is a re-export.
type Kind = types.Kind

// Level constants re-exported.
const (
	LevelRegexp = types.LevelRegexp
	LevelTLD    = types.LevelTLD
	LevelMX     = types.LevelMX
)

// Kind constants re-exported.
const (
	KindSyntaxViolation           = types.KindSyntaxViolation
	KindUnknownTopLevelDomain     = types.KindUnknownTopLevelDomain
	KindDomainNotFound            = types.KindDomainNotFound
	KindNoMailExchanger           = types.KindNoMailExchanger
	KindResolutionTimeout         = types.KindResolutionTimeout
	KindUnclassifiedResolverError = types.KindUnclassifiedResolverError
)
