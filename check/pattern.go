package check

import (
	"context"
	"regexp"

	"github.com/optimode/emailcheck/internal/parse"
	"github.com/optimode/emailcheck/types"
)

// emailPattern accepts a dot-atom or quoted local part, then either a
// bracketed IPv4 literal or dot-separated labels ending in at least two
// letters. Labels start with a letter or digit.
var emailPattern = regexp.MustCompile(
	`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))` +
		`@` +
		`((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z0-9][a-zA-Z0-9-]*\.)+[a-zA-Z]{2,}))$`,
)

// MatchesPattern reports whether the whole of email fits the address template.
func MatchesPattern(email string) bool {
	return emailPattern.MatchString(email)
}

// PatternChecker matches the address against the template and, on
// mismatch, reports the diagnosed reason.
type PatternChecker struct{}

func NewPatternChecker() *PatternChecker {
	return &PatternChecker{}
}

func (c *PatternChecker) Check(_ context.Context, email parse.Email) types.CheckResult {
	if !MatchesPattern(email.Raw) {
		return types.CheckResult{
			Level:   types.LevelRegexp,
			Passed:  false,
			Kind:    types.KindSyntaxViolation,
			Details: Diagnose(email.Raw).Message(),
		}
	}
	return types.CheckResult{Level: types.LevelRegexp, Passed: true, Details: "syntax ok"}
}
