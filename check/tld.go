package check

import (
	"context"
	"fmt"
	"strings"

	"github.com/optimode/emailcheck/internal/parse"
	"github.com/optimode/emailcheck/tld"
	"github.com/optimode/emailcheck/types"
)

// suggestDistance is how far an unknown TLD may be from a known one to be
// offered as a suggestion.
const suggestDistance = 1

// TLDChecker verifies the domain's final label against a TLD list.
type TLDChecker struct {
	list *tld.List
}

// NewTLDChecker uses list, or the embedded IANA list when list is nil.
func NewTLDChecker(list *tld.List) *TLDChecker {
	if list == nil {
		list = tld.Default()
	}
	return &TLDChecker{list: list}
}

// HasValidTLD reports whether domain ends in a suffix present in list.
// A domain without a dot-suffix has no valid TLD.
func HasValidTLD(domain string, list *tld.List) bool {
	top, ok := tld.Suffix(domain)
	return ok && list.Contains(top)
}

func (c *TLDChecker) Check(_ context.Context, email parse.Email) types.CheckResult {
	level := types.LevelTLD

	top, ok := tld.Suffix(email.Domain)
	if !ok {
		details := fmt.Sprintf("The domain %s has no top level domain", email.Domain)
		if email.Domain == "" {
			details = "The email address has no domain"
		}
		return types.CheckResult{Level: level, Kind: types.KindUnknownTopLevelDomain, Details: details}
	}

	if !c.list.Contains(top) {
		res := types.CheckResult{
			Level:   level,
			Kind:    types.KindUnknownTopLevelDomain,
			Details: fmt.Sprintf("The top level domain .%s doesn't exist", strings.ToUpper(top)),
		}
		// a hint only, the check still fails
		lower := strings.ToLower(top)
		if c.list.Contains(lower) {
			res.Suggestion = lower
		} else if s, ok := c.list.Closest(lower, suggestDistance); ok {
			res.Suggestion = s
		}
		return res
	}

	return types.CheckResult{Level: level, Passed: true, Details: "top level domain ok"}
}
