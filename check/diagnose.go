package check

import (
	"regexp"
	"strings"
)

// Reason identifies why an address failed the pattern match.
type Reason int

const (
	ReasonMissingAt Reason = iota + 1
	ReasonMultipleAt
	ReasonLeadingDot
	ReasonMultipleDots
	ReasonEncodedHTML
	ReasonLeadingDash
	ReasonTrailingText
	ReasonMissingTLD
	ReasonMissingUsername
	ReasonTrailingDot
	ReasonInvalid
)

var reasonMessages = map[Reason]string{
	ReasonMissingAt:       "Missing @ sign",
	ReasonMultipleAt:      "More than one @ signs",
	ReasonLeadingDot:      "Leading dot in address is not allowed",
	ReasonMultipleDots:    "Multiple dots are not allowed",
	ReasonEncodedHTML:     "Encoded html within email is invalid",
	ReasonLeadingDash:     "Leading dash in front of domain is invalid",
	ReasonTrailingText:    "Text followed email is not allowed",
	ReasonMissingTLD:      "Missing top level domain (.com/.net/.org/etc)",
	ReasonMissingUsername: "Missing username",
	ReasonTrailingDot:     "Trailing dot in address is not allowed",
	ReasonInvalid:         "The provided email address is not valid",
}

// Message returns the text reported to callers for r.
func (r Reason) Message() string {
	if m, ok := reasonMessages[r]; ok {
		return m
	}
	return reasonMessages[ReasonInvalid]
}

func (r Reason) String() string {
	return r.Message()
}

var (
	encodedHTMLRe  = regexp.MustCompile(`[\w\s]*<\w+@\w+\.\w+>`)
	trailingTextRe = regexp.MustCompile(`\w+@\w+\.\w+\s+\w*`)
	tldSuffixRe    = regexp.MustCompile(`\.\w+$`)
)

// Diagnose explains why email does not match the address pattern.
// It assumes the match already failed and always returns a reason;
// the rules are tried in order and the first hit wins.
func Diagnose(email string) Reason {
	switch n := strings.Count(email, "@"); {
	case n == 0:
		return ReasonMissingAt
	case n > 1:
		return ReasonMultipleAt
	}

	local, domain, _ := strings.Cut(email, "@")

	switch {
	case strings.HasPrefix(email, "."):
		return ReasonLeadingDot
	case strings.Contains(email, ".."):
		return ReasonMultipleDots
	case encodedHTMLRe.MatchString(email):
		return ReasonEncodedHTML
	case strings.HasPrefix(domain, "-"):
		return ReasonLeadingDash
	case trailingTextRe.MatchString(email):
		return ReasonTrailingText
	case !tldSuffixRe.MatchString(email):
		return ReasonMissingTLD
	case local == "":
		return ReasonMissingUsername
	case strings.HasSuffix(local, "."):
		return ReasonTrailingDot
	}
	return ReasonInvalid
}
