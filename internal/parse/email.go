package parse

import (
	"strings"

	"golang.org/x/net/idna"
)

// Email is the internal representation of a split email address.
// The check/ packages receive this as parameter.
type Email struct {
	Raw    string // the original input, untouched
	Local  string // the part before the last @
	Domain string // the part after the last @, as written
	// ASCIIDomain is Domain converted to its IDNA lookup form (lower-case,
	// Punycode). Empty when the domain fails IDNA validation.
	ASCIIDomain string
	HasAt       bool
}

// NewEmail splits raw on its last @. A quoted local part may itself
// contain @, so the domain is always what follows the final one.
// No trimming or case folding is applied to Local or Domain.
func NewEmail(raw string) Email {
	atIdx := strings.LastIndex(raw, "@")
	if atIdx < 0 {
		return Email{Raw: raw}
	}
	domain := raw[atIdx+1:]
	return Email{
		Raw:         raw,
		Local:       raw[:atIdx],
		Domain:      domain,
		ASCIIDomain: ToASCII(domain),
		HasAt:       true,
	}
}

// ToASCII converts a domain to the form used on the wire for DNS queries.
// It returns "" if the domain is not a valid IDNA2008 lookup name.
func ToASCII(domain string) string {
	if domain == "" {
		return ""
	}
	// IP literals are never queried, keep them as written
	if strings.HasPrefix(domain, "[") && strings.HasSuffix(domain, "]") {
		return domain
	}
	a, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return ""
	}
	return a
}
