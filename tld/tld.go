// Package tld holds the list of top-level domains known to the IANA root
// zone and the helpers to check a domain's final label against it.
package tld

//go:generate go run ../cmd/tldgen -o tlds.txt

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/optimode/emailcheck/internal/levenshtein"
)

//go:embed tlds.txt
var rawList string

// List is an immutable set of lower-cased top-level domains.
// The zero value is an empty list.
type List struct {
	set map[string]struct{}
}

var defaultList = sync.OnceValue(func() *List {
	l, err := Parse(strings.NewReader(rawList))
	if err != nil {
		panic(fmt.Sprintf("tld: embedded list: %v", err))
	}
	return l
})

// Default returns the list embedded at build time from the IANA registry.
// It is parsed on first use and shared afterwards.
func Default() *List {
	return defaultList()
}

// New builds a list from the given entries, lower-casing each.
func New(entries ...string) *List {
	l := &List{set: make(map[string]struct{}, len(entries))}
	for _, e := range entries {
		if e = strings.TrimSpace(e); e != "" {
			l.set[strings.ToLower(e)] = struct{}{}
		}
	}
	return l
}

// Parse reads a registry file in the IANA tlds-alpha-by-domain.txt format:
// one domain per line. Blank lines, comments and any line containing
// whitespace are skipped.
func Parse(r io.Reader) (*List, error) {
	l := &List{set: make(map[string]struct{})}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") || strings.IndexFunc(line, unicode.IsSpace) >= 0 {
			continue
		}
		l.set[strings.ToLower(line)] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("tld: reading list: %w", err)
	}
	return l, nil
}

// Contains reports whether top is in the list. The lookup is exact:
// entries are lower-case, so "COM" is not found.
func (l *List) Contains(top string) bool {
	if l == nil {
		return false
	}
	_, ok := l.set[top]
	return ok
}

// Len returns the number of entries.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.set)
}

// Entries returns the entries in sorted order.
func (l *List) Entries() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.set))
	for e := range l.set {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Closest returns the entry nearest to top within maxDist edits, for
// "did you mean" hints. Entries of the same length as top win ties, then
// the alphabetically first. ok is false if nothing is close enough or top
// is itself an entry.
func (l *List) Closest(top string, maxDist int) (best string, ok bool) {
	if l.Contains(top) || len(top) < 2 {
		return "", false
	}
	bestDist := maxDist + 1
	for _, e := range l.Entries() {
		if !levenshtein.Within(top, e, maxDist) {
			continue
		}
		d := levenshtein.Distance(top, e)
		sameLen := len(e) == len(top)
		if d < bestDist || (d == bestDist && sameLen && len(best) != len(top)) {
			best, bestDist = e, d
		}
	}
	return best, best != ""
}

var suffixRe = regexp.MustCompile(`\.(\w+)$`)

// Suffix extracts the final dot-suffix of domain: one or more word
// characters after the last dot. ok is false if there is none.
func Suffix(domain string) (top string, ok bool) {
	m := suffixRe.FindStringSubmatch(domain)
	if m == nil {
		return "", false
	}
	return m[1], true
}
