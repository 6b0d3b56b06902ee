// Package keyword implements the case-insensitive substring filter used by API search.
package keyword

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Matcher matches names containing a keyword, ignoring case.
// The zero value and blank keywords match everything.
// A Matcher is not safe for concurrent use.
type Matcher struct {
	needle string
	caser  cases.Caser
	active bool
}

// New creates a Matcher for keyword. A keyword made only of whitespace disables filtering.
func New(keyword string) Matcher {
	if strings.TrimSpace(keyword) == "" {
		return Matcher{}
	}
	c := cases.Lower(language.Und)
	return Matcher{needle: c.String(keyword), caser: c, active: true}
}

// Active reports whether the matcher filters anything.
func (m Matcher) Active() bool { return m.active }

// Keyword returns the lower-cased keyword ("" when inactive).
func (m Matcher) Keyword() string { return m.needle }

// Match reports whether name passes the filter. Empty names never match an active filter.
func (m Matcher) Match(name string) bool {
	if !m.active {
		return true
	}
	if name == "" {
		return false
	}
	return strings.Contains(m.caser.String(name), m.needle)
}
