package suffix

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/idna"
)

// ErrEmptyRuleList is returned when a rule file contains no rules.
var ErrEmptyRuleList = errors.New("suffix rule list contains no rules")

// List is a public-suffix rule set parsed from a file in the
// publicsuffix.org list format. It supports exact rules ("co.uk"),
// wildcard rules ("*.ck"), and exception rules ("!www.ck").
//
// A List is immutable after parsing and safe for concurrent lookups.
type List struct {
	rules      map[string]struct{}
	wildcards  map[string]struct{}
	exceptions map[string]struct{}
}

// LoadListFile parses a public-suffix rule file from disk.
func LoadListFile(path string) (*List, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided rule list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open suffix rule list: %w", err)
	}
	defer f.Close()

	l, err := ParseList(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse suffix rule list %s: %w", path, err)
	}
	return l, nil
}

// ParseList reads rules in the publicsuffix.org list format.
// Blank lines and comments ("//") are skipped, a rule ends at the first
// whitespace, and Unicode rules are stored in their IDNA (punycode)
// form so lookups can be done on ASCII hosts.
func ParseList(r io.Reader) (*List, error) {
	l := &List{
		rules:      make(map[string]struct{}),
		wildcards:  make(map[string]struct{}),
		exceptions: make(map[string]struct{}),
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		// A rule ends at the first whitespace.
		if i := strings.IndexAny(line, " \t"); i >= 0 {
			line = line[:i]
		}

		rule := strings.ToLower(strings.Trim(line, "."))
		switch {
		case strings.HasPrefix(rule, "!"):
			l.exceptions[asciiForm(rule[1:])] = struct{}{}
		case strings.HasPrefix(rule, "*."):
			l.wildcards[asciiForm(rule[2:])] = struct{}{}
		default:
			l.rules[asciiForm(rule)] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if l.Len() == 0 {
		return nil, ErrEmptyRuleList
	}
	return l, nil
}

// Len returns the total number of parsed rules.
func (l *List) Len() int {
	return len(l.rules) + len(l.wildcards) + len(l.exceptions)
}

// PublicSuffix implements Source with the publicsuffix.org algorithm:
// among all rules matching a suffix of the host's labels, the longest
// (most specific) wins, and exception rules beat everything, yielding
// the rule minus its leftmost label. When nothing matches, the last
// label is returned with matched=false.
func (l *List) PublicSuffix(host string) (string, bool) {
	labels := strings.Split(host, ".")

	matchedAt := -1
	for i := len(labels) - 1; i >= 0; i-- {
		candidate := strings.Join(labels[i:], ".")

		if _, ok := l.exceptions[candidate]; ok {
			return strings.Join(labels[i+1:], "."), true
		}
		if _, ok := l.rules[candidate]; ok {
			matchedAt = i
		}
		// A wildcard rule "*.candidate" consumes one extra label.
		if i > 0 {
			if _, ok := l.wildcards[candidate]; ok {
				matchedAt = i - 1
			}
		}
	}

	if matchedAt < 0 {
		return labels[len(labels)-1], false
	}
	return strings.Join(labels[matchedAt:], "."), true
}

// asciiForm maps a rule to its IDNA ASCII form, keeping the original
// when mapping fails (e.g. the wildcard label itself).
func asciiForm(rule string) string {
	if ascii, err := idna.Lookup.ToASCII(rule); err == nil {
		return ascii
	}
	return rule
}
