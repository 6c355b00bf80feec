// Package rules loads user-defined error suggestion rules from a YAML file.
// Rules extend the built-in registry: plain patterns match as
// case-insensitive substrings, "regex:"-prefixed patterns as regular
// expressions. Rules are evaluated in file order; the first match wins.
package rules

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// regexPrefix marks a pattern as a regular expression instead of a substring.
const regexPrefix = "regex:"

// Rule maps error-message patterns to a readable message and an actionable
// suggestion.
type Rule struct {
	// Patterns to match against error messages. Plain strings match as
	// case-insensitive substrings; prefix with "regex:" for RE2 matching.
	Patterns []string `yaml:"patterns"`

	// Message replaces the cryptic system error with something readable.
	Message string `yaml:"message"`

	// Suggestion is the actionable next step for the user.
	Suggestion string `yaml:"suggestion,omitempty"`

	// DocURL is an optional link to documentation.
	DocURL string `yaml:"doc_url,omitempty"`
}

// Matched is a successful match of an error message against a rule.
type Matched struct {
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	DocURL     string `json:"doc_url,omitempty"`
}

type compiledRule struct {
	rule       Rule
	substrings []string
	regexes    []*regexp.Regexp
}

// Set is an ordered collection of compiled rules.
type Set struct {
	rules []compiledRule
}

// Load reads and compiles a rules file. A pattern that fails to compile is a
// configuration error and fails the whole load; a missing path yields an
// empty set.
func Load(path string) (*Set, error) {
	if path == "" {
		return &Set{}, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Set{}, nil
		}
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return Parse(b)
}

// Parse compiles rules from raw YAML.
func Parse(b []byte) (*Set, error) {
	var doc struct {
		Rules []Rule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}

	s := &Set{}
	for i, r := range doc.Rules {
		if r.Message == "" {
			return nil, fmt.Errorf("rule %d: message is required", i+1)
		}
		if len(r.Patterns) == 0 {
			return nil, fmt.Errorf("rule %d: at least one pattern is required", i+1)
		}

		cr := compiledRule{rule: r}
		for _, p := range r.Patterns {
			if rest, ok := strings.CutPrefix(p, regexPrefix); ok {
				re, err := regexp.Compile(rest)
				if err != nil {
					return nil, fmt.Errorf("rule %d: pattern %q does not compile: %w", i+1, rest, err)
				}
				cr.regexes = append(cr.regexes, re)
				continue
			}
			cr.substrings = append(cr.substrings, strings.ToLower(p))
		}
		s.rules = append(s.rules, cr)
	}
	return s, nil
}

// Len returns the number of loaded rules.
func (s *Set) Len() int { return len(s.rules) }

// Match returns the first rule matching message, or false when none does.
func (s *Set) Match(message string) (Matched, bool) {
	lower := strings.ToLower(message)
	for _, cr := range s.rules {
		if cr.matches(message, lower) {
			return Matched{
				Message:    cr.rule.Message,
				Suggestion: cr.rule.Suggestion,
				DocURL:     cr.rule.DocURL,
			}, true
		}
	}
	return Matched{}, false
}

func (cr compiledRule) matches(message, lower string) bool {
	for _, sub := range cr.substrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	for _, re := range cr.regexes {
		if re.MatchString(message) {
			return true
		}
	}
	return false
}
