package engine

import (
	"regexp"

	"github.com/errlens/errlens/internal/models"
)

// Match holds a pattern's named capture groups by group name.
type Match map[string]string

// Metadata carries out-of-band context that does not appear in the message
// itself. Today that is only the rejected parameter value used by the
// CharacterNotAllowed path.
type Metadata struct {
	InvalidValue    string
	HasInvalidValue bool
}

// Result is a handler's verdict on one matched occurrence. The zero value
// means "no confident rewrite"; a non-empty Message means the occurrence was
// rewritten, optionally with a suggested correction.
type Result struct {
	Message    string
	Correction *models.SuggestedCorrection
}

// Rewritten reports whether the handler produced a rewrite.
func (r Result) Rewritten() bool { return r.Message != "" }

// HandlerFunc rewrites one matched error occurrence. Handlers are pure:
// same groups, raw message and metadata always yield the same Result.
type HandlerFunc func(groups Match, raw string, meta Metadata) Result

// namedGroups extracts a pattern's named submatches from a FindStringSubmatch
// result. Unnamed groups are dropped.
func namedGroups(re *regexp.Regexp, m []string) Match {
	groups := make(Match)
	for i, name := range re.SubexpNames() {
		if name == "" || i >= len(m) {
			continue
		}
		groups[name] = m[i]
	}
	return groups
}
