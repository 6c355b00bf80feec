package engine

import (
	"regexp"
	"strings"

	"github.com/errlens/errlens/internal/models"
)

// flagTokenPattern recognizes long-form CLI flags in error text: "--" followed
// by a lowercase letter, then letters/hyphens. The leading (^|[^/]) group
// rejects tokens glued onto a preceding "/" so that slash-joined alternatives
// like "--name/-n/--resource-group" contribute only their first flag.
var flagTokenPattern = regexp.MustCompile(`(^|[^/])--([a-z][a-z-]*)`)

// flagTokens returns the bare names (without the leading dashes) of all
// flag-like tokens in msg, in order of appearance.
func flagTokens(msg string) []string {
	var names []string
	for _, m := range flagTokenPattern.FindAllStringSubmatch(msg, -1) {
		names = append(names, m[2])
	}
	return names
}

// parameterFlags maps internal parameter field names to their CLI flag
// spelling. Names without an entry are shown verbatim.
var parameterFlags = map[string]string{
	"resource_group_name": "--resource-group",
	"account_name":        "--account-name",
	"vm_name":             "--vm-name",
	"name":                "--name",
	"location":            "--location",
}

func normalizeParameter(name string) string {
	if flag, ok := parameterFlags[name]; ok {
		return flag
	}
	return name
}

func handleResourceNotFound(groups Match, _ string, _ Metadata) Result {
	return Result{Message: groups["invalid_resource_name"] + " does not exist"}
}

func handleCommandNotFound(groups Match, _ string, _ Metadata) Result {
	return Result{Message: groups["command_group"] + " " + groups["subcommand"]}
}

// handleArgumentRequired lists every required flag named in the raw message.
// The first name is bare and each subsequent one is prefixed with " and ",
// which reads oddly for three or more flags; that joining is preserved
// deliberately (see DESIGN.md).
func handleArgumentRequired(_ Match, raw string, _ Metadata) Result {
	names := flagTokens(raw)
	if len(names) == 0 {
		return Result{}
	}
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString(" and ")
		}
		b.WriteString(name)
	}
	return Result{Message: b.String()}
}

// handleValueRequired names the first flag-like token in the raw message, or
// declines when none is present.
func handleValueRequired(_ Match, raw string, _ Metadata) Result {
	names := flagTokens(raw)
	if len(names) == 0 {
		return Result{}
	}
	return Result{Message: "--" + names[0]}
}

// handleCharacterNotAllowed infers which characters of a rejected value
// violate the validator's allow-list pattern, purely from the pattern quoted
// in the error message. It needs the rejected value itself, carried as
// out-of-band metadata.
func handleCharacterNotAllowed(groups Match, _ string, meta Metadata) Result {
	if !meta.HasInvalidValue {
		return Result{}
	}

	allow, err := compileAllowPattern(groups["regex"])
	if err != nil {
		return Result{}
	}

	invalid := invalidCharacters(allow, meta.InvalidValue)
	if invalid == "" {
		return Result{}
	}

	return Result{
		Message: invalid,
		Correction: &models.SuggestedCorrection{
			Suggestion: deleteCharacters(meta.InvalidValue, invalid),
			Kind:       models.CorrectionKindInvalidArgument,
			Parameter:  normalizeParameter(groups["parameter"]),
		},
	}
}

// compileAllowPattern repairs the escaping artifacts in a pattern quoted by
// the upstream validator (a doubled backslash before w) and strips the ^/$
// anchors so the pattern can be used for substring search.
func compileAllowPattern(quoted string) (*regexp.Regexp, error) {
	p := strings.ReplaceAll(quoted, `\\w`, `\w`)
	p = strings.TrimPrefix(p, "^")
	p = strings.TrimSuffix(p, "$")
	return regexp.Compile(p)
}

// invalidCharacters returns the distinct characters of value that fall
// outside the allow pattern, in order of first appearance. Every substring
// the permissive pattern accepts is a valid fragment; whatever text remains
// after removing each fragment once is made of the offending characters.
func invalidCharacters(allow *regexp.Regexp, value string) string {
	remainder := value
	for _, fragment := range allow.FindAllString(value, -1) {
		if fragment == "" {
			continue
		}
		remainder = strings.Replace(remainder, fragment, "", 1)
	}

	var distinct []rune
	seen := make(map[rune]bool)
	for _, ch := range remainder {
		if seen[ch] {
			continue
		}
		seen[ch] = true
		distinct = append(distinct, ch)
	}
	return string(distinct)
}

// deleteCharacters removes every occurrence of each rune in chars from value.
func deleteCharacters(value, chars string) string {
	for _, ch := range chars {
		value = strings.ReplaceAll(value, string(ch), "")
	}
	return value
}
