package models

import "time"

// CorrectionKind categorizes a suggested correction.
type CorrectionKind string

// CorrectionKindInvalidArgument marks a correction that replaces an invalid
// parameter value. The only kind today; the type exists so future kinds
// (e.g. misspelled subcommands) slot in without schema changes.
const CorrectionKindInvalidArgument CorrectionKind = "invalid_argument"

// SuggestedCorrection is a proposed replacement value for a malformed
// parameter. Immutable once constructed.
type SuggestedCorrection struct {
	// Suggestion is the corrected value to show the user.
	Suggestion string `json:"suggestion"`
	// Kind tags what sort of correction this is.
	Kind CorrectionKind `json:"kind"`
	// Parameter is the CLI flag spelling the correction applies to
	// (e.g. "--resource-group"), empty when unknown.
	Parameter string `json:"parameter,omitempty"`
}

// Classification is the full record of one rewritten error: the final
// user-facing message, the message as it arrived, the optional suggested
// correction, the matched kind label, and the pattern's named capture groups.
type Classification struct {
	ID                int64                `json:"id,omitempty"`
	Kind              string               `json:"kind"`
	Message           string               `json:"message"`
	OverriddenMessage string               `json:"overridden_message"`
	Suggestion        *SuggestedCorrection `json:"suggestion,omitempty"`
	Groups            map[string]string    `json:"groups,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
}
