// Package engine classifies raw CLI error text against an ordered registry
// of known error shapes and rewrites matches into clearer user-facing
// messages, optionally paired with a suggested corrective value.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/errlens/errlens/internal/models"
)

// messageFormat is the contract for rewritten messages. Terminal styling is
// layered on top at presentation time and never stored.
const messageFormat = "%s: %s"

// InvalidValuer is implemented by errors that carry the parameter value the
// upstream validator rejected. The CharacterNotAllowed path reads the value
// through this interface; everything else ignores it.
type InvalidValuer interface {
	InvalidValue() string
}

// ValidationError is a ready-made error carrying a rejected parameter value.
type ValidationError struct {
	Msg   string
	Value string
}

func (e *ValidationError) Error() string        { return e.Msg }
func (e *ValidationError) InvalidValue() string { return e.Value }

// RewrittenError pairs an immutable original error with its rewritten
// user-facing message. Callers that need the original unwrap it; the message
// presented is always the rewritten one.
type RewrittenError struct {
	message  string
	original error
}

func (e *RewrittenError) Error() string { return e.message }

// Unwrap exposes the original error to errors.Is/As chains.
func (e *RewrittenError) Unwrap() error { return e.original }

// Original returns the error as it was before rewriting.
func (e *RewrittenError) Original() error { return e.original }

// Engine matches raw errors against its registry and rewrites the first
// match. It retains the most recent classification; that slot is guarded by
// a mutex so concurrent callers never observe a torn record.
type Engine struct {
	registry *Registry

	mu   sync.Mutex
	last *models.Classification
}

// New returns an Engine over the default registry of canonical kinds.
func New() *Engine { return NewWithRegistry(DefaultRegistry()) }

// NewWithRegistry returns an Engine over a caller-supplied registry.
func NewWithRegistry(r *Registry) *Engine {
	if r == nil {
		panic("engine: nil registry")
	}
	return &Engine{registry: r}
}

// Evaluate scans the registry in priority order and rewrites message on the
// first pattern match. It returns the (possibly unchanged) message and the
// classification record, nil when nothing was rewritten. Evaluate is pure;
// it never touches the last-error slot.
//
// The first matching pattern ends the scan even when its handler declines to
// rewrite; later kinds are not consulted. See DESIGN.md for that decision.
func (e *Engine) Evaluate(message string, meta Metadata) (string, *models.Classification) {
	for _, reg := range e.registry.entries {
		m := reg.kind.pattern.FindStringSubmatch(message)
		if m == nil {
			continue
		}

		groups := namedGroups(reg.kind.pattern, m)
		res := reg.handle(groups, message, meta)
		if !res.Rewritten() {
			return message, nil
		}

		final := fmt.Sprintf(messageFormat, reg.kind.label, res.Message)
		return final, &models.Classification{
			Kind:              reg.kind.label,
			Message:           final,
			OverriddenMessage: message,
			Suggestion:        res.Correction,
			Groups:            groups,
			CreatedAt:         time.Now().UTC(),
		}
	}
	return message, nil
}

// ClassifyMessage rewrites a raw message string. Unmatched messages come
// back unchanged and leave the last-error slot untouched.
func (e *Engine) ClassifyMessage(message string) string {
	rewritten, record := e.Evaluate(message, Metadata{})
	e.record(record)
	return rewritten
}

// Classify rewrites an error. On a match it returns a *RewrittenError
// wrapping the untouched original; otherwise it returns err as given.
// A nil err is returned as-is. Rejected-value metadata is read from the
// error via the InvalidValuer interface.
func (e *Engine) Classify(err error) error {
	if err == nil {
		return nil
	}

	meta := Metadata{}
	var iv InvalidValuer
	if errors.As(err, &iv) {
		meta = Metadata{InvalidValue: iv.InvalidValue(), HasInvalidValue: true}
	}

	slog.Debug("classifying error", "error", err.Error())

	rewritten, record := e.Evaluate(err.Error(), meta)
	if record == nil {
		return err
	}
	e.record(record)
	return &RewrittenError{message: rewritten, original: err}
}

// LastError returns the most recent classification, or false when nothing
// has been classified yet. The record is copied out under the lock.
func (e *Engine) LastError() (models.Classification, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return models.Classification{}, false
	}
	return *e.last, true
}

func (e *Engine) record(c *models.Classification) {
	if c == nil {
		return
	}
	e.mu.Lock()
	e.last = c
	e.mu.Unlock()
}
