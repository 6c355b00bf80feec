// Package store persists classification records to a local SQLite database
// so the last-error query and history listing work across CLI invocations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/errlens/errlens/internal/models"
)

// Payload size constraints enforced by validateClassification.
const (
	MaxKindLength    = 128
	MaxMessageLength = 4096
)

// validateClassification enforces record constraints before insert.
func validateClassification(c *models.Classification) error {
	if c == nil {
		return errors.New("classification is required")
	}
	kind := strings.TrimSpace(c.Kind)
	if kind == "" {
		return errors.New("classification kind is required")
	}
	if len(kind) > MaxKindLength {
		return fmt.Errorf("classification kind exceeds max length (%d)", MaxKindLength)
	}
	if strings.TrimSpace(c.Message) == "" {
		return errors.New("classification message is required")
	}
	if len(c.Message) > MaxMessageLength {
		return fmt.Errorf("classification message exceeds max length (%d)", MaxMessageLength)
	}
	if len(c.OverriddenMessage) > MaxMessageLength {
		return fmt.Errorf("overridden message exceeds max length (%d)", MaxMessageLength)
	}
	return nil
}

// InsertClassification appends a classification record and returns its id.
// Suggestion and capture groups are stored as JSON columns.
func InsertClassification(db *sql.DB, c *models.Classification) (int64, error) {
	if err := validateClassification(c); err != nil {
		return 0, err
	}

	suggestion := any(nil)
	if c.Suggestion != nil {
		b, err := json.Marshal(c.Suggestion)
		if err != nil {
			return 0, fmt.Errorf("marshal suggestion: %w", err)
		}
		suggestion = string(b)
	}

	groups := any(nil)
	if len(c.Groups) > 0 {
		b, err := json.Marshal(c.Groups)
		if err != nil {
			return 0, fmt.Errorf("marshal match groups: %w", err)
		}
		groups = string(b)
	}

	var id int64
	err := Transact(db, func(tx *sql.Tx) error {
		// created_at takes the DB default so retention comparisons against
		// datetime('now') always see one timestamp format.
		result, err := tx.ExecContext(context.Background(), `
			INSERT INTO classifications (kind, message, overridden_message, suggestion, match_groups)
			VALUES (?, ?, ?, ?, ?)
		`, c.Kind, c.Message, c.OverriddenMessage, suggestion, groups)
		if err != nil {
			return fmt.Errorf("failed to insert classification: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// LastClassification returns the most recently recorded classification, or
// false when the history is empty.
func LastClassification(db *sql.DB) (*models.Classification, bool, error) {
	var c *models.Classification
	err := RetryWithBackoff(func() error {
		row := db.QueryRowContext(context.Background(), `
			SELECT id, kind, message, overridden_message, suggestion, match_groups, created_at
			FROM classifications
			ORDER BY id DESC
			LIMIT 1
		`)
		rec, scanErr := scanClassification(row)
		if scanErr == sql.ErrNoRows {
			c = nil
			return nil
		}
		if scanErr != nil {
			return scanErr
		}
		c = rec
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("last classification: %w", err)
	}
	if c == nil {
		return nil, false, nil
	}
	return c, true, nil
}

// ListParams filters and orders a history listing.
type ListParams struct {
	Kind    string
	SinceID int64
	Limit   int
	Desc    bool
}

// ListClassifications returns history records, newest first by default.
func ListClassifications(db *sql.DB, params ListParams) ([]*models.Classification, error) {
	query := `
		SELECT id, kind, message, overridden_message, suggestion, match_groups, created_at
		FROM classifications
		WHERE 1=1
	`
	args := []any{}
	if params.Kind != "" {
		query += " AND kind = ?"
		args = append(args, params.Kind)
	}
	if params.SinceID > 0 {
		query += " AND id > ?"
		args = append(args, params.SinceID)
	}
	if params.Desc {
		query += " ORDER BY id DESC"
	} else {
		query += " ORDER BY id ASC"
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT ?"
	args = append(args, limit)

	var out []*models.Classification
	err := RetryWithBackoff(func() error {
		rows, err := db.QueryContext(context.Background(), query, args...)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		out = nil
		for rows.Next() {
			rec, scanErr := scanClassification(rows)
			if scanErr != nil {
				return scanErr
			}
			out = append(out, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	return out, nil
}

// CountClassifications returns the total number of history records.
func CountClassifications(db *sql.DB) (int64, error) {
	var count int64
	err := RetryWithBackoff(func() error {
		return db.QueryRowContext(context.Background(),
			`SELECT COUNT(*) FROM classifications`).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("count classifications: %w", err)
	}
	return count, nil
}

// PruneClassifications deletes up to batch records older than retentionDays.
// Returns the number of rows deleted; call repeatedly to drain a backlog.
func PruneClassifications(db *sql.DB, retentionDays, batch int) (int64, error) {
	if retentionDays <= 0 {
		return 0, errors.New("retention days must be > 0")
	}
	if batch <= 0 {
		return 0, errors.New("prune batch must be > 0")
	}

	var deleted int64
	err := Transact(db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(context.Background(), `
			DELETE FROM classifications
			WHERE id IN (
				SELECT id FROM classifications
				WHERE created_at < datetime('now', ?)
				ORDER BY id ASC
				LIMIT ?
			)
		`, fmt.Sprintf("-%d days", retentionDays), batch)
		if err != nil {
			return fmt.Errorf("failed to prune classifications: %w", err)
		}
		deleted, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to count pruned rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// rowScanner is the scan surface shared by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanClassification(row rowScanner) (*models.Classification, error) {
	var (
		c          models.Classification
		suggestion sql.NullString
		groups     sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Kind, &c.Message, &c.OverriddenMessage, &suggestion, &groups, &c.CreatedAt); err != nil {
		return nil, err
	}
	if suggestion.Valid && suggestion.String != "" {
		var s models.SuggestedCorrection
		if err := json.Unmarshal([]byte(suggestion.String), &s); err != nil {
			return nil, fmt.Errorf("unmarshal suggestion: %w", err)
		}
		c.Suggestion = &s
	}
	if groups.Valid && groups.String != "" {
		if err := json.Unmarshal([]byte(groups.String), &c.Groups); err != nil {
			return nil, fmt.Errorf("unmarshal match groups: %w", err)
		}
	}
	return &c, nil
}
