package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/errlens/errlens/internal/app"
	"github.com/errlens/errlens/internal/output"
	"github.com/errlens/errlens/internal/store"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database path, schema version, and history size",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, source, err := app.ResolveDBPathDetailed()
			if err != nil {
				return cmdErr(err)
			}

			type resp struct {
				DBPath        string `json:"db_path"`
				DBPathSource  string `json:"db_path_source"`
				SchemaVersion int64  `json:"schema_version"`
				SchemaLatest  int64  `json:"schema_latest"`
				HistoryCount  int64  `json:"history_count"`
				Check         string `json:"check,omitempty"`
			}
			r := resp{DBPath: dbPath, DBPathSource: source}

			err = withDB(func(db *DB) error {
				current, latest, err := store.SchemaVersion(db)
				if err != nil {
					return err
				}
				r.SchemaVersion = current
				r.SchemaLatest = latest

				count, err := store.CountClassifications(db)
				if err != nil {
					return err
				}
				r.HistoryCount = count

				if check {
					var one int
					if err := db.QueryRowContext(context.Background(), "SELECT 1").Scan(&one); err != nil {
						return fmt.Errorf("connectivity check failed: %w", err)
					}
					r.Check = "ok"
				}
				return nil
			})
			if err != nil {
				return err
			}

			return output.PrintSuccess(r)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Run a connectivity check against the database")

	return cmd
}
