package commands

import (
	"github.com/spf13/cobra"

	"github.com/errlens/errlens/internal/app"
	"github.com/errlens/errlens/internal/models"
	"github.com/errlens/errlens/internal/output"
	"github.com/errlens/errlens/internal/store"
)

// NewHistoryCmd creates the history command group
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded classifications",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryLastCmd())
	cmd.AddCommand(newHistoryPruneCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var (
		kind    string
		limit   int
		sinceID int64
		asc     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded classifications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db *DB) error {
				records, err := store.ListClassifications(db, store.ListParams{
					Kind:    kind,
					SinceID: sinceID,
					Limit:   limit,
					Desc:    !asc,
				})
				if err != nil {
					return err
				}

				type resp struct {
					Count           int                      `json:"count"`
					Classifications []*models.Classification `json:"classifications"`
				}
				return output.PrintSuccess(resp{
					Count:           len(records),
					Classifications: records,
				})
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only show classifications of this kind")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of records to return")
	cmd.Flags().Int64Var(&sinceID, "since-id", 0, "Only show records with id greater than this")
	cmd.Flags().BoolVar(&asc, "asc", false, "Oldest first instead of newest first")

	return cmd
}

func newHistoryLastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Show the most recently recorded classification",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db *DB) error {
				record, found, err := store.LastClassification(db)
				if err != nil {
					return err
				}

				type resp struct {
					Found          bool                   `json:"found"`
					Classification *models.Classification `json:"classification,omitempty"`
				}
				return output.PrintSuccess(resp{Found: found, Classification: record})
			})
		},
	}
}

func newHistoryPruneCmd() *cobra.Command {
	var (
		days  int
		batch int
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete classifications older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := app.EffectiveHistorySettings()
			if days <= 0 {
				days = settings.RetentionDays
			}
			if batch <= 0 {
				batch = settings.PruneBatch
			}

			return withDB(func(db *DB) error {
				deleted, err := store.PruneClassifications(db, days, batch)
				if err != nil {
					return err
				}

				type resp struct {
					Deleted       int64 `json:"deleted"`
					RetentionDays int   `json:"retention_days"`
					Batch         int   `json:"batch"`
				}
				return output.PrintSuccess(resp{
					Deleted:       deleted,
					RetentionDays: days,
					Batch:         batch,
				})
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Retention window in days (default from config)")
	cmd.Flags().IntVar(&batch, "batch", 0, "Maximum rows deleted per run (default from config)")

	return cmd
}
