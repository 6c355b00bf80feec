package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/errlens/errlens/internal/app"
	"github.com/errlens/errlens/internal/engine"
	"github.com/errlens/errlens/internal/models"
	"github.com/errlens/errlens/internal/output"
	"github.com/errlens/errlens/internal/rules"
	"github.com/errlens/errlens/internal/store"
)

// userRuleKind labels history records produced by a user rule match rather
// than one of the built-in kinds.
const userRuleKind = "User rule"

type classifyResponse struct {
	Matched        bool                   `json:"matched"`
	Message        string                 `json:"message"`
	Classification *models.Classification `json:"classification,omitempty"`
	Rule           *rules.Matched         `json:"rule,omitempty"`
	HistoryID      int64                  `json:"history_id,omitempty"`
}

// NewClassifyCmd creates the classify command
func NewClassifyCmd() *cobra.Command {
	var (
		value     string
		noRecord  bool
		rulesPath string
		human     bool
	)

	cmd := &cobra.Command{
		Use:   "classify [message]",
		Short: "Classify a raw error message and rewrite it into a readable one",
		Long: `Classify matches a raw error message against the built-in registry of
known error shapes, then against user-defined rules. Pass the message as an
argument, or "-" (or nothing) to read it from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := readMessage(cmd, args)
			if err != nil {
				return cmdErr(err)
			}
			if strings.TrimSpace(message) == "" {
				return cmdErr(fmt.Errorf("message is required"))
			}

			meta := engine.Metadata{}
			if cmd.Flags().Changed("value") {
				meta = engine.Metadata{InvalidValue: value, HasInvalidValue: true}
			}

			eng := engine.New()
			rewritten, record := eng.Evaluate(message, meta)

			resp := classifyResponse{Message: rewritten}
			if record != nil {
				resp.Matched = true
				resp.Classification = record
			} else {
				// Registry had nothing; fall back to user rules.
				matched, rule, ruleErr := matchUserRules(rulesPath, message)
				if ruleErr != nil {
					return cmdErr(ruleErr)
				}
				if matched {
					resp.Matched = true
					resp.Rule = &rule
					resp.Message = rule.Message
					record = &models.Classification{
						Kind:              userRuleKind,
						Message:           rule.Message,
						OverriddenMessage: message,
					}
					if rule.Suggestion != "" {
						record.Suggestion = &models.SuggestedCorrection{
							Suggestion: rule.Suggestion,
							Kind:       models.CorrectionKindInvalidArgument,
						}
					}
					resp.Classification = record
				}
			}

			if record != nil && !noRecord {
				resp.HistoryID = recordClassification(record)
			}

			if human {
				printHuman(cmd, resp)
				return nil
			}
			return output.PrintSuccess(resp)
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "Rejected parameter value, used by the character-not-allowed path")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "Skip recording the classification in history")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "Path to a user rules YAML file")
	cmd.Flags().BoolVar(&human, "human", false, "Render styled terminal output instead of JSON")

	return cmd
}

func readMessage(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read message from stdin: %w", err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

func matchUserRules(flagPath, message string) (bool, rules.Matched, error) {
	path := flagPath
	if path == "" {
		resolved, err := app.GetRulesPath()
		if err != nil {
			return false, rules.Matched{}, err
		}
		path = resolved
	}
	set, err := rules.Load(path)
	if err != nil {
		return false, rules.Matched{}, err
	}
	m, ok := set.Match(message)
	return ok, m, nil
}

// recordClassification appends to history on a best-effort basis. A broken
// or locked database must never turn a successful rewrite into a failure.
func recordClassification(c *models.Classification) int64 {
	db, closeDB, err := openDB()
	if err != nil {
		slog.Warn("history unavailable, classification not recorded", "error", err.Error())
		return 0
	}
	defer closeDB()

	id, err := store.InsertClassification(db, c)
	if err != nil {
		slog.Warn("failed to record classification", "error", err.Error())
		return 0
	}
	return id
}

func printHuman(cmd *cobra.Command, resp classifyResponse) {
	out := cmd.OutOrStdout()

	if !resp.Matched {
		fmt.Fprintln(out, resp.Message)
		return
	}

	if resp.Rule != nil {
		fmt.Fprintln(out, output.RenderLabeled(userRuleKind, resp.Rule.Message))
		if resp.Rule.Suggestion != "" {
			fmt.Fprintln(out, output.RenderSuggestion("", resp.Rule.Suggestion))
		}
		if resp.Rule.DocURL != "" {
			fmt.Fprintln(out, "  see: "+resp.Rule.DocURL)
		}
		return
	}

	c := resp.Classification
	body := strings.TrimPrefix(c.Message, c.Kind+": ")
	fmt.Fprintln(out, output.RenderLabeled(c.Kind, body))
	if c.Suggestion != nil {
		fmt.Fprintln(out, output.RenderSuggestion(c.Suggestion.Parameter, c.Suggestion.Suggestion))
	}
}
