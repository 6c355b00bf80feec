package commands

import (
	"github.com/spf13/cobra"

	"github.com/errlens/errlens/internal/app"
	"github.com/errlens/errlens/internal/engine"
	"github.com/errlens/errlens/internal/output"
	"github.com/errlens/errlens/internal/rules"
)

// NewKindsCmd creates the kinds command
func NewKindsCmd() *cobra.Command {
	var rulesPath string

	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the built-in error kinds in match-priority order",
		RunE: func(cmd *cobra.Command, args []string) error {
			type kindInfo struct {
				Label   string `json:"label"`
				Pattern string `json:"pattern"`
			}

			registry := engine.DefaultRegistry()
			kinds := make([]kindInfo, 0, registry.Len())
			for _, k := range registry.Kinds() {
				kinds = append(kinds, kindInfo{
					Label:   k.Label(),
					Pattern: k.Pattern().String(),
				})
			}

			path := rulesPath
			if path == "" {
				resolved, err := app.GetRulesPath()
				if err != nil {
					return cmdErr(err)
				}
				path = resolved
			}
			set, err := rules.Load(path)
			if err != nil {
				return cmdErr(err)
			}

			type resp struct {
				Kinds         []kindInfo `json:"kinds"`
				UserRuleCount int        `json:"user_rule_count"`
			}
			return output.PrintSuccess(resp{
				Kinds:         kinds,
				UserRuleCount: set.Len(),
			})
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "Path to a user rules YAML file")

	return cmd
}
