package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/errlens/errlens/internal/models"
	"github.com/errlens/errlens/internal/rules"
)

func TestNewClassifyCmd_Wiring(t *testing.T) {
	cmd := NewClassifyCmd()
	require.Equal(t, "classify [message]", cmd.Use)

	for _, name := range []string{"value", "no-record", "rules", "human"} {
		require.NotNil(t, cmd.Flags().Lookup(name), "missing flag %q", name)
	}
}

func TestNewHistoryCmd_Wiring(t *testing.T) {
	cmd := NewHistoryCmd()
	require.Equal(t, "history", cmd.Use)

	subs := map[string]*cobra.Command{}
	for _, sub := range cmd.Commands() {
		subs[sub.Name()] = sub
	}
	require.Contains(t, subs, "list")
	require.Contains(t, subs, "last")
	require.Contains(t, subs, "prune")

	list := subs["list"]
	for _, name := range []string{"kind", "limit", "since-id", "asc"} {
		require.NotNil(t, list.Flags().Lookup(name), "missing list flag %q", name)
	}
	require.Equal(t, "50", list.Flags().Lookup("limit").DefValue)

	prune := subs["prune"]
	require.NotNil(t, prune.Flags().Lookup("days"))
	require.NotNil(t, prune.Flags().Lookup("batch"))
}

func TestNewKindsCmd_Wiring(t *testing.T) {
	cmd := NewKindsCmd()
	require.Equal(t, "kinds", cmd.Use)
	require.NotNil(t, cmd.Flags().Lookup("rules"))
}

func TestNewStatusCmd_Wiring(t *testing.T) {
	cmd := NewStatusCmd()
	require.Equal(t, "status", cmd.Use)
	require.NotNil(t, cmd.Flags().Lookup("check"))
}

func TestReadMessage(t *testing.T) {
	t.Run("from argument", func(t *testing.T) {
		cmd := &cobra.Command{}
		got, err := readMessage(cmd, []string{"boom happened"})
		require.NoError(t, err)
		require.Equal(t, "boom happened", got)
	})

	t.Run("from stdin with dash", func(t *testing.T) {
		cmd := &cobra.Command{}
		cmd.SetIn(strings.NewReader("piped failure\n"))
		got, err := readMessage(cmd, []string{"-"})
		require.NoError(t, err)
		require.Equal(t, "piped failure", got)
	})

	t.Run("from stdin with no args", func(t *testing.T) {
		cmd := &cobra.Command{}
		cmd.SetIn(strings.NewReader("another failure\r\n"))
		got, err := readMessage(cmd, nil)
		require.NoError(t, err)
		require.Equal(t, "another failure", got)
	})
}

func TestPrintHuman_Unmatched(t *testing.T) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	printHuman(cmd, classifyResponse{Matched: false, Message: "plain old failure"})
	require.Equal(t, "plain old failure\n", buf.String())
}

func TestPrintHuman_Classification(t *testing.T) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	printHuman(cmd, classifyResponse{
		Matched: true,
		Message: "Resource not found: newsampleUXgroup does not exist",
		Classification: &models.Classification{
			Kind:    "Resource not found",
			Message: "Resource not found: newsampleUXgroup does not exist",
			Suggestion: &models.SuggestedCorrection{
				Suggestion: "sampleUXgroup",
				Kind:       models.CorrectionKindInvalidArgument,
				Parameter:  "--resource-group",
			},
		},
	})

	plain := pterm.RemoveColorFromString(buf.String())
	require.Contains(t, plain, "Resource not found: newsampleUXgroup does not exist")
	require.Contains(t, plain, "suggestion: use 'sampleUXgroup' for --resource-group")
}

func TestPrintHuman_Rule(t *testing.T) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	printHuman(cmd, classifyResponse{
		Matched: true,
		Message: "Docker daemon is not running",
		Rule: &rules.Matched{
			Message:    "Docker daemon is not running",
			Suggestion: "Start Docker Desktop and retry",
			DocURL:     "https://docs.docker.com/config/daemon/start/",
		},
	})

	plain := pterm.RemoveColorFromString(buf.String())
	require.Contains(t, plain, "User rule: Docker daemon is not running")
	require.Contains(t, plain, "suggestion: use 'Start Docker Desktop and retry'")
	require.Contains(t, plain, "see: https://docs.docker.com/config/daemon/start/")
}

func TestMatchUserRules_FlagPathWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	rulesYAML := `rules:
  - patterns: ["connection refused"]
    message: "The service is not reachable"
    suggestion: "Check that the server is running"
`
	require.NoError(t, os.WriteFile(path, []byte(rulesYAML), 0644))

	matched, rule, err := matchUserRules(path, "dial tcp 127.0.0.1:8080: connection refused")
	require.NoError(t, err)
	require.True(t, matched)
	require.Equal(t, "The service is not reachable", rule.Message)
	require.Equal(t, "Check that the server is running", rule.Suggestion)

	matched, _, err = matchUserRules(path, "something else entirely")
	require.NoError(t, err)
	require.False(t, matched)
}

func TestCmdErr(t *testing.T) {
	require.NoError(t, cmdErr(nil))

	err := cmdErr(errors.New("boom"))
	require.Error(t, err)
	var pe printedError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "error already printed", err.Error())
}
