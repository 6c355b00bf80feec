package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleRules = `
rules:
  - patterns:
      - "quota exceeded"
      - "regex:limit of \\d+ reached"
    message: "You hit a service quota."
    suggestion: "Request a quota increase or delete unused resources."
    doc_url: "https://example.invalid/quotas"
  - patterns:
      - "quota"
    message: "Shadowed by the rule above for full quota messages."
`

func TestParse_SubstringMatchIsCaseInsensitive(t *testing.T) {
	s, err := Parse([]byte(sampleRules))
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	m, ok := s.Match("operation failed: QUOTA EXCEEDED for resource")
	require.True(t, ok)
	require.Equal(t, "You hit a service quota.", m.Message)
	require.Equal(t, "Request a quota increase or delete unused resources.", m.Suggestion)
	require.Equal(t, "https://example.invalid/quotas", m.DocURL)
}

func TestParse_RegexMatch(t *testing.T) {
	s, err := Parse([]byte(sampleRules))
	require.NoError(t, err)

	m, ok := s.Match("limit of 250 reached")
	require.True(t, ok)
	require.Equal(t, "You hit a service quota.", m.Message)
}

func TestMatch_FirstRuleWins(t *testing.T) {
	s, err := Parse([]byte(sampleRules))
	require.NoError(t, err)

	// "quota exceeded" satisfies both rules; the first listed must win.
	m, ok := s.Match("quota exceeded")
	require.True(t, ok)
	require.Equal(t, "You hit a service quota.", m.Message)
}

func TestMatch_NoMatch(t *testing.T) {
	s, err := Parse([]byte(sampleRules))
	require.NoError(t, err)

	_, ok := s.Match("an unrelated failure")
	require.False(t, ok)
}

func TestParse_Validation(t *testing.T) {
	t.Run("bad regex fails the load", func(t *testing.T) {
		_, err := Parse([]byte("rules:\n  - patterns: [\"regex:([unclosed\"]\n    message: m\n"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "does not compile")
	})

	t.Run("missing message", func(t *testing.T) {
		_, err := Parse([]byte("rules:\n  - patterns: [\"x\"]\n"))
		require.Error(t, err)
	})

	t.Run("missing patterns", func(t *testing.T) {
		_, err := Parse([]byte("rules:\n  - message: m\n"))
		require.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Parse([]byte("rules: [\n"))
		require.Error(t, err)
	})
}

func TestLoad_MissingFileYieldsEmptySet(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, 0, s.Len())

	_, ok := s.Match("anything")
	require.False(t, ok)
}

func TestLoad_EmptyPathYieldsEmptySet(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 0, s.Len())
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleRules), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
}
