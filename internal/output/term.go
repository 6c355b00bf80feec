package output

import "github.com/pterm/pterm"

// RenderLabeled renders a "<Label>: <message>" line with the label shown
// bright red. Styling is cosmetic: stripped of escape codes the text is
// byte-identical to the plain template, which is what callers that parse
// output rely on.
func RenderLabeled(label, message string) string {
	styled := pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint(label)
	return styled + ": " + message
}

// RenderSuggestion renders a suggested corrective value under a rewritten
// error, e.g. "  suggestion: use 'sampleUXgroup' for --resource-group".
func RenderSuggestion(parameter, suggestion string) string {
	line := "suggestion: use '" + suggestion + "'"
	if parameter != "" {
		line += " for " + parameter
	}
	return "  " + pterm.NewStyle(pterm.FgYellow).Sprint(line)
}
