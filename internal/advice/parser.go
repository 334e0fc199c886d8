package advice

import "strings"

// Severity levels extracted from reply text
const (
	SeverityInfo    = "info"
	SeverityCaution = "caution"
	SeverityWarning = "warning"
)

// warningKeywords escalate a reply to the warning level
var warningKeywords = []string{
	"danger", "dangerous", "avoid", "unsafe", "do not run", "don't run",
	"emergency", "call the police", "high risk",
}

// cautionKeywords escalate a reply to the caution level
var cautionKeywords = []string{
	"careful", "caution", "be aware", "stay alert", "poorly lit",
	"dark", "isolated", "risky", "watch out",
}

// ParseSeverity maps the reply text to a severity level by keyword matching.
// Warning keywords win over caution keywords; the default is info.
func ParseSeverity(reply string) string {
	text := strings.ToLower(reply)
	for _, kw := range warningKeywords {
		if strings.Contains(text, kw) {
			return SeverityWarning
		}
	}
	for _, kw := range cautionKeywords {
		if strings.Contains(text, kw) {
			return SeverityCaution
		}
	}
	return SeverityInfo
}

// ParseSuggestions pulls bullet-like lines out of the reply text. The chat
// model is prompted to answer with short bullet suggestions; anything it
// prefixes with -, *, or an enumerator counts.
func ParseSuggestions(reply string) []string {
	var suggestions []string
	for _, line := range strings.Split(reply, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch {
		case strings.HasPrefix(trimmed, "- "):
			suggestions = append(suggestions, strings.TrimPrefix(trimmed, "- "))
		case strings.HasPrefix(trimmed, "* "):
			suggestions = append(suggestions, strings.TrimPrefix(trimmed, "* "))
		case len(trimmed) > 3 && trimmed[0] >= '1' && trimmed[0] <= '9' && (trimmed[1] == '.' || trimmed[1] == ')'):
			suggestions = append(suggestions, strings.TrimSpace(trimmed[2:]))
		}
	}
	return suggestions
}
