package providers

import "strings"

// StripFence removes surrounding triple-backtick code fencing, with or
// without a language tag, from a generation reply. Unfenced content is
// returned trimmed but otherwise unchanged.
func StripFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}
	// Drop the opening fence line (``` or ```lang) and, when present, the
	// closing fence line.
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return strings.TrimSpace(strings.Join(lines[1:end], "\n"))
}
