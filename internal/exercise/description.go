package exercise

import "strings"

// NoDescription is used when the README has no usable line.
const NoDescription = "No description available"

// ExtractDescription returns the first "# " heading of a README, or its
// first non-blank line when no heading exists.
func ExtractDescription(content string) string {
	description := ""
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			description = trimmed[2:]
			break
		}
		if trimmed != "" && description == "" {
			description = trimmed
		}
	}
	if description == "" {
		return NoDescription
	}
	return description
}
