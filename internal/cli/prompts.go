package cli

import (
	"bufio"
	"strings"
)

// promptConfirm asks a yes/no question on stdin. Anything but an explicit
// yes, including end of input, counts as no.
func promptConfirm(question string) bool {
	out.Print("%s [y/N]: ", question)
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && line == "" {
		out.Println("")
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
