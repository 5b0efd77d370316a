package source

import (
	"context"
	"strings"

	"github.com/depaudit/depaudit/utils"
)

// Fetcher lists the non-blank requirement lines of one project. The
// matching engine only ever sees this interface, never a concrete hosting
// platform.
type Fetcher interface {
	FetchRequirementLines(ctx context.Context) ([]string, error)
}

// NameMatches reports whether a file or directory name looks like a
// requirements manifest.
func NameMatches(name string) bool {
	return strings.Contains(strings.ToLower(name), "requirements")
}

// SplitLines splits a manifest body into its non-blank lines.
func SplitLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = utils.TrimSpaceNewline(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
