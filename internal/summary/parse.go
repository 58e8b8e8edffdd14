package summary

import (
	"regexp"
	"strings"
)

var (
	reBullet   = regexp.MustCompile(`^[\-\*•]\s+(.+)$`)
	reNumbered = regexp.MustCompile(`^\d+[.)]\s+(.+)$`)
	reBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// Clean drops every line whose trimmed text starts with marker and trims the
// remainder. An empty marker keeps all lines.
func Clean(out, marker string) string {
	lines := strings.Split(strings.ReplaceAll(out, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if marker != "" && strings.HasPrefix(strings.TrimSpace(line), marker) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// listAfter returns the bulleted or numbered items that follow the first line
// mentioning heading. Collection stops at the first non-list line after an
// item has been found.
func listAfter(text, heading string) []string {
	var items []string
	inSection := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !inSection {
			if strings.Contains(strings.ToLower(trimmed), heading) {
				inSection = true
			}
			continue
		}
		if trimmed == "" {
			continue
		}

		item := ""
		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			item = m[1]
		} else if m := reNumbered.FindStringSubmatch(trimmed); m != nil {
			item = m[1]
		}
		if item == "" {
			if len(items) > 0 {
				break
			}
			continue
		}
		items = append(items, strings.TrimSpace(reBold.ReplaceAllString(item, "$1")))
	}
	return items
}
