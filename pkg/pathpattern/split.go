package pathpattern

import (
	"regexp"
	"strconv"
	"strings"
)

var groupRe = regexp.MustCompile(`\{[^}]+\}`)

// SplitPath splits a path on "/" and drops a single leading empty segment.
// Trailing empty segments are kept, so "/a/" yields ["a", ""].
func SplitPath(path string) []string {
	parts := strings.Split(path, "/")
	if parts[0] == "" {
		parts = parts[1:]
	}
	return parts
}

// SplitRoutingPath splits a route template like SplitPath but keeps every
// curly-brace group intact, even when the group contains slashes.
func SplitRoutingPath(routePath string) []string {
	var groups [][2]string
	masked := groupRe.ReplaceAllStringFunc(routePath, func(g string) string {
		mark := "\x00" + strconv.Itoa(len(groups)) + "\x00"
		groups = append(groups, [2]string{mark, g})
		return mark
	})

	paths := SplitPath(masked)

	for i := len(groups) - 1; i >= 0; i-- {
		mark, group := groups[i][0], groups[i][1]
		for j := len(paths) - 1; j >= 0; j-- {
			if strings.Contains(paths[j], mark) {
				paths[j] = strings.Replace(paths[j], mark, group, 1)
				break
			}
		}
	}

	return paths
}
