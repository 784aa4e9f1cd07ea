package pathpattern

import (
	"regexp"
	"slices"
	"strings"
)

var optionalRe = regexp.MustCompile(`:.+\?$`)

// CheckOptionalParameter expands a template that ends with an optional
// parameter into the concrete templates it stands for:
//
//	CheckOptionalParameter("/api/animals/:type?")
//	// ["/api/animals", "/api/animals/:type"]
//
// It returns nil when the template has no optional parameter.
func CheckOptionalParameter(path string) []string {
	if !optionalRe.MatchString(path) {
		return nil
	}

	var (
		results  []string
		basePath string
	)
	for segment := range strings.SplitSeq(path, "/") {
		switch {
		case segment != "" && !strings.Contains(segment, ":"):
			basePath += "/" + segment
		case strings.Contains(segment, ":"):
			if strings.Contains(segment, "?") {
				if len(results) == 0 && basePath == "" {
					results = append(results, "/")
				} else {
					results = append(results, basePath)
				}
				basePath += "/" + strings.Replace(segment, "?", "", 1)
				results = append(results, basePath)
			} else {
				basePath += "/" + segment
			}
		}
	}

	out := make([]string, 0, len(results))
	for _, r := range results {
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out
}
