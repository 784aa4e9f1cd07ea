package pathpattern

import (
	"regexp"
	"strings"
)

var urlPathRe = regexp.MustCompile(`^https?://[^/]+(/[^?]*)`)

// Path extracts the path component of an absolute http(s) URL string.
// The query string is excluded and the path is returned undecoded.
func Path(rawURL string) (string, error) {
	m := urlPathRe.FindStringSubmatch(rawURL)
	if m == nil {
		return "", ErrMalformedURL
	}
	return m[1], nil
}

// PathNoStrict is like Path but trims a single trailing slash from paths
// longer than "/".
func PathNoStrict(rawURL string) (string, error) {
	p, err := Path(rawURL)
	if err != nil {
		return "", err
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	return p, nil
}

// QueryString returns the query part of an absolute URL including the
// leading "?", or "" when there is none. The search starts past the scheme
// separator so a "?" cannot be mistaken inside "https://".
func QueryString(rawURL string) string {
	const offset = 8
	if len(rawURL) <= offset {
		return ""
	}
	i := strings.IndexByte(rawURL[offset:], '?')
	if i < 0 {
		return ""
	}
	return rawURL[offset+i:]
}

// MergePath joins path fragments. A trailing slash on the accumulated path
// and a leading slash on the next fragment collapse into one separator, and
// a "/" fragment keeps exactly one trailing slash.
//
//	MergePath("/a/", "/b") // "/a/b"
//	MergePath("/a", "/")   // "/a/"
//	MergePath("/", "/")    // "/"
func MergePath(paths ...string) string {
	var p string
	for _, path := range paths {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		if path == "/" {
			if !strings.HasSuffix(p, "/") {
				p += "/"
			}
			continue
		}
		p = strings.TrimSuffix(p, "/") + path
	}
	return p
}
