package module

import "strings"

// Separator delimits path segments.
const Separator = "/"

// Clean normalises a module path: it trims surrounding whitespace and
// slashes and collapses empty segments. It does not interpret "." or "..".
func Clean(p string) string {
	parts := strings.Split(strings.TrimSpace(p), Separator)
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, Separator)
}

// Join joins path segments with [Separator].
func Join(parts ...string) string {
	return Clean(strings.Join(parts, Separator))
}

// Parent returns the parent path, or "" for a root path.
func Parent(p string) string {
	i := strings.LastIndex(p, Separator)
	if i < 0 {
		return ""
	}
	return p[:i]
}

// Base returns the final segment of a path or path expression.
func Base(p string) string {
	p = strings.TrimRight(p, Separator)
	if i := strings.LastIndex(p, Separator); i >= 0 {
		return p[i+1:]
	}
	return p
}

// Depth returns the number of ancestors of p (0 for roots).
func Depth(p string) int {
	if p == "" {
		return 0
	}
	return strings.Count(p, Separator)
}

// IsDescendant reports whether p lies strictly below ancestor.
func IsDescendant(p, ancestor string) bool {
	return ancestor != "" && strings.HasPrefix(p, ancestor+Separator)
}
