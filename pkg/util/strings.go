package util

import "strings"

// NormalizeStation canonicalizes a station identity for lookup: surrounding
// whitespace is stripped and case is folded.
func NormalizeStation(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeSiteName canonicalizes a free-form site name for matching:
// case-folded, trimmed, with underscores treated as dashes and dash runs
// collapsed. "Downtown_West" and "downtown-west" compare equal.
func NormalizeSiteName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}

// SanitizeFilename reduces an untrusted file name to a safe basename:
// path separators and shell-hostile characters become underscores and any
// directory prefix is dropped.
func SanitizeFilename(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	out = strings.TrimLeft(out, ".")
	if out == "" {
		out = "unnamed"
	}
	return out
}
