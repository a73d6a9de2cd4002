package report

// TruncateRunes cuts s to at most limit runes.
func TruncateRunes(s string, limit int) string {
	runes := []rune(s)
	if limit < 0 || len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// Truncate cuts s to limit runes and marks the cut with "...".
func Truncate(s string, limit int) string {
	cut := TruncateRunes(s, limit)
	if cut == s {
		return s
	}
	return cut + "..."
}
