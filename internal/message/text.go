package message

import "unicode/utf8"

// CountChars returns the character count as runes (not bytes).
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}

// Truncate cuts text to at most max runes.
// The second return value reports whether anything was cut.
func Truncate(text string, max int) (string, bool) {
	if max < 0 || utf8.RuneCountInString(text) <= max {
		return text, false
	}
	runes := []rune(text)
	return string(runes[:max]), true
}

// TruncateWithSuffix truncates text to max runes and appends suffix only when cut.
func TruncateWithSuffix(text string, max int, suffix string) string {
	cut, truncated := Truncate(text, max)
	if truncated {
		return cut + suffix
	}
	return cut
}
