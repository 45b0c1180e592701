package utils

// Truncate caps a string at maxLen characters, appending "..." when it was
// cut. The cap counts runes, not bytes, so multi-byte text is never split
// mid-character.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
