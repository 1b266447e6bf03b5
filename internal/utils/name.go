package utils

import "strings"

// SplitName splits a display name into first and last components. The first
// whitespace-delimited token is the first name; the remainder, joined by
// single spaces, is the last name and may be empty.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
