package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
// It is used for director names and movie titles.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
