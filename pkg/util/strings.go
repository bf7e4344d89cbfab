package util

import "strings"

// ContainsFold reports whether any of fields contains q, ignoring case.
// An empty q matches everything.
func ContainsFold(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
