// Package identity holds the shared identifier rules that were previously
// duplicated across every approval view.
package identity

import "strings"

// NonMemberPrefix marks identifiers issued to external parties.
const NonMemberPrefix = "NSL"

// IsNonMember reports whether the identifier denotes an external party
// rather than an internal employee. Two independent rules, OR-combined:
// the fixed external prefix, or a purely numeric identifier of 4-6 digits
// (an NIC-style number, never a service number).
func IsNonMember(id string) bool {
	if id == "" {
		return false
	}
	if strings.HasPrefix(id, NonMemberPrefix) {
		return true
	}
	if len(id) < 4 || len(id) > 6 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
