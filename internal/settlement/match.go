package settlement

import "strings"

// =============================================================================
// FUZZY PAYER MATCHING
// Payment events arrive with identity hints (email and/or display name) that
// may not match any participant record exactly. Matching is a pure function
// of two hint records. Email is authoritative when both sides carry one;
// names fall back to a token-containment rule because external payment rails
// often ship a shorter or longer display name than the participant record.
// =============================================================================

// Identity is the matchable hint pair of a participant or payer.
type Identity struct {
	Email string
	Name  string
}

// EmailsMatch reports case-insensitive email equality. Both sides must carry
// an email for this to succeed.
func EmailsMatch(a, b string) bool {
	return a != "" && b != "" && strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func tokens(name string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(name)))
}

// NamesMatch reports whether two display names refer to the same person
// under the containment rule: case-insensitive equality, or the shorter
// name's tokens appearing as a contiguous run inside the longer name's
// tokens. Tokens compare whole, so "Jon" matches "Jon Smith" but not
// "Jonathan Smith-Jones".
func NamesMatch(a, b string) bool {
	at, bt := tokens(a), tokens(b)
	if len(at) == 0 || len(bt) == 0 {
		return false
	}

	shorter, longer := at, bt
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	for start := 0; start+len(shorter) <= len(longer); start++ {
		matched := true
		for i, tok := range shorter {
			if longer[start+i] != tok {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// Matches decides whether a payer identity refers to a participant identity.
// When both sides carry an email, the email verdict is final either way; the
// name fallback only applies when an email comparison is impossible.
func Matches(participant, payer Identity) bool {
	if participant.Email != "" && payer.Email != "" {
		return EmailsMatch(participant.Email, payer.Email)
	}
	return NamesMatch(participant.Name, payer.Name)
}
