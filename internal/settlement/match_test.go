package settlement

import "testing"

func TestEmailsMatch(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"case-insensitive equality", "Jon@Example.com", "jon@example.com", true},
		{"surrounding whitespace ignored", " jon@example.com ", "jon@example.com", true},
		{"different addresses", "jon@example.com", "jonathan@example.com", false},
		{"one side empty", "jon@example.com", "", false},
		{"both empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EmailsMatch(tt.a, tt.b); got != tt.want {
				t.Errorf("EmailsMatch(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNamesMatch(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"exact equality", "Jon Smith", "Jon Smith", true},
		{"case-insensitive equality", "JON SMITH", "jon smith", true},
		{"shorter name contained as token run", "Jon Smith", "Jon", true},
		{"containment is symmetric", "Jon", "Jon Smith", true},
		{"last name token run", "Jon Smith", "Smith", true},
		{"tokens compare whole, prefixes do not count", "Jonathan Smith-Jones", "Jon", false},
		{"hyphenated surname stays one token", "Jonathan Smith-Jones", "Smith", false},
		{"token run must be contiguous", "Jon Andrew Smith", "Jon Smith", false},
		{"middle token run", "Jon Andrew Smith", "Andrew", true},
		{"unrelated names", "Jon Smith", "Mary Poppins", false},
		{"empty side never matches", "Jon", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NamesMatch(tt.a, tt.b); got != tt.want {
				t.Errorf("NamesMatch(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMatchesEmailAuthoritative(t *testing.T) {
	// When both sides carry an email, a mismatch is final even if the
	// names would pass the containment rule.
	participant := Identity{Email: "jon@example.com", Name: "Jon Smith"}
	payer := Identity{Email: "other@example.com", Name: "Jon"}
	if Matches(participant, payer) {
		t.Error("name fallback applied despite conflicting emails")
	}

	payer.Email = "JON@example.com"
	payer.Name = "Somebody Else"
	if !Matches(participant, payer) {
		t.Error("matching emails rejected because names differ")
	}
}

func TestMatchesNameFallback(t *testing.T) {
	// The fallback applies only when an email comparison is impossible.
	participant := Identity{Name: "Jon"}
	payer := Identity{Name: "Jon Smith"}
	if !Matches(participant, payer) {
		t.Error("token containment fallback did not apply without emails")
	}

	payer = Identity{Name: "Jonathan Smith-Jones"}
	if Matches(participant, payer) {
		t.Error("prefix similarity treated as a match")
	}
}
