package validation

import "testing"

func TestCandidateEmail(t *testing.T) {
	v := New()

	tests := []struct {
		email string
		valid bool
	}{
		{"ada@example.com", true},
		{"first.last@sub.example.co", true},
		{"ada@localhost", false},
		{"ada example@example.com", false},
		{"@example.com", false},
		{"ada@", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := v.Var(tt.email, "candidate_email")
			if (err == nil) != tt.valid {
				t.Errorf("candidate_email(%q) valid = %v, want %v", tt.email, err == nil, tt.valid)
			}
		})
	}
}

func TestIsAbsoluteURL(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
	}{
		{"https://github.com/ada", true},
		{"http://ada.dev", true},
		{"github.com/ada", false},
		{"not a url", false},
		{"https://", false},
	}

	for _, tt := range tests {
		if got := IsAbsoluteURL(tt.raw); got != tt.valid {
			t.Errorf("IsAbsoluteURL(%q) = %v, want %v", tt.raw, got, tt.valid)
		}
	}
}
