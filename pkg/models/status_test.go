package models_test

import (
	"testing"

	"hirescore/pkg/models"
)

// ── ParseStatus ────────────────────────────────────────────────────────────

func TestParseStatus_ValidValues(t *testing.T) {
	valid := []string{"PENDING", "REVIEWING", "INTERVIEWED", "HIRED", "REJECTED"}
	for _, s := range valid {
		got, err := models.ParseStatus(s)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseStatus_InvalidValues(t *testing.T) {
	for _, s := range []string{"", "UNKNOWN", "pending", "Hired"} {
		if _, err := models.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) expected error, got nil", s)
		}
	}
}

// ── IsTransitionAllowed ────────────────────────────────────────────────────

func TestIsTransitionAllowed_Forward(t *testing.T) {
	cases := []struct {
		from models.ApplicationStatus
		to   models.ApplicationStatus
	}{
		{models.StatusPending, models.StatusReviewing},
		{models.StatusReviewing, models.StatusInterviewed},
		{models.StatusInterviewed, models.StatusHired},
		{models.StatusPending, models.StatusHired},
		{models.StatusPending, models.StatusInterviewed},
	}
	for _, c := range cases {
		if !models.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be true", c.from, c.to)
		}
	}
}

func TestIsTransitionAllowed_ToRejected(t *testing.T) {
	for _, from := range []models.ApplicationStatus{
		models.StatusPending,
		models.StatusReviewing,
		models.StatusInterviewed,
	} {
		if !models.IsTransitionAllowed(from, models.StatusRejected) {
			t.Errorf("IsTransitionAllowed(%s → REJECTED) should be true", from)
		}
	}
}

func TestIsTransitionAllowed_Backward(t *testing.T) {
	cases := []struct {
		from models.ApplicationStatus
		to   models.ApplicationStatus
	}{
		{models.StatusReviewing, models.StatusPending},
		{models.StatusInterviewed, models.StatusReviewing},
		{models.StatusHired, models.StatusInterviewed},
		{models.StatusRejected, models.StatusPending},
		{models.StatusHired, models.StatusRejected},
	}
	for _, c := range cases {
		if models.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be false", c.from, c.to)
		}
	}
}

func TestIsTransitionAllowed_SameStatus(t *testing.T) {
	for _, s := range models.AllStatuses {
		if !models.IsTransitionAllowed(s, s) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be true", s, s)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	if got := models.StatusInterviewed.Label(); got != "Interviewed" {
		t.Errorf("Label() = %q, want %q", got, "Interviewed")
	}
}
