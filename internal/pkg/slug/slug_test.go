package slug_test

import (
	"testing"

	"github.com/sanskriti-tours/sanskriti-api/internal/pkg/slug"
)

func TestMake(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Varanasi Sunrise Boat Ride", "varanasi-sunrise-boat-ride"},
		{"  Temple & Ghats Walk!  ", "temple-ghats-walk"},
		{"Pottery Workshop (2 hours)", "pottery-workshop-2-hours"},
		{"---", ""},
		{"", ""},
		{"Ganga Aarti -- Evening", "ganga-aarti-evening"},
		{"108 Steps", "108-steps"},
	}

	for _, tt := range tests {
		if got := slug.Make(tt.title); got != tt.expected {
			t.Errorf("Make(%q) = %q, want %q", tt.title, got, tt.expected)
		}
	}
}
