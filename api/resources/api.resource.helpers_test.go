package resources

import (
	"testing"
	"time"

	"github.com/itsatony/headcount/internal/errors"
)

func TestParseInstant(t *testing.T) {
	loc := time.FixedZone("plus-two", 2*3600)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, loc)

	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"epoch seconds", "1710489600", time.Unix(1710489600, 0)},
		{"rfc3339", "2024-03-15T08:30:00Z", time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)},
		{"date", "2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, loc)},
		{"time of day", "09:45", time.Date(2024, 3, 15, 9, 45, 0, 0, loc)},
		{"time of day with seconds", " 09:45:30 ", time.Date(2024, 3, 15, 9, 45, 30, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInstant(tt.value, loc, now)
			if err != nil {
				t.Fatalf("parseInstant(%q) error: %v", tt.value, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseInstant(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseInstant_RejectsAmbiguousValues(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	for _, value := range []string{"20240315", "2024", "-5", "0", "yesterday", "15.03.2024"} {
		t.Run(value, func(t *testing.T) {
			if _, err := parseInstant(value, time.UTC, now); !errors.IsValidation(err) {
				t.Errorf("parseInstant(%q) = %v, want validation error", value, err)
			}
		})
	}
}
