package datetime

import (
	"testing"
)

func TestAddYears(t *testing.T) {
	tests := []struct {
		date     string
		years    int
		expected string
		wantErr  bool
	}{
		{"2025-03", 10, "2035-03", false},
		{"2025-12", 1, "2026-12", false},
		{"2025-03", 0, "2025-03", false},
		{"March 2025", 10, "", true},
	}

	for _, tt := range tests {
		got, err := AddYears(tt.date, tt.years)
		if (err != nil) != tt.wantErr {
			t.Errorf("AddYears(%q, %d) error = %v, wantErr %v", tt.date, tt.years, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.expected {
			t.Errorf("AddYears(%q, %d) = %s, expected %s", tt.date, tt.years, got, tt.expected)
		}
	}
}

func TestYear(t *testing.T) {
	got, err := Year("2026-07")
	if err != nil {
		t.Fatalf("Year() error = %v", err)
	}
	if got != 2026 {
		t.Errorf("Year() = %d, expected 2026", got)
	}
	if _, err := Year("2026/07"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestDateBeforeDate(t *testing.T) {
	before, err := DateBeforeDate("2025-01", "2025-02")
	if err != nil || !before {
		t.Errorf("DateBeforeDate() = %v, %v; expected true, nil", before, err)
	}
	before, err = DateBeforeDate("2025-02", "2025-02")
	if err != nil || before {
		t.Errorf("DateBeforeDate() same month = %v, %v; expected false, nil", before, err)
	}
	if _, err := DateBeforeDate("bad", "2025-02"); err == nil {
		t.Error("expected error for invalid first date")
	}
}
