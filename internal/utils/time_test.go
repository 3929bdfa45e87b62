package utils

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{
			name: "same instant",
			a:    time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
			b:    time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "late night to early morning is one day",
			a:    time.Date(2025, 1, 1, 23, 50, 0, 0, time.UTC),
			b:    time.Date(2025, 1, 2, 0, 10, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "early morning to late night same day",
			a:    time.Date(2025, 1, 1, 0, 5, 0, 0, time.UTC),
			b:    time.Date(2025, 1, 1, 23, 55, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "ten days",
			a:    time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
			b:    time.Date(2025, 1, 11, 8, 0, 0, 0, time.UTC),
			want: 10,
		},
		{
			name: "across DST start",
			a:    time.Date(2025, 3, 8, 12, 0, 0, 0, ny),
			b:    time.Date(2025, 3, 10, 12, 0, 0, 0, ny),
			want: 2,
		},
		{
			name: "evaluated in location of b",
			a:    time.Date(2025, 1, 2, 2, 0, 0, 0, time.UTC), // Jan 1 21:00 in New York
			b:    time.Date(2025, 1, 1, 22, 0, 0, 0, ny),
			want: 0,
		},
		{
			name: "reverse order",
			a:    time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
			want: -2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMonthKey(t *testing.T) {
	got := MonthKey(time.Date(2025, 2, 28, 23, 0, 0, 0, time.UTC))
	if got != "2025-02" {
		t.Errorf("MonthKey() = %q, want %q", got, "2025-02")
	}
}

func TestValidateTimeFormat(t *testing.T) {
	for _, s := range []string{"07:30", "23:59", "00:00"} {
		if !ValidateTimeFormat(s) {
			t.Errorf("ValidateTimeFormat(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "7pm", "24:00", "12:60"} {
		if ValidateTimeFormat(s) {
			t.Errorf("ValidateTimeFormat(%q) = true, want false", s)
		}
	}
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	if err != nil || loc != time.Local {
		t.Errorf("LoadLocation(\"\") = %v, %v; want time.Local", loc, err)
	}
	if _, err := LoadLocation("Not/AZone"); err == nil {
		t.Error("expected error for invalid timezone")
	}
}
