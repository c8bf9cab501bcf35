package domain

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-01")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d.Year != 2025 || d.Month != time.June || d.Day != 1 {
		t.Errorf("got %+v", d)
	}
	if d.String() != "2025-06-01" {
		t.Errorf("String() = %q", d.String())
	}

	if _, err := ParseDate("01/06/2025"); err == nil {
		t.Error("expected error for non-ISO date")
	}
	if _, err := ParseDate(""); err == nil {
		t.Error("expected error for empty date")
	}
}

func TestDaysBetween(t *testing.T) {
	a := Date{2025, time.June, 1}

	tests := []struct {
		b    Date
		want int
	}{
		{Date{2025, time.June, 1}, 0},
		{Date{2025, time.June, 5}, 4},
		{Date{2025, time.May, 28}, -4},
		{Date{2025, time.July, 1}, 30},
	}
	for _, tt := range tests {
		if got := DaysBetween(a, tt.b); got != tt.want {
			t.Errorf("DaysBetween(%s, %s) = %d, want %d", a, tt.b, got, tt.want)
		}
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:00")
	if err != nil {
		t.Fatalf("ParseTimeOfDay failed: %v", err)
	}
	if tod.Hour != 9 || tod.Minute != 0 {
		t.Errorf("got %+v", tod)
	}
	if tod.String() != "09:00" {
		t.Errorf("String() = %q", tod.String())
	}

	if _, err := ParseTimeOfDay("9am"); err == nil {
		t.Error("expected error for non HH:MM time")
	}
}

func TestValidSlot(t *testing.T) {
	tests := []struct {
		tod  TimeOfDay
		want bool
	}{
		{TimeOfDay{Hour: 9}, true},
		{TimeOfDay{Hour: 18}, true},
		{TimeOfDay{Hour: 8}, false},
		{TimeOfDay{Hour: 19}, false},
		{TimeOfDay{Hour: 10, Minute: 30}, false},
	}
	for _, tt := range tests {
		if got := ValidSlot(tt.tod); got != tt.want {
			t.Errorf("ValidSlot(%s) = %v, want %v", tt.tod, got, tt.want)
		}
	}

	if n := len(Slots()); n != 10 {
		t.Errorf("expected 10 published slots, got %d", n)
	}
}
