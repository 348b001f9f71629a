package moneyguru

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := NewDate(2025, 7, 31)
	d2 := NewDate(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNewDateNormalizes(t *testing.T) {
	tests := []struct {
		name string
		got  Date
		want Date
	}{
		{"plain", NewDate(2024, time.March, 15), day(2024, time.March, 15)},
		{"day overflow", NewDate(2024, time.January, 32), day(2024, time.February, 1)},
		{"day zero is last of previous month", NewDate(2024, time.March, 0), day(2024, time.February, 29)},
		{"month overflow", NewDate(2024, time.Month(13), 1), day(2025, time.January, 1)},
		{"month underflow", NewDate(2024, time.Month(0), 15), day(2023, time.December, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestDateAdd(t *testing.T) {
	d := day(2024, time.February, 27)
	if got, want := d.Add(3), day(2024, time.March, 1); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := d.Add(-27), day(2024, time.January, 31); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDateAddMonthNormalizesOverflow(t *testing.T) {
	// AddMonth does not clamp: Jan 31 + 1 month lands in early March.
	if got, want := day(2025, time.January, 31).AddMonth(1), day(2025, time.March, 3); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := day(2024, time.November, 15).AddMonth(3), day(2025, time.February, 15); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestStartEndOfPeriods(t *testing.T) {
	d := day(2024, time.August, 14) // a Wednesday
	tests := []struct {
		name       string
		period     Period
		start, end Date
	}{
		{"daily", Daily, d, d},
		{"weekly is monday based", Weekly, day(2024, time.August, 12), day(2024, time.August, 18)},
		{"monthly", Monthly, day(2024, time.August, 1), day(2024, time.August, 31)},
		{"quarterly", Quarterly, day(2024, time.July, 1), day(2024, time.September, 30)},
		{"yearly", Yearly, day(2024, time.January, 1), day(2024, time.December, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.StartOf(tt.period); got != tt.start {
				t.Errorf("StartOf: got %v, want %v", got, tt.start)
			}
			if got := d.EndOf(tt.period); got != tt.end {
				t.Errorf("EndOf: got %v, want %v", got, tt.end)
			}
		})
	}
}

func TestParseDateISO(t *testing.T) {
	tests := []struct {
		in   string
		want Date
	}{
		{"2024-08-14", day(2024, time.August, 14)},
		{"2024-8-1", day(2024, time.August, 1)},
		{" 2024-12-31 ", day(2024, time.December, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
	if _, err := ParseDate("not-a-date"); err == nil {
		t.Errorf("expected an error for garbage input")
	}
}

func TestParseDateRelative(t *testing.T) {
	today := Today()
	tests := []struct {
		in   string
		want Date
	}{
		{"0d", today},
		{"-1d", today.Add(-1)},
		{"+2w", today.Add(14)},
		{"+1y", NewDate(today.Year()+1, today.Month(), today.Day())},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	in := day(2024, time.February, 29)
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `"2024-02-29"`; string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
	var out Date
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != in {
		t.Errorf("got %v, want %v", out, in)
	}
}

func TestMinMaxDate(t *testing.T) {
	a, b := day(2024, time.March, 1), day(2024, time.April, 1)
	if got := minDate(a, b); got != a {
		t.Errorf("minDate: got %v, want %v", got, a)
	}
	if got := maxDate(a, b); got != b {
		t.Errorf("maxDate: got %v, want %v", got, b)
	}
	if got := maxDate(b, a); got != b {
		t.Errorf("maxDate: got %v, want %v", got, b)
	}
}

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2025, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tt := range tests {
		if got := daysIn(tt.year, tt.month); got != tt.want {
			t.Errorf("daysIn(%d, %v): got %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}
