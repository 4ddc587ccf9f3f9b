package domain

import (
	"errors"
	"testing"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"09:30", 570},
		{"9:05", 545},
		{"23:59", 1439},
	}

	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q): unexpected error: %v", tt.in, err)
		}
		if got.Minutes() != tt.want {
			t.Fatalf("ParseTimeOfDay(%q) = %d, want %d", tt.in, got.Minutes(), tt.want)
		}
	}
}

func TestParseTimeOfDayRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "10", "24:00", "10:60", "ab:cd", "10:5", "-1:00", "10:00:00"} {
		if _, err := ParseTimeOfDay(in); !errors.Is(err, ErrInvalidTime) {
			t.Fatalf("ParseTimeOfDay(%q) err = %v, want ErrInvalidTime", in, err)
		}
	}
}

func TestTimeOfDayString(t *testing.T) {
	if got := MustParseTimeOfDay("07:05").String(); got != "07:05" {
		t.Fatalf("String() = %q, want %q", got, "07:05")
	}
	if got := MustParseTimeOfDay("23:50").AddSeconds(20 * 60).String(); got != "00:10" {
		t.Fatalf("AddSeconds wrap = %q, want %q", got, "00:10")
	}
}

func TestWindowContains(t *testing.T) {
	day := Window{Start: MustParseTimeOfDay("09:00"), End: MustParseTimeOfDay("11:00")}
	night := Window{Start: MustParseTimeOfDay("22:00"), End: MustParseTimeOfDay("02:00")}

	tests := []struct {
		name string
		w    Window
		at   string
		want bool
	}{
		{"start inclusive", day, "09:00", true},
		{"end inclusive", day, "11:00", true},
		{"inside", day, "10:15", true},
		{"before", day, "08:59", false},
		{"after", day, "11:01", false},
		{"wrap late", night, "23:30", true},
		{"wrap early", night, "01:00", true},
		{"wrap outside", night, "12:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.w.Contains(MustParseTimeOfDay(tt.at)); got != tt.want {
				t.Fatalf("%s.Contains(%s) = %v, want %v", tt.w, tt.at, got, tt.want)
			}
		})
	}
}

func TestTimeOfDayFromMinutes(t *testing.T) {
	if _, err := TimeOfDayFromMinutes(1440); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("TimeOfDayFromMinutes(1440) err = %v, want ErrInvalidTime", err)
	}
	got, err := TimeOfDayFromMinutes(600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "10:00" {
		t.Fatalf("TimeOfDayFromMinutes(600) = %s, want 10:00", got)
	}
}
