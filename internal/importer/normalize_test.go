package importer

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Scheduled", StatusConfirmed},
		{"booked", StatusConfirmed},
		{"CONFIRMED", StatusConfirmed},
		{"Done", StatusCompleted},
		{"completed", StatusCompleted},
		{"attended", StatusCompleted},
		{"Cancelled", StatusCancelled},
		{"canceled", StatusCancelled},
		{"no show", StatusCancelled},
		{"Pending", StatusPending},
		{"tentative", StatusPending},
		{"", StatusConfirmed},
		{"whatever", StatusConfirmed},
		{"  Booked  ", StatusConfirmed},
	}

	for _, tt := range tests {
		if got := NormalizeStatus(tt.in); got != tt.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in    string
		first string
		last  string
	}{
		{"John Doe", "John", "Doe"},
		{"John", "John", ""},
		{"  Mary Jane  Watson ", "Mary", "Jane Watson"},
		{"", "", ""},
	}

	for _, tt := range tests {
		first, last := SplitName(tt.in)
		if first != tt.first || last != tt.last {
			t.Errorf("SplitName(%q) = (%q, %q), want (%q, %q)", tt.in, first, last, tt.first, tt.last)
		}
	}
}

func TestSynthesizeEmail(t *testing.T) {
	tests := []struct {
		first string
		last  string
		want  string
	}{
		{"John", "Doe", "john.doe@imported.local"},
		{"Mary-Jane", "O'Brien", "maryjane.obrien@imported.local"},
		{"Cher", "", "cher@imported.local"},
		{"JOHN", "DOE", "john.doe@imported.local"},
	}

	for _, tt := range tests {
		if got := SynthesizeEmail(tt.first, tt.last); got != tt.want {
			t.Errorf("SynthesizeEmail(%q, %q) = %q, want %q", tt.first, tt.last, got, tt.want)
		}
	}
}

func TestParseDateTime_DefaultTime(t *testing.T) {
	got, err := ParseDateTime("2025-03-01", "")
	if err != nil {
		t.Fatalf("ParseDateTime returned error: %v", err)
	}

	want := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseDateTime_ExplicitTime(t *testing.T) {
	tests := []struct {
		date string
		time string
		want time.Time
	}{
		{"2025-03-01", "14:30", time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)},
		{"03/01/2025", "2:30 PM", time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)},
		{"Mar 1, 2025", "08:15", time.Date(2025, 3, 1, 8, 15, 0, 0, time.UTC)},
		{"2025-03-01 14:30", "", time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := ParseDateTime(tt.date, tt.time)
		if err != nil {
			t.Errorf("ParseDateTime(%q, %q) returned error: %v", tt.date, tt.time, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDateTime(%q, %q) = %v, want %v", tt.date, tt.time, got, tt.want)
		}
	}
}

func TestParseDateTime_Invalid(t *testing.T) {
	for _, in := range []string{"not a date", "2025-13-45", ""} {
		_, err := ParseDateTime(in, "")
		if err == nil {
			t.Errorf("ParseDateTime(%q) expected error", in)
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("ParseDateTime(%q) expected ValidationError, got %T", in, err)
		}
		if err.Error() != "Invalid date/time format" {
			t.Errorf("ParseDateTime(%q) message = %q", in, err.Error())
		}
	}
}

func TestParseDate_Lenient(t *testing.T) {
	if _, ok := ParseDate("1990-05-20"); !ok {
		t.Error("expected 1990-05-20 to parse")
	}
	if _, ok := ParseDate("gibberish"); ok {
		t.Error("expected gibberish to fail")
	}
	if _, ok := ParseDate(""); ok {
		t.Error("expected empty input to fail")
	}
}
