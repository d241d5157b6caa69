package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

func TestToPgText(t *testing.T) {
	if got := toPgText(""); got.Valid {
		t.Error("empty string should map to NULL")
	}
	if got := toPgText("hello"); !got.Valid || got.String != "hello" {
		t.Errorf("got %+v, want valid \"hello\"", got)
	}
}

func TestToPgDate(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
		want  string
	}{
		{"1985-03-12", true, "1985-03-12"},
		{"03/12/1985", true, "1985-03-12"},
		{"not a date", false, ""},
		{"", false, ""},
	}

	for _, tt := range tests {
		got := toPgDate(tt.raw)
		if got.Valid != tt.valid {
			t.Errorf("toPgDate(%q) valid = %v, want %v", tt.raw, got.Valid, tt.valid)
			continue
		}
		if !tt.valid {
			continue
		}
		if formatted := got.Time.Format("2006-01-02"); formatted != tt.want {
			t.Errorf("toPgDate(%q) = %s, want %s", tt.raw, formatted, tt.want)
		}
	}
}

func TestPgDateString(t *testing.T) {
	d := pgDate{pgtype.Date{Time: time.Date(1985, 3, 12, 0, 0, 0, 0, time.UTC), Valid: true}}
	if got := d.String(); got != "1985-03-12" {
		t.Errorf("got %q, want 1985-03-12", got)
	}
	if got := (pgDate{}).String(); got != "" {
		t.Errorf("invalid date should render empty, got %q", got)
	}
}

func TestToPgUUID(t *testing.T) {
	if got := toPgUUID(uuid.Nil); got.Valid {
		t.Error("nil uuid should map to NULL")
	}

	id := uuid.New()
	got := toPgUUID(id)
	if !got.Valid {
		t.Fatal("non-nil uuid should be valid")
	}
	if back := (pgUUID{got}).Value(); back != id {
		t.Errorf("round trip: got %s, want %s", back, id)
	}
}
