package mapping

import "testing"

func TestResolve_FuzzyFallback(t *testing.T) {
	// No explicit mapping: all three columns must resolve through the
	// substring fallback alone.
	headers := []string{"Full Name", "Email", "Visit Date"}
	fields := map[string]string{
		"Full Name":  "John Doe",
		"Email":      "john@x.com",
		"Visit Date": "2025-03-01",
	}

	rec := Default().Resolve(headers, fields, nil, AppointmentFields)

	if got := rec.Get(FieldName); got != "John Doe" {
		t.Errorf("name: expected John Doe, got %q", got)
	}
	if got := rec.Get(FieldEmail); got != "john@x.com" {
		t.Errorf("email: expected john@x.com, got %q", got)
	}
	if got := rec.Get(FieldDate); got != "2025-03-01" {
		t.Errorf("date: expected 2025-03-01, got %q", got)
	}
}

func TestResolve_ExplicitTakesPriority(t *testing.T) {
	headers := []string{"Contact", "Secondary Email"}
	fields := map[string]string{
		"Contact":         "primary@x.com",
		"Secondary Email": "secondary@x.com",
	}
	explicit := map[string]string{"Contact": "email"}

	rec := Default().Resolve(headers, fields, explicit, PatientFields)

	// Without the explicit declaration the substring fallback would pick
	// "Secondary Email"; the declaration must win.
	if got := rec.Get(FieldEmail); got != "primary@x.com" {
		t.Errorf("expected explicit mapping to win, got %q", got)
	}
}

func TestResolve_ExplicitEmptyCellFallsThrough(t *testing.T) {
	headers := []string{"Contact", "Email"}
	fields := map[string]string{
		"Contact": "",
		"Email":   "fallback@x.com",
	}
	explicit := map[string]string{"Contact": "email"}

	rec := Default().Resolve(headers, fields, explicit, PatientFields)

	if got := rec.Get(FieldEmail); got != "fallback@x.com" {
		t.Errorf("expected fuzzy fallback after empty explicit cell, got %q", got)
	}
}

func TestResolve_ExplicitUnknownCanonicalIgnored(t *testing.T) {
	headers := []string{"Contact"}
	fields := map[string]string{"Contact": "x"}
	explicit := map[string]string{"Contact": "shoe_size"}

	rec := Default().Resolve(headers, fields, explicit, PatientFields)

	if len(rec) != 0 {
		t.Errorf("expected empty record for unknown canonical field, got %v", rec)
	}
}

func TestResolve_UnresolvedFieldAbsent(t *testing.T) {
	headers := []string{"Widget Count"}
	fields := map[string]string{"Widget Count": "7"}

	rec := Default().Resolve(headers, fields, nil, PatientFields)

	if rec.Has(FieldFirstName) || rec.Has(FieldEmail) {
		t.Errorf("expected no canonical fields resolved, got %v", rec)
	}
	if _, ok := rec[FieldFirstName]; ok {
		t.Error("unresolved field must be absent from the record, not empty")
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	headers := []string{"Appointment Date", "Created Date"}
	fields := map[string]string{
		"Appointment Date": "2025-01-02",
		"Created Date":     "2024-12-31",
	}

	rec := Default().Resolve(headers, fields, nil, AppointmentFields)

	if got := rec.Get(FieldDate); got != "2025-01-02" {
		t.Errorf("expected first matching column to win, got %q", got)
	}
}

func TestResolve_CaseInsensitive(t *testing.T) {
	headers := []string{"EMAIL ADDRESS"}
	fields := map[string]string{"EMAIL ADDRESS": "a@b.c"}

	rec := Default().Resolve(headers, fields, nil, PatientFields)

	if got := rec.Get(FieldEmail); got != "a@b.c" {
		t.Errorf("expected case-insensitive match, got %q", got)
	}
}

func TestResolve_EmptyFuzzyValueOmitted(t *testing.T) {
	headers := []string{"name", "email", "dob"}
	fields := map[string]string{"name": "John Doe", "email": "", "dob": "1990-01-01"}

	rec := Default().Resolve(headers, fields, nil, PatientFields)

	if rec.Has(FieldEmail) {
		t.Errorf("expected empty email omitted, got %q", rec.Get(FieldEmail))
	}
	if got := rec.Get(FieldName); got != "John Doe" {
		t.Errorf("expected name resolved, got %q", got)
	}
	if got := rec.Get(FieldDateOfBirth); got != "1990-01-01" {
		t.Errorf("expected dob resolved, got %q", got)
	}
}
