package record

import (
	"errors"
	"testing"
)

func TestParse_Basic(t *testing.T) {
	doc, err := Parse("name,email,phone\nJohn Doe,john@x.com,555-0101\nJane Smith,jane@x.com,555-0102\n")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if len(doc.Headers) != 3 {
		t.Fatalf("expected 3 headers, got %d", len(doc.Headers))
	}
	if len(doc.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(doc.Rows))
	}

	if doc.Rows[0].Number != 1 {
		t.Errorf("expected first row number 1, got %d", doc.Rows[0].Number)
	}
	if got := doc.Rows[0].Fields["email"]; got != "john@x.com" {
		t.Errorf("expected john@x.com, got %q", got)
	}
	if got := doc.Rows[1].Fields["name"]; got != "Jane Smith" {
		t.Errorf("expected Jane Smith, got %q", got)
	}
}

func TestParse_MissingTrailingFields(t *testing.T) {
	doc, err := Parse("name,email,dob\nJohn Doe,john@x.com")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if got := doc.Rows[0].Fields["dob"]; got != "" {
		t.Errorf("expected empty string for missing trailing field, got %q", got)
	}
}

func TestParse_QuotedCells(t *testing.T) {
	doc, err := Parse(`name,notes` + "\n" + `"John Doe","follow up"`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if got := doc.Rows[0].Fields["name"]; got != "John Doe" {
		t.Errorf("expected quotes stripped, got %q", got)
	}
	if got := doc.Rows[0].Fields["notes"]; got != "follow up" {
		t.Errorf("expected quotes stripped, got %q", got)
	}
}

func TestParse_EmbeddedDelimiterMisaligns(t *testing.T) {
	// A comma inside a quoted value is not escaped; the row splits through
	// it. This is the documented limitation of the source format.
	doc, err := Parse(`name,notes` + "\n" + `"Doe, John",hello`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if got := doc.Rows[0].Fields["name"]; got == "Doe, John" {
		t.Errorf("embedded delimiter unexpectedly preserved: %q", got)
	}
	// The second cell becomes the remainder of the split quoted value.
	if got := doc.Rows[0].Fields["notes"]; got != `John"` {
		t.Errorf("expected misaligned notes cell %q, got %q", `John"`, got)
	}
}

func TestParse_SkipsBlankLines(t *testing.T) {
	doc, err := Parse("\n\nname,email\n\nJohn,john@x.com\n   \nJane,jane@x.com\n\n")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if len(doc.Rows) != 2 {
		t.Fatalf("expected 2 rows after skipping blanks, got %d", len(doc.Rows))
	}
	if doc.Rows[1].Number != 2 {
		t.Errorf("expected row number 2, got %d", doc.Rows[1].Number)
	}
}

func TestParse_CRLFAndBOM(t *testing.T) {
	doc, err := Parse("\uFEFFname,email\r\nJohn,john@x.com\r\n")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if doc.Headers[0] != "name" {
		t.Errorf("expected BOM stripped from first header, got %q", doc.Headers[0])
	}
	if got := doc.Rows[0].Fields["email"]; got != "john@x.com" {
		t.Errorf("expected CRLF handled, got %q", got)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse("   \n\n")
	if !errors.Is(err, ErrNoHeader) {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"quoted"`, "quoted"},
		{`  padded  `, "padded"},
		{`" both "`, "both"},
		{`'single'`, "single"},
		{`plain`, "plain"},
		{`"`, `"`},
		{``, ``},
	}

	for _, tt := range tests {
		if got := CleanCell(tt.in); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
