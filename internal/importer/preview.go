package importer

// preview.go analyzes an import without writing anything, so callers can
// check their field mapping against the first rows of a file before
// committing to a full run.

import (
	"github.com/dentalops/import-service/internal/mapping"
	"github.com/dentalops/import-service/internal/record"
)

// DefaultPreviewRows is how many data rows a preview analyzes.
const DefaultPreviewRows = 10

// PreviewRow is one analyzed source row.
type PreviewRow struct {
	RowNumber int                     `json:"row_number"`
	Fields    mapping.CanonicalRecord `json:"fields"`
	Problems  []string                `json:"problems"`
}

// PreviewResult describes how the first rows of a file would import.
type PreviewResult struct {
	Headers   []string     `json:"headers"`
	TotalRows int          `json:"total_rows"`
	Rows      []PreviewRow `json:"rows"`
}

// Preview parses the file, maps the first previewRows rows onto the
// canonical schema for the declared type, and reports the validation
// problems a real run would hit. No entities are persisted.
func (s *Service) Preview(req Request) (*PreviewResult, error) {
	doc, err := record.Parse(req.FileContent)
	if err != nil {
		return nil, err
	}

	schema := schemaFor(req.Type)
	resolver := mapping.Default()

	limit := s.previewRows
	if limit > len(doc.Rows) {
		limit = len(doc.Rows)
	}

	result := &PreviewResult{
		Headers:   doc.Headers,
		TotalRows: len(doc.Rows),
		Rows:      make([]PreviewRow, 0, limit),
	}

	for _, row := range doc.Rows[:limit] {
		rec := resolver.Resolve(doc.Headers, row.Fields, req.FieldMapping, schema)
		result.Rows = append(result.Rows, PreviewRow{
			RowNumber: row.Number,
			Fields:    rec,
			Problems:  checkRow(req.Type, rec),
		})
	}

	return result, nil
}

// checkRow runs the validation a resolver would apply, without touching
// the store.
func checkRow(t Type, rec mapping.CanonicalRecord) []string {
	problems := []string{}

	switch t {
	case TypePatients:
		if first, _ := patientNames(rec); first == "" {
			problems = append(problems, "Patient name is required")
		}
	case TypeAppointments:
		first, _ := patientNames(rec)
		date := rec.Get(mapping.FieldDate)
		if first == "" || date == "" {
			problems = append(problems, "Patient name and appointment date are required")
		} else if _, err := ParseDateTime(date, rec.Get(mapping.FieldTime)); err != nil {
			problems = append(problems, err.Error())
		}
	case TypeTreatments:
		// Extraction-only: nothing to validate yet.
	}

	return problems
}
