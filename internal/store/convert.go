package store

import (
	"github.com/dentalops/import-service/internal/importer"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Thin wrappers around the pgtype nullable types. Scanning goes through
// these so NULL columns surface as Go zero values instead of panics or
// sentinel structs leaking out of the package.

type pgText struct{ pgtype.Text }

func (t pgText) String() string {
	if !t.Valid {
		return ""
	}
	return t.Text.String
}

type pgDate struct{ pgtype.Date }

// String renders the date in ISO form, the canonical shape the import
// pipeline writes back into profiles.
func (d pgDate) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

type pgUUID struct{ pgtype.UUID }

func (u pgUUID) Value() uuid.UUID {
	if !u.Valid {
		return uuid.Nil
	}
	return uuid.UUID(u.Bytes)
}

func toPgText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

// toPgDate parses the lenient date formats accepted by the pipeline.
// Unparseable input maps to NULL rather than rejecting the whole row;
// date of birth is informational, not identifying.
func toPgDate(raw string) pgtype.Date {
	t, ok := importer.ParseDate(raw)
	if !ok {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: t, Valid: true}
}

func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: id != uuid.Nil}
}
