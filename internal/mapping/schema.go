package mapping

// schema.go defines the canonical target schemas per import type.
//
// Alias lists are matched as case-insensitive substrings of source column
// names, so short generic terms ("name", "date") deliberately come after
// the more specific ones to keep explicit declarations readable; match
// order across columns is governed by source header order, not alias
// order.

// Canonical field names shared by the entity resolvers.
const (
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldDateOfBirth = "date_of_birth"
	FieldGender      = "gender"
	FieldAddress     = "address"
	FieldDate        = "appointment_date"
	FieldTime        = "appointment_time"
	FieldStatus      = "status"
	FieldReason      = "reason"
	FieldProcedure   = "procedure"
	FieldCost        = "cost"
	FieldTooth       = "tooth"
	FieldNotes       = "notes"
)

// PatientFields is the canonical schema for patient imports.
var PatientFields = []Field{
	{Name: FieldFirstName, Aliases: []string{"firstname", "first name", "given name", "forename"}},
	{Name: FieldLastName, Aliases: []string{"lastname", "last name", "surname", "family name"}},
	{Name: FieldName, Aliases: []string{"full name", "fullname", "patient name", "patient"}},
	{Name: FieldEmail, Aliases: []string{"e-mail", "mail"}},
	{Name: FieldPhone, Aliases: []string{"mobile", "telephone", "tel", "cell"}},
	{Name: FieldDateOfBirth, Aliases: []string{"dob", "birth date", "birthdate", "born"}},
	{Name: FieldGender, Aliases: []string{"sex"}},
	{Name: FieldAddress, Aliases: []string{"street", "city"}},
	{Name: FieldNotes, Aliases: []string{"comments", "remarks", "memo"}},
}

// AppointmentFields is the canonical schema for appointment imports.
var AppointmentFields = []Field{
	{Name: FieldName, Aliases: []string{"patient name", "full name", "fullname", "patient"}},
	{Name: FieldEmail, Aliases: []string{"e-mail", "mail"}},
	{Name: FieldPhone, Aliases: []string{"mobile", "telephone", "tel"}},
	{Name: FieldDate, Aliases: []string{"visit date", "appt date", "date"}},
	{Name: FieldTime, Aliases: []string{"appt time", "time"}},
	{Name: FieldStatus, Aliases: []string{"state"}},
	{Name: FieldReason, Aliases: []string{"visit reason", "purpose", "complaint"}},
	{Name: FieldNotes, Aliases: []string{"comments", "remarks", "memo"}},
}

// TreatmentFields is the canonical schema for treatment imports.
var TreatmentFields = []Field{
	{Name: FieldName, Aliases: []string{"patient name", "full name", "fullname", "patient"}},
	{Name: FieldEmail, Aliases: []string{"e-mail", "mail"}},
	{Name: FieldProcedure, Aliases: []string{"treatment", "service", "description"}},
	{Name: FieldCost, Aliases: []string{"price", "fee", "amount", "charge"}},
	{Name: FieldDate, Aliases: []string{"treatment date", "visit date", "date"}},
	{Name: FieldTooth, Aliases: []string{"tooth number", "tooth no"}},
	{Name: FieldNotes, Aliases: []string{"comments", "remarks", "memo"}},
}
