// Package mapping resolves ambiguous source column names onto canonical
// target fields.
//
// Third-party exports never agree on column naming ("Full Name", "patient",
// "Name"...), so the mapper runs a prioritized list of resolution
// strategies per canonical field: an explicit caller-supplied mapping is
// honored first, then a fuzzy case-insensitive substring fallback scans the
// source headers. The strategy list is open so stricter matching (exact
// header match, confidence scoring) can be slotted in later without
// touching callers.
package mapping

import "strings"

// CanonicalRecord is the per-row output of resolution: canonical field
// name -> source value. Fields that no strategy could populate are simply
// absent, which is the downstream resolvers' signal to apply their own
// default and derivation rules.
type CanonicalRecord map[string]string

// Get returns the value for a canonical field, or "" when absent.
func (r CanonicalRecord) Get(field string) string {
	return r[field]
}

// Has reports whether a canonical field was populated.
func (r CanonicalRecord) Has(field string) bool {
	v, ok := r[field]
	return ok && v != ""
}

// Field is a canonical target field and the source column aliases that
// are accepted for it. The field's own name is always an accepted alias.
type Field struct {
	Name    string
	Aliases []string
}

// matches reports whether name equals the field name or one of its
// aliases, ignoring case.
func (f Field) matches(name string) bool {
	if strings.EqualFold(name, f.Name) {
		return true
	}
	for _, a := range f.Aliases {
		if strings.EqualFold(name, a) {
			return true
		}
	}
	return false
}

// aliasTerms returns everything that counts as an accepted alias,
// including the field name itself.
func (f Field) aliasTerms() []string {
	return append([]string{f.Name}, f.Aliases...)
}

// Strategy attempts to find a source value for one canonical field.
// Implementations return the value and true on a hit; a hit with an empty
// value still ends resolution for the field (the empty value is dropped
// from the record afterwards).
type Strategy interface {
	// Lookup inspects the source headers in their original order.
	Lookup(target Field, headers []string, fields map[string]string, explicit map[string]string) (string, bool)
}

// ExplicitStrategy honors the caller-supplied source-column -> canonical
// field mapping. A declaration is accepted when the declared canonical
// name is one of the target's aliases and the source cell is non-empty.
type ExplicitStrategy struct{}

func (ExplicitStrategy) Lookup(target Field, headers []string, fields map[string]string, explicit map[string]string) (string, bool) {
	if len(explicit) == 0 {
		return "", false
	}
	for _, header := range headers {
		canonical, ok := explicit[header]
		if !ok || !target.matches(canonical) {
			continue
		}
		if v := fields[header]; v != "" {
			return v, true
		}
	}
	return "", false
}

// SubstringStrategy is the fuzzy fallback: it scans source column names
// for a case-insensitive substring match against any accepted alias of
// the target. The first matching column wins; there is no confidence
// scoring and no ambiguity reporting.
type SubstringStrategy struct{}

func (SubstringStrategy) Lookup(target Field, headers []string, fields map[string]string, explicit map[string]string) (string, bool) {
	terms := target.aliasTerms()
	for _, header := range headers {
		lower := strings.ToLower(header)
		for _, term := range terms {
			if strings.Contains(lower, strings.ToLower(term)) {
				return fields[header], true
			}
		}
	}
	return "", false
}

// Resolver applies an ordered strategy list to build canonical records.
type Resolver struct {
	strategies []Strategy
}

// NewResolver creates a resolver with the given strategies, tried in
// order per target field.
func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// Default returns the standard two-phase resolver: explicit mapping
// first, substring fallback second.
func Default() *Resolver {
	return NewResolver(ExplicitStrategy{}, SubstringStrategy{})
}

// Resolve maps one source row onto the schema's canonical fields.
// headers must be in original source order so "first match wins" is
// deterministic. Empty resolved values are omitted from the record.
func (r *Resolver) Resolve(headers []string, fields map[string]string, explicit map[string]string, schema []Field) CanonicalRecord {
	out := make(CanonicalRecord, len(schema))

	for _, target := range schema {
		for _, strat := range r.strategies {
			v, ok := strat.Lookup(target, headers, fields, explicit)
			if !ok {
				continue
			}
			if v != "" {
				out[target.Name] = v
			}
			break
		}
	}

	return out
}
