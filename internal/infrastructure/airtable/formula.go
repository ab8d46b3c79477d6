package airtable

import "strings"

var formulaEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quote renders s as an Airtable formula string literal.
func quote(s string) string {
	return `"` + formulaEscaper.Replace(s) + `"`
}

func fieldRef(name string) string {
	return "{" + name + "}"
}

// containsFold matches rows whose field contains term, ignoring case.
func containsFold(field, term string) string {
	return "SEARCH(UPPER(" + quote(term) + "), UPPER(" + fieldRef(field) + ")) > 0"
}

func equalsFold(field, value string) string {
	return "LOWER(" + fieldRef(field) + ") = LOWER(" + quote(value) + ")"
}

func recordIDIs(id string) string {
	return "RECORD_ID() = " + quote(id)
}
