// Package csvdialect implements the quoted-CSV dialect used by the vision
// records interchange files: every field is individually double-quoted with
// internal quotes doubled, rows are joined with "\n", and fields are split by
// a stateful tokenizer where a double quote toggles quoted mode. This is
// deliberately not RFC 4180 -- it tolerates exactly the files it produces.
package csvdialect

import "strings"

// QuoteField wraps a value in double quotes, doubling any internal quote.
func QuoteField(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// JoinRow quotes every field and joins them with commas.
func JoinRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = QuoteField(f)
	}
	return strings.Join(quoted, ",")
}

// SplitRow tokenizes a row into raw fields. A comma is a separator only when
// the tokenizer is outside a quoted region; every double quote toggles the
// region and is dropped from the output. A doubled quote written by QuoteField
// therefore toggles twice and vanishes -- fields containing literal quote
// characters do not survive a round trip. Known limitation of the dialect.
func SplitRow(row string) []string {
	var fields []string
	var cur strings.Builder
	inQuote := false
	for _, r := range row {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == ',' && !inQuote:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

// StripOuterQuotes removes a single leading and trailing quote character,
// matching how header cells are cleaned on import.
func StripOuterQuotes(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}
