package csvdialect

import (
	"reflect"
	"testing"
)

func TestQuoteField(t *testing.T) {
	if got := QuoteField("plain"); got != `"plain"` {
		t.Errorf("expected quoted field, got %s", got)
	}
	if got := QuoteField(`say "hi"`); got != `"say ""hi"""` {
		t.Errorf("expected doubled quotes, got %s", got)
	}
	if got := QuoteField(""); got != `""` {
		t.Errorf("expected empty quoted field, got %s", got)
	}
}

func TestJoinRow(t *testing.T) {
	row := JoinRow([]string{"2024-01-15", "Smith, John", ""})
	want := `"2024-01-15","Smith, John",""`
	if row != want {
		t.Errorf("expected %s, got %s", want, row)
	}
}

func TestSplitRow(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want []string
	}{
		{"unquoted", "a,b,c", []string{"a", "b", "c"}},
		{"all quoted", `"a","b","c"`, []string{"a", "b", "c"}},
		{"embedded comma", `"Smith, John","9771234567"`, []string{"Smith, John", "9771234567"}},
		{"trailing empty", `"a","",""`, []string{"a", "", ""}},
		{"single field", `"only"`, []string{"only"}},
		{"empty row", "", []string{""}},
		{"doubled quote collapses", `"say ""hi""","x"`, []string{"say hi", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitRow(tt.row)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitRow(%q) = %#v, want %#v", tt.row, got, tt.want)
			}
		})
	}
}

func TestSplitRowRoundTrip(t *testing.T) {
	fields := []string{"2024-01-15", "Smith, John", "9771234567", "", "0"}
	got := SplitRow(JoinRow(fields))
	if !reflect.DeepEqual(got, fields) {
		t.Errorf("round trip = %#v, want %#v", got, fields)
	}
}

func TestStripOuterQuotes(t *testing.T) {
	if got := StripOuterQuotes(`"Date"`); got != "Date" {
		t.Errorf("expected Date, got %s", got)
	}
	if got := StripOuterQuotes("bare"); got != "bare" {
		t.Errorf("expected bare, got %s", got)
	}
}
