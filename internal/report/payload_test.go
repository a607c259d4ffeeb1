package report

import (
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"pdf", FormatPDF},
		{"PDF", FormatPDF},
		{" docx ", FormatDOCX},
	}

	for _, tc := range tests {
		got, err := ParseFormat(tc.input)
		if err != nil {
			t.Errorf("ParseFormat(%q) returned error: %v", tc.input, err)
		}
		if got != tc.expected {
			t.Errorf("ParseFormat(%q) = %v, want %v", tc.input, got, tc.expected)
		}
	}

	if _, err := ParseFormat("odt"); err == nil {
		t.Error("ParseFormat(odt) should return error")
	}
}

func TestSanitize(t *testing.T) {
	d := NewDraft()
	d.Fields[FieldNarrative] = "  Upadłem na schodach w magazynie.  \n"
	d.Witnesses = []Witness{
		{FirstName: " Anna ", LastName: "Nowak ", City: " Kraków"},
		{FirstName: "  ", LastName: "", Phone: "600700800"},
		{LastName: "Zając"},
	}

	got := Sanitize(d)

	if got.Fields[FieldNarrative] != "Upadłem na schodach w magazynie." {
		t.Errorf("narrative = %q", got.Fields[FieldNarrative])
	}
	if len(got.Witnesses) != 2 {
		t.Fatalf("got %d witnesses, want 2", len(got.Witnesses))
	}
	if got.Witnesses[0].FirstName != "Anna" || got.Witnesses[0].LastName != "Nowak" || got.Witnesses[0].City != "Kraków" {
		t.Errorf("first witness not trimmed: %+v", got.Witnesses[0])
	}
	if got.Witnesses[1].LastName != "Zając" {
		t.Errorf("second witness = %+v", got.Witnesses[1])
	}

	// input untouched
	if len(d.Witnesses) != 3 || d.Witnesses[0].FirstName != " Anna " {
		t.Error("Sanitize modified its input")
	}
	if d.Fields[FieldNarrative] == got.Fields[FieldNarrative] {
		t.Error("Sanitize modified the input narrative")
	}
}

func TestSanitize_NoWitnesses(t *testing.T) {
	got := Sanitize(NewDraft())
	if got.Witnesses == nil || len(got.Witnesses) != 0 {
		t.Errorf("Sanitize witnesses = %#v, want empty non-nil slice", got.Witnesses)
	}
}
