package report

import (
	"fmt"
	"strings"
)

// WitnessField names an editable field of a witness record.
type WitnessField string

const (
	WitnessFirstName  WitnessField = "imie"
	WitnessLastName   WitnessField = "nazwisko"
	WitnessPhone      WitnessField = "numer_telefonu"
	WitnessEmail      WitnessField = "adres_email"
	WitnessStreet     WitnessField = "ulica"
	WitnessHouse      WitnessField = "nr_domu"
	WitnessUnit       WitnessField = "nr_lokalu"
	WitnessCity       WitnessField = "miejscowosc"
	WitnessPostalCode WitnessField = "kod_pocztowy"
	WitnessCountry    WitnessField = "nazwa_panstwa"
)

// WitnessFields lists the editable witness fields in display order.
var WitnessFields = []WitnessField{
	WitnessFirstName,
	WitnessLastName,
	WitnessPhone,
	WitnessEmail,
	WitnessStreet,
	WitnessHouse,
	WitnessUnit,
	WitnessCity,
	WitnessPostalCode,
	WitnessCountry,
}

// Witness describes a person who can corroborate the incident.
type Witness struct {
	FirstName  string `yaml:"imie" json:"imie"`
	LastName   string `yaml:"nazwisko" json:"nazwisko"`
	Phone      string `yaml:"numer_telefonu,omitempty" json:"numer_telefonu"`
	Email      string `yaml:"adres_email,omitempty" json:"adres_email"`
	Street     string `yaml:"ulica,omitempty" json:"ulica"`
	House      string `yaml:"nr_domu,omitempty" json:"nr_domu"`
	Unit       string `yaml:"nr_lokalu,omitempty" json:"nr_lokalu"`
	City       string `yaml:"miejscowosc,omitempty" json:"miejscowosc"`
	PostalCode string `yaml:"kod_pocztowy,omitempty" json:"kod_pocztowy"`
	Country    string `yaml:"nazwa_panstwa,omitempty" json:"nazwa_panstwa"`

	// Statement references an attachment in the witness-statement collection.
	Statement string `yaml:"statement,omitempty" json:"document,omitempty"`
}

// Get returns the value of field, or "" for an unknown field.
func (w Witness) Get(field WitnessField) string {
	if p := w.ref(field); p != nil {
		return *p
	}
	return ""
}

// Set assigns value to field. Unknown fields return an error.
func (w *Witness) Set(field WitnessField, value string) error {
	p := w.ref(field)
	if p == nil {
		return fmt.Errorf("unknown witness field %q", field)
	}
	*p = value
	return nil
}

func (w *Witness) ref(field WitnessField) *string {
	switch field {
	case WitnessFirstName:
		return &w.FirstName
	case WitnessLastName:
		return &w.LastName
	case WitnessPhone:
		return &w.Phone
	case WitnessEmail:
		return &w.Email
	case WitnessStreet:
		return &w.Street
	case WitnessHouse:
		return &w.House
	case WitnessUnit:
		return &w.Unit
	case WitnessCity:
		return &w.City
	case WitnessPostalCode:
		return &w.PostalCode
	case WitnessCountry:
		return &w.Country
	}
	return nil
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (w Witness) Trimmed() Witness {
	out := w
	for _, f := range WitnessFields {
		_ = out.Set(f, strings.TrimSpace(w.Get(f)))
	}
	return out
}

// Named reports whether the witness has a first or last name.
func (w Witness) Named() bool {
	return strings.TrimSpace(w.FirstName) != "" || strings.TrimSpace(w.LastName) != ""
}

// WitnessFieldKey builds the validation error key of a witness sub-field.
func WitnessFieldKey(index int, field WitnessField) string {
	return fmt.Sprintf("witnesses.%d.%s", index, field)
}

// WitnessKeyPrefix prefixes every witness validation error key.
const WitnessKeyPrefix = "witnesses."

// Draft is the in-progress accident report.
type Draft struct {
	Fields    map[string]string `yaml:"fields"`
	Flags     map[string]*bool  `yaml:"flags,omitempty"`
	Witnesses []Witness         `yaml:"witnesses,omitempty"`
}

// NewDraft returns an empty draft with every known field present.
func NewDraft() Draft {
	d := Draft{
		Fields: make(map[string]string, len(FieldNames)),
		Flags:  make(map[string]*bool, len(FlagNames)),
	}
	for _, f := range FieldNames {
		d.Fields[f] = ""
	}
	for _, f := range FlagNames {
		d.Flags[f] = nil
	}
	return d
}

// Get returns the value of a text field, defaulting to "".
func (d Draft) Get(field string) string {
	return d.Fields[field]
}

// Flag returns a yes/no answer, nil when unanswered.
func (d Draft) Flag(name string) *bool {
	return d.Flags[name]
}

// Clone returns a deep copy of the draft.
func (d Draft) Clone() Draft {
	out := Draft{
		Fields:    make(map[string]string, len(d.Fields)),
		Flags:     make(map[string]*bool, len(d.Flags)),
		Witnesses: make([]Witness, len(d.Witnesses)),
	}
	for k, v := range d.Fields {
		out.Fields[k] = v
	}
	for k, v := range d.Flags {
		if v == nil {
			out.Flags[k] = nil
			continue
		}
		b := *v
		out.Flags[k] = &b
	}
	copy(out.Witnesses, d.Witnesses)
	return out
}
