package validate

import (
	"errors"
	"regexp"
	"strings"

	"github.com/mrsinham/accidentwizard/internal/report"
)

var (
	postalCodePattern = regexp.MustCompile(`^\d{2}-?\d{3}$`)
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

var witnessFields = map[report.WitnessField]Func{
	report.WitnessFirstName: personName(errors.New("Podaj imię świadka, aby wskazać osobę do kontaktu."),
		"Wpisz imię świadka w pełnej formie (co najmniej 2 znaki).",
		"Imię świadka nie może zawierać cyfr."),
	report.WitnessLastName: personName(errors.New("Podaj nazwisko świadka, aby ułatwić kontakt."),
		"Wpisz nazwisko świadka w pełnej formie (co najmniej 2 znaki).",
		"Nazwisko świadka nie może zawierać cyfr."),
	report.WitnessPhone: phone("Numer telefonu świadka powinien mieć od 9 do 15 cyfr. Popraw wpis lub pozostaw pole puste."),
	report.WitnessEmail: func(v string) error {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil
		}
		if !emailPattern.MatchString(v) {
			return errors.New("Adres e-mail świadka wygląda na nieprawidłowy. Popraw wpis lub pozostaw pole puste.")
		}
		return nil
	},
	report.WitnessStreet: optionalMin(3, "Nazwa ulicy powinna mieć co najmniej 3 znaki."),
	report.WitnessHouse:  optionalMax(10, "Numer domu jest zbyt długi, skróć go do 10 znaków."),
	report.WitnessUnit:   optionalMax(10, "Numer lokalu jest zbyt długi, skróć go do 10 znaków."),
	report.WitnessCity:   optionalMin(2, "Nazwa miejscowości powinna mieć co najmniej 2 znaki."),
	report.WitnessPostalCode: optionalPattern(postalCodePattern,
		"Podaj kod pocztowy w formacie 12-345, możesz wpisać go z myślnikiem lub bez."),
	report.WitnessCountry: optionalMin(3, "Nazwa państwa powinna mieć co najmniej 3 znaki."),
}

// WitnessField validates the raw value of a witness field. Fields without a rule are valid.
func WitnessField(field report.WitnessField, raw string) error {
	fn, ok := witnessFields[field]
	if !ok {
		return nil
	}
	return fn(raw)
}

// ForWitness returns the rule of a witness field, or a rule accepting anything.
func ForWitness(field report.WitnessField) Func {
	if fn, ok := witnessFields[field]; ok {
		return fn
	}
	return func(string) error { return nil }
}

// WitnessRequired reports whether a witness field must be filled in.
func WitnessRequired(field report.WitnessField) bool {
	return field == report.WitnessFirstName || field == report.WitnessLastName
}
