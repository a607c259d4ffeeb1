// Package validate implements the field rules of the accident report and its witnesses.
//
// Every rule has the signature func(string) error so it can be handed directly to a
// huh input as its validator. A nil error means the value is valid; otherwise the error
// message is the text shown to the citizen.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mrsinham/accidentwizard/internal/report"
)

// Func validates a raw field value.
type Func func(string) error

// RequiredMessage is shared by every required field left empty.
const RequiredMessage = "Dodaj tę informację, abyśmy mogli przygotować kompletne zgłoszenie."

// ErrRequired is returned for an empty required field.
var ErrRequired = errors.New(RequiredMessage)

var (
	elevenDigits  = regexp.MustCompile(`^\d{11}$`)
	idCardPattern = regexp.MustCompile(`^[A-Z]{3}\d{6}$`)
	datePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern   = regexp.MustCompile(`^\d{2}:\d{2}$`)
	anyDigit      = regexp.MustCompile(`\d`)
	nonDigit      = regexp.MustCompile(`\D`)
)

var fields = map[string]Func{
	report.FieldPESEL: func(v string) error {
		v = strings.TrimSpace(v)
		if v == "" {
			return ErrRequired
		}
		if !elevenDigits.MatchString(v) {
			return errors.New("PESEL musi zawierać 11 cyfr, sprawdź czy numer jest kompletny.")
		}
		return nil
	},
	report.FieldIDNumber: func(v string) error {
		v = strings.TrimSpace(v)
		if v == "" {
			return ErrRequired
		}
		if !idCardPattern.MatchString(v) {
			return errors.New("Podaj numer dokumentu w formacie ABC123456, czyli trzy litery i sześć cyfr.")
		}
		return nil
	},
	report.FieldFirstName: personName(ErrRequired,
		"Wpisz pełne imię (co najmniej 2 znaki).",
		"Imię nie może zawierać cyfr."),
	report.FieldLastName: personName(ErrRequired,
		"Wpisz pełne nazwisko (co najmniej 2 znaki).",
		"Nazwisko nie może zawierać cyfr."),
	report.FieldPhone:  phone("Numer telefonu powinien mieć od 9 do 15 cyfr, podaj preferowany numer do kontaktu."),
	report.FieldStreet: optionalMin(3, "Nazwa ulicy powinna mieć co najmniej 3 znaki."),
	report.FieldAccidentDay: requiredPattern(datePattern,
		"Wybierz datę wypadku w formacie RRRR-MM-DD."),
	report.FieldAccidentAt: requiredPattern(timePattern,
		"Podaj godzinę wypadku w formacie HH:MM."),
	report.FieldPlace: requiredMin(5,
		"Opisz miejsce zdarzenia w kilku słowach (minimum 5 znaków)."),
	report.FieldWorkStart: optionalPattern(timePattern, "Użyj formatu HH:MM (np. 07:00)."),
	report.FieldWorkEnd:   optionalPattern(timePattern, "Użyj formatu HH:MM (np. 15:30)."),
	report.FieldInjuries: requiredMin(5,
		"Wymień urazy w kilku słowach (minimum 5 znaków)."),
	report.FieldNarrative: requiredMin(20,
		"Opisz zdarzenie w kilku zdaniach (co najmniej 20 znaków)."),
	report.FieldAidPlace: optionalMin(3,
		"Podaj nazwę lub adres miejsca, w którym udzielono pomocy."),
	report.FieldAuthority: optionalMin(3,
		"Wpisz nazwę instytucji prowadzącej postępowanie (minimum 3 znaki)."),
	report.FieldMachines: optionalMin(3,
		"Podaj nazwę lub typ urządzenia w kilku słowach (minimum 3 znaki)."),
}

// Field validates the raw value of a draft field. Fields without a rule are valid.
func Field(name, raw string) error {
	fn, ok := fields[name]
	if !ok {
		return nil
	}
	return fn(raw)
}

// Has reports whether the draft field has a validation rule.
func Has(name string) bool {
	_, ok := fields[name]
	return ok
}

// For returns the rule of a draft field, or a rule accepting anything.
func For(name string) Func {
	if fn, ok := fields[name]; ok {
		return fn
	}
	return func(string) error { return nil }
}

// Message returns the user-facing text of a validation result, "" when err is nil.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}

func personName(required error, tooShort, hasDigits string) Func {
	return func(v string) error {
		v = strings.TrimSpace(v)
		if v == "" {
			return required
		}
		if length(v) < 2 {
			return errors.New(tooShort)
		}
		if anyDigit.MatchString(v) {
			return errors.New(hasDigits)
		}
		return nil
	}
}

func phone(msg string) Func {
	return func(v string) error {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil
		}
		digits := len(nonDigit.ReplaceAllString(v, ""))
		if digits < 9 || digits > 15 {
			return errors.New(msg)
		}
		return nil
	}
}

func requiredMin(n int, msg string) Func {
	return func(v string) error {
		v = strings.TrimSpace(v)
		if v == "" {
			return ErrRequired
		}
		if length(v) < n {
			return errors.New(msg)
		}
		return nil
	}
}

func optionalMin(n int, msg string) Func {
	return func(v string) error {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil
		}
		if length(v) < n {
			return errors.New(msg)
		}
		return nil
	}
}

func optionalMax(n int, msg string) Func {
	return func(v string) error {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil
		}
		if length(v) > n {
			return errors.New(msg)
		}
		return nil
	}
}

func requiredPattern(re *regexp.Regexp, msg string) Func {
	return func(v string) error {
		v = strings.TrimSpace(v)
		if v == "" {
			return ErrRequired
		}
		if !re.MatchString(v) {
			return errors.New(msg)
		}
		return nil
	}
}

func optionalPattern(re *regexp.Regexp, msg string) Func {
	return func(v string) error {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil
		}
		if !re.MatchString(v) {
			return errors.New(msg)
		}
		return nil
	}
}
