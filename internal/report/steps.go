package report

// StepID identifies one page of the wizard.
type StepID string

const (
	StepIdentity  StepID = "identity"
	StepResidence StepID = "residence"
	StepAccident  StepID = "accident"
	StepWitnesses StepID = "witnesses"
	StepReview    StepID = "review"
)

// StepInfo is the inline help shown next to a step.
type StepInfo struct {
	Label   string
	Content []string
}

// Step is one page of the wizard. Steps are immutable once the engine is built.
type Step struct {
	ID          StepID
	Title       string
	Description string
	Optional    bool
	Info        *StepInfo
}

// DefaultSteps returns the five-step accident report flow.
func DefaultSteps() []Step {
	return []Step{
		{
			ID:          StepIdentity,
			Title:       "Twoje dane",
			Description: "Uzupełnij podstawowe informacje o sobie. Dane możesz aktualizować na każdym etapie.",
			Info: &StepInfo{
				Label: "Dlaczego prosimy o dane?",
				Content: []string{
					"Dane pozwalają ZUS powiązać zgłoszenie z Twoim kontem i ograniczyć liczbę wezwań do uzupełnień.",
					"Jeżeli informacji brakuje, pozostaw pole puste, kreator przypomni o nim przy kolejnej wizycie.",
				},
			},
		},
		{
			ID:          StepResidence,
			Title:       "Adres zamieszkania",
			Description: "Podaj adres, pod który możemy kierować korespondencję.",
			Info: &StepInfo{
				Label: "Adres korespondencyjny",
				Content: []string{
					"Na ten adres ZUS wyśle decyzję lub prośbę o uzupełnienia.",
					"Jeżeli mieszkasz poza Polską, wpisz ostatni krajowy adres.",
				},
			},
		},
		{
			ID:          StepAccident,
			Title:       "Opis zdarzenia",
			Description: "Opisz własnymi słowami, kiedy i gdzie doszło do zdarzenia.",
			Info: &StepInfo{
				Label: "Jak opisać zdarzenie?",
				Content: []string{
					"Napisz, co robiłeś tuż przed wypadkiem, co się stało i jakie były skutki.",
					"Dołącz dokumentację medyczną, aby potwierdzić rodzaj urazów.",
				},
			},
		},
		{
			ID:          StepWitnesses,
			Title:       "Świadkowie",
			Description: "Dodaj osoby, które mogą potwierdzić zdarzenie (jeśli takie są).",
			Optional:    true,
			Info: &StepInfo{
				Label: "Po co świadkowie?",
				Content: []string{
					"Relacja świadków pomaga szybciej ustalić przebieg zdarzenia.",
				},
			},
		},
		{
			ID:          StepReview,
			Title:       "Podsumowanie",
			Description: "Rzuć okiem na całość przed przygotowaniem formularza.",
			Info: &StepInfo{
				Label: "Co dalej?",
				Content: []string{
					"Po przygotowaniu formularza możesz pobrać go jako plik PDF lub DOCX.",
				},
			},
		},
	}
}

// StepFields maps a step to the draft fields validated before leaving it.
var StepFields = map[StepID][]string{
	StepIdentity:  {FieldPESEL, FieldIDNumber, FieldFirstName, FieldLastName, FieldPhone},
	StepResidence: {FieldStreet},
	StepAccident:  {FieldAccidentDay, FieldAccidentAt, FieldPlace, FieldInjuries, FieldNarrative},
	StepWitnesses: {},
	StepReview:    {},
}

// StepOf returns the step a field is entered on.
func StepOf(field string) (StepID, bool) {
	for id, fields := range StepFields {
		for _, f := range fields {
			if f == field {
				return id, true
			}
		}
	}
	return "", false
}
