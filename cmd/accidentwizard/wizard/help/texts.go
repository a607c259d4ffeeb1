package help

import "github.com/mrsinham/accidentwizard/internal/report"

// HelpText is the contextual help shown next to a field.
type HelpText struct {
	Title       string
	Description string
	Details     string
}

// Texts holds the help of every draft field and flag, keyed by field name.
var Texts = map[string]HelpText{
	report.FieldPESEL: {
		Title:       "PESEL",
		Description: "Jedenaście cyfr numeru PESEL.",
		Details:     "Numer znajdziesz w dowodzie osobistym. Pole jest wymagane.",
	},
	report.FieldIDNumber: {
		Title:       "DOKUMENT TOŻSAMOŚCI",
		Description: "Seria i numer dowodu osobistego.",
		Details:     "Trzy litery i sześć cyfr, np. ABC123456. Litery zamienimy na wielkie.",
	},
	report.FieldFirstName: {
		Title:       "IMIĘ",
		Description: "Imię osoby poszkodowanej.",
		Details:     "Co najmniej dwa znaki, bez cyfr.",
	},
	report.FieldLastName: {
		Title:       "NAZWISKO",
		Description: "Nazwisko osoby poszkodowanej.",
		Details:     "Co najmniej dwa znaki, bez cyfr.",
	},
	report.FieldPhone: {
		Title:       "TELEFON",
		Description: "Numer, pod którym ZUS może się z Tobą skontaktować.",
		Details:     "Pole opcjonalne. Dozwolone cyfry, spacje, myślniki i znak + na początku.",
	},
	report.FieldStreet: {
		Title:       "ADRES",
		Description: "Ulica, numer domu i mieszkania oraz miejscowość.",
		Details:     "Na ten adres trafi korespondencja w sprawie zgłoszenia.",
	},
	report.FieldAccidentDay: {
		Title:       "DATA WYPADKU",
		Description: "Dzień, w którym doszło do zdarzenia.",
		Details:     "Format RRRR-MM-DD, np. 2025-03-14.",
	},
	report.FieldAccidentAt: {
		Title:       "GODZINA WYPADKU",
		Description: "Przybliżona godzina zdarzenia.",
		Details:     "Format GG:MM, np. 07:45.",
	},
	report.FieldPlace: {
		Title:       "MIEJSCE WYPADKU",
		Description: "Gdzie doszło do zdarzenia.",
		Details:     "Podaj adres lub opis miejsca, np. hala magazynowa przy ul. Polnej 3.",
	},
	report.FieldWorkStart: {
		Title:       "POCZĄTEK PRACY",
		Description: "Planowana godzina rozpoczęcia pracy w dniu wypadku.",
		Details:     "Pole opcjonalne, format GG:MM.",
	},
	report.FieldWorkEnd: {
		Title:       "KONIEC PRACY",
		Description: "Planowana godzina zakończenia pracy w dniu wypadku.",
		Details:     "Pole opcjonalne, format GG:MM.",
	},
	report.FieldInjuries: {
		Title:       "RODZAJ URAZÓW",
		Description: "Jakich obrażeń doznałeś.",
		Details:     "Np. złamanie lewej ręki, stłuczenie kolana.",
	},
	report.FieldNarrative: {
		Title:       "OPIS OKOLICZNOŚCI",
		Description: "Przebieg zdarzenia własnymi słowami.",
		Details:     "Napisz, co robiłeś przed wypadkiem, co się stało i jakie były skutki.",
	},
	report.FieldAidPlace: {
		Title:       "MIEJSCE UDZIELENIA POMOCY",
		Description: "Gdzie udzielono Ci pierwszej pomocy.",
		Details:     "Np. SOR szpitala wojewódzkiego. Pole opcjonalne.",
	},
	report.FieldAuthority: {
		Title:       "ORGAN POSTĘPOWANIA",
		Description: "Instytucja prowadząca postępowanie w sprawie wypadku.",
		Details:     "Np. Policja lub Państwowa Inspekcja Pracy. Pole opcjonalne.",
	},
	report.FieldMachines: {
		Title:       "MASZYNY I URZĄDZENIA",
		Description: "Opis maszyny, przy której doszło do wypadku.",
		Details:     "Wypełnij tylko, jeśli wypadek miał związek z maszyną.",
	},
	report.FlagAidGiven: {
		Title:       "PIERWSZA POMOC",
		Description: "Czy udzielono Ci pierwszej pomocy?",
		Details:     "Wybierz \"pomiń\", jeżeli nie chcesz teraz odpowiadać.",
	},
	report.FlagMachineInvolved: {
		Title:       "MASZYNA",
		Description: "Czy wypadek wydarzył się podczas obsługi maszyny?",
	},
	report.FlagMachineCertified: {
		Title:       "ATEST",
		Description: "Czy maszyna posiada atest lub deklarację zgodności?",
	},
	report.FlagMachineRegistered: {
		Title:       "EWIDENCJA ŚRODKÓW TRWAŁYCH",
		Description: "Czy maszyna jest wpisana do ewidencji środków trwałych?",
	},
	"statement": {
		Title:       "OŚWIADCZENIE ŚWIADKA",
		Description: "Ścieżka do pliku z pisemną relacją świadka.",
		Details:     "Pole opcjonalne. Plik zostanie dołączony do oświadczeń świadków.",
	},
	"path": {
		Title:       "PLIK",
		Description: "Ścieżka do pliku na dysku.",
		Details:     "Skany i zdjęcia dokumentów, PDF lub obrazy.",
	},
}

// Witness returns the help of a witness field.
func Witness(field report.WitnessField) HelpText {
	if field == report.WitnessPostalCode {
		return HelpText{
			Title:       "KOD POCZTOWY",
			Description: "Kod pocztowy świadka.",
			Details:     "Format 00-000.",
		}
	}
	return HelpText{
		Title:       "ŚWIADEK",
		Description: report.WitnessLabel(field),
		Details:     "Imię i nazwisko świadka są wymagane, pozostałe dane są opcjonalne.",
	}
}
