// Package report holds the accident report data model shared by the wizard engine,
// the document services and the terminal front end.
package report

// Draft field names. They match the keys used by the case backend.
const (
	FieldPESEL       = "pesel"
	FieldIDNumber    = "nr_dowodu"
	FieldFirstName   = "imie"
	FieldLastName    = "nazwisko"
	FieldPhone       = "numer_telefonu"
	FieldStreet      = "ulica"
	FieldNarrative   = "szczegoly_okolicznosci"
	FieldAccidentDay = "data_wypadku"
	FieldAccidentAt  = "godzina_wypadku"
	FieldPlace       = "miejsce_wypadku"
	FieldWorkStart   = "planowana_godzina_rozpoczecia_pracy"
	FieldWorkEnd     = "planowana_godzina_zakonczenia_pracy"
	FieldInjuries    = "rodzaj_urazow"
	FieldAidPlace    = "miejsce_udzielenia_pomocy"
	FieldAuthority   = "organ_postepowania"
	FieldMachines    = "opis_maszyn"
)

// Yes/no answers. A nil value means the citizen has not answered yet.
const (
	FlagAidGiven          = "czy_udzielona_pomoc"
	FlagMachineInvolved   = "czy_wypadek_podczas_uzywania_maszyny"
	FlagMachineCertified  = "czy_maszyna_posiada_atest"
	FlagMachineRegistered = "czy_maszyna_w_ewidencji"
)

// FieldNames lists every text field of the draft in display order.
var FieldNames = []string{
	FieldPESEL,
	FieldIDNumber,
	FieldFirstName,
	FieldLastName,
	FieldPhone,
	FieldStreet,
	FieldAccidentDay,
	FieldAccidentAt,
	FieldPlace,
	FieldWorkStart,
	FieldWorkEnd,
	FieldInjuries,
	FieldNarrative,
	FieldAidPlace,
	FieldAuthority,
	FieldMachines,
}

// FlagNames lists every yes/no answer of the draft.
var FlagNames = []string{
	FlagAidGiven,
	FlagMachineInvolved,
	FlagMachineCertified,
	FlagMachineRegistered,
}

// IsField reports whether name is a known text field.
func IsField(name string) bool {
	for _, f := range FieldNames {
		if f == name {
			return true
		}
	}
	return false
}

// IsFlag reports whether name is a known yes/no answer.
func IsFlag(name string) bool {
	for _, f := range FlagNames {
		if f == name {
			return true
		}
	}
	return false
}

// FieldLabels holds the Polish captions of text fields and yes/no answers.
var FieldLabels = map[string]string{
	FieldPESEL:            "PESEL",
	FieldIDNumber:         "Seria i numer dowodu osobistego",
	FieldFirstName:        "Imię",
	FieldLastName:         "Nazwisko",
	FieldPhone:            "Numer telefonu",
	FieldStreet:           "Ulica",
	FieldAccidentDay:      "Data wypadku",
	FieldAccidentAt:       "Godzina wypadku",
	FieldPlace:            "Miejsce wypadku",
	FieldWorkStart:        "Planowana godzina rozpoczęcia pracy",
	FieldWorkEnd:          "Planowana godzina zakończenia pracy",
	FieldInjuries:         "Rodzaj urazów",
	FieldNarrative:        "Szczegółowy opis okoliczności",
	FieldAidPlace:         "Miejsce udzielenia pomocy",
	FieldAuthority:        "Organ prowadzący postępowanie",
	FieldMachines:         "Opis maszyn i urządzeń",
	FlagAidGiven:          "Czy udzielono pierwszej pomocy",
	FlagMachineInvolved:   "Czy wypadek nastąpił podczas obsługi maszyny",
	FlagMachineCertified:  "Czy maszyna posiada atest",
	FlagMachineRegistered: "Czy maszyna jest w ewidencji środków trwałych",
}

// Label returns the caption of a field or flag, falling back to its name.
func Label(name string) string {
	if l, ok := FieldLabels[name]; ok {
		return l
	}
	return name
}

var witnessLabels = map[WitnessField]string{
	WitnessFirstName:  "Imię",
	WitnessLastName:   "Nazwisko",
	WitnessPhone:      "Telefon",
	WitnessEmail:      "Adres e-mail",
	WitnessStreet:     "Ulica",
	WitnessHouse:      "Nr domu",
	WitnessUnit:       "Nr lokalu",
	WitnessCity:       "Miejscowość",
	WitnessPostalCode: "Kod pocztowy",
	WitnessCountry:    "Państwo",
}

// WitnessLabel returns the caption of a witness field.
func WitnessLabel(f WitnessField) string {
	if l, ok := witnessLabels[f]; ok {
		return l
	}
	return string(f)
}
