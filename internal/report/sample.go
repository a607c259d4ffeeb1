package report

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// Package-level default RNG to avoid allocations when rng is nil
var defaultRNG = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))

var (
	maleFirstNames = []string{
		"Jan", "Piotr", "Krzysztof", "Andrzej", "Tomasz", "Paweł", "Michał", "Marcin",
		"Marek", "Grzegorz", "Adam", "Łukasz", "Zbigniew", "Jerzy", "Tadeusz", "Mateusz",
		"Dariusz", "Mariusz", "Wojciech", "Ryszard", "Kamil", "Maciej", "Jakub", "Rafał",
	}

	femaleFirstNames = []string{
		"Anna", "Maria", "Katarzyna", "Małgorzata", "Agnieszka", "Barbara", "Ewa", "Krystyna",
		"Elżbieta", "Zofia", "Joanna", "Magdalena", "Monika", "Teresa", "Danuta", "Natalia",
		"Aleksandra", "Karolina", "Marta", "Beata", "Dorota", "Halina", "Jadwiga", "Julia",
	}

	// Masculine forms; surnames ending in -ski/-cki/-dzki take -ska/-cka/-dzka for women.
	lastNames = []string{
		"Nowak", "Kowalski", "Wiśniewski", "Wójcik", "Kowalczyk", "Kamiński", "Lewandowski",
		"Zieliński", "Szymański", "Woźniak", "Dąbrowski", "Kozłowski", "Jankowski", "Mazur",
		"Kwiatkowski", "Krawczyk", "Piotrowski", "Grabowski", "Nowakowski", "Pawłowski",
		"Michalski", "Adamczyk", "Dudek", "Zając", "Wieczorek", "Jabłoński", "Król",
	}

	streets = []string{
		"Marszałkowska", "Długa", "Kwiatowa", "Polna", "Leśna", "Słoneczna", "Krótka",
		"Szkolna", "Ogrodowa", "Lipowa", "Brzozowa", "Łąkowa", "Kościuszki", "Mickiewicza",
	}

	cities = []string{
		"Warszawa", "Kraków", "Łódź", "Wrocław", "Poznań", "Gdańsk", "Szczecin", "Lublin",
	}

	places = []string{
		"hala magazynowa przy ul. Przemysłowej",
		"plac budowy osiedla przy ul. Polnej",
		"warsztat samochodowy w Lublinie",
		"chodnik przed siedzibą firmy",
	}

	injuries = []string{
		"złamanie lewego nadgarstka",
		"skręcenie stawu skokowego",
		"rana cięta przedramienia",
		"stłuczenie kolana i otarcia dłoni",
	}

	narratives = []string{
		"Podczas przenoszenia kartonów poślizgnąłem się na mokrej posadzce i upadłem na rękę.",
		"W trakcie pracy na rusztowaniu straciłem równowagę i spadłem z wysokości około metra.",
		"Przy cięciu blachy szlifierka odbiła i raniła przedramię mimo założonych rękawic.",
		"Schodząc po schodach do piwnicy magazynu potknąłem się o niezabezpieczony przewód.",
	}
)

// GenerateName returns a random Polish first and last name for the given sex ("M" or "F").
// If rng is nil, uses shared default RNG.
func GenerateName(sex string, rng *rand.Rand) (first, last string) {
	if rng == nil {
		rng = defaultRNG
	}

	last = lastNames[rng.IntN(len(lastNames))]
	if sex == "M" {
		return maleFirstNames[rng.IntN(len(maleFirstNames))], last
	}
	return femaleFirstNames[rng.IntN(len(femaleFirstNames))], feminineSurname(last)
}

func feminineSurname(last string) string {
	for _, suffix := range []string{"ski", "cki", "dzki"} {
		if strings.HasSuffix(last, suffix) {
			return strings.TrimSuffix(last, "i") + "a"
		}
	}
	return last
}

// GeneratePESEL returns a PESEL number with a valid check digit for the given birth date.
func GeneratePESEL(birth time.Time, sex string, rng *rand.Rand) string {
	if rng == nil {
		rng = defaultRNG
	}

	month := int(birth.Month())
	switch {
	case birth.Year() >= 2000 && birth.Year() < 2100:
		month += 20
	case birth.Year() < 1900:
		month += 80
	}

	serial := rng.IntN(1000)
	sexDigit := rng.IntN(5) * 2
	if sex == "M" {
		sexDigit++
	}

	digits := fmt.Sprintf("%02d%02d%02d%03d%d", birth.Year()%100, month, birth.Day(), serial, sexDigit)
	weights := []int{1, 3, 7, 9, 1, 3, 7, 9, 1, 3}
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	return digits + fmt.Sprintf("%d", (10-sum%10)%10)
}

// GenerateIDNumber returns an identity card number in the ABC123456 format.
func GenerateIDNumber(rng *rand.Rand) string {
	if rng == nil {
		rng = defaultRNG
	}

	letters := make([]byte, 3)
	for i := range letters {
		letters[i] = byte('A' + rng.IntN(26))
	}
	return fmt.Sprintf("%s%06d", letters, rng.IntN(1000000))
}

// GenerateWitness returns a witness with a random name and address.
func GenerateWitness(rng *rand.Rand) Witness {
	if rng == nil {
		rng = defaultRNG
	}

	sex := []string{"M", "F"}[rng.IntN(2)]
	first, last := GenerateName(sex, rng)
	return Witness{
		FirstName:  first,
		LastName:   last,
		Phone:      fmt.Sprintf("5%02d %03d %03d", rng.IntN(100), rng.IntN(1000), rng.IntN(1000)),
		Street:     streets[rng.IntN(len(streets))],
		House:      fmt.Sprintf("%d", 1+rng.IntN(120)),
		City:       cities[rng.IntN(len(cities))],
		PostalCode: fmt.Sprintf("%02d-%03d", rng.IntN(100), rng.IntN(1000)),
		Country:    "Polska",
	}
}

// SampleDraft returns a complete, valid draft with random data. It is used by the
// demo command and to prefill the terminal wizard.
func SampleDraft(witnesses int, rng *rand.Rand) Draft {
	if rng == nil {
		rng = defaultRNG
	}

	sex := []string{"M", "F"}[rng.IntN(2)]
	first, last := GenerateName(sex, rng)
	birth := time.Date(1960+rng.IntN(40), time.Month(1+rng.IntN(12)), 1+rng.IntN(28), 0, 0, 0, 0, time.UTC)
	accident := time.Now().AddDate(0, 0, -1-rng.IntN(30))

	d := NewDraft()
	d.Fields[FieldPESEL] = GeneratePESEL(birth, sex, rng)
	d.Fields[FieldIDNumber] = GenerateIDNumber(rng)
	d.Fields[FieldFirstName] = first
	d.Fields[FieldLastName] = last
	d.Fields[FieldPhone] = fmt.Sprintf("6%02d %03d %03d", rng.IntN(100), rng.IntN(1000), rng.IntN(1000))
	d.Fields[FieldStreet] = streets[rng.IntN(len(streets))]
	d.Fields[FieldAccidentDay] = accident.Format("2006-01-02")
	d.Fields[FieldAccidentAt] = fmt.Sprintf("%02d:%02d", 7+rng.IntN(9), rng.IntN(60))
	d.Fields[FieldPlace] = places[rng.IntN(len(places))]
	d.Fields[FieldWorkStart] = "07:00"
	d.Fields[FieldWorkEnd] = "15:00"
	d.Fields[FieldInjuries] = injuries[rng.IntN(len(injuries))]
	d.Fields[FieldNarrative] = narratives[rng.IntN(len(narratives))]

	aid := true
	d.Flags[FlagAidGiven] = &aid
	d.Fields[FieldAidPlace] = "SOR " + cities[rng.IntN(len(cities))]

	for i := 0; i < witnesses; i++ {
		d.Witnesses = append(d.Witnesses, GenerateWitness(rng))
	}
	return d
}
