package dataset

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

//nolint:gochecknoglobals // Fixed vocabularies for synthetic records.
var (
	firstNames = []string{"Ana", "Bruno", "Carla", "Diego", "Elisa", "Felipe", "Gabi", "Heitor", "Iris", "João"}
	lastNames  = []string{"Almeida", "Barbosa", "Costa", "Dias", "Esteves", "Faria", "Gomes", "Lima", "Moura", "Souza"}
	statuses   = []string{"confirmed", "pending", "cancelled", "checked-in", "checked-out"}
	payments   = []string{PaymentVisa, PaymentMaster, PaymentCheck, PaymentCash}
	locations  = []string{"Downtown", "Riverside", "Airport", "Old Town"}
)

// generatorEpoch anchors synthetic reservation dates.
var generatorEpoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // Constant epoch.

// Generate returns n synthetic reservations. The same seed always yields the
// same records, with IDs 1..n.
func Generate(n int, seed uint64) []Reservation {
	if n <= 0 {
		return nil
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // Synthetic data, not security sensitive.

	managers := make([]Person, len(locations))
	for i := range managers {
		managers[i] = randomPerson(rng)
	}

	records := make([]Reservation, n)
	for i := range records {
		loc := rng.IntN(len(locations))
		r := Reservation{
			ID:            i + 1,
			Status:        statuses[rng.IntN(len(statuses))],
			Date:          generatorEpoch.Add(time.Duration(rng.IntN(365*24)) * time.Hour),
			PaymentOption: payments[rng.IntN(len(payments))],
			Customer:      randomPerson(rng),
			Room: Room{
				Price:    float64(80 + rng.IntN(420)),
				Location: Location{Name: locations[loc], Manager: managers[loc]},
			},
		}
		switch rng.IntN(4) {
		case 0:
			r.Discount = &Discount{Type: DiscountPercent, Value: float64(5 * (1 + rng.IntN(6)))}
		case 1:
			r.Discount = &Discount{Type: DiscountFixed, Value: float64(10 * (1 + rng.IntN(5)))}
		}
		records[i] = r
	}
	return records
}

func randomPerson(rng *rand.Rand) Person {
	first := firstNames[rng.IntN(len(firstNames))]
	last := lastNames[rng.IntN(len(lastNames))]
	return Person{
		FirstName:      first,
		LastName:       last,
		Email:          fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), rng.IntN(100)),
		PrimaryPhone:   randomPhone(rng),
		SecondaryPhone: randomPhone(rng),
	}
}

func randomPhone(rng *rand.Rand) Phone {
	return Phone(fmt.Sprintf("55%02d9%08d", 11+rng.IntN(89), rng.IntN(100_000_000)))
}
