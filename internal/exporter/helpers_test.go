package exporter

import (
	"time"

	"github.com/shopspring/decimal"

	"clubportal/pkg/contracts/domain"
)

func intPtr(v int) *int { return &v }

func fixedClock() time.Time {
	return time.Date(2024, 6, 30, 14, 5, 9, 0, time.UTC)
}

func kielerWoche() domain.RegattaRecord {
	return domain.RegattaRecord{
		ID:                "r1",
		RegattaName:       "Kieler Woche",
		Date:              "2024-06-01",
		Placement:         intPtr(2),
		TotalParticipants: intPtr(40),
		RaceCount:         5,
		Crew:              []domain.CrewMember{{Name: "A"}, {Name: "B"}},
		InvoiceAmount:     decimal.RequireFromString("45.5"),
	}
}

func testProfile() domain.ProfileRecord {
	return domain.ProfileRecord{
		Name:       "Max Mustermann",
		SailNumber: "GER 1234",
		BoatClass:  domain.BoatClassILCA7,
		IBAN:       "DE89 3704 0044 0532 0130 00",
	}
}

func record(name string, placement *int, amount string) domain.RegattaRecord {
	return domain.RegattaRecord{
		RegattaName:   name,
		Date:          "2024-05-01",
		Placement:     placement,
		RaceCount:     3,
		InvoiceAmount: decimal.RequireFromString(amount),
	}
}
