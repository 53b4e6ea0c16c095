package testutil

import (
	"github.com/shopspring/decimal"

	"clubportal/pkg/contracts/domain"
)

// IntPtr returns a pointer to v
func IntPtr(v int) *int { return &v }

// Profile returns a complete sailor profile
func Profile() domain.ProfileRecord {
	return domain.ProfileRecord{
		Name:          "Max Mustermann",
		SailNumber:    "GER 1234",
		BoatClass:     domain.BoatClassILCA7,
		IBAN:          "DE89 3704 0044 0532 0130 00",
		AccountHolder: "",
	}
}

// KielerWoche returns a fully populated regatta record worth 45.50 EUR
func KielerWoche() domain.RegattaRecord {
	return domain.RegattaRecord{
		ID:                "kw-2024",
		RegattaName:       "Kieler Woche",
		Date:              "2024-06-01",
		Placement:         IntPtr(2),
		TotalParticipants: IntPtr(40),
		RaceCount:         5,
		Crew:              []domain.CrewMember{{Name: "A"}, {Name: "B"}},
		InvoiceAmount:     decimal.RequireFromString("45.50"),
	}
}

// Regatta returns a minimal record with the given name, placement and amount
func Regatta(name string, placement *int, amount string) domain.RegattaRecord {
	return domain.RegattaRecord{
		RegattaName:   name,
		Date:          "2024-05-01",
		Placement:     placement,
		RaceCount:     3,
		InvoiceAmount: decimal.RequireFromString(amount),
	}
}

// SeasonExport bundles a profile and records for season
func SeasonExport(season string, records ...domain.RegattaRecord) domain.SeasonExport {
	return domain.SeasonExport{
		Season:   season,
		Profile:  Profile(),
		Regattas: records,
	}
}
