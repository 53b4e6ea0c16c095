package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CrewMember is one sailor listed on a regatta entry besides the helm.
type CrewMember struct {
	Name string `json:"name" validate:"max=120"`
}

// RegattaRecord is one reimbursement-eligible event entry of a season.
type RegattaRecord struct {
	ID                string          `json:"id"`
	RegattaName       string          `json:"regattaName" validate:"max=200"`
	Date              string          `json:"date" validate:"omitempty,isodate"`
	Placement         *int            `json:"placement,omitempty" validate:"omitempty,min=1"`
	TotalParticipants *int            `json:"totalParticipants,omitempty" validate:"omitempty,min=1"`
	RaceCount         int             `json:"raceCount" validate:"min=0"`
	Crew              []CrewMember    `json:"crew,omitempty" validate:"dive"`
	InvoiceAmount     decimal.Decimal `json:"invoiceAmount" validate:"amount"`
}

// CrewNames returns the crew names in list order, skipping blank entries.
func (r RegattaRecord) CrewNames() []string {
	names := make([]string, 0, len(r.Crew))
	for _, c := range r.Crew {
		if name := strings.TrimSpace(c.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// HasPlacement reports whether a placement was recorded.
func (r RegattaRecord) HasPlacement() bool {
	return r.Placement != nil && *r.Placement > 0
}

// Clone returns a deep copy so stores never share crew slices or pointers with callers.
func (r RegattaRecord) Clone() RegattaRecord {
	out := r
	if r.Placement != nil {
		p := *r.Placement
		out.Placement = &p
	}
	if r.TotalParticipants != nil {
		t := *r.TotalParticipants
		out.TotalParticipants = &t
	}
	if r.Crew != nil {
		out.Crew = append([]CrewMember(nil), r.Crew...)
	}
	return out
}

// SeasonTotal sums the invoice amounts of all records. Absent amounts count as zero.
func SeasonTotal(records []RegattaRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.InvoiceAmount)
	}
	return total
}
