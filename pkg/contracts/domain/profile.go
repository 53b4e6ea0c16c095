package domain

import "strings"

// BoatClass identifies a boat class from the club's fixed catalog
type BoatClass string

const (
	BoatClassOptimist BoatClass = "Optimist"
	BoatClassILCA4    BoatClass = "ILCA 4"
	BoatClassILCA6    BoatClass = "ILCA 6"
	BoatClassILCA7    BoatClass = "ILCA 7"
	BoatClass420      BoatClass = "420er"
	BoatClass470      BoatClass = "470er"
	BoatClass29er     BoatClass = "29er"
	BoatClass49er     BoatClass = "49er"
	BoatClassEurope   BoatClass = "Europe"
	BoatClassFinn     BoatClass = "Finn Dinghy"
	BoatClassOK       BoatClass = "OK-Jolle"
	BoatClassPirat    BoatClass = "Pirat"
	BoatClassNacra17  BoatClass = "Nacra 17"
	BoatClassJ70      BoatClass = "J/70"
	BoatClassHansa303 BoatClass = "Hansa 303"
)

// BoatClasses lists the catalog in display order
var BoatClasses = []BoatClass{
	BoatClassOptimist,
	BoatClassILCA4,
	BoatClassILCA6,
	BoatClassILCA7,
	BoatClass420,
	BoatClass470,
	BoatClass29er,
	BoatClass49er,
	BoatClassEurope,
	BoatClassFinn,
	BoatClassOK,
	BoatClassPirat,
	BoatClassNacra17,
	BoatClassJ70,
	BoatClassHansa303,
}

// IsKnownBoatClass reports whether s names a catalog entry.
func IsKnownBoatClass(s string) bool {
	for _, c := range BoatClasses {
		if string(c) == s {
			return true
		}
	}
	return false
}

// ProfileRecord holds the sailor's identity and banking details.
// IBAN is free text; nothing beyond presence is checked.
type ProfileRecord struct {
	Name          string    `json:"name" validate:"max=120"`
	SailNumber    string    `json:"sailNumber" validate:"max=40"`
	BoatClass     BoatClass `json:"boatClass,omitempty" validate:"omitempty,boatclass"`
	IBAN          string    `json:"iban" validate:"max=64"`
	AccountHolder string    `json:"accountHolder,omitempty" validate:"max=120"`
	BIC           string    `json:"bic,omitempty" validate:"max=16"`
}

// Holder returns the account holder, falling back to the sailor name.
func (p ProfileRecord) Holder() string {
	if h := strings.TrimSpace(p.AccountHolder); h != "" {
		return h
	}
	return strings.TrimSpace(p.Name)
}

// HasIBAN reports whether an IBAN was entered at all.
func (p ProfileRecord) HasIBAN() bool {
	return strings.TrimSpace(p.IBAN) != ""
}
