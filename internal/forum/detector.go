// Package forum maps a claim value and case type to the court and
// tariff scale whose schedule governs the matter. The bands encode the
// monetary jurisdiction of the magistrates' courts; callers may always
// override the detected forum on bill creation.
package forum

import (
	"github.com/shopspring/decimal"

	"lexbill/internal/domain"
)

// Jurisdiction ceilings in rand.
var (
	scaleACeiling   = decimal.New(50000, 0)
	scaleBCeiling   = decimal.New(100000, 0)
	districtCeiling = decimal.New(200000, 0)
	regionalCeiling = decimal.New(400000, 0)
)

// Forum is the detected court and scale.
type Forum struct {
	CourtType domain.CourtType   `json:"court_type"`
	Scale     domain.TariffScale `json:"scale"`
}

// Detect returns the forum for a claim value and matter type. Appeals
// go to the High Court regardless of value; claims above the regional
// ceiling are High Court matters on the High Court tariff.
func Detect(claimValue decimal.Decimal, matterType domain.MatterType) Forum {
	if matterType == domain.MatterAppeal {
		return Forum{CourtType: domain.HighCourt, Scale: domain.ScaleHighCourt}
	}
	switch {
	case !claimValue.GreaterThan(scaleACeiling):
		return Forum{CourtType: domain.MagistratesCourt, Scale: domain.ScaleA}
	case !claimValue.GreaterThan(scaleBCeiling):
		return Forum{CourtType: domain.MagistratesCourt, Scale: domain.ScaleB}
	case !claimValue.GreaterThan(districtCeiling):
		return Forum{CourtType: domain.MagistratesCourt, Scale: domain.ScaleC}
	case !claimValue.GreaterThan(regionalCeiling):
		return Forum{CourtType: domain.RegionalCourt, Scale: domain.ScaleC}
	default:
		return Forum{CourtType: domain.HighCourt, Scale: domain.ScaleHighCourt}
	}
}
