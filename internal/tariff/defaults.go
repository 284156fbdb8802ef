package tariff

import (
	"time"

	"github.com/shopspring/decimal"

	"lexbill/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

// DefaultSchedules returns the built-in tariff schedules used when no
// database rows have been loaded: the Magistrates' Courts scales and
// the High Court tariff, with the 2024 revision superseding the 2022
// rates for Scale A.
func DefaultSchedules() []domain.TariffSchedule {
	return []domain.TariffSchedule{
		{
			CourtType: domain.MagistratesCourt,
			Scale:     domain.ScaleA,
			Versions: []domain.TariffVersion{
				{
					CourtType:     domain.MagistratesCourt,
					Scale:         domain.ScaleA,
					EffectiveFrom: day(2024, time.April, 12),
					GazetteRef:    "GN R.4551 of 2024",
					Items:         magistratesScaleAItems(),
				},
				{
					CourtType:     domain.MagistratesCourt,
					Scale:         domain.ScaleA,
					EffectiveFrom: day(2022, time.February, 1),
					EffectiveTo:   timePtr(day(2024, time.April, 12)),
					GazetteRef:    "GN R.1692 of 2022",
					Items: []domain.TariffRateItem{
						{ItemCode: "1.1", Label: "Perusal of documents", Description: "Perusing summons, pleadings, affidavits and other documents", Rate: d("241.00"), Unit: domain.UnitPerPage, VATApplicable: true, Category: domain.CategoryFees},
						{ItemCode: "2.1", Label: "Consultation", Description: "Consultation with client or witness", Rate: d("1930.00"), Unit: domain.UnitPerHour, MinimumUnits: dp("0.25"), VATApplicable: true, Category: domain.CategoryFees},
					},
				},
			},
		},
		{
			CourtType: domain.MagistratesCourt,
			Scale:     domain.ScaleB,
			Versions: []domain.TariffVersion{
				{
					CourtType:     domain.MagistratesCourt,
					Scale:         domain.ScaleB,
					EffectiveFrom: day(2024, time.April, 12),
					GazetteRef:    "GN R.4551 of 2024",
					Items: []domain.TariffRateItem{
						{ItemCode: "1.1", Label: "Perusal of documents", Description: "Perusing summons, pleadings, affidavits and other documents", Rate: d("342.00"), Unit: domain.UnitPerPage, VATApplicable: true, Category: domain.CategoryFees},
						{ItemCode: "2.1", Label: "Consultation", Description: "Consultation with client or witness", Rate: d("2736.00"), Unit: domain.UnitPerHour, MinimumUnits: dp("0.25"), VATApplicable: true, Category: domain.CategoryFees},
						{ItemCode: "5.1", Label: "Travel", Description: "Necessary travel to court or inspection", Rate: d("4.80"), Unit: domain.UnitPerKilometre, MaximumUnits: dp("500"), VATApplicable: true, Category: domain.CategoryDisbursements},
					},
				},
			},
		},
		{
			CourtType: domain.HighCourt,
			Scale:     domain.ScaleHighCourt,
			Versions: []domain.TariffVersion{
				{
					CourtType:     domain.HighCourt,
					Scale:         domain.ScaleHighCourt,
					EffectiveFrom: day(2024, time.April, 12),
					GazetteRef:    "GN R.4553 of 2024",
					Items: []domain.TariffRateItem{
						{ItemCode: "A1", Label: "Perusal of documents", Description: "Perusing pleadings, notices, affidavits and annexures", Rate: d("478.00"), Unit: domain.UnitPerPage, VATApplicable: true, Category: domain.CategoryFees},
						{ItemCode: "A2", Label: "Consultation", Description: "Consultation with client, witness or counsel", Rate: d("3420.00"), Unit: domain.UnitPerHour, MinimumUnits: dp("0.25"), VATApplicable: true, Category: domain.CategoryFees},
						{ItemCode: "A3", Label: "Drafting", Description: "Drafting pleadings, notices and affidavits", Rate: d("3420.00"), Unit: domain.UnitPerHour, MinimumUnits: dp("0.25"), VATApplicable: true, Category: domain.CategoryFees},
						{ItemCode: "B1", Label: "Attendance at court", Description: "Attendance at trial or opposed motion, per day", Rate: d("8550.00"), Unit: domain.UnitFixed, VATApplicable: true, Category: domain.CategoryFees},
						{ItemCode: "C1", Label: "Counsel's fees", Description: "Fees paid to counsel on brief, as vouched", Rate: d("0"), Unit: domain.UnitActualCost, VATApplicable: true, Category: domain.CategoryCounsel},
						{ItemCode: "D1", Label: "Sheriff's fees", Description: "Service and execution fees paid to the sheriff", Rate: d("0"), Unit: domain.UnitActualCost, VATApplicable: false, Category: domain.CategoryDisbursements},
						{ItemCode: "D2", Label: "Travel", Description: "Necessary travel to court or inspection", Rate: d("5.20"), Unit: domain.UnitPerKilometre, MaximumUnits: dp("800"), VATApplicable: true, Category: domain.CategoryDisbursements},
					},
				},
			},
		},
	}
}

func magistratesScaleAItems() []domain.TariffRateItem {
	return []domain.TariffRateItem{
		{ItemCode: "1.1", Label: "Perusal of documents", Description: "Perusing summons, pleadings, affidavits and other documents", Rate: d("285.00"), Unit: domain.UnitPerPage, VATApplicable: true, Category: domain.CategoryFees},
		{ItemCode: "1.2", Label: "Drafting", Description: "Drafting summons, pleadings and notices", Rate: d("2280.00"), Unit: domain.UnitPerHour, MinimumUnits: dp("0.25"), VATApplicable: true, Category: domain.CategoryFees},
		{ItemCode: "2.1", Label: "Consultation", Description: "Consultation with client or witness", Rate: d("2280.00"), Unit: domain.UnitPerHour, MinimumUnits: dp("0.25"), VATApplicable: true, Category: domain.CategoryFees},
		{ItemCode: "3.1", Label: "Attendance at court", Description: "Attendance at trial, per hour in court", Rate: d("2280.00"), Unit: domain.UnitPerHour, MinimumUnits: dp("0.5"), MaximumUnits: dp("8"), VATApplicable: true, Category: domain.CategoryFees},
		{ItemCode: "4.1", Label: "Copies", Description: "Necessary photocopies of documents", Rate: d("5.00"), Unit: domain.UnitPerPage, CapAmount: dp("1500.00"), VATApplicable: true, Category: domain.CategoryFees},
		{ItemCode: "5.1", Label: "Travel", Description: "Necessary travel to court or inspection", Rate: d("4.50"), Unit: domain.UnitPerKilometre, MaximumUnits: dp("400"), VATApplicable: true, Category: domain.CategoryDisbursements},
		{ItemCode: "6.1", Label: "Sheriff's fees", Description: "Service and execution fees paid to the sheriff", Rate: d("0"), Unit: domain.UnitActualCost, VATApplicable: false, Category: domain.CategoryDisbursements},
		{ItemCode: "7.1", Label: "Counsel's fees", Description: "Fees paid to counsel on brief, as vouched", Rate: d("0"), Unit: domain.UnitActualCost, VATApplicable: true, Category: domain.CategoryCounsel},
	}
}

func timePtr(t time.Time) *time.Time { return &t }
