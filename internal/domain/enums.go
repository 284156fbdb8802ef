package domain

// BillType determines the recoverability basis of a bill of costs.
type BillType string

const (
	BillPartyAndParty     BillType = "party_and_party"
	BillAttorneyAndClient BillType = "attorney_and_client"
	BillOwnClient         BillType = "own_client"
)

// ValidBillTypes maps every recognised bill type for input validation.
var ValidBillTypes = map[BillType]bool{
	BillPartyAndParty:     true,
	BillAttorneyAndClient: true,
	BillOwnClient:         true,
}

// CostsOrder is the kind of costs order made in the underlying matter.
type CostsOrder string

const (
	CostsInTheCause CostsOrder = "costs_in_the_cause"
	CostsReserved   CostsOrder = "costs_reserved"
	WastedCosts     CostsOrder = "wasted_costs"
	PunitiveScale   CostsOrder = "punitive_scale"
	NoOrder         CostsOrder = "no_order"
)

// RecoverableOrders lists the costs orders under which party-and-party
// items may be recovered at taxation.
var RecoverableOrders = map[CostsOrder]bool{
	CostsInTheCause: true,
	WastedCosts:     true,
	PunitiveScale:   true,
}

// CourtType identifies the forum whose tariff governs a matter.
type CourtType string

const (
	MagistratesCourt CourtType = "magistrates_court"
	RegionalCourt    CourtType = "regional_court"
	HighCourt        CourtType = "high_court"
)

// TariffScale is the tariff scale applicable within a court.
type TariffScale string

const (
	ScaleA         TariffScale = "scale_a"
	ScaleB         TariffScale = "scale_b"
	ScaleC         TariffScale = "scale_c"
	ScaleHighCourt TariffScale = "high_court"
)

// ItemCategory partitions bill line items for subtotalling.
type ItemCategory string

const (
	CategoryFees          ItemCategory = "fees"
	CategoryDisbursements ItemCategory = "disbursements"
	CategoryCounsel       ItemCategory = "counsel"
)

// TariffUnit is the charging unit of a tariff rate item.
type TariffUnit string

const (
	UnitPerHour      TariffUnit = "per_hour"
	UnitPerPage      TariffUnit = "per_page"
	UnitPerFolio     TariffUnit = "per_folio"
	UnitPerKilometre TariffUnit = "per_km"
	UnitFixed        TariffUnit = "fixed"
	UnitActualCost   TariffUnit = "actual_cost"
)

// IsTime reports whether the unit is charged in hours and therefore
// subject to time rounding.
func (u TariffUnit) IsTime() bool {
	return u == UnitPerHour
}

// TaxationRisk grades the likelihood of an item being taxed off.
type TaxationRisk string

const (
	RiskLow    TaxationRisk = "low"
	RiskMedium TaxationRisk = "medium"
	RiskHigh   TaxationRisk = "high"
)

// MatterType classifies a matter for deadline and blackout purposes.
type MatterType string

const (
	MatterOrdinary MatterType = "ordinary"
	MatterUrgent   MatterType = "urgent"
	MatterCriminal MatterType = "criminal"
	MatterAppeal   MatterType = "appeal"
)

// BlackoutExemptMatters are matter types whose deadlines are never
// shifted by the annual court recess. The underlying legal deadline
// cannot be extended by this software.
var BlackoutExemptMatters = map[MatterType]bool{
	MatterUrgent:   true,
	MatterCriminal: true,
	MatterAppeal:   true,
}

// BillStatus is the lifecycle state of a bill of costs.
type BillStatus string

const (
	BillStatusDraft     BillStatus = "draft"
	BillStatusFinalized BillStatus = "finalized"
)
