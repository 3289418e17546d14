package storage

// RentalType is the billing period of an agreement.
type RentalType string

const (
	RentalDaily     RentalType = "daily"
	RentalMonthly   RentalType = "monthly"
	RentalQuarterly RentalType = "quarterly"
	RentalYearly    RentalType = "yearly"
)

var RentalTypes = []RentalType{RentalDaily, RentalMonthly, RentalQuarterly, RentalYearly}

func (t RentalType) Label() string {
	switch t {
	case RentalDaily:
		return "日租"
	case RentalMonthly:
		return "月租"
	case RentalQuarterly:
		return "季租"
	case RentalYearly:
		return "年租"
	default:
		return string(t)
	}
}

func (t RentalType) Valid() bool {
	switch t {
	case RentalDaily, RentalMonthly, RentalQuarterly, RentalYearly:
		return true
	default:
		return false
	}
}

type SpaceStatus string

const (
	SpaceAvailable   SpaceStatus = "available"
	SpaceOccupied    SpaceStatus = "occupied"
	SpaceReserved    SpaceStatus = "reserved"
	SpaceMaintenance SpaceStatus = "maintenance"
)

var SpaceStatuses = []SpaceStatus{SpaceAvailable, SpaceOccupied, SpaceReserved, SpaceMaintenance}

func (s SpaceStatus) Label() string {
	switch s {
	case SpaceAvailable:
		return "可用"
	case SpaceOccupied:
		return "已占用"
	case SpaceReserved:
		return "已預約"
	case SpaceMaintenance:
		return "維護中"
	default:
		return string(s)
	}
}

func (s SpaceStatus) Valid() bool {
	switch s {
	case SpaceAvailable, SpaceOccupied, SpaceReserved, SpaceMaintenance:
		return true
	default:
		return false
	}
}

// PaymentStatus moves pending → completed or pending → voided; transitions are
// enforced by the API.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentVoided    PaymentStatus = "voided"
)

func (s PaymentStatus) Label() string {
	switch s {
	case PaymentPending:
		return "待付款"
	case PaymentCompleted:
		return "已付款"
	case PaymentVoided:
		return "已作廢"
	default:
		return string(s)
	}
}

// PriceTier records which level produced a space's effective price.
type PriceTier string

const (
	TierSite   PriceTier = "site"
	TierTag    PriceTier = "tag"
	TierCustom PriceTier = "custom"
)

func (t PriceTier) Label() string {
	switch t {
	case TierSite:
		return "停車場基本價"
	case TierTag:
		return "標籤價"
	case TierCustom:
		return "自訂價"
	default:
		return string(t)
	}
}
