package storage

// Space is a rentable slot. ComputedStatus is derived by the API from active
// agreements and can disagree with the stored Status.
type Space struct {
	ID                    string      `json:"id"`
	SiteID                string      `json:"site_id"`
	Name                  string      `json:"name"`
	Status                SpaceStatus `json:"status"`
	ComputedStatus        SpaceStatus `json:"computed_status,omitempty"`
	Tags                  []string    `json:"tags"`
	CustomPrice           *int64      `json:"custom_price"`
	SiteName              *string     `json:"site_name"`
	EffectiveMonthlyPrice *int64      `json:"effective_monthly_price"`
	EffectiveDailyPrice   *int64      `json:"effective_daily_price"`
	PriceTier             *PriceTier  `json:"price_tier"`
	PriceTagName          *string     `json:"price_tag_name"`
}

// DisplayStatus prefers the server-derived status when the API sent one.
func (s Space) DisplayStatus() SpaceStatus {
	if s.ComputedStatus != "" {
		return s.ComputedStatus
	}
	return s.Status
}

type SpaceFilter struct {
	SiteID string
	Status string
	Tag    string
}

type SpaceInput struct {
	SiteID      string   `json:"site_id" validate:"required"`
	Name        string   `json:"name" validate:"required,max=50"`
	Tags        []string `json:"tags"`
	CustomPrice *int64   `json:"custom_price" validate:"omitempty,gte=0"`
}

// SpaceUpdate carries the inline-editable fields; nil fields are left unchanged.
type SpaceUpdate struct {
	Name        *string      `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Status      *SpaceStatus `json:"status,omitempty"`
	Tags        []string     `json:"tags"`
	CustomPrice *int64       `json:"custom_price" validate:"omitempty,gte=0"`
}

type SpaceBatchInput struct {
	SiteID string   `json:"site_id" validate:"required"`
	Prefix string   `json:"prefix" validate:"required,max=40"`
	Start  int      `json:"start" validate:"gte=0"`
	Count  int      `json:"count" validate:"gte=1,lte=200"`
	Tags   []string `json:"tags"`
}
