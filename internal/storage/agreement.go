package storage

type Agreement struct {
	ID                string     `json:"id"`
	CustomerID        string     `json:"customer_id"`
	SpaceID           string     `json:"space_id"`
	AgreementType     RentalType `json:"agreement_type"`
	StartDate         string     `json:"start_date"`
	EndDate           string     `json:"end_date"`
	Price             int64      `json:"price"`
	LicensePlates     string     `json:"license_plates"`
	Notes             *string    `json:"notes"`
	TerminatedAt      *string    `json:"terminated_at"`
	TerminationReason *string    `json:"termination_reason"`
	CustomerName      *string    `json:"customer_name"`
	SpaceName         *string    `json:"space_name"`
	PaymentStatus     *string    `json:"payment_status"`
}

// Active reports whether the agreement has not been terminated.
func (a Agreement) Active() bool {
	return a.TerminatedAt == nil
}

type AgreementFilter struct {
	CustomerID string
	SpaceID    string
	ActiveOnly bool
}

type AgreementInput struct {
	CustomerID    string     `json:"customer_id" validate:"required"`
	SpaceID       string     `json:"space_id" validate:"required"`
	AgreementType RentalType `json:"agreement_type" validate:"required,oneof=daily monthly quarterly yearly"`
	StartDate     string     `json:"start_date" validate:"required,datetime=2006-01-02"`
	Price         int64      `json:"price" validate:"gte=0"`
	LicensePlates string     `json:"license_plates" validate:"required,max=500"`
	Notes         *string    `json:"notes"`
}

type TerminateInput struct {
	TerminationReason string `json:"termination_reason" validate:"required"`
}

type AgreementSummary struct {
	ActiveCount         int   `json:"active_count"`
	PendingPaymentTotal int64 `json:"pending_payment_total"`
	AvailableSpaceCount int   `json:"available_space_count"`
	OverdueCount        int   `json:"overdue_count"`
}
