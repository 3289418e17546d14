package storage

type Payment struct {
	ID            string        `json:"id"`
	AgreementID   string        `json:"agreement_id"`
	Amount        int64         `json:"amount"`
	Status        PaymentStatus `json:"status"`
	PaymentDate   *string       `json:"payment_date"`
	DueDate       *string       `json:"due_date,omitempty"`
	BankReference *string       `json:"bank_reference"`
	Notes         *string       `json:"notes"`
}

// Pending reports whether the payment can still be completed.
func (p Payment) Pending() bool {
	return p.Status == PaymentPending
}

type PaymentComplete struct {
	PaymentDate   string  `json:"payment_date" validate:"required,datetime=2006-01-02"`
	BankReference string  `json:"bank_reference" validate:"required,max=100"`
	Notes         *string `json:"notes"`
}

// PaymentUpdate is the generic edit; only non-nil fields are sent.
type PaymentUpdate struct {
	BankReference *string `json:"bank_reference,omitempty" validate:"omitempty,max=100"`
	Notes         *string `json:"notes,omitempty"`
	PaymentDate   *string `json:"payment_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate       *string `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
