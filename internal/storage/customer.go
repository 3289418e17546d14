package storage

type Customer struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Phone                string  `json:"phone"`
	ContactPhone         *string `json:"contact_phone"`
	Email                *string `json:"email"`
	Notes                *string `json:"notes"`
	ActiveAgreementCount int     `json:"active_agreement_count"`
}

type CustomerInput struct {
	Name         string  `json:"name" validate:"required,max=50"`
	Phone        string  `json:"phone" validate:"required,twphone"`
	ContactPhone *string `json:"contact_phone" validate:"omitempty,twphone"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Notes        *string `json:"notes"`
}
