package domain

import "time"

const (
	PaymentMethodCash        = "CASH"
	PaymentMethodOrangeMoney = "ORANGE_MONEY"
	PaymentMethodMoovMoney   = "MOOV_MONEY"
)

const (
	PaymentStatusWaitingAdminValidation = "WAITING_ADMIN_VALIDATION"
	PaymentStatusPending                = "PENDING"
	PaymentStatusCompleted              = "COMPLETED"
	PaymentStatusFailed                 = "FAILED"
)

type Payment struct {
	ID               uint       `json:"id"`
	SubscriptionID   uint       `json:"subscription_id"`
	ParentID         *uint      `json:"parent_id,omitempty"`
	Amount           float64    `json:"amount"`
	Method           string     `json:"method"`
	Status           string     `json:"status"`
	VerificationCode *string    `json:"verification_code,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
