package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreatePaymentRequest struct {
	SubscriptionID uint    `json:"subscription_id"`
	Amount         float64 `json:"amount"`
	Method         string  `json:"method"`
}

func (req *CreatePaymentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.SubscriptionID, validation.Required),
		validation.Field(&req.Amount, validation.Required, validation.Min(0.0)),
		validation.Field(&req.Method, validation.Required, validation.In("CASH", "ORANGE_MONEY", "MOOV_MONEY")),
	)
}

// VerifyPaymentRequest accepts an optional verification code. When absent the
// outcome is applied without a code check, which is the admin override path.
type VerifyPaymentRequest struct {
	Status           string  `json:"status"`
	VerificationCode *string `json:"verification_code"`
}

func (req *VerifyPaymentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required),
	)
}

type ValidatePaymentRequest struct {
	Status string `json:"status"`
}

func (req *ValidatePaymentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required),
	)
}
