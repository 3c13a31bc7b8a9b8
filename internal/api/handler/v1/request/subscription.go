package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

const subscriptionDateLayout = "2006-01-02"

type CreateSubscriptionRequest struct {
	StudentID uint    `json:"student_id"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	MealPlan  string  `json:"meal_plan"`
	Price     float64 `json:"price"`
}

func (req *CreateSubscriptionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.StudentID, validation.Required),
		validation.Field(&req.StartDate, validation.Required, validation.Date(subscriptionDateLayout)),
		validation.Field(&req.EndDate, validation.Required, validation.Date(subscriptionDateLayout)),
		validation.Field(&req.MealPlan, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.Price, validation.Required, validation.Min(0.0)),
	)
}

type OverrideSubscriptionStatusRequest struct {
	Status string `json:"status"`
}

func (req *OverrideSubscriptionStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required),
	)
}
