package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

const menuDateLayout = "2006-01-02"

var mealTypes = []interface{}{"BREAKFAST", "LUNCH", "SNACK"}

type CreateMenuRequest struct {
	SchoolID    uint     `json:"school_id"`
	Date        string   `json:"date"`
	MealType    string   `json:"meal_type"`
	Description string   `json:"description"`
	Items       []string `json:"items"`
	Allergens   []string `json:"allergens"`
}

func (req *CreateMenuRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.SchoolID, validation.Required),
		validation.Field(&req.Date, validation.Required, validation.Date(menuDateLayout)),
		validation.Field(&req.MealType, validation.Required, validation.In(mealTypes...)),
		validation.Field(&req.Items, validation.Required, validation.Length(1, 0)),
	)
}

type CreateAnnualMenuRequest struct {
	SchoolID    uint     `json:"school_id"`
	StartDate   string   `json:"start_date"`
	MealType    string   `json:"meal_type"`
	Description string   `json:"description"`
	Items       []string `json:"items"`
	Allergens   []string `json:"allergens"`
}

func (req *CreateAnnualMenuRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.SchoolID, validation.Required),
		validation.Field(&req.StartDate, validation.Required, validation.Date(menuDateLayout)),
		validation.Field(&req.MealType, validation.Required, validation.In(mealTypes...)),
		validation.Field(&req.Items, validation.Required, validation.Length(1, 0)),
	)
}

// UpdateMenuRequest carries only content fields. The date of a menu is fixed
// at creation; annual updates fan out to every sibling day.
type UpdateMenuRequest struct {
	Description *string  `json:"description"`
	Items       []string `json:"items"`
	Allergens   []string `json:"allergens"`
	MealType    *string  `json:"meal_type"`
}

func (req *UpdateMenuRequest) Validate() error {
	if req.MealType != nil {
		return validation.Validate(*req.MealType, validation.In(mealTypes...))
	}

	return nil
}

type ApproveMenuRequest struct {
	Approved        bool   `json:"approved"`
	RejectionReason string `json:"rejection_reason"`
}
