package domain

import "time"

const (
	MenuStatusPending  = "PENDING"
	MenuStatusApproved = "APPROVED"
	MenuStatusRejected = "REJECTED"
)

const (
	MealTypeBreakfast = "BREAKFAST"
	MealTypeLunch     = "LUNCH"
	MealTypeSnack     = "SNACK"
)

type Menu struct {
	ID              uint      `json:"id"`
	SchoolID        uint      `json:"school_id"`
	Date            time.Time `json:"date"`
	MealType        string    `json:"meal_type"`
	Description     string    `json:"description"`
	Items           []string  `json:"items"`
	Allergens       []string  `json:"allergens"`
	Status          string    `json:"status"`
	CreatedBy       uint      `json:"created_by"`
	ApprovedBy      *uint     `json:"approved_by,omitempty"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	AnnualKey       *string   `json:"annual_key,omitempty"`
	IsAnnual        bool      `json:"is_annual"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
