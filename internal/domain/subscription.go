package domain

import "time"

const (
	SubscriptionStatusActive         = "ACTIVE"
	SubscriptionStatusPendingPayment = "PENDING_PAYMENT"
	SubscriptionStatusExpired        = "EXPIRED"
	SubscriptionStatusSuspended      = "SUSPENDED"
	SubscriptionStatusCancelled      = "CANCELLED"
)

type Subscription struct {
	ID        uint      `json:"id"`
	StudentID uint      `json:"student_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	MealPlan  string    `json:"meal_plan"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
