package domain

import "time"

// DashboardStats is a live snapshot; nothing here is cached.
type DashboardStats struct {
	TotalStudents       int64     `json:"total_students"`
	TotalPayments       int64     `json:"total_payments"`
	TotalAttendance     int64     `json:"total_attendance"`
	ActiveSubscriptions int64     `json:"active_subscriptions"`
	TodayAttendance     int64     `json:"today_attendance"`
	MonthPaymentTotal   float64   `json:"month_payment_total"`
	LastUpdated         time.Time `json:"last_updated"`
}
