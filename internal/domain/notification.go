package domain

import "time"

const (
	NotificationTypeMenuApproval = "MENU_APPROVAL"
	NotificationTypeAttendance   = "ATTENDANCE"
)

type Notification struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	StudentID *uint     `json:"student_id,omitempty"`
	MenuID    *uint     `json:"menu_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
