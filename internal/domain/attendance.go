package domain

import "time"

type Attendance struct {
	ID                  uint      `json:"id"`
	StudentID           uint      `json:"student_id"`
	MenuID              uint      `json:"menu_id"`
	Date                time.Time `json:"date"`
	Present             bool      `json:"present"`
	Justified           bool      `json:"justified"`
	JustificationReason string    `json:"justification_reason,omitempty"`
	MarkedBy            uint      `json:"marked_by"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// AttendanceResult reports the outcome of marking attendance. Notification
// dispatch can fail independently of the attendance write.
type AttendanceResult struct {
	Attendance       Attendance `json:"attendance"`
	NotificationSent bool       `json:"notification_sent"`
}
