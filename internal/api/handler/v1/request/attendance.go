package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

const attendanceDateLayout = "2006-01-02"

type MarkAttendanceRequest struct {
	StudentID           uint   `json:"student_id"`
	MenuID              uint   `json:"menu_id"`
	Date                string `json:"date"`
	Present             bool   `json:"present"`
	Justified           bool   `json:"justified"`
	JustificationReason string `json:"justification_reason"`
}

func (req *MarkAttendanceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.StudentID, validation.Required),
		validation.Field(&req.MenuID, validation.Required),
		validation.Field(&req.Date, validation.Date(attendanceDateLayout)),
		validation.Field(&req.JustificationReason, validation.Length(0, 300)),
	)
}
