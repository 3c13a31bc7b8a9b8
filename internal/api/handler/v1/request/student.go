package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

const birthDateLayout = "2006-01-02"

type CreateStudentRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	ClassName   string  `json:"class_name"`
	BirthDate   string  `json:"birth_date"`
	StudentCode *string `json:"student_code"`
	SchoolID    uint    `json:"school_id"`
}

func (req *CreateStudentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.ClassName, validation.Length(0, 50)),
		validation.Field(&req.BirthDate, validation.Date(birthDateLayout)),
		validation.Field(&req.SchoolID, validation.Required),
	)
}

type UpdateStudentRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	ClassName   string  `json:"class_name"`
	BirthDate   string  `json:"birth_date"`
	StudentCode *string `json:"student_code"`
}

func (req *UpdateStudentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FirstName, validation.Length(1, 100)),
		validation.Field(&req.LastName, validation.Length(1, 100)),
		validation.Field(&req.ClassName, validation.Length(0, 50)),
		validation.Field(&req.BirthDate, validation.Date(birthDateLayout)),
	)
}

// ClaimStudentRequest matches a student either by school-scoped code or by
// name and birth date.
type ClaimStudentRequest struct {
	SchoolID    uint    `json:"school_id"`
	StudentCode *string `json:"student_code"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	BirthDate   string  `json:"birth_date"`
	ClassName   string  `json:"class_name"`
}

func (req *ClaimStudentRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.SchoolID, validation.Required),
		validation.Field(&req.BirthDate, validation.Date(birthDateLayout)),
	)
	if err != nil {
		return err
	}

	if req.StudentCode != nil && *req.StudentCode != "" {
		return nil
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.FirstName, validation.Required),
		validation.Field(&req.LastName, validation.Required),
		validation.Field(&req.BirthDate, validation.Required),
	)
}

type ImportStudentRow struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	ClassName   string  `json:"class_name"`
	BirthDate   string  `json:"birth_date"`
	StudentCode *string `json:"student_code"`
}

type ImportStudentsRequest struct {
	SchoolID uint               `json:"school_id"`
	Students []ImportStudentRow `json:"students"`
}

func (req *ImportStudentsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.SchoolID, validation.Required),
		validation.Field(&req.Students, validation.Required, validation.Length(1, 0), validation.By(func(value interface{}) error {
			rows, _ := value.([]ImportStudentRow)
			for _, row := range rows {
				err := validation.ValidateStruct(
					&row,
					validation.Field(&row.FirstName, validation.Required, validation.Length(1, 100)),
					validation.Field(&row.LastName, validation.Required, validation.Length(1, 100)),
					validation.Field(&row.BirthDate, validation.Date(birthDateLayout)),
				)
				if err != nil {
					return err
				}
			}

			return nil
		})),
	)
}
