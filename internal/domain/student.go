package domain

import "time"

type Student struct {
	ID          uint       `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	ClassName   string     `json:"class_name"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	StudentCode *string    `json:"student_code,omitempty"`
	SchoolID    uint       `json:"school_id"`
	ParentID    *uint      `json:"parent_id,omitempty"`
	ClaimedAt   *time.Time `json:"claimed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// StudentIdentity is the matching key used by import and claim: either a
// school-scoped student code, or the (first, last, birth date) triple with an
// optional class name.
type StudentIdentity struct {
	SchoolID    uint
	StudentCode *string
	FirstName   string
	LastName    string
	BirthDate   *time.Time
	ClassName   string
}
