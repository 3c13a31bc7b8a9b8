package domain

import "time"

const (
	RoleSuperAdmin     = "SUPER_ADMIN"
	RoleSchoolAdmin    = "SCHOOL_ADMIN"
	RoleCanteenManager = "CANTEEN_MANAGER"
	RoleParent         = "PARENT"
	RoleStudent        = "STUDENT"
)

type User struct {
	ID                  uint       `json:"id"`
	Email               string     `json:"email"`
	Password            string     `json:"-"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	Phone               string     `json:"phone,omitempty"`
	Role                string     `json:"role"`
	SchoolID            *uint      `json:"school_id,omitempty"`
	IsTemporaryPassword bool       `json:"is_temporary_password"`
	PasswordChangedAt   *time.Time `json:"password_changed_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (u User) IsAdminRole() bool {
	return u.Role == RoleSuperAdmin || u.Role == RoleSchoolAdmin
}
