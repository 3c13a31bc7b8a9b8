package response

import "github.com/dabali-bf/canteen-api/internal/domain"

type LoginResponse struct {
	Token              string      `json:"token"`
	User               domain.User `json:"user"`
	MustChangePassword bool        `json:"must_change_password"`
}

// SchoolAdminResponse is returned once at registration time. The temporary
// password is never retrievable afterwards.
type SchoolAdminResponse struct {
	User              domain.User `json:"user"`
	TemporaryPassword string      `json:"temporary_password"`
}
