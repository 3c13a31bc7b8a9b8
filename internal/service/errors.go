package service

import (
	"errors"

	"github.com/dabali-bf/canteen-api/internal/repository"
)

// Re-exported store sentinels, so handlers only ever import the service layer.
var (
	ErrUserEmailExists      = repository.ErrUserEmailExists
	ErrUserNotFound         = repository.ErrUserNotFound
	ErrSchoolNotFound       = repository.ErrSchoolNotFound
	ErrStudentNotFound      = repository.ErrStudentNotFound
	ErrStudentCodeExists    = repository.ErrStudentCodeExists
	ErrStudentNoMatch       = repository.ErrStudentNoMatch
	ErrMenuNotFound         = repository.ErrMenuNotFound
	ErrSubscriptionNotFound = repository.ErrSubscriptionNotFound
	ErrPaymentNotFound      = repository.ErrPaymentNotFound
	ErrNotificationNotFound = repository.ErrNotificationNotFound
	ErrAttendanceExists     = repository.ErrAttendanceExists
)

// Business rule violations raised by this layer.
var (
	ErrWrongPassword            = errors.New("wrong password")
	ErrSuperAdminExists         = errors.New("a super admin already exists")
	ErrSchoolHasAdmin           = errors.New("school already has an admin")
	ErrInvalidManagerEmail      = errors.New("canteen manager email must be a gmail.com address")
	ErrNoTemporaryPassword      = errors.New("user has no temporary password to change")
	ErrMenuAccessDenied         = errors.New("menu access denied")
	ErrMenuNotPending           = errors.New("menu is not pending approval")
	ErrRejectionReasonRequired  = errors.New("a reason is required to reject a menu")
	ErrInvalidMealType          = errors.New("invalid meal type")
	ErrInvalidPaymentMethod     = errors.New("invalid payment method")
	ErrInvalidPaymentStatus     = errors.New("invalid payment status")
	ErrWrongVerificationCode    = errors.New("wrong verification code")
	ErrNotParentOfStudent       = errors.New("student does not belong to this parent")
	ErrStudentAlreadyClaimed    = errors.New("student is already claimed by a parent")
	ErrSubscriptionHasPayments  = errors.New("subscription has payments and cannot be deleted")
	ErrInvalidSubscriptionState = errors.New("invalid subscription status")
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrSchoolNotFound) ||
		errors.Is(err, ErrStudentNotFound) ||
		errors.Is(err, ErrMenuNotFound) ||
		errors.Is(err, ErrSubscriptionNotFound) ||
		errors.Is(err, ErrPaymentNotFound) ||
		errors.Is(err, ErrNotificationNotFound) ||
		errors.Is(err, ErrStudentNoMatch)
}
