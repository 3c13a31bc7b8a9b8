package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/pkg/credgen"
	"github.com/dabali-bf/canteen-api/internal/repository"
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
}

type AuthSchoolRepository interface {
	FindByID(ctx context.Context, id uint) (domain.School, error)
	FindByAdminID(ctx context.Context, adminID uint) (domain.School, error)
	SetAdmin(ctx context.Context, schoolID, adminID uint) error
}

type AuthService struct {
	repo       AuthUserRepository
	schoolRepo AuthSchoolRepository
	creds      credgen.Generator
}

func NewAuthService(repo AuthUserRepository, schoolRepo AuthSchoolRepository, creds credgen.Generator) *AuthService {
	return &AuthService{
		repo:       repo,
		schoolRepo: schoolRepo,
		creds:      creds,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}

// Register creates a self-service account. Only one SUPER_ADMIN may ever
// exist; a second registration is refused no matter who asks.
func (s *AuthService) Register(ctx context.Context, user domain.User) (domain.User, error) {
	if user.Role == domain.RoleSuperAdmin {
		count, err := s.repo.CountByRole(ctx, domain.RoleSuperAdmin)
		if err != nil {
			return domain.User{}, fmt.Errorf("s.repo.CountByRole -> %w", err)
		}
		if count > 0 {
			return domain.User{}, ErrSuperAdminExists
		}
	}

	if err := s.checkEmailExists(ctx, user.Email); err != nil {
		return domain.User{}, err
	}

	hashed, err := hashPassword(user.Password)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = hashed

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// SchoolAdminRegistration is returned once; the temporary password is never
// retrievable again.
type SchoolAdminRegistration struct {
	User              domain.User `json:"user"`
	TemporaryPassword string      `json:"temporary_password"`
}

func (s *AuthService) RegisterSchoolAdmin(ctx context.Context, firstName, lastName, phone string, schoolID uint) (SchoolAdminRegistration, error) {
	school, err := s.schoolRepo.FindByID(ctx, schoolID)
	if err != nil {
		if errors.Is(err, repository.ErrSchoolNotFound) {
			return SchoolAdminRegistration{}, ErrSchoolNotFound
		}

		return SchoolAdminRegistration{}, fmt.Errorf("s.schoolRepo.FindByID -> %w", err)
	}
	if school.AdminID != nil {
		return SchoolAdminRegistration{}, ErrSchoolHasAdmin
	}

	email := s.creds.AdminEmail(firstName, lastName, school.Name)
	if err = s.checkEmailExists(ctx, email); err != nil {
		return SchoolAdminRegistration{}, err
	}

	tempPassword, err := s.creds.TemporaryPassword()
	if err != nil {
		return SchoolAdminRegistration{}, fmt.Errorf("s.creds.TemporaryPassword -> %w", err)
	}

	hashed, err := hashPassword(tempPassword)
	if err != nil {
		return SchoolAdminRegistration{}, err
	}

	created, err := s.repo.Create(ctx, domain.User{
		Email:               email,
		Password:            hashed,
		FirstName:           firstName,
		LastName:            lastName,
		Phone:               phone,
		Role:                domain.RoleSchoolAdmin,
		SchoolID:            &school.ID,
		IsTemporaryPassword: true,
	})
	if err != nil {
		return SchoolAdminRegistration{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if err = s.schoolRepo.SetAdmin(ctx, school.ID, created.ID); err != nil {
		return SchoolAdminRegistration{}, fmt.Errorf("s.schoolRepo.SetAdmin -> %w", err)
	}

	return SchoolAdminRegistration{
		User:              created,
		TemporaryPassword: tempPassword,
	}, nil
}

func (s *AuthService) RegisterCanteenManager(ctx context.Context, principal domain.User, firstName, lastName, email string) (SchoolAdminRegistration, error) {
	if !strings.HasSuffix(strings.ToLower(email), "@gmail.com") {
		return SchoolAdminRegistration{}, ErrInvalidManagerEmail
	}

	school, err := s.schoolRepo.FindByAdminID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSchoolNotFound) {
			return SchoolAdminRegistration{}, ErrSchoolNotFound
		}

		return SchoolAdminRegistration{}, fmt.Errorf("s.schoolRepo.FindByAdminID -> %w", err)
	}

	if err = s.checkEmailExists(ctx, email); err != nil {
		return SchoolAdminRegistration{}, err
	}

	tempPassword, err := s.creds.TemporaryPassword()
	if err != nil {
		return SchoolAdminRegistration{}, fmt.Errorf("s.creds.TemporaryPassword -> %w", err)
	}

	hashed, err := hashPassword(tempPassword)
	if err != nil {
		return SchoolAdminRegistration{}, err
	}

	created, err := s.repo.Create(ctx, domain.User{
		Email:               email,
		Password:            hashed,
		FirstName:           firstName,
		LastName:            lastName,
		Role:                domain.RoleCanteenManager,
		SchoolID:            &school.ID,
		IsTemporaryPassword: true,
	})
	if err != nil {
		return SchoolAdminRegistration{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return SchoolAdminRegistration{
		User:              created,
		TemporaryPassword: tempPassword,
	}, nil
}

func (s *AuthService) ChangeTemporaryPassword(ctx context.Context, userID uint, newPassword string) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !user.IsTemporaryPassword {
		return domain.User{}, ErrNoTemporaryPassword
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now()
	user.Password = hashed
	user.IsTemporaryPassword = false
	user.PasswordChangedAt = &now

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// UpdateCredentials lets an authenticated user rotate their own email and/or
// password after proving the current one.
func (s *AuthService) UpdateCredentials(ctx context.Context, userID uint, currentPassword, newEmail, newPassword string) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	if newEmail != "" && newEmail != user.Email {
		if err = s.checkEmailExists(ctx, newEmail); err != nil {
			return domain.User{}, err
		}
		user.Email = newEmail
	}

	if newPassword != "" {
		hashed, err := hashPassword(newPassword)
		if err != nil {
			return domain.User{}, err
		}

		now := time.Now()
		user.Password = hashed
		user.IsTemporaryPassword = false
		user.PasswordChangedAt = &now
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func (s *AuthService) checkEmailExists(ctx context.Context, email string) error {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return ErrUserEmailExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	return nil
}
