package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/repository"
)

type MenuRepository interface {
	Create(ctx context.Context, menu domain.Menu) (domain.Menu, error)
	UpsertForDay(ctx context.Context, menu domain.Menu) (domain.Menu, error)
	FindByID(ctx context.Context, id uint) (domain.Menu, error)
	Find(ctx context.Context, schoolIDs []uint, date *time.Time, mealType, status string) ([]domain.Menu, error)
	Update(ctx context.Context, menu domain.Menu) (domain.Menu, error)
	UpdateContentByAnnualKey(ctx context.Context, key string, update repository.MenuContentUpdate) error
	Delete(ctx context.Context, id uint) error
	DeleteByAnnualKey(ctx context.Context, key string) error
}

type MenuSchoolRepository interface {
	FindByID(ctx context.Context, id uint) (domain.School, error)
}

type MenuNotificationRepository interface {
	Create(ctx context.Context, notification domain.Notification) (domain.Notification, error)
}

// MenuAccessChecker is the write-side authorization gate, re-checked against
// the specific menu's school before any fan-out.
type MenuAccessChecker interface {
	CanWriteMenu(ctx context.Context, menu domain.Menu, principal domain.User) bool
}

// MenuUpdate is the content carried across a menu update; it fans out to
// annual siblings and never includes the date.
type MenuUpdate struct {
	Description *string
	Items       []string
	Allergens   []string
	MealType    *string
}

type MenuService struct {
	repo             MenuRepository
	schoolRepo       MenuSchoolRepository
	notificationRepo MenuNotificationRepository
	access           MenuAccessChecker
}

func NewMenuService(repo MenuRepository, schoolRepo MenuSchoolRepository, notificationRepo MenuNotificationRepository, access MenuAccessChecker) *MenuService {
	return &MenuService{
		repo:             repo,
		schoolRepo:       schoolRepo,
		notificationRepo: notificationRepo,
		access:           access,
	}
}

// CreateMenu creates a single, non-recurring menu awaiting approval.
func (s *MenuService) CreateMenu(ctx context.Context, menu domain.Menu, creator domain.User) (domain.Menu, error) {
	if _, err := s.schoolRepo.FindByID(ctx, menu.SchoolID); err != nil {
		if errors.Is(err, repository.ErrSchoolNotFound) {
			return domain.Menu{}, ErrSchoolNotFound
		}

		return domain.Menu{}, fmt.Errorf("s.schoolRepo.FindByID -> %w", err)
	}

	if !s.access.CanWriteMenu(ctx, menu, creator) {
		return domain.Menu{}, ErrMenuAccessDenied
	}

	menu.Status = domain.MenuStatusPending
	menu.CreatedBy = creator.ID
	menu.ApprovedBy = nil
	menu.AnnualKey = nil
	menu.IsAnnual = false

	created, err := s.repo.Create(ctx, menu)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// CreateAnnualMenu upserts one menu per weekday occurrence from the requested
// date through December 31 of that year, all sharing one annual key. Every
// entry is auto-approved: canteen managers publish live menus without review.
// Returns the entry for the originally requested date.
func (s *MenuService) CreateAnnualMenu(ctx context.Context, menu domain.Menu, creator domain.User) (domain.Menu, error) {
	if _, err := s.schoolRepo.FindByID(ctx, menu.SchoolID); err != nil {
		if errors.Is(err, repository.ErrSchoolNotFound) {
			return domain.Menu{}, ErrSchoolNotFound
		}

		return domain.Menu{}, fmt.Errorf("s.schoolRepo.FindByID -> %w", err)
	}

	if !s.access.CanWriteMenu(ctx, menu, creator) {
		return domain.Menu{}, ErrMenuAccessDenied
	}

	key := uuid.NewString()
	approver := creator.ID

	menu.Status = domain.MenuStatusApproved
	menu.CreatedBy = creator.ID
	menu.ApprovedBy = &approver
	menu.AnnualKey = &key
	menu.IsAnnual = true

	var first domain.Menu
	for i, date := range annualDates(menu.Date) {
		entry := menu
		entry.Date = date

		upserted, err := s.repo.UpsertForDay(ctx, entry)
		if err != nil {
			return domain.Menu{}, fmt.Errorf("s.repo.UpsertForDay -> %w", err)
		}
		if i == 0 {
			first = upserted
		}
	}

	return first, nil
}

// annualDates expands a start date into every same-weekday date through
// December 31 of the start date's year, inclusive, at a 7-day stride.
func annualDates(start time.Time) []time.Time {
	yearEnd := time.Date(start.Year(), time.December, 31, 23, 59, 59, 0, start.Location())

	var dates []time.Time
	for d := start; !d.After(yearEnd); d = d.AddDate(0, 0, 7) {
		dates = append(dates, d)
	}

	return dates
}

// GetMenu enforces the parent visibility rule: parents never see non-approved
// menus, and the refusal is a 403 rather than a 404.
func (s *MenuService) GetMenu(ctx context.Context, id uint, principal domain.User, scope domain.Scope) (domain.Menu, error) {
	menu, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !scope.Contains(menu.SchoolID) {
		return domain.Menu{}, ErrMenuAccessDenied
	}
	if principal.Role == domain.RoleParent && menu.Status != domain.MenuStatusApproved {
		return domain.Menu{}, ErrMenuAccessDenied
	}

	return menu, nil
}

func (s *MenuService) ListMenus(ctx context.Context, principal domain.User, scope domain.Scope, date *time.Time, mealType, status string) ([]domain.Menu, error) {
	if scope.IsEmpty() {
		return []domain.Menu{}, nil
	}

	if principal.Role == domain.RoleParent {
		status = domain.MenuStatusApproved
	}

	var schoolIDs []uint
	if !scope.All {
		schoolIDs = scope.SchoolIDs
	}

	menus, err := s.repo.Find(ctx, schoolIDs, date, mealType, status)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Find -> %w", err)
	}

	return menus, nil
}

// UpdateMenu edits a menu's content. When the menu belongs to an annual
// group, the change fans out to every sibling sharing its key.
func (s *MenuService) UpdateMenu(ctx context.Context, id uint, update MenuUpdate, principal domain.User) (domain.Menu, error) {
	menu, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !s.access.CanWriteMenu(ctx, menu, principal) {
		return domain.Menu{}, ErrMenuAccessDenied
	}

	if menu.AnnualKey != nil {
		err = s.repo.UpdateContentByAnnualKey(ctx, *menu.AnnualKey, repository.MenuContentUpdate{
			Description: update.Description,
			Items:       update.Items,
			Allergens:   update.Allergens,
			MealType:    update.MealType,
		})
		if err != nil {
			return domain.Menu{}, fmt.Errorf("s.repo.UpdateContentByAnnualKey -> %w", err)
		}

		refreshed, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return domain.Menu{}, fmt.Errorf("s.repo.FindByID -> %w", err)
		}

		return refreshed, nil
	}

	if update.Description != nil {
		menu.Description = *update.Description
	}
	if update.Items != nil {
		menu.Items = update.Items
	}
	if update.Allergens != nil {
		menu.Allergens = update.Allergens
	}
	if update.MealType != nil {
		menu.MealType = *update.MealType
	}

	updated, err := s.repo.Update(ctx, menu)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// DeleteMenu removes the menu, and with it every annual sibling.
func (s *MenuService) DeleteMenu(ctx context.Context, id uint, principal domain.User) error {
	menu, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !s.access.CanWriteMenu(ctx, menu, principal) {
		return ErrMenuAccessDenied
	}

	if menu.AnnualKey != nil {
		if err = s.repo.DeleteByAnnualKey(ctx, *menu.AnnualKey); err != nil {
			return fmt.Errorf("s.repo.DeleteByAnnualKey -> %w", err)
		}

		return nil
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// ApproveMenu settles a pending menu. Rejection requires a reason. Exactly
// one notification goes to the menu's creator.
func (s *MenuService) ApproveMenu(ctx context.Context, id uint, approved bool, reason string, approver domain.User) (domain.Menu, error) {
	menu, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !s.access.CanWriteMenu(ctx, menu, approver) {
		return domain.Menu{}, ErrMenuAccessDenied
	}
	if menu.Status != domain.MenuStatusPending {
		return domain.Menu{}, ErrMenuNotPending
	}
	if !approved && reason == "" {
		return domain.Menu{}, ErrRejectionReasonRequired
	}

	approverID := approver.ID
	menu.ApprovedBy = &approverID
	if approved {
		menu.Status = domain.MenuStatusApproved
		menu.RejectionReason = ""
	} else {
		menu.Status = domain.MenuStatusRejected
		menu.RejectionReason = reason
	}

	if menu.AnnualKey != nil {
		err = s.repo.UpdateContentByAnnualKey(ctx, *menu.AnnualKey, repository.MenuContentUpdate{
			Status:          &menu.Status,
			ApprovedBy:      &approverID,
			RejectionReason: &menu.RejectionReason,
		})
		if err != nil {
			return domain.Menu{}, fmt.Errorf("s.repo.UpdateContentByAnnualKey -> %w", err)
		}

		menu, err = s.repo.FindByID(ctx, id)
		if err != nil {
			return domain.Menu{}, fmt.Errorf("s.repo.FindByID -> %w", err)
		}
	} else {
		menu, err = s.repo.Update(ctx, menu)
		if err != nil {
			return domain.Menu{}, fmt.Errorf("s.repo.Update -> %w", err)
		}
	}

	title := "Menu approved"
	message := fmt.Sprintf("Your %v menu for %v has been approved.", menu.MealType, menu.Date.Format("2006-01-02"))
	if !approved {
		title = "Menu rejected"
		message = fmt.Sprintf("Your %v menu for %v has been rejected: %v", menu.MealType, menu.Date.Format("2006-01-02"), reason)
	}

	menuID := menu.ID
	_, err = s.notificationRepo.Create(ctx, domain.Notification{
		UserID:  menu.CreatedBy,
		Title:   title,
		Message: message,
		Type:    domain.NotificationTypeMenuApproval,
		MenuID:  &menuID,
	})
	if err != nil {
		return domain.Menu{}, fmt.Errorf("s.notificationRepo.Create -> %w", err)
	}

	return menu, nil
}
