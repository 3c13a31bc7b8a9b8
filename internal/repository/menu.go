package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/repository/dao"
)

var ErrMenuNotFound = dao.ErrMenuNotFound

// MenuContentUpdate is the fan-out payload for annual siblings; date never
// appears here.
type MenuContentUpdate struct {
	Description     *string
	Items           []string
	Allergens       []string
	MealType        *string
	Status          *string
	ApprovedBy      *uint
	RejectionReason *string
}

type MenuDAO interface {
	Insert(ctx context.Context, menu dao.Menu) (dao.Menu, error)
	UpsertForDay(ctx context.Context, menu dao.Menu) (dao.Menu, error)
	FindByID(ctx context.Context, id uint) (dao.Menu, error)
	Find(ctx context.Context, filter dao.MenuFilter) ([]dao.Menu, error)
	FindByAnnualKey(ctx context.Context, key string) ([]dao.Menu, error)
	Update(ctx context.Context, menu dao.Menu) (dao.Menu, error)
	UpdateContentByAnnualKey(ctx context.Context, key string, update dao.MenuContentUpdate) error
	Delete(ctx context.Context, id uint) error
	DeleteByAnnualKey(ctx context.Context, key string) error
}

type MenuRepository struct {
	dao MenuDAO
}

func NewMenuRepository(dao MenuDAO) *MenuRepository {
	return &MenuRepository{
		dao: dao,
	}
}

func (r *MenuRepository) Create(ctx context.Context, menu domain.Menu) (domain.Menu, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(menu))
	if err != nil {
		return domain.Menu{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *MenuRepository) UpsertForDay(ctx context.Context, menu domain.Menu) (domain.Menu, error) {
	upserted, err := r.dao.UpsertForDay(ctx, r.domainToDAO(menu))
	if err != nil {
		return domain.Menu{}, fmt.Errorf("r.dao.UpsertForDay -> %w", err)
	}

	return r.daoToDomain(upserted), nil
}

func (r *MenuRepository) FindByID(ctx context.Context, id uint) (domain.Menu, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *MenuRepository) Find(ctx context.Context, schoolIDs []uint, date *time.Time, mealType, status string) ([]domain.Menu, error) {
	found, err := r.dao.Find(ctx, dao.MenuFilter{
		SchoolIDs: schoolIDs,
		Date:      date,
		MealType:  mealType,
		Status:    status,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.Find -> %w", err)
	}

	menus := make([]domain.Menu, 0, len(found))
	for _, m := range found {
		menus = append(menus, r.daoToDomain(m))
	}

	return menus, nil
}

func (r *MenuRepository) FindByAnnualKey(ctx context.Context, key string) ([]domain.Menu, error) {
	found, err := r.dao.FindByAnnualKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByAnnualKey -> %w", err)
	}

	menus := make([]domain.Menu, 0, len(found))
	for _, m := range found {
		menus = append(menus, r.daoToDomain(m))
	}

	return menus, nil
}

func (r *MenuRepository) Update(ctx context.Context, menu domain.Menu) (domain.Menu, error) {
	toUpdate := r.domainToDAO(menu)
	toUpdate.ID = menu.ID
	toUpdate.CreatedAt = menu.CreatedAt

	updated, err := r.dao.Update(ctx, toUpdate)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *MenuRepository) UpdateContentByAnnualKey(ctx context.Context, key string, update MenuContentUpdate) error {
	err := r.dao.UpdateContentByAnnualKey(ctx, key, dao.MenuContentUpdate{
		Description:     update.Description,
		Items:           update.Items,
		Allergens:       update.Allergens,
		MealType:        update.MealType,
		Status:          update.Status,
		ApprovedBy:      update.ApprovedBy,
		RejectionReason: update.RejectionReason,
	})
	if err != nil {
		return fmt.Errorf("r.dao.UpdateContentByAnnualKey -> %w", err)
	}

	return nil
}

func (r *MenuRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *MenuRepository) DeleteByAnnualKey(ctx context.Context, key string) error {
	if err := r.dao.DeleteByAnnualKey(ctx, key); err != nil {
		return fmt.Errorf("r.dao.DeleteByAnnualKey -> %w", err)
	}

	return nil
}

func (r *MenuRepository) daoToDomain(m dao.Menu) domain.Menu {
	return domain.Menu{
		ID:              m.ID,
		SchoolID:        m.SchoolID,
		Date:            m.Date,
		MealType:        m.MealType,
		Description:     m.Description,
		Items:           m.Items,
		Allergens:       m.Allergens,
		Status:          m.Status,
		CreatedBy:       m.CreatedBy,
		ApprovedBy:      m.ApprovedBy,
		RejectionReason: m.RejectionReason,
		AnnualKey:       m.AnnualKey,
		IsAnnual:        m.IsAnnual,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func (r *MenuRepository) domainToDAO(m domain.Menu) dao.Menu {
	return dao.Menu{
		SchoolID:        m.SchoolID,
		Date:            m.Date,
		MealType:        m.MealType,
		Description:     m.Description,
		Items:           m.Items,
		Allergens:       m.Allergens,
		Status:          m.Status,
		CreatedBy:       m.CreatedBy,
		ApprovedBy:      m.ApprovedBy,
		RejectionReason: m.RejectionReason,
		AnnualKey:       m.AnnualKey,
		IsAnnual:        m.IsAnnual,
	}
}
