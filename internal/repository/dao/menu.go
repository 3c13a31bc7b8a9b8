package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrMenuNotFound = errors.New("menu not found")

type Menu struct {
	ID uint `gorm:"primaryKey"`

	SchoolID uint      `gorm:"not null;index"`
	Date     time.Time `gorm:"not null;index"`

	// "BREAKFAST", "LUNCH" or "SNACK".
	MealType    string `gorm:"not null"`
	Description string
	Items       []string `gorm:"serializer:json"`
	Allergens   []string `gorm:"serializer:json"`

	// "PENDING", "APPROVED" or "REJECTED".
	Status          string `gorm:"not null;index"`
	CreatedBy       uint   `gorm:"not null"`
	ApprovedBy      *uint
	RejectionReason string

	// Shared by every weekly recurrence created from one authoring action.
	AnnualKey *string `gorm:"index"`
	IsAnnual  bool    `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type MenuFilter struct {
	SchoolIDs []uint
	Date      *time.Time
	MealType  string
	Status    string
}

// MenuContentUpdate carries the fields an update fans out across annual
// siblings. Date is deliberately absent.
type MenuContentUpdate struct {
	Description     *string
	Items           []string
	Allergens       []string
	MealType        *string
	Status          *string
	ApprovedBy      *uint
	RejectionReason *string
}

type MenuDAO struct {
	db *gorm.DB
}

func NewMenuDAO(db *gorm.DB) *MenuDAO {
	return &MenuDAO{
		db: db,
	}
}

func (d *MenuDAO) Insert(ctx context.Context, menu Menu) (Menu, error) {
	result := d.db.WithContext(ctx).Create(&menu)
	if result.Error != nil {
		return Menu{}, result.Error
	}

	return menu, nil
}

// UpsertForDay creates or fully replaces the menu for (school, meal type, day).
// The day-bounded filter makes annual creation idempotent per slot.
func (d *MenuDAO) UpsertForDay(ctx context.Context, menu Menu) (Menu, error) {
	dayStart := time.Date(menu.Date.Year(), menu.Date.Month(), menu.Date.Day(), 0, 0, 0, 0, menu.Date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var existing Menu
	err := d.db.WithContext(ctx).
		Where("school_id = ? AND meal_type = ? AND date >= ? AND date < ?",
			menu.SchoolID, menu.MealType, dayStart, dayEnd).
		First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return Menu{}, err
		}

		return d.Insert(ctx, menu)
	}

	menu.ID = existing.ID
	menu.CreatedAt = existing.CreatedAt
	if err = d.db.WithContext(ctx).Save(&menu).Error; err != nil {
		return Menu{}, err
	}

	return menu, nil
}

func (d *MenuDAO) FindByID(ctx context.Context, id uint) (Menu, error) {
	var menu Menu

	result := d.db.WithContext(ctx).First(&menu, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Menu{}, ErrMenuNotFound
		}

		return Menu{}, result.Error
	}

	return menu, nil
}

func (d *MenuDAO) Find(ctx context.Context, filter MenuFilter) ([]Menu, error) {
	query := d.db.WithContext(ctx).Model(&Menu{})

	if len(filter.SchoolIDs) > 0 {
		query = query.Where("school_id IN ?", filter.SchoolIDs)
	}
	if filter.Date != nil {
		dayStart := time.Date(filter.Date.Year(), filter.Date.Month(), filter.Date.Day(), 0, 0, 0, 0, filter.Date.Location())
		query = query.Where("date >= ? AND date < ?", dayStart, dayStart.AddDate(0, 0, 1))
	}
	if filter.MealType != "" {
		query = query.Where("meal_type = ?", filter.MealType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var menus []Menu
	result := query.Order("date desc, meal_type asc").Find(&menus)
	if result.Error != nil {
		return nil, result.Error
	}

	return menus, nil
}

func (d *MenuDAO) FindByAnnualKey(ctx context.Context, key string) ([]Menu, error) {
	var menus []Menu

	result := d.db.WithContext(ctx).Where("annual_key = ?", key).Order("date asc").Find(&menus)
	if result.Error != nil {
		return nil, result.Error
	}

	return menus, nil
}

func (d *MenuDAO) Update(ctx context.Context, menu Menu) (Menu, error) {
	result := d.db.WithContext(ctx).Save(&menu)
	if result.Error != nil {
		return Menu{}, result.Error
	}

	return menu, nil
}

// UpdateContentByAnnualKey applies one content update to every sibling
// sharing the key. Dates are never touched.
func (d *MenuDAO) UpdateContentByAnnualKey(ctx context.Context, key string, update MenuContentUpdate) error {
	values := map[string]interface{}{}
	if update.Description != nil {
		values["description"] = *update.Description
	}
	if update.Items != nil {
		values["items"] = update.Items
	}
	if update.Allergens != nil {
		values["allergens"] = update.Allergens
	}
	if update.MealType != nil {
		values["meal_type"] = *update.MealType
	}
	if update.Status != nil {
		values["status"] = *update.Status
	}
	if update.ApprovedBy != nil {
		values["approved_by"] = *update.ApprovedBy
	}
	if update.RejectionReason != nil {
		values["rejection_reason"] = *update.RejectionReason
	}
	if len(values) == 0 {
		return nil
	}

	return d.db.WithContext(ctx).Model(&Menu{}).Where("annual_key = ?", key).Updates(values).Error
}

func (d *MenuDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Menu{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMenuNotFound
	}

	return nil
}

func (d *MenuDAO) DeleteByAnnualKey(ctx context.Context, key string) error {
	return d.db.WithContext(ctx).Where("annual_key = ?", key).Delete(&Menu{}).Error
}
