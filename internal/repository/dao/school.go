package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrSchoolNotFound = errors.New("school not found")

type School struct {
	ID uint `gorm:"primaryKey"`

	Name    string `gorm:"not null"`
	Address string `gorm:"not null"`
	City    string `gorm:"not null"`

	// At most one admin per school at a time. Mutual with User.SchoolID.
	AdminID *uint `gorm:"index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type SchoolDAO struct {
	db *gorm.DB
}

func NewSchoolDAO(db *gorm.DB) *SchoolDAO {
	return &SchoolDAO{
		db: db,
	}
}

func (d *SchoolDAO) Insert(ctx context.Context, school School) (School, error) {
	result := d.db.WithContext(ctx).Create(&school)
	if result.Error != nil {
		return School{}, result.Error
	}

	return school, nil
}

func (d *SchoolDAO) FindByID(ctx context.Context, id uint) (School, error) {
	var school School

	result := d.db.WithContext(ctx).First(&school, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return School{}, ErrSchoolNotFound
		}

		return School{}, result.Error
	}

	return school, nil
}

func (d *SchoolDAO) FindByIDs(ctx context.Context, ids []uint) ([]School, error) {
	var schools []School

	result := d.db.WithContext(ctx).Where("id IN ?", ids).Order("name asc").Find(&schools)
	if result.Error != nil {
		return nil, result.Error
	}

	return schools, nil
}

func (d *SchoolDAO) FindAll(ctx context.Context) ([]School, error) {
	var schools []School

	result := d.db.WithContext(ctx).Order("name asc").Find(&schools)
	if result.Error != nil {
		return nil, result.Error
	}

	return schools, nil
}

func (d *SchoolDAO) FindByAdminID(ctx context.Context, adminID uint) (School, error) {
	var school School

	result := d.db.WithContext(ctx).First(&school, "admin_id = ?", adminID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return School{}, ErrSchoolNotFound
		}

		return School{}, result.Error
	}

	return school, nil
}

func (d *SchoolDAO) Update(ctx context.Context, school School) (School, error) {
	result := d.db.WithContext(ctx).Save(&school)
	if result.Error != nil {
		return School{}, result.Error
	}

	return school, nil
}

func (d *SchoolDAO) SetAdmin(ctx context.Context, schoolID, adminID uint) error {
	result := d.db.WithContext(ctx).Model(&School{}).Where("id = ?", schoolID).Update("admin_id", adminID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSchoolNotFound
	}

	return nil
}

func (d *SchoolDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&School{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSchoolNotFound
	}

	return nil
}
