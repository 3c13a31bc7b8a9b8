package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type Subscription struct {
	ID uint `gorm:"primaryKey"`

	StudentID uint      `gorm:"not null;index"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	MealPlan  string    `gorm:"not null"`
	Price     float64   `gorm:"not null"`

	// Derived from the payment flow, except through the manual override.
	Status string `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type SubscriptionFilter struct {
	StudentIDs []uint
	Status     string
}

type SubscriptionDAO struct {
	db *gorm.DB
}

func NewSubscriptionDAO(db *gorm.DB) *SubscriptionDAO {
	return &SubscriptionDAO{
		db: db,
	}
}

func (d *SubscriptionDAO) Insert(ctx context.Context, sub Subscription) (Subscription, error) {
	result := d.db.WithContext(ctx).Create(&sub)
	if result.Error != nil {
		return Subscription{}, result.Error
	}

	return sub, nil
}

func (d *SubscriptionDAO) FindByID(ctx context.Context, id uint) (Subscription, error) {
	var sub Subscription

	result := d.db.WithContext(ctx).First(&sub, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Subscription{}, ErrSubscriptionNotFound
		}

		return Subscription{}, result.Error
	}

	return sub, nil
}

func (d *SubscriptionDAO) Find(ctx context.Context, filter SubscriptionFilter) ([]Subscription, error) {
	query := d.db.WithContext(ctx).Model(&Subscription{})

	if len(filter.StudentIDs) > 0 {
		query = query.Where("student_id IN ?", filter.StudentIDs)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var subs []Subscription
	result := query.Order("end_date desc").Find(&subs)
	if result.Error != nil {
		return nil, result.Error
	}

	return subs, nil
}

// FindLatestByStudent returns the most relevant subscription for notification
// parent resolution: latest end date, then latest update, then latest creation.
func (d *SubscriptionDAO) FindLatestByStudent(ctx context.Context, studentID uint) (Subscription, error) {
	var sub Subscription

	result := d.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("end_date desc, updated_at desc, created_at desc").
		First(&sub)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Subscription{}, ErrSubscriptionNotFound
		}

		return Subscription{}, result.Error
	}

	return sub, nil
}

func (d *SubscriptionDAO) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := d.db.WithContext(ctx).Model(&Subscription{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

func (d *SubscriptionDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Subscription{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

func (d *SubscriptionDAO) FindIDsByStudents(ctx context.Context, studentIDs []uint) ([]uint, error) {
	var ids []uint

	result := d.db.WithContext(ctx).Model(&Subscription{}).
		Where("student_id IN ?", studentIDs).
		Pluck("id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

func (d *SubscriptionDAO) CountActive(ctx context.Context, studentIDs []uint) (int64, error) {
	query := d.db.WithContext(ctx).Model(&Subscription{}).Where("status = ?", "ACTIVE")
	if studentIDs != nil {
		query = query.Where("student_id IN ?", studentIDs)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
