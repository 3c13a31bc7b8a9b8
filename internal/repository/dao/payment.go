package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment not found")

type Payment struct {
	ID uint `gorm:"primaryKey"`

	SubscriptionID uint  `gorm:"not null;index"`
	ParentID       *uint `gorm:"index"`

	Amount float64 `gorm:"not null"`

	// "CASH", "ORANGE_MONEY" or "MOOV_MONEY".
	Method string `gorm:"not null"`

	// "WAITING_ADMIN_VALIDATION", "PENDING", "COMPLETED" or "FAILED".
	Status string `gorm:"not null;index"`

	// Non-cash only. Scoped per payment, not globally unique.
	VerificationCode *string
	PaidAt           *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type PaymentFilter struct {
	SubscriptionIDs []uint
	ParentID        *uint
	Status          string
}

type PaymentDAO struct {
	db *gorm.DB
}

func NewPaymentDAO(db *gorm.DB) *PaymentDAO {
	return &PaymentDAO{
		db: db,
	}
}

func (d *PaymentDAO) Insert(ctx context.Context, payment Payment) (Payment, error) {
	result := d.db.WithContext(ctx).Create(&payment)
	if result.Error != nil {
		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) FindByID(ctx context.Context, id uint) (Payment, error) {
	var payment Payment

	result := d.db.WithContext(ctx).First(&payment, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Payment{}, ErrPaymentNotFound
		}

		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) Find(ctx context.Context, filter PaymentFilter) ([]Payment, error) {
	query := d.db.WithContext(ctx).Model(&Payment{})

	if len(filter.SubscriptionIDs) > 0 {
		query = query.Where("subscription_id IN ?", filter.SubscriptionIDs)
	}
	if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var payments []Payment
	result := query.Order("created_at desc").Find(&payments)
	if result.Error != nil {
		return nil, result.Error
	}

	return payments, nil
}

func (d *PaymentDAO) Update(ctx context.Context, payment Payment) (Payment, error) {
	result := d.db.WithContext(ctx).Save(&payment)
	if result.Error != nil {
		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) CountBySubscription(ctx context.Context, subscriptionID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Payment{}).
		Where("subscription_id = ?", subscriptionID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// FindLatestPayerBySubscription returns the newest completed payment carrying a payer,
// used as the notification fallback when a student has no direct parent.
func (d *PaymentDAO) FindLatestPayerBySubscription(ctx context.Context, subscriptionID uint) (Payment, error) {
	var payment Payment

	result := d.db.WithContext(ctx).
		Where("subscription_id = ? AND status = ? AND parent_id IS NOT NULL", subscriptionID, "COMPLETED").
		Order("created_at desc").
		First(&payment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Payment{}, ErrPaymentNotFound
		}

		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) Count(ctx context.Context, subscriptionIDs []uint) (int64, error) {
	query := d.db.WithContext(ctx).Model(&Payment{})
	if subscriptionIDs != nil {
		query = query.Where("subscription_id IN ?", subscriptionIDs)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// SumCompletedBetween totals completed payment amounts inside [from, to).
func (d *PaymentDAO) SumCompletedBetween(ctx context.Context, subscriptionIDs []uint, from, to time.Time) (float64, error) {
	query := d.db.WithContext(ctx).Model(&Payment{}).
		Where("status = ? AND created_at >= ? AND created_at < ?", "COMPLETED", from, to)
	if subscriptionIDs != nil {
		query = query.Where("subscription_id IN ?", subscriptionIDs)
	}

	var total float64
	if err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}
