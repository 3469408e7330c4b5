package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kultmet/grocery-store/internal/models"
)

func (r *GormRepo) FindEntry(ctx context.Context, buyerID, productID uuid.UUID) (*models.CartEntry, error) {
	var entry models.CartEntry
	if err := r.DB.WithContext(ctx).Where("buyer_id = ? AND product_id = ?", buyerID, productID).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateEntry relies on idx_buyer_product: a concurrent insert for the same
// pair surfaces as gorm.ErrDuplicatedKey instead of a second row.
func (r *GormRepo) CreateEntry(ctx context.Context, entry *models.CartEntry) error {
	return r.DB.WithContext(ctx).Create(entry).Error
}

// UpdateQuantity overwrites the quantity in a single UPDATE; zero affected
// rows means the entry never existed.
func (r *GormRepo) UpdateQuantity(ctx context.Context, buyerID, productID uuid.UUID, quantity uint) (*models.CartEntry, error) {
	var entry models.CartEntry
	if err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartEntry{}).
			Where("buyer_id = ? AND product_id = ?", buyerID, productID).
			Update("quantity", quantity)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("buyer_id = ? AND product_id = ?", buyerID, productID).First(&entry).Error
	}); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *GormRepo) DeleteEntry(ctx context.Context, buyerID, productID uuid.UUID) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("buyer_id = ? AND product_id = ?", buyerID, productID).
		Delete(&models.CartEntry{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) ListEntries(ctx context.Context, buyerID uuid.UUID) ([]models.CartEntry, error) {
	var entries []models.CartEntry
	if err := r.DB.WithContext(ctx).Where("buyer_id = ?", buyerID).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *GormRepo) DeleteAll(ctx context.Context, buyerID uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).Where("buyer_id = ?", buyerID).Delete(&models.CartEntry{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
