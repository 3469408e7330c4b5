package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kultmet/grocery-store/internal/models"
	"github.com/kultmet/grocery-store/internal/repo"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

const (
	MinQuantity = 1
	MaxQuantity = 10000
)

type Operation int

const (
	OpCreate Operation = iota
	OpUpdate
	OpDelete
)

func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

type CartService struct {
	Repo *repo.GormRepo
}

// Mutate is the single entry point for cart writes. The operation is passed
// explicitly so the rules stay independent of any transport detail.
func (s *CartService) Mutate(ctx context.Context, buyerID uuid.UUID, slug string, quantity uint, op Operation) (*models.CartEntry, error) {
	if buyerID == uuid.Nil {
		return nil, fmt.Errorf("buyer id must not be nil: %w", ErrValidation)
	}
	if slug == "" {
		return nil, fmt.Errorf("product slug is required: %w", ErrValidation)
	}
	if op == OpCreate || op == OpUpdate {
		if quantity < MinQuantity || quantity > MaxQuantity {
			return nil, fmt.Errorf("quantity must be in [%d, %d]: %w", MinQuantity, MaxQuantity, ErrValidation)
		}
	}

	product, err := s.Repo.ProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %q: %w", slug, ErrNotFound)
		}
		return nil, err
	}

	switch op {
	case OpCreate:
		entry := &models.CartEntry{
			BuyerID:   buyerID,
			ProductID: product.ID,
			Quantity:  quantity,
		}
		if err := s.Repo.CreateEntry(ctx, entry); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, fmt.Errorf("%s is already in the cart: %w", product.Name, ErrConflict)
			}
			return nil, err
		}
		return entry, nil
	case OpUpdate:
		entry, err := s.Repo.UpdateQuantity(ctx, buyerID, product.ID, quantity)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("cart entry for %q: %w", slug, ErrNotFound)
			}
			return nil, err
		}
		return entry, nil
	case OpDelete:
		deleted, err := s.Repo.DeleteEntry(ctx, buyerID, product.ID)
		if err != nil {
			return nil, err
		}
		if !deleted {
			return nil, fmt.Errorf("cart entry for %q: %w", slug, ErrNotFound)
		}
		return nil, nil
	}
	return nil, fmt.Errorf("unknown operation %d: %w", op, ErrValidation)
}

func (s *CartService) CreateEntry(ctx context.Context, buyerID uuid.UUID, slug string, quantity uint) (*models.CartEntry, error) {
	return s.Mutate(ctx, buyerID, slug, quantity, OpCreate)
}

func (s *CartService) UpdateEntry(ctx context.Context, buyerID uuid.UUID, slug string, quantity uint) (*models.CartEntry, error) {
	return s.Mutate(ctx, buyerID, slug, quantity, OpUpdate)
}

func (s *CartService) DeleteEntry(ctx context.Context, buyerID uuid.UUID, slug string) error {
	_, err := s.Mutate(ctx, buyerID, slug, 0, OpDelete)
	return err
}
