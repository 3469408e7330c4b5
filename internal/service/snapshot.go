package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  uint            `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartSnapshot struct {
	Lines         []CartLine      `json:"products"`
	TotalQuantity uint            `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// Snapshot joins the buyer's entries to current catalog prices. The totals of
// an empty cart are concrete zeros, not absent values.
func (s *CartService) Snapshot(ctx context.Context, buyerID uuid.UUID) (*CartSnapshot, error) {
	entries, err := s.Repo.ListEntries(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ProductID)
	}
	products, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	snapshot := &CartSnapshot{
		Lines:      make([]CartLine, 0, len(entries)),
		TotalPrice: decimal.Zero,
	}
	for _, entry := range entries {
		product, ok := products[entry.ProductID]
		if !ok {
			// product removed from the catalog after it was added
			continue
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(entry.Quantity)))
		snapshot.Lines = append(snapshot.Lines, CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			Slug:      product.Slug,
			UnitPrice: product.Price,
			Quantity:  entry.Quantity,
			LineTotal: lineTotal,
		})
		snapshot.TotalQuantity += entry.Quantity
		snapshot.TotalPrice = snapshot.TotalPrice.Add(lineTotal)
	}
	return snapshot, nil
}

func (s *CartService) Clear(ctx context.Context, buyerID uuid.UUID) (int64, error) {
	return s.Repo.DeleteAll(ctx, buyerID)
}
