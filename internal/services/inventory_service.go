package services

import (
	"context"

	"vibecommerce/internal/domain"
)

// LowStockThreshold is the largest stock level still reported as LOW_STOCK.
const LowStockThreshold = 10

type InventoryService struct {
	Catalog *CatalogService
}

func NewInventoryService(catalog *CatalogService) *InventoryService {
	return &InventoryService{Catalog: catalog}
}

// CheckAvailability converts stock into IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
// It is display-only; nothing ever decrements stock.
func (s *InventoryService) CheckAvailability(ctx context.Context, productID string) (domain.Availability, error) {
	p, err := s.Catalog.Get(ctx, productID)
	if err != nil {
		return domain.Availability{}, err
	}
	return Availability(p.Stock), nil
}

func Availability(qty int) domain.Availability {
	status := "OUT_OF_STOCK"
	switch {
	case qty > LowStockThreshold:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	if qty < 0 {
		qty = 0
	}
	return domain.Availability{Status: status, Qty: qty}
}
