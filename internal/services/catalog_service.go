package services

import (
	"context"

	"vibecommerce/internal/domain"
	"vibecommerce/internal/repos"
	"vibecommerce/internal/validate"
)

type CatalogService struct {
	Products *repos.ProductRepo
}

func NewCatalogService(products *repos.ProductRepo) *CatalogService {
	return &CatalogService{Products: products}
}

type Filter struct {
	Query    string `validate:"omitempty,max=50"`
	Category string `validate:"omitempty,max=50"`
	Sort     string `validate:"omitempty,oneof=price_asc price_desc name"`
}

func (s *CatalogService) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	if err := validate.Struct(f, "Invalid product filter"); err != nil {
		return nil, err
	}
	if f.Query != "" {
		q, ok := validate.Q(f.Query)
		if !ok {
			return nil, domain.Validation("Invalid search query")
		}
		f.Query = q
	}
	out, err := s.Products.List(ctx, repos.ProductFilter{Query: f.Query, Category: f.Category, Sort: f.Sort})
	if err != nil {
		return nil, domain.Wrap(err, "Failed to fetch products")
	}
	return out, nil
}

// Get treats malformed ids as unknown.
func (s *CatalogService) Get(ctx context.Context, id string) (domain.Product, error) {
	id, ok := validate.ID(id)
	if !ok {
		return domain.Product{}, domain.NotFound("Product not found")
	}
	p, err := s.Products.Get(ctx, id)
	if err != nil {
		return domain.Product{}, domain.Wrap(err, "Failed to fetch product")
	}
	return p, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	out, err := s.Products.Categories(ctx)
	if err != nil {
		return nil, domain.Wrap(err, "Failed to fetch categories")
	}
	return out, nil
}
