package usecase

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

const (
	defaultLatestLimit = 6
	maxListLimit       = 50
)

type CatalogUseCase interface {
	ListProducts(ctx context.Context, params CatalogParams) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	LatestProducts(ctx context.Context, limit int) ([]domain.Product, error)
	FeaturedProducts(ctx context.Context) ([]domain.Product, error)
	RelatedProducts(ctx context.Context, productID string, limit int) ([]domain.Product, error)
}

type catalogUseCase struct {
	productRepo  domain.ProductRepository
	relatedLimit int
	log          *logrus.Logger
}

func NewCatalogUseCase(repo domain.ProductRepository, relatedLimit int, logger *logrus.Logger) CatalogUseCase {
	return &catalogUseCase{
		productRepo:  repo,
		relatedLimit: relatedLimit,
		log:          logger,
	}
}

func (uc *catalogUseCase) ListProducts(ctx context.Context, params CatalogParams) ([]domain.Product, error) {
	query := BuildProductQuery(params)
	uc.log.Debugf("Use Case: Listing products (search=%q, category=%q, sort=%s)", query.Search, query.Category, query.Sort)

	products, err := uc.productRepo.ListProducts(ctx, query)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list products: %v", err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	return products, nil
}

func (uc *catalogUseCase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError("id", "is required")
	}
	product, err := uc.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get product %s: %w", id, err)
	}
	return product, nil
}

func (uc *catalogUseCase) LatestProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = defaultLatestLimit
	}
	products, err := uc.productRepo.ListProducts(ctx, domain.ProductQuery{Sort: domain.SortNewest, Limit: limit})
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list latest products: %v", err)
		return nil, fmt.Errorf("could not list latest products: %w", err)
	}
	return products, nil
}

func (uc *catalogUseCase) FeaturedProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := uc.productRepo.ListProducts(ctx, domain.ProductQuery{FeaturedOnly: true, Sort: domain.SortNewest})
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list featured products: %v", err)
		return nil, fmt.Errorf("could not list featured products: %w", err)
	}
	return products, nil
}

func (uc *catalogUseCase) RelatedProducts(ctx context.Context, productID string, limit int) ([]domain.Product, error) {
	product, err := uc.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxListLimit {
		limit = uc.relatedLimit
	}
	return uc.selectRelated(ctx, product.ID, product.Category, limit)
}

// selectRelated fills from the product's own category first and pads with
// products from other categories. The product itself is never returned.
func (uc *catalogUseCase) selectRelated(ctx context.Context, productID, category string, limit int) ([]domain.Product, error) {
	var related []domain.Product

	if category != "" {
		sameCategory, err := uc.productRepo.ListProducts(ctx, domain.ProductQuery{
			Category:  category,
			ExcludeID: productID,
			Limit:     limit,
		})
		if err != nil {
			uc.log.Errorf("Use Case: Failed to load same-category products for %s: %v", productID, err)
			return nil, fmt.Errorf("could not load related products: %w", err)
		}
		related = sameCategory
	}

	remaining := limit - len(related)
	if remaining <= 0 {
		return related, nil
	}

	others, err := uc.productRepo.ListProducts(ctx, domain.ProductQuery{
		ExcludeID:       productID,
		ExcludeCategory: category,
		Limit:           remaining,
	})
	if err != nil {
		uc.log.Warnf("Use Case: Failed to pad related products for %s, returning %d same-category results: %v", productID, len(related), err)
		return related, nil
	}

	uc.log.Debugf("Use Case: Related products for %s: %d same-category, %d padded", productID, len(related), len(others))
	return append(related, others...), nil
}
