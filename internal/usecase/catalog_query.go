package usecase

import (
	"strings"

	"storefront/internal/domain"
)

// CatalogParams are the raw catalog filters from a listing request.
type CatalogParams struct {
	Search   string
	Category string
	Sort     string
}

func BuildProductQuery(params CatalogParams) domain.ProductQuery {
	query := domain.ProductQuery{
		Search: strings.TrimSpace(params.Search),
		Sort:   parseSort(params.Sort),
	}

	category := strings.TrimSpace(params.Category)
	if category != "" && category != domain.CategoryAll {
		query.Category = category
	}
	return query
}

func parseSort(raw string) domain.ProductSort {
	switch domain.ProductSort(strings.TrimSpace(raw)) {
	case domain.SortPriceAsc:
		return domain.SortPriceAsc
	case domain.SortPriceDesc:
		return domain.SortPriceDesc
	case domain.SortName:
		return domain.SortName
	default:
		return domain.SortNewest
	}
}
