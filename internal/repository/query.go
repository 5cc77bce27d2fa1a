package repository

import (
	"fmt"
	"strings"

	"storefront/internal/domain"
)

const productColumns = `id, name, description, price, category, stock, sizes, colors, images, featured, created_at, updated_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildProductListQuery renders a catalog filter as a parameterized SELECT.
func buildProductListQuery(q domain.ProductQuery) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	bind := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Search != "" {
		p := bind("%" + likeEscaper.Replace(q.Search) + "%")
		where = append(where, fmt.Sprintf("(name ILIKE %s OR description ILIKE %s)", p, p))
	}
	if q.Category != "" {
		where = append(where, "category = "+bind(q.Category))
	}
	if q.ExcludeCategory != "" {
		where = append(where, "category <> "+bind(q.ExcludeCategory))
	}
	if q.ExcludeID != "" {
		where = append(where, "id <> "+bind(q.ExcludeID))
	}
	if q.FeaturedOnly {
		where = append(where, "featured = TRUE")
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + productColumns + " FROM products")
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	if order := orderByClause(q.Sort); order != "" {
		sb.WriteString(" ORDER BY " + order)
	}
	if q.Limit > 0 {
		sb.WriteString(" LIMIT " + bind(q.Limit))
	}
	return sb.String(), args
}

// orderByClause returns "" for an unset sort, leaving the store's natural order.
func orderByClause(sort domain.ProductSort) string {
	switch sort {
	case domain.SortNewest:
		return "created_at DESC"
	case domain.SortPriceAsc:
		return "price ASC"
	case domain.SortPriceDesc:
		return "price DESC"
	case domain.SortName:
		return "name ASC"
	default:
		return ""
	}
}
