package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.Stock,
		pq.Array(&p.Sizes),
		pq.Array(&p.Colors),
		pq.Array(&p.Images),
		&p.Featured,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (name, description, price, category, stock, sizes, colors, images, featured)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING ` + productColumns

	created, err := scanProduct(r.db.QueryRowContext(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		product.Stock,
		pq.Array(product.Sizes),
		pq.Array(product.Colors),
		pq.Array(product.Images),
		product.Featured,
	))
	if err != nil {
		r.log.Errorf("Repository: Failed to insert product %q: %v", product.Name, err)
		return nil, classify(err, "could not create product")
	}

	r.log.Infof("Repository: Product created with ID %s", created.ID)
	return created, nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pqCode(err) == pqInvalidText {
			r.log.Warnf("Repository: Product with ID %s not found", id)
		} else {
			r.log.Errorf("Repository: Failed to get product by ID %s: %v", id, err)
		}
		return nil, classify(err, fmt.Sprintf("product %s", id))
	}
	return product, nil
}

// GetProductsByIDs returns the products that exist, keyed by id. Missing ids
// are simply absent from the map.
func (r *postgresProductRepository) GetProductsByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error) {
	out := make(map[string]*domain.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1::uuid[])`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		r.log.Errorf("Repository: Failed to query %d products by ID: %v", len(ids), err)
		return nil, classify(err, "could not load products")
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		out[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during product rows iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	r.log.Debugf("Repository: Resolved %d of %d products", len(out), len(ids))
	return out, nil
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
        UPDATE products
        SET name = $1, description = $2, price = $3, category = $4, stock = $5,
            sizes = $6, colors = $7, images = $8, featured = $9, updated_at = NOW()
        WHERE id = $10
        RETURNING ` + productColumns

	updated, err := scanProduct(r.db.QueryRowContext(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		product.Stock,
		pq.Array(product.Sizes),
		pq.Array(product.Colors),
		pq.Array(product.Images),
		product.Featured,
		product.ID,
	))
	if err != nil {
		r.log.Errorf("Repository: Failed to update product %s: %v", product.ID, err)
		return nil, classify(err, fmt.Sprintf("product %s", product.ID))
	}

	r.log.Infof("Repository: Product %s updated", updated.ID)
	return updated, nil
}

func (r *postgresProductRepository) DeleteProduct(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete product %s: %v", id, err)
		return classify(err, fmt.Sprintf("product %s", id))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not verify product deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Product with ID %s not found for deletion", id)
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	r.log.Infof("Repository: Product %s deleted", id)
	return nil
}

func (r *postgresProductRepository) ListProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	query, args := buildProductListQuery(q)
	r.log.Debugf("Repository: Executing product list query: %s with args: %v", query, args)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list products: %v", err)
		return nil, classify(err, "could not list products")
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during product rows iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}
