package repository

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

const cartColumns = `id, user_id, product_id, quantity, selected_size, selected_color, created_at`

type postgresCartRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCartRepository(db *sql.DB, logger *logrus.Logger) domain.CartRepository {
	return &postgresCartRepository{
		db:  db,
		log: logger,
	}
}

func scanCartItem(row rowScanner) (*domain.CartItem, error) {
	item := &domain.CartItem{}
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.SelectedSize,
		&item.SelectedColor,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *postgresCartRepository) ListCartItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	query := `SELECT ` + cartColumns + ` FROM cart_items WHERE user_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.log.Errorf("Repository: Failed to query cart of user %s: %v", userID, err)
		return nil, classify(err, "could not load cart")
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan cart row for user %s: %v", userID, err)
			return nil, fmt.Errorf("error scanning cart item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	r.log.Debugf("Repository: Retrieved %d cart rows for user %s", len(items), userID)
	return items, nil
}

func (r *postgresCartRepository) GetCartItem(ctx context.Context, id string) (*domain.CartItem, error) {
	query := `SELECT ` + cartColumns + ` FROM cart_items WHERE id = $1`

	item, err := scanCartItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify(err, fmt.Sprintf("cart item %s", id))
	}
	return item, nil
}

func (r *postgresCartRepository) FindCartItem(ctx context.Context, userID, productID, size, color string) (*domain.CartItem, error) {
	query := `
        SELECT ` + cartColumns + `
        FROM cart_items
        WHERE user_id = $1 AND product_id = $2 AND selected_size = $3 AND selected_color = $4
    `
	item, err := scanCartItem(r.db.QueryRowContext(ctx, query, userID, productID, size, color))
	if err != nil {
		return nil, classify(err, "cart item")
	}
	return item, nil
}

func (r *postgresCartRepository) UpsertCartItem(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	query := `
        INSERT INTO cart_items (user_id, product_id, quantity, selected_size, selected_color)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, product_id, selected_size, selected_color)
        DO UPDATE SET quantity = EXCLUDED.quantity
        RETURNING ` + cartColumns

	saved, err := scanCartItem(r.db.QueryRowContext(ctx, query,
		item.UserID,
		item.ProductID,
		item.Quantity,
		item.SelectedSize,
		item.SelectedColor,
	))
	if err != nil {
		r.log.Errorf("Repository: Failed to upsert cart row (user %s, product %s): %v", item.UserID, item.ProductID, err)
		return nil, classify(err, "could not save cart item")
	}

	r.log.Infof("Repository: Cart row %s saved with quantity %d", saved.ID, saved.Quantity)
	return saved, nil
}

func (r *postgresCartRepository) UpdateCartItemQuantity(ctx context.Context, id string, quantity int) (*domain.CartItem, error) {
	query := `UPDATE cart_items SET quantity = $1 WHERE id = $2 RETURNING ` + cartColumns

	item, err := scanCartItem(r.db.QueryRowContext(ctx, query, quantity, id))
	if err != nil {
		r.log.Errorf("Repository: Failed to update quantity of cart row %s: %v", id, err)
		return nil, classify(err, fmt.Sprintf("cart item %s", id))
	}
	return item, nil
}

func (r *postgresCartRepository) DeleteCartItem(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, id); err != nil {
		r.log.Errorf("Repository: Failed to delete cart row %s: %v", id, err)
		return classify(err, fmt.Sprintf("cart item %s", id))
	}
	return nil
}

func (r *postgresCartRepository) ClearCart(ctx context.Context, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		r.log.Errorf("Repository: Failed to clear cart of user %s: %v", userID, err)
		return classify(err, "could not clear cart")
	}
	n, _ := result.RowsAffected()
	r.log.Infof("Repository: Cleared %d cart rows for user %s", n, userID)
	return nil
}
