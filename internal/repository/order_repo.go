package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const orderColumns = `o.id, o.user_id, o.total, o.status, COALESCE(o.payment_session_id, ''), COALESCE(o.idempotency_key, ''), o.created_at, o.updated_at`

const orderItemColumns = `id, order_id, product_id, product_name, product_price, quantity, selected_size, selected_color, created_at`

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{
		db:  db,
		log: logger,
	}
}

func scanOrder(row rowScanner, extra ...interface{}) (*domain.Order, error) {
	order := &domain.Order{}
	dest := []interface{}{
		&order.ID,
		&order.UserID,
		&order.Total,
		&order.Status,
		&order.PaymentSessionID,
		&order.IdempotencyKey,
		&order.CreatedAt,
		&order.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return order, nil
}

func scanOrderItem(row rowScanner) (*domain.OrderItem, error) {
	item := &domain.OrderItem{}
	err := row.Scan(
		&item.ID,
		&item.OrderID,
		&item.ProductID,
		&item.ProductName,
		&item.ProductPrice,
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

func (r *postgresOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	query := `
        INSERT INTO orders AS o (user_id, total, status, idempotency_key)
        VALUES ($1, $2, $3, NULLIF($4, ''))
        RETURNING ` + orderColumns

	created, err := scanOrder(r.db.QueryRowContext(ctx, query, order.UserID, order.Total, order.Status, order.IdempotencyKey))
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			r.log.Warnf("Repository: Order with idempotency key %q already exists", order.IdempotencyKey)
			return nil, domain.ErrDuplicateCheckout
		}
		r.log.Errorf("Repository: Failed to insert order for user %s: %v", order.UserID, err)
		return nil, classify(err, "could not create order entry")
	}

	r.log.Infof("Repository: Order entry created with ID %s for user %s", created.ID, created.UserID)
	return created, nil
}

// CreateOrderItems inserts all rows in one transaction.
func (r *postgresOrderRepository) CreateOrderItems(ctx context.Context, orderID string, items []domain.OrderItem) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Repository: Failed to begin transaction: %v", err)
		return fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("Repository: Recovered from panic, rolling back transaction")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			r.log.Warnf("Repository: Rolling back order items transaction due to error: %v", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("Repository: Failed to rollback transaction: %v", rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			r.log.Errorf("Repository: Failed to commit transaction: %v", cErr)
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO order_items (order_id, product_id, product_name, product_price, quantity, selected_size, selected_color)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `)
	if err != nil {
		r.log.Errorf("Repository: Failed to prepare order item statement: %v", err)
		return fmt.Errorf("could not prepare item statement: %w", err)
	}
	defer stmt.Close()

	for i := range items {
		item := &items[i]
		_, err = stmt.ExecContext(ctx, orderID, item.ProductID, item.ProductName, item.ProductPrice, item.Quantity, item.SelectedSize, item.SelectedColor)
		if err != nil {
			r.log.Errorf("Repository: Failed to insert order item (product_id: %s, quantity: %d) for order %s: %v", item.ProductID, item.Quantity, orderID, err)
			return classify(err, fmt.Sprintf("could not create order item (product_id: %s)", item.ProductID))
		}
	}

	r.log.Infof("Repository: Inserted %d items for order %s", len(items), orderID)
	return nil
}

func (r *postgresOrderRepository) DeleteOrder(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete order %s: %v", id, err)
		return classify(err, fmt.Sprintf("order %s", id))
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	r.log.Infof("Repository: Order %s deleted with its items", id)
	return nil
}

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		r.log.Warnf("Repository: Failed to get order %s: %v", id, err)
		return nil, classify(err, fmt.Sprintf("order %s", id))
	}

	orders := []domain.Order{*order}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *postgresOrderRepository) SetPaymentSession(ctx context.Context, id, sessionID string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE orders SET payment_session_id = $1, updated_at = NOW() WHERE id = $2`, sessionID, id)
	if err != nil {
		return classify(err, fmt.Sprintf("order %s", id))
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *postgresOrderRepository) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	query := `
        UPDATE orders AS o
        SET status = $1, updated_at = NOW()
        WHERE o.id = $2
        RETURNING ` + orderColumns

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if pqCode(err) == pqCheckViolation {
			r.log.Warnf("Repository: Invalid status value '%s' for order %s: %v", status, id, err)
			return nil, domain.NewValidationError("status", fmt.Sprintf("invalid order status: %s", status))
		}
		r.log.Errorf("Repository: Failed to update status for order %s: %v", id, err)
		return nil, classify(err, fmt.Sprintf("order %s", id))
	}

	r.log.Infof("Repository: Order %s status set to '%s'", order.ID, order.Status)
	return order, nil
}

func (r *postgresOrderRepository) ListOrdersByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.user_id = $1 ORDER BY o.created_at DESC`
	return r.listOrders(ctx, query, false, userID)
}

func (r *postgresOrderRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + orderColumns + `, COALESCE(p.email, ''), COALESCE(p.name, '')
        FROM orders o
        LEFT JOIN profiles p ON p.id = o.user_id`)

	var args []interface{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		sb.WriteString(` WHERE o.status = $1`)
	}
	sb.WriteString(` ORDER BY o.created_at DESC`)

	return r.listOrders(ctx, sb.String(), true, args...)
}

func (r *postgresOrderRepository) listOrders(ctx context.Context, query string, withCustomer bool, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list orders: %v", err)
		return nil, classify(err, "could not retrieve orders")
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var (
			order *domain.Order
			email string
			name  string
		)
		if withCustomer {
			order, err = scanOrder(rows, &email, &name)
		} else {
			order, err = scanOrder(rows)
		}
		if err != nil {
			r.log.Errorf("Repository: Failed to scan order row: %v", err)
			return nil, fmt.Errorf("error scanning order data: %w", err)
		}
		order.CustomerEmail = email
		order.CustomerName = name
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during orders iteration: %v", err)
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	r.log.Debugf("Repository: Retrieved %d orders", len(orders))
	return orders, nil
}

// attachItems loads the items of all given orders with one query.
func (r *postgresOrderRepository) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	orderIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}

	itemsQuery := `
        SELECT ` + orderItemColumns + `
        FROM order_items
        WHERE order_id = ANY($1::uuid[])
        ORDER BY order_id, created_at
    `
	rows, err := r.db.QueryContext(ctx, itemsQuery, pq.Array(orderIDs))
	if err != nil {
		r.log.Errorf("Repository: Failed to query items for orders %v: %v", orderIDs, err)
		return classify(err, "could not retrieve order items")
	}
	defer rows.Close()

	itemsMap := make(map[string][]domain.OrderItem)
	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan order item row: %v", err)
			return fmt.Errorf("error scanning order item data: %w", err)
		}
		itemsMap[item.OrderID] = append(itemsMap[item.OrderID], *item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating order items: %w", err)
	}

	for i := range orders {
		if items, ok := itemsMap[orders[i].ID]; ok {
			orders[i].Items = items
		} else {
			orders[i].Items = []domain.OrderItem{}
		}
	}
	return nil
}

func (r *postgresOrderRepository) CancelStalePending(ctx context.Context, cutoff time.Time) ([]string, error) {
	query := `
        UPDATE orders
        SET status = 'cancelled', updated_at = NOW()
        WHERE status = 'pending' AND created_at < $1
        RETURNING id
    `
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		r.log.Errorf("Repository: Failed to cancel stale pending orders: %v", err)
		return nil, classify(err, "could not cancel stale orders")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning cancelled order id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cancelled orders: %w", err)
	}
	return ids, nil
}

func (r *postgresOrderRepository) CountOrdersBetween(ctx context.Context, from, to time.Time) (domain.OrderStats, error) {
	query := `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status = 'completed'),
               COALESCE(SUM(total) FILTER (WHERE status = 'completed'), 0)
        FROM orders
        WHERE created_at >= $1 AND created_at < $2
    `
	var stats domain.OrderStats
	if err := r.db.QueryRowContext(ctx, query, from, to).Scan(&stats.Orders, &stats.Completed, &stats.Revenue); err != nil {
		r.log.Errorf("Repository: Failed to aggregate orders between %s and %s: %v", from, to, err)
		return domain.OrderStats{}, classify(err, "could not aggregate orders")
	}
	return stats, nil
}
