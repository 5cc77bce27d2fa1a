package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockOrderRepo(t *testing.T) (domain.OrderRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger, _ := test.NewNullLogger()
	return NewPostgresOrderRepository(db, logger), mock
}

var orderRowColumns = []string{"id", "user_id", "total", "status", "payment_session_id", "idempotency_key", "created_at", "updated_at"}

func TestCreateOrderDuplicateIdempotencyKey(t *testing.T) {
	repo, mock := newMockOrderRepo(t)

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs("user-1", int64(4400), domain.StatusPending, "key-1").
		WillReturnError(&pq.Error{Code: pqUniqueViolation, Constraint: "orders_user_idempotency_key"})

	_, err := repo.CreateOrder(context.Background(), &domain.Order{UserID: "user-1", Total: 4400, Status: domain.StatusPending, IdempotencyKey: "key-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicateCheckout)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderReturnsRow(t *testing.T) {
	repo, mock := newMockOrderRepo(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs("user-1", int64(1000), domain.StatusPending, "").
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow("order-1", "user-1", int64(1000), "pending", "", "", now, now))

	order, err := repo.CreateOrder(context.Background(), &domain.Order{UserID: "user-1", Total: 1000, Status: domain.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderItemsRollsBackOnFailure(t *testing.T) {
	repo, mock := newMockOrderRepo(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO order_items")
	prep.ExpectExec().
		WithArgs("order-1", "p1", "Shirt", int64(1000), 2, "M", "Blue").
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs("order-1", "p2", "Cap", int64(0), 1, "", "").
		WillReturnError(&pq.Error{Code: pqCheckViolation, Column: "product_price", Message: "violates check constraint"})
	mock.ExpectRollback()

	err := repo.CreateOrderItems(context.Background(), "order-1", []domain.OrderItem{
		{ProductID: "p1", ProductName: "Shirt", ProductPrice: 1000, Quantity: 2, SelectedSize: "M", SelectedColor: "Blue"},
		{ProductID: "p2", ProductName: "Cap", ProductPrice: 0, Quantity: 1},
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "product_price")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderItemsCommits(t *testing.T) {
	repo, mock := newMockOrderRepo(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO order_items")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CreateOrderItems(context.Background(), "order-1", []domain.OrderItem{
		{ProductID: "p1", ProductName: "Shirt", ProductPrice: 1000, Quantity: 1},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByIDNotFound(t *testing.T) {
	repo, mock := newMockOrderRepo(t)

	mock.ExpectQuery("FROM orders o WHERE o.id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(orderRowColumns))

	_, err := repo.GetOrderByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelStalePending(t *testing.T) {
	repo, mock := newMockOrderRepo(t)
	cutoff := time.Date(2024, 5, 9, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("UPDATE orders").
		WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("o1").AddRow("o2"))

	ids, err := repo.CancelStalePending(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, []string{"o1", "o2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOrderPersistenceError(t *testing.T) {
	repo, mock := newMockOrderRepo(t)

	mock.ExpectExec("DELETE FROM orders").
		WithArgs("o1").
		WillReturnError(errors.New("connection reset"))

	err := repo.DeleteOrder(context.Background(), "o1")
	assert.ErrorIs(t, err, domain.ErrPersistence)
}
