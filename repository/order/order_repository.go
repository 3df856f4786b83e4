package order

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/rentkaro/rentcore/constant"
	"github.com/rentkaro/rentcore/model"
)

type SQL struct {
	conn *sqlx.DB
}

type OrderRepository interface {
	InsertOrderTx(ctx context.Context, tx *sqlx.Tx, req *model.InsertOrderTxItem) (uint64, error)
	GetOrderTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (*model.Order, error)
	GetOrder(ctx context.Context, orderID uint64) (*model.Order, error)
	UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, status constant.OrderStatus) error
	AddToTotalTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, amount float64) error
}

func NewOrderRepository(conn *sqlx.DB) OrderRepository {
	return &SQL{conn: conn}
}

const (
	insertOrderQuery = "INSERT INTO `order` (order_number, customer_id, vendor_id, customer_state, vendor_state, subtotal, tax_amount, total_amount, start_date, end_date, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())"

	getOrderBase = "SELECT id, order_number, customer_id, vendor_id, customer_state, vendor_state, subtotal, tax_amount, total_amount, start_date, end_date, status, created_at, updated_at FROM `order`"
)

func (r *SQL) InsertOrderTx(ctx context.Context, tx *sqlx.Tx, req *model.InsertOrderTxItem) (uint64, error) {
	res, err := tx.ExecContext(ctx, insertOrderQuery,
		req.OrderNumber, req.CustomerID, req.VendorID, req.CustomerState, req.VendorState,
		req.Subtotal, req.TaxAmount, req.TotalAmount, req.StartDate, req.EndDate, req.Status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetOrderTx reads the order FOR UPDATE so the status guard and the status
// flip happen under one lock; this closes the TOCTOU window between
// concurrent lifecycle operations on the same order.
func (r *SQL) GetOrderTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (*model.Order, error) {
	var o model.Order
	if err := tx.QueryRowxContext(ctx, getOrderBase+" WHERE id = ? FOR UPDATE", orderID).StructScan(&o); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *SQL) GetOrder(ctx context.Context, orderID uint64) (*model.Order, error) {
	var o model.Order
	if err := r.conn.QueryRowxContext(ctx, getOrderBase+" WHERE id = ?", orderID).StructScan(&o); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *SQL) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, status constant.OrderStatus) error {
	_, err := tx.ExecContext(ctx, "UPDATE `order` SET status = ?, updated_at = NOW() WHERE id = ?", status, orderID)
	return err
}

func (r *SQL) AddToTotalTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, amount float64) error {
	_, err := tx.ExecContext(ctx, "UPDATE `order` SET total_amount = total_amount + ?, updated_at = NOW() WHERE id = ?", amount, orderID)
	return err
}
