package invoice

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/rentkaro/rentcore/model"
)

type SQL struct {
	conn *sqlx.DB
}

type InvoiceRepository interface {
	GetByOrderTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (*model.Invoice, error)
	GetByID(ctx context.Context, id uint64) (*model.Invoice, error)
	InsertInvoiceTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, invoiceNumber string, totalAmount float64) (uint64, error)
	InsertLineItemTx(ctx context.Context, tx *sqlx.Tx, invoiceID uint64, description string, amount float64) error
	AddOutstandingTx(ctx context.Context, tx *sqlx.Tx, invoiceID uint64, amount float64) error
	RecordPaymentTx(ctx context.Context, tx *sqlx.Tx, invoiceID uint64, amount float64, method, txnID string) error
}

func NewInvoiceRepository(conn *sqlx.DB) InvoiceRepository {
	return &SQL{conn: conn}
}

const getInvoiceBase = `SELECT id, order_id, invoice_number, total_amount, paid_amount, outstanding, created_at, updated_at FROM invoice`

func (r *SQL) GetByOrderTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (*model.Invoice, error) {
	var inv model.Invoice
	if err := tx.QueryRowxContext(ctx, getInvoiceBase+" WHERE order_id = ?", orderID).StructScan(&inv); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *SQL) GetByID(ctx context.Context, id uint64) (*model.Invoice, error) {
	var inv model.Invoice
	if err := r.conn.QueryRowxContext(ctx, getInvoiceBase+" WHERE id = ?", id).StructScan(&inv); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *SQL) InsertInvoiceTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, invoiceNumber string, totalAmount float64) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO invoice (order_id, invoice_number, total_amount, paid_amount, outstanding, created_at) VALUES (?, ?, ?, 0, ?, NOW())",
		orderID, invoiceNumber, totalAmount, totalAmount)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *SQL) InsertLineItemTx(ctx context.Context, tx *sqlx.Tx, invoiceID uint64, description string, amount float64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO invoice_line_item (invoice_id, description, amount) VALUES (?, ?, ?)",
		invoiceID, description, amount)
	return err
}

func (r *SQL) AddOutstandingTx(ctx context.Context, tx *sqlx.Tx, invoiceID uint64, amount float64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE invoice SET total_amount = total_amount + ?, outstanding = outstanding + ?, updated_at = NOW() WHERE id = ?",
		amount, amount, invoiceID)
	return err
}

func (r *SQL) RecordPaymentTx(ctx context.Context, tx *sqlx.Tx, invoiceID uint64, amount float64, method, txnID string) error {
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO invoice_payment (invoice_id, amount, method, txn_id, created_at) VALUES (?, ?, ?, ?, NOW())",
		invoiceID, amount, method, txnID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx,
		"UPDATE invoice SET paid_amount = paid_amount + ?, outstanding = outstanding - ?, updated_at = NOW() WHERE id = ?",
		amount, amount, invoiceID)
	return err
}
