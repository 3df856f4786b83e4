package reservation

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rentkaro/rentcore/constant"
	"github.com/rentkaro/rentcore/model"
)

type SQL struct {
	conn *sqlx.DB
}

type ReservationRepository interface {
	InsertReservationTx(ctx context.Context, tx *sqlx.Tx, req *model.InsertReservationTxItem) (uint64, error)
	GetOverlappingDemandTx(ctx context.Context, tx *sqlx.Tx, variantID uint64, start, end time.Time) (int64, error)
	GetOverlappingDemand(ctx context.Context, variantID uint64, start, end time.Time) (int64, error)
	GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uint64) (*model.Reservation, error)
	GetByOrderTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) ([]model.Reservation, error)
	GetByOrder(ctx context.Context, orderID uint64) ([]model.Reservation, error)
	UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id uint64, status constant.ReservationStatus) error
	ReleaseByOrderTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (int64, error)
	ListEndingBefore(ctx context.Context, cutoff time.Time) ([]model.Reservation, error)
}

func NewReservationRepository(conn *sqlx.DB) ReservationRepository {
	return &SQL{conn: conn}
}

const (
	// Two intervals [a1,a2) and [b1,b2) overlap iff a1 < b2 AND b1 < a2.
	overlappingDemandQuery = `SELECT COALESCE(SUM(quantity),0) FROM reservation
WHERE variant_id = ? AND status IN (?, ?) AND start_date < ? AND ? < end_date`

	insertReservationQuery = `INSERT INTO reservation (order_id, variant_id, start_date, end_date, quantity, base_price, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, NOW())`

	getReservationBase = `SELECT id, order_id, variant_id, start_date, end_date, quantity, base_price, status, created_at, updated_at FROM reservation`
)

func (s *SQL) InsertReservationTx(ctx context.Context, tx *sqlx.Tx, req *model.InsertReservationTxItem) (uint64, error) {
	res, err := tx.ExecContext(ctx, insertReservationQuery,
		req.OrderID, req.VariantID, req.StartDate, req.EndDate, req.Quantity, req.BasePrice, req.Status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (s *SQL) GetOverlappingDemandTx(ctx context.Context, tx *sqlx.Tx, variantID uint64, start, end time.Time) (int64, error) {
	var total sql.NullInt64
	err := tx.GetContext(ctx, &total, overlappingDemandQuery,
		variantID, constant.ReservationStatusReserved, constant.ReservationStatusActive, end, start)
	if err != nil {
		return 0, err
	}
	if !total.Valid {
		return 0, nil
	}
	return total.Int64, nil
}

// GetOverlappingDemand is the lock-free read used by the availability
// endpoint and the reminder sweep. It must never block writers.
func (s *SQL) GetOverlappingDemand(ctx context.Context, variantID uint64, start, end time.Time) (int64, error) {
	var total sql.NullInt64
	err := s.conn.GetContext(ctx, &total, overlappingDemandQuery,
		variantID, constant.ReservationStatusReserved, constant.ReservationStatusActive, end, start)
	if err != nil {
		return 0, err
	}
	if !total.Valid {
		return 0, nil
	}
	return total.Int64, nil
}

func (s *SQL) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uint64) (*model.Reservation, error) {
	var r model.Reservation
	if err := tx.QueryRowxContext(ctx, getReservationBase+" WHERE id = ? FOR UPDATE", id).StructScan(&r); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (s *SQL) GetByOrderTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) ([]model.Reservation, error) {
	rows, err := tx.QueryxContext(ctx, getReservationBase+" WHERE order_id = ? FOR UPDATE", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

func (s *SQL) GetByOrder(ctx context.Context, orderID uint64) ([]model.Reservation, error) {
	rows, err := s.conn.QueryxContext(ctx, getReservationBase+" WHERE order_id = ?", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

func (s *SQL) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id uint64, status constant.ReservationStatus) error {
	_, err := tx.ExecContext(ctx, "UPDATE reservation SET status = ?, updated_at = NOW() WHERE id = ?", status, id)
	return err
}

// ReleaseByOrderTx cancels every stock-holding reservation of the order
// and reports how many were released. Idempotent by construction: a
// second call matches zero rows.
func (s *SQL) ReleaseByOrderTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"UPDATE reservation SET status = ?, updated_at = NOW() WHERE order_id = ? AND status IN (?, ?)",
		constant.ReservationStatusCancelled, orderID,
		constant.ReservationStatusReserved, constant.ReservationStatusActive)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListEndingBefore feeds the return-reminder sweep. Plain read, no locks.
func (s *SQL) ListEndingBefore(ctx context.Context, cutoff time.Time) ([]model.Reservation, error) {
	rows, err := s.conn.QueryxContext(ctx,
		getReservationBase+" WHERE status = ? AND end_date < ?",
		constant.ReservationStatusActive, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

func scanReservations(rows *sqlx.Rows) ([]model.Reservation, error) {
	res := make([]model.Reservation, 0)
	for rows.Next() {
		var r model.Reservation
		if err := rows.StructScan(&r); err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, nil
}
