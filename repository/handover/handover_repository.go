package handover

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/rentkaro/rentcore/model"
)

type SQL struct {
	conn *sqlx.DB
}

type HandoverRepository interface {
	InsertPickupTx(ctx context.Context, tx *sqlx.Tx, req *model.InsertPickupTxItem) (uint64, error)
	InsertReturnTx(ctx context.Context, tx *sqlx.Tx, req *model.InsertReturnTxItem) (uint64, error)
	GetPickupByReservationTx(ctx context.Context, tx *sqlx.Tx, reservationID uint64) (*model.Pickup, error)
}

func NewHandoverRepository(conn *sqlx.DB) HandoverRepository {
	return &SQL{conn: conn}
}

const (
	insertPickupQuery = `INSERT INTO pickup (order_id, reservation_id, picked_up_by, notes, picked_up_at, created_at)
VALUES (?, ?, ?, ?, ?, NOW())`

	insertReturnQuery = `INSERT INTO item_return (order_id, reservation_id, pickup_id, returned_at, is_late, late_fee, condition_notes, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, NOW())`
)

func (r *SQL) InsertPickupTx(ctx context.Context, tx *sqlx.Tx, req *model.InsertPickupTxItem) (uint64, error) {
	res, err := tx.ExecContext(ctx, insertPickupQuery,
		req.OrderID, req.ReservationID, req.PickedUpBy, req.Notes, req.PickedUpAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *SQL) InsertReturnTx(ctx context.Context, tx *sqlx.Tx, req *model.InsertReturnTxItem) (uint64, error) {
	res, err := tx.ExecContext(ctx, insertReturnQuery,
		req.OrderID, req.ReservationID, req.PickupID, req.ReturnedAt, req.IsLate, req.LateFee, req.ConditionNotes)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *SQL) GetPickupByReservationTx(ctx context.Context, tx *sqlx.Tx, reservationID uint64) (*model.Pickup, error) {
	var p model.Pickup
	q := `SELECT id, order_id, reservation_id, picked_up_by, notes, picked_up_at, created_at FROM pickup WHERE reservation_id = ?`
	if err := tx.QueryRowxContext(ctx, q, reservationID).StructScan(&p); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
