package variant

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/rentkaro/rentcore/model"
)

type SQL struct {
	conn *sqlx.DB
}

// VariantRepository is the read-only variant store. Prices and stock are
// owned by product management; this core only reads them, and locks the
// variant row while reserving.
type VariantRepository interface {
	GetByID(ctx context.Context, id uint64) (*model.Variant, error)
	GetByIDsTx(ctx context.Context, tx *sqlx.Tx, ids []uint64) ([]model.Variant, error)
	LockVariantTx(ctx context.Context, tx *sqlx.Tx, id uint64) (*model.Variant, error)
}

func NewVariantRepository(conn *sqlx.DB) VariantRepository {
	return &SQL{conn: conn}
}

const (
	getVariantBase = `SELECT v.id, v.product_id, p.vendor_id, ve.state as vendor_state, v.name, v.stock_quantity,
v.price_hourly, v.price_daily, v.price_weekly, v.price_monthly, v.created_at, v.updated_at
FROM variant v
JOIN product p ON v.product_id = p.id
JOIN vendor ve ON p.vendor_id = ve.id`
)

func (s *SQL) GetByID(ctx context.Context, id uint64) (*model.Variant, error) {
	var v model.Variant
	if err := s.conn.QueryRowxContext(ctx, getVariantBase+" WHERE v.id = ?", id).StructScan(&v); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (s *SQL) GetByIDsTx(ctx context.Context, tx *sqlx.Tx, ids []uint64) ([]model.Variant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(getVariantBase+" WHERE v.id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	rows, err := tx.QueryxContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	variants := make([]model.Variant, 0, len(ids))
	for rows.Next() {
		var v model.Variant
		if err := rows.StructScan(&v); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, nil
}

// LockVariantTx reads the variant row FOR UPDATE. Holding the row lock for
// the duration of the overlap check + reservation insert serializes
// writers per variant across all service instances.
func (s *SQL) LockVariantTx(ctx context.Context, tx *sqlx.Tx, id uint64) (*model.Variant, error) {
	var v model.Variant
	if err := tx.QueryRowxContext(ctx, getVariantBase+" WHERE v.id = ? FOR UPDATE", id).StructScan(&v); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}
