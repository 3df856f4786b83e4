package model

import (
	"time"

	"github.com/rentkaro/rentcore/constant"
)

// Reservation is a claim on quantity units of one variant for
// [StartDate, EndDate). BasePrice is the item price captured at booking
// time; late fees are computed against it on return.
type Reservation struct {
	ID        uint64                     `db:"id" json:"id"`
	OrderID   uint64                     `db:"order_id" json:"order_id"`
	VariantID uint64                     `db:"variant_id" json:"variant_id"`
	StartDate time.Time                  `db:"start_date" json:"start_date"`
	EndDate   time.Time                  `db:"end_date" json:"end_date"`
	Quantity  int64                      `db:"quantity" json:"quantity"`
	BasePrice float64                    `db:"base_price" json:"base_price"`
	Status    constant.ReservationStatus `db:"status" json:"status"`
	CreatedAt time.Time                  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time                 `db:"updated_at" json:"updated_at,omitempty"`
}

// ReserveItem is one line of an atomic reservation batch.
type ReserveItem struct {
	VariantID uint64
	Quantity  int64
	StartDate time.Time
	EndDate   time.Time
	BasePrice float64
}

type InsertReservationTxItem struct {
	OrderID   uint64
	VariantID uint64
	StartDate time.Time
	EndDate   time.Time
	Quantity  int64
	BasePrice float64
	Status    constant.ReservationStatus
}
