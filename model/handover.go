package model

import "time"

// Pickup marks the physical hand-off of one reservation. Immutable once
// written.
type Pickup struct {
	ID            uint64    `db:"id" json:"id"`
	OrderID       uint64    `db:"order_id" json:"order_id"`
	ReservationID uint64    `db:"reservation_id" json:"reservation_id"`
	PickedUpBy    string    `db:"picked_up_by" json:"picked_up_by"`
	Notes         string    `db:"notes" json:"notes,omitempty"`
	PickedUpAt    time.Time `db:"picked_up_at" json:"picked_up_at"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Return marks the physical return of one reservation.
type Return struct {
	ID             uint64    `db:"id" json:"id"`
	OrderID        uint64    `db:"order_id" json:"order_id"`
	ReservationID  uint64    `db:"reservation_id" json:"reservation_id"`
	PickupID       *uint64   `db:"pickup_id" json:"pickup_id,omitempty"`
	ReturnedAt     time.Time `db:"returned_at" json:"returned_at"`
	IsLate         bool      `db:"is_late" json:"is_late"`
	LateFee        float64   `db:"late_fee" json:"late_fee"`
	ConditionNotes string    `db:"condition_notes" json:"condition_notes,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type PickupRequest struct {
	OrderID        uint64   `json:"order_id" validate:"required"`
	ReservationIDs []uint64 `json:"reservation_ids,omitempty"`
	PickedUpBy     string   `json:"picked_up_by" validate:"required"`
	Notes          string   `json:"notes,omitempty"`
}

type PickupResponse struct {
	Order   *Order   `json:"order"`
	Pickups []Pickup `json:"pickups"`
}

type ReturnRequest struct {
	OrderID        uint64  `json:"order_id" validate:"required"`
	ReservationID  uint64  `json:"reservation_id" validate:"required"`
	PickupID       *uint64 `json:"pickup_id,omitempty"`
	ConditionNotes string  `json:"condition_notes,omitempty"`
}

type ReturnResponse struct {
	Return   *Return        `json:"return"`
	Order    *Order         `json:"order"`
	LateInfo *LateFeeResult `json:"late_info"`
}

type InsertPickupTxItem struct {
	OrderID       uint64
	ReservationID uint64
	PickedUpBy    string
	Notes         string
	PickedUpAt    time.Time
}

type InsertReturnTxItem struct {
	OrderID        uint64
	ReservationID  uint64
	PickupID       *uint64
	ReturnedAt     time.Time
	IsLate         bool
	LateFee        float64
	ConditionNotes string
}
