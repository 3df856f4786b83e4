package model

import (
	"time"

	"github.com/rentkaro/rentcore/constant"
)

type OrderItemRequest struct {
	VariantID uint64 `json:"variant_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

type OrderRequest struct {
	CustomerID    uint64
	VendorID      uint64             `json:"vendor_id" validate:"required"`
	CustomerState string             `json:"customer_state" validate:"required"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive,required"`
}

type OrderResponse struct {
	OrderID     uint64               `json:"order_id"`
	OrderNumber string               `json:"order_number"`
	Status      constant.OrderStatus `json:"status"`
	Subtotal    float64              `json:"subtotal"`
	Tax         *GSTBreakdown        `json:"tax"`
	TotalAmount float64              `json:"total_amount"`
	StartDate   time.Time            `json:"start_date"`
	EndDate     time.Time            `json:"end_date"`
}

// Order is the persisted aggregate; status is the only lifecycle-mutable
// field after creation, total may be amended by late fees.
type Order struct {
	ID            uint64               `db:"id" json:"id"`
	OrderNumber   string               `db:"order_number" json:"order_number"`
	CustomerID    uint64               `db:"customer_id" json:"customer_id"`
	VendorID      uint64               `db:"vendor_id" json:"vendor_id"`
	CustomerState string               `db:"customer_state" json:"customer_state"`
	VendorState   string               `db:"vendor_state" json:"vendor_state"`
	Subtotal      float64              `db:"subtotal" json:"subtotal"`
	TaxAmount     float64              `db:"tax_amount" json:"tax_amount"`
	TotalAmount   float64              `db:"total_amount" json:"total_amount"`
	StartDate     time.Time            `db:"start_date" json:"start_date"`
	EndDate       time.Time            `db:"end_date" json:"end_date"`
	Status        constant.OrderStatus `db:"status" json:"status"`
	CreatedAt     time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt     *time.Time           `db:"updated_at" json:"updated_at,omitempty"`
}

type InsertOrderTxItem struct {
	OrderNumber   string
	CustomerID    uint64
	VendorID      uint64
	CustomerState string
	VendorState   string
	Subtotal      float64
	TaxAmount     float64
	TotalAmount   float64
	StartDate     time.Time
	EndDate       time.Time
	Status        constant.OrderStatus
}

type OrderDetailResponse struct {
	Order        *Order        `json:"order"`
	Reservations []Reservation `json:"reservations"`
}
