package model

import "time"

type Invoice struct {
	ID            uint64     `db:"id" json:"id"`
	OrderID       uint64     `db:"order_id" json:"order_id"`
	InvoiceNumber string     `db:"invoice_number" json:"invoice_number"`
	TotalAmount   float64    `db:"total_amount" json:"total_amount"`
	PaidAmount    float64    `db:"paid_amount" json:"paid_amount"`
	Outstanding   float64    `db:"outstanding" json:"outstanding"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

type InvoiceLineItem struct {
	ID          uint64  `db:"id" json:"id"`
	InvoiceID   uint64  `db:"invoice_id" json:"invoice_id"`
	Description string  `db:"description" json:"description"`
	Amount      float64 `db:"amount" json:"amount"`
}

type RecordPaymentRequest struct {
	InvoiceID uint64  `json:"invoice_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Method    string  `json:"method" validate:"required"`
	TxnID     string  `json:"txn_id" validate:"required"`
}
