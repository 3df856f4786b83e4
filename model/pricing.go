package model

import (
	"time"

	"github.com/rentkaro/rentcore/constant"
)

type RentalDuration struct {
	Milliseconds int64   `json:"milliseconds"`
	Hours        float64 `json:"hours"`
	Days         float64 `json:"days"`
}

type TierSelection struct {
	Unit    constant.BillingUnit `json:"unit"`
	Rate    float64              `json:"rate"`
	Periods int64                `json:"periods"`
}

type ItemPrice struct {
	Unit         constant.BillingUnit `json:"unit"`
	Periods      int64                `json:"periods"`
	PricePerUnit float64              `json:"price_per_unit"`
	BasePrice    float64              `json:"base_price"`
	Total        float64              `json:"total"`
}

// GSTBreakdown splits 18% GST into CGST+SGST (intra-state) or IGST
// (inter-state). Total always equals 18% of the taxed amount.
type GSTBreakdown struct {
	CGST  float64 `json:"cgst"`
	SGST  float64 `json:"sgst"`
	IGST  float64 `json:"igst"`
	Total float64 `json:"total"`
}

// QuotationLine is one priced line of a quotation; the variant is already
// resolved so the pricing engine stays free of I/O.
type QuotationLine struct {
	Variant   *Variant
	Quantity  int64
	StartDate time.Time
	EndDate   time.Time
}

type QuotationLineItem struct {
	VariantID uint64               `json:"variant_id"`
	Name      string               `json:"name"`
	Quantity  int64                `json:"quantity"`
	StartDate time.Time            `json:"start_date"`
	EndDate   time.Time            `json:"end_date"`
	Unit      constant.BillingUnit `json:"unit"`
	Periods   int64                `json:"periods"`
	UnitPrice float64              `json:"unit_price"`
	BasePrice float64              `json:"base_price"`
	Total     float64              `json:"total"`
}

type Quotation struct {
	LineItems    []QuotationLineItem `json:"line_items"`
	Subtotal     float64             `json:"subtotal"`
	TaxBreakdown *GSTBreakdown       `json:"tax_breakdown"`
	TotalAmount  float64             `json:"total_amount"`
}

type LateFeeResult struct {
	IsLate   bool    `json:"is_late"`
	DaysLate int64   `json:"days_late"`
	LateFee  float64 `json:"late_fee"`
}

type QuotationItemRequest struct {
	VariantID uint64 `json:"variant_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

type QuotationRequest struct {
	VendorState   string                 `json:"vendor_state" validate:"required"`
	CustomerState string                 `json:"customer_state" validate:"required"`
	Items         []QuotationItemRequest `json:"items" validate:"required,min=1,dive,required"`
}
