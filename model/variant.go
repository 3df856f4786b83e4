package model

import (
	"time"

	"github.com/rentkaro/rentcore/constant"
)

// Variant is a rentable SKU with finite stock and per-tier rates. A nil
// rate means the tier is not offered. This core never writes prices or
// stock; the vendor's product management owns those.
type Variant struct {
	ID            uint64     `db:"id" json:"id"`
	ProductID     uint64     `db:"product_id" json:"product_id"`
	VendorID      uint64     `db:"vendor_id" json:"vendor_id"`
	VendorState   string     `db:"vendor_state" json:"vendor_state"`
	Name          string     `db:"name" json:"name"`
	StockQuantity int64      `db:"stock_quantity" json:"stock_quantity"`
	PriceHourly   *float64   `db:"price_hourly" json:"price_hourly,omitempty"`
	PriceDaily    *float64   `db:"price_daily" json:"price_daily,omitempty"`
	PriceWeekly   *float64   `db:"price_weekly" json:"price_weekly,omitempty"`
	PriceMonthly  *float64   `db:"price_monthly" json:"price_monthly,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// RateFor returns the configured rate for a billing unit, or nil when the
// variant does not offer that tier.
func (v *Variant) RateFor(unit constant.BillingUnit) *float64 {
	switch unit {
	case constant.BillingUnitHourly:
		return v.PriceHourly
	case constant.BillingUnitDaily:
		return v.PriceDaily
	case constant.BillingUnitWeekly:
		return v.PriceWeekly
	case constant.BillingUnitMonthly:
		return v.PriceMonthly
	}
	return nil
}

type AvailabilityResponse struct {
	VariantID      uint64    `json:"variant_id"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	StockQuantity  int64     `json:"stock_quantity"`
	ReservedUnits  int64     `json:"reserved_units"`
	AvailableUnits int64     `json:"available_units"`
}
