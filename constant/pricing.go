package constant

import "math"

// BillingUnit is a rental billing granularity.
type BillingUnit string

const (
	BillingUnitHourly  BillingUnit = "HOURLY"
	BillingUnitDaily   BillingUnit = "DAILY"
	BillingUnitWeekly  BillingUnit = "WEEKLY"
	BillingUnitMonthly BillingUnit = "MONTHLY"
)

// BillingTier maps a billing unit to the duration range it covers.
// A tier applies when durationHours < ThresholdHours; periods are billed
// in whole multiples of DivisorHours, partial periods rounded up.
type BillingTier struct {
	Unit           BillingUnit
	ThresholdHours float64
	DivisorHours   float64
}

// BillingTiers is ordered smallest granularity first. Tier selection walks
// this table and picks the first tier covering the duration that has a
// configured rate, falling upward on missing rates.
var BillingTiers = []BillingTier{
	{Unit: BillingUnitHourly, ThresholdHours: 24, DivisorHours: 1},
	{Unit: BillingUnitDaily, ThresholdHours: 168, DivisorHours: 24},
	{Unit: BillingUnitWeekly, ThresholdHours: 720, DivisorHours: 168},
	{Unit: BillingUnitMonthly, ThresholdHours: math.Inf(1), DivisorHours: 720},
}

const (
	// DefaultGSTRate is the flat 18% GST applied to rental subtotals.
	DefaultGSTRate = 0.18
	// DefaultLateFeeDailyRate is the per-day late fee as a fraction of the
	// reservation's base price. Uncapped; there is no late-fee ceiling.
	DefaultLateFeeDailyRate = 0.20
)
