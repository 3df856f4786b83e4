package pricing

import (
	"math"
	"strings"
	"time"

	"github.com/rentkaro/rentcore/cmd/config"
	"github.com/rentkaro/rentcore/constant"
	"github.com/rentkaro/rentcore/model"
	"github.com/rentkaro/rentcore/utils/errors"
)

// Engine is the pure rental pricing engine: duration math, billing tier
// selection, GST split and late fees. No I/O; callers resolve variants
// before pricing them.
type Engine interface {
	CalculateDuration(start, end time.Time) (*model.RentalDuration, error)
	SelectTier(variant *model.Variant, durationHours float64) (*model.TierSelection, error)
	CalculateItemPrice(variant *model.Variant, start, end time.Time, quantity int64) (*model.ItemPrice, error)
	CalculateGST(amount float64, vendorState, customerState string) *model.GSTBreakdown
	GenerateQuotation(lines []model.QuotationLine, vendorState, customerState string) (*model.Quotation, error)
	CalculateLateFee(endDate, returnedAt time.Time, basePrice float64) *model.LateFeeResult
}

type engineImpl struct {
	gstRate     float64
	lateFeeRate float64
}

func NewEngine(cfg *config.Config) Engine {
	gstRate := constant.DefaultGSTRate
	lateFeeRate := constant.DefaultLateFeeDailyRate
	if cfg != nil && cfg.Rental.GSTRate > 0 {
		gstRate = cfg.Rental.GSTRate
	}
	if cfg != nil && cfg.Rental.LateFeeDailyRate > 0 {
		lateFeeRate = cfg.Rental.LateFeeDailyRate
	}
	return &engineImpl{gstRate: gstRate, lateFeeRate: lateFeeRate}
}

func (e *engineImpl) CalculateDuration(start, end time.Time) (*model.RentalDuration, error) {
	if start.IsZero() || end.IsZero() {
		return nil, errors.SetCustomErrorf(constant.ErrInvalidInterval, "start and end must both be set")
	}
	if !end.After(start) {
		return nil, errors.SetCustomErrorf(constant.ErrInvalidInterval,
			"end %s must be after start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	ms := end.Sub(start).Milliseconds()
	hours := float64(ms) / float64(time.Hour/time.Millisecond)
	return &model.RentalDuration{
		Milliseconds: ms,
		Hours:        hours,
		Days:         hours / 24,
	}, nil
}

// SelectTier picks the smallest-granularity billing tier that covers the
// duration and has a configured rate, falling upward only when a tier in
// range has no rate. This is deliberately not "pick the cheapest tier".
func (e *engineImpl) SelectTier(variant *model.Variant, durationHours float64) (*model.TierSelection, error) {
	if durationHours <= 0 {
		return nil, errors.SetCustomErrorf(constant.ErrInvalidInterval, "duration must be positive, got %.2f hours", durationHours)
	}

	for _, tier := range constant.BillingTiers {
		// Thresholds are exclusive: exactly 24h is DAILY, not HOURLY.
		if durationHours >= tier.ThresholdHours {
			continue
		}
		rate := variant.RateFor(tier.Unit)
		if rate == nil {
			continue
		}
		return &model.TierSelection{
			Unit:    tier.Unit,
			Rate:    *rate,
			Periods: int64(math.Ceil(durationHours / tier.DivisorHours)),
		}, nil
	}

	return nil, errors.SetCustomErrorf(constant.ErrPricingUnavailable,
		"variant %d has no rate configured for a %.1f hour rental", variant.ID, durationHours)
}

func (e *engineImpl) CalculateItemPrice(variant *model.Variant, start, end time.Time, quantity int64) (*model.ItemPrice, error) {
	if quantity <= 0 {
		return nil, errors.SetCustomErrorf(constant.ErrInvalidRequest, "quantity must be positive, got %d", quantity)
	}

	duration, err := e.CalculateDuration(start, end)
	if err != nil {
		return nil, err
	}

	tier, err := e.SelectTier(variant, duration.Hours)
	if err != nil {
		return nil, err
	}

	basePrice := round2(tier.Rate * float64(tier.Periods))
	return &model.ItemPrice{
		Unit:         tier.Unit,
		Periods:      tier.Periods,
		PricePerUnit: tier.Rate,
		BasePrice:    basePrice,
		Total:        round2(basePrice * float64(quantity)),
	}, nil
}

// CalculateGST splits 18% GST by jurisdiction: intra-state rentals pay
// CGST+SGST at half rate each, inter-state pay IGST at the full rate.
// Both branches sum to amount * rate.
func (e *engineImpl) CalculateGST(amount float64, vendorState, customerState string) *model.GSTBreakdown {
	intraState := normalizeState(vendorState) == normalizeState(customerState)

	breakdown := &model.GSTBreakdown{}
	if intraState {
		half := round2(amount * e.gstRate / 2)
		breakdown.CGST = half
		breakdown.SGST = half
	} else {
		breakdown.IGST = round2(amount * e.gstRate)
	}
	breakdown.Total = round2(breakdown.CGST + breakdown.SGST + breakdown.IGST)
	return breakdown
}

func (e *engineImpl) GenerateQuotation(lines []model.QuotationLine, vendorState, customerState string) (*model.Quotation, error) {
	if len(lines) == 0 {
		return nil, errors.SetCustomErrorf(constant.ErrInvalidRequest, "quotation requires at least one line item")
	}

	lineItems := make([]model.QuotationLineItem, 0, len(lines))
	var subtotal float64
	for _, line := range lines {
		price, err := e.CalculateItemPrice(line.Variant, line.StartDate, line.EndDate, line.Quantity)
		if err != nil {
			return nil, err
		}
		lineItems = append(lineItems, model.QuotationLineItem{
			VariantID: line.Variant.ID,
			Name:      line.Variant.Name,
			Quantity:  line.Quantity,
			StartDate: line.StartDate,
			EndDate:   line.EndDate,
			Unit:      price.Unit,
			Periods:   price.Periods,
			UnitPrice: price.PricePerUnit,
			BasePrice: price.BasePrice,
			Total:     price.Total,
		})
		subtotal += price.Total
	}
	subtotal = round2(subtotal)

	// GST is computed once on the aggregate subtotal, not per line.
	tax := e.CalculateGST(subtotal, vendorState, customerState)

	return &model.Quotation{
		LineItems:    lineItems,
		Subtotal:     subtotal,
		TaxBreakdown: tax,
		TotalAmount:  round2(subtotal + tax.Total),
	}, nil
}

// CalculateLateFee charges lateFeeRate of the base price per started day
// past the reservation end. Uncapped.
func (e *engineImpl) CalculateLateFee(endDate, returnedAt time.Time, basePrice float64) *model.LateFeeResult {
	if !returnedAt.After(endDate) {
		return &model.LateFeeResult{}
	}

	daysLate := int64(math.Ceil(returnedAt.Sub(endDate).Hours() / 24))
	return &model.LateFeeResult{
		IsLate:   true,
		DaysLate: daysLate,
		LateFee:  round2(basePrice * e.lateFeeRate * float64(daysLate)),
	}
}

func normalizeState(state string) string {
	return strings.ToLower(strings.TrimSpace(state))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
