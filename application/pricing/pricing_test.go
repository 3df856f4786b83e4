package pricing_test

import (
	"math"
	"testing"
	"time"

	apppricing "github.com/rentkaro/rentcore/application/pricing"
	"github.com/rentkaro/rentcore/constant"
	"github.com/rentkaro/rentcore/model"
	cerr "github.com/rentkaro/rentcore/utils/errors"
)

func floatPtr(v float64) *float64 {
	return &v
}

func fullyPricedVariant() *model.Variant {
	return &model.Variant{
		ID:            1,
		Name:          "DSLR Camera",
		StockQuantity: 5,
		PriceHourly:   floatPtr(50),
		PriceDaily:    floatPtr(300),
		PriceWeekly:   floatPtr(1500),
		PriceMonthly:  floatPtr(4500),
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEngine_CalculateDuration(t *testing.T) {
	engine := apppricing.NewEngine(nil)
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		wantHours float64
		wantErr   bool
		errType   constant.ErrorType
	}{
		{
			name:      "success: four day rental",
			start:     base,
			end:       base.Add(96 * time.Hour),
			wantHours: 96,
		},
		{
			name:      "success: sub-hour rental",
			start:     base,
			end:       base.Add(30 * time.Minute),
			wantHours: 0.5,
		},
		{
			name:    "error: end equals start",
			start:   base,
			end:     base,
			wantErr: true,
			errType: constant.ErrInvalidInterval,
		},
		{
			name:    "error: end before start",
			start:   base,
			end:     base.Add(-time.Hour),
			wantErr: true,
			errType: constant.ErrInvalidInterval,
		},
		{
			name:    "error: zero start",
			start:   time.Time{},
			end:     base,
			wantErr: true,
			errType: constant.ErrInvalidInterval,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.CalculateDuration(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CalculateDuration() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !cerr.IsType(err, tt.errType) {
					t.Fatalf("error type = %v, want %v", cerr.TypeOf(err), tt.errType)
				}
				return
			}
			if !almostEqual(got.Hours, tt.wantHours) {
				t.Fatalf("Hours = %v, want %v", got.Hours, tt.wantHours)
			}
			if !almostEqual(got.Days, tt.wantHours/24) {
				t.Fatalf("Days = %v, want %v", got.Days, tt.wantHours/24)
			}
		})
	}
}

func TestEngine_SelectTier(t *testing.T) {
	engine := apppricing.NewEngine(nil)

	tests := []struct {
		name          string
		variant       *model.Variant
		durationHours float64
		wantUnit      constant.BillingUnit
		wantRate      float64
		wantPeriods   int64
		wantErr       bool
		errType       constant.ErrorType
	}{
		{
			name:          "just under a day bills hourly",
			variant:       fullyPricedVariant(),
			durationHours: 23.5,
			wantUnit:      constant.BillingUnitHourly,
			wantRate:      50,
			wantPeriods:   24,
		},
		{
			name:          "exactly 24 hours bills daily, not hourly",
			variant:       fullyPricedVariant(),
			durationHours: 24,
			wantUnit:      constant.BillingUnitDaily,
			wantRate:      300,
			wantPeriods:   1,
		},
		{
			name:          "just under a week bills daily",
			variant:       fullyPricedVariant(),
			durationHours: 167,
			wantUnit:      constant.BillingUnitDaily,
			wantRate:      300,
			wantPeriods:   7,
		},
		{
			name:          "exactly 168 hours bills weekly",
			variant:       fullyPricedVariant(),
			durationHours: 168,
			wantUnit:      constant.BillingUnitWeekly,
			wantRate:      1500,
			wantPeriods:   1,
		},
		{
			name:          "just under a month bills weekly",
			variant:       fullyPricedVariant(),
			durationHours: 719,
			wantUnit:      constant.BillingUnitWeekly,
			wantRate:      1500,
			wantPeriods:   5,
		},
		{
			name:          "exactly 720 hours bills monthly",
			variant:       fullyPricedVariant(),
			durationHours: 720,
			wantUnit:      constant.BillingUnitMonthly,
			wantRate:      4500,
			wantPeriods:   1,
		},
		{
			name: "missing daily rate falls upward to weekly",
			variant: &model.Variant{
				ID:          2,
				PriceWeekly: floatPtr(1500),
			},
			durationHours: 48,
			wantUnit:      constant.BillingUnitWeekly,
			wantRate:      1500,
			wantPeriods:   1,
		},
		{
			name: "no rates configured at all",
			variant: &model.Variant{
				ID: 3,
			},
			durationHours: 48,
			wantErr:       true,
			errType:       constant.ErrPricingUnavailable,
		},
		{
			name:          "zero duration rejected",
			variant:       fullyPricedVariant(),
			durationHours: 0,
			wantErr:       true,
			errType:       constant.ErrInvalidInterval,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.SelectTier(tt.variant, tt.durationHours)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SelectTier() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !cerr.IsType(err, tt.errType) {
					t.Fatalf("error type = %v, want %v", cerr.TypeOf(err), tt.errType)
				}
				return
			}
			if got.Unit != tt.wantUnit {
				t.Fatalf("Unit = %v, want %v", got.Unit, tt.wantUnit)
			}
			if !almostEqual(got.Rate, tt.wantRate) {
				t.Fatalf("Rate = %v, want %v", got.Rate, tt.wantRate)
			}
			if got.Periods != tt.wantPeriods {
				t.Fatalf("Periods = %v, want %v", got.Periods, tt.wantPeriods)
			}
		})
	}
}

func TestEngine_CalculateItemPrice(t *testing.T) {
	engine := apppricing.NewEngine(nil)
	start := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	t.Run("four days at daily rate times quantity", func(t *testing.T) {
		got, err := engine.CalculateItemPrice(fullyPricedVariant(), start, start.Add(96*time.Hour), 2)
		if err != nil {
			t.Fatalf("CalculateItemPrice() error = %v", err)
		}
		if got.Unit != constant.BillingUnitDaily {
			t.Fatalf("Unit = %v, want DAILY", got.Unit)
		}
		if got.Periods != 4 {
			t.Fatalf("Periods = %v, want 4", got.Periods)
		}
		if !almostEqual(got.BasePrice, 1200) {
			t.Fatalf("BasePrice = %v, want 1200", got.BasePrice)
		}
		if !almostEqual(got.Total, 2400) {
			t.Fatalf("Total = %v, want 2400", got.Total)
		}
	})

	t.Run("partial period rounds up", func(t *testing.T) {
		// 4 days + 1 hour is billed as 5 daily periods
		got, err := engine.CalculateItemPrice(fullyPricedVariant(), start, start.Add(97*time.Hour), 1)
		if err != nil {
			t.Fatalf("CalculateItemPrice() error = %v", err)
		}
		if got.Periods != 5 {
			t.Fatalf("Periods = %v, want 5", got.Periods)
		}
		if !almostEqual(got.Total, 1500) {
			t.Fatalf("Total = %v, want 1500", got.Total)
		}
	})

	t.Run("non-positive quantity rejected", func(t *testing.T) {
		_, err := engine.CalculateItemPrice(fullyPricedVariant(), start, start.Add(24*time.Hour), 0)
		if !cerr.IsType(err, constant.ErrInvalidRequest) {
			t.Fatalf("error type = %v, want ErrInvalidRequest", cerr.TypeOf(err))
		}
	})
}

func TestEngine_CalculateGST(t *testing.T) {
	engine := apppricing.NewEngine(nil)

	tests := []struct {
		name          string
		amount        float64
		vendorState   string
		customerState string
		wantCGST      float64
		wantSGST      float64
		wantIGST      float64
	}{
		{
			name:          "intra-state splits CGST and SGST",
			amount:        1000,
			vendorState:   "Karnataka",
			customerState: "Karnataka",
			wantCGST:      90,
			wantSGST:      90,
		},
		{
			name:          "inter-state charges IGST",
			amount:        1000,
			vendorState:   "Karnataka",
			customerState: "Maharashtra",
			wantIGST:      180,
		},
		{
			name:          "state comparison ignores case and whitespace",
			amount:        1000,
			vendorState:   "  karnataka ",
			customerState: "KARNATAKA",
			wantCGST:      90,
			wantSGST:      90,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := engine.CalculateGST(tt.amount, tt.vendorState, tt.customerState)
			if !almostEqual(got.CGST, tt.wantCGST) {
				t.Fatalf("CGST = %v, want %v", got.CGST, tt.wantCGST)
			}
			if !almostEqual(got.SGST, tt.wantSGST) {
				t.Fatalf("SGST = %v, want %v", got.SGST, tt.wantSGST)
			}
			if !almostEqual(got.IGST, tt.wantIGST) {
				t.Fatalf("IGST = %v, want %v", got.IGST, tt.wantIGST)
			}
			// both jurisdiction branches must sum to the same tax
			if !almostEqual(got.Total, tt.amount*constant.DefaultGSTRate) {
				t.Fatalf("Total = %v, want %v", got.Total, tt.amount*constant.DefaultGSTRate)
			}
		})
	}
}

func TestEngine_GenerateQuotation(t *testing.T) {
	engine := apppricing.NewEngine(nil)
	start := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	t.Run("inter-state quotation totals", func(t *testing.T) {
		lines := []model.QuotationLine{
			{
				Variant:   fullyPricedVariant(),
				Quantity:  2,
				StartDate: start,
				EndDate:   start.Add(96 * time.Hour),
			},
		}
		got, err := engine.GenerateQuotation(lines, "Karnataka", "Maharashtra")
		if err != nil {
			t.Fatalf("GenerateQuotation() error = %v", err)
		}
		if len(got.LineItems) != 1 {
			t.Fatalf("LineItems = %d, want 1", len(got.LineItems))
		}
		if !almostEqual(got.Subtotal, 2400) {
			t.Fatalf("Subtotal = %v, want 2400", got.Subtotal)
		}
		if !almostEqual(got.TaxBreakdown.IGST, 432) {
			t.Fatalf("IGST = %v, want 432", got.TaxBreakdown.IGST)
		}
		if !almostEqual(got.TotalAmount, 2832) {
			t.Fatalf("TotalAmount = %v, want 2832", got.TotalAmount)
		}
	})

	t.Run("empty line items rejected", func(t *testing.T) {
		_, err := engine.GenerateQuotation(nil, "Karnataka", "Karnataka")
		if !cerr.IsType(err, constant.ErrInvalidRequest) {
			t.Fatalf("error type = %v, want ErrInvalidRequest", cerr.TypeOf(err))
		}
	})

	t.Run("unpriceable line fails the whole quotation", func(t *testing.T) {
		lines := []model.QuotationLine{
			{
				Variant:   fullyPricedVariant(),
				Quantity:  1,
				StartDate: start,
				EndDate:   start.Add(24 * time.Hour),
			},
			{
				Variant:   &model.Variant{ID: 9},
				Quantity:  1,
				StartDate: start,
				EndDate:   start.Add(24 * time.Hour),
			},
		}
		_, err := engine.GenerateQuotation(lines, "Karnataka", "Karnataka")
		if !cerr.IsType(err, constant.ErrPricingUnavailable) {
			t.Fatalf("error type = %v, want ErrPricingUnavailable", cerr.TypeOf(err))
		}
	})
}

func TestEngine_CalculateLateFee(t *testing.T) {
	engine := apppricing.NewEngine(nil)
	endDate := time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		returnedAt   time.Time
		basePrice    float64
		wantIsLate   bool
		wantDaysLate int64
		wantLateFee  float64
	}{
		{
			name:       "on-time return",
			returnedAt: endDate,
			basePrice:  1000,
		},
		{
			name:       "early return",
			returnedAt: endDate.Add(-2 * time.Hour),
			basePrice:  1000,
		},
		{
			name:         "six hours late counts as one day",
			returnedAt:   endDate.Add(6 * time.Hour),
			basePrice:    1000,
			wantIsLate:   true,
			wantDaysLate: 1,
			wantLateFee:  200,
		},
		{
			name:         "exactly two days late",
			returnedAt:   time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC),
			basePrice:    1000,
			wantIsLate:   true,
			wantDaysLate: 2,
			wantLateFee:  400,
		},
		{
			name:         "fee is uncapped past the base price",
			returnedAt:   endDate.Add(10 * 24 * time.Hour),
			basePrice:    1000,
			wantIsLate:   true,
			wantDaysLate: 10,
			wantLateFee:  2000,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := engine.CalculateLateFee(endDate, tt.returnedAt, tt.basePrice)
			if got.IsLate != tt.wantIsLate {
				t.Fatalf("IsLate = %v, want %v", got.IsLate, tt.wantIsLate)
			}
			if got.DaysLate != tt.wantDaysLate {
				t.Fatalf("DaysLate = %v, want %v", got.DaysLate, tt.wantDaysLate)
			}
			if !almostEqual(got.LateFee, tt.wantLateFee) {
				t.Fatalf("LateFee = %v, want %v", got.LateFee, tt.wantLateFee)
			}
		})
	}
}
