package reservation

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rentkaro/rentcore/constant"
	"github.com/rentkaro/rentcore/model"
	reservationrepo "github.com/rentkaro/rentcore/repository/reservation"
	txrepo "github.com/rentkaro/rentcore/repository/tx"
	variantrepo "github.com/rentkaro/rentcore/repository/variant"
	"github.com/rentkaro/rentcore/utils/errors"
	"github.com/rentkaro/rentcore/utils/logger"
	"go.uber.org/zap"
)

// ReservationApp owns the stock-allocation invariant: for any variant and
// any instant, stock-holding reservations covering that instant never sum
// past the variant's stock.
type ReservationApp interface {
	ReserveTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, items []model.ReserveItem) error
	ReleaseTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (int64, error)
	Release(ctx context.Context, orderID uint64) (int64, error)
	GetByOrder(ctx context.Context, orderID uint64) ([]model.Reservation, error)
	GetAvailability(ctx context.Context, variantID uint64, start, end time.Time) (*model.AvailabilityResponse, error)
}

type reservationAppImpl struct {
	txRepo          txrepo.TxRepository
	variantRepo     variantrepo.VariantRepository
	reservationRepo reservationrepo.ReservationRepository
}

func NewReservationApp(txRepo txrepo.TxRepository, variantRepo variantrepo.VariantRepository, reservationRepo reservationrepo.ReservationRepository) ReservationApp {
	return &reservationAppImpl{
		txRepo:          txRepo,
		variantRepo:     variantRepo,
		reservationRepo: reservationRepo,
	}
}

// ReserveTx reserves every item or none. The caller owns the transaction;
// any error means the caller must roll back. The variant row lock taken
// before the overlap check serializes concurrent reservations per variant,
// so two requests for the last unit on overlapping dates cannot both pass.
func (s *reservationAppImpl) ReserveTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, items []model.ReserveItem) error {
	if len(items) == 0 {
		return errors.SetCustomErrorf(constant.ErrInvalidRequest, "reservation batch is empty")
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			return errors.SetCustomErrorf(constant.ErrInvalidRequest, "variant %d: quantity must be positive", item.VariantID)
		}
		if !item.EndDate.After(item.StartDate) {
			return errors.SetCustomErrorf(constant.ErrInvalidInterval, "variant %d: end date must be after start date", item.VariantID)
		}

		variant, err := s.variantRepo.LockVariantTx(ctx, tx, item.VariantID)
		if err != nil {
			logger.Error("[ReserveTx] lock variant", zap.Uint64("variant_id", item.VariantID), zap.String("error", err.Error()))
			return errors.SetCustomError(constant.ErrInternal)
		}
		if variant == nil {
			return errors.SetCustomErrorf(constant.ErrNotFound, "variant %d does not exist", item.VariantID)
		}

		demand, err := s.reservationRepo.GetOverlappingDemandTx(ctx, tx, item.VariantID, item.StartDate, item.EndDate)
		if err != nil {
			logger.Error("[ReserveTx] overlapping demand", zap.Uint64("variant_id", item.VariantID), zap.String("error", err.Error()))
			return errors.SetCustomError(constant.ErrInternal)
		}

		if demand+item.Quantity > variant.StockQuantity {
			logger.Info("[ReserveTx] reservation conflict",
				zap.Uint64("variant_id", item.VariantID),
				zap.Int64("existing_demand", demand),
				zap.Int64("requested", item.Quantity),
				zap.Int64("stock", variant.StockQuantity))
			return errors.SetCustomErrorf(constant.ErrConflict,
				"variant %d: %d units requested but only %d of %d available for the period",
				item.VariantID, item.Quantity, variant.StockQuantity-demand, variant.StockQuantity)
		}

		_, err = s.reservationRepo.InsertReservationTx(ctx, tx, &model.InsertReservationTxItem{
			OrderID:   orderID,
			VariantID: item.VariantID,
			StartDate: item.StartDate,
			EndDate:   item.EndDate,
			Quantity:  item.Quantity,
			BasePrice: item.BasePrice,
			Status:    constant.ReservationStatusReserved,
		})
		if err != nil {
			logger.Error("[ReserveTx] insert reservation", zap.Uint64("variant_id", item.VariantID), zap.String("error", err.Error()))
			return errors.SetCustomError(constant.ErrInternal)
		}
	}

	return nil
}

func (s *reservationAppImpl) ReleaseTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (int64, error) {
	released, err := s.reservationRepo.ReleaseByOrderTx(ctx, tx, orderID)
	if err != nil {
		logger.Error("[ReleaseTx] release by order", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
		return 0, errors.SetCustomError(constant.ErrInternal)
	}
	return released, nil
}

// Release cancels an order's stock-holding reservations in its own
// transaction. Releasing an already-released order is a no-op returning 0.
func (s *reservationAppImpl) Release(ctx context.Context, orderID uint64) (int64, error) {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[Release] begin tx", zap.String("error", err.Error()))
		return 0, errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	released, err := s.ReleaseTx(ctx, tx, orderID)
	if err != nil {
		return 0, err
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[Release] commit tx", zap.String("error", err.Error()))
		return 0, errors.SetCustomError(constant.ErrInternal)
	}
	committed = true
	return released, nil
}

func (s *reservationAppImpl) GetByOrder(ctx context.Context, orderID uint64) ([]model.Reservation, error) {
	reservations, err := s.reservationRepo.GetByOrder(ctx, orderID)
	if err != nil {
		logger.Error("[GetByOrder] get reservations", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return reservations, nil
}

// GetAvailability answers "how many units are free for this window"
// without taking locks; reservation writers are never blocked by readers.
func (s *reservationAppImpl) GetAvailability(ctx context.Context, variantID uint64, start, end time.Time) (*model.AvailabilityResponse, error) {
	if !end.After(start) {
		return nil, errors.SetCustomErrorf(constant.ErrInvalidInterval, "end date must be after start date")
	}

	variant, err := s.variantRepo.GetByID(ctx, variantID)
	if err != nil {
		logger.Error("[GetAvailability] get variant", zap.Uint64("variant_id", variantID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if variant == nil {
		return nil, errors.SetCustomErrorf(constant.ErrNotFound, "variant %d does not exist", variantID)
	}

	demand, err := s.reservationRepo.GetOverlappingDemand(ctx, variantID, start, end)
	if err != nil {
		logger.Error("[GetAvailability] overlapping demand", zap.Uint64("variant_id", variantID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	available := variant.StockQuantity - demand
	if available < 0 {
		available = 0
	}
	return &model.AvailabilityResponse{
		VariantID:      variantID,
		StartDate:      start,
		EndDate:        end,
		StockQuantity:  variant.StockQuantity,
		ReservedUnits:  demand,
		AvailableUnits: available,
	}, nil
}
