package handover

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rentkaro/rentcore/application/invoice"
	"github.com/rentkaro/rentcore/application/notification"
	"github.com/rentkaro/rentcore/application/pricing"
	"github.com/rentkaro/rentcore/constant"
	"github.com/rentkaro/rentcore/model"
	handoverrepo "github.com/rentkaro/rentcore/repository/handover"
	orderrepo "github.com/rentkaro/rentcore/repository/order"
	reservationrepo "github.com/rentkaro/rentcore/repository/reservation"
	txrepo "github.com/rentkaro/rentcore/repository/tx"
	"github.com/rentkaro/rentcore/utils/errors"
	"github.com/rentkaro/rentcore/utils/logger"
	"go.uber.org/zap"
)

// HandoverApp records physical pickup and return events and drives the
// PICKED_UP / RETURNED order transitions.
type HandoverApp interface {
	RecordPickup(ctx context.Context, actorID uint64, role constant.Role, req *model.PickupRequest) (*model.PickupResponse, error)
	RecordReturn(ctx context.Context, actorID uint64, role constant.Role, req *model.ReturnRequest) (*model.ReturnResponse, error)
}

type handoverAppImpl struct {
	txRepo          txrepo.TxRepository
	orderRepo       orderrepo.OrderRepository
	reservationRepo reservationrepo.ReservationRepository
	handoverRepo    handoverrepo.HandoverRepository
	pricingEngine   pricing.Engine
	invoiceApp      invoice.InvoiceApp
	notificationApp notification.NotificationApp
}

func NewHandoverApp(txRepo txrepo.TxRepository, orderRepo orderrepo.OrderRepository, reservationRepo reservationrepo.ReservationRepository, handoverRepo handoverrepo.HandoverRepository, pricingEngine pricing.Engine, invoiceApp invoice.InvoiceApp, notificationApp notification.NotificationApp) HandoverApp {
	return &handoverAppImpl{
		txRepo:          txRepo,
		orderRepo:       orderRepo,
		reservationRepo: reservationRepo,
		handoverRepo:    handoverRepo,
		pricingEngine:   pricingEngine,
		invoiceApp:      invoiceApp,
		notificationApp: notificationApp,
	}
}

// RecordPickup writes one Pickup per targeted reservation and flips the
// order to PICKED_UP, all-or-nothing. Omitted reservation ids mean "pick
// up everything on the order".
func (s *handoverAppImpl) RecordPickup(ctx context.Context, actorID uint64, role constant.Role, req *model.PickupRequest) (*model.PickupResponse, error) {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[RecordPickup] begin tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	order, err := s.orderRepo.GetOrderTx(ctx, tx, req.OrderID)
	if err != nil {
		logger.Error("[RecordPickup] get order", zap.Uint64("order_id", req.OrderID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if order == nil {
		return nil, errors.SetCustomErrorf(constant.ErrNotFound, "order %d does not exist", req.OrderID)
	}

	if order.Status != constant.OrderStatusConfirmed {
		return nil, errors.SetCustomErrorf(constant.ErrInvalidTransition,
			"order %s is %s, items can only be picked up from a CONFIRMED order", order.OrderNumber, order.Status)
	}
	if !actorOwnsVendor(order, actorID, role) {
		return nil, errors.SetCustomErrorf(constant.ErrForbidden,
			"only the order's vendor or an admin can record pickup for order %s", order.OrderNumber)
	}

	reservations, err := s.reservationRepo.GetByOrderTx(ctx, tx, req.OrderID)
	if err != nil {
		logger.Error("[RecordPickup] get reservations", zap.Uint64("order_id", req.OrderID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	targets, err := selectPickupTargets(reservations, req.ReservationIDs)
	if err != nil {
		return nil, err
	}

	pickedUpAt := time.Now().UTC()
	pickups := make([]model.Pickup, 0, len(targets))
	for _, res := range targets {
		pickupID, err := s.handoverRepo.InsertPickupTx(ctx, tx, &model.InsertPickupTxItem{
			OrderID:       order.ID,
			ReservationID: res.ID,
			PickedUpBy:    req.PickedUpBy,
			Notes:         req.Notes,
			PickedUpAt:    pickedUpAt,
		})
		if err != nil {
			logger.Error("[RecordPickup] insert pickup", zap.Uint64("reservation_id", res.ID), zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}
		if err := s.reservationRepo.UpdateStatusTx(ctx, tx, res.ID, constant.ReservationStatusActive); err != nil {
			logger.Error("[RecordPickup] activate reservation", zap.Uint64("reservation_id", res.ID), zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}
		pickups = append(pickups, model.Pickup{
			ID:            pickupID,
			OrderID:       order.ID,
			ReservationID: res.ID,
			PickedUpBy:    req.PickedUpBy,
			Notes:         req.Notes,
			PickedUpAt:    pickedUpAt,
		})
	}

	if err := s.orderRepo.UpdateStatusTx(ctx, tx, order.ID, constant.OrderStatusPickedUp); err != nil {
		logger.Error("[RecordPickup] update order status", zap.Uint64("order_id", order.ID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[RecordPickup] commit tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed = true

	order.Status = constant.OrderStatusPickedUp
	s.notificationApp.Notify(ctx, order.CustomerID, "order_picked_up",
		"Rental picked up",
		fmt.Sprintf("Items on order %s have been handed over.", order.OrderNumber),
		fmt.Sprintf("/orders/%d", order.ID))

	return &model.PickupResponse{Order: order, Pickups: pickups}, nil
}

// RecordReturn completes one reservation, charges any late fee onto the
// invoice, and flips the order to RETURNED once every reservation is
// COMPLETED or CANCELLED. The customer notification is fire-and-forget.
func (s *handoverAppImpl) RecordReturn(ctx context.Context, actorID uint64, role constant.Role, req *model.ReturnRequest) (*model.ReturnResponse, error) {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[RecordReturn] begin tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	order, err := s.orderRepo.GetOrderTx(ctx, tx, req.OrderID)
	if err != nil {
		logger.Error("[RecordReturn] get order", zap.Uint64("order_id", req.OrderID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if order == nil {
		return nil, errors.SetCustomErrorf(constant.ErrNotFound, "order %d does not exist", req.OrderID)
	}

	if order.Status != constant.OrderStatusPickedUp {
		return nil, errors.SetCustomErrorf(constant.ErrInvalidTransition,
			"order %s is %s, returns can only be recorded for a PICKED_UP order", order.OrderNumber, order.Status)
	}
	if !actorOwnsVendor(order, actorID, role) {
		return nil, errors.SetCustomErrorf(constant.ErrForbidden,
			"only the order's vendor or an admin can record a return for order %s", order.OrderNumber)
	}

	res, err := s.reservationRepo.GetByIDTx(ctx, tx, req.ReservationID)
	if err != nil {
		logger.Error("[RecordReturn] get reservation", zap.Uint64("reservation_id", req.ReservationID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if res == nil {
		return nil, errors.SetCustomErrorf(constant.ErrNotFound, "reservation %d does not exist", req.ReservationID)
	}
	if res.OrderID != order.ID {
		return nil, errors.SetCustomErrorf(constant.ErrInvalidRequest,
			"reservation %d does not belong to order %s", res.ID, order.OrderNumber)
	}
	if res.Status == constant.ReservationStatusCompleted {
		return nil, errors.SetCustomErrorf(constant.ErrAlreadyReturned,
			"reservation %d on order %s has already been returned", res.ID, order.OrderNumber)
	}

	pickupID := req.PickupID
	if pickupID == nil {
		pickup, err := s.handoverRepo.GetPickupByReservationTx(ctx, tx, res.ID)
		if err != nil {
			logger.Error("[RecordReturn] get pickup", zap.Uint64("reservation_id", res.ID), zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}
		if pickup != nil {
			pickupID = &pickup.ID
		}
	}

	returnedAt := time.Now().UTC()
	lateInfo := s.pricingEngine.CalculateLateFee(res.EndDate, returnedAt, res.BasePrice)

	returnID, err := s.handoverRepo.InsertReturnTx(ctx, tx, &model.InsertReturnTxItem{
		OrderID:        order.ID,
		ReservationID:  res.ID,
		PickupID:       pickupID,
		ReturnedAt:     returnedAt,
		IsLate:         lateInfo.IsLate,
		LateFee:        lateInfo.LateFee,
		ConditionNotes: req.ConditionNotes,
	})
	if err != nil {
		logger.Error("[RecordReturn] insert return", zap.Uint64("reservation_id", res.ID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.reservationRepo.UpdateStatusTx(ctx, tx, res.ID, constant.ReservationStatusCompleted); err != nil {
		logger.Error("[RecordReturn] complete reservation", zap.Uint64("reservation_id", res.ID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if lateInfo.IsLate {
		description := fmt.Sprintf("Late fee: reservation %d returned %d day(s) late", res.ID, lateInfo.DaysLate)
		if err := s.invoiceApp.AppendLateFeeTx(ctx, tx, order.ID, lateInfo.LateFee, description); err != nil {
			logger.Error("[RecordReturn] append late fee", zap.Uint64("order_id", order.ID), zap.String("error", err.Error()))
			return nil, err
		}
		if err := s.orderRepo.AddToTotalTx(ctx, tx, order.ID, lateInfo.LateFee); err != nil {
			logger.Error("[RecordReturn] amend order total", zap.Uint64("order_id", order.ID), zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}
	}

	allDone, err := s.allReservationsClosed(ctx, tx, order.ID, res.ID)
	if err != nil {
		return nil, err
	}
	if allDone {
		if err := s.orderRepo.UpdateStatusTx(ctx, tx, order.ID, constant.OrderStatusReturned); err != nil {
			logger.Error("[RecordReturn] update order status", zap.Uint64("order_id", order.ID), zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[RecordReturn] commit tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed = true

	if allDone {
		order.Status = constant.OrderStatusReturned
	}
	if lateInfo.IsLate {
		order.TotalAmount += lateInfo.LateFee
	}

	message := fmt.Sprintf("Your return on order %s has been recorded.", order.OrderNumber)
	if lateInfo.IsLate {
		message = fmt.Sprintf("Your return on order %s was %d day(s) late; a late fee of %.2f has been added to your invoice.",
			order.OrderNumber, lateInfo.DaysLate, lateInfo.LateFee)
	}
	s.notificationApp.Notify(ctx, order.CustomerID, "order_returned", "Rental returned", message,
		fmt.Sprintf("/orders/%d", order.ID))

	ret := &model.Return{
		ID:             returnID,
		OrderID:        order.ID,
		ReservationID:  res.ID,
		PickupID:       pickupID,
		ReturnedAt:     returnedAt,
		IsLate:         lateInfo.IsLate,
		LateFee:        lateInfo.LateFee,
		ConditionNotes: req.ConditionNotes,
	}
	return &model.ReturnResponse{Return: ret, Order: order, LateInfo: lateInfo}, nil
}

// allReservationsClosed reports whether every reservation on the order is
// COMPLETED or CANCELLED, counting justCompletedID as COMPLETED since the
// rows were read before its status flip.
func (s *handoverAppImpl) allReservationsClosed(ctx context.Context, tx *sqlx.Tx, orderID, justCompletedID uint64) (bool, error) {
	reservations, err := s.reservationRepo.GetByOrderTx(ctx, tx, orderID)
	if err != nil {
		logger.Error("[RecordReturn] recheck reservations", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
		return false, errors.SetCustomError(constant.ErrInternal)
	}
	for _, r := range reservations {
		if r.ID == justCompletedID {
			continue
		}
		if r.Status.HoldsStock() {
			return false, nil
		}
	}
	return true, nil
}

func selectPickupTargets(reservations []model.Reservation, ids []uint64) ([]model.Reservation, error) {
	byID := make(map[uint64]model.Reservation, len(reservations))
	for _, r := range reservations {
		byID[r.ID] = r
	}

	var targets []model.Reservation
	if len(ids) == 0 {
		for _, r := range reservations {
			if r.Status == constant.ReservationStatusReserved {
				targets = append(targets, r)
			}
		}
	} else {
		for _, id := range ids {
			r, ok := byID[id]
			if !ok {
				return nil, errors.SetCustomErrorf(constant.ErrNotFound, "reservation %d does not belong to this order", id)
			}
			if r.Status != constant.ReservationStatusReserved {
				return nil, errors.SetCustomErrorf(constant.ErrConflict, "reservation %d is %s and cannot be picked up", r.ID, r.Status)
			}
			targets = append(targets, r)
		}
	}

	if len(targets) == 0 {
		return nil, errors.SetCustomErrorf(constant.ErrInvalidRequest, "order has no reservations awaiting pickup")
	}
	return targets, nil
}

func actorOwnsVendor(order *model.Order, actorID uint64, role constant.Role) bool {
	if role == constant.RoleAdmin {
		return true
	}
	return role == constant.RoleVendor && order.VendorID == actorID
}
