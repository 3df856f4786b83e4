package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentkaro/rentcore/application/invoice"
	"github.com/rentkaro/rentcore/application/notification"
	"github.com/rentkaro/rentcore/application/pricing"
	"github.com/rentkaro/rentcore/application/reservation"
	"github.com/rentkaro/rentcore/cmd/config"
	"github.com/rentkaro/rentcore/constant"
	"github.com/rentkaro/rentcore/model"
	orderrepo "github.com/rentkaro/rentcore/repository/order"
	txrepo "github.com/rentkaro/rentcore/repository/tx"
	variantrepo "github.com/rentkaro/rentcore/repository/variant"
	"github.com/rentkaro/rentcore/utils/errors"
	"github.com/rentkaro/rentcore/utils/logger"
	"go.uber.org/zap"
)

type OrderApp interface {
	CreateOrder(ctx context.Context, customerID uint64, req *model.OrderRequest) (*model.OrderResponse, error)
	ConfirmOrder(ctx context.Context, orderID, actorID uint64, role constant.Role) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID, actorID uint64, role constant.Role) (*model.Order, error)
	GetOrder(ctx context.Context, orderID, actorID uint64, role constant.Role) (*model.OrderDetailResponse, error)
	GenerateQuotation(ctx context.Context, req *model.QuotationRequest) (*model.Quotation, error)
}

type orderAppImpl struct {
	config          *config.Config
	txRepo          txrepo.TxRepository
	orderRepo       orderrepo.OrderRepository
	variantRepo     variantrepo.VariantRepository
	reservationApp  reservation.ReservationApp
	pricingEngine   pricing.Engine
	invoiceApp      invoice.InvoiceApp
	notificationApp notification.NotificationApp
}

func NewOrderApp(cfg *config.Config, txRepo txrepo.TxRepository, orderRepo orderrepo.OrderRepository, variantRepo variantrepo.VariantRepository, reservationApp reservation.ReservationApp, pricingEngine pricing.Engine, invoiceApp invoice.InvoiceApp, notificationApp notification.NotificationApp) OrderApp {
	return &orderAppImpl{
		config:          cfg,
		txRepo:          txRepo,
		orderRepo:       orderRepo,
		variantRepo:     variantRepo,
		reservationApp:  reservationApp,
		pricingEngine:   pricingEngine,
		invoiceApp:      invoiceApp,
		notificationApp: notificationApp,
	}
}

// CreateOrder prices the items with the same engine quotations use, then
// persists the order and its reservations as one transaction. A
// reservation conflict on any item fails the whole creation; nothing is
// persisted.
func (s *orderAppImpl) CreateOrder(ctx context.Context, customerID uint64, req *model.OrderRequest) (*model.OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, errors.SetCustomErrorf(constant.ErrInvalidRequest, "order requires at least one item")
	}

	parsed, err := parseItems(req.Items)
	if err != nil {
		return nil, err
	}

	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[CreateOrder] begin tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	// resolve variants and check single-vendor ownership
	ids := make([]uint64, 0, len(parsed))
	for _, item := range parsed {
		ids = append(ids, item.variantID)
	}
	variants, err := s.variantRepo.GetByIDsTx(ctx, tx, ids)
	if err != nil {
		logger.Error("[CreateOrder] get variants", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	variantByID := make(map[uint64]*model.Variant, len(variants))
	for i := range variants {
		variantByID[variants[i].ID] = &variants[i]
	}

	vendorState := ""
	for _, item := range parsed {
		variant, ok := variantByID[item.variantID]
		if !ok {
			return nil, errors.SetCustomErrorf(constant.ErrNotFound, "variant %d does not exist", item.variantID)
		}
		if variant.VendorID != req.VendorID {
			return nil, errors.SetCustomErrorf(constant.ErrInvalidRequest,
				"variant %d belongs to vendor %d, not %d", variant.ID, variant.VendorID, req.VendorID)
		}
		vendorState = variant.VendorState
	}

	// price every item before touching stock
	var subtotal float64
	envelopeStart, envelopeEnd := parsed[0].start, parsed[0].end
	reserveItems := make([]model.ReserveItem, 0, len(parsed))
	for _, item := range parsed {
		price, err := s.pricingEngine.CalculateItemPrice(variantByID[item.variantID], item.start, item.end, item.quantity)
		if err != nil {
			return nil, err
		}
		subtotal += price.Total

		if item.start.Before(envelopeStart) {
			envelopeStart = item.start
		}
		if item.end.After(envelopeEnd) {
			envelopeEnd = item.end
		}

		reserveItems = append(reserveItems, model.ReserveItem{
			VariantID: item.variantID,
			Quantity:  item.quantity,
			StartDate: item.start,
			EndDate:   item.end,
			BasePrice: price.Total,
		})
	}

	tax := s.pricingEngine.CalculateGST(subtotal, vendorState, req.CustomerState)
	totalAmount := subtotal + tax.Total

	orderNumber := s.generateOrderNumber()
	orderID, err := s.orderRepo.InsertOrderTx(ctx, tx, &model.InsertOrderTxItem{
		OrderNumber:   orderNumber,
		CustomerID:    customerID,
		VendorID:      req.VendorID,
		CustomerState: req.CustomerState,
		VendorState:   vendorState,
		Subtotal:      subtotal,
		TaxAmount:     tax.Total,
		TotalAmount:   totalAmount,
		StartDate:     envelopeStart,
		EndDate:       envelopeEnd,
		Status:        constant.OrderStatusPending,
	})
	if err != nil {
		logger.Error("[CreateOrder] insert order", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.reservationApp.ReserveTx(ctx, tx, orderID, reserveItems); err != nil {
		return nil, err
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[CreateOrder] commit tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed = true

	return &model.OrderResponse{
		OrderID:     orderID,
		OrderNumber: orderNumber,
		Status:      constant.OrderStatusPending,
		Subtotal:    subtotal,
		Tax:         tax,
		TotalAmount: totalAmount,
		StartDate:   envelopeStart,
		EndDate:     envelopeEnd,
	}, nil
}

// ConfirmOrder moves PENDING -> CONFIRMED. The invoice record is created
// in the same transaction as the status flip; the customer notification
// goes out after commit and may fail silently.
func (s *orderAppImpl) ConfirmOrder(ctx context.Context, orderID, actorID uint64, role constant.Role) (*model.Order, error) {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[ConfirmOrder] begin tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	order, err := s.orderRepo.GetOrderTx(ctx, tx, orderID)
	if err != nil {
		logger.Error("[ConfirmOrder] get order", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if order == nil {
		return nil, errors.SetCustomErrorf(constant.ErrNotFound, "order %d does not exist", orderID)
	}

	if !constant.CanTransitionOrder(order.Status, constant.OrderStatusConfirmed) {
		return nil, errors.SetCustomErrorf(constant.ErrInvalidTransition,
			"order %s is %s, only PENDING orders can be confirmed", order.OrderNumber, order.Status)
	}
	if !isVendorOrAdmin(order, actorID, role) {
		return nil, errors.SetCustomErrorf(constant.ErrForbidden,
			"only the order's vendor or an admin can confirm order %s", order.OrderNumber)
	}

	if _, err := s.invoiceApp.GenerateInvoiceTx(ctx, tx, order); err != nil {
		logger.Error("[ConfirmOrder] generate invoice", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
		return nil, err
	}

	if err := s.orderRepo.UpdateStatusTx(ctx, tx, orderID, constant.OrderStatusConfirmed); err != nil {
		logger.Error("[ConfirmOrder] update status", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[ConfirmOrder] commit tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed = true

	order.Status = constant.OrderStatusConfirmed
	s.notificationApp.Notify(ctx, order.CustomerID, "order_confirmed",
		"Order confirmed",
		fmt.Sprintf("Your rental order %s has been confirmed.", order.OrderNumber),
		fmt.Sprintf("/orders/%d", order.ID))
	return order, nil
}

// CancelOrder releases the order's reservations and flips the status in
// one transaction. Legal from PENDING and CONFIRMED only.
func (s *orderAppImpl) CancelOrder(ctx context.Context, orderID, actorID uint64, role constant.Role) (*model.Order, error) {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[CancelOrder] begin tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	order, err := s.orderRepo.GetOrderTx(ctx, tx, orderID)
	if err != nil {
		logger.Error("[CancelOrder] get order", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if order == nil {
		return nil, errors.SetCustomErrorf(constant.ErrNotFound, "order %d does not exist", orderID)
	}

	if !constant.CanTransitionOrder(order.Status, constant.OrderStatusCancelled) {
		return nil, errors.SetCustomErrorf(constant.ErrInvalidTransition,
			"order %s is %s, only PENDING or CONFIRMED orders can be cancelled", order.OrderNumber, order.Status)
	}
	if !isParticipantOrAdmin(order, actorID, role) {
		return nil, errors.SetCustomErrorf(constant.ErrForbidden,
			"only the order's customer, vendor or an admin can cancel order %s", order.OrderNumber)
	}

	if _, err := s.reservationApp.ReleaseTx(ctx, tx, orderID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateStatusTx(ctx, tx, orderID, constant.OrderStatusCancelled); err != nil {
		logger.Error("[CancelOrder] update status", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[CancelOrder] commit tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed = true

	order.Status = constant.OrderStatusCancelled
	s.notificationApp.Notify(ctx, order.CustomerID, "order_cancelled",
		"Order cancelled",
		fmt.Sprintf("Rental order %s has been cancelled.", order.OrderNumber),
		fmt.Sprintf("/orders/%d", order.ID))
	return order, nil
}

func (s *orderAppImpl) GetOrder(ctx context.Context, orderID, actorID uint64, role constant.Role) (*model.OrderDetailResponse, error) {
	order, err := s.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		logger.Error("[GetOrder] get order", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if order == nil {
		return nil, errors.SetCustomErrorf(constant.ErrNotFound, "order %d does not exist", orderID)
	}
	if !isParticipantOrAdmin(order, actorID, role) {
		return nil, errors.SetCustomErrorf(constant.ErrForbidden, "actor %d may not view order %s", actorID, order.OrderNumber)
	}

	reservations, err := s.reservationApp.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &model.OrderDetailResponse{
		Order:        order,
		Reservations: reservations,
	}, nil
}

// GenerateQuotation runs the full jurisdiction-aware pricing engine over
// resolved variants without reserving anything.
func (s *orderAppImpl) GenerateQuotation(ctx context.Context, req *model.QuotationRequest) (*model.Quotation, error) {
	if len(req.Items) == 0 {
		return nil, errors.SetCustomErrorf(constant.ErrInvalidRequest, "quotation requires at least one item")
	}

	lines := make([]model.QuotationLine, 0, len(req.Items))
	for _, item := range req.Items {
		start, end, err := parseInterval(item.StartDate, item.EndDate)
		if err != nil {
			return nil, err
		}
		variant, err := s.variantRepo.GetByID(ctx, item.VariantID)
		if err != nil {
			logger.Error("[GenerateQuotation] get variant", zap.Uint64("variant_id", item.VariantID), zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}
		if variant == nil {
			return nil, errors.SetCustomErrorf(constant.ErrNotFound, "variant %d does not exist", item.VariantID)
		}
		lines = append(lines, model.QuotationLine{
			Variant:   variant,
			Quantity:  item.Quantity,
			StartDate: start,
			EndDate:   end,
		})
	}

	return s.pricingEngine.GenerateQuotation(lines, req.VendorState, req.CustomerState)
}

type parsedItem struct {
	variantID uint64
	quantity  int64
	start     time.Time
	end       time.Time
}

func parseItems(items []model.OrderItemRequest) ([]parsedItem, error) {
	parsed := make([]parsedItem, 0, len(items))
	for _, item := range items {
		start, end, err := parseInterval(item.StartDate, item.EndDate)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, parsedItem{
			variantID: item.VariantID,
			quantity:  item.Quantity,
			start:     start,
			end:       end,
		})
	}
	return parsed, nil
}

func parseInterval(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.SetCustomErrorf(constant.ErrInvalidInterval, "unparseable start date %q", startStr)
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.SetCustomErrorf(constant.ErrInvalidInterval, "unparseable end date %q", endStr)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, errors.SetCustomErrorf(constant.ErrInvalidInterval,
			"end %s must be after start %s", endStr, startStr)
	}
	return start, end, nil
}

// generateOrderNumber builds a date-stamped human-readable order number.
// The random suffix makes collisions negligible; a unique index on the
// column backstops the remote chance.
func (s *orderAppImpl) generateOrderNumber() string {
	prefix := "RNT"
	if s.config != nil && s.config.Rental.OrderNumberPrefix != "" {
		prefix = s.config.Rental.OrderNumberPrefix
	}
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().UTC().Format("20060102"), suffix)
}

func isVendorOrAdmin(order *model.Order, actorID uint64, role constant.Role) bool {
	if role == constant.RoleAdmin {
		return true
	}
	return role == constant.RoleVendor && order.VendorID == actorID
}

func isParticipantOrAdmin(order *model.Order, actorID uint64, role constant.Role) bool {
	switch role {
	case constant.RoleAdmin:
		return true
	case constant.RoleVendor:
		return order.VendorID == actorID
	case constant.RoleCustomer:
		return order.CustomerID == actorID
	}
	return false
}
