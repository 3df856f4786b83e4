package invoice

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rentkaro/rentcore/constant"
	"github.com/rentkaro/rentcore/model"
	invoicerepo "github.com/rentkaro/rentcore/repository/invoice"
	txrepo "github.com/rentkaro/rentcore/repository/tx"
	"github.com/rentkaro/rentcore/utils/errors"
	"github.com/rentkaro/rentcore/utils/logger"
	"go.uber.org/zap"
)

// InvoiceApp is the invoice collaborator consumed by the order lifecycle.
// Invoice creation during confirm is transactional with the status change,
// so the Tx methods run inside the caller's transaction.
type InvoiceApp interface {
	GenerateInvoiceTx(ctx context.Context, tx *sqlx.Tx, order *model.Order) (*model.Invoice, error)
	AppendLateFeeTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, amount float64, description string) error
	RecordPayment(ctx context.Context, req *model.RecordPaymentRequest) (*model.Invoice, error)
}

type invoiceAppImpl struct {
	txRepo      txrepo.TxRepository
	invoiceRepo invoicerepo.InvoiceRepository
}

func NewInvoiceApp(txRepo txrepo.TxRepository, invoiceRepo invoicerepo.InvoiceRepository) InvoiceApp {
	return &invoiceAppImpl{txRepo: txRepo, invoiceRepo: invoiceRepo}
}

// GenerateInvoiceTx is idempotent: confirming an order that already has an
// invoice returns the existing one untouched.
func (s *invoiceAppImpl) GenerateInvoiceTx(ctx context.Context, tx *sqlx.Tx, order *model.Order) (*model.Invoice, error) {
	existing, err := s.invoiceRepo.GetByOrderTx(ctx, tx, order.ID)
	if err != nil {
		logger.Error("[GenerateInvoiceTx] get by order", zap.Uint64("order_id", order.ID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if existing != nil {
		return existing, nil
	}

	invoiceNumber := "INV-" + order.OrderNumber
	id, err := s.invoiceRepo.InsertInvoiceTx(ctx, tx, order.ID, invoiceNumber, order.TotalAmount)
	if err != nil {
		logger.Error("[GenerateInvoiceTx] insert invoice", zap.Uint64("order_id", order.ID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	description := fmt.Sprintf("Rental charges for order %s", order.OrderNumber)
	if err := s.invoiceRepo.InsertLineItemTx(ctx, tx, id, description, order.TotalAmount); err != nil {
		logger.Error("[GenerateInvoiceTx] insert line item", zap.Uint64("invoice_id", id), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return &model.Invoice{
		ID:            id,
		OrderID:       order.ID,
		InvoiceNumber: invoiceNumber,
		TotalAmount:   order.TotalAmount,
		Outstanding:   order.TotalAmount,
	}, nil
}

// AppendLateFeeTx adds a late-fee line item and bumps the invoice's
// outstanding balance within the caller's return transaction.
func (s *invoiceAppImpl) AppendLateFeeTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, amount float64, description string) error {
	inv, err := s.invoiceRepo.GetByOrderTx(ctx, tx, orderID)
	if err != nil {
		logger.Error("[AppendLateFeeTx] get by order", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	if inv == nil {
		return errors.SetCustomErrorf(constant.ErrNotFound, "no invoice exists for order %d", orderID)
	}

	if err := s.invoiceRepo.InsertLineItemTx(ctx, tx, inv.ID, description, amount); err != nil {
		logger.Error("[AppendLateFeeTx] insert line item", zap.Uint64("invoice_id", inv.ID), zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	if err := s.invoiceRepo.AddOutstandingTx(ctx, tx, inv.ID, amount); err != nil {
		logger.Error("[AppendLateFeeTx] add outstanding", zap.Uint64("invoice_id", inv.ID), zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	return nil
}

func (s *invoiceAppImpl) RecordPayment(ctx context.Context, req *model.RecordPaymentRequest) (*model.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, req.InvoiceID)
	if err != nil {
		logger.Error("[RecordPayment] get invoice", zap.Uint64("invoice_id", req.InvoiceID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if inv == nil {
		return nil, errors.SetCustomErrorf(constant.ErrNotFound, "invoice %d does not exist", req.InvoiceID)
	}
	if req.Amount > inv.Outstanding {
		return nil, errors.SetCustomErrorf(constant.ErrInvalidRequest,
			"payment %.2f exceeds outstanding balance %.2f on invoice %d", req.Amount, inv.Outstanding, inv.ID)
	}

	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[RecordPayment] begin tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	if err := s.invoiceRepo.RecordPaymentTx(ctx, tx, req.InvoiceID, req.Amount, req.Method, req.TxnID); err != nil {
		logger.Error("[RecordPayment] record payment", zap.Uint64("invoice_id", req.InvoiceID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[RecordPayment] commit tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed = true

	updated, err := s.invoiceRepo.GetByID(ctx, req.InvoiceID)
	if err != nil {
		logger.Error("[RecordPayment] reload invoice", zap.Uint64("invoice_id", req.InvoiceID), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return updated, nil
}
