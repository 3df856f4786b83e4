package invoice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	appinvoice "github.com/rentkaro/rentcore/application/invoice"
	"github.com/rentkaro/rentcore/constant"
	invoicemocks "github.com/rentkaro/rentcore/mocks/repository/invoice"
	txmocks "github.com/rentkaro/rentcore/mocks/repository/tx"
	"github.com/rentkaro/rentcore/model"
	cerr "github.com/rentkaro/rentcore/utils/errors"
	"github.com/stretchr/testify/mock"
)

func TestInvoiceApp_GenerateInvoiceTx(t *testing.T) {
	order := &model.Order{
		ID:          42,
		OrderNumber: "RNT-20260201-AB12CD34",
		TotalAmount: 2832,
	}

	t.Run("success: creates the invoice with a rental charges line", func(t *testing.T) {
		txRepo := txmocks.NewTxRepository(t)
		invoiceRepo := invoicemocks.NewInvoiceRepository(t)
		tx := &sqlx.Tx{}

		invoiceRepo.On("GetByOrderTx", mock.Anything, tx, uint64(42)).Return(nil, nil).Once()
		invoiceRepo.On("InsertInvoiceTx", mock.Anything, tx, uint64(42), "INV-RNT-20260201-AB12CD34", float64(2832)).Return(uint64(5), nil).Once()
		invoiceRepo.On("InsertLineItemTx", mock.Anything, tx, uint64(5), mock.Anything, float64(2832)).Return(nil).Once()

		app := appinvoice.NewInvoiceApp(txRepo, invoiceRepo)
		got, err := app.GenerateInvoiceTx(context.Background(), tx, order)
		if err != nil {
			t.Fatalf("GenerateInvoiceTx() error = %v", err)
		}
		if got.InvoiceNumber != "INV-RNT-20260201-AB12CD34" {
			t.Fatalf("InvoiceNumber = %v", got.InvoiceNumber)
		}
		if got.Outstanding != 2832 {
			t.Fatalf("Outstanding = %v, want 2832", got.Outstanding)
		}
	})

	t.Run("success: second call returns the existing invoice untouched", func(t *testing.T) {
		txRepo := txmocks.NewTxRepository(t)
		invoiceRepo := invoicemocks.NewInvoiceRepository(t)
		tx := &sqlx.Tx{}

		existing := &model.Invoice{
			ID:            5,
			OrderID:       42,
			InvoiceNumber: "INV-RNT-20260201-AB12CD34",
			TotalAmount:   2832,
			Outstanding:   2832,
		}
		invoiceRepo.On("GetByOrderTx", mock.Anything, tx, uint64(42)).Return(existing, nil).Once()

		app := appinvoice.NewInvoiceApp(txRepo, invoiceRepo)
		got, err := app.GenerateInvoiceTx(context.Background(), tx, order)
		if err != nil {
			t.Fatalf("GenerateInvoiceTx() error = %v", err)
		}
		if got.ID != 5 {
			t.Fatalf("ID = %v, want existing invoice 5", got.ID)
		}
		invoiceRepo.AssertNotCalled(t, "InsertInvoiceTx")
	})
}

func TestInvoiceApp_AppendLateFeeTx(t *testing.T) {
	t.Run("success: adds a line item and bumps outstanding", func(t *testing.T) {
		txRepo := txmocks.NewTxRepository(t)
		invoiceRepo := invoicemocks.NewInvoiceRepository(t)
		tx := &sqlx.Tx{}

		invoiceRepo.On("GetByOrderTx", mock.Anything, tx, uint64(42)).Return(&model.Invoice{ID: 5, OrderID: 42}, nil).Once()
		invoiceRepo.On("InsertLineItemTx", mock.Anything, tx, uint64(5), "Late fee: reservation 10 returned 2 day(s) late", float64(400)).Return(nil).Once()
		invoiceRepo.On("AddOutstandingTx", mock.Anything, tx, uint64(5), float64(400)).Return(nil).Once()

		app := appinvoice.NewInvoiceApp(txRepo, invoiceRepo)
		err := app.AppendLateFeeTx(context.Background(), tx, 42, 400, "Late fee: reservation 10 returned 2 day(s) late")
		if err != nil {
			t.Fatalf("AppendLateFeeTx() error = %v", err)
		}
	})

	t.Run("error: no invoice for the order", func(t *testing.T) {
		txRepo := txmocks.NewTxRepository(t)
		invoiceRepo := invoicemocks.NewInvoiceRepository(t)
		tx := &sqlx.Tx{}

		invoiceRepo.On("GetByOrderTx", mock.Anything, tx, uint64(42)).Return(nil, nil).Once()

		app := appinvoice.NewInvoiceApp(txRepo, invoiceRepo)
		err := app.AppendLateFeeTx(context.Background(), tx, 42, 400, "late fee")
		if !cerr.IsType(err, constant.ErrNotFound) {
			t.Fatalf("error type = %v, want ErrNotFound", cerr.TypeOf(err))
		}
	})
}

func TestInvoiceApp_RecordPayment(t *testing.T) {
	req := &model.RecordPaymentRequest{
		InvoiceID: 5,
		Amount:    1000,
		Method:    "upi",
		TxnID:     "TXN-123",
	}

	tests := []struct {
		name     string
		req      *model.RecordPaymentRequest
		mockCall func(txRepo *txmocks.TxRepository, invoiceRepo *invoicemocks.InvoiceRepository)
		wantErr  bool
		errType  constant.ErrorType
	}{
		{
			name: "success: partial payment",
			req:  req,
			mockCall: func(txRepo *txmocks.TxRepository, invoiceRepo *invoicemocks.InvoiceRepository) {
				invoiceRepo.On("GetByID", mock.Anything, uint64(5)).Return(&model.Invoice{
					ID:          5,
					TotalAmount: 2832,
					Outstanding: 2832,
				}, nil).Once()

				tx := &sqlx.Tx{}
				txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				txRepo.On("CommitTx", tx).Return(nil).Once()

				invoiceRepo.On("RecordPaymentTx", mock.Anything, tx, uint64(5), float64(1000), "upi", "TXN-123").Return(nil).Once()

				invoiceRepo.On("GetByID", mock.Anything, uint64(5)).Return(&model.Invoice{
					ID:          5,
					TotalAmount: 2832,
					PaidAmount:  1000,
					Outstanding: 1832,
				}, nil).Once()
			},
			wantErr: false,
		},
		{
			name: "error: payment exceeds outstanding balance",
			req: &model.RecordPaymentRequest{
				InvoiceID: 5,
				Amount:    5000,
				Method:    "upi",
				TxnID:     "TXN-124",
			},
			mockCall: func(txRepo *txmocks.TxRepository, invoiceRepo *invoicemocks.InvoiceRepository) {
				invoiceRepo.On("GetByID", mock.Anything, uint64(5)).Return(&model.Invoice{
					ID:          5,
					TotalAmount: 2832,
					Outstanding: 2832,
				}, nil).Once()
			},
			wantErr: true,
			errType: constant.ErrInvalidRequest,
		},
		{
			name: "error: invoice not found",
			req:  req,
			mockCall: func(txRepo *txmocks.TxRepository, invoiceRepo *invoicemocks.InvoiceRepository) {
				invoiceRepo.On("GetByID", mock.Anything, uint64(5)).Return(nil, nil).Once()
			},
			wantErr: true,
			errType: constant.ErrNotFound,
		},
		{
			name: "error: payment write fails",
			req:  req,
			mockCall: func(txRepo *txmocks.TxRepository, invoiceRepo *invoicemocks.InvoiceRepository) {
				invoiceRepo.On("GetByID", mock.Anything, uint64(5)).Return(&model.Invoice{
					ID:          5,
					TotalAmount: 2832,
					Outstanding: 2832,
				}, nil).Once()

				tx := &sqlx.Tx{}
				txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				txRepo.On("RollbackTx", tx).Return(nil).Once()

				invoiceRepo.On("RecordPaymentTx", mock.Anything, tx, uint64(5), float64(1000), "upi", "TXN-123").Return(errors.New("db error")).Once()
			},
			wantErr: true,
			errType: constant.ErrInternal,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			txRepo := txmocks.NewTxRepository(t)
			invoiceRepo := invoicemocks.NewInvoiceRepository(t)
			if tt.mockCall != nil {
				tt.mockCall(txRepo, invoiceRepo)
			}
			app := appinvoice.NewInvoiceApp(txRepo, invoiceRepo)

			got, err := app.RecordPayment(context.Background(), tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RecordPayment() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !cerr.IsType(err, tt.errType) {
					t.Fatalf("error type = %v, want %v", cerr.TypeOf(err), tt.errType)
				}
				return
			}
			if got.Outstanding != 1832 {
				t.Fatalf("Outstanding = %v, want 1832", got.Outstanding)
			}
		})
	}
}
