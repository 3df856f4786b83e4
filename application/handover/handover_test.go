package handover_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	apphandover "github.com/rentkaro/rentcore/application/handover"
	"github.com/rentkaro/rentcore/application/pricing"
	"github.com/rentkaro/rentcore/constant"
	invoiceappmocks "github.com/rentkaro/rentcore/mocks/application/invoice"
	notificationmocks "github.com/rentkaro/rentcore/mocks/application/notification"
	handovermocks "github.com/rentkaro/rentcore/mocks/repository/handover"
	ordermocks "github.com/rentkaro/rentcore/mocks/repository/order"
	reservationmocks "github.com/rentkaro/rentcore/mocks/repository/reservation"
	txmocks "github.com/rentkaro/rentcore/mocks/repository/tx"
	"github.com/rentkaro/rentcore/model"
	cerr "github.com/rentkaro/rentcore/utils/errors"
	"github.com/stretchr/testify/mock"
)

type handoverFields struct {
	txRepo          *txmocks.TxRepository
	orderRepo       *ordermocks.OrderRepository
	reservationRepo *reservationmocks.ReservationRepository
	handoverRepo    *handovermocks.HandoverRepository
	invoiceApp      *invoiceappmocks.InvoiceApp
	notificationApp *notificationmocks.NotificationApp
}

func newHandoverFields(t *testing.T) handoverFields {
	return handoverFields{
		txRepo:          txmocks.NewTxRepository(t),
		orderRepo:       ordermocks.NewOrderRepository(t),
		reservationRepo: reservationmocks.NewReservationRepository(t),
		handoverRepo:    handovermocks.NewHandoverRepository(t),
		invoiceApp:      invoiceappmocks.NewInvoiceApp(t),
		notificationApp: notificationmocks.NewNotificationApp(t),
	}
}

func newHandoverApp(f handoverFields) apphandover.HandoverApp {
	return apphandover.NewHandoverApp(f.txRepo, f.orderRepo, f.reservationRepo, f.handoverRepo, pricing.NewEngine(nil), f.invoiceApp, f.notificationApp)
}

func confirmedOrder() *model.Order {
	return &model.Order{
		ID:          42,
		OrderNumber: "RNT-20260201-AB12CD34",
		CustomerID:  7,
		VendorID:    9,
		Status:      constant.OrderStatusConfirmed,
		TotalAmount: 2832,
	}
}

func pickedUpOrder() *model.Order {
	o := confirmedOrder()
	o.Status = constant.OrderStatusPickedUp
	return o
}

func TestHandoverApp_RecordPickup(t *testing.T) {
	tests := []struct {
		name        string
		actorID     uint64
		role        constant.Role
		req         *model.PickupRequest
		mockCall    func(f handoverFields)
		wantPickups int
		wantErr     bool
		errType     constant.ErrorType
	}{
		{
			name:    "success: all reserved items picked up",
			actorID: 9,
			role:    constant.RoleVendor,
			req: &model.PickupRequest{
				OrderID:    42,
				PickedUpBy: "Asha Rao",
			},
			mockCall: func(f handoverFields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("CommitTx", tx).Return(nil).Once()

				f.orderRepo.On("GetOrderTx", mock.Anything, tx, uint64(42)).Return(confirmedOrder(), nil).Once()

				f.reservationRepo.On("GetByOrderTx", mock.Anything, tx, uint64(42)).Return([]model.Reservation{
					{ID: 10, OrderID: 42, VariantID: 1, Status: constant.ReservationStatusReserved},
					{ID: 11, OrderID: 42, VariantID: 2, Status: constant.ReservationStatusReserved},
				}, nil).Once()

				f.handoverRepo.On("InsertPickupTx", mock.Anything, tx, mock.MatchedBy(func(req *model.InsertPickupTxItem) bool {
					return req.OrderID == 42 && req.ReservationID == 10 && req.PickedUpBy == "Asha Rao"
				})).Return(uint64(100), nil).Once()
				f.handoverRepo.On("InsertPickupTx", mock.Anything, tx, mock.MatchedBy(func(req *model.InsertPickupTxItem) bool {
					return req.OrderID == 42 && req.ReservationID == 11
				})).Return(uint64(101), nil).Once()

				f.reservationRepo.On("UpdateStatusTx", mock.Anything, tx, uint64(10), constant.ReservationStatusActive).Return(nil).Once()
				f.reservationRepo.On("UpdateStatusTx", mock.Anything, tx, uint64(11), constant.ReservationStatusActive).Return(nil).Once()

				f.orderRepo.On("UpdateStatusTx", mock.Anything, tx, uint64(42), constant.OrderStatusPickedUp).Return(nil).Once()

				f.notificationApp.On("Notify", mock.Anything, uint64(7), "order_picked_up", mock.Anything, mock.Anything, mock.Anything).Return().Once()
			},
			wantPickups: 2,
			wantErr:     false,
		},
		{
			name:    "error: order is still pending",
			actorID: 9,
			role:    constant.RoleVendor,
			req: &model.PickupRequest{
				OrderID:    42,
				PickedUpBy: "Asha Rao",
			},
			mockCall: func(f handoverFields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()

				order := confirmedOrder()
				order.Status = constant.OrderStatusPending
				f.orderRepo.On("GetOrderTx", mock.Anything, tx, uint64(42)).Return(order, nil).Once()
			},
			wantErr: true,
			errType: constant.ErrInvalidTransition,
		},
		{
			name:    "error: another vendor may not record pickup",
			actorID: 8,
			role:    constant.RoleVendor,
			req: &model.PickupRequest{
				OrderID:    42,
				PickedUpBy: "Asha Rao",
			},
			mockCall: func(f handoverFields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()

				f.orderRepo.On("GetOrderTx", mock.Anything, tx, uint64(42)).Return(confirmedOrder(), nil).Once()
			},
			wantErr: true,
			errType: constant.ErrForbidden,
		},
		{
			name:    "error: targeted reservation not on the order",
			actorID: 9,
			role:    constant.RoleVendor,
			req: &model.PickupRequest{
				OrderID:        42,
				ReservationIDs: []uint64{77},
				PickedUpBy:     "Asha Rao",
			},
			mockCall: func(f handoverFields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()

				f.orderRepo.On("GetOrderTx", mock.Anything, tx, uint64(42)).Return(confirmedOrder(), nil).Once()

				f.reservationRepo.On("GetByOrderTx", mock.Anything, tx, uint64(42)).Return([]model.Reservation{
					{ID: 10, OrderID: 42, Status: constant.ReservationStatusReserved},
				}, nil).Once()
			},
			wantErr: true,
			errType: constant.ErrNotFound,
		},
		{
			name:    "error: targeted reservation already picked up",
			actorID: 9,
			role:    constant.RoleVendor,
			req: &model.PickupRequest{
				OrderID:        42,
				ReservationIDs: []uint64{10},
				PickedUpBy:     "Asha Rao",
			},
			mockCall: func(f handoverFields) {
				tx := &sqlx.Tx{}
				f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
				f.txRepo.On("RollbackTx", tx).Return(nil).Once()

				f.orderRepo.On("GetOrderTx", mock.Anything, tx, uint64(42)).Return(confirmedOrder(), nil).Once()

				f.reservationRepo.On("GetByOrderTx", mock.Anything, tx, uint64(42)).Return([]model.Reservation{
					{ID: 10, OrderID: 42, Status: constant.ReservationStatusActive},
				}, nil).Once()
			},
			wantErr: true,
			errType: constant.ErrConflict,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newHandoverFields(t)
			if tt.mockCall != nil {
				tt.mockCall(f)
			}
			app := newHandoverApp(f)

			got, err := app.RecordPickup(context.Background(), tt.actorID, tt.role, tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RecordPickup() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !cerr.IsType(err, tt.errType) {
					t.Fatalf("error type = %v, want %v", cerr.TypeOf(err), tt.errType)
				}
				return
			}
			if got.Order.Status != constant.OrderStatusPickedUp {
				t.Fatalf("Order.Status = %v, want PICKED_UP", got.Order.Status)
			}
			if len(got.Pickups) != tt.wantPickups {
				t.Fatalf("Pickups = %d, want %d", len(got.Pickups), tt.wantPickups)
			}
		})
	}
}

func TestHandoverApp_RecordReturn(t *testing.T) {
	t.Run("success: on-time return closes the order", func(t *testing.T) {
		f := newHandoverFields(t)
		tx := &sqlx.Tx{}
		f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
		f.txRepo.On("CommitTx", tx).Return(nil).Once()

		f.orderRepo.On("GetOrderTx", mock.Anything, tx, uint64(42)).Return(pickedUpOrder(), nil).Once()

		res := &model.Reservation{
			ID:        10,
			OrderID:   42,
			VariantID: 1,
			EndDate:   time.Now().UTC().Add(48 * time.Hour),
			BasePrice: 1000,
			Status:    constant.ReservationStatusActive,
		}
		f.reservationRepo.On("GetByIDTx", mock.Anything, tx, uint64(10)).Return(res, nil).Once()

		f.handoverRepo.On("GetPickupByReservationTx", mock.Anything, tx, uint64(10)).Return(&model.Pickup{ID: 100}, nil).Once()

		f.handoverRepo.On("InsertReturnTx", mock.Anything, tx, mock.MatchedBy(func(req *model.InsertReturnTxItem) bool {
			return req.OrderID == 42 && req.ReservationID == 10 && !req.IsLate && req.LateFee == 0 &&
				req.PickupID != nil && *req.PickupID == 100
		})).Return(uint64(200), nil).Once()

		f.reservationRepo.On("UpdateStatusTx", mock.Anything, tx, uint64(10), constant.ReservationStatusCompleted).Return(nil).Once()

		// the only reservation on the order just completed, so the order flips
		f.reservationRepo.On("GetByOrderTx", mock.Anything, tx, uint64(42)).Return([]model.Reservation{*res}, nil).Once()
		f.orderRepo.On("UpdateStatusTx", mock.Anything, tx, uint64(42), constant.OrderStatusReturned).Return(nil).Once()

		f.notificationApp.On("Notify", mock.Anything, uint64(7), "order_returned", mock.Anything, mock.Anything, mock.Anything).Return().Once()

		app := newHandoverApp(f)
		got, err := app.RecordReturn(context.Background(), 9, constant.RoleVendor, &model.ReturnRequest{
			OrderID:       42,
			ReservationID: 10,
		})
		if err != nil {
			t.Fatalf("RecordReturn() error = %v", err)
		}
		if got.LateInfo.IsLate {
			t.Fatal("LateInfo.IsLate = true, want false")
		}
		if got.Order.Status != constant.OrderStatusReturned {
			t.Fatalf("Order.Status = %v, want RETURNED", got.Order.Status)
		}
		if got.Return.ID != 200 {
			t.Fatalf("Return.ID = %v, want 200", got.Return.ID)
		}
	})

	t.Run("success: late return charges the fee onto the invoice", func(t *testing.T) {
		f := newHandoverFields(t)
		tx := &sqlx.Tx{}
		f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
		f.txRepo.On("CommitTx", tx).Return(nil).Once()

		f.orderRepo.On("GetOrderTx", mock.Anything, tx, uint64(42)).Return(pickedUpOrder(), nil).Once()

		// 30 hours past the end date rounds up to 2 late days
		res := &model.Reservation{
			ID:        10,
			OrderID:   42,
			VariantID: 1,
			EndDate:   time.Now().UTC().Add(-30 * time.Hour),
			BasePrice: 1000,
			Status:    constant.ReservationStatusActive,
		}
		f.reservationRepo.On("GetByIDTx", mock.Anything, tx, uint64(10)).Return(res, nil).Once()

		f.handoverRepo.On("GetPickupByReservationTx", mock.Anything, tx, uint64(10)).Return(&model.Pickup{ID: 100}, nil).Once()

		f.handoverRepo.On("InsertReturnTx", mock.Anything, tx, mock.MatchedBy(func(req *model.InsertReturnTxItem) bool {
			return req.IsLate && req.LateFee == 400
		})).Return(uint64(201), nil).Once()

		f.reservationRepo.On("UpdateStatusTx", mock.Anything, tx, uint64(10), constant.ReservationStatusCompleted).Return(nil).Once()

		f.invoiceApp.On("AppendLateFeeTx", mock.Anything, tx, uint64(42), float64(400), mock.Anything).Return(nil).Once()
		f.orderRepo.On("AddToTotalTx", mock.Anything, tx, uint64(42), float64(400)).Return(nil).Once()

		f.reservationRepo.On("GetByOrderTx", mock.Anything, tx, uint64(42)).Return([]model.Reservation{*res}, nil).Once()
		f.orderRepo.On("UpdateStatusTx", mock.Anything, tx, uint64(42), constant.OrderStatusReturned).Return(nil).Once()

		f.notificationApp.On("Notify", mock.Anything, uint64(7), "order_returned", mock.Anything, mock.Anything, mock.Anything).Return().Once()

		app := newHandoverApp(f)
		got, err := app.RecordReturn(context.Background(), 9, constant.RoleVendor, &model.ReturnRequest{
			OrderID:       42,
			ReservationID: 10,
		})
		if err != nil {
			t.Fatalf("RecordReturn() error = %v", err)
		}
		if !got.LateInfo.IsLate {
			t.Fatal("LateInfo.IsLate = false, want true")
		}
		if got.LateInfo.DaysLate != 2 {
			t.Fatalf("DaysLate = %v, want 2", got.LateInfo.DaysLate)
		}
		if got.LateInfo.LateFee != 400 {
			t.Fatalf("LateFee = %v, want 400", got.LateInfo.LateFee)
		}
		if got.Order.TotalAmount != 3232 {
			t.Fatalf("Order.TotalAmount = %v, want 3232", got.Order.TotalAmount)
		}
	})

	t.Run("success: partial return leaves the order picked up", func(t *testing.T) {
		f := newHandoverFields(t)
		tx := &sqlx.Tx{}
		f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
		f.txRepo.On("CommitTx", tx).Return(nil).Once()

		f.orderRepo.On("GetOrderTx", mock.Anything, tx, uint64(42)).Return(pickedUpOrder(), nil).Once()

		res := &model.Reservation{
			ID:        10,
			OrderID:   42,
			VariantID: 1,
			EndDate:   time.Now().UTC().Add(48 * time.Hour),
			BasePrice: 1000,
			Status:    constant.ReservationStatusActive,
		}
		f.reservationRepo.On("GetByIDTx", mock.Anything, tx, uint64(10)).Return(res, nil).Once()

		f.handoverRepo.On("GetPickupByReservationTx", mock.Anything, tx, uint64(10)).Return(nil, nil).Once()

		f.handoverRepo.On("InsertReturnTx", mock.Anything, tx, mock.MatchedBy(func(req *model.InsertReturnTxItem) bool {
			return req.PickupID == nil
		})).Return(uint64(202), nil).Once()

		f.reservationRepo.On("UpdateStatusTx", mock.Anything, tx, uint64(10), constant.ReservationStatusCompleted).Return(nil).Once()

		// a second reservation is still out, so the order stays PICKED_UP
		f.reservationRepo.On("GetByOrderTx", mock.Anything, tx, uint64(42)).Return([]model.Reservation{
			*res,
			{ID: 11, OrderID: 42, VariantID: 2, Status: constant.ReservationStatusActive},
		}, nil).Once()

		f.notificationApp.On("Notify", mock.Anything, uint64(7), "order_returned", mock.Anything, mock.Anything, mock.Anything).Return().Once()

		app := newHandoverApp(f)
		got, err := app.RecordReturn(context.Background(), 9, constant.RoleVendor, &model.ReturnRequest{
			OrderID:       42,
			ReservationID: 10,
		})
		if err != nil {
			t.Fatalf("RecordReturn() error = %v", err)
		}
		if got.Order.Status != constant.OrderStatusPickedUp {
			t.Fatalf("Order.Status = %v, want PICKED_UP", got.Order.Status)
		}
	})

	t.Run("error: order has not been picked up", func(t *testing.T) {
		f := newHandoverFields(t)
		tx := &sqlx.Tx{}
		f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
		f.txRepo.On("RollbackTx", tx).Return(nil).Once()

		f.orderRepo.On("GetOrderTx", mock.Anything, tx, uint64(42)).Return(confirmedOrder(), nil).Once()

		app := newHandoverApp(f)
		_, err := app.RecordReturn(context.Background(), 9, constant.RoleVendor, &model.ReturnRequest{
			OrderID:       42,
			ReservationID: 10,
		})
		if !cerr.IsType(err, constant.ErrInvalidTransition) {
			t.Fatalf("error type = %v, want ErrInvalidTransition", cerr.TypeOf(err))
		}
	})

	t.Run("error: reservation already returned", func(t *testing.T) {
		f := newHandoverFields(t)
		tx := &sqlx.Tx{}
		f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
		f.txRepo.On("RollbackTx", tx).Return(nil).Once()

		f.orderRepo.On("GetOrderTx", mock.Anything, tx, uint64(42)).Return(pickedUpOrder(), nil).Once()

		f.reservationRepo.On("GetByIDTx", mock.Anything, tx, uint64(10)).Return(&model.Reservation{
			ID:      10,
			OrderID: 42,
			Status:  constant.ReservationStatusCompleted,
		}, nil).Once()

		app := newHandoverApp(f)
		_, err := app.RecordReturn(context.Background(), 9, constant.RoleVendor, &model.ReturnRequest{
			OrderID:       42,
			ReservationID: 10,
		})
		if !cerr.IsType(err, constant.ErrAlreadyReturned) {
			t.Fatalf("error type = %v, want ErrAlreadyReturned", cerr.TypeOf(err))
		}
	})

	t.Run("error: reservation belongs to another order", func(t *testing.T) {
		f := newHandoverFields(t)
		tx := &sqlx.Tx{}
		f.txRepo.On("BeginTx", mock.Anything).Return(tx, nil).Once()
		f.txRepo.On("RollbackTx", tx).Return(nil).Once()

		f.orderRepo.On("GetOrderTx", mock.Anything, tx, uint64(42)).Return(pickedUpOrder(), nil).Once()

		f.reservationRepo.On("GetByIDTx", mock.Anything, tx, uint64(10)).Return(&model.Reservation{
			ID:      10,
			OrderID: 43,
			Status:  constant.ReservationStatusActive,
		}, nil).Once()

		app := newHandoverApp(f)
		_, err := app.RecordReturn(context.Background(), 9, constant.RoleVendor, &model.ReturnRequest{
			OrderID:       42,
			ReservationID: 10,
		})
		if !cerr.IsType(err, constant.ErrInvalidRequest) {
			t.Fatalf("error type = %v, want ErrInvalidRequest", cerr.TypeOf(err))
		}
	})
}
