package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	handoverapp "github.com/rentkaro/rentcore/application/handover"
	invoiceapp "github.com/rentkaro/rentcore/application/invoice"
	notificationapp "github.com/rentkaro/rentcore/application/notification"
	orderapp "github.com/rentkaro/rentcore/application/order"
	reservationapp "github.com/rentkaro/rentcore/application/reservation"
	"github.com/rentkaro/rentcore/cmd/config"
	"github.com/rentkaro/rentcore/constant"
	"github.com/rentkaro/rentcore/model"
	redisrepo "github.com/rentkaro/rentcore/repository/redis"
	utilsContext "github.com/rentkaro/rentcore/utils/context"
	"github.com/rentkaro/rentcore/utils/errors"
	validatorx "github.com/rentkaro/rentcore/utils/validator"
	httpSwagger "github.com/swaggo/http-swagger"
)

type RestHandler struct {
	OrderApp        orderapp.OrderApp
	HandoverApp     handoverapp.HandoverApp
	ReservationApp  reservationapp.ReservationApp
	InvoiceApp      invoiceapp.InvoiceApp
	NotificationApp notificationapp.NotificationApp
}

func NewTransport(cfg *config.Config, redisRepo redisrepo.Repository, rh *RestHandler) http.Handler {
	mux := mux.NewRouter()

	// Swagger UI
	mux.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Public routes
	mux.HandleFunc("/variants/{id}/availability", rh.GetAvailability).Methods(http.MethodGet)

	// Protected routes
	mux.HandleFunc("/quotations", rh.GenerateQuotation).Methods(http.MethodPost)
	mux.HandleFunc("/orders", rh.CreateOrder).Methods(http.MethodPost)
	mux.HandleFunc("/orders/{id}", rh.GetOrder).Methods(http.MethodGet)
	mux.HandleFunc("/orders/{id}/confirm", rh.ConfirmOrder).Methods(http.MethodPost)
	mux.HandleFunc("/orders/{id}/cancel", rh.CancelOrder).Methods(http.MethodPost)
	mux.HandleFunc("/orders/{id}/pickup", rh.RecordPickup).Methods(http.MethodPost)
	mux.HandleFunc("/orders/{id}/return", rh.RecordReturn).Methods(http.MethodPost)
	mux.HandleFunc("/invoices/payments", rh.RecordPayment).Methods(http.MethodPost)

	// Internal routes (API key)
	internal := mux.PathPrefix("/internal").Subrouter()
	internal.Use(InternalMiddleware(cfg.Server.InternalKey))
	internal.HandleFunc("/return-reminders/sweep", rh.SweepReturnReminders).Methods(http.MethodPost)

	// middleware
	mux.Use(LoggingMiddleware())
	mux.Use(AuthMiddleware(cfg, redisRepo))

	return mux
}

// GenerateQuotation handler
// @Summary Generate a rental quotation
// @Description Prices line items with tier selection and jurisdiction-aware GST
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body model.QuotationRequest true "Quotation Request"
// @Success 200 {object} model.Quotation
// @Failure 400 {object} errors.CustomError
// @Router /quotations [post]
func (s *RestHandler) GenerateQuotation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.QuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.OrderApp.GenerateQuotation(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

// CreateOrder handler
// @Summary Create a rental order
// @Description Creates an order with atomic stock reservation; fails whole if any item conflicts
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body model.OrderRequest true "Order Request"
// @Success 200 {object} model.OrderResponse
// @Failure 409 {object} errors.CustomError
// @Security BearerAuth
// @Router /orders [post]
func (s *RestHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	customerID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.OrderApp.CreateOrder(ctx, customerID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

// GetOrder handler
// @Summary Get order detail with reservations
// @Tags Orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} model.OrderDetailResponse
// @Failure 404 {object} errors.CustomError
// @Security BearerAuth
// @Router /orders/{id} [get]
func (s *RestHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	actorID, role, err := actorFromContext(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.OrderApp.GetOrder(ctx, orderID, actorID, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

// ConfirmOrder handler
// @Summary Confirm a pending order
// @Description Vendor or admin only; creates the invoice in the same transaction
// @Tags Orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} model.Order
// @Failure 403 {object} errors.CustomError
// @Security BearerAuth
// @Router /orders/{id}/confirm [post]
func (s *RestHandler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	actorID, role, err := actorFromContext(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.OrderApp.ConfirmOrder(ctx, orderID, actorID, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

// CancelOrder handler
// @Summary Cancel a pending or confirmed order
// @Description Releases the order's reservations atomically with the status change
// @Tags Orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} model.Order
// @Failure 400 {object} errors.CustomError
// @Security BearerAuth
// @Router /orders/{id}/cancel [post]
func (s *RestHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	actorID, role, err := actorFromContext(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.OrderApp.CancelOrder(ctx, orderID, actorID, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

// RecordPickup handler
// @Summary Record physical pickup of an order's reservations
// @Tags Handover
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body model.PickupRequest true "Pickup Request"
// @Success 200 {object} model.PickupResponse
// @Failure 400 {object} errors.CustomError
// @Security BearerAuth
// @Router /orders/{id}/pickup [post]
func (s *RestHandler) RecordPickup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	actorID, role, err := actorFromContext(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	var req model.PickupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	req.OrderID = orderID
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.HandoverApp.RecordPickup(ctx, actorID, role, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

// RecordReturn handler
// @Summary Record physical return of one reservation
// @Description Computes late fees and completes the order once everything is back
// @Tags Handover
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body model.ReturnRequest true "Return Request"
// @Success 200 {object} model.ReturnResponse
// @Failure 409 {object} errors.CustomError
// @Security BearerAuth
// @Router /orders/{id}/return [post]
func (s *RestHandler) RecordReturn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	actorID, role, err := actorFromContext(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	var req model.ReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	req.OrderID = orderID
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.HandoverApp.RecordReturn(ctx, actorID, role, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

// RecordPayment handler
// @Summary Record a payment against an invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body model.RecordPaymentRequest true "Payment Request"
// @Success 200 {object} model.Invoice
// @Failure 400 {object} errors.CustomError
// @Security BearerAuth
// @Router /invoices/payments [post]
func (s *RestHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.InvoiceApp.RecordPayment(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

// GetAvailability handler
// @Summary Check variant availability for a date range
// @Description Lock-free read of free units for [start, end)
// @Tags Variants
// @Produce json
// @Param id path int true "Variant ID"
// @Param start query string true "Start date (RFC3339)"
// @Param end query string true "End date (RFC3339)"
// @Success 200 {object} model.AvailabilityResponse
// @Failure 400 {object} errors.CustomError
// @Router /variants/{id}/availability [get]
func (s *RestHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	variantID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, errors.SetCustomErrorf(constant.ErrInvalidInterval, "unparseable start date"))
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, errors.SetCustomErrorf(constant.ErrInvalidInterval, "unparseable end date"))
		return
	}

	res, err := s.ReservationApp.GetAvailability(ctx, variantID, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

// SweepReturnReminders handler (internal)
// @Summary Trigger the return-reminder sweep
// @Tags Internal
// @Produce json
// @Success 200 {object} map[string]int
// @Router /internal/return-reminders/sweep [post]
func (s *RestHandler) SweepReturnReminders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	notified, err := s.NotificationApp.SweepReturnReminders(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]int{"notified": notified})
}

func pathID(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, errors.SetCustomError(constant.ErrInvalidRequest)
	}
	return id, nil
}

func actorFromContext(ctx context.Context) (uint64, constant.Role, error) {
	actorID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		return 0, "", errors.SetCustomError(constant.ErrUnauthorize)
	}
	role, ok := utilsContext.GetRole(ctx)
	if !ok {
		return 0, "", errors.SetCustomError(constant.ErrUnauthorize)
	}
	return actorID, role, nil
}
