package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentkaro/rentcore/cmd/config"
	"github.com/rentkaro/rentcore/constant"
	orderrepo "github.com/rentkaro/rentcore/repository/order"
	reservationrepo "github.com/rentkaro/rentcore/repository/reservation"
	"github.com/rentkaro/rentcore/thirdparty/rabbitmq"
	"github.com/rentkaro/rentcore/utils/errors"
	"github.com/rentkaro/rentcore/utils/logger"
	"go.uber.org/zap"
)

// NotificationApp is the fire-and-forget notification collaborator.
// Notify never returns an error: delivery failures are logged, never
// propagated into the calling transaction.
type NotificationApp interface {
	Notify(ctx context.Context, userID uint64, notifType, title, message, link string)
	SweepReturnReminders(ctx context.Context) (int, error)
}

type notificationAppImpl struct {
	config          *config.Config
	publisher       *rabbitmq.Publisher
	reservationRepo reservationrepo.ReservationRepository
	orderRepo       orderrepo.OrderRepository
}

func NewNotificationApp(cfg *config.Config, publisher *rabbitmq.Publisher, reservationRepo reservationrepo.ReservationRepository, orderRepo orderrepo.OrderRepository) NotificationApp {
	return &notificationAppImpl{
		config:          cfg,
		publisher:       publisher,
		reservationRepo: reservationRepo,
		orderRepo:       orderRepo,
	}
}

func (s *notificationAppImpl) Notify(ctx context.Context, userID uint64, notifType, title, message, link string) {
	if s.publisher == nil {
		logger.Warn("[Notify] publisher not configured, dropping notification",
			zap.Uint64("user_id", userID), zap.String("type", notifType))
		return
	}

	msgID, _ := uuid.NewRandom()
	msg := rabbitmq.NotificationMessage{
		MessageID: msgID.String(),
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		Link:      link,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishNotification(msg); err != nil {
		logger.Error("[Notify] publish notification",
			zap.Uint64("user_id", userID), zap.String("type", notifType), zap.String("error", err.Error()))
	}
}

// SweepReturnReminders notifies customers whose active reservations end
// within the configured lead time. Read-only: it queries reservation and
// order state without transactions or locks.
func (s *notificationAppImpl) SweepReturnReminders(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(s.config.Rental.ReminderLeadTime)

	due, err := s.reservationRepo.ListEndingBefore(ctx, cutoff)
	if err != nil {
		logger.Error("[SweepReturnReminders] list due reservations", zap.String("error", err.Error()))
		return 0, errors.SetCustomError(constant.ErrInternal)
	}

	notified := 0
	for _, res := range due {
		order, err := s.orderRepo.GetOrder(ctx, res.OrderID)
		if err != nil {
			logger.Error("[SweepReturnReminders] get order",
				zap.Uint64("order_id", res.OrderID), zap.String("error", err.Error()))
			continue
		}
		if order == nil {
			continue
		}

		s.Notify(ctx, order.CustomerID, "return_reminder",
			"Rental return due",
			fmt.Sprintf("Your rental on order %s is due back by %s.",
				order.OrderNumber, res.EndDate.Format("02 Jan 2006 15:04 MST")),
			fmt.Sprintf("/orders/%d", order.ID))
		notified++
	}

	return notified, nil
}
