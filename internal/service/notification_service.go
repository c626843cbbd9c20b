package service

import (
	"context"
	"encoding/json"
	"time"

	"talasofilia-pilates-be/internal/dto"
	"talasofilia-pilates-be/internal/pkg/logger"
	"talasofilia-pilates-be/internal/pkg/mailer"
	"talasofilia-pilates-be/internal/repository/specification"
	"talasofilia-pilates-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type INotificationService interface {
	Consume(ctx context.Context) error
}

// notificationService drains the in-process bus and sends emails. It
// re-reads the rows named in each message so a delayed delivery still
// mails current state.
type notificationService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

func NewNotificationService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		mailer:     emailService,
		logger:     log,
	}
}

func (ns *notificationService) Consume(ctx context.Context) error {
	messages, err := ns.pubSub.Subscribe(ctx, ns.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ns.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (ns *notificationService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.NotificationMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		ns.logger.Error("NotificationService", "Failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed messages never become valid, drop them
		return
	}

	uow := ns.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: payload.UserId})
	if err != nil {
		ns.logger.Error("NotificationService", "Failed to load user", map[string]interface{}{
			"user_id": payload.UserId,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}
	if user == nil {
		msg.Ack() // user deleted, nothing to send
		return
	}

	switch payload.Kind {
	case dto.NotificationBookingConfirmed, dto.NotificationBookingCancelled:
		schedule, err := uow.ScheduleRepository().FindOne(ctx, specification.ByID{ID: payload.ScheduleId})
		if err != nil {
			msg.Nack()
			return
		}
		if schedule == nil {
			msg.Ack()
			return
		}
		startsAt := schedule.StartsAt.Format(time.RFC1123)
		if payload.Kind == dto.NotificationBookingConfirmed {
			err = ns.mailer.SendBookingConfirmation(user.Email, schedule.ClassName, startsAt)
		} else {
			err = ns.mailer.SendBookingCancellation(user.Email, schedule.ClassName, startsAt)
		}
		if err != nil {
			ns.logger.Error("NotificationService", "Failed to send booking email", map[string]interface{}{
				"kind":  payload.Kind,
				"email": user.Email,
				"error": err.Error(),
			})
			msg.Nack()
			return
		}

	case dto.NotificationPurchaseCompleted:
		purchase, err := uow.PurchaseRepository().FindOne(ctx, specification.ByID{ID: payload.PurchaseId})
		if err != nil {
			msg.Nack()
			return
		}
		if purchase == nil {
			msg.Ack()
			return
		}
		if err := ns.mailer.SendPurchaseConfirmation(user.Email, purchase.PackageName, purchase.TotalClasses, purchase.ExpiryDate.Format("2 Jan 2006")); err != nil {
			ns.logger.Error("NotificationService", "Failed to send purchase email", map[string]interface{}{
				"email": user.Email,
				"error": err.Error(),
			})
			msg.Nack()
			return
		}

	default:
		ns.logger.Warn("NotificationService", "Unknown notification kind", map[string]interface{}{
			"kind": payload.Kind,
		})
	}

	msg.Ack()
}
