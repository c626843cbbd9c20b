package bootstrap

import (
	"context"
	"log"
	"time"

	"talasofilia-pilates-be/internal/config"
	"talasofilia-pilates-be/internal/controller"
	"talasofilia-pilates-be/internal/pkg/logger"
	"talasofilia-pilates-be/internal/pkg/mailer"
	"talasofilia-pilates-be/internal/repository/unitofwork"
	"talasofilia-pilates-be/internal/service"
	"talasofilia-pilates-be/pkg/mercadopago"
	pktNats "talasofilia-pilates-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const notificationTopic = "notifications"

type Container struct {
	// Controllers
	BookingController  controller.IBookingController
	ScheduleController controller.IScheduleController
	PurchaseController controller.IPurchaseController
	PaymentController  controller.IPaymentController
	AdminController    controller.IAdminController

	// Background Services (Exposed for main.go to run)
	NotificationService service.INotificationService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	scheduleCache := gocache.New(30*time.Second, time.Minute)
	mpClient := mercadopago.NewClient(cfg.Payments.MercadoPagoBaseURL, cfg.Payments.MercadoPagoAccessToken)

	// 3. Services
	publisherService := service.NewPublisherService(notificationTopic, pubSub)
	notificationService := service.NewNotificationService(
		pubSub,
		notificationTopic,
		uowFactory,
		emailService,
		sysLogger,
	)

	creditService := service.NewCreditService(uowFactory, sysLogger)
	compensator := service.NewCompensator(uowFactory, sysLogger)
	bookingService := service.NewBookingService(
		uowFactory,
		creditService,
		compensator,
		publisherService,
		natsPub,
		time.Duration(cfg.Booking.CancellationWindowHours)*time.Hour,
		sysLogger,
	)
	scheduleService := service.NewScheduleService(uowFactory, bookingService, scheduleCache, sysLogger)
	packageService := service.NewPackageService(uowFactory)
	paymentService := service.NewPaymentService(
		uowFactory,
		creditService,
		mpClient,
		rdb,
		publisherService,
		natsPub,
		cfg.Payments.StripeWebhookSecret,
		cfg.Payments.MercadoPagoWebhookSecret,
		sysLogger,
	)

	// 4. Controllers
	return &Container{
		BookingController:  controller.NewBookingController(bookingService),
		ScheduleController: controller.NewScheduleController(scheduleService),
		PurchaseController: controller.NewPurchaseController(creditService, packageService),
		PaymentController:  controller.NewPaymentController(paymentService, time.Duration(cfg.Booking.WebhookTimeoutSeconds)*time.Second),
		AdminController:    controller.NewAdminController(paymentService, packageService),

		NotificationService: notificationService,
	}
}
