package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"talasofilia-pilates-be/internal/dto"
	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/pkg/logger"
	"talasofilia-pilates-be/internal/repository/specification"
	"talasofilia-pilates-be/internal/repository/unitofwork"
	"talasofilia-pilates-be/pkg/events"
	"talasofilia-pilates-be/pkg/mercadopago"
	pktNats "talasofilia-pilates-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// stripeTolerance bounds how old a signed Stripe timestamp may be.
const stripeTolerance = 5 * time.Minute

type IPaymentService interface {
	// HandleStripeEvent verifies the signature and processes a Stripe
	// webhook body. Replayed deliveries succeed without a second
	// grant.
	HandleStripeEvent(ctx context.Context, payload []byte, sigHeader string) error

	// HandleMercadoPagoNotification verifies the signature when a
	// secret is configured, fetches the payment and grants credit for
	// approved payments.
	HandleMercadoPagoNotification(ctx context.Context, req *dto.MercadoPagoWebhookRequest, sigHeader, requestId string) error

	// GrantCashPurchase is the admin path: credit a user directly for
	// an in-studio cash payment.
	GrantCashPurchase(ctx context.Context, req *dto.CashGrantRequest) (*dto.PurchaseResponse, error)
}

type paymentService struct {
	uowFactory        unitofwork.RepositoryFactory
	creditService     ICreditService
	mpClient          mercadopago.Client
	redisClient       *redis.Client
	publisherService  IPublisherService
	eventPublisher    *pktNats.Publisher
	stripeSecret      string
	mercadoPagoSecret string
	logger            logger.ILogger
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	creditService ICreditService,
	mpClient mercadopago.Client,
	redisClient *redis.Client,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	stripeSecret string,
	mercadoPagoSecret string,
	log logger.ILogger,
) IPaymentService {
	return &paymentService{
		uowFactory:        uowFactory,
		creditService:     creditService,
		mpClient:          mpClient,
		redisClient:       redisClient,
		publisherService:  publisherService,
		eventPublisher:    eventPublisher,
		stripeSecret:      stripeSecret,
		mercadoPagoSecret: mercadoPagoSecret,
		logger:            log,
	}
}

func (s *paymentService) HandleStripeEvent(ctx context.Context, payload []byte, sigHeader string) error {
	if err := verifyStripeSignature(payload, sigHeader, s.stripeSecret, time.Now()); err != nil {
		return err
	}

	var event dto.StripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("malformed stripe event: %w", err)
	}

	if event.Type != "checkout.session.completed" {
		s.logger.Debug("PaymentService", "Ignoring stripe event", map[string]interface{}{
			"type": event.Type,
		})
		return nil
	}

	session := event.Data.Object
	if session.PaymentIntent == "" {
		return fmt.Errorf("stripe session %s has no payment intent", session.Id)
	}

	// Redis remembers refs we already processed so replays skip the
	// database entirely. Advisory only; the unique index on
	// payment_ref is the real guarantee.
	if s.seenRef(ctx, session.PaymentIntent) {
		return nil
	}

	userId, err := uuid.Parse(session.Metadata["user_id"])
	if err != nil {
		return fmt.Errorf("stripe session %s has invalid user_id metadata: %w", session.Id, err)
	}
	packageId, err := uuid.Parse(session.Metadata["package_id"])
	if err != nil {
		return fmt.Errorf("stripe session %s has invalid package_id metadata: %w", session.Id, err)
	}

	pkg, err := s.findPackage(ctx, packageId)
	if err != nil {
		return err
	}

	purchase, err := s.creditService.Grant(ctx, GrantInput{
		UserId:          userId,
		PackageId:       pkg.Id,
		PackageName:     pkg.Name,
		NumberOfClasses: pkg.NumberOfClasses,
		ValidityDays:    pkg.ValidityDays,
		AmountPaid:      float64(session.AmountTotal) / 100,
		Currency:        strings.ToUpper(session.Currency),
		Provider:        entity.PaymentProviderStripe,
		PaymentRef:      session.PaymentIntent,
		ProviderPayload: payload,
	})
	if errors.Is(err, ErrDuplicateGrant) {
		s.rememberRef(ctx, session.PaymentIntent)
		return nil
	}
	if err != nil {
		return err
	}

	s.rememberRef(ctx, session.PaymentIntent)
	s.afterGrant(ctx, purchase)
	return nil
}

func (s *paymentService) HandleMercadoPagoNotification(ctx context.Context, req *dto.MercadoPagoWebhookRequest, sigHeader, requestId string) error {
	if s.mercadoPagoSecret != "" {
		if err := verifyMercadoPagoSignature(req.Data.Id, requestId, sigHeader, s.mercadoPagoSecret); err != nil {
			return err
		}
	}

	if req.Type != "payment" {
		return nil
	}

	if s.seenRef(ctx, req.Data.Id) {
		return nil
	}

	payment, err := s.mpClient.GetPayment(ctx, req.Data.Id)
	if err != nil {
		return err
	}
	if payment.Status != "approved" {
		s.logger.Info("PaymentService", "Ignoring mercado pago payment", map[string]interface{}{
			"payment_id": payment.ID,
			"status":     payment.Status,
		})
		return nil
	}

	var ref dto.CheckoutReference
	if err := json.Unmarshal([]byte(payment.ExternalReference), &ref); err != nil {
		return fmt.Errorf("payment %d has malformed external reference: %w", payment.ID, err)
	}
	userId, err := uuid.Parse(ref.UserId)
	if err != nil {
		return fmt.Errorf("payment %d has invalid user_id: %w", payment.ID, err)
	}
	packageId, err := uuid.Parse(ref.PackageId)
	if err != nil {
		return fmt.Errorf("payment %d has invalid package_id: %w", payment.ID, err)
	}

	payloadJson, _ := json.Marshal(payment)
	purchase, err := s.creditService.Grant(ctx, GrantInput{
		UserId:          userId,
		PackageId:       packageId,
		PackageName:     ref.PackageName,
		NumberOfClasses: ref.NumberOfClasses,
		ValidityDays:    ref.ValidityDays,
		AmountPaid:      payment.TransactionAmount,
		Currency:        payment.CurrencyID,
		Provider:        entity.PaymentProviderMercadoPago,
		PaymentRef:      strconv.FormatInt(payment.ID, 10),
		ProviderPayload: payloadJson,
	})
	if errors.Is(err, ErrDuplicateGrant) {
		s.rememberRef(ctx, req.Data.Id)
		return nil
	}
	if err != nil {
		return err
	}

	s.rememberRef(ctx, req.Data.Id)
	s.afterGrant(ctx, purchase)
	return nil
}

func (s *paymentService) GrantCashPurchase(ctx context.Context, req *dto.CashGrantRequest) (*dto.PurchaseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	pkg, err := s.findPackage(ctx, req.PackageId)
	if err != nil {
		return nil, err
	}

	purchase, err := s.creditService.Grant(ctx, GrantInput{
		UserId:          req.UserId,
		PackageId:       pkg.Id,
		PackageName:     pkg.Name,
		NumberOfClasses: pkg.NumberOfClasses,
		ValidityDays:    pkg.ValidityDays,
		AmountPaid:      req.AmountPaid,
		Currency:        pkg.Currency,
		Provider:        entity.PaymentProviderCash,
		PaymentRef:      MintCashRef(req.Reference),
	})
	if errors.Is(err, ErrDuplicateGrant) {
		return toPurchaseResponse(purchase, time.Now()), ErrDuplicateGrant
	}
	if err != nil {
		return nil, err
	}

	s.afterGrant(ctx, purchase)
	return toPurchaseResponse(purchase, time.Now()), nil
}

func (s *paymentService) findPackage(ctx context.Context, packageId uuid.UUID) (*entity.ClassPackage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	pkg, err := uow.ClassPackageRepository().FindOne(ctx, specification.ByID{ID: packageId})
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}
	return pkg, nil
}

func (s *paymentService) afterGrant(ctx context.Context, purchase *entity.Purchase) {
	if s.publisherService != nil {
		msg := dto.NotificationMessage{
			Kind:       dto.NotificationPurchaseCompleted,
			UserId:     purchase.UserId,
			PurchaseId: purchase.Id,
		}
		if payload, err := json.Marshal(msg); err == nil {
			if err := s.publisherService.Publish(ctx, payload); err != nil {
				s.logger.Warn("PaymentService", "Failed to publish notification", map[string]interface{}{
					"purchase_id": purchase.Id,
					"error":       err.Error(),
				})
			}
		}
	}
	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TopicPurchaseCompleted,
			Data: map[string]interface{}{
				"purchase_id":  purchase.Id,
				"user_id":      purchase.UserId,
				"package_name": purchase.PackageName,
				"classes":      purchase.TotalClasses,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("PaymentService", "Failed to publish event", map[string]interface{}{
				"purchase_id": purchase.Id,
				"error":       err.Error(),
			})
		}
	}
}

func (s *paymentService) seenRef(ctx context.Context, ref string) bool {
	if s.redisClient == nil {
		return false
	}
	n, err := s.redisClient.Exists(ctx, "webhook:ref:"+ref).Result()
	return err == nil && n > 0
}

func (s *paymentService) rememberRef(ctx context.Context, ref string) {
	if s.redisClient == nil {
		return
	}
	s.redisClient.Set(ctx, "webhook:ref:"+ref, 1, 48*time.Hour)
}

// verifyStripeSignature checks the Stripe-Signature header: HMAC-SHA256
// over "<timestamp>.<payload>" keyed with the endpoint secret, with the
// signed timestamp bounded by stripeTolerance.
func verifyStripeSignature(payload []byte, sigHeader, secret string, now time.Time) error {
	if secret == "" || sigHeader == "" {
		return ErrInvalidSignature
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(sigHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return ErrInvalidSignature
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	age := now.Sub(time.Unix(ts, 0))
	if age > stripeTolerance || age < -stripeTolerance {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, sig := range signatures {
		decoded, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// verifyMercadoPagoSignature checks the x-signature header against the
// manifest "id:<data.id>;request-id:<x-request-id>;ts:<ts>;".
func verifyMercadoPagoSignature(dataId, requestId, sigHeader, secret string) error {
	if sigHeader == "" {
		return ErrInvalidSignature
	}

	var ts, v1 string
	for _, part := range strings.Split(sigHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "ts":
			ts = kv[1]
		case "v1":
			v1 = kv[1]
		}
	}
	if ts == "" || v1 == "" {
		return ErrInvalidSignature
	}

	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", strings.ToLower(dataId), requestId, ts)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	expected := mac.Sum(nil)

	decoded, err := hex.DecodeString(v1)
	if err != nil {
		return ErrInvalidSignature
	}
	if !hmac.Equal(decoded, expected) {
		return ErrInvalidSignature
	}
	return nil
}

func toPurchaseResponse(p *entity.Purchase, now time.Time) *dto.PurchaseResponse {
	if p == nil {
		return nil
	}
	return &dto.PurchaseResponse{
		Id:               p.Id,
		PackageName:      p.PackageName,
		TotalClasses:     p.TotalClasses,
		ClassesRemaining: p.ClassesRemaining,
		AmountPaid:       p.AmountPaid,
		Currency:         p.Currency,
		PaymentProvider:  string(p.PaymentProvider),
		PaymentStatus:    string(p.PaymentStatus),
		PurchaseDate:     p.PurchaseDate,
		ExpiryDate:       p.ExpiryDate,
		IsUsable:         p.Usable(now),
	}
}
