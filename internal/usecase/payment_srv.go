package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/internal/data/repository"
	"ecommerce-backend/internal/dto/request"
	"ecommerce-backend/internal/dto/response"
	"ecommerce-backend/internal/gateway"
	"ecommerce-backend/pkg/cache"
	"ecommerce-backend/pkg/events"
	"ecommerce-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const callbackLockTTL = 30 * time.Second

type PaymentService interface {
	InitiatePayment(ctx context.Context, userID uuid.UUID, req *request.InitiatePaymentRequest) (*response.InitiatePaymentResponse, error)
	// HandleCallback settles a reference exactly once; repeats return the
	// existing record.
	HandleCallback(ctx context.Context, reference, trxref string) (*response.CheckoutResponse, error)
	// HandleWebhook returns nil, nil for verified events that settle nothing.
	HandleWebhook(ctx context.Context, payload []byte, header http.Header) (*response.CheckoutResponse, error)
	ListCheckouts(ctx context.Context, userID uuid.UUID, req request.PaginatedRequest) (*response.PaginatedResponse[response.CheckoutResponse], error)
}

type paymentService struct {
	repo      *repository.Repository
	gateway   gateway.Gateway
	store     cache.Store
	publisher events.Publisher
	config    utils.PaymentConfig
	log       *zap.Logger
}

func NewPaymentService(
	repo *repository.Repository,
	gw gateway.Gateway,
	store cache.Store,
	publisher events.Publisher,
	config utils.PaymentConfig,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		repo:      repo,
		gateway:   gw,
		store:     store,
		publisher: publisher,
		config:    config,
		log:       log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) InitiatePayment(ctx context.Context, userID uuid.UUID, req *request.InitiatePaymentRequest) (*response.InitiatePaymentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationErr("%s", utils.FormatValidationErrors(errs))
	}

	// 1. Load user & cart
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, notFoundErr("user")
	}

	cart, err := s.repo.Cart.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	if cart == nil {
		return nil, validationErr("cart is empty")
	}

	lines, err := s.repo.Cart.FindLines(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("load cart lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, validationErr("cart is empty")
	}

	// 2. Hitung total dari harga terkini
	total := decimal.Zero
	items := make([]entity.LineSnapshot, 0, len(lines))
	for _, l := range lines {
		total = total.Add(l.Total())
		items = append(items, l.Snapshot())
	}
	if !total.IsPositive() {
		return nil, validationErr("cart total must be greater than zero")
	}
	if !entity.AmountFits(total) {
		return nil, validationErr("cart total exceeds the maximum amount")
	}

	// 3. Simpan attempt pending
	now := time.Now()
	payment := &entity.Payment{
		Model:     entity.NewModel(now),
		Reference: utils.GeneratePaymentReference(),
		Provider:  s.gateway.Name(),
		UserID:    userID,
		Amount:    total,
		Currency:  s.config.Currency,
		Items:     items,
		Status:    entity.PaymentStatusPending,
	}
	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	email := user.Email
	if req.Email != "" {
		email = req.Email
	}

	// 4. Panggil gateway
	result, err := s.gateway.Initialize(ctx, gateway.InitRequest{
		Reference:   payment.Reference,
		Email:       email,
		Amount:      gateway.MinorUnits(total, payment.Currency),
		Currency:    payment.Currency,
		CallbackURL: s.config.CallbackURL,
		Metadata:    map[string]string{"user_id": userID.String()},
	})
	if err != nil {
		s.log.Error("Gateway initialize failed",
			zap.Error(err),
			zap.String("reference", payment.Reference),
			zap.String("provider", payment.Provider))
		if upErr := s.repo.Payment.UpdateStatus(ctx, payment.ID, entity.PaymentStatusFailed); upErr != nil {
			s.log.Error("Failed to mark payment failed", zap.Error(upErr), zap.String("reference", payment.Reference))
		}
		return nil, fmt.Errorf("%w: could not start payment, try again later", ErrPayment)
	}

	if err := s.repo.Payment.SetGatewayResult(ctx, payment.ID, result.GatewayRef, result.AuthorizationURL); err != nil {
		return nil, fmt.Errorf("store gateway result: %w", err)
	}

	s.log.Info("Payment initiated",
		zap.String("reference", payment.Reference),
		zap.String("user_id", userID.String()),
		zap.String("amount", total.StringFixed(2)),
		zap.String("currency", payment.Currency))

	s.publish(ctx, events.NewEvent(events.PaymentInitiated, payment.Reference, map[string]string{
		"reference": payment.Reference,
		"user_id":   userID.String(),
		"amount":    total.StringFixed(2),
		"currency":  payment.Currency,
	}))

	return &response.InitiatePaymentResponse{
		AuthorizationURL: result.AuthorizationURL,
		Reference:        payment.Reference,
	}, nil
}

func (s *paymentService) HandleCallback(ctx context.Context, reference, trxref string) (*response.CheckoutResponse, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, validationErr("reference is required")
	}

	// Fast path for repeats.
	if existing, err := s.repo.Checkout.FindByReference(ctx, reference); err != nil {
		return nil, fmt.Errorf("find checkout record: %w", err)
	} else if existing != nil {
		resp := response.CheckoutToResponse(existing)
		return &resp, nil
	}

	// 1. Lock reference
	lockKey := cache.PaymentLockKey(reference)
	acquired, err := s.store.SetNX(ctx, lockKey, callbackLockTTL)
	if err != nil {
		s.log.Warn("Callback lock unavailable, relying on row lock", zap.Error(err), zap.String("reference", reference))
	} else if !acquired {
		return nil, fmt.Errorf("%w: payment is already being processed", ErrConflict)
	} else {
		defer func() {
			if err := s.store.Delete(context.WithoutCancel(ctx), lockKey); err != nil {
				s.log.Warn("Failed to release callback lock", zap.Error(err), zap.String("reference", reference))
			}
		}()
	}

	payment, err := s.repo.Payment.FindByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("find payment: %w", err)
	}
	if payment == nil {
		return nil, notFoundErr("payment")
	}

	// 2. Verifikasi ke gateway
	gatewayRef := reference
	if payment.GatewayRef != nil && *payment.GatewayRef != "" {
		gatewayRef = *payment.GatewayRef
	}
	verified, err := s.gateway.Verify(ctx, gatewayRef)
	if err != nil {
		s.log.Error("Gateway verify failed", zap.Error(err), zap.String("reference", reference))
		return nil, fmt.Errorf("%w: could not verify payment", ErrPayment)
	}
	if verified.Status == gateway.StatusPending {
		return nil, fmt.Errorf("%w: payment not completed", ErrPayment)
	}

	success := s.settles(payment, verified)
	if trxref == "" {
		trxref = verified.TransactionID
	}

	// 3. Rekonsiliasi dalam satu transaksi
	var (
		record    *entity.CheckoutRecord
		duplicate bool
	)
	err = s.repo.Tx.WithinTransaction(ctx, func(tx *repository.Repository) error {
		locked, err := tx.Payment.FindByReferenceForUpdate(ctx, reference)
		if err != nil {
			return err
		}
		if locked == nil {
			return notFoundErr("payment")
		}

		if locked.Status.Terminal() {
			existing, err := tx.Checkout.FindByReference(ctx, reference)
			if err != nil {
				return err
			}
			if existing == nil {
				return fmt.Errorf("%w: payment already closed", ErrPayment)
			}
			record, duplicate = existing, true
			return nil
		}

		record = &entity.CheckoutRecord{
			Immutable:   entity.NewImmutable(time.Now()),
			UserID:      locked.UserID,
			Items:       locked.Items,
			Reference:   reference,
			TrxRef:      trxref,
			Status:      success,
			TotalAmount: locked.Amount,
		}
		if err := tx.Checkout.Create(ctx, record); err != nil {
			return err
		}

		status := entity.PaymentStatusFailed
		if success {
			status = entity.PaymentStatusSuccess
		}
		if err := tx.Payment.UpdateStatus(ctx, locked.ID, status); err != nil {
			return err
		}

		if success {
			if _, err := tx.Cart.DeleteByUserID(ctx, locked.UserID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPayment) || errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.log.Error("Failed to reconcile payment", zap.Error(err), zap.String("reference", reference))
		return nil, fmt.Errorf("reconcile payment: %w", err)
	}

	resp := response.CheckoutToResponse(record)
	if duplicate {
		return &resp, nil
	}

	s.log.Info("Payment settled",
		zap.String("reference", reference),
		zap.String("user_id", record.UserID.String()),
		zap.Bool("success", record.Status))

	eventType := events.CheckoutFailed
	if record.Status {
		eventType = events.CheckoutSucceeded
	}
	s.publish(ctx, events.NewEvent(eventType, reference, resp))

	return &resp, nil
}

// settles reports whether the verified transaction pays for the attempt in full.
func (s *paymentService) settles(payment *entity.Payment, verified *gateway.VerifyResult) bool {
	if verified.Status != gateway.StatusSuccess {
		return false
	}
	if verified.Reference != "" && verified.Reference != payment.Reference {
		s.log.Warn("Gateway reference mismatch",
			zap.String("reference", payment.Reference),
			zap.String("gateway_reference", verified.Reference))
		return false
	}
	expected := gateway.MinorUnits(payment.Amount, payment.Currency)
	if verified.Amount != expected {
		s.log.Warn("Gateway amount mismatch",
			zap.String("reference", payment.Reference),
			zap.Int64("expected", expected),
			zap.Int64("paid", verified.Amount))
		return false
	}
	if !strings.EqualFold(verified.Currency, payment.Currency) {
		s.log.Warn("Gateway currency mismatch",
			zap.String("reference", payment.Reference),
			zap.String("expected", payment.Currency),
			zap.String("paid", verified.Currency))
		return false
	}
	return true
}

func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, header http.Header) (*response.CheckoutResponse, error) {
	event, err := s.gateway.ParseWebhook(payload, header)
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidSignature) {
			s.log.Warn("Rejected webhook with bad signature", zap.String("provider", s.gateway.Name()))
			return nil, fmt.Errorf("%w: invalid signature", ErrUnauthorized)
		}
		return nil, validationErr("malformed webhook payload")
	}

	if event.Reference == "" {
		s.log.Debug("Ignoring webhook event", zap.String("type", event.Type))
		return nil, nil
	}

	return s.HandleCallback(ctx, event.Reference, "")
}

func (s *paymentService) ListCheckouts(ctx context.Context, userID uuid.UUID, req request.PaginatedRequest) (*response.PaginatedResponse[response.CheckoutResponse], error) {
	records, err := s.repo.Checkout.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list checkouts: %w", err)
	}

	total, err := s.repo.Checkout.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count checkouts: %w", err)
	}

	return response.NewPaginatedResponse(response.CheckoutsToResponse(records), req.Page, req.Limit(), total), nil
}

func (s *paymentService) publish(ctx context.Context, evts ...events.Event) {
	if err := s.publisher.Publish(ctx, evts...); err != nil {
		s.log.Warn("Failed to publish payment event", zap.Error(err))
	}
}
