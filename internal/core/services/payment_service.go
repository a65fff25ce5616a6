package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"eac-registry/internal/adapters/payment"
	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/adapters/persistence/repositories"
	"eac-registry/internal/config"
	"eac-registry/internal/core/domain"
	"eac-registry/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentService runs online fee payments and staff fee verification
type PaymentService struct {
	tx            repositories.TxManager
	appRepo       repositories.ApplicationRepository
	paymentRepo   repositories.PaymentRepository
	docRepo       repositories.DocumentRepository
	gateway       payment.Gateway
	notifications *NotificationService
	dispatcher    *Dispatcher
	cfg           *config.Config
	metrics       *Metrics
	now           func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	tx repositories.TxManager,
	appRepo repositories.ApplicationRepository,
	paymentRepo repositories.PaymentRepository,
	docRepo repositories.DocumentRepository,
	gateway payment.Gateway,
	notifications *NotificationService,
	dispatcher *Dispatcher,
	cfg *config.Config,
	metrics *Metrics,
) *PaymentService {
	return &PaymentService{
		tx:            tx,
		appRepo:       appRepo,
		paymentRepo:   paymentRepo,
		docRepo:       docRepo,
		gateway:       gateway,
		notifications: notifications,
		dispatcher:    dispatcher,
		cfg:           cfg,
		metrics:       metrics,
		now:           time.Now,
	}
}

// InitiateResponse tells the client where to send the payer
type InitiateResponse struct {
	Reference   string          `json:"reference"`
	RedirectURL string          `json:"redirectUrl"`
	PollURL     string          `json:"pollUrl"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

// VerifyPaymentInput is a finance officer's fee decision
type VerifyPaymentInput struct {
	Action  string `json:"action" validate:"required,oneof=settle waive"`
	Comment string `json:"comment" validate:"max=1000"`
}

// Initiate starts a gateway checkout for the outstanding fee
func (s *PaymentService) Initiate(ctx context.Context, actor domain.Actor, applicationID string) (*InitiateResponse, error) {
	app, err := s.appRepo.Get(ctx, applicationID)
	if err != nil {
		return nil, notFound(err)
	}
	core := app.Core()
	if core.UserID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	if core.CurrentStatus().IsTerminal() {
		return nil, domain.ErrApplicationLocked
	}
	if !core.FeeRequired || core.CurrentFeeStatus().IsCleared() {
		return nil, domain.ErrNoFeeOutstanding
	}

	reference := uuid.NewString()
	res, err := s.gateway.Initiate(ctx, payment.InitiateRequest{
		Reference:      reference,
		Amount:         core.FeeAmount,
		AdditionalInfo: fmt.Sprintf("EAC application fee %s", applicationID),
		ReturnURL:      fmt.Sprintf("%s/applications/%s/payment?reference=%s", s.cfg.PublicBaseURL, applicationID, reference),
		ResultURL:      s.cfg.PublicBaseURL + "/api/v1/payments/paynow/result",
		AuthEmail:      s.authEmail(core.ApplicantEmail),
	})
	if err != nil {
		log.Printf("❌ Payment initiate failed for %s: %v", applicationID, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrIntegration, err)
	}

	p := &models.Payment{
		Reference:       reference,
		ApplicationType: string(app.Kind()),
		ApplicationID:   applicationID,
		UserID:          actor.UserID,
		Amount:          core.FeeAmount,
		Currency:        core.FeeCurrency,
		Gateway:         s.gateway.Name(),
		RedirectURL:     res.RedirectURL,
		PollURL:         res.PollURL,
		Status:          models.PaymentSent,
	}
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.metrics.payment(p.Status)
	log.Printf("💳 Payment %s initiated for %s", reference, applicationID)

	return &InitiateResponse{
		Reference:   reference,
		RedirectURL: res.RedirectURL,
		PollURL:     res.PollURL,
		Amount:      p.Amount,
		Currency:    p.Currency,
	}, nil
}

// Status returns the latest payment of an application, polling the gateway
// while it is still open.
func (s *PaymentService) Status(ctx context.Context, actor domain.Actor, applicationID string) (*models.Payment, error) {
	app, err := s.appRepo.Get(ctx, applicationID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := authorize(app, actor); err != nil {
		return nil, err
	}
	p, err := s.paymentRepo.GetLatestByApplication(ctx, applicationID)
	if err != nil {
		return nil, notFound(err)
	}
	if p.IsFinal() || p.PollURL == "" {
		return p, nil
	}

	res, err := s.gateway.Poll(ctx, p.PollURL)
	if err != nil {
		// keep serving the stored status
		log.Printf("⚠️ Payment poll failed for %s: %v", p.Reference, err)
		return p, nil
	}
	if err := s.record(ctx, p, res); err != nil {
		return nil, err
	}
	return p, nil
}

// authEmail is the payer email sent to the gateway. A configured merchant
// address overrides it, as gateway test mode requires.
func (s *PaymentService) authEmail(applicant string) string {
	if s.cfg.PayNow.AuthEmail != "" {
		return s.cfg.PayNow.AuthEmail
	}
	return applicant
}

// HandleCallback applies a status update posted by the gateway
func (s *PaymentService) HandleCallback(ctx context.Context, body []byte) error {
	res, err := s.gateway.ParseCallback(body)
	if err != nil {
		if errors.Is(err, payment.ErrHashMismatch) {
			log.Printf("⚠️ Payment callback rejected: %v", err)
			return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	p, err := s.paymentRepo.GetByReference(ctx, res.Reference)
	if err != nil {
		return notFound(err)
	}
	return s.record(ctx, p, res)
}

// record stores a gateway status and settles the fee on the first paid report
func (s *PaymentService) record(ctx context.Context, p *models.Payment, res *payment.StatusResult) error {
	if p.Status == res.Status {
		return nil
	}

	paid := res.Status == models.PaymentPaid || res.Status == models.PaymentAwaitingDelivery
	if paid && !res.Amount.IsZero() && !res.Amount.Equal(p.Amount) {
		log.Printf("⚠️ Payment %s amount mismatch: expected %s got %s", p.Reference, p.Amount, res.Amount)
		paid = false
		res.Status = models.PaymentFailed
	}

	queued := false
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		wasPaid := p.PaidAt != nil
		p.Status = res.Status
		if res.GatewayReference != "" {
			p.GatewayReference = res.GatewayReference
		}
		if paid && !wasPaid {
			now := s.now()
			p.PaidAt = &now
		}
		if err := s.paymentRepo.Update(ctx, p); err != nil {
			return err
		}
		if !paid || wasPaid {
			return nil
		}

		app, err := s.appRepo.Get(ctx, p.ApplicationID)
		if err != nil {
			return err
		}
		if app.Core().CurrentFeeStatus().IsCleared() {
			return nil
		}
		if err := s.appRepo.UpdateFields(ctx, app, map[string]interface{}{"fee_status": string(domain.FeeSettled)}); err != nil {
			return err
		}
		queued = true
		return s.notifications.QueuePaymentReceived(ctx, app, p.Amount, p.Currency)
	})
	if err != nil {
		return err
	}

	s.metrics.payment(p.Status)
	if queued {
		s.dispatcher.Wake()
		log.Printf("✅ Fee settled for %s via %s", p.ApplicationID, p.Reference)
	}
	return nil
}

// VerifyPayment lets finance settle the fee against the uploaded proof, or waive it
func (s *PaymentService) VerifyPayment(ctx context.Context, actor domain.Actor, applicationID string, input *VerifyPaymentInput) (models.Application, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if !hasRole(actor, domain.RoleFinance, domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	app, err := s.appRepo.Get(ctx, applicationID)
	if err != nil {
		return nil, notFound(err)
	}
	core := app.Core()
	if core.CurrentStatus().IsTerminal() {
		return nil, domain.ErrApplicationLocked
	}
	if core.CurrentFeeStatus().IsCleared() {
		return nil, domain.ErrNoFeeOutstanding
	}

	status := domain.FeeWaived
	if input.Action == "settle" {
		status = domain.FeeSettled
		if core.FeeProofDocumentID == nil {
			return nil, validation.Field("action", "no proof of payment has been uploaded")
		}
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if status == domain.FeeSettled {
			if err := s.docRepo.UpdateVerification(ctx, *core.FeeProofDocumentID, domain.DocumentVerified, actor.UserID, input.Comment); err != nil {
				return notFound(err)
			}
		}
		if err := s.appRepo.UpdateFields(ctx, app, map[string]interface{}{"fee_status": string(status)}); err != nil {
			return err
		}
		if status == domain.FeeSettled {
			return s.notifications.QueuePaymentReceived(ctx, app, core.FeeAmount, core.FeeCurrency)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.payment("manual_" + string(status))
	s.dispatcher.Wake()
	log.Printf("💰 Fee %s for %s by user %d", status, applicationID, actor.UserID)
	core.FeeStatus = string(status)
	return app, nil
}
