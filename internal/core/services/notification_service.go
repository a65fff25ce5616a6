package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/adapters/persistence/repositories"
	"eac-registry/internal/config"
	"eac-registry/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// mailData feeds every email template
type mailData struct {
	Name          string
	ApplicantID   string
	ApplicationID string
	Stage         string
	Comment       string
	Number        string
	Category      string
	IssuedAt      string
	ExpiresAt     string
	Amount        string
	Link          string
	VerifyURL     string
	Reasons       []string
}

// NotificationService renders registry emails and queues them in the outbox.
// Queue* methods must be called with the caller's transactional context.
type NotificationService struct {
	outbox   repositories.OutboxRepository
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	outbox repositories.OutboxRepository,
	userRepo repositories.UserRepository,
	cfg *config.Config,
) *NotificationService {
	return &NotificationService{
		outbox:   outbox,
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// QueueVerification queues the email verification link for a new applicant
func (s *NotificationService) QueueVerification(ctx context.Context, applicant models.ApplicantRecord, token string) error {
	acc := applicant.Account()
	row, err := s.build(TplVerifyEmail, acc.Email, "", mailData{
		Name:        applicant.DisplayName(),
		ApplicantID: acc.ApplicantID,
		Link:        s.cfg.PublicBaseURL + "/api/v1/auth/verify-email?token=" + token,
	})
	if err != nil {
		return err
	}
	return s.outbox.Enqueue(ctx, row)
}

// QueueStatusChange queues the applicant email for a stage change and, when
// the new stage needs staff attention, the staff alert.
func (s *NotificationService) QueueStatusChange(ctx context.Context, app models.Application, to domain.ApplicationStatus, comment string) error {
	var tpl string
	switch to {
	case domain.StatusEligibilityReview:
		tpl = TplSubmitted
	case domain.StatusDocumentReview, domain.StatusPaymentReview:
		tpl = TplStageMoved
	case domain.StatusNeedsApplicantAction:
		tpl = TplReturned
	case domain.StatusWithdrawn:
		tpl = TplWithdrawn
	case domain.StatusExpired:
		tpl = TplExpired
	default:
		return nil
	}

	core := app.Core()
	row, err := s.build(tpl, core.ApplicantEmail, core.ApplicationID, mailData{
		Name:          app.DisplayName(),
		ApplicationID: core.ApplicationID,
		Stage:         to.Label(),
		Comment:       comment,
	})
	if err != nil {
		return err
	}
	rows := []*models.NotificationOutbox{row}

	var staffRoles []domain.Role
	switch to {
	case domain.StatusEligibilityReview:
		staffRoles = []domain.Role{domain.RoleRegistrar}
	case domain.StatusPaymentReview:
		staffRoles = []domain.Role{domain.RoleFinance}
	}
	if len(staffRoles) > 0 {
		alerts, err := s.staffAlerts(ctx, app, to, staffRoles)
		if err != nil {
			return err
		}
		rows = append(rows, alerts...)
	}

	return s.outbox.Enqueue(ctx, rows...)
}

// QueueApproval queues the approval email with the HTML certificate attached
func (s *NotificationService) QueueApproval(ctx context.Context, app models.Application, number string, issued, expires time.Time) error {
	core := app.Core()
	data := mailData{
		Name:          app.DisplayName(),
		ApplicationID: core.ApplicationID,
		Number:        number,
		Category:      categoryLabel(app),
		IssuedAt:      issued.Format("2 January 2006"),
		ExpiresAt:     expires.Format("2 January 2006"),
		VerifyURL:     s.verifyURL(app.Kind(), number),
	}
	row, err := s.build(TplApproved, core.ApplicantEmail, core.ApplicationID, data)
	if err != nil {
		return err
	}

	var cert bytes.Buffer
	if err := certificate.Execute(&cert, data); err != nil {
		return fmt.Errorf("failed to render certificate: %w", err)
	}
	row.Attachments = datatypes.NewJSONType([]models.OutboxAttachment{{
		Filename:    "certificate-" + number + ".html",
		ContentType: "text/html",
		Content:     cert.Bytes(),
	}})

	return s.outbox.Enqueue(ctx, row)
}

// QueueRejection queues the rejection email with the decision reasons
func (s *NotificationService) QueueRejection(ctx context.Context, app models.Application, reasons []string) error {
	core := app.Core()
	row, err := s.build(TplRejected, core.ApplicantEmail, core.ApplicationID, mailData{
		Name:          app.DisplayName(),
		ApplicationID: core.ApplicationID,
		Reasons:       reasons,
	})
	if err != nil {
		return err
	}
	return s.outbox.Enqueue(ctx, row)
}

// QueuePaymentReceived queues the payment receipt
func (s *NotificationService) QueuePaymentReceived(ctx context.Context, app models.Application, amount decimal.Decimal, currency string) error {
	core := app.Core()
	row, err := s.build(TplPaymentReceived, core.ApplicantEmail, core.ApplicationID, mailData{
		Name:          app.DisplayName(),
		ApplicationID: core.ApplicationID,
		Amount:        currency + " " + amount.StringFixed(2),
	})
	if err != nil {
		return err
	}
	return s.outbox.Enqueue(ctx, row)
}

func (s *NotificationService) staffAlerts(ctx context.Context, app models.Application, to domain.ApplicationStatus, roles []domain.Role) ([]*models.NotificationOutbox, error) {
	staff, err := s.userRepo.ListActiveByRole(ctx, roles...)
	if err != nil {
		return nil, err
	}

	recipients := make([]string, 0, len(staff)+1)
	for _, u := range staff {
		recipients = append(recipients, u.Email)
	}
	if len(recipients) == 0 && s.cfg.Email.StaffFallback != "" {
		recipients = append(recipients, s.cfg.Email.StaffFallback)
	}
	if len(recipients) == 0 {
		log.Printf("⚠️ No staff recipients for %s alert on %s", to, app.Core().ApplicationID)
		return nil, nil
	}

	core := app.Core()
	data := mailData{
		Name:          app.DisplayName(),
		ApplicationID: core.ApplicationID,
		Stage:         to.Label(),
		Link:          s.cfg.PublicBaseURL + "/api/v1/applications/" + core.ApplicationID,
	}
	rows := make([]*models.NotificationOutbox, 0, len(recipients))
	for _, rcpt := range recipients {
		row, err := s.build(TplStaffAlert, rcpt, core.ApplicationID, data)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *NotificationService) verifyURL(t domain.ApplicationType, number string) string {
	if t == domain.ApplicationOrganization {
		return s.cfg.PublicBaseURL + "/api/v1/registry/organizations/" + number
	}
	return s.cfg.PublicBaseURL + "/api/v1/registry/members/" + number
}

func (s *NotificationService) build(tpl, recipient, applicationID string, data mailData) (*models.NotificationOutbox, error) {
	subject, html, text, err := render(tpl, data)
	if err != nil {
		return nil, err
	}
	return &models.NotificationOutbox{
		Recipient:     recipient,
		Subject:       subject,
		HTMLBody:      html,
		TextBody:      text,
		Template:      tpl,
		ApplicationID: applicationID,
	}, nil
}

func render(tpl string, data mailData) (subject, html, text string, err error) {
	htmlTpl, ok := htmlTemplates[tpl]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", tpl)
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := htmlTpl.ExecuteTemplate(&htmlBuf, "layout", data); err != nil {
		return "", "", "", fmt.Errorf("failed to render %s: %w", tpl, err)
	}
	if err := textTemplates[tpl].Execute(&textBuf, data); err != nil {
		return "", "", "", fmt.Errorf("failed to render %s text: %w", tpl, err)
	}

	subject = subjects[tpl]
	if strings.Contains(subject, "%s") {
		subject = fmt.Sprintf(subject, data.ApplicationID)
	}
	return subject, htmlBuf.String(), textBuf.String(), nil
}

func categoryLabel(app models.Application) string {
	label := strings.ReplaceAll(app.Category(), "_", " ")
	if app.Kind() == domain.ApplicationOrganization {
		return "an estate agency (" + label + ")"
	}
	return "an estate agent (" + label + ")"
}
