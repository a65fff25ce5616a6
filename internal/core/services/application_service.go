package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/adapters/persistence/repositories"
	"eac-registry/internal/config"
	"eac-registry/internal/core/documents"
	"eac-registry/internal/core/domain"
	"eac-registry/internal/core/eligibility"
	"eac-registry/internal/pkg/validation"

	"gorm.io/gorm"
)

// ApplicationService handles application intake and draft editing
type ApplicationService struct {
	tx            repositories.TxManager
	applicantRepo repositories.ApplicantRepository
	appRepo       repositories.ApplicationRepository
	docRepo       repositories.DocumentRepository
	historyRepo   repositories.StatusHistoryRepository
	registryRepo  repositories.RegistryRepository
	ids           *IDGenerator
	policy        *config.Policy
	metrics       *Metrics
	audit         auditTrail
	now           func() time.Time
}

// NewApplicationService creates a new application service
func NewApplicationService(
	tx repositories.TxManager,
	applicantRepo repositories.ApplicantRepository,
	appRepo repositories.ApplicationRepository,
	docRepo repositories.DocumentRepository,
	historyRepo repositories.StatusHistoryRepository,
	registryRepo repositories.RegistryRepository,
	ids *IDGenerator,
	policy *config.Policy,
	metrics *Metrics,
) *ApplicationService {
	return &ApplicationService{
		tx:            tx,
		applicantRepo: applicantRepo,
		appRepo:       appRepo,
		docRepo:       docRepo,
		historyRepo:   historyRepo,
		registryRepo:  registryRepo,
		ids:           ids,
		policy:        policy,
		metrics:       metrics,
		audit:         auditTrail{history: historyRepo, applicants: applicantRepo},
		now:           time.Now,
	}
}

// StartIndividualInput opens an individual application
type StartIndividualInput struct {
	MemberType string                   `json:"member_type" validate:"required,max=60"`
	Details    domain.IndividualPayload `json:"details" validate:"required"`
}

// StartOrganizationInput opens an organization application
type StartOrganizationInput struct {
	BusinessType string                     `json:"business_type" validate:"required,max=60"`
	Details      domain.OrganizationPayload `json:"details" validate:"required"`
}

// SaveDraftInput replaces the draft payload. Details is decoded against the
// application's type.
type SaveDraftInput struct {
	Category string          `json:"category" validate:"omitempty,max=60"`
	Details  json.RawMessage `json:"details"`
}

// StartResult is returned when a draft is created
type StartResult struct {
	Application  *models.ApplicationResponse `json:"application"`
	Mature       bool                        `json:"mature_entry"`
	Requirements []string                    `json:"requirements"`
	Missing      []string                    `json:"missing_items,omitempty"`
	Warnings     []string                    `json:"warnings,omitempty"`
}

// DocumentSummary is an uploaded document in a requirements view
type DocumentSummary struct {
	ID           uint   `json:"id"`
	DocumentType string `json:"document_type"`
	Label        string `json:"label"`
	Filename     string `json:"filename"`
	Status       string `json:"status"`
}

// RequirementsView lists the documents an application still needs
type RequirementsView struct {
	ApplicationID string            `json:"application_id"`
	Status        string            `json:"status"`
	OK            bool              `json:"ok"`
	Reason        string            `json:"reason,omitempty"`
	Required      []string          `json:"required"`
	Missing       []string          `json:"missing"`
	Warnings      []string          `json:"warnings,omitempty"`
	Uploaded      []DocumentSummary `json:"uploaded"`
}

// StartIndividual runs eligibility and creates an individual draft
func (s *ApplicationService) StartIndividual(ctx context.Context, actor domain.Actor, input *StartIndividualInput) (*StartResult, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	applicant, err := s.startingApplicant(ctx, actor, domain.ApplicationIndividual)
	if err != nil {
		return nil, err
	}

	details := input.Details
	result := eligibility.EvaluateIndividual(&details, s.now())
	s.recordEligibility(domain.ApplicationIndividual, result)
	if !result.OK {
		return nil, &EligibilityError{Result: result}
	}

	app := &models.IndividualApplication{
		MemberType:  normalizeCategory(input.MemberType),
		MatureEntry: result.Mature,
	}
	app.SetDetails(details)

	if err := s.create(ctx, actor, applicant, app); err != nil {
		return nil, err
	}

	return &StartResult{
		Application:  app.ToResponse(),
		Mature:       result.Mature,
		Requirements: result.Requirements,
		Warnings:     result.Warnings,
	}, nil
}

// StartOrganization checks the hard organization rules and creates a draft.
// The document checklist is only enforced at submission.
func (s *ApplicationService) StartOrganization(ctx context.Context, actor domain.Actor, input *StartOrganizationInput) (*StartResult, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	applicant, err := s.startingApplicant(ctx, actor, domain.ApplicationOrganization)
	if err != nil {
		return nil, err
	}

	details := input.Details
	result, err := evaluateOrganization(ctx, s.registryRepo, &details, nil, s.now())
	if err != nil {
		return nil, err
	}
	s.recordEligibility(domain.ApplicationOrganization, result)
	if result.HardFail {
		return nil, &EligibilityError{Result: result}
	}

	app := &models.OrganizationApplication{
		BusinessType: normalizeCategory(input.BusinessType),
	}
	app.SetDetails(details)

	if err := s.create(ctx, actor, applicant, app); err != nil {
		return nil, err
	}

	return &StartResult{
		Application:  app.ToResponse(),
		Requirements: result.Requirements,
		Missing:      result.Missing,
		Warnings:     result.Warnings,
	}, nil
}

func (s *ApplicationService) startingApplicant(ctx context.Context, actor domain.Actor, t domain.ApplicationType) (models.ApplicantRecord, error) {
	applicant, err := s.applicantRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, notFound(err)
	}
	if applicant.Kind() != t {
		return nil, validation.Field("type", "this account can only open "+string(applicant.Kind())+" applications")
	}
	acc := applicant.Account()
	if acc.EmailVerifiedAt == nil {
		return nil, domain.ErrEmailNotVerified
	}
	return applicant, nil
}

func (s *ApplicationService) create(ctx context.Context, actor domain.Actor, applicant models.ApplicantRecord, app models.Application) error {
	acc := applicant.Account()
	core := app.Core()

	fee := s.policy.FeeFor(app.Kind(), app.Category())
	core.ApplicantID = acc.ApplicantID
	core.UserID = acc.UserID
	core.ApplicantEmail = acc.Email
	core.Status = string(domain.StatusDraft)
	core.FeeRequired = fee.IsPositive()
	core.FeeAmount = fee
	core.FeeCurrency = s.policy.Currency
	core.FeeStatus = string(domain.FeePending)
	if !core.FeeRequired {
		core.FeeStatus = string(domain.FeeWaived)
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// one open application per applicant; concurrent starts queue on the
		// applicant row and re-read its funnel status
		locked, err := s.applicantRepo.LockByApplicantID(ctx, acc.ApplicantID)
		if err != nil {
			return notFound(err)
		}
		if err := canStart(locked.Account().CurrentStatus()); err != nil {
			return err
		}
		open, err := s.appRepo.FindOpenByApplicant(ctx, acc.ApplicantID)
		if err == nil && open != nil {
			return domain.ErrOpenApplication
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		applicationID, err := s.ids.NextApplicationID(ctx, app.Kind())
		if err != nil {
			return err
		}
		core.ApplicationID = applicationID

		if err := s.appRepo.Create(ctx, app); err != nil {
			return err
		}
		return s.audit.record(ctx, app, "", domain.StatusDraft, actor, "Application started")
	})
	if err != nil {
		return err
	}

	s.metrics.transition(string(app.Kind()), string(domain.StatusDraft))
	log.Printf("✅ Application started: %s by %s (fee %s %s)",
		core.ApplicationID, acc.ApplicantID, core.FeeCurrency, core.FeeAmount.StringFixed(2))
	return nil
}

func canStart(status domain.ApplicantStatus) error {
	switch {
	case status.CanStartApplication():
		return nil
	case status == domain.ApplicantRegistered:
		return domain.ErrEmailNotVerified
	case status == domain.ApplicantApproved:
		return domain.ErrAlreadyRegistered
	}
	return domain.ErrOpenApplication
}

// SaveDraft replaces the payload of an editable application
func (s *ApplicationService) SaveDraft(ctx context.Context, actor domain.Actor, applicationID string, input *SaveDraftInput) (*StartResult, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if len(input.Details) == 0 {
		return nil, validation.Field("details", "is required")
	}

	app, err := s.appRepo.Get(ctx, applicationID)
	if err != nil {
		return nil, notFound(err)
	}
	if app.Core().UserID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	if !app.Core().CurrentStatus().IsEditable() {
		return nil, domain.ErrApplicationLocked
	}

	out := &StartResult{}
	switch a := app.(type) {
	case *models.IndividualApplication:
		var details domain.IndividualPayload
		if err := decodeDetails(input.Details, &details); err != nil {
			return nil, err
		}
		result := eligibility.EvaluateIndividual(&details, s.now())
		s.recordEligibility(domain.ApplicationIndividual, result)
		if !result.OK {
			return nil, &EligibilityError{Result: result}
		}
		a.MatureEntry = result.Mature
		if input.Category != "" {
			a.MemberType = normalizeCategory(input.Category)
		}
		a.SetDetails(details)
		out.Mature, out.Requirements, out.Warnings = result.Mature, result.Requirements, result.Warnings

	case *models.OrganizationApplication:
		var details domain.OrganizationPayload
		if err := decodeDetails(input.Details, &details); err != nil {
			return nil, err
		}
		docs, err := s.docRepo.ListByApplication(ctx, a.Kind(), a.ApplicationID)
		if err != nil {
			return nil, err
		}
		result, err := evaluateOrganization(ctx, s.registryRepo, &details, uploadedSet(docs), s.now())
		if err != nil {
			return nil, err
		}
		s.recordEligibility(domain.ApplicationOrganization, result)
		if result.HardFail {
			return nil, &EligibilityError{Result: result}
		}
		if input.Category != "" {
			a.BusinessType = normalizeCategory(input.Category)
		}
		a.SetDetails(details)
		out.Requirements, out.Missing, out.Warnings = result.Requirements, result.Missing, result.Warnings
	}

	// fee follows the category until something is paid or waived by staff
	core := app.Core()
	if st := core.CurrentFeeStatus(); st == domain.FeePending || (st == domain.FeeWaived && core.FeeAmount.IsZero()) {
		fee := s.policy.FeeFor(app.Kind(), app.Category())
		core.FeeAmount = fee
		core.FeeRequired = fee.IsPositive()
		core.FeeStatus = string(domain.FeePending)
		if !core.FeeRequired {
			core.FeeStatus = string(domain.FeeWaived)
		}
	}

	if err := s.appRepo.Save(ctx, app); err != nil {
		return nil, err
	}

	out.Application = app.ToResponse()
	return out, nil
}

// Get loads an application the actor may see
func (s *ApplicationService) Get(ctx context.Context, actor domain.Actor, applicationID string) (models.Application, error) {
	app, err := s.appRepo.Get(ctx, applicationID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := authorize(app, actor); err != nil {
		return nil, err
	}
	return app, nil
}

// ListMine lists the caller's applications, newest first
func (s *ApplicationService) ListMine(ctx context.Context, userID uint) ([]*models.ApplicationResponse, error) {
	apps, err := s.appRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.ApplicationResponse, len(apps))
	for i, app := range apps {
		out[i] = app.ToResponse()
	}
	return out, nil
}

// ListInput filters the staff application listing
type ListInput struct {
	Type   string
	Status string
	Search string
	Offset int
	Limit  int
}

// List lists applications for staff
func (s *ApplicationService) List(ctx context.Context, input ListInput) ([]*models.ApplicationResponse, int64, error) {
	filter := repositories.ApplicationFilter{
		Type:   domain.ApplicationType(strings.ToLower(input.Type)),
		Status: domain.ApplicationStatus(strings.ToLower(input.Status)),
		Search: strings.TrimSpace(input.Search),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, 0, validation.Field("type", "must be individual or organization")
	}
	apps, total, err := s.appRepo.List(ctx, filter, input.Offset, input.Limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*models.ApplicationResponse, len(apps))
	for i, app := range apps {
		out[i] = app.ToResponse()
	}
	return out, total, nil
}

// Requirements reports which documents are uploaded and which are missing
func (s *ApplicationService) Requirements(ctx context.Context, actor domain.Actor, applicationID string) (*RequirementsView, error) {
	app, err := s.Get(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}
	docs, err := s.docRepo.ListByApplication(ctx, app.Kind(), applicationID)
	if err != nil {
		return nil, err
	}

	view := &RequirementsView{
		ApplicationID: applicationID,
		Status:        app.Core().Status,
		Uploaded:      make([]DocumentSummary, 0, len(docs)),
	}
	for _, d := range docs {
		view.Uploaded = append(view.Uploaded, DocumentSummary{
			ID:           d.ID,
			DocumentType: d.DocumentType,
			Label:        documents.Label(d.DocumentType),
			Filename:     d.Filename,
			Status:       d.Status,
		})
	}

	switch a := app.(type) {
	case *models.IndividualApplication:
		res := documents.CheckIndividual(uploadedTags(docs), a.MatureEntry)
		view.OK, view.Reason = res.OK, res.Reason
		view.Required = documents.IndividualRequired(a.MatureEntry)
		view.Missing = res.Requirements
	case *models.OrganizationApplication:
		details, err := a.Details()
		if err != nil {
			return nil, err
		}
		res, err := evaluateOrganization(ctx, s.registryRepo, &details, uploadedSet(docs), s.now())
		if err != nil {
			return nil, err
		}
		view.OK, view.Reason = res.OK, res.Reason
		view.Required = documents.OrganizationRequired(a.DirectorCount)
		view.Missing = res.Missing
		view.Warnings = res.Warnings
	}
	if view.Missing == nil {
		view.Missing = []string{}
	}
	return view, nil
}

// History returns the audit trail of an application
func (s *ApplicationService) History(ctx context.Context, actor domain.Actor, applicationID string) ([]*models.StatusHistory, error) {
	app, err := s.Get(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}
	return s.historyRepo.ListByApplication(ctx, app.Kind(), applicationID)
}

func (s *ApplicationService) recordEligibility(t domain.ApplicationType, res eligibility.Result) {
	s.metrics.eligibility(string(t), outcomeOf(res))
}

// evaluateOrganization runs the organization rules with a fresh PREA lookup
func evaluateOrganization(ctx context.Context, registry repositories.RegistryRepository, details *domain.OrganizationPayload, uploaded map[string]bool, now time.Time) (eligibility.Result, error) {
	oc := eligibility.OrganizationContext{
		Uploaded:       uploaded,
		PREAIsDirector: details.PREAIsDirector(),
	}
	if number := strings.TrimSpace(details.PREAMemberNumber); number != "" {
		member, err := registry.GetMemberByNumber(ctx, strings.ToUpper(number))
		switch {
		case err == nil:
			oc.PREAIsActive = member.IsActive(now)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return eligibility.Result{}, err
		}
	}
	return eligibility.EvaluateOrganization(details, oc), nil
}

func decodeDetails(raw json.RawMessage, dst interface{}) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return validation.Field("details", "invalid JSON: "+err.Error())
	}
	return validation.Struct(dst)
}

// uploadedTags lists document types that count towards requirements
func uploadedTags(docs []*models.UploadedDocument) []string {
	tags := make([]string, 0, len(docs))
	for _, d := range docs {
		if !d.IsRejected() {
			tags = append(tags, d.DocumentType)
		}
	}
	return tags
}

func uploadedSet(docs []*models.UploadedDocument) map[string]bool {
	set := make(map[string]bool, len(docs))
	for _, tag := range uploadedTags(docs) {
		set[tag] = true
	}
	return set
}

func normalizeCategory(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
