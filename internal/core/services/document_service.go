package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/adapters/persistence/repositories"
	"eac-registry/internal/adapters/ratelimit"
	"eac-registry/internal/adapters/storage"
	"eac-registry/internal/config"
	"eac-registry/internal/core/documents"
	"eac-registry/internal/core/domain"
	"eac-registry/internal/pkg/filecheck"
	"eac-registry/internal/pkg/validation"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FileRejectedError carries the validator result of a refused upload
type FileRejectedError struct {
	Result filecheck.Result
}

func (e *FileRejectedError) Error() string {
	return "file rejected: " + strings.Join(e.Result.Errors, "; ")
}

func (e *FileRejectedError) Unwrap() error { return domain.ErrInvalidInput }

// DocumentService handles uploads, downloads and staff verification
type DocumentService struct {
	tx        repositories.TxManager
	appRepo   repositories.ApplicationRepository
	docRepo   repositories.DocumentRepository
	store     storage.Store
	limiter   ratelimit.Limiter
	validator *filecheck.Validator
	policy    *config.Policy
	metrics   *Metrics
}

// NewDocumentService creates a new document service
func NewDocumentService(
	tx repositories.TxManager,
	appRepo repositories.ApplicationRepository,
	docRepo repositories.DocumentRepository,
	store storage.Store,
	limiter ratelimit.Limiter,
	policy *config.Policy,
	metrics *Metrics,
) *DocumentService {
	return &DocumentService{
		tx:      tx,
		appRepo: appRepo,
		docRepo: docRepo,
		store:   store,
		limiter: limiter,
		validator: filecheck.New(filecheck.Limits{
			Default: policy.Uploads.DefaultMaxBytes,
			PerType: policy.Uploads.MaxBytes,
		}),
		policy:  policy,
		metrics: metrics,
	}
}

// UploadInput is one received file
type UploadInput struct {
	DocumentType string
	Filename     string
	DeclaredMIME string
	DeclaredSize int64
	Content      []byte
}

// UploadResult describes the stored document
type UploadResult struct {
	Document   *models.UploadedDocument `json:"document"`
	Validation filecheck.Result         `json:"validation"`
	Replaced   bool                     `json:"replaced"`
	Unchanged  bool                     `json:"unchanged"`
}

// VerifyDocumentInput is a staff verification decision
type VerifyDocumentInput struct {
	Status  string `json:"status" validate:"required,oneof=verified rejected"`
	Comment string `json:"comment" validate:"max=500"`
}

// DownloadedFile is a resolved presigned download
type DownloadedFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Upload validates and stores a document for an editable application
func (s *DocumentService) Upload(ctx context.Context, actor domain.Actor, applicationID string, input *UploadInput) (*UploadResult, error) {
	docType, ok := documents.Lookup(strings.TrimSpace(input.DocumentType))
	if !ok {
		return nil, validation.Field("document_type", fmt.Sprintf("unknown document type %q", input.DocumentType))
	}

	// 1. Ownership and editable status
	app, err := s.appRepo.Get(ctx, applicationID)
	if err != nil {
		return nil, notFound(err)
	}
	core := app.Core()
	if core.UserID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	if !core.CurrentStatus().IsEditable() {
		return nil, domain.ErrApplicationLocked
	}

	// 2. Hourly quota per user
	allowed, err := s.limiter.Allow(ctx, fmt.Sprintf("upload:%d", actor.UserID))
	if err != nil {
		log.Printf("⚠️ Upload limiter unavailable, allowing upload: %v", err)
	} else if !allowed {
		s.metrics.upload("quota")
		return nil, domain.ErrUploadQuotaExceeded
	}

	// 3. Content checks
	check := s.validator.Validate(filecheck.FileInput{
		Filename:     input.Filename,
		DeclaredMIME: input.DeclaredMIME,
		DeclaredSize: input.DeclaredSize,
		DocumentType: docType.Tag,
		Content:      input.Content,
	})
	if !check.IsValid {
		s.metrics.upload("invalid")
		return nil, &FileRejectedError{Result: check}
	}

	// 4. Duplicate content
	hashScope := s.hashScope(app, check.FileInfo.Hash)
	existing, err := s.docRepo.FindByHashScope(ctx, hashScope)
	switch {
	case err == nil:
		if existing.ApplicationID == core.ApplicationID && existing.DocumentType == docType.Tag {
			s.metrics.upload("unchanged")
			return &UploadResult{Document: existing, Validation: check, Unchanged: true}, nil
		}
		s.metrics.upload("duplicate")
		return nil, domain.ErrDuplicateContent
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	slot := docType.Tag
	if !docType.SingleInstance {
		slot = docType.Tag + ":" + uuid.New().String()
	}

	var previous *models.UploadedDocument
	if docType.SingleInstance {
		previous, err = s.docRepo.GetBySlot(ctx, app.Kind(), core.ApplicationID, slot)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	// 5. Blob first, row second; an orphaned blob is cleaned up on failure
	ext := strings.ToLower(filepath.Ext(input.Filename))
	key := fmt.Sprintf("%s/%s/%s%s", app.Kind(), core.ApplicationID, uuid.New().String(), ext)
	if err := s.store.Put(ctx, key, check.FileInfo.MimeType, input.Content); err != nil {
		s.metrics.upload("storage_error")
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc := &models.UploadedDocument{
		ApplicationType: string(app.Kind()),
		ApplicationID:   core.ApplicationID,
		Slot:            slot,
		DocumentType:    docType.Tag,
		UploadedBy:      actor.UserID,
		StorageKey:      key,
		Filename:        filepath.Base(input.Filename),
		MimeType:        check.FileInfo.MimeType,
		Size:            check.FileInfo.Size,
		ContentHash:     check.FileInfo.Hash,
		HashScope:       hashScope,
		Warnings:        datatypes.NewJSONType(check.Warnings),
		Status:          string(domain.DocumentUploaded),
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.docRepo.Upsert(ctx, doc); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateContent
			}
			return err
		}
		if docType.Tag != documents.FeeProof {
			return nil
		}
		updates := map[string]interface{}{"fee_proof_document_id": doc.ID}
		if core.CurrentFeeStatus() == domain.FeePending {
			updates["fee_status"] = string(domain.FeeProofUploaded)
		}
		return s.appRepo.UpdateFields(ctx, app, updates)
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			log.Printf("⚠️ Failed to remove orphaned blob %s: %v", key, delErr)
		}
		if errors.Is(err, domain.ErrDuplicateContent) {
			s.metrics.upload("duplicate")
		}
		return nil, err
	}

	if previous != nil && previous.StorageKey != key {
		if delErr := s.store.Delete(ctx, previous.StorageKey); delErr != nil {
			log.Printf("⚠️ Failed to remove replaced blob %s: %v", previous.StorageKey, delErr)
		}
	}

	s.metrics.upload("stored")
	log.Printf("📎 Document %s uploaded to %s (%d bytes)", docType.Tag, core.ApplicationID, doc.Size)
	return &UploadResult{Document: doc, Validation: check, Replaced: previous != nil}, nil
}

// hashScope is the uniqueness key for content under the configured policy
func (s *DocumentService) hashScope(app models.Application, hash string) string {
	if s.policy.Uploads.DuplicateScope == domain.DuplicateScopeApplication {
		return fmt.Sprintf("%s:%s:%s", app.Kind(), app.Core().ApplicationID, hash)
	}
	return hash
}

// List lists the documents of an application the actor may see
func (s *DocumentService) List(ctx context.Context, actor domain.Actor, applicationID string) ([]*models.UploadedDocument, error) {
	app, err := s.appRepo.Get(ctx, applicationID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := authorize(app, actor); err != nil {
		return nil, err
	}
	return s.docRepo.ListByApplication(ctx, app.Kind(), applicationID)
}

// Delete removes a document from an editable application
func (s *DocumentService) Delete(ctx context.Context, actor domain.Actor, docID uint) error {
	doc, app, err := s.load(ctx, actor, docID)
	if err != nil {
		return err
	}
	core := app.Core()
	if core.UserID != actor.UserID {
		return domain.ErrForbidden
	}
	if !core.CurrentStatus().IsEditable() {
		return domain.ErrApplicationLocked
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.docRepo.Delete(ctx, doc.ID); err != nil {
			return err
		}
		if core.FeeProofDocumentID == nil || *core.FeeProofDocumentID != doc.ID {
			return nil
		}
		updates := map[string]interface{}{"fee_proof_document_id": nil}
		if core.CurrentFeeStatus() == domain.FeeProofUploaded {
			updates["fee_status"] = string(domain.FeePending)
		}
		return s.appRepo.UpdateFields(ctx, app, updates)
	})
	if err != nil {
		return notFound(err)
	}

	if err := s.store.Delete(ctx, doc.StorageKey); err != nil {
		log.Printf("⚠️ Failed to remove blob %s: %v", doc.StorageKey, err)
	}
	return nil
}

// PresignURL returns a time-limited download link
func (s *DocumentService) PresignURL(ctx context.Context, actor domain.Actor, docID uint) (*storage.PresignedURL, error) {
	doc, _, err := s.load(ctx, actor, docID)
	if err != nil {
		return nil, err
	}
	return s.store.PresignGet(doc.StorageKey, doc.Filename)
}

// Download resolves a presigned token to the file content
func (s *DocumentService) Download(ctx context.Context, token string) (*DownloadedFile, error) {
	key, filename, err := s.store.Resolve(token)
	if err != nil {
		return nil, err
	}
	content, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return &DownloadedFile{
		Filename:    filename,
		ContentType: mimetype.Detect(content).String(),
		Content:     content,
	}, nil
}

// Verify records a staff verify/reject decision on a document
func (s *DocumentService) Verify(ctx context.Context, actor domain.Actor, docID uint, input *VerifyDocumentInput) (*models.UploadedDocument, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if !actor.Role.IsStaff() {
		return nil, domain.ErrForbidden
	}
	status := domain.DocumentStatus(input.Status)
	if status == domain.DocumentRejected && strings.TrimSpace(input.Comment) == "" {
		return nil, validation.Field("comment", "is required when rejecting a document")
	}

	doc, app, err := s.load(ctx, actor, docID)
	if err != nil {
		return nil, err
	}
	if app.Core().CurrentStatus().IsTerminal() {
		return nil, domain.ErrApplicationLocked
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.docRepo.UpdateVerification(ctx, doc.ID, status, actor.UserID, strings.TrimSpace(input.Comment)); err != nil {
			return err
		}
		if doc.DocumentType != documents.FeeProof {
			return nil
		}
		if updates := feeProofLink(app.Core(), doc.ID, status); len(updates) > 0 {
			return s.appRepo.UpdateFields(ctx, app, updates)
		}
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}

	log.Printf("✅ Document %d on %s marked %s by user %d", doc.ID, doc.ApplicationID, status, actor.UserID)
	now := time.Now()
	doc.Status = string(status)
	doc.VerifiedBy = &actor.UserID
	doc.VerifiedAt = &now
	doc.Comment = strings.TrimSpace(input.Comment)
	return doc, nil
}

// feeProofLink keeps the application's proof reference in step with staff
// review: a rejected proof no longer stands in for payment.
func feeProofLink(core *models.ApplicationCore, docID uint, status domain.DocumentStatus) map[string]interface{} {
	linked := core.FeeProofDocumentID != nil && *core.FeeProofDocumentID == docID
	switch {
	case status == domain.DocumentRejected && linked:
		updates := map[string]interface{}{"fee_proof_document_id": nil}
		if core.CurrentFeeStatus() == domain.FeeProofUploaded {
			updates["fee_status"] = string(domain.FeePending)
		}
		return updates
	case status == domain.DocumentVerified && !linked:
		updates := map[string]interface{}{"fee_proof_document_id": docID}
		if core.CurrentFeeStatus() == domain.FeePending {
			updates["fee_status"] = string(domain.FeeProofUploaded)
		}
		return updates
	}
	return nil
}

func (s *DocumentService) load(ctx context.Context, actor domain.Actor, docID uint) (*models.UploadedDocument, models.Application, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, nil, notFound(err)
	}
	app, err := s.appRepo.Get(ctx, doc.ApplicationID)
	if err != nil {
		return nil, nil, notFound(err)
	}
	if err := authorize(app, actor); err != nil {
		return nil, nil, err
	}
	return doc, app, nil
}
