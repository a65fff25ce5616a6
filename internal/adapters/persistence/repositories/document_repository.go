package repositories

import (
	"context"
	"errors"
	"time"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/core/domain"

	"gorm.io/gorm"
)

// documentRepository implements DocumentRepository interface
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Upsert writes doc into its (application, slot). An existing row in the slot
// is overwritten and verification is reset. A unique violation on hash_scope
// surfaces as gorm.ErrDuplicatedKey; losing the insert race for the slot
// falls through to an update instead.
func (r *documentRepository) Upsert(ctx context.Context, doc *models.UploadedDocument) error {
	for attempt := 0; attempt < 2; attempt++ {
		existing, err := r.GetBySlot(ctx, domain.ApplicationType(doc.ApplicationType), doc.ApplicationID, doc.Slot)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// savepoint: postgres aborts the whole transaction on a failed insert
			err = conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
				return tx.Create(doc).Error
			})
			if errors.Is(err, gorm.ErrDuplicatedKey) && attempt == 0 && !r.hashHeldElsewhere(ctx, doc) {
				doc.ID = 0
				continue
			}
			return err
		case err != nil:
			return err
		}

		doc.ID = existing.ID
		doc.CreatedAt = existing.CreatedAt
		return conn(ctx, r.db).Model(existing).Updates(map[string]interface{}{
			"document_type": doc.DocumentType,
			"uploaded_by":   doc.UploadedBy,
			"storage_key":   doc.StorageKey,
			"filename":      doc.Filename,
			"mime_type":     doc.MimeType,
			"size":          doc.Size,
			"content_hash":  doc.ContentHash,
			"hash_scope":    doc.HashScope,
			"warnings":      doc.Warnings,
			"status":        string(domain.DocumentUploaded),
			"verified_by":   nil,
			"verified_at":   nil,
			"comment":       "",
		}).Error
	}
	return domain.ErrStatusConflict
}

// hashHeldElsewhere reports whether doc's hash scope belongs to another slot.
// A lookup failure counts as held so the violation is reported as is.
func (r *documentRepository) hashHeldElsewhere(ctx context.Context, doc *models.UploadedDocument) bool {
	holder, err := r.FindByHashScope(ctx, doc.HashScope)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	if err != nil {
		return true
	}
	return holder.ApplicationType != doc.ApplicationType ||
		holder.ApplicationID != doc.ApplicationID ||
		holder.Slot != doc.Slot
}

// GetByID gets a document by ID
func (r *documentRepository) GetByID(ctx context.Context, id uint) (*models.UploadedDocument, error) {
	var doc models.UploadedDocument
	if err := conn(ctx, r.db).Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetBySlot gets the document occupying a slot of an application
func (r *documentRepository) GetBySlot(ctx context.Context, t domain.ApplicationType, applicationID, slot string) (*models.UploadedDocument, error) {
	var doc models.UploadedDocument
	err := conn(ctx, r.db).
		Where("application_type = ? AND application_id = ? AND slot = ?", string(t), applicationID, slot).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindByHashScope finds the document already holding a content hash scope
func (r *documentRepository) FindByHashScope(ctx context.Context, hashScope string) (*models.UploadedDocument, error) {
	var doc models.UploadedDocument
	if err := conn(ctx, r.db).Where("hash_scope = ?", hashScope).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListByApplication lists all documents of an application
func (r *documentRepository) ListByApplication(ctx context.Context, t domain.ApplicationType, applicationID string) ([]*models.UploadedDocument, error) {
	var docs []*models.UploadedDocument
	err := conn(ctx, r.db).
		Where("application_type = ? AND application_id = ?", string(t), applicationID).
		Order("document_type ASC").
		Order("id ASC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// UpdateVerification records a staff verify/reject decision
func (r *documentRepository) UpdateVerification(ctx context.Context, id uint, status domain.DocumentStatus, verifiedBy uint, comment string) error {
	now := time.Now()
	result := conn(ctx, r.db).Model(&models.UploadedDocument{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      string(status),
			"verified_by": verifiedBy,
			"verified_at": &now,
			"comment":     comment,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByStatus counts an application's documents in a verification status
func (r *documentRepository) CountByStatus(ctx context.Context, t domain.ApplicationType, applicationID string, status domain.DocumentStatus) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.UploadedDocument{}).
		Where("application_type = ? AND application_id = ?", string(t), applicationID).
		Where("status = ?", string(status)).
		Count(&count).Error
	return count, err
}

// Delete removes a document row; the blob is removed by the caller
func (r *documentRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&models.UploadedDocument{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
