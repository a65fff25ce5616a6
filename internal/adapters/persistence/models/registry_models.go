package models

import (
	"time"

	"eac-registry/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ============================================================
// Documents & Audit
// ============================================================

// UploadedDocument represents uploaded_documents table
type UploadedDocument struct {
	ID              uint                         `gorm:"primaryKey" json:"id"`
	ApplicationType string                       `gorm:"size:20;not null;uniqueIndex:idx_doc_slot,priority:1" json:"application_type"`
	ApplicationID   string                       `gorm:"size:20;not null;uniqueIndex:idx_doc_slot,priority:2;index" json:"application_id"`
	Slot            string                       `gorm:"size:100;not null;uniqueIndex:idx_doc_slot,priority:3" json:"-"`
	DocumentType    string                       `gorm:"size:60;not null;index" json:"document_type"`
	UploadedBy      uint                         `gorm:"not null" json:"uploaded_by"`
	StorageKey      string                       `gorm:"size:255;not null" json:"-"`
	Filename        string                       `gorm:"size:255;not null" json:"filename"`
	MimeType        string                       `gorm:"size:120;not null" json:"mime_type"`
	Size            int64                        `gorm:"not null" json:"size"`
	ContentHash     string                       `gorm:"size:64;not null;index" json:"content_hash"`
	HashScope       string                       `gorm:"size:120;not null;uniqueIndex" json:"-"`
	Warnings        datatypes.JSONType[[]string] `json:"warnings"`
	Status          string                       `gorm:"size:20;not null;default:'uploaded'" json:"status"`
	VerifiedBy      *uint                        `json:"verified_by"`
	VerifiedAt      *time.Time                   `json:"verified_at"`
	Comment         string                       `gorm:"size:500" json:"comment"`
	CreatedAt       time.Time                    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time                    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UploadedDocument) TableName() string {
	return "uploaded_documents"
}

// IsRejected reports whether staff rejected the document
func (d *UploadedDocument) IsRejected() bool {
	return d.Status == string(domain.DocumentRejected)
}

// StatusHistory represents status_histories table (append-only)
type StatusHistory struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ApplicationType string    `gorm:"size:20;not null;index:idx_history_app,priority:1" json:"application_type"`
	ApplicationID   string    `gorm:"size:20;not null;index:idx_history_app,priority:2" json:"application_id"`
	FromStatus      string    `gorm:"size:30" json:"from_status"`
	ToStatus        string    `gorm:"size:30;not null" json:"to_status"`
	ActorID         *uint     `json:"actor_id"`
	ActorRole       string    `gorm:"size:20" json:"actor_role"`
	IPAddress       string    `gorm:"size:45" json:"-"`
	Comment         string    `gorm:"size:1000" json:"comment"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (StatusHistory) TableName() string {
	return "status_histories"
}

// RegistryDecision represents registry_decisions table
type RegistryDecision struct {
	ID              uint                         `gorm:"primaryKey" json:"id"`
	ApplicationType string                       `gorm:"size:20;not null;uniqueIndex:idx_decision_app,priority:1" json:"application_type"`
	ApplicationID   string                       `gorm:"size:20;not null;uniqueIndex:idx_decision_app,priority:2" json:"application_id"`
	Decision        string                       `gorm:"size:20;not null" json:"decision"`
	Reasons         datatypes.JSONType[[]string] `json:"reasons"`
	DecidedBy       uint                         `gorm:"not null" json:"decided_by"`
	DecidedAt       time.Time                    `gorm:"not null" json:"decided_at"`
}

func (RegistryDecision) TableName() string {
	return "registry_decisions"
}

// ============================================================
// Registry records
// ============================================================

// Member represents members table (registered individual estate agents)
type Member struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	MembershipNumber string     `gorm:"uniqueIndex;size:20;not null" json:"membership_number"`
	ApplicationID    string     `gorm:"uniqueIndex;size:20;not null" json:"application_id"`
	ApplicantID      string     `gorm:"size:20;not null;index" json:"applicant_id"`
	UserID           uint       `gorm:"not null;index" json:"-"`
	FullName         string     `gorm:"size:200;not null" json:"full_name"`
	Email            string     `gorm:"size:150;not null" json:"email"`
	NationalID       string     `gorm:"size:40" json:"-"`
	MemberType       string     `gorm:"size:60;not null" json:"member_type"`
	Status           string     `gorm:"size:20;not null;index" json:"status"`
	RegisteredAt     time.Time  `gorm:"not null" json:"registered_at"`
	ExpiresAt        time.Time  `gorm:"not null;index" json:"expires_at"`
	SuspendedAt      *time.Time `json:"suspended_at,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

// IsActive reports whether the member is in good standing on t
func (m *Member) IsActive(t time.Time) bool {
	return m.Status == string(domain.RegistrationActive) && t.Before(m.ExpiresAt)
}

// Organization represents organizations table (registered estate agencies)
type Organization struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	RegistrationNumber string     `gorm:"uniqueIndex;size:20;not null" json:"registration_number"`
	ApplicationID      string     `gorm:"uniqueIndex;size:20;not null" json:"application_id"`
	ApplicantID        string     `gorm:"size:20;not null;index" json:"applicant_id"`
	UserID             uint       `gorm:"not null;index" json:"-"`
	LegalName          string     `gorm:"size:200;not null" json:"legal_name"`
	TradingName        string     `gorm:"size:200" json:"trading_name"`
	CompanyNumber      string     `gorm:"size:60" json:"company_number"`
	Email              string     `gorm:"size:150;not null" json:"email"`
	BusinessType       string     `gorm:"size:60;not null" json:"business_type"`
	PREAMemberNumber   string     `gorm:"size:40" json:"prea_member_number"`
	DirectorCount      int        `json:"director_count"`
	Status             string     `gorm:"size:20;not null;index" json:"status"`
	RegisteredAt       time.Time  `gorm:"not null" json:"registered_at"`
	ExpiresAt          time.Time  `gorm:"not null;index" json:"expires_at"`
	SuspendedAt        *time.Time `json:"suspended_at,omitempty"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Organization) TableName() string {
	return "organizations"
}

// RegistryEntry is the public verification view of a member or organization
type RegistryEntry struct {
	Number         string    `json:"number"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Status         string    `json:"status"`
	RegisteredAt   time.Time `json:"registered_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	InGoodStanding bool      `json:"in_good_standing"`
}

func (m *Member) ToEntry(now time.Time) *RegistryEntry {
	return &RegistryEntry{
		Number:         m.MembershipNumber,
		Name:           m.FullName,
		Category:       m.MemberType,
		Status:         m.Status,
		RegisteredAt:   m.RegisteredAt,
		ExpiresAt:      m.ExpiresAt,
		InGoodStanding: m.IsActive(now),
	}
}

func (o *Organization) ToEntry(now time.Time) *RegistryEntry {
	return &RegistryEntry{
		Number:         o.RegistrationNumber,
		Name:           o.LegalName,
		Category:       o.BusinessType,
		Status:         o.Status,
		RegisteredAt:   o.RegisteredAt,
		ExpiresAt:      o.ExpiresAt,
		InGoodStanding: o.Status == string(domain.RegistrationActive) && now.Before(o.ExpiresAt),
	}
}

// ============================================================
// Infrastructure
// ============================================================

// NamingSeriesCounter represents naming_series_counters table
type NamingSeriesCounter struct {
	ID         uint   `gorm:"primaryKey"`
	Series     string `gorm:"size:20;not null;uniqueIndex:idx_series_year,priority:1"`
	Year       int    `gorm:"not null;uniqueIndex:idx_series_year,priority:2"`
	LastNumber int    `gorm:"not null;default:0"`
}

func (NamingSeriesCounter) TableName() string {
	return "naming_series_counters"
}

// Payment status values (PayNow status strings lower-cased)
const (
	PaymentCreated          = "created"
	PaymentSent             = "sent"
	PaymentPaid             = "paid"
	PaymentAwaitingDelivery = "awaiting_delivery"
	PaymentCancelled        = "cancelled"
	PaymentFailed           = "failed"
)

// Payment represents payments table
type Payment struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Reference        string          `gorm:"uniqueIndex;size:40;not null" json:"reference"`
	ApplicationType  string          `gorm:"size:20;not null" json:"application_type"`
	ApplicationID    string          `gorm:"size:20;not null;index" json:"application_id"`
	UserID           uint            `gorm:"not null" json:"-"`
	Amount           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency         string          `gorm:"size:3;not null" json:"currency"`
	Gateway          string          `gorm:"size:30;not null" json:"gateway"`
	RedirectURL      string          `gorm:"size:500" json:"redirect_url"`
	PollURL          string          `gorm:"size:500" json:"-"`
	GatewayReference string          `gorm:"size:60" json:"gateway_reference"`
	Status           string          `gorm:"size:30;not null;index" json:"status"`
	PaidAt           *time.Time      `json:"paid_at"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// IsFinal reports whether the gateway will not change the status again
func (p *Payment) IsFinal() bool {
	switch p.Status {
	case PaymentPaid, PaymentAwaitingDelivery, PaymentCancelled, PaymentFailed:
		return true
	}
	return false
}

// Outbox status values
const (
	OutboxPending = "pending"
	OutboxSending = "sending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// OutboxAttachment is stored inline with the queued message
type OutboxAttachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

// NotificationOutbox represents notification_outbox table
type NotificationOutbox struct {
	ID            uint                                   `gorm:"primaryKey" json:"id"`
	Recipient     string                                 `gorm:"size:150;not null;index" json:"recipient"`
	Subject       string                                 `gorm:"size:255;not null" json:"subject"`
	HTMLBody      string                                 `gorm:"type:text" json:"-"`
	TextBody      string                                 `gorm:"type:text" json:"-"`
	Attachments   datatypes.JSONType[[]OutboxAttachment] `json:"-"`
	Template      string                                 `gorm:"size:60;index" json:"template"`
	ApplicationID string                                 `gorm:"size:20;index" json:"application_id"`
	Status        string                                 `gorm:"size:20;not null;index:idx_outbox_due,priority:1" json:"status"`
	Attempts      int                                    `gorm:"not null;default:0" json:"attempts"`
	NextAttemptAt time.Time                              `gorm:"not null;index:idx_outbox_due,priority:2" json:"next_attempt_at"`
	LastError     string                                 `gorm:"size:1000" json:"last_error"`
	SentAt        *time.Time                             `json:"sent_at"`
	CreatedAt     time.Time                              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time                              `gorm:"autoUpdateTime" json:"updated_at"`
}

func (NotificationOutbox) TableName() string {
	return "notification_outbox"
}
