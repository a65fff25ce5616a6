package domain

import "errors"

// Common domain errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Workflow errors
var (
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrStatusConflict      = errors.New("application status changed concurrently")
	ErrApplicationLocked   = errors.New("application is not editable in its current status")
	ErrFeeNotSettled       = errors.New("application fee not settled")
	ErrRequirementsNotMet  = errors.New("document requirements not met")
	ErrIneligible          = errors.New("applicant is not eligible")
	ErrDocumentsRejected   = errors.New("application has rejected documents")
	ErrAlreadyDecided      = errors.New("application already has a registry decision")
	ErrOpenApplication     = errors.New("applicant already has an open application")
	ErrAlreadyRegistered   = errors.New("applicant is already on the register")
	ErrEmailNotVerified    = errors.New("email address not verified")
	ErrUnknownApplication  = errors.New("unknown application identifier")
	ErrSchemaVersion       = errors.New("unsupported payload schema version")
	ErrDuplicateContent    = errors.New("duplicate file content")
	ErrUploadQuotaExceeded = errors.New("upload quota exceeded")
	ErrNoFeeOutstanding    = errors.New("no application fee outstanding")
	ErrIntegration         = errors.New("downstream integration failed")
)
