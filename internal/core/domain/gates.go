package domain

import "fmt"

// Gate block codes
const (
	CodeInvalidApplicationState = "INVALID_APPLICATION_STATE"
	CodeFeeNotSettled           = "FEE_NOT_SETTLED"
)

// GateBlock describes why a submission was refused
type GateBlock struct {
	Code   string
	Title  string
	Detail string
}

// CheckSubmittableState blocks submission from anything but draft or
// needs_applicant_action.
func CheckSubmittableState(status ApplicationStatus) *GateBlock {
	if status.IsEditable() {
		return nil
	}
	return &GateBlock{
		Code:   CodeInvalidApplicationState,
		Title:  "Application cannot be submitted",
		Detail: fmt.Sprintf("Application is in state %q; only draft or needs_applicant_action applications can be submitted", status),
	}
}

// CheckFeeSettled blocks submission while a required fee has neither been
// settled nor backed by an uploaded proof of payment.
func CheckFeeSettled(feeRequired bool, status FeeStatus, proofDocumentID *uint) *GateBlock {
	if !feeRequired || status.IsCleared() || proofDocumentID != nil {
		return nil
	}
	return &GateBlock{
		Code:   CodeFeeNotSettled,
		Title:  "Application fee outstanding",
		Detail: "The application fee must be paid or a proof of payment uploaded before submission",
	}
}
