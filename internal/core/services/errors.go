package services

import (
	"errors"

	"eac-registry/internal/core/domain"
	"eac-registry/internal/core/eligibility"

	"gorm.io/gorm"
)

// EligibilityError carries the failed eligibility result
type EligibilityError struct {
	Result eligibility.Result
}

func (e *EligibilityError) Error() string { return e.Result.Reason }

func (e *EligibilityError) Unwrap() error { return domain.ErrIneligible }

// RequirementsError lists what is still missing before submission
type RequirementsError struct {
	Reason       string
	Requirements []string
	Warnings     []string
}

func (e *RequirementsError) Error() string { return e.Reason }

func (e *RequirementsError) Unwrap() error { return domain.ErrRequirementsNotMet }

// GateError wraps a submission gate block
type GateError struct {
	Block *domain.GateBlock
}

func (e *GateError) Error() string { return e.Block.Detail }

func (e *GateError) Unwrap() error {
	if e.Block.Code == domain.CodeFeeNotSettled {
		return domain.ErrFeeNotSettled
	}
	return domain.ErrApplicationLocked
}

// notFound maps gorm's missing-row error onto domain.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
