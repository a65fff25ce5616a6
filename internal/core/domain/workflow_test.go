package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_ForwardPath(t *testing.T) {
	path := []ApplicationStatus{StatusDraft, StatusEligibilityReview, StatusDocumentReview, StatusPaymentReview, StatusApproved}
	for i := 0; i < len(path)-1; i++ {
		assert.True(t, CanTransition(path[i], path[i+1]), "%s -> %s", path[i], path[i+1])
	}
}

func TestCanTransition_NoSkippingOrReversing(t *testing.T) {
	assert.False(t, CanTransition(StatusDraft, StatusDocumentReview))
	assert.False(t, CanTransition(StatusDraft, StatusApproved))
	assert.False(t, CanTransition(StatusEligibilityReview, StatusPaymentReview))
	assert.False(t, CanTransition(StatusPaymentReview, StatusDocumentReview))
	assert.False(t, CanTransition(StatusDocumentReview, StatusDraft))
}

func TestCanTransition_RejectFromAnyNonTerminal(t *testing.T) {
	for _, s := range AllApplicationStatuses {
		assert.Equal(t, !s.IsTerminal(), CanTransition(s, StatusRejected), string(s))
	}
}

func TestCanTransition_TerminalIsFinal(t *testing.T) {
	for _, from := range []ApplicationStatus{StatusApproved, StatusRejected, StatusWithdrawn, StatusExpired} {
		for _, to := range AllApplicationStatuses {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
		assert.Empty(t, NextStatuses(from))
	}
}

func TestCheckSubmittableState(t *testing.T) {
	assert.Nil(t, CheckSubmittableState(StatusDraft))
	assert.Nil(t, CheckSubmittableState(StatusNeedsApplicantAction))

	for _, s := range []ApplicationStatus{StatusEligibilityReview, StatusApproved, ApplicationStatus("under_review")} {
		block := CheckSubmittableState(s)
		if assert.NotNil(t, block) {
			assert.Equal(t, CodeInvalidApplicationState, block.Code)
			assert.Contains(t, block.Detail, string(s))
		}
	}
}

func TestCheckFeeSettled(t *testing.T) {
	proof := uint(7)

	assert.Nil(t, CheckFeeSettled(false, FeePending, nil))
	assert.Nil(t, CheckFeeSettled(true, FeeSettled, nil))
	assert.Nil(t, CheckFeeSettled(true, FeeWaived, nil))
	assert.Nil(t, CheckFeeSettled(true, FeeProofUploaded, &proof))

	block := CheckFeeSettled(true, FeePending, nil)
	if assert.NotNil(t, block) {
		assert.Equal(t, CodeFeeNotSettled, block.Code)
	}
}

func TestPayloadUpgrade(t *testing.T) {
	p := IndividualPayload{}
	assert.NoError(t, p.Upgrade())
	assert.Equal(t, PayloadSchemaVersion, p.SchemaVersion)

	p.SchemaVersion = PayloadSchemaVersion + 1
	assert.ErrorIs(t, p.Upgrade(), ErrSchemaVersion)
}

func TestPREAIsDirector(t *testing.T) {
	p := OrganizationPayload{
		PREAMemberNumber: "EAC-MBR-2024-0003",
		Directors:        []Director{{Name: "A"}, {Name: "B", MembershipNumber: "eac-mbr-2024-0003"}},
	}
	assert.True(t, p.PREAIsDirector())

	p.Directors = p.Directors[:1]
	assert.False(t, p.PREAIsDirector())
}
