package domain

// transitions lists every allowed from -> to move. Rejection is reachable
// from any non-terminal stage and is handled in CanTransition.
var transitions = map[ApplicationStatus][]ApplicationStatus{
	StatusDraft:                {StatusEligibilityReview, StatusWithdrawn, StatusExpired},
	StatusNeedsApplicantAction: {StatusEligibilityReview, StatusWithdrawn, StatusExpired},
	StatusEligibilityReview:    {StatusDocumentReview, StatusNeedsApplicantAction, StatusWithdrawn},
	StatusDocumentReview:       {StatusPaymentReview, StatusNeedsApplicantAction},
	StatusPaymentReview:        {StatusApproved, StatusNeedsApplicantAction},
}

// CanTransition reports whether moving from -> to is allowed
func CanTransition(from, to ApplicationStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == StatusRejected {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s
func NextStatuses(s ApplicationStatus) []ApplicationStatus {
	if s.IsTerminal() {
		return nil
	}
	out := append([]ApplicationStatus{}, transitions[s]...)
	return append(out, StatusRejected)
}

// ApplicantStatusFor maps an application stage onto the applicant funnel
func ApplicantStatusFor(s ApplicationStatus) (ApplicantStatus, bool) {
	switch s {
	case StatusDraft, StatusNeedsApplicantAction:
		return ApplicantApplicationStarted, true
	case StatusEligibilityReview:
		return ApplicantApplicationCompleted, true
	case StatusDocumentReview, StatusPaymentReview:
		return ApplicantUnderReview, true
	case StatusApproved:
		return ApplicantApproved, true
	case StatusRejected:
		return ApplicantRejected, true
	case StatusWithdrawn, StatusExpired:
		return ApplicantEmailVerified, true
	}
	return "", false
}
