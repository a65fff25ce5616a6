package services

import (
	"context"
	"time"

	"eac-registry/internal/adapters/persistence/repositories"
	"eac-registry/internal/core/domain"
	"eac-registry/internal/pkg/series"
)

// IDGenerator issues applicant and application identifiers
type IDGenerator struct {
	repo repositories.NamingSeriesRepository
	now  func() time.Time
}

// NewIDGenerator creates a new ID generator
func NewIDGenerator(repo repositories.NamingSeriesRepository) *IDGenerator {
	return &IDGenerator{repo: repo, now: time.Now}
}

// NextApplicantID returns APP-MBR-YYYY-NNNN or APP-ORG-YYYY-NNNN
func (g *IDGenerator) NextApplicantID(ctx context.Context, t domain.ApplicationType) (string, error) {
	return g.next(ctx, series.ApplicantCode(t))
}

// NextApplicationID returns APL-MBR-YYYY-NNNN or APL-ORG-YYYY-NNNN
func (g *IDGenerator) NextApplicationID(ctx context.Context, t domain.ApplicationType) (string, error) {
	return g.next(ctx, series.ApplicationCode(t))
}

func (g *IDGenerator) next(ctx context.Context, code string) (string, error) {
	year := g.now().Year()
	n, err := g.repo.Next(ctx, code, year)
	if err != nil {
		return "", err
	}
	return series.Format(code, year, n), nil
}
