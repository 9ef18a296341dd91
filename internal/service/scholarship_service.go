package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gradpath/internal/apperr"
	"gradpath/internal/model"
	"gradpath/internal/repository"
)

// MaxScholarshipAmount bounds the minimum-amount criterion
const MaxScholarshipAmount = 50000

// ScholarshipService searches the scholarship catalog
type ScholarshipService struct {
	repo   repository.ScholarshipRepo
	delay  func(context.Context) error
	logger *zap.Logger
}

// NewScholarshipService creates a scholarship service. simulate adds the
// offline catalog latency to each search.
func NewScholarshipService(repo repository.ScholarshipRepo, simulate func(context.Context) error, logger *zap.Logger) *ScholarshipService {
	if simulate == nil {
		simulate = func(ctx context.Context) error { return ctx.Err() }
	}
	return &ScholarshipService{repo: repo, delay: simulate, logger: logger.Named("scholarships")}
}

// Search validates criteria and returns matches in catalog order
func (s *ScholarshipService) Search(ctx context.Context, c model.ScholarshipCriteria) ([]model.Scholarship, error) {
	c = normalizeCriteria(c)
	if err := ValidateCriteria(c); err != nil {
		return nil, err
	}
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	results, err := s.repo.Search(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("search scholarships: %w", err)
	}
	s.logger.Debug("scholarship search",
		zap.String("university", c.University),
		zap.String("program", c.Program),
		zap.Int("minAmount", c.MinAmount),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// ValidateCriteria requires at least one criterion and a bounded amount
func ValidateCriteria(c model.ScholarshipCriteria) error {
	if c.MinAmount < 0 || c.MinAmount > MaxScholarshipAmount {
		return apperr.Invalid(fmt.Sprintf("Minimum amount must be between 0 and %d", MaxScholarshipAmount), "minAmount")
	}
	if c.University == "" && c.Program == "" && c.Country == "" && c.DegreeLevel == "" && c.MinAmount == 0 {
		return apperr.Invalid("Please enter at least one search criterion")
	}
	return nil
}

func normalizeCriteria(c model.ScholarshipCriteria) model.ScholarshipCriteria {
	c.University = strings.TrimSpace(c.University)
	c.Program = strings.TrimSpace(c.Program)
	c.Country = strings.TrimSpace(c.Country)
	c.DegreeLevel = strings.TrimSpace(c.DegreeLevel)
	return c
}
