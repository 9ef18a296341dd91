package service

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gradpath/internal/apperr"
	"gradpath/internal/model"
	"gradpath/internal/repository"
)

// MaxCompareUniversities bounds a single fee comparison
const MaxCompareUniversities = 5

// Chart series
const (
	CompareByTotal   = "total"
	CompareByTuition = "tuition"
	CompareByLiving  = "living"
)

// FeeService compares annual costs across universities
type FeeService struct {
	repo   repository.CostRepo
	delay  func(context.Context) error
	logger *zap.Logger

	mu   sync.Mutex
	rand func() float64
}

// NewFeeService creates a fee comparison service
func NewFeeService(repo repository.CostRepo, simulate func(context.Context) error, logger *zap.Logger) *FeeService {
	if simulate == nil {
		simulate = func(ctx context.Context) error { return ctx.Err() }
	}
	return &FeeService{
		repo:   repo,
		delay:  simulate,
		logger: logger.Named("fees"),
		rand:   rand.Float64,
	}
}

// Compare returns one cost record per requested university in request
// order, estimating costs for universities missing from the catalog
func (s *FeeService) Compare(ctx context.Context, req model.FeeComparisonRequest) (*model.FeeComparison, error) {
	req, err := NormalizeFeeRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	records := make([]model.UniversityCosts, len(req.Universities))
	g, gctx := errgroup.WithContext(ctx)
	for i, uni := range req.Universities {
		g.Go(func() error {
			found, err := s.repo.FindByName(gctx, uni)
			if err != nil {
				return fmt.Errorf("lookup %q: %w", uni, err)
			}
			if found != nil {
				records[i] = *found
				return nil
			}
			s.logger.Debug("estimating costs", zap.String("university", uni))
			records[i] = s.estimate(uni)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.FeeComparison{
		Program:      req.Program,
		DegreeLevel:  req.DegreeLevel,
		CompareBy:    req.CompareBy,
		Universities: records,
		Chart:        Chart(records, req.CompareBy),
	}, nil
}

// NormalizeFeeRequest drops blank universities and validates the rest
func NormalizeFeeRequest(req model.FeeComparisonRequest) (model.FeeComparisonRequest, error) {
	unis := make([]string, 0, len(req.Universities))
	for _, u := range req.Universities {
		if u = strings.TrimSpace(u); u != "" {
			unis = append(unis, u)
		}
	}
	req.Universities = unis
	req.Program = strings.TrimSpace(req.Program)
	req.DegreeLevel = strings.TrimSpace(req.DegreeLevel)

	switch {
	case len(unis) == 0:
		return req, apperr.Invalid("Please enter at least one university", "universities")
	case len(unis) > MaxCompareUniversities:
		return req, apperr.Invalid(fmt.Sprintf("You can compare up to %d universities", MaxCompareUniversities), "universities")
	}
	var missing []string
	if req.Program == "" {
		missing = append(missing, "program")
	}
	if req.DegreeLevel == "" {
		missing = append(missing, "degreeLevel")
	}
	if len(missing) > 0 {
		return req, apperr.Invalid("Please fill in all required fields", missing...)
	}

	switch strings.ToLower(req.CompareBy) {
	case "", CompareByTotal:
		req.CompareBy = CompareByTotal
	case CompareByTuition:
		req.CompareBy = CompareByTuition
	case CompareByLiving:
		req.CompareBy = CompareByLiving
	default:
		return req, apperr.Invalid("compareBy must be total, tuition or living", "compareBy")
	}
	return req, nil
}

func (s *FeeService) estimate(name string) model.UniversityCosts {
	s.mu.Lock()
	defer s.mu.Unlock()
	between := func(lo, span float64) int {
		return int(math.Round(lo + s.rand()*span))
	}
	c := model.UniversityCosts{
		Name:          name,
		Tuition:       between(30000, 25000),
		Accommodation: between(10000, 8000),
		Living:        between(10000, 5000),
		Other:         between(3000, 2000),
		Currency:      "USD",
		Timeframe:     "Annual",
	}
	c.Total = c.Tuition + c.Accommodation + c.Living + c.Other
	return c
}

// Chart projects the records onto one cost series
func Chart(records []model.UniversityCosts, compareBy string) []model.ChartPoint {
	points := make([]model.ChartPoint, 0, len(records))
	for _, r := range records {
		v := r.Total
		switch compareBy {
		case CompareByTuition:
			v = r.Tuition
		case CompareByLiving:
			v = r.Living
		}
		points = append(points, model.ChartPoint{Name: r.Name, Value: v, Display: FormatUSD(v)})
	}
	return points
}

// FormatUSD renders whole dollars with thousands separators
func FormatUSD(v int) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	digits := strconv.Itoa(v)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + "$" + b.String()
}
