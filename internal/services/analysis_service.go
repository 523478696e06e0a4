package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/titleguard/api/internal/assessment"
	"github.com/titleguard/api/internal/config"
	"github.com/titleguard/api/internal/fallback"
	"github.com/titleguard/api/internal/financial"
	"github.com/titleguard/api/internal/geometry"
	"github.com/titleguard/api/internal/logger"
	"github.com/titleguard/api/internal/models"
	"github.com/titleguard/api/internal/observability"
	"github.com/titleguard/api/internal/repository"
	"github.com/titleguard/api/internal/scoring"
)

// Service-level errors
var (
	ErrAddressRequired  = errors.New("address is required")
	ErrParcelRequired   = errors.New("parcel geometry is required and no stored record exists for this address")
	ErrInvalidGeometry  = errors.New("invalid geometry")
	ErrPropertyNotFound = errors.New("property record not found")
)

// AnalysisRequest is the engine's input contract: an address identifier
// plus whatever geometry and raw inputs the caller's data-fetch
// collaborators could supply. Missing fields are hydrated from the stored
// record when one exists, and fallback-substituted otherwise.
type AnalysisRequest struct {
	Address           string
	Parcel            *models.Polygon
	Building          *models.Polygon
	Easements         []models.Polygon
	ZoningMaxCoverage *float64
	Inputs            models.RawFactorInputs
}

// AnalysisService defines the interface for property risk analysis.
type AnalysisService interface {
	// Analyze runs the full derivation pipeline for one request.
	// Returns ErrAddressRequired or ErrParcelRequired for incomplete input,
	// ErrInvalidGeometry (wrapping the geometry detail) for degenerate
	// polygons, and scoring.ErrWeightConfiguration if the weight table is
	// broken. A computable request always yields a complete result, even
	// when every raw input was fallback-substituted.
	Analyze(ctx context.Context, req AnalysisRequest) (*assessment.Result, error)

	// GetProperty returns the stored property record for an address.
	// Returns ErrPropertyNotFound when no record exists.
	GetProperty(ctx context.Context, address string) (*models.PropertyRecord, error)
}

// analysisService is the concrete implementation of AnalysisService.
type analysisService struct {
	repo    repository.PropertyRepository
	log     *logger.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
	engine  config.EngineConfig
}

// NewAnalysisService creates a new instance of AnalysisService.
func NewAnalysisService(
	repo repository.PropertyRepository,
	log *logger.Logger,
	metrics *observability.Metrics,
	clock clockwork.Clock,
	engine config.EngineConfig,
) AnalysisService {
	return &analysisService{
		repo:    repo,
		log:     log,
		metrics: metrics,
		clock:   clock,
		engine:  engine,
	}
}

// Analyze orchestrates the pipeline stages in dependency order: hydrate,
// validate geometry, derive metrics, substitute missing inputs, normalize,
// compose, project, assemble. Each stage only reads the outputs of the
// previous ones; nothing here is recomputed downstream.
func (s *analysisService) Analyze(ctx context.Context, req AnalysisRequest) (*assessment.Result, error) {
	start := time.Now()

	address := strings.TrimSpace(req.Address)
	if address == "" {
		return nil, ErrAddressRequired
	}

	s.hydrateFromRecord(ctx, address, &req)

	if req.Parcel == nil || req.Parcel.IsEmpty() {
		s.log.Warn("No parcel geometry available", map[string]interface{}{
			"address": address,
		})
		return nil, ErrParcelRequired
	}

	if err := s.validateGeometry(&req); err != nil {
		s.metrics.AnalysisErrors.Inc()
		return nil, err
	}

	// Geometry-derived metrics.
	coveragePct, err := geometry.CoveragePct(req.Building, req.Parcel)
	if err != nil {
		s.metrics.AnalysisErrors.Inc()
		return nil, fmt.Errorf("%w: parcel: %v", ErrInvalidGeometry, err)
	}
	encroachmentPct, err := geometry.EncroachmentPct(req.Easements, req.Parcel)
	if err != nil {
		s.metrics.AnalysisErrors.Inc()
		return nil, fmt.Errorf("%w: parcel: %v", ErrInvalidGeometry, err)
	}

	zoningMax := s.engine.DefaultMaxCoverage
	if req.ZoningMaxCoverage != nil && *req.ZoningMaxCoverage > 0 {
		zoningMax = *req.ZoningMaxCoverage
	}

	// Building size: recorded value wins, then geometry, then the default.
	var derivedSqft float64
	if req.Building != nil && !req.Building.IsEmpty() {
		derivedSqft = geometry.AreaSqft(req.Building)
	}
	buildingSqft := s.engine.DefaultBuildingSqft
	switch {
	case req.Inputs.BuildingSqft != nil && *req.Inputs.BuildingSqft > 0:
		buildingSqft = *req.Inputs.BuildingSqft
	case derivedSqft > 0:
		buildingSqft = derivedSqft
	}
	surveyAnchor := derivedSqft
	if surveyAnchor <= 0 {
		surveyAnchor = buildingSqft
	}

	// Deterministic substitution for everything the providers lacked.
	stream := fallback.NewStream(address)
	currentYear := s.clock.Now().Year()
	complete, substituted := scoring.Substitute(req.Inputs, stream, currentYear, surveyAnchor)
	for _, key := range substituted {
		s.metrics.FallbackSubstitutions.WithLabelValues(key).Inc()
	}

	propertyAge := currentYear - complete.YearBuilt
	if propertyAge < 0 {
		propertyAge = 0
	}

	derived := assessment.DerivedFactors{
		EasementEncroachmentPct: encroachmentPct,
		LotCoveragePct:          coveragePct,
		PropertyAge:             propertyAge,
		ExpansionRisk:           assessment.ExpansionRiskFor(coveragePct, zoningMax),
	}

	factors := scoring.Normalize(complete, scoring.Derived{
		EncroachmentPct:   encroachmentPct,
		LotCoveragePct:    coveragePct,
		ZoningMaxCoverage: zoningMax,
		BuildingAreaSqft:  surveyAnchor,
		PropertyAge:       propertyAge,
	})

	composite, err := scoring.Compose(factors, len(substituted))
	if err != nil {
		s.metrics.AnalysisErrors.Inc()
		s.log.Error("Composite scoring failed", err, map[string]interface{}{
			"address": address,
		})
		return nil, err
	}

	projection := financial.Project(stream, composite.OverallScore, buildingSqft)

	result := assessment.Assemble(composite, factors, derived, projection, substituted)

	s.metrics.AnalysesTotal.WithLabelValues(composite.RiskTier).Inc()
	s.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	s.log.Info("Analysis completed", map[string]interface{}{
		"address":             address,
		"overall_score":       composite.OverallScore,
		"risk_tier":           composite.RiskTier,
		"uncertainty_level":   composite.UncertaintyLevel,
		"substituted_factors": substituted,
	})

	return &result, nil
}

// GetProperty retrieves the stored property record for the given address.
func (s *analysisService) GetProperty(ctx context.Context, address string) (*models.PropertyRecord, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrAddressRequired
	}

	record, err := s.repo.FindByAddress(ctx, address)
	if err != nil {
		s.metrics.PropertyLookups.WithLabelValues("error").Inc()
		s.log.Error("Failed to query property record", err, map[string]interface{}{
			"address": address,
		})
		return nil, fmt.Errorf("failed to query property record: %w", err)
	}
	if record == nil {
		s.metrics.PropertyLookups.WithLabelValues("miss").Inc()
		return nil, ErrPropertyNotFound
	}

	s.metrics.PropertyLookups.WithLabelValues("hit").Inc()
	return record, nil
}

// hydrateFromRecord fills request gaps from the stored property record.
// A lookup failure is treated the same as an absent record: the providers
// are "unavailable" and the deterministic fallback path takes over, so the
// request still completes.
func (s *analysisService) hydrateFromRecord(ctx context.Context, address string, req *AnalysisRequest) {
	record, err := s.repo.FindByAddress(ctx, address)
	if err != nil {
		s.metrics.PropertyLookups.WithLabelValues("error").Inc()
		s.log.Warn("Property record lookup failed, continuing with fallback", map[string]interface{}{
			"address": address,
			"error":   err.Error(),
		})
		return
	}
	if record == nil {
		s.metrics.PropertyLookups.WithLabelValues("miss").Inc()
		return
	}
	s.metrics.PropertyLookups.WithLabelValues("hit").Inc()

	if req.Parcel == nil || req.Parcel.IsEmpty() {
		req.Parcel = &record.Parcel
	}
	if req.Building == nil && record.Building != nil {
		req.Building = record.Building
	}
	if req.Easements == nil && record.Easements != nil {
		req.Easements = record.Easements
	}
	if req.ZoningMaxCoverage == nil && record.ZoningMaxCoverage != nil {
		req.ZoningMaxCoverage = record.ZoningMaxCoverage
	}
	mergeInputs(&req.Inputs, record.Inputs)
}

// validateGeometry checks the structural invariants of every polygon in the
// request and names the offending one in the error.
func (s *analysisService) validateGeometry(req *AnalysisRequest) error {
	if err := geometry.Validate(req.Parcel); err != nil {
		return fmt.Errorf("%w: parcel: %v", ErrInvalidGeometry, err)
	}
	if req.Building != nil && !req.Building.IsEmpty() {
		if err := geometry.Validate(req.Building); err != nil {
			return fmt.Errorf("%w: building: %v", ErrInvalidGeometry, err)
		}
	}
	for i := range req.Easements {
		if err := geometry.Validate(&req.Easements[i]); err != nil {
			return fmt.Errorf("%w: easement %d: %v", ErrInvalidGeometry, i, err)
		}
	}
	return nil
}

// mergeInputs copies record values into request fields the caller left nil.
func mergeInputs(dst *models.RawFactorInputs, src models.RawFactorInputs) {
	if dst.FloodZone == nil {
		dst.FloodZone = src.FloodZone
	}
	if dst.FloodClaims == nil {
		dst.FloodClaims = src.FloodClaims
	}
	if dst.WildfireDistanceKm == nil {
		dst.WildfireDistanceKm = src.WildfireDistanceKm
	}
	if dst.WildfireSeverity == nil {
		dst.WildfireSeverity = src.WildfireSeverity
	}
	if dst.EarthquakeMagnitude == nil {
		dst.EarthquakeMagnitude = src.EarthquakeMagnitude
	}
	if dst.EarthquakeDistanceKm == nil {
		dst.EarthquakeDistanceKm = src.EarthquakeDistanceKm
	}
	if dst.TransferCount == nil {
		dst.TransferCount = src.TransferCount
	}
	if dst.AvgHoldingYears == nil {
		dst.AvgHoldingYears = src.AvgHoldingYears
	}
	if dst.YearBuilt == nil {
		dst.YearBuilt = src.YearBuilt
	}
	if dst.RecordedAreaSqft == nil {
		dst.RecordedAreaSqft = src.RecordedAreaSqft
	}
	if dst.BuildingSqft == nil {
		dst.BuildingSqft = src.BuildingSqft
	}
}
