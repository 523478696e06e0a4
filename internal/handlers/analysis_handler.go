package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/titleguard/api/internal/assessment"
	apierrors "github.com/titleguard/api/internal/errors"
	"github.com/titleguard/api/internal/financial"
	"github.com/titleguard/api/internal/middleware"
	"github.com/titleguard/api/internal/models"
	"github.com/titleguard/api/internal/scoring"
	"github.com/titleguard/api/internal/services"
)

// AnalysisHandler handles risk analysis HTTP requests.
type AnalysisHandler struct {
	service services.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler instance.
func NewAnalysisHandler(service services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
	}
}

// AnalyzeRequest represents the JSON body of the analyze endpoint. Only the
// address is mandatory; geometry and raw inputs are hydrated from the
// stored record or fallback-substituted when absent.
type AnalyzeRequest struct {
	Address           string                 `json:"address" binding:"required"`
	Parcel            *models.Polygon        `json:"parcel"`
	Building          *models.Polygon        `json:"building"`
	Easements         []models.Polygon       `json:"easements"`
	ZoningMaxCoverage *float64               `json:"zoning_max_coverage" binding:"omitempty,gt=0,lte=1"`
	Inputs            models.RawFactorInputs `json:"inputs"`
}

// AnalyzeResponse is the output contract read by the map, dashboard, chat,
// and report collaborators. Field names are stable; consumers key off them.
type AnalyzeResponse struct {
	Address             string                    `json:"address"`
	Assessment          assessment.RiskAssessment `json:"assessment"`
	DerivedFactors      assessment.DerivedFactors `json:"derived_factors"`
	FinancialProjection financial.Projection      `json:"financial_projection"`
	Flags               []string                  `json:"flags"`
	SubstitutedFactors  []string                  `json:"substituted_factors"`
}

// PropertyResponse represents the response for the property lookup endpoint.
type PropertyResponse struct {
	Property *models.PropertyRecord `json:"property"`
}

// Analyze handles POST /api/v1/analyze.
// It runs the full risk and financial derivation pipeline for one address.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Check if it's a validation error
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		// Generic bad request for other binding errors
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if log != nil {
		log.Info("Processing analyze request", map[string]interface{}{
			"address":      req.Address,
			"has_parcel":   req.Parcel != nil,
			"has_building": req.Building != nil,
			"easements":    len(req.Easements),
		})
	}

	result, err := h.service.Analyze(c.Request.Context(), services.AnalysisRequest{
		Address:           req.Address,
		Parcel:            req.Parcel,
		Building:          req.Building,
		Easements:         req.Easements,
		ZoningMaxCoverage: req.ZoningMaxCoverage,
		Inputs:            req.Inputs,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAddressRequired),
			errors.Is(err, services.ErrParcelRequired):
			apierrors.BadRequest(c, err.Error(), nil)
		case errors.Is(err, services.ErrInvalidGeometry):
			apierrors.GeometryError(c, "Invalid polygon geometry", err)
		case errors.Is(err, scoring.ErrWeightConfiguration):
			apierrors.ConfigurationError(c, "Risk factor weights are misconfigured", err)
		default:
			apierrors.InternalServerError(c, "Failed to analyze property", err)
		}
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		Address:             req.Address,
		Assessment:          result.Assessment,
		DerivedFactors:      result.DerivedFactors,
		FinancialProjection: result.FinancialProjection,
		Flags:               result.Flags,
		SubstitutedFactors:  result.SubstitutedFactors,
	})
}

// PropertyRequest represents the query parameters for the property endpoint.
type PropertyRequest struct {
	Address string `form:"address" binding:"required"`
}

// GetProperty handles GET /api/v1/properties.
// It returns the stored property record for the given address, if any.
func (h *AnalysisHandler) GetProperty(c *gin.Context) {
	var req PropertyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	record, err := h.service.GetProperty(c.Request.Context(), req.Address)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAddressRequired):
			apierrors.BadRequest(c, err.Error(), nil)
		case errors.Is(err, services.ErrPropertyNotFound):
			apierrors.NotFound(c, "No property record found for this address")
		default:
			apierrors.InternalServerError(c, "Failed to query property record", err)
		}
		return
	}

	c.JSON(http.StatusOK, PropertyResponse{Property: record})
}
