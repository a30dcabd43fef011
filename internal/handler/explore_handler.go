package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/bikeshare-backend-go/internal/explore"
	"github.com/jengzang/bikeshare-backend-go/internal/models"
	"github.com/jengzang/bikeshare-backend-go/internal/render"
	"github.com/jengzang/bikeshare-backend-go/internal/service"
	"github.com/jengzang/bikeshare-backend-go/pkg/response"
)

// Largest accepted image side in pixels
const maxImageSide = 2000

// ImageParams are the optional PNG size parameters
type ImageParams struct {
	Width  int `form:"width"`
	Height int `form:"height"`
}

// ExploreHandler handles HTTP requests for the rentals explorer
type ExploreHandler struct {
	exploreService *service.ExploreService
}

// NewExploreHandler creates a new explore handler
func NewExploreHandler(exploreService *service.ExploreService) *ExploreHandler {
	return &ExploreHandler{
		exploreService: exploreService,
	}
}

// filterSpec binds and validates the filter query parameters.
// It writes the error response and returns false on failure.
func (h *ExploreHandler) filterSpec(c *gin.Context) (models.FilterSpec, bool) {
	var params models.FilterParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return models.FilterSpec{}, false
	}

	spec, err := h.exploreService.ParseFilter(params)
	if err != nil {
		writeError(c, err)
		return models.FilterSpec{}, false
	}
	return spec, true
}

// writeError maps service errors onto HTTP responses
func writeError(c *gin.Context, err error) {
	var verr *explore.ValidationError
	switch {
	case errors.As(err, &verr):
		response.BadRequest(c, "Invalid filter", err)
	case errors.Is(err, service.ErrUnknownChart):
		response.NotFound(c, err.Error())
	case errors.Is(err, render.ErrUnsupported):
		response.BadRequest(c, "Chart has no image form", err)
	case errors.Is(err, render.ErrNoData):
		response.Error(c, http.StatusUnprocessableEntity, "No data for the selected filters", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		response.Error(c, http.StatusServiceUnavailable, "Request cancelled", err)
	default:
		_ = c.Error(err)
		response.InternalError(c, "Internal server error")
	}
}

// GetDataset handles GET /api/v1/dataset
func (h *ExploreHandler) GetDataset(c *gin.Context) {
	response.Success(c, h.exploreService.Dataset())
}

// GetFilterOptions handles GET /api/v1/filters/options
func (h *ExploreHandler) GetFilterOptions(c *gin.Context) {
	response.Success(c, h.exploreService.Options())
}

// GetSummary handles GET /api/v1/summary
func (h *ExploreHandler) GetSummary(c *gin.Context) {
	spec, ok := h.filterSpec(c)
	if !ok {
		return
	}

	summary, err := h.exploreService.Summary(c.Request.Context(), spec)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{
		"filter":  spec,
		"summary": summary,
	})
}

// GetRows handles GET /api/v1/rows
func (h *ExploreHandler) GetRows(c *gin.Context) {
	spec, ok := h.filterSpec(c)
	if !ok {
		return
	}

	var page models.PageParams
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	rows, err := h.exploreService.Rows(c.Request.Context(), spec, page)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, rows)
}

// GetCorrelations handles GET /api/v1/correlations
func (h *ExploreHandler) GetCorrelations(c *gin.Context) {
	spec, ok := h.filterSpec(c)
	if !ok {
		return
	}

	matrix, err := h.exploreService.Correlation(c.Request.Context(), spec)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, matrix)
}

// GetChart handles GET /api/v1/charts/:name
func (h *ExploreHandler) GetChart(c *gin.Context) {
	spec, ok := h.filterSpec(c)
	if !ok {
		return
	}

	chart, err := h.exploreService.Chart(c.Request.Context(), c.Param("name"), spec)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, chart)
}

// GetChartPNG handles GET /api/v1/charts/:name/png
func (h *ExploreHandler) GetChartPNG(c *gin.Context) {
	spec, ok := h.filterSpec(c)
	if !ok {
		return
	}

	var img ImageParams
	if err := c.ShouldBindQuery(&img); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}
	if img.Width < 0 || img.Width > maxImageSide || img.Height < 0 || img.Height > maxImageSide {
		response.BadRequest(c, "Image width and height must be between 0 (default size) and 2000 pixels")
		return
	}

	chart, err := h.exploreService.Chart(c.Request.Context(), c.Param("name"), spec)
	if err != nil {
		writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := render.PNG(&buf, chart, render.Options{Width: img.Width, Height: img.Height}); err != nil {
		writeError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
