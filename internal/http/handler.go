package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"fleet-reporting-service/internal/model"
	"fleet-reporting-service/internal/service"
)

type Handler struct {
	reports *service.ReportService
	log     zerolog.Logger
}

func NewHandler(reports *service.ReportService, log zerolog.Logger) *Handler {
	return &Handler{reports: reports, log: log}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := r.Group("/reports")
	protected.Use(authMiddleware)

	protected.GET("/fleet", h.getFleetSummary)
	protected.GET("/departments", h.getDepartmentSummary)
	protected.GET("/departments/:id", h.getDepartmentDetail)
	protected.GET("/vehicles", h.getVehicleSummary)
	protected.GET("/vehicles/:plate_number", h.getVehicleDetail)
}

func (h *Handler) getFleetSummary(c *gin.Context) {
	window := h.parseWindow(c)

	summary, err := h.reports.GetFleetSummary(c.Request.Context(), window)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) getDepartmentSummary(c *gin.Context) {
	window := h.parseWindow(c)

	summary, err := h.reports.GetDepartmentSummary(c.Request.Context(), window)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) getDepartmentDetail(c *gin.Context) {
	// A non-numeric id cannot name any department, so it is a plain
	// not-found rather than a distinct client error.
	idStr := strings.TrimSpace(c.Param("id"))
	departmentID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse("department not found"))
		return
	}

	window := h.parseWindow(c)

	detail, err := h.reports.GetDepartmentDetail(c.Request.Context(), departmentID, window)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *Handler) getVehicleSummary(c *gin.Context) {
	window := h.parseWindow(c)
	page := h.parsePageRequest(c)

	summary, err := h.reports.GetVehicleSummary(c.Request.Context(), window, page)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) getVehicleDetail(c *gin.Context) {
	plate := strings.TrimSpace(c.Param("plate_number"))
	window := h.parseWindow(c)

	detail, err := h.reports.GetVehicleDetail(c.Request.Context(), plate, window)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// parseWindow never rejects a request. Absent or malformed months simply
// resolve to the unbounded window.
func (h *Handler) parseWindow(c *gin.Context) model.Window {
	start := strings.TrimSpace(c.Query("start_month"))
	end := strings.TrimSpace(c.Query("end_month"))
	return model.ResolveWindow(start, end)
}

// parsePageRequest is equally lenient: unparsable numbers and unknown sort
// keys fall back to the defaults inside Normalize.
func (h *Handler) parsePageRequest(c *gin.Context) model.PageRequest {
	page := model.PageRequest{
		SortBy:    model.SortField(strings.TrimSpace(c.Query("sort_by"))),
		SortOrder: model.SortOrder(strings.TrimSpace(c.Query("sort_order"))),
	}
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			page.Page = parsed
		}
	}
	if raw := strings.TrimSpace(c.Query("per_page")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			page.PerPage = parsed
		}
	}
	return page
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse(err.Error()))
	}
}

func errorResponse(message string) gin.H {
	return gin.H{"error": message}
}
