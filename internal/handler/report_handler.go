package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noelyen/classtrack-api/internal/service"
	appErrors "github.com/noelyen/classtrack-api/pkg/errors"
	"github.com/noelyen/classtrack-api/pkg/response"
)

// ReportHandler serves the monthly attendance report as JSON or as a
// downloadable file.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs a new ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Monthly godoc
// @Summary Monthly attendance report
// @Tags Reports
// @Produce json
// @Param year query int true "Calendar year"
// @Param month query int true "Month (1-12)"
// @Param format query string false "csv or pdf for a file download"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /reports/monthly [get]
func (h *ReportHandler) Monthly(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be an integer"))
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "month must be an integer"))
		return
	}

	switch format := c.Query("format"); format {
	case "", "json":
		rows, err := h.reports.Monthly(c.Request.Context(), year, month)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, rows, nil)
	case "csv":
		data, filename, err := h.reports.MonthlyCSV(c.Request.Context(), year, month)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "text/csv", data)
	case "pdf":
		data, filename, err := h.reports.MonthlyPDF(c.Request.Context(), year, month)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "application/pdf", data)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}
