package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noelyen/classtrack-api/internal/service"
	appErrors "github.com/noelyen/classtrack-api/pkg/errors"
	"github.com/noelyen/classtrack-api/pkg/response"
)

// OccurrenceHandler exposes the weekly schedule expanded into dated
// occurrences.
type OccurrenceHandler struct {
	schedules *service.ScheduleService
}

// NewOccurrenceHandler constructs a new OccurrenceHandler.
func NewOccurrenceHandler(schedules *service.ScheduleService) *OccurrenceHandler {
	return &OccurrenceHandler{schedules: schedules}
}

// List godoc
// @Summary Expand weekly entries over an inclusive date range
// @Tags Occurrences
// @Produce json
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /occurrences [get]
func (h *OccurrenceHandler) List(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from must be YYYY-MM-DD"))
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "to must be YYYY-MM-DD"))
		return
	}
	occurrences, err := h.schedules.Occurrences(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, occurrences, nil)
}

// Today godoc
// @Summary Today's classes
// @Tags Occurrences
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /occurrences/today [get]
func (h *OccurrenceHandler) Today(c *gin.Context) {
	occurrences, err := h.schedules.Today(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, occurrences, nil)
}
