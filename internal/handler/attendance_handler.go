package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noelyen/classtrack-api/internal/service"
	appErrors "github.com/noelyen/classtrack-api/pkg/errors"
	"github.com/noelyen/classtrack-api/pkg/response"
)

// AttendanceHandler records attendance for a held class occurrence.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs a new AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// Take godoc
// @Summary Record attendance for one schedule entry on one date
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.TakeAttendanceRequest true "Per-student statuses"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance [post]
func (h *AttendanceHandler) Take(c *gin.Context) {
	var req service.TakeAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}
	result, err := h.attendance.Take(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
