package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noelyen/classtrack-api/internal/service"
	appErrors "github.com/noelyen/classtrack-api/pkg/errors"
	"github.com/noelyen/classtrack-api/pkg/response"
)

// EnrollmentHandler wires roster management to HTTP routes.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentHandler constructs a new EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Roster godoc
// @Summary Students enrolled in a course
// @Tags Enrollment
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/roster [get]
func (h *EnrollmentHandler) Roster(c *gin.Context) {
	students, err := h.enrollments.Roster(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Candidates godoc
// @Summary Students not enrolled in a course
// @Tags Enrollment
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/candidates [get]
func (h *EnrollmentHandler) Candidates(c *gin.Context) {
	students, err := h.enrollments.Candidates(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// SetRoster godoc
// @Summary Replace the full roster of a course
// @Tags Enrollment
// @Accept json
// @Param id path string true "Course ID"
// @Param payload body service.SetRosterRequest true "Complete desired roster"
// @Success 204
// @Router /courses/{id}/roster [put]
func (h *EnrollmentHandler) SetRoster(c *gin.Context) {
	var req service.SetRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid roster payload"))
		return
	}
	if err := h.enrollments.SetRoster(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
