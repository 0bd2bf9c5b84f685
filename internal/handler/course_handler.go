package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noelyen/classtrack-api/internal/models"
	"github.com/noelyen/classtrack-api/internal/service"
	appErrors "github.com/noelyen/classtrack-api/pkg/errors"
	"github.com/noelyen/classtrack-api/pkg/response"
)

// CourseHandler wires course and schedule services to HTTP routes.
type CourseHandler struct {
	courses   *service.CourseService
	schedules *service.ScheduleService
}

// NewCourseHandler constructs a new CourseHandler.
func NewCourseHandler(courses *service.CourseService, schedules *service.ScheduleService) *CourseHandler {
	return &CourseHandler{courses: courses, schedules: schedules}
}

// List godoc
// @Summary List courses with teacher and weekly entries
// @Tags Courses
// @Produce json
// @Param search query string false "Search by name"
// @Param teacher_id query string false "Filter by teacher"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	filter := models.CourseFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		TeacherID: c.Query("teacher_id"),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = size
	}

	courses, pagination, err := h.courses.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, pagination)
}

// Get godoc
// @Summary Get course detail
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}
	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// AddSchedule godoc
// @Summary Add a weekly schedule entry to a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body service.AddScheduleEntryRequest true "Entry payload (end time is computed)"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope "Lunch window conflict"
// @Router /courses/{id}/schedules [post]
func (h *CourseHandler) AddSchedule(c *gin.Context) {
	var req service.AddScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}
	req.CourseID = c.Param("id")
	entry, err := h.schedules.AddEntry(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Delete godoc
// @Summary Delete course
// @Tags Courses
// @Param id path string true "Course ID"
// @Success 204
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
