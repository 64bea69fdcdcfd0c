package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyaid-backend/internal/http/response"
	"github.com/yungbote/studyaid-backend/internal/services"
)

// CourseHandler serves the catalog endpoints. The Canvas token arrives as the
// apiKey query parameter on every request.
type CourseHandler struct {
	svc services.CanvasProxyService
}

func NewCourseHandler(svc services.CanvasProxyService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

// GET /api/courses?apiKey=
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.svc.ListCourses(c.Request.Context(), c.Query("apiKey"))
	if err != nil {
		response.RespondAPIError(c, err, "Failed to fetch courses")
		return
	}
	response.RespondOK(c, courses)
}

// GET /api/courses/:courseId/modules?apiKey=
func (h *CourseHandler) ListModules(c *gin.Context) {
	modules, err := h.svc.ListModules(c.Request.Context(), c.Query("apiKey"), c.Param("courseId"))
	if err != nil {
		response.RespondAPIError(c, err, "Failed to fetch modules")
		return
	}
	response.RespondOK(c, modules)
}

// GET /api/courses/:courseId/modules/:moduleId/items?apiKey=
func (h *CourseHandler) ListModuleItems(c *gin.Context) {
	items, err := h.svc.ListModuleItems(c.Request.Context(), c.Query("apiKey"), c.Param("courseId"), c.Param("moduleId"))
	if err != nil {
		response.RespondAPIError(c, err, "Failed to fetch module items")
		return
	}
	response.RespondOK(c, items)
}
