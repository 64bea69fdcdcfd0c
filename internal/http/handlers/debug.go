package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyaid-backend/internal/http/response"
	"github.com/yungbote/studyaid-backend/internal/services"
)

type DebugHandler struct {
	svc services.DebugService
}

func NewDebugHandler(svc services.DebugService) *DebugHandler {
	return &DebugHandler{svc: svc}
}

// GET /api/debug
func (h *DebugHandler) Report(c *gin.Context) {
	response.RespondOK(c, h.svc.Report(c.Request.Context()))
}
