package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyaid-backend/internal/http/response"
	"github.com/yungbote/studyaid-backend/internal/services"
)

type GenerateHandler struct {
	svc services.GenerationService
}

func NewGenerateHandler(svc services.GenerationService) *GenerateHandler {
	return &GenerateHandler{svc: svc}
}

type generateResponse struct {
	Content string `json:"content"`
}

// POST /api/generate  body {moduleId, type, content}
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req services.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	out, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err, "Failed to generate content")
		return
	}
	response.RespondOK(c, generateResponse{Content: out})
}
