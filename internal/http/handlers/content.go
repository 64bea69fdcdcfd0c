package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyaid-backend/internal/http/response"
	"github.com/yungbote/studyaid-backend/internal/services"
)

type ContentHandler struct {
	svc services.CanvasProxyService
}

func NewContentHandler(svc services.CanvasProxyService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

type fetchContentRequest struct {
	PageURL string `json:"pageUrl"`
}

// POST /api/content?apiKey=  body {pageUrl}
func (h *ContentHandler) FetchContent(c *gin.Context) {
	var req fetchContentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	raw, err := h.svc.FetchContent(c.Request.Context(), c.Query("apiKey"), req.PageURL)
	if err != nil {
		response.RespondAPIError(c, err, "")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}
