package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyaid-backend/internal/platform/apierr"
)

type APIError struct {
	Message string         `json:"message"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError writes err using its apierr status, code and details. Errors
// without an apierr in their chain become a 500 carrying fallback when set.
func RespondAPIError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)
	if ae, ok := apierr.As(err); ok {
		c.JSON(apierr.StatusOf(ae), ErrorEnvelope{
			Error: APIError{
				Message: ae.Error(),
				Code:    ae.Code,
				Details: ae.Details,
			},
		})
		return
	}
	msg := fallback
	if msg == "" && err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = "unknown error"
	}
	c.JSON(http.StatusInternalServerError, ErrorEnvelope{
		Error: APIError{Message: msg, Code: "internal_error"},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
