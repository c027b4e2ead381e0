package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/gin-gonic/gin"
)

const msgInternal = "Internal Server Error"

var errRouteNotFound = common.NotFound("Route not found")

type successEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

type errorEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func writeSuccess(c *gin.Context, status int, data any, message string) {
	c.JSON(status, successEnvelope{StatusCode: status, Data: data, Message: message, Success: true})
}

// writeError is the single error boundary. Only *common.APIError reaches
// the client as is; anything else becomes a bare 500.
func (s *HTTPServer) writeError(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, msgInternal

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		status, message = apiErr.StatusCode, apiErr.Message
	}

	ctx := c.Request.Context()
	if status >= http.StatusInternalServerError {
		s.logger.Error(ctx, "request failed", "status", status, "error", err)
	} else {
		s.logger.Debug(ctx, "request rejected", "status", status, "error", err)
	}

	c.AbortWithStatusJSON(status, errorEnvelope{StatusCode: status, Message: message, Success: false})
}
