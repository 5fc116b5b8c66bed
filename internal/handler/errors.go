package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/habit-tracker/internal/domain"
	"github.com/prperemyshlev/habit-tracker/internal/dto"
	"go.uber.org/zap"
)

const unexpectedMessage = "An unexpected error occurred"

type errorMapping struct {
	kind    error
	status  int
	code    string
	message string
}

// Order matters: ErrUnprocessable also matches ErrInvalidInput.
var errorMappings = []errorMapping{
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated", "Not signed in"},
	{domain.ErrUpstreamAuth, http.StatusUnauthorized, "upstream_auth_failure", "Invalid Google credential"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found", "Not found"},
	{domain.ErrUnprocessable, http.StatusUnprocessableEntity, "invalid_input", "Invalid input"},
	{domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input", "Invalid input"},
	{domain.ErrResourceExhausted, http.StatusInternalServerError, "resource_exhausted", "The server is busy, try again later"},
}

// writeError is the single place that turns errors into HTTP responses
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "unexpected"
	message := unexpectedMessage

	for _, m := range errorMappings {
		if errors.Is(err, m.kind) {
			status, code, message = m.status, m.code, m.message
			var derr *domain.Error
			if errors.As(err, &derr) {
				message = derr.Message
			}
			break
		}
	}

	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("code", code),
			zap.Error(err),
		)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Message: message,
	})
}

func badRequestBody(c *gin.Context, err error) {
	writeError(c, domain.NewError(domain.ErrInvalidInput, "Invalid request body: "+err.Error()))
}
