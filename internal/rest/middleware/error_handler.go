package middleware

import (
	"github.com/gin-gonic/gin"

	ierr "github.com/firmledger/firmledger/internal/errors"
	"github.com/firmledger/firmledger/internal/logger"
	"github.com/firmledger/firmledger/internal/types"
)

// ErrorResponse is the wire form of a failed request
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	RequestID string         `json:"request_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// ErrorHandler converts errors attached to the gin context into a uniform
// JSON error body. Only the hint and reportable details cross the wire; the
// underlying cause stays in the logs.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusOf(err)

		message := ierr.Hint(err)
		if message == "" {
			message = err.Error()
		}

		if status >= 500 {
			log.Errorw("request failed",
				"error", err,
				"path", c.Request.URL.Path,
				"request_id", types.GetRequestID(c.Request.Context()),
			)
		}

		c.AbortWithStatusJSON(status, ErrorResponse{
			Success: false,
			Error: ErrorDetail{
				Code:      string(ierr.CodeOf(err)),
				Message:   message,
				RequestID: types.GetRequestID(c.Request.Context()),
				Details:   ierr.ReportableDetails(err),
			},
		})
	}
}
