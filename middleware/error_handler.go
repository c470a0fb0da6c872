package middleware

import (
	"fmt"
	"runtime/debug"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/business-partner/leads-backend/errors"
	"github.com/business-partner/leads-backend/logger"
)

// ErrorResponse is the JSON envelope returned for failed requests.
type ErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ErrorHandler converts errors attached to the gin context into the JSON
// error envelope. Handlers attach errors with c.Error and abort; the last
// attached error wins.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Capture stack trace before Next() to preserve the full call stack
		stackTrace := debug.Stack()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		log := logger.GetLogger()

		metadata := map[string]interface{}{
			"path":        c.Request.URL.Path,
			"method":      c.Request.Method,
			"client_ip":   c.ClientIP(),
			"stack_trace": string(stackTrace),
		}

		if appError, ok := err.(*errors.AppError); ok {
			statusCode := appError.GetHTTPStatus()

			metadata["error_type"] = string(appError.Type)
			metadata["error_message"] = appError.Message

			// Validation failures are user input problems, not system faults.
			if appError.Type == errors.ValidationError || appError.Type == errors.InvalidStatusError {
				log.Debugw("Request rejected", metadataToArgs(metadata)...)
			} else {
				logger.LogHTTPError(c, err, statusCode, fmt.Sprintf("%s error", appError.Type))
			}

			response := map[string]interface{}{
				"type":    string(appError.Type),
				"message": appError.Message,
				"code":    strconv.Itoa(statusCode),
			}

			// Details are surfaced for user-correctable errors; everything
			// else only leaks them in debug mode.
			if appError.Detail != "" && (gin.IsDebugging() ||
				appError.Type == errors.ValidationError ||
				appError.Type == errors.InvalidStatusError ||
				appError.Type == errors.NotFoundError ||
				appError.Type == errors.ConflictError) {
				response["details"] = appError.Detail
			}

			c.JSON(statusCode, response)
			return
		}

		// Gin binding errors come through as bind-typed errors.
		if c.Errors.Last().Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, 400, "Request binding error")

			response := map[string]interface{}{
				"type":    string(errors.ValidationError),
				"message": "Failed to bind request",
				"code":    "400",
			}
			if gin.IsDebugging() {
				response["details"] = err.Error()
			}
			c.JSON(400, response)
			return
		}

		if c.Errors.Last().Type == gin.ErrorTypePublic {
			logger.LogHTTPError(c, err, 400, "Public error")

			c.JSON(400, map[string]interface{}{
				"type":    string(errors.ValidationError),
				"message": err.Error(),
				"code":    "400",
			})
			return
		}

		logger.LogHTTPError(c, err, 500, "Unexpected server error")

		response := map[string]interface{}{
			"type":    string(errors.ServerError),
			"message": "Internal Server Error",
			"code":    "500",
		}
		if gin.IsDebugging() {
			response["details"] = err.Error()
		}
		c.JSON(500, response)
	}
}

func metadataToArgs(m map[string]interface{}) []interface{} {
	args := make([]interface{}, 0, len(m)*2)
	for k, v := range m {
		if k == "stack_trace" {
			continue
		}
		args = append(args, k, v)
	}
	return args
}
