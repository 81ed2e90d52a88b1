package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/planejatrip/planejatrip-backend/errors"
	"github.com/planejatrip/planejatrip-backend/logger"
)

// ErrorHandler converts errors attached to the gin context into JSON
// responses. AppErrors map to their own status codes; everything else is a
// 500 with no internals leaked.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		log := logger.GetLogger()

		var appError *apperrors.AppError
		if errors.As(err, &appError) {
			statusCode := appError.GetHTTPStatus()
			log.Infow("Request failed",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"status", statusCode,
				"errorType", string(appError.Type),
				"errorCode", appError.Code,
				"message", appError.Message)

			response := gin.H{
				"type":    string(appError.Type),
				"message": appError.Message,
				"code":    strconv.Itoa(statusCode),
			}
			if appError.Code != "" {
				response["error"] = appError.Code
			}
			if appError.Detail != "" && (gin.IsDebugging() ||
				appError.Type == apperrors.ValidationError ||
				appError.Type == apperrors.NotFoundError ||
				appError.Type == apperrors.ConflictError) {
				response["details"] = appError.Detail
			}
			c.JSON(statusCode, response)
			return
		}

		if c.Errors.Last().Type == gin.ErrorTypeBind {
			log.Infow("Request binding failed",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"error", err)

			response := gin.H{
				"type":    string(apperrors.ValidationError),
				"message": "Failed to bind request",
				"code":    "400",
			}
			if gin.IsDebugging() {
				response["details"] = err.Error()
			}
			c.JSON(400, response)
			return
		}

		log.Errorw("Unexpected server error",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"error", err)
		c.JSON(500, gin.H{
			"type":    string(apperrors.ServerError),
			"message": "An unexpected error occurred",
			"code":    "500",
		})
	}
}
