package apperrors

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorEnvelope is the error half of the API response envelope.
type ErrorEnvelope struct {
	Success bool      `json:"success"`
	Error   *AppError `json:"error"`
}

// GinErrorHandler renders AppErrors for Gin.
type GinErrorHandler struct {
	Debug bool
}

func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= 500 {
		// The correlation id goes to the log and the response so a 500
		// can be matched to its stack without leaking the cause.
		correlationID := uuid.NewString()
		slog.Error("server error",
			"correlation_id", correlationID,
			"code", appErr.Code,
			"domain", appErr.Domain,
			"error", appErr.Error(),
		)
		if !h.Debug {
			appErr = New(appErr.Code, appErr.Domain, "Internal server error", appErr.HTTPCode).
				WithDetails(gin.H{"correlation_id": correlationID})
		}
	}

	c.JSON(appErr.HTTPCode, ErrorEnvelope{Success: false, Error: appErr})
}

// HandleError is the shortcut used by handlers.
func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: gin.Mode() != gin.ReleaseMode}
	handler.HandleGinError(c, err)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
