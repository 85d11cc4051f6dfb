package apperrors

import (
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// GinErrorHandler renders errors as ErrorResponse bodies.
type GinErrorHandler struct {
	Debug bool
	// OnServerError is called for 5xx responses.
	OnServerError func(c *gin.Context, appErr *AppError)
}

func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}
	if appErr.HTTPCode >= 500 && !h.Debug {
		cp := *appErr
		cp.Details = nil
		appErr = &cp
	}

	if appErr.HTTPCode >= 500 && h.OnServerError != nil {
		h.OnServerError(c, appErr)
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

// DefaultHandler is used by HandleError. app.SetupRouter configures it.
var DefaultHandler = &GinErrorHandler{Debug: true}

func HandleError(c *gin.Context, err error) {
	DefaultHandler.HandleGinError(c, err)
}
