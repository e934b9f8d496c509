package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portero-http-service/internal/error/code"
)

// Response is the unified JSON envelope
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a success response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Code:    code.ErrSuccess,
		Message: code.GetMessage(code.ErrSuccess),
		Data:    data,
	})
}

// Created sends a success response for a newly created resource
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Code:    code.ErrSuccess,
		Message: code.GetMessage(code.ErrSuccess),
		Data:    data,
	})
}

// Fail sends a failure response for an error code
func Fail(c *gin.Context, errorCode int, data interface{}) {
	c.JSON(code.GetStatus(errorCode), Response{
		Success: false,
		Code:    errorCode,
		Message: code.GetMessage(errorCode),
		Data:    data,
	})
}

// FailWithMessage sends a failure response with a custom message
func FailWithMessage(c *gin.Context, errorCode int, message string, data interface{}) {
	c.JSON(code.GetStatus(errorCode), Response{
		Success: false,
		Code:    errorCode,
		Message: message,
		Data:    data,
	})
}

// ParamError sends a validation failure response
func ParamError(c *gin.Context, message string) {
	if message == "" {
		FailWithMessage(c, code.ErrValidation, code.GetMessage(code.ErrValidation), nil)
		return
	}
	FailWithMessage(c, code.ErrValidation, message, nil)
}

// ServerError sends a generic internal error response
func ServerError(c *gin.Context) {
	Fail(c, code.ErrUnknown, nil)
}
