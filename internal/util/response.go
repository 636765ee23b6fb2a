package util

import (
	"baggage_quiz_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	ErrorCode string      `json:"errorCode,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorCode 带稳定错误码的错误响应，供客户端做程序化分支
func ErrorCode(c *gin.Context, code int, errorCode, message string) {
	c.JSON(code, Response{
		Code:      code,
		Message:   message,
		ErrorCode: errorCode,
	})
}

// Throttled 429 响应，附带剩余等待秒数
func Throttled(c *gin.Context, retryAfter int) {
	c.JSON(http.StatusTooManyRequests, Response{
		Code:      http.StatusTooManyRequests,
		Message:   "too many failed attempts, try again later",
		ErrorCode: CodeTooManyAttempts,
		Data:      gin.H{"retryAfter": retryAfter},
	})
}

func Unauthorized(c *gin.Context) {
	ErrorCode(c, http.StatusUnauthorized, CodeAuthRequired, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	ErrorCode(c, http.StatusBadRequest, CodeValidation, message)
}

func NotFound(c *gin.Context) {
	ErrorCode(c, http.StatusNotFound, CodeNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err), zap.String("path", c.FullPath()))
	InternalServerError(c)
}
