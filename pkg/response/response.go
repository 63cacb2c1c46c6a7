package response

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-social/pkg/logger"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Reason  string      `json:"reason,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// 业务码：0 成功，其余与 HTTP 状态码对齐
const CodeSuccess = 0

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: CodeSuccess, Message: "success", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: CodeSuccess, Message: "success", Data: data})
}

// Fail 输出错误，reason 为机器可读的失败原因（如 self_follow）
func Fail(c *gin.Context, status int, reason, message string) {
	c.AbortWithStatusJSON(status, Response{Code: status, Message: message, Reason: reason})
}

func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, "bad_request", message)
}

func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, "unauthenticated", message)
}

func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, "not_found", message)
}

func TooManyRequests(c *gin.Context) {
	Fail(c, http.StatusTooManyRequests, "rate_limited", "too many requests")
}

// InternalError 记录日志并上报 sentry，不向客户端暴露内部错误
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}
	Fail(c, http.StatusInternalServerError, "internal", "internal server error")
}
