package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-social/pkg/logger"
)

// Websocket 实时通知推送
// @Summary 通知推送通道
// @Description 浏览器无法设置请求头时可用 ?token= 传令牌
// @Tags 通知
// @Security BearerAuth
// @Param token query string false "会话令牌"
// @Success 101 {string} string "switching protocols"
// @Failure 401 {object} response.Response
// @Router /api/v1/ws [get]
func (h *Handler) Websocket(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.hub.Serve(c.Writer, c.Request, userID); err != nil {
		// Upgrade 失败时已写过响应
		logger.Warn("websocket upgrade failed", zap.String("user_id", userID), zap.Error(err))
	}
}
