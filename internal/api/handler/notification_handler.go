package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-social/internal/api/middleware"
	"github.com/d60-Lab/gin-social/pkg/response"
)

// ListNotifications 当前用户的通知
// @Summary 通知列表
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 401 {object} response.Response
// @Router /api/v1/notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, err := h.notificationService.List(c.Request.Context(), middleware.SessionFrom(c), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// UnreadCount 未读通知数
// @Summary 未读通知数
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=map[string]int64}
// @Failure 401 {object} response.Response
// @Router /api/v1/notifications/unread-count [get]
func (h *Handler) UnreadCount(c *gin.Context) {
	n, err := h.notificationService.UnreadCount(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"unread": n})
}
