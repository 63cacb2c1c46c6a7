package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-social/internal/api/middleware"
	"github.com/d60-Lab/gin-social/pkg/response"
)

// SyncUser 首次登录时创建本地用户
// @Summary 同步当前用户
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.User}
// @Failure 401 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/users/sync [post]
func (h *Handler) SyncUser(c *gin.Context) {
	u, err := h.userService.SyncUser(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	if u == nil {
		response.Unauthorized(c, "sign in required")
		return
	}
	response.Success(c, u)
}

// Me 当前用户资料
// @Summary 当前用户
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.Profile}
// @Failure 401 {object} response.Response
// @Router /api/v1/users/me [get]
func (h *Handler) Me(c *gin.Context) {
	p, err := h.userService.Me(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}

// GetProfile 按用户名查询资料
// @Summary 用户资料
// @Tags 用户
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} response.Response{data=service.Profile}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{username} [get]
func (h *Handler) GetProfile(c *gin.Context) {
	var uri usernameURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.userService.GetProfile(c.Request.Context(), uri.Username)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}

// Suggestions 推荐关注
// @Summary 随机推荐用户
// @Description 最多 3 个，排除自己和已关注的人；未登录返回空列表
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.UserSummary}
// @Router /api/v1/users/suggestions [get]
func (h *Handler) Suggestions(c *gin.Context) {
	list, err := h.suggestionService.RandomUsers(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}
