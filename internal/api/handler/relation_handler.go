package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-social/internal/api/middleware"
	"github.com/d60-Lab/gin-social/pkg/response"
)

// ToggleFollow 切换关注状态
// @Summary 关注/取消关注
// @Description 已关注则取消；否则关注并给对方写一条 FOLLOW 通知
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "目标用户ID"
// @Success 200 {object} response.Response{data=service.ToggleResult}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/relations/{user_id}/toggle [post]
func (h *Handler) ToggleFollow(c *gin.Context) {
	var uri userIDURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.relService.ToggleFollow(c.Request.Context(), middleware.SessionFrom(c), uri.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}

// Follow 关注（幂等）
// @Summary 关注用户
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "目标用户ID"
// @Success 200 {object} response.Response{data=service.ToggleResult}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/relations/{user_id}/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	var uri userIDURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	callerID, ok := h.caller(c)
	if !ok {
		return
	}
	res, err := h.relService.Follow(c.Request.Context(), callerID, uri.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}

// Unfollow 取消关注（幂等）
// @Summary 取消关注
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "目标用户ID"
// @Success 200 {object} response.Response{data=service.ToggleResult}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/relations/{user_id}/follow [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	var uri userIDURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	callerID, ok := h.caller(c)
	if !ok {
		return
	}
	if _, err := h.relService.Unfollow(c.Request.Context(), callerID, uri.UserID); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"following": false})
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/relations/{user_id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	var uri userIDURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	page, pageSize := pageParams(c)
	list, err := h.relService.ListFollowing(c.Request.Context(), uri.UserID, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// ListFollowers 查询某用户的粉丝
// @Summary 查询粉丝列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/relations/{user_id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	var uri userIDURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	page, pageSize := pageParams(c)
	list, err := h.relService.ListFollowers(c.Request.Context(), uri.UserID, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// caller 解析当前登录用户，失败时已写好响应
func (h *Handler) caller(c *gin.Context) (string, bool) {
	id, err := h.userService.ResolveUserID(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		fail(c, err)
		return "", false
	}
	if id == "" {
		response.Unauthorized(c, "sign in required")
		return "", false
	}
	return id, true
}
