package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-social/internal/api/middleware"
	"github.com/d60-Lab/gin-social/pkg/response"
)

type createPostRequest struct {
	Content string `json:"content" binding:"required"`
	Image   string `json:"image" binding:"omitempty,url"`
}

// CreatePost 发帖
// @Summary 发布内容
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPostRequest true "帖子内容"
// @Success 201 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.postService.Create(c.Request.Context(), middleware.SessionFrom(c), req.Content, req.Image)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, p)
}
