package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-social/internal/api/middleware"
	"github.com/d60-Lab/gin-social/pkg/response"
)

// Navbar 桌面导航栏
// @Summary 导航栏
// @Tags 页面
// @Produce json
// @Success 200 {object} response.Response{data=service.Navbar}
// @Router /api/v1/navbar [get]
func (h *Handler) Navbar(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	u, err := h.userService.CurrentUser(c.Request.Context(), sess)
	if err != nil {
		fail(c, err)
		return
	}
	var username string
	if u != nil {
		username = u.Username
	}
	response.Success(c, h.navService.DesktopNavbar(sess, username))
}
