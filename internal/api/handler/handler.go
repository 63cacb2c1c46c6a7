package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-social/internal/realtime"
	"github.com/d60-Lab/gin-social/internal/service"
	"github.com/d60-Lab/gin-social/pkg/response"
)

// Services handler 依赖的全部服务
type Services struct {
	Users         service.UserService
	Relations     service.RelationshipService
	Suggestions   service.SuggestionService
	Notifications service.NotificationService
	Navigation    service.NavigationService
	Posts         service.PostService
}

type Handler struct {
	userService         service.UserService
	relService          service.RelationshipService
	suggestionService   service.SuggestionService
	notificationService service.NotificationService
	navService          service.NavigationService
	postService         service.PostService
	hub                 *realtime.Hub
}

func NewHandler(s Services, hub *realtime.Hub) *Handler {
	return &Handler{
		userService:         s.Users,
		relService:          s.Relations,
		suggestionService:   s.Suggestions,
		notificationService: s.Notifications,
		navService:          s.Navigation,
		postService:         s.Posts,
		hub:                 hub,
	}
}

// fail 把服务层错误映射为 HTTP 响应
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		response.Unauthorized(c, "sign in required")
	case errors.Is(err, service.ErrFollowSelf):
		response.Fail(c, http.StatusBadRequest, "self_follow", err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidContent):
		response.Fail(c, http.StatusBadRequest, "invalid_content", err.Error())
	case errors.Is(err, service.ErrHandleTaken):
		response.Fail(c, http.StatusConflict, "handle_taken", err.Error())
	default:
		response.InternalError(c, err)
	}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return page, pageSize
}
