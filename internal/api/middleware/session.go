package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-social/internal/identity"
	"github.com/d60-Lab/gin-social/pkg/logger"
)

const sessionKey = "identity.session"

// Session 可选鉴权：令牌有效时把 Session 放入上下文，缺失或无效都按未登录处理。
// queryTokenPaths 列出允许用 ?token= 传令牌的路径（websocket 握手无法设置请求头）
func Session(v identity.Verifier, queryTokenPaths ...string) gin.HandlerFunc {
	allowQuery := make(map[string]struct{}, len(queryTokenPaths))
	for _, p := range queryTokenPaths {
		allowQuery[p] = struct{}{}
	}
	return func(c *gin.Context) {
		_, withQuery := allowQuery[c.Request.URL.Path]
		token := bearerToken(c, withQuery)
		if token == "" {
			c.Next()
			return
		}
		sess, err := v.Verify(token)
		if err != nil {
			logger.Debug("ignore invalid session token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.Next()
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// bearerToken Authorization 头优先，withQuery 时退回 ?token=
func bearerToken(c *gin.Context, withQuery bool) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if !withQuery {
		return ""
	}
	return c.Query("token")
}

// SessionFrom 未登录返回 nil
func SessionFrom(c *gin.Context) *identity.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*identity.Session); ok {
			return sess
		}
	}
	return nil
}
