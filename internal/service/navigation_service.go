package service

import (
	"net/url"

	"github.com/d60-Lab/gin-social/internal/identity"
)

// NavItem 导航栏条目；Mode 仅登录按钮使用
type NavItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Href  string `json:"href,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Mode  string `json:"mode,omitempty"`
}

type Navbar struct {
	SignedIn bool      `json:"signed_in"`
	Items    []NavItem `json:"items"`
}

type NavigationService interface {
	// DesktopNavbar username 为已同步的本地用户名，未同步时传空串
	DesktopNavbar(sess *identity.Session, username string) Navbar
}

type navigationService struct{}

func NewNavigationService() NavigationService { return navigationService{} }

// DesktopNavbar 不访问存储；个人主页链接优先用本地用户名，
// 它可能因重名带有后缀，与会话里的 handle 不同
func (navigationService) DesktopNavbar(sess *identity.Session, username string) Navbar {
	items := []NavItem{{Key: "home", Label: "Home", Href: "/", Icon: "home"}}
	if sess == nil {
		items = append(items, NavItem{Key: "sign_in", Label: "Sign In", Mode: "modal"})
		return Navbar{SignedIn: false, Items: items}
	}
	if username == "" {
		username = sess.Handle()
	}
	items = append(items,
		NavItem{Key: "notifications", Label: "Notifications", Href: "/notifications", Icon: "bell"},
		NavItem{Key: "profile", Label: "Profile", Href: "/profile/" + url.PathEscape(username), Icon: "user"},
		NavItem{Key: "user_button", Label: "Account"},
	)
	return Navbar{SignedIn: true, Items: items}
}
