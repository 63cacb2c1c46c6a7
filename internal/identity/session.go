// Package identity 对接外部身份提供方：校验其签发的会话令牌并映射为 Session
package identity

import (
	"strings"
	"unicode"
)

// Session 身份提供方的已登录会话，只读
type Session struct {
	Subject   string   `json:"sub"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Username  string   `json:"username,omitempty"`
	Emails    []string `json:"emails,omitempty"`
	ImageURL  string   `json:"image_url,omitempty"`
}

// PrimaryEmail 第一个邮箱，没有时为空串
func (s *Session) PrimaryEmail() string {
	if s == nil || len(s.Emails) == 0 {
		return ""
	}
	return s.Emails[0]
}

// MaxHandleLen 与 users.username 列宽一致
const MaxHandleLen = 64

// Handle 用户名 → 主邮箱 @ 前部分 → "user_" + subject 前 8 位字母数字；
// 前两者规范化后为空时顺延到下一个来源
func (s *Session) Handle() string {
	if s == nil {
		return ""
	}
	if h := NormalizeHandle(s.Username); h != "" {
		return h
	}
	if email := s.PrimaryEmail(); email != "" {
		if local, _, _ := strings.Cut(email, "@"); local != "" {
			if h := NormalizeHandle(local); h != "" {
				return h
			}
		}
	}
	return FallbackHandle(s.Subject)
}

func isHandleRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return r == '_' || r == '.' || r == '+' || r == '-'
}

// NormalizeHandle 只保留 [A-Za-z0-9_.+-]，去掉首尾的点，截断到 MaxHandleLen
func NormalizeHandle(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if isHandleRune(r) {
			b.WriteRune(r)
		}
	}
	h := strings.Trim(b.String(), ".")
	if len(h) > MaxHandleLen {
		h = strings.TrimRight(h[:MaxHandleLen], ".")
	}
	return h
}

// IsValidHandle 与 NormalizeHandle 的输出字母表一致
func IsValidHandle(h string) bool {
	if h == "" || len(h) > MaxHandleLen {
		return false
	}
	for _, r := range h {
		if !isHandleRune(r) {
			return false
		}
	}
	return true
}

// SuffixHandle 拼接 "-suffix"，必要时截短 base 使总长不超过 MaxHandleLen
func SuffixHandle(base, suffix string) string {
	if keep := MaxHandleLen - len(suffix) - 1; len(base) > keep {
		base = base[:keep]
	}
	return base + "-" + suffix
}

// FallbackHandle 由 subject 派生的兜底 handle
func FallbackHandle(subject string) string {
	var b strings.Builder
	b.WriteString("user_")
	n := 0
	for _, r := range strings.ToLower(subject) {
		if n == 8 {
			break
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			n++
		}
	}
	return b.String()
}

// DisplayName "名 姓"，都为空时退回 handle
func (s *Session) DisplayName() string {
	if s == nil {
		return ""
	}
	if name := strings.TrimSpace(s.FirstName + " " + s.LastName); name != "" {
		return name
	}
	return s.Handle()
}
