package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/d60-Lab/gin-social/config"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrEmptySecret  = errors.New("identity secret is empty")
)

// Verifier 将会话令牌解析为 Session
type Verifier interface {
	Verify(token string) (*Session, error)
}

type sessionClaims struct {
	GivenName      string   `json:"given_name,omitempty"`
	FamilyName     string   `json:"family_name,omitempty"`
	Username       string   `json:"username,omitempty"`
	Email          string   `json:"email,omitempty"`
	EmailAddresses []string `json:"email_addresses,omitempty"`
	Picture        string   `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier 校验 HS256 签名的会话令牌
type JWTVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

// NewJWTVerifier 空密钥直接拒绝，否则任何人都能伪造令牌
func NewJWTVerifier(cfg config.IdentityConfig) (*JWTVerifier, error) {
	if cfg.Secret == "" {
		return nil, ErrEmptySecret
	}
	return &JWTVerifier{secret: []byte(cfg.Secret), issuer: cfg.Issuer, audience: cfg.Audience}, nil
}

func (v *JWTVerifier) key(*jwt.Token) (interface{}, error) {
	if len(v.secret) == 0 {
		return nil, ErrEmptySecret
	}
	return v.secret, nil
}

func (v *JWTVerifier) Verify(token string) (*Session, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	var c sessionClaims
	_, err := jwt.ParseWithClaims(token, &c, v.key, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	sess := &Session{
		Subject:   c.Subject,
		FirstName: c.GivenName,
		LastName:  c.FamilyName,
		Username:  c.Username,
		ImageURL:  c.Picture,
	}
	if c.Email != "" {
		sess.Emails = append(sess.Emails, c.Email)
	}
	for _, e := range c.EmailAddresses {
		if e != "" && e != c.Email {
			sess.Emails = append(sess.Emails, e)
		}
	}
	return sess, nil
}

// Issue 签发会话令牌，供本地联调与压测工具使用
func (v *JWTVerifier) Issue(sess Session, ttl time.Duration) (string, error) {
	if len(v.secret) == 0 {
		return "", ErrEmptySecret
	}
	now := time.Now()
	c := sessionClaims{
		GivenName:      sess.FirstName,
		FamilyName:     sess.LastName,
		Username:       sess.Username,
		EmailAddresses: sess.Emails,
		Picture:        sess.ImageURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.Subject,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if v.audience != "" {
		c.Audience = jwt.ClaimStrings{v.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(v.secret)
}
