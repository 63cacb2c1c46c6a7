package identity

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/gin-social/config"
)

func TestHandle(t *testing.T) {
	tests := []struct {
		name string
		sess *Session
		want string
	}{
		{"nil session", nil, ""},
		{"username wins", &Session{Subject: "s", Username: "alice", Emails: []string{"bob@example.com"}}, "alice"},
		{"email local part", &Session{Subject: "s", Emails: []string{"bob@example.com"}}, "bob"},
		{"subject fallback", &Session{Subject: "user_2AbC-dEf9xyz"}, "user_user2abc"},
		{"short subject", &Session{Subject: "Q1"}, "user_q1"},
		{"username normalized", &Session{Subject: "s", Username: "o'brien"}, "obrien"},
		{"non-ascii username", &Session{Subject: "s", Username: "José"}, "Jos"},
		{"unusable username falls to email", &Session{Subject: "s", Username: "李雷", Emails: []string{"lei@example.com"}}, "lei"},
		{"email local part normalized", &Session{Subject: "s", Emails: []string{"o'brien@example.com"}}, "obrien"},
		{"unusable email falls to subject", &Session{Subject: "Q1", Emails: []string{"...@example.com"}}, "user_q1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sess.Handle())
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&Session{FirstName: "Ada", LastName: "Lovelace"}).DisplayName())
	assert.Equal(t, "Ada", (&Session{FirstName: "Ada"}).DisplayName())
	assert.Equal(t, "ada", (&Session{Username: "ada"}).DisplayName())
}

func TestJWTVerifier_RoundTrip(t *testing.T) {
	v, err := NewJWTVerifier(config.IdentityConfig{Secret: "s3cret", Issuer: "https://id.example.com", Audience: "gin-social"})
	require.NoError(t, err)
	in := Session{
		Subject:   "sub_1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		Emails:    []string{"ada@example.com", "ada@work.example.com"},
		ImageURL:  "https://img.example.com/ada.png",
	}
	token, err := v.Issue(in, time.Minute)
	require.NoError(t, err)

	got, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, in, *got)
}

func TestJWTVerifier_EmailClaimIsPrimary(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":             "sub_2",
		"email":           "primary@example.com",
		"email_addresses": []string{"other@example.com", "primary@example.com"},
		"exp":             time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("k"))
	require.NoError(t, err)

	v, err := NewJWTVerifier(config.IdentityConfig{Secret: "k"})
	require.NoError(t, err)
	got, err := v.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, []string{"primary@example.com", "other@example.com"}, got.Emails)
	assert.Equal(t, "primary", got.Handle())
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v, err := NewJWTVerifier(config.IdentityConfig{Secret: "k", Issuer: "iss"})
	require.NoError(t, err)

	sign := func(claims jwt.MapClaims, key string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		require.NoError(t, err)
		return s
	}
	exp := time.Now().Add(time.Hour).Unix()

	cases := map[string]string{
		"wrong key":       sign(jwt.MapClaims{"sub": "a", "iss": "iss", "exp": exp}, "other"),
		"wrong issuer":    sign(jwt.MapClaims{"sub": "a", "iss": "x", "exp": exp}, "k"),
		"expired":         sign(jwt.MapClaims{"sub": "a", "iss": "iss", "exp": time.Now().Add(-time.Hour).Unix()}, "k"),
		"no expiry":       sign(jwt.MapClaims{"sub": "a", "iss": "iss"}, "k"),
		"missing subject": sign(jwt.MapClaims{"iss": "iss", "exp": exp}, "k"),
		"garbage":         "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestJWTVerifier_EmptySecret(t *testing.T) {
	_, err := NewJWTVerifier(config.IdentityConfig{})
	assert.ErrorIs(t, err, ErrEmptySecret)

	// 零值 verifier 既不签发也不接受空密钥签名的令牌
	var v JWTVerifier
	_, err = v.Issue(Session{Subject: "victim"}, time.Minute)
	assert.ErrorIs(t, err, ErrEmptySecret)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "victim",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte{})
	require.NoError(t, err)
	sess, err := v.Verify(forged)
	assert.Nil(t, sess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHandle_AlwaysValid(t *testing.T) {
	sessions := []*Session{
		{Subject: "s", Username: "o'brien"},
		{Subject: "s", Username: "José"},
		{Subject: "s", Username: strings.Repeat("x", 200)},
		{Subject: "s", Emails: []string{"a b@example.com"}},
		{Subject: "s", Emails: []string{".dot.@example.com"}},
		{Subject: "李雷"},
		{Subject: "sub_123"},
	}
	for _, sess := range sessions {
		h := sess.Handle()
		assert.True(t, IsValidHandle(h), "%q", h)
	}
}

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "a.b", NormalizeHandle("..a.b.."))
	assert.Equal(t, "", NormalizeHandle("李雷"))
	assert.Len(t, NormalizeHandle(strings.Repeat("a", 100)), MaxHandleLen)
	assert.Equal(t, strings.Repeat("a", 63), NormalizeHandle(strings.Repeat("a", 63)+"."+"bbb"))
}

func TestSuffixHandle(t *testing.T) {
	assert.Equal(t, "bob-5b98", SuffixHandle("bob", "5b98"))

	got := SuffixHandle(strings.Repeat("a", MaxHandleLen), "5b98")
	assert.Len(t, got, MaxHandleLen)
	assert.Equal(t, strings.Repeat("a", 59)+"-5b98", got)
	assert.True(t, IsValidHandle(got))
}
