package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/gin-social/internal/identity"
)

func keys(nb Navbar) []string {
	out := make([]string, len(nb.Items))
	for i, it := range nb.Items {
		out[i] = it.Key
	}
	return out
}

func TestDesktopNavbar_SignedOut(t *testing.T) {
	nb := NewNavigationService().DesktopNavbar(nil, "")

	assert.False(t, nb.SignedIn)
	assert.Equal(t, []string{"home", "sign_in"}, keys(nb))
	assert.Equal(t, "/", nb.Items[0].Href)
	assert.Equal(t, "modal", nb.Items[1].Mode)
}

func TestDesktopNavbar_SignedIn(t *testing.T) {
	nb := NewNavigationService().DesktopNavbar(&identity.Session{Subject: "s", Username: "ada"}, "")

	assert.True(t, nb.SignedIn)
	assert.Equal(t, []string{"home", "notifications", "profile", "user_button"}, keys(nb))
	assert.Equal(t, "/notifications", nb.Items[1].Href)
	assert.Equal(t, "/profile/ada", nb.Items[2].Href)
}

func TestDesktopNavbar_ProfileFallsBackToEmail(t *testing.T) {
	nb := NewNavigationService().DesktopNavbar(&identity.Session{Subject: "s", Emails: []string{"grace@example.com"}}, "")
	assert.Equal(t, "/profile/grace", nb.Items[2].Href)
}

func TestDesktopNavbar_ProfileUsesSyncedUsername(t *testing.T) {
	sess := &identity.Session{Subject: "s", Emails: []string{"bob@y.example.com"}}
	nb := NewNavigationService().DesktopNavbar(sess, "bob-5b98")
	assert.Equal(t, "/profile/bob-5b98", nb.Items[2].Href)
}

func TestDesktopNavbar_ProfileHandleIsNormalized(t *testing.T) {
	nb := NewNavigationService().DesktopNavbar(&identity.Session{Subject: "s", Username: "o'brien"}, "")
	assert.Equal(t, "/profile/obrien", nb.Items[2].Href)
}
