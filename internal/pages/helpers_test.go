package pages_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/themizzi/storefront-e2e/internal/browser"
	"github.com/themizzi/storefront-e2e/internal/browser/browsertest"
	"github.com/themizzi/storefront-e2e/internal/pages"
)

// newSessionPage opens a fresh, unauthenticated fake session.
func newSessionPage(t *testing.T) browser.Page {
	t.Helper()
	front := browsertest.NewStorefront()
	sess, err := front.NewSession(browser.SessionOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { sess.Close() })
	return sess.Page()
}

// newLoggedInPage opens a fake session and logs in as the standard user.
func newLoggedInPage(t *testing.T) browser.Page {
	t.Helper()
	page := newSessionPage(t)
	login := pages.NewLoginPage(page, zaptest.NewLogger(t))
	require.NoError(t, login.NavigateTo())
	require.NoError(t, login.Login(browsertest.StandardUser, browsertest.Password))
	require.True(t, login.IsLoggedIn(), "login did not land on the inventory")
	return page
}

// seedBackpackAndBikeLight pre-populates the cart with the backpack (4) and
// the bike light (0). It takes effect on the next navigation.
func seedBackpackAndBikeLight(t *testing.T, page browser.Page) {
	t.Helper()
	require.NoError(t, page.AddInitScript(`localStorage.setItem("cart-contents", "[4,0]");`))
}
