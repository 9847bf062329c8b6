package web

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/minishop/internal/auth"
	"github.com/mmynk/minishop/internal/cart"
	"github.com/mmynk/minishop/internal/catalog"
	"github.com/mmynk/minishop/internal/metrics"
	"github.com/mmynk/minishop/internal/middleware"
	"github.com/mmynk/minishop/internal/models"
	"github.com/mmynk/minishop/internal/storage/sqlite"
)

type testSite struct {
	server *httptest.Server
	store  *sqlite.SQLiteStore
	mug    *models.Product
}

func newTestSite(t *testing.T, limiter *middleware.RateLimiter) *testSite {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "web.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	mug := &models.Product{Name: "Mug", Description: "Holds coffee", Price: decimal.RequireFromString("7.25")}
	require.NoError(t, store.CreateProduct(ctx, mug))

	m := metrics.New()
	identity := auth.NewIdentity(store)
	h, err := NewHandler(Deps{
		Authenticator: auth.NewPasswordAuthenticator(store, auth.NewBcryptHasher(bcrypt.MinCost)),
		JWT:           auth.NewJWTManager("test-secret", time.Hour),
		Catalog:       catalog.NewService(store),
		Carts:         cart.NewService(identity, store, store, m),
		Store:         store,
		Metrics:       m,
		Limiter:       limiter,
	})
	require.NoError(t, err)

	mux := http.NewServeMux()
	h.Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testSite{server: server, store: store, mug: mug}
}

// newBrowser returns a client that keeps cookies and does not follow
// redirects, so tests can assert on Location.
func (s *testSite) newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func do(t *testing.T, c *http.Client, method, target string, form url.Values) (*http.Response, string) {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, target, body)
	require.NoError(t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func (s *testSite) signIn(t *testing.T, c *http.Client, username string) {
	t.Helper()
	resp, _ := do(t, c, http.MethodPost, s.server.URL+"/register", url.Values{
		"username": {username},
		"password": {"pw"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = do(t, c, http.MethodPost, s.server.URL+"/login", url.Values{
		"username": {username},
		"password": {"pw"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestPublicPages(t *testing.T) {
	site := newTestSite(t, nil)
	c := site.newBrowser(t)

	resp, _ := do(t, c, http.MethodGet, site.server.URL+"/", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/products", resp.Header.Get("Location"))

	resp, body := do(t, c, http.MethodGet, site.server.URL+"/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Mug")
	assert.Contains(t, body, "7.25")
	assert.Contains(t, body, "Log in")

	resp, _ = do(t, c, http.MethodGet, site.server.URL+"/register", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, c, http.MethodGet, site.server.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
}

func TestCartRequiresSession(t *testing.T) {
	site := newTestSite(t, nil)
	c := site.newBrowser(t)

	for _, path := range []string{"/cart", "/cart/checkout", "/cart/remove/abc"} {
		resp, _ := do(t, c, http.MethodGet, site.server.URL+path, nil)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}

	resp, _ := do(t, c, http.MethodPost, site.server.URL+"/cart/add", url.Values{"productId": {site.mug.ID}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestRegistration(t *testing.T) {
	site := newTestSite(t, nil)
	c := site.newBrowser(t)
	ctx := context.Background()

	resp, _ := do(t, c, http.MethodPost, site.server.URL+"/register", url.Values{
		"username": {"alice"},
		"fullName": {"Alice Liddell"},
		"password": {"rabbit"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?registerSuccess", resp.Header.Get("Location"))

	_, body := do(t, c, http.MethodGet, site.server.URL+"/login?registerSuccess", nil)
	assert.Contains(t, body, "Registration successful")

	original, err := site.store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)

	t.Run("duplicate is shown on the form", func(t *testing.T) {
		resp, body := do(t, c, http.MethodPost, site.server.URL+"/register", url.Values{
			"username": {"alice"},
			"password": {"other"},
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Contains(t, body, "already taken")
		assert.Contains(t, body, `value="alice"`)

		stored, err := site.store.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, original, stored)
	})

	t.Run("missing password", func(t *testing.T) {
		resp, _ := do(t, c, http.MethodPost, site.server.URL+"/register", url.Values{"username": {"bob"}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestSignedInViewerShowsDisplayName(t *testing.T) {
	site := newTestSite(t, nil)
	c := site.newBrowser(t)

	resp, _ := do(t, c, http.MethodPost, site.server.URL+"/register", url.Values{
		"username": {"alice"},
		"fullName": {"Alice Liddell"},
		"password": {"rabbit"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp, _ = do(t, c, http.MethodPost, site.server.URL+"/login", url.Values{
		"username": {"alice"},
		"password": {"rabbit"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body := do(t, c, http.MethodGet, site.server.URL+"/products", nil)
	assert.Contains(t, body, "Signed in as Alice Liddell")

	_, body = do(t, c, http.MethodGet, site.server.URL+"/cart", nil)
	assert.Contains(t, body, "Alice Liddell")
}

func TestLogin(t *testing.T) {
	site := newTestSite(t, nil)
	c := site.newBrowser(t)

	resp, _ := do(t, c, http.MethodPost, site.server.URL+"/register", url.Values{
		"username": {"alice"},
		"password": {"rabbit"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	t.Run("wrong password", func(t *testing.T) {
		resp, body := do(t, c, http.MethodPost, site.server.URL+"/login", url.Values{
			"username": {"alice"},
			"password": {"nope"},
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, body, "Invalid username or password")
	})

	t.Run("success sets an HttpOnly session", func(t *testing.T) {
		resp, _ := do(t, c, http.MethodPost, site.server.URL+"/login", url.Values{
			"username": {"alice"},
			"password": {"rabbit"},
		})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/products", resp.Header.Get("Location"))

		var session *http.Cookie
		for _, ck := range resp.Cookies() {
			if ck.Name == middleware.SessionCookie {
				session = ck
			}
		}
		require.NotNil(t, session)
		assert.True(t, session.HttpOnly)

		_, body := do(t, c, http.MethodGet, site.server.URL+"/products", nil)
		assert.Contains(t, body, "Signed in as alice")
	})

	t.Run("logout", func(t *testing.T) {
		resp, _ := do(t, c, http.MethodGet, site.server.URL+"/logout", nil)
		assert.Equal(t, "/login?logout", resp.Header.Get("Location"))

		resp, _ = do(t, c, http.MethodGet, site.server.URL+"/cart", nil)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})
}

func TestCartFlow(t *testing.T) {
	site := newTestSite(t, nil)
	c := site.newBrowser(t)
	ctx := context.Background()
	site.signIn(t, c, "alice")

	_, body := do(t, c, http.MethodGet, site.server.URL+"/cart", nil)
	assert.Contains(t, body, "Your cart is empty")

	resp, _ := do(t, c, http.MethodPost, site.server.URL+"/cart/add", url.Values{
		"productId": {site.mug.ID},
		"quantity":  {"2"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/products", resp.Header.Get("Location"))

	// quantity defaults to 1
	resp, _ = do(t, c, http.MethodPost, site.server.URL+"/cart/add", url.Values{"productId": {site.mug.ID}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, body = do(t, c, http.MethodGet, site.server.URL+"/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Mug")
	assert.Contains(t, body, "21.75")

	t.Run("bad input", func(t *testing.T) {
		resp, _ := do(t, c, http.MethodPost, site.server.URL+"/cart/add", url.Values{"productId": {site.mug.ID}, "quantity": {"0"}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, _ = do(t, c, http.MethodPost, site.server.URL+"/cart/add", url.Values{"productId": {site.mug.ID}, "quantity": {"two"}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, _ = do(t, c, http.MethodPost, site.server.URL+"/cart/add", url.Values{"productId": {"missing"}})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("another user cannot remove the line", func(t *testing.T) {
		user, err := site.store.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		item, err := site.store.FindCartItem(ctx, user.ID, site.mug.ID)
		require.NoError(t, err)

		mallory := site.newBrowser(t)
		site.signIn(t, mallory, "mallory")
		resp, _ := do(t, mallory, http.MethodGet, site.server.URL+"/cart/remove/"+item.ID, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		_, err = site.store.GetCartItem(ctx, item.ID)
		assert.NoError(t, err)

		resp, _ = do(t, c, http.MethodGet, site.server.URL+"/cart/remove/"+item.ID, nil)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/cart", resp.Header.Get("Location"))
	})

	t.Run("checkout", func(t *testing.T) {
		resp, _ := do(t, c, http.MethodPost, site.server.URL+"/cart/add", url.Values{"productId": {site.mug.ID}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		resp, _ = do(t, c, http.MethodGet, site.server.URL+"/cart/checkout", nil)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/products?checkout=success", resp.Header.Get("Location"))

		_, body := do(t, c, http.MethodGet, site.server.URL+"/products?checkout=success", nil)
		assert.Contains(t, body, "Checkout complete")

		_, body = do(t, c, http.MethodGet, site.server.URL+"/cart", nil)
		assert.Contains(t, body, "Your cart is empty")
	})
}

func TestDeletedAccountWithLiveSession(t *testing.T) {
	site := newTestSite(t, nil)
	c := site.newBrowser(t)
	ctx := context.Background()
	site.signIn(t, c, "carol")

	user, err := site.store.GetUserByUsername(ctx, "carol")
	require.NoError(t, err)
	require.NoError(t, site.store.DeleteUser(ctx, user.ID))

	resp, body := do(t, c, http.MethodGet, site.server.URL+"/cart", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, body, "does not exist")
}

func TestLoginRateLimited(t *testing.T) {
	site := newTestSite(t, middleware.NewRateLimiter(0.001, 1))
	c := site.newBrowser(t)

	form := url.Values{"username": {"nobody"}, "password": {"x"}}
	resp, _ := do(t, c, http.MethodPost, site.server.URL+"/login", form)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, c, http.MethodPost, site.server.URL+"/login", form)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// GET is not limited.
	resp, _ = do(t, c, http.MethodGet, site.server.URL+"/login", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
