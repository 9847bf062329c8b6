// Package web serves the server-rendered storefront: product listing, cart,
// login and registration.
package web

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mmynk/minishop/internal/auth"
	"github.com/mmynk/minishop/internal/cart"
	"github.com/mmynk/minishop/internal/metrics"
	"github.com/mmynk/minishop/internal/middleware"
	"github.com/mmynk/minishop/internal/models"
	"github.com/mmynk/minishop/internal/storage"
)

const loginPath = "/login"

// ProductLister is the part of the catalog the storefront reads.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
}

// CartOperations is the cart domain surface used by the storefront.
type CartOperations interface {
	AddToCart(ctx context.Context, username, productID string, quantity int) (*models.CartItem, error)
	GetCart(ctx context.Context, username string) (*models.Cart, error)
	RemoveCartItem(ctx context.Context, username, itemID string) error
	ClearCart(ctx context.Context, username string) (int64, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of Handler. Metrics and Limiter may be nil.
type Deps struct {
	Authenticator auth.Authenticator
	JWT           *auth.JWTManager
	Catalog       ProductLister
	Carts         CartOperations
	Store         Pinger
	Metrics       *metrics.Metrics
	Limiter       *middleware.RateLimiter

	// CookieSecure marks the session cookie Secure; enable behind TLS.
	CookieSecure bool
}

type Handler struct {
	Deps
	pages map[string]*template.Template
}

// NewHandler parses the embedded templates and returns a ready handler.
func NewHandler(deps Deps) (*Handler, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &Handler{Deps: deps, pages: pages}, nil
}

// Register mounts the storefront routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	session := middleware.RequireSession(h.JWT, loginPath)
	optional := middleware.OptionalSession(h.JWT)
	limit := func(next http.HandlerFunc) http.Handler {
		if h.Limiter == nil {
			return next
		}
		return h.Limiter.Limit(next)
	}

	mux.Handle("GET /{$}", http.RedirectHandler("/products", http.StatusFound))
	mux.Handle("GET /products", optional(http.HandlerFunc(h.products)))

	mux.Handle("GET /login", optional(http.HandlerFunc(h.loginForm)))
	mux.Handle("POST /login", limit(h.login))
	mux.Handle("GET /register", optional(http.HandlerFunc(h.registerForm)))
	mux.Handle("POST /register", limit(h.register))
	mux.HandleFunc("GET /logout", h.logout)

	mux.Handle("POST /cart/add", session(http.HandlerFunc(h.addToCart)))
	mux.Handle("GET /cart", session(http.HandlerFunc(h.viewCart)))
	mux.Handle("GET /cart/remove/{id}", session(http.HandlerFunc(h.removeCartItem)))
	mux.Handle("GET /cart/checkout", session(http.HandlerFunc(h.checkout)))

	mux.HandleFunc("GET /healthz", h.healthz)
}

func usernameFrom(r *http.Request) string {
	return middleware.GetUsername(r.Context())
}

func (h *Handler) products(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.ListProducts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data := pageData{
		Title:    "Products",
		Products: products,
	}
	if r.URL.Query().Get("checkout") == "success" {
		data.Notice = "Checkout complete. Your cart is now empty."
	}
	h.render(w, r, http.StatusOK, "products", data)
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimSpace(r.FormValue("productId"))
	if productID == "" {
		h.renderError(w, r, http.StatusBadRequest, "productId is required")
		return
	}

	quantity := 1
	if raw := strings.TrimSpace(r.FormValue("quantity")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.renderError(w, r, http.StatusBadRequest, "quantity must be a whole number")
			return
		}
		quantity = n
	}

	if _, err := h.Carts.AddToCart(r.Context(), usernameFrom(r), productID, quantity); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (h *Handler) viewCart(w http.ResponseWriter, r *http.Request) {
	username := usernameFrom(r)
	c, err := h.Carts.GetCart(r.Context(), username)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "cart", pageData{
		Title: "Cart",
		Cart:  c,
	})
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Carts.RemoveCartItem(r.Context(), usernameFrom(r), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusFound)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Carts.ClearCart(r.Context(), usernameFrom(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/products?checkout=success", http.StatusFound)
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		slog.Error("Health check failed", "error", err)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// fail maps a domain error to an error page.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrUnknownPrincipal):
		slog.Error("Session user has no account", "username", usernameFrom(r), "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "Something went wrong.")
	case errors.Is(err, storage.ErrNotFound):
		h.renderError(w, r, http.StatusNotFound, "Not found.")
	case errors.Is(err, cart.ErrInvalidQuantity):
		h.renderError(w, r, http.StatusBadRequest, "Quantity must be at least 1.")
	default:
		slog.Error("Request failed", "path", r.URL.Path, "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "Something went wrong.")
	}
}
