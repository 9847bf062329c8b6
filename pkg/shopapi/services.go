package shopapi

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	AuthServiceName    = "shop.v1.AuthService"
	CatalogServiceName = "shop.v1.CatalogService"
	CartServiceName    = "shop.v1.CartService"
)

// Fully-qualified procedure names, as they appear in request paths.
const (
	AuthServiceRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthServiceGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"

	CatalogServiceListProductsProcedure = "/" + CatalogServiceName + "/ListProducts"
	CatalogServiceGetProductProcedure   = "/" + CatalogServiceName + "/GetProduct"

	CartServiceAddItemProcedure    = "/" + CartServiceName + "/AddItem"
	CartServiceGetCartProcedure    = "/" + CartServiceName + "/GetCart"
	CartServiceRemoveItemProcedure = "/" + CartServiceName + "/RemoveItem"
	CartServiceCheckoutProcedure   = "/" + CartServiceName + "/Checkout"
)

type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
}

type CatalogServiceHandler interface {
	ListProducts(context.Context, *connect.Request[ListProductsRequest]) (*connect.Response[ListProductsResponse], error)
	GetProduct(context.Context, *connect.Request[GetProductRequest]) (*connect.Response[GetProductResponse], error)
}

type CartServiceHandler interface {
	AddItem(context.Context, *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error)
	GetCart(context.Context, *connect.Request[GetCartRequest]) (*connect.Response[GetCartResponse], error)
	RemoveItem(context.Context, *connect.Request[RemoveItemRequest]) (*connect.Response[RemoveItemResponse], error)
	Checkout(context.Context, *connect.Request[CheckoutRequest]) (*connect.Response[CheckoutResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for svc. It returns the path
// to mount it on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, handlerCodecs())
	return route(AuthServiceName, map[string]http.Handler{
		AuthServiceRegisterProcedure:       connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...),
		AuthServiceLoginProcedure:          connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...),
		AuthServiceGetCurrentUserProcedure: connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...),
	})
}

func NewCatalogServiceHandler(svc CatalogServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, handlerCodecs())
	return route(CatalogServiceName, map[string]http.Handler{
		CatalogServiceListProductsProcedure: connect.NewUnaryHandler(CatalogServiceListProductsProcedure, svc.ListProducts, opts...),
		CatalogServiceGetProductProcedure:   connect.NewUnaryHandler(CatalogServiceGetProductProcedure, svc.GetProduct, opts...),
	})
}

func NewCartServiceHandler(svc CartServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, handlerCodecs())
	return route(CartServiceName, map[string]http.Handler{
		CartServiceAddItemProcedure:    connect.NewUnaryHandler(CartServiceAddItemProcedure, svc.AddItem, opts...),
		CartServiceGetCartProcedure:    connect.NewUnaryHandler(CartServiceGetCartProcedure, svc.GetCart, opts...),
		CartServiceRemoveItemProcedure: connect.NewUnaryHandler(CartServiceRemoveItemProcedure, svc.RemoveItem, opts...),
		CartServiceCheckoutProcedure:   connect.NewUnaryHandler(CartServiceCheckoutProcedure, svc.Checkout, opts...),
	})
}

func route(service string, procedures map[string]http.Handler) (string, http.Handler) {
	return "/" + service + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := procedures[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if r.Method == http.MethodPost && !isJSONContentType(r.Header.Get("Content-Type")) {
			w.Header().Set("Accept-Post", acceptPost)
			w.WriteHeader(http.StatusUnsupportedMediaType)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// AuthServiceClient calls AuthService over HTTP.
type AuthServiceClient struct {
	register       *connect.Client[RegisterRequest, RegisterResponse]
	login          *connect.Client[LoginRequest, LoginResponse]
	getCurrentUser *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]
}

// NewAuthServiceClient targets baseURL, for example http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	opts = append(opts, WithJSON())
	return &AuthServiceClient{
		register:       connect.NewClient[RegisterRequest, RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:          connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getCurrentUser: connect.NewClient[GetCurrentUserRequest, GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

func (c *AuthServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *AuthServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

// CatalogServiceClient calls CatalogService over HTTP.
type CatalogServiceClient struct {
	listProducts *connect.Client[ListProductsRequest, ListProductsResponse]
	getProduct   *connect.Client[GetProductRequest, GetProductResponse]
}

func NewCatalogServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *CatalogServiceClient {
	opts = append(opts, WithJSON())
	return &CatalogServiceClient{
		listProducts: connect.NewClient[ListProductsRequest, ListProductsResponse](httpClient, baseURL+CatalogServiceListProductsProcedure, opts...),
		getProduct:   connect.NewClient[GetProductRequest, GetProductResponse](httpClient, baseURL+CatalogServiceGetProductProcedure, opts...),
	}
}

func (c *CatalogServiceClient) ListProducts(ctx context.Context, req *connect.Request[ListProductsRequest]) (*connect.Response[ListProductsResponse], error) {
	return c.listProducts.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) GetProduct(ctx context.Context, req *connect.Request[GetProductRequest]) (*connect.Response[GetProductResponse], error) {
	return c.getProduct.CallUnary(ctx, req)
}

// CartServiceClient calls CartService over HTTP. Every call needs an
// Authorization: Bearer header.
type CartServiceClient struct {
	addItem    *connect.Client[AddItemRequest, AddItemResponse]
	getCart    *connect.Client[GetCartRequest, GetCartResponse]
	removeItem *connect.Client[RemoveItemRequest, RemoveItemResponse]
	checkout   *connect.Client[CheckoutRequest, CheckoutResponse]
}

func NewCartServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *CartServiceClient {
	opts = append(opts, WithJSON())
	return &CartServiceClient{
		addItem:    connect.NewClient[AddItemRequest, AddItemResponse](httpClient, baseURL+CartServiceAddItemProcedure, opts...),
		getCart:    connect.NewClient[GetCartRequest, GetCartResponse](httpClient, baseURL+CartServiceGetCartProcedure, opts...),
		removeItem: connect.NewClient[RemoveItemRequest, RemoveItemResponse](httpClient, baseURL+CartServiceRemoveItemProcedure, opts...),
		checkout:   connect.NewClient[CheckoutRequest, CheckoutResponse](httpClient, baseURL+CartServiceCheckoutProcedure, opts...),
	}
}

func (c *CartServiceClient) AddItem(ctx context.Context, req *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error) {
	return c.addItem.CallUnary(ctx, req)
}

func (c *CartServiceClient) GetCart(ctx context.Context, req *connect.Request[GetCartRequest]) (*connect.Response[GetCartResponse], error) {
	return c.getCart.CallUnary(ctx, req)
}

func (c *CartServiceClient) RemoveItem(ctx context.Context, req *connect.Request[RemoveItemRequest]) (*connect.Response[RemoveItemResponse], error) {
	return c.removeItem.CallUnary(ctx, req)
}

func (c *CartServiceClient) Checkout(ctx context.Context, req *connect.Request[CheckoutRequest]) (*connect.Response[CheckoutResponse], error) {
	return c.checkout.CallUnary(ctx, req)
}
