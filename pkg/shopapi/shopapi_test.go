package shopapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct{}

func (stubCatalog) ListProducts(context.Context, *connect.Request[ListProductsRequest]) (*connect.Response[ListProductsResponse], error) {
	return connect.NewResponse(&ListProductsResponse{
		Products: []*Product{{ID: "p1", Name: "Mug", Price: "7.25"}},
	}), nil
}

func (stubCatalog) GetProduct(_ context.Context, req *connect.Request[GetProductRequest]) (*connect.Response[GetProductResponse], error) {
	if req.Msg.ID != "p1" {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("product not found"))
	}
	return connect.NewResponse(&GetProductResponse{
		Product: &Product{ID: "p1", Name: "Mug", Price: "7.25"},
	}), nil
}

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle(NewCatalogServiceHandler(stubCatalog{}))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestCatalogClientRoundTrip(t *testing.T) {
	server := newCatalogServer(t)
	client := NewCatalogServiceClient(server.Client(), server.URL)
	ctx := context.Background()

	list, err := client.ListProducts(ctx, connect.NewRequest(&ListProductsRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Products, 1)
	assert.Equal(t, "7.25", list.Msg.Products[0].Price)

	got, err := client.GetProduct(ctx, connect.NewRequest(&GetProductRequest{ID: "p1"}))
	require.NoError(t, err)
	assert.Equal(t, "Mug", got.Msg.Product.Name)

	_, err = client.GetProduct(ctx, connect.NewRequest(&GetProductRequest{ID: "nope"}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestPlainJSONPost(t *testing.T) {
	server := newCatalogServer(t)

	for _, contentType := range []string{"application/json", "application/json; charset=utf-8"} {
		t.Run(contentType, func(t *testing.T) {
			resp, err := server.Client().Post(
				server.URL+CatalogServiceGetProductProcedure,
				contentType,
				strings.NewReader(`{"id":"p1"}`),
			)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
			assert.Contains(t, string(body), `"name":"Mug"`)
		})
	}
}

func TestUnknownProcedure(t *testing.T) {
	server := newCatalogServer(t)

	resp, err := server.Client().Post(server.URL+"/"+CatalogServiceName+"/Nope", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNonJSONBodiesAreUnsupported(t *testing.T) {
	server := newCatalogServer(t)

	for _, contentType := range []string{"application/proto", "application/grpc", "application/grpc+proto", "text/plain", ""} {
		t.Run(contentType, func(t *testing.T) {
			resp, err := server.Client().Post(server.URL+CatalogServiceGetProductProcedure, contentType, strings.NewReader("\x0a\x02p1"))
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Accept-Post"), "application/json")
		})
	}
}

func TestIsJSONContentType(t *testing.T) {
	assert.True(t, isJSONContentType("application/json"))
	assert.True(t, isJSONContentType("application/json; charset=utf-8"))
	assert.True(t, isJSONContentType("application/grpc-web+json"))
	assert.False(t, isJSONContentType("application/proto"))
	assert.False(t, isJSONContentType("not a media type;;"))
}

func TestCodecEmptyBody(t *testing.T) {
	var req GetCartRequest
	require.NoError(t, jsonCodec{name: codecName}.Unmarshal(nil, &req))

	err := jsonCodec{name: codecName}.Unmarshal([]byte("{"), &req)
	assert.Error(t, err)
}
