package authclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authclient "github.com/olympiastore/go-auth-client"
)

func newStorefront(t *testing.T, store authclient.TokenStore, handler http.Handler) *authclient.StorefrontClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return authclient.NewStorefrontClient(authclient.NewConfig(srv.URL), store)
}

func TestStorefrontListBundles(t *testing.T) {
	store := authclient.NewMemoryTokenStore()
	require.NoError(t, store.WriteToken("bearer.token.sig"))

	client := newStorefront(t, store, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bundles", r.URL.Path)
		assert.Equal(t, "Bearer bearer.token.sig", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "title": "Opening ceremony duo", "price": 250.0, "quantity": 2},
		})
	}))

	bundles, err := client.ListBundles(context.Background())
	require.NoError(t, err)
	require.Len(t, bundles, 1)
	assert.Equal(t, int64(1), bundles[0].ID)
	assert.Equal(t, "Opening ceremony duo", bundles[0].Title)
	assert.Equal(t, 2, bundles[0].Quantity)
}

func TestStorefrontListBundlesWithoutToken(t *testing.T) {
	client := newStorefront(t, authclient.NewMemoryTokenStore(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]map[string]any{})
	}))

	bundles, err := client.ListBundles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bundles)
}

func TestStorefrontCartCalls(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	store := authclient.NewMemoryTokenStore()
	require.NoError(t, store.WriteToken("bearer.token.sig"))

	client := newStorefront(t, store, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.AddCartItem(context.Background(), 7, 2))
	assert.Equal(t, "/cart/bundle/add_item", gotPath)
	assert.Equal(t, float64(7), gotBody["bundleId"])
	assert.Equal(t, float64(2), gotBody["quantity"])

	require.NoError(t, client.UpdateCartItem(context.Background(), 7, 3))
	assert.Equal(t, "/cart/bundle/update_item", gotPath)
	assert.Equal(t, float64(3), gotBody["quantity"])

	// Removal is an update with quantity -1.
	require.NoError(t, client.RemoveCartItem(context.Background(), 7))
	assert.Equal(t, "/cart/bundle/update_item", gotPath)
	assert.Equal(t, float64(-1), gotBody["quantity"])
}

func TestStorefrontCartRejection(t *testing.T) {
	client := newStorefront(t, authclient.NewMemoryTokenStore(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	err := client.AddCartItem(context.Background(), 7, 1)
	require.Error(t, err)
}
