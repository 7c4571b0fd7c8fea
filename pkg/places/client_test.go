package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("maps results and passes the key", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "taco palace", r.URL.Query().Get("query"))
			require.Equal(t, "test-key", r.URL.Query().Get("key"))
			w.Write([]byte(`{
				"status": "OK",
				"results": [
					{"place_id": "p1", "name": "Taco Palace", "formatted_address": "1 Main St", "business_status": "OPERATIONAL"},
					{"place_id": "p2", "name": "Old Taco Palace", "formatted_address": "2 Main St", "business_status": "CLOSED_PERMANENTLY"}
				]
			}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "test-key")
		results, err := client.Search(ctx, "taco palace")
		require.NoError(t, err)
		require.Len(t, results, 2)
		require.Equal(t, "p1", results[0].PlaceID)
		require.True(t, results[0].Verified)
		require.False(t, results[1].Verified)
	})

	t.Run("zero results is not an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "")
		results, err := client.Search(ctx, "nowhere")
		require.NoError(t, err)
		require.Empty(t, results)
	})

	t.Run("upstream error status surfaces", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "REQUEST_DENIED", "results": []}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "bad-key")
		_, err := client.Search(ctx, "taco palace")
		require.Error(t, err)
	})
}
