package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"apex-tracker/internal/features/tracking/domain"
	"apex-tracker/internal/features/tracking/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_Track(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tracking/APX123456789":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(domain.TrackingViewModel{
				TrackingID: "APX123456789",
				Status:     domain.StatusInfo{Status: "ordered", Label: "Order Received"},
			})
		case "/tracking/APX500":
			http.Error(w, `{"message":"Internal Server Error"}`, http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	client := NewAPIClient(ts.URL+"/", time.Second)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		vm, err := client.Track(ctx, " APX123456789 ")
		require.NoError(t, err)
		assert.Equal(t, "Order Received", vm.Status.Label)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := client.Track(ctx, "APX000000000")
		assert.ErrorIs(t, err, service.ErrTrackingNotFound)
	})

	t.Run("ServerError", func(t *testing.T) {
		_, err := client.Track(ctx, "APX500")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 500")
	})
}
