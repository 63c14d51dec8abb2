package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"apex-tracker/internal/features/tracking/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("AUTH_JWT_SECRET", "cli-secret")
	t.Setenv("SEED_ORDER_COUNT", "3")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config-dir", t.TempDir()}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeedCmd(t *testing.T) {
	out, err := run(t, "seed")
	require.NoError(t, err)

	assert.Contains(t, out, "users:  2")
	assert.Contains(t, out, "orders: 3")
	assert.Equal(t, 3, strings.Count(out, "  APX"))
}

func TestOrdersCmd(t *testing.T) {
	out, err := run(t, "orders")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "TRACKING ID"))
}

func TestTrackCmd_LocalNotFound(t *testing.T) {
	_, err := run(t, "track", "APX000000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no shipment found for tracking id "APX000000000"`)
}

func TestTrackCmd_API(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tracking/APX555000111" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(domain.TrackingViewModel{
			TrackingID:        "APX555000111",
			Status:            domain.StatusInfo{Status: "onhold", Label: "On Hold", Date: "October 1, 2026"},
			EstimatedDelivery: "On Hold - Pending Resolution",
			Origin:            "Paris, France",
			Destination:       "London, UK",
			OnHold:            true,
			OnHoldReason:      "Customs inspection",
			Progress:          50,
			Events: []domain.TrackingEvent{
				{Date: "October 15", Time: "9:00 AM", Location: "On Hold", Description: "Customs inspection"},
			},
		})
	}))
	defer ts.Close()

	out, err := run(t, "track", "APX555000111", "--api", ts.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "APX555000111  On Hold (since October 1, 2026)")
	assert.Contains(t, out, "Paris, France -> London, UK")
	assert.Contains(t, out, "On hold: Customs inspection")
	assert.Contains(t, out, "Progress: 50%")
	assert.Contains(t, out, "Customs inspection")

	_, err = run(t, "track", "APX1", "--api", ts.URL)
	assert.ErrorContains(t, err, "no shipment found")
}

func TestTrackCmd_JSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.TrackingViewModel{TrackingID: "APX1"})
	}))
	defer ts.Close()

	out, err := run(t, "track", "APX1", "--api", ts.URL, "--json")
	require.NoError(t, err)

	var vm domain.TrackingViewModel
	require.NoError(t, json.Unmarshal([]byte(out), &vm))
	assert.Equal(t, "APX1", vm.TrackingID)
}

func TestTrackCmd_RequiresID(t *testing.T) {
	_, err := run(t, "track")
	assert.Error(t, err)
}
