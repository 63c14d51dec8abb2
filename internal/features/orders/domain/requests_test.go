package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderRequest_Validate(t *testing.T) {
	tests := []struct {
		name       string
		req        CreateOrderRequest
		wantFields []string
	}{
		{
			name: "Valid",
			req:  CreateOrderRequest{CustomerName: "Jane Doe", Origin: "London, UK", Destination: "Paris, France"},
		},
		{
			name:       "MissingEverything",
			req:        CreateOrderRequest{},
			wantFields: []string{"customerName", "origin", "destination"},
		},
		{
			name:       "BadShipmentDate",
			req:        CreateOrderRequest{CustomerName: "Jane", Origin: "A", Destination: "B", ShipmentDate: "someday"},
			wantFields: []string{"shipmentDate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			for _, f := range tt.wantFields {
				assert.Contains(t, verr.Fields, f)
			}
			assert.Len(t, verr.Fields, len(tt.wantFields))
		})
	}
}

func TestStatusUpdateRequest_Validate(t *testing.T) {
	tests := []struct {
		name       string
		req        StatusUpdateRequest
		wantFields map[string]string
	}{
		{
			name: "Valid",
			req:  StatusUpdateRequest{Status: StatusInTransit, Location: "Chicago", Description: "Left hub"},
		},
		{
			name: "UnknownStatus",
			req:  StatusUpdateRequest{Status: "lost", Location: "Chicago", Description: "Left hub"},
			wantFields: map[string]string{
				"status": "must be one of: ordered processing intransit delivered onhold",
			},
		},
		{
			name: "ShortLocationAndDescription",
			req:  StatusUpdateRequest{Status: StatusProcessing, Location: "X", Description: "hi"},
			wantFields: map[string]string{
				"location":    "must be at least 2 characters",
				"description": "must be at least 5 characters",
			},
		},
		{
			name: "HoldWithoutReason",
			req:  StatusUpdateRequest{Status: StatusOnHold, Location: "Depot", Description: "Held at depot"},
			wantFields: map[string]string{
				"onHoldReason": "is required when status is onhold",
			},
		},
		{
			name: "MissingStatus",
			req:  StatusUpdateRequest{Location: "Depot", Description: "Held at depot"},
			wantFields: map[string]string{
				"status": "is required",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantFields, verr.Fields)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

func TestStatusUpdateRequest_Patch(t *testing.T) {
	t.Run("Hold", func(t *testing.T) {
		req := StatusUpdateRequest{Status: StatusOnHold, OnHoldReason: "  Address unclear ", ShipmentDate: "2026-10-20"}
		p := req.Patch()

		require.NotNil(t, p.Status)
		assert.Equal(t, StatusOnHold, *p.Status)
		assert.True(t, *p.OnHold)
		assert.Equal(t, "Address unclear", *p.OnHoldReason)
		require.NotNil(t, p.ShipmentDate)
		assert.Equal(t, "2026-10-20", *p.ShipmentDate)
	})

	t.Run("NotHoldDropsReason", func(t *testing.T) {
		req := StatusUpdateRequest{Status: StatusDelivered, OnHoldReason: "stale"}
		p := req.Patch()

		assert.False(t, *p.OnHold)
		assert.Empty(t, *p.OnHoldReason)
		assert.Nil(t, p.ShipmentDate)
	})
}

func TestValidatePatch(t *testing.T) {
	assert.NoError(t, ValidatePatch(Patch{}))
	assert.NoError(t, ValidatePatch(Patch{Status: ptr(StatusDelivered), ShipmentDate: ptr("2026-01-02")}))
	assert.NoError(t, ValidatePatch(Patch{ShipmentDate: ptr("")}))

	var verr *ValidationError
	require.ErrorAs(t, ValidatePatch(Patch{Status: ptr(Status("shipped"))}), &verr)
	assert.Contains(t, verr.Fields, "status")

	require.ErrorAs(t, ValidatePatch(Patch{ShipmentDate: ptr("02/01/2026")}), &verr)
	assert.Contains(t, verr.Fields, "shipmentDate")
}

func TestParseShipmentDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "2026-10-15", want: "2026-10-15"},
		{in: "2026-10-15 14:30", want: "2026-10-15"},
		{in: "2026-10-15T23:00:00Z", want: "2026-10-15"},
		{in: "not a date", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseShipmentDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
