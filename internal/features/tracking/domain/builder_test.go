package domain

import (
	"testing"
	"time"

	orderdomain "apex-tracker/internal/features/orders/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 15, 15, 45, 0, 0, time.UTC)

func order(status orderdomain.Status) orderdomain.Order {
	return orderdomain.Order{
		ID:           "order-1",
		TrackingID:   "APX272265415",
		CustomerName: "Michael Brown",
		CreatedAt:    time.Date(2026, 10, 5, 8, 30, 0, 0, time.UTC),
		Status:       status,
		Origin:       "Phoenix, AZ",
		Destination:  "Sydney, Australia",
	}
}

func descriptions(events []TrackingEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Description
	}
	return out
}

func TestLabel(t *testing.T) {
	tests := map[orderdomain.Status]string{
		orderdomain.StatusOrdered:    "Order Received",
		orderdomain.StatusProcessing: "Processing at Facility",
		orderdomain.StatusInTransit:  "In Transit",
		orderdomain.StatusDelivered:  "Delivered",
		orderdomain.StatusOnHold:     "On Hold",
		"returned":                   "returned",
	}

	for status, want := range tests {
		assert.Equal(t, want, Label(status), string(status))
	}
}

func TestBuildViewModel_NewOrder(t *testing.T) {
	o := orderdomain.Order{
		ID:           "order-9",
		TrackingID:   "apx123456789",
		CustomerName: "Jane Doe",
		CreatedAt:    time.Date(2026, 10, 14, 18, 5, 0, 0, time.UTC),
		Status:       orderdomain.StatusOrdered,
		Origin:       "London, UK",
		Destination:  "Paris, France",
	}

	vm := BuildViewModel(o, now)

	assert.Equal(t, "apx123456789", vm.TrackingID)
	assert.Equal(t, "Order Received", vm.Status.Label)
	assert.Equal(t, "October 14, 2026", vm.Status.Date)
	assert.Equal(t, "October 20, 2026", vm.EstimatedDelivery)
	assert.Equal(t, "2026-10-15", vm.ShipmentDate)
	assert.False(t, vm.OnHold)
	assert.Equal(t, 25, vm.Progress)

	require.Len(t, vm.Events, 1)
	ev := vm.Events[0]
	assert.Equal(t, "Order processed", ev.Description)
	assert.Equal(t, "London, UK", ev.Location)
	assert.Equal(t, "October 14", ev.Date)
	assert.Equal(t, "6:05 PM", ev.Time)
	assert.Equal(t, orderdomain.StatusOrdered, ev.Status)

	assert.Equal(t, Sender{Name: "APEX International Logistics", Available: true}, vm.Sender)
	assert.Equal(t, "APEX Express Shipping", vm.Service)
	assert.Equal(t, Recipient{Name: "John Doe", Address: "123 Delivery Street, Destination City"}, vm.Recipient)
}

func TestBuildViewModel_Processing(t *testing.T) {
	vm := BuildViewModel(order(orderdomain.StatusProcessing), now)

	assert.Equal(t, "October 18, 2026", vm.EstimatedDelivery)
	assert.Equal(t, []string{"Package processed at sorting facility", "Order processed"}, descriptions(vm.Events))
	assert.Equal(t, now.Add(-24*time.Hour), vm.Events[0].Timestamp)
	assert.Equal(t, "Phoenix, AZ", vm.Events[0].Location)
}

func TestBuildViewModel_InTransit(t *testing.T) {
	vm := BuildViewModel(order(orderdomain.StatusInTransit), now)

	assert.Equal(t, "October 16, 2026", vm.EstimatedDelivery)
	assert.Equal(t, []string{
		"Package in transit to destination",
		"Package processed at sorting facility",
		"Order processed",
	}, descriptions(vm.Events))
	assert.Equal(t, "In Transit", vm.Events[0].Location)
	assert.Equal(t, now, vm.Events[0].Timestamp)
	assert.Equal(t, now.Add(-48*time.Hour), vm.Events[1].Timestamp)
}

func TestBuildViewModel_Delivered(t *testing.T) {
	o := order(orderdomain.StatusDelivered)
	o.RecipientName = "Olivia Harper"
	o.RecipientAddress = "9 Harbour St, Sydney"
	o.ShipmentDate = "2026-10-06"

	vm := BuildViewModel(o, now)

	assert.Equal(t, "Delivered", vm.Status.Label)
	assert.Equal(t, "Delivered", vm.EstimatedDelivery)
	assert.Equal(t, "2026-10-06", vm.ShipmentDate)
	assert.Equal(t, Recipient{Name: "Olivia Harper", Address: "9 Harbour St, Sydney"}, vm.Recipient)
	assert.Equal(t, 100, vm.Progress)

	require.Len(t, vm.Events, 4)
	latest := vm.Events[0]
	assert.Equal(t, orderdomain.StatusDelivered, latest.Status)
	assert.Equal(t, "Package delivered", latest.Description)
	assert.Equal(t, "Sydney, Australia", latest.Location)
	assert.Equal(t, "3:45 PM", latest.Time)

	assert.Equal(t, now.Add(-24*time.Hour), vm.Events[1].Timestamp)
	assert.Equal(t, now.Add(-72*time.Hour), vm.Events[2].Timestamp)
}

func TestBuildViewModel_OnHold(t *testing.T) {
	t.Run("WithReason", func(t *testing.T) {
		o := order(orderdomain.StatusOnHold)
		o.OnHold = true
		o.OnHoldReason = "Address verification required"

		vm := BuildViewModel(o, now)

		assert.True(t, vm.OnHold)
		assert.Equal(t, "Address verification required", vm.OnHoldReason)
		assert.Equal(t, "On Hold - Pending Resolution", vm.EstimatedDelivery)
		assert.Equal(t, 50, vm.Progress)

		latest := vm.Events[0]
		assert.Equal(t, "Address verification required", latest.Description)
		assert.Equal(t, "On Hold", latest.Location)
		assert.Equal(t, orderdomain.StatusOnHold, latest.Status)
	})

	t.Run("WithoutReason", func(t *testing.T) {
		vm := BuildViewModel(order(orderdomain.StatusOnHold), now)

		assert.True(t, vm.OnHold)
		latest := vm.Events[0]
		assert.Equal(t, "Shipment on hold", latest.Description)
		assert.Equal(t, "Processing Facility", latest.Location)
	})
}

func TestBuildViewModel_UnknownStatus(t *testing.T) {
	vm := BuildViewModel(order("returned"), now)

	assert.Equal(t, "returned", vm.Status.Label)
	assert.Equal(t, "October 20, 2026", vm.EstimatedDelivery)
	assert.Len(t, vm.Events, 1)
	assert.Equal(t, 0, vm.Progress)
}

func TestBuildViewModel_Deterministic(t *testing.T) {
	o := order(orderdomain.StatusInTransit)
	assert.Equal(t, BuildViewModel(o, now), BuildViewModel(o, now))
}

func TestEvents_NewestFirst(t *testing.T) {
	for _, status := range orderdomain.Statuses {
		t.Run(string(status), func(t *testing.T) {
			events := Events(order(status), now)
			for i := 1; i < len(events); i++ {
				assert.False(t, events[i].Timestamp.After(events[i-1].Timestamp),
					"event %d is newer than event %d", i, i-1)
			}
		})
	}
}

func TestEvents_TiesPreferLaterStep(t *testing.T) {
	o := order(orderdomain.StatusInTransit)
	o.CreatedAt = now

	events := Events(o, now)
	require.Len(t, events, 3)
	assert.Equal(t, "Package in transit to destination", events[0].Description)
	assert.Equal(t, "Order processed", events[1].Description)
}
