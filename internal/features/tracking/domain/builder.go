package domain

import (
	"slices"
	"time"

	orderdomain "apex-tracker/internal/features/orders/domain"
)

// Display formats.
const (
	LongDateLayout  = "January 2, 2006"
	EventDateLayout = "January 2"
	EventTimeLayout = "3:04 PM"
)

// Fixed presentation values.
const (
	SenderName           = "APEX International Logistics"
	ServiceName          = "APEX Express Shipping"
	PlaceholderRecipient = "John Doe"
	PlaceholderAddress   = "123 Delivery Street, Destination City"
	EstimateDelivered    = "Delivered"
	EstimateOnHold       = "On Hold - Pending Resolution"
)

const (
	descriptionOrdered   = "Order processed"
	descriptionSorted    = "Package processed at sorting facility"
	descriptionInTransit = "Package in transit to destination"
	descriptionDelivered = "Package delivered"
	descriptionHold      = "Shipment on hold"

	locationInTransit  = "In Transit"
	locationHold       = "On Hold"
	locationHoldNoInfo = "Processing Facility"

	day = 24 * time.Hour
)

var statusLabels = map[orderdomain.Status]string{
	orderdomain.StatusOrdered:    "Order Received",
	orderdomain.StatusProcessing: "Processing at Facility",
	orderdomain.StatusInTransit:  "In Transit",
	orderdomain.StatusDelivered:  "Delivered",
	orderdomain.StatusOnHold:     "On Hold",
}

// Label returns the display label of status. Unknown statuses are returned as is.
func Label(status orderdomain.Status) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

// BuildViewModel projects order into the customer tracking view as of now.
// The result depends only on its arguments.
func BuildViewModel(order orderdomain.Order, now time.Time) TrackingViewModel {
	recipient := Recipient{Name: order.RecipientName, Address: order.RecipientAddress}
	if recipient.Name == "" {
		recipient.Name = PlaceholderRecipient
	}
	if recipient.Address == "" {
		recipient.Address = PlaceholderAddress
	}

	shipmentDate := order.ShipmentDate
	if shipmentDate == "" {
		shipmentDate = order.CreatedAt.Add(day).Format(orderdomain.ShipmentDateLayout)
	}

	return TrackingViewModel{
		TrackingID: order.TrackingID,
		Status: StatusInfo{
			Status: order.Status,
			Label:  Label(order.Status),
			Date:   order.CreatedAt.Format(LongDateLayout),
		},
		EstimatedDelivery: EstimatedDelivery(order.Status, now),
		Origin:            order.Origin,
		Destination:       order.Destination,
		Events:            Events(order, now),
		Sender:            Sender{Name: SenderName, Available: true},
		Service:           ServiceName,
		Recipient:         recipient,
		ShipmentDate:      shipmentDate,
		OnHold:            order.OnHold || order.Status == orderdomain.StatusOnHold,
		OnHoldReason:      order.OnHoldReason,
		Timeline:          Timeline(order.Status),
		Progress:          Progress(order.Status),
	}
}

// EstimatedDelivery returns the delivery estimate shown for status.
func EstimatedDelivery(status orderdomain.Status, now time.Time) string {
	switch status {
	case orderdomain.StatusDelivered:
		return EstimateDelivered
	case orderdomain.StatusOnHold:
		return EstimateOnHold
	case orderdomain.StatusInTransit:
		return now.Add(1 * day).Format(LongDateLayout)
	case orderdomain.StatusProcessing:
		return now.Add(3 * day).Format(LongDateLayout)
	default:
		return now.Add(5 * day).Format(LongDateLayout)
	}
}

// Events synthesizes the shipment history for order, newest first.
// Only the first event reflects stored data; the rest are placed relative to now.
func Events(order orderdomain.Order, now time.Time) []TrackingEvent {
	status := order.Status

	events := []TrackingEvent{
		newEvent(order.CreatedAt, order.Origin, descriptionOrdered, orderdomain.StatusOrdered, 0),
	}

	switch status {
	case orderdomain.StatusProcessing, orderdomain.StatusInTransit,
		orderdomain.StatusDelivered, orderdomain.StatusOnHold:
		daysAgo := 1
		switch status {
		case orderdomain.StatusDelivered:
			daysAgo = 3
		case orderdomain.StatusInTransit:
			daysAgo = 2
		}
		events = append(events, newEvent(
			now.Add(-time.Duration(daysAgo)*day), order.Origin,
			descriptionSorted, orderdomain.StatusProcessing, 1,
		))
	}

	if status == orderdomain.StatusInTransit || status == orderdomain.StatusDelivered {
		at := now
		if status == orderdomain.StatusDelivered {
			at = now.Add(-day)
		}
		events = append(events, newEvent(
			at, locationInTransit,
			descriptionInTransit, orderdomain.StatusInTransit, 2,
		))
	}

	if status == orderdomain.StatusOnHold {
		description, location := descriptionHold, locationHoldNoInfo
		if order.OnHoldReason != "" {
			description, location = order.OnHoldReason, locationHold
		}
		events = append(events, newEvent(now, location, description, orderdomain.StatusOnHold, 3))
	}

	if status == orderdomain.StatusDelivered {
		events = append(events, newEvent(
			now, order.Destination,
			descriptionDelivered, orderdomain.StatusDelivered, 4,
		))
	}

	slices.SortStableFunc(events, func(a, b TrackingEvent) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return b.step - a.step
	})

	return events
}

func newEvent(at time.Time, location, description string, status orderdomain.Status, step int) TrackingEvent {
	return TrackingEvent{
		Date:        at.Format(EventDateLayout),
		Time:        at.Format(EventTimeLayout),
		Location:    location,
		Description: description,
		Status:      status,
		Timestamp:   at,
		step:        step,
	}
}
