package domain

import (
	"errors"
	"strings"
	"time"
)

// Status represents the current state of a shipment.
type Status string

const (
	// StatusOrdered indicates the order has been received but not yet handled.
	StatusOrdered Status = "ordered"
	// StatusProcessing indicates the package is at a sorting facility.
	StatusProcessing Status = "processing"
	// StatusInTransit indicates the package is travelling to its destination.
	StatusInTransit Status = "intransit"
	// StatusDelivered indicates the package reached the recipient.
	StatusDelivered Status = "delivered"
	// StatusOnHold indicates the shipment is paused pending resolution.
	StatusOnHold Status = "onhold"
)

// ErrInvalidStatus is returned when a status is outside the known set.
var ErrInvalidStatus = errors.New("invalid order status")

// Statuses lists every accepted status in progress order, on hold last.
var Statuses = []Status{StatusOrdered, StatusProcessing, StatusInTransit, StatusDelivered, StatusOnHold}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus converts raw input into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Order is one shipment as stored in the orders collection.
type Order struct {
	// ID is the opaque internal identifier.
	ID string `json:"id"`
	// TrackingID is the customer-facing identifier ("APX" + 9 digits).
	TrackingID string `json:"trackingId"`
	// CustomerName is the name of the customer who placed the order.
	CustomerName string `json:"customerName"`
	// CreatedAt is when the order was created.
	CreatedAt time.Time `json:"createdAt"`
	// Status is the current shipment state.
	Status Status `json:"status"`
	// Origin is where the package ships from.
	Origin string `json:"origin"`
	// Destination is where the package ships to.
	Destination string `json:"destination"`
	// RecipientName is the person receiving the package.
	RecipientName string `json:"recipientName,omitempty"`
	// RecipientAddress is the delivery address.
	RecipientAddress string `json:"recipientAddress,omitempty"`
	// ShipmentDate is the ship date as YYYY-MM-DD.
	ShipmentDate string `json:"shipmentDate,omitempty"`
	// OnHold mirrors Status == StatusOnHold.
	OnHold bool `json:"onHold,omitempty"`
	// OnHoldReason explains why the shipment is on hold.
	OnHoldReason string `json:"onHoldReason,omitempty"`
}

// Patch is a partial Order. Nil fields are left untouched by Apply.
type Patch struct {
	CustomerName     *string `json:"customerName,omitempty"`
	Status           *Status `json:"status,omitempty"`
	Origin           *string `json:"origin,omitempty"`
	Destination      *string `json:"destination,omitempty"`
	RecipientName    *string `json:"recipientName,omitempty"`
	RecipientAddress *string `json:"recipientAddress,omitempty"`
	ShipmentDate     *string `json:"shipmentDate,omitempty"`
	OnHold           *bool   `json:"onHold,omitempty"`
	OnHoldReason     *string `json:"onHoldReason,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Apply returns a copy of o with the patch merged in.
// Whenever the patch sets a status, OnHold is re-derived from it and leaving
// on hold clears the reason.
func (o Order) Apply(p Patch) Order {
	if p.CustomerName != nil {
		o.CustomerName = *p.CustomerName
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.Origin != nil {
		o.Origin = *p.Origin
	}
	if p.Destination != nil {
		o.Destination = *p.Destination
	}
	if p.RecipientName != nil {
		o.RecipientName = *p.RecipientName
	}
	if p.RecipientAddress != nil {
		o.RecipientAddress = *p.RecipientAddress
	}
	if p.ShipmentDate != nil {
		o.ShipmentDate = *p.ShipmentDate
	}
	if p.OnHold != nil {
		o.OnHold = *p.OnHold
	}
	if p.OnHoldReason != nil {
		o.OnHoldReason = *p.OnHoldReason
	}

	if p.Status != nil {
		o.OnHold = o.Status == StatusOnHold
		if !o.OnHold {
			o.OnHoldReason = ""
		}
	}

	return o
}

// NormalizeTrackingID trims surrounding whitespace and upper-cases id so that
// lookups ignore case and padding.
func NormalizeTrackingID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// MatchesTrackingID reports whether the order's tracking id equals id after
// normalizing both.
func (o Order) MatchesTrackingID(id string) bool {
	return NormalizeTrackingID(o.TrackingID) == NormalizeTrackingID(id)
}
