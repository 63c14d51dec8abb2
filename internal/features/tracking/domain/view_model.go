package domain

import (
	"time"

	orderdomain "apex-tracker/internal/features/orders/domain"
)

// TrackingViewModel is the customer-facing projection of an order.
type TrackingViewModel struct {
	TrackingID        string          `json:"trackingId"`
	Status            StatusInfo      `json:"status"`
	EstimatedDelivery string          `json:"estimatedDelivery"`
	Origin            string          `json:"origin"`
	Destination       string          `json:"destination"`
	Events            []TrackingEvent `json:"events"`
	Sender            Sender          `json:"sender"`
	Service           string          `json:"service"`
	Recipient         Recipient       `json:"recipient"`
	ShipmentDate      string          `json:"shipmentDate"`
	OnHold            bool            `json:"onHold"`
	OnHoldReason      string          `json:"onHoldReason,omitempty"`
	Timeline          []TimelineStep  `json:"timeline"`
	// Progress is the completion percentage shown on the progress bar.
	Progress int `json:"progress"`
}

// StatusInfo describes the current status.
type StatusInfo struct {
	Status orderdomain.Status `json:"status"`
	// Label is the human readable status.
	Label string `json:"label"`
	// Date is the order creation date, e.g. "October 15, 2026".
	Date string `json:"date"`
}

// TrackingEvent is one synthesized entry of the shipment history.
type TrackingEvent struct {
	Date        string             `json:"date"`
	Time        string             `json:"time"`
	Location    string             `json:"location"`
	Description string             `json:"description"`
	Status      orderdomain.Status `json:"status"`
	Timestamp   time.Time          `json:"timestamp"`

	// step orders events sharing a timestamp.
	step int
}

// Sender identifies the shipping company.
type Sender struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// Recipient is who the package is addressed to.
type Recipient struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// TimelineStep is one node of the four-step progress timeline.
type TimelineStep struct {
	Status    orderdomain.Status `json:"status"`
	Label     string             `json:"label"`
	Completed bool               `json:"completed"`
	Active    bool               `json:"active"`
}
