package domain

import (
	"fmt"
	"strings"
	"time"

	"apex-tracker/internal/core/validation"

	"github.com/jinzhu/now"
)

// ShipmentDateLayout is the stored format of Order.ShipmentDate.
const ShipmentDateLayout = "2006-01-02"

// ValidationError carries one message per invalid field, keyed by JSON name.
type ValidationError = validation.ValidationError

// CreateOrderRequest is the admin create-order form.
type CreateOrderRequest struct {
	CustomerName     string `json:"customerName" validate:"required"`
	Origin           string `json:"origin" validate:"required"`
	Destination      string `json:"destination" validate:"required"`
	RecipientName    string `json:"recipientName"`
	RecipientAddress string `json:"recipientAddress"`
	ShipmentDate     string `json:"shipmentDate"`
}

// Validate checks required fields and the optional shipment date.
func (r *CreateOrderRequest) Validate() error {
	fields := validation.Fields(r)
	if _, err := ParseShipmentDate(r.ShipmentDate); err != nil {
		fields["shipmentDate"] = "must be a date such as 2006-01-02"
	}
	return validation.Result(fields)
}

// StatusUpdateRequest is the admin update-status form.
type StatusUpdateRequest struct {
	Status       Status `json:"status" validate:"required,oneof=ordered processing intransit delivered onhold"`
	Location     string `json:"location" validate:"required,min=2"`
	Description  string `json:"description" validate:"required,min=5"`
	OnHoldReason string `json:"onHoldReason" validate:"required_if=Status onhold"`
	ShipmentDate string `json:"shipmentDate"`
}

// Validate checks the form the same way the admin dialog does.
func (r *StatusUpdateRequest) Validate() error {
	fields := validation.Fields(r)
	if _, err := ParseShipmentDate(r.ShipmentDate); err != nil {
		fields["shipmentDate"] = "must be a date such as 2006-01-02"
	}
	return validation.Result(fields)
}

// Patch converts a validated form into the order patch it implies.
func (r *StatusUpdateRequest) Patch() Patch {
	status := r.Status
	onHold := status == StatusOnHold
	reason := ""
	if onHold {
		reason = strings.TrimSpace(r.OnHoldReason)
	}

	p := Patch{
		Status:       &status,
		OnHold:       &onHold,
		OnHoldReason: &reason,
	}

	if date, _ := ParseShipmentDate(r.ShipmentDate); date != "" {
		p.ShipmentDate = &date
	}

	return p
}

// ValidatePatch rejects patches that would store an unknown status.
func ValidatePatch(p Patch) error {
	if p.Status != nil && !p.Status.Valid() {
		return &ValidationError{Fields: map[string]string{
			"status": "must be one of: ordered processing intransit delivered onhold",
		}}
	}
	if p.ShipmentDate != nil && *p.ShipmentDate != "" {
		if _, err := time.Parse(ShipmentDateLayout, *p.ShipmentDate); err != nil {
			return &ValidationError{Fields: map[string]string{
				"shipmentDate": "must be formatted as 2006-01-02",
			}}
		}
	}
	return nil
}

// ParseShipmentDate accepts loosely formatted dates ("2026-10-15",
// "2026-10-15 14:00", ...) and returns them as YYYY-MM-DD. Blank input yields "".
func ParseShipmentDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format(ShipmentDateLayout), nil
	}
	t, err := now.ParseInLocation(time.UTC, raw)
	if err != nil {
		return "", fmt.Errorf("invalid shipment date %q: %w", raw, err)
	}
	return t.Format(ShipmentDateLayout), nil
}
