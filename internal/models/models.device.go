// FilePath: internal/models/models.device.go
package models

import "strings"

// Device represents a tracked vehicle or asset in the fleet.
type Device struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	SerialNumber string  `json:"serialNumber,omitempty"`
	Make         string  `json:"make,omitempty"`
	Model        string  `json:"model,omitempty"`
	Year         int     `json:"year,omitempty"`
	Odometer     float64 `json:"odometer,omitempty"` // km, last value reported by the device record itself
}

// Driver is a driver-flagged user. Loads keep the full driver list
// around as a lookup table for enriching exceptions and fill-ups.
type Driver struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// DisplayName returns "First Last" with missing parts dropped.
func (d Driver) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(d.FirstName) + " " + strings.TrimSpace(d.LastName))
}

// Rule is an exception rule definition (speeding, harsh braking, ...).
type Rule struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnknownRuleName is the group every exception whose rule cannot be
// resolved falls into.
const UnknownRuleName = "Unknown Rule"
