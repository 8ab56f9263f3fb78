package mondialrelay

import (
	"errors"
	"fmt"
)

// ErrSessionUnavailable wraps failures to open a carrier session; it aborts the whole batch
var ErrSessionUnavailable = errors.New("mondialrelay session unavailable")

// ErrorKind classifies a per-shipment dispatch problem
type ErrorKind int

const (
	// KindNoService: no delivery service on shipment, carrier or profile
	KindNoService ErrorKind = iota + 1
	// KindAddressIncomplete: delivery address lacks a country or pickup point
	KindAddressIncomplete
	// KindMissingLabel: the carrier returned no label bytes
	KindMissingLabel
	// KindRemoteRejection: the carrier returned an explicit error message
	KindRemoteRejection
	// KindFault: the client call failed or panicked
	KindFault
	// KindLabelWrite: label bytes could not be stored
	KindLabelWrite
	// KindPersist: the tracking reference could not be saved on the shipment
	KindPersist
)

var kindNames = map[ErrorKind]string{
	KindNoService:         "no_service",
	KindAddressIncomplete: "address_incomplete",
	KindMissingLabel:      "missing_label",
	KindRemoteRejection:   "remote_rejection",
	KindFault:             "fault",
	KindLabelWrite:        "label_write",
	KindPersist:           "persist",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// MarshalText lets the kind travel as its name in JSON responses
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ShipmentError is a recoverable problem with one shipment of a batch.
// Parameters stay structured; Message renders them for operators.
type ShipmentError struct {
	Kind     ErrorKind `json:"kind"`
	Shipment string    `json:"shipment"`
	Address  string    `json:"address,omitempty"`
	Detail   string    `json:"detail,omitempty"`
}

// Message renders the error for display
func (e *ShipmentError) Message() string {
	switch e.Kind {
	case KindNoService:
		return "Select a service or default service in MondialRelay API"
	case KindAddressIncomplete:
		return fmt.Sprintf("Delivery address %q has not a country or MondialRelay location.", e.Address)
	case KindMissingLabel:
		return fmt.Sprintf("Not available %q label from MondialRelay", e.Shipment)
	case KindRemoteRejection:
		return fmt.Sprintf("Not send shipment %s. %s", e.Shipment, e.Detail)
	case KindFault:
		return fmt.Sprintf("Not send shipment %s. Unexpected error: %s", e.Shipment, e.Detail)
	case KindLabelWrite:
		return fmt.Sprintf("Label of shipment %s could not be stored: %s", e.Shipment, e.Detail)
	case KindPersist:
		return fmt.Sprintf("Shipment %s was sent but could not be updated: %s", e.Shipment, e.Detail)
	default:
		return fmt.Sprintf("Shipment %s: %s", e.Shipment, e.Detail)
	}
}

func (e *ShipmentError) Error() string {
	return e.Message()
}
