package delivery

import (
	"context"
)

// BatchResult is what the send shipments workflow reports back to an operator
type BatchResult struct {
	BatchID    string   `json:"batchId"`
	References []string `json:"references"` // codes of shipments that got a tracking reference
	Labels     []string `json:"labels"`     // paths of generated label files
	Errors     []string `json:"errors"`     // human-readable problems, one per issue
}

// OK reports whether the batch finished without any problem
func (r *BatchResult) OK() bool {
	return len(r.Errors) == 0
}

// Sender defines the contract for a carrier API method.
// The generic send shipments workflow picks the sender by the carrier's method.
type Sender interface {
	// Method returns the carrier API method served (e.g., "mondialrelay")
	Method() string

	// Name returns the human-readable name of the carrier
	Name() string

	// SendShipments creates carrier shipments for the pickings, in order, in one batch
	SendShipments(ctx context.Context, carrierID int64, pickingIDs []int64) (*BatchResult, error)

	// PrintLabels returns label files for pickings already sent
	PrintLabels(ctx context.Context, carrierID int64, pickingIDs []int64) ([]string, error)

	// TestConnection checks the carrier account configuration
	TestConnection(ctx context.Context, carrierID int64) error
}
