package shipping

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xelth-com/eckwms-mondialrelay/internal/delivery"
	"github.com/xelth-com/eckwms-mondialrelay/internal/delivery/mondialrelay"
	"github.com/xelth-com/eckwms-mondialrelay/internal/models"
)

// MondialRelaySender serves carriers whose method is "mondialrelay"
type MondialRelaySender struct {
	store      *Store
	dispatcher *mondialrelay.Dispatcher
	logger     *zap.Logger
}

// NewMondialRelaySender wires the dispatcher to the store, which also receives sent shipments
func NewMondialRelaySender(store *Store, client mondialrelay.Client, sink mondialrelay.LabelSink, logger *zap.Logger) *MondialRelaySender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MondialRelaySender{
		store:      store,
		dispatcher: mondialrelay.NewDispatcher(client, store, sink, logger.Named("dispatch")),
		logger:     logger,
	}
}

// Method returns the carrier API method
func (m *MondialRelaySender) Method() string { return mondialrelay.Method }

// Name returns the carrier display name
func (m *MondialRelaySender) Name() string { return "Mondial Relay" }

// SendShipments dispatches the pickings as one batch through the carrier's profile
func (m *MondialRelaySender) SendShipments(ctx context.Context, carrierID int64, pickingIDs []int64) (*delivery.BatchResult, error) {
	carrier, record, err := m.store.LoadProfile(ctx, carrierID)
	if err != nil {
		return nil, err
	}
	profile := ProfileFromModel(record)

	shipments, err := m.store.LoadShipments(ctx, carrier, pickingIDs)
	if err != nil {
		return nil, err
	}

	result, err := m.dispatcher.Dispatch(ctx, profile, shipments)
	if err != nil {
		return nil, fmt.Errorf("carrier %s: %w", carrier.Name, err)
	}

	m.store.recordOutcome(ctx, result.BatchID, shipments, result)

	return &delivery.BatchResult{
		BatchID:    result.BatchID,
		References: result.References,
		Labels:     result.Labels,
		Errors:     result.Messages(),
	}, nil
}

// PrintLabels returns labels of shipments already sent; the carrier keeps none to download
func (m *MondialRelaySender) PrintLabels(ctx context.Context, carrierID int64, pickingIDs []int64) ([]string, error) {
	carrier, record, err := m.store.LoadProfile(ctx, carrierID)
	if err != nil {
		return nil, err
	}
	shipments, err := m.store.LoadShipments(ctx, carrier, pickingIDs)
	if err != nil {
		return nil, err
	}
	return m.dispatcher.FetchExistingLabels(ctx, ProfileFromModel(record), shipments)
}

// TestConnection reports that the carrier offers no connection check
func (m *MondialRelaySender) TestConnection(ctx context.Context, carrierID int64) error {
	_, record, err := m.store.LoadProfile(ctx, carrierID)
	if err != nil {
		return err
	}
	return ProfileFromModel(record).TestConnection()
}

// SaveProfile validates and stores the Mondial Relay settings of a carrier
func (m *MondialRelaySender) SaveProfile(ctx context.Context, record *models.MondialRelayProfile) error {
	if err := ProfileFromModel(record).Validate(); err != nil {
		return err
	}
	if err := m.store.SaveProfile(ctx, record); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	m.logger.Info("MondialRelay profile saved", zap.Int64("carrier", record.CarrierID))
	return nil
}

// SetPickupPoint assigns the relay point of a delivery address
func (m *MondialRelaySender) SetPickupPoint(ctx context.Context, partnerID int64, pickupPoint string) error {
	return m.store.SetPickupPoint(ctx, partnerID, pickupPoint)
}

// SetContentDescription overrides the parcel content of one picking
func (m *MondialRelaySender) SetContentDescription(ctx context.Context, pickingID int64, content string) error {
	return m.store.SetContentDescription(ctx, pickingID, content)
}
