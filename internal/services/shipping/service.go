package shipping

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xelth-com/eckwms-mondialrelay/internal/database"
	"github.com/xelth-com/eckwms-mondialrelay/internal/delivery"
	"github.com/xelth-com/eckwms-mondialrelay/internal/models"
)

// ErrCarrierInactive is returned when dispatching through a disabled carrier
var ErrCarrierInactive = errors.New("carrier is inactive")

// ErrAlreadyShipped is returned for pickings that already carry a tracking reference
var ErrAlreadyShipped = errors.New("picking was already shipped")

// Service handles the carrier-independent send shipments workflow
type Service struct {
	db       *database.DB
	registry *delivery.Registry
	logger   *zap.Logger
}

// NewService creates a new shipping service
func NewService(db *database.DB, registry *delivery.Registry, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:       db,
		registry: registry,
		logger:   logger,
	}
}

// Methods lists the carrier API methods available for carriers
func (s *Service) Methods() []string {
	return s.registry.Methods()
}

func (s *Service) senderFor(ctx context.Context, carrierID int64) (*models.DeliveryCarrier, delivery.Sender, error) {
	var carrier models.DeliveryCarrier
	if err := s.db.WithContext(ctx).First(&carrier, carrierID).Error; err != nil {
		return nil, nil, fmt.Errorf("carrier not found: %w", err)
	}
	if !carrier.Active {
		return nil, nil, fmt.Errorf("%w: %s", ErrCarrierInactive, carrier.Name)
	}
	sender, err := s.registry.Get(carrier.Method)
	if err != nil {
		return nil, nil, err
	}
	return &carrier, sender, nil
}

// QueueShipments assigns the carrier to the pickings and marks them pending for the worker
func (s *Service) QueueShipments(ctx context.Context, carrierID int64, pickingIDs []int64) error {
	if _, _, err := s.senderFor(ctx, carrierID); err != nil {
		return err
	}

	pickingIDs = uniqueIDs(pickingIDs)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, pickingID := range pickingIDs {
			var picking models.StockPicking
			if err := tx.First(&picking, pickingID).Error; err != nil {
				return fmt.Errorf("picking %d not found: %w", pickingID, err)
			}

			record, err := deliveryRecord(tx, pickingID)
			if err != nil {
				return fmt.Errorf("failed to create delivery record: %w", err)
			}
			if record.Status == models.DeliveryStatusShipped {
				return fmt.Errorf("%w: %s", ErrAlreadyShipped, picking.Name)
			}

			if err := tx.Model(record).Updates(map[string]interface{}{
				"carrier_id":    carrierID,
				"status":        models.DeliveryStatusPending,
				"error_message": "",
			}).Error; err != nil {
				return fmt.Errorf("failed to update delivery status: %w", err)
			}
		}
		return nil
	})
}

// SendShipments sends the pickings right away through the carrier's method
func (s *Service) SendShipments(ctx context.Context, carrierID int64, pickingIDs []int64) (*delivery.BatchResult, error) {
	carrier, sender, err := s.senderFor(ctx, carrierID)
	if err != nil {
		return nil, err
	}

	pickingIDs = uniqueIDs(pickingIDs)
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, pickingID := range pickingIDs {
			record, err := deliveryRecord(tx, pickingID)
			if err != nil {
				return err
			}
			if record.Status == models.DeliveryStatusShipped {
				return fmt.Errorf("%w: picking %d has tracking reference %s", ErrAlreadyShipped, pickingID, record.TrackingNumber)
			}
			if record.CarrierID == nil || *record.CarrierID != carrierID {
				if err := tx.Model(record).Update("carrier_id", carrierID).Error; err != nil {
					return err
				}
			}
		}
		return nil
	}); err != nil {
		if errors.Is(err, ErrAlreadyShipped) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to assign carrier: %w", err)
	}

	result, err := sender.SendShipments(ctx, carrierID, pickingIDs)
	if err != nil {
		s.logger.Error("Send shipments failed", zap.String("carrier", carrier.Name), zap.Error(err))
		return nil, err
	}
	return result, nil
}

// PrintLabels returns labels of already sent pickings
func (s *Service) PrintLabels(ctx context.Context, carrierID int64, pickingIDs []int64) ([]string, error) {
	_, sender, err := s.senderFor(ctx, carrierID)
	if err != nil {
		return nil, err
	}
	return sender.PrintLabels(ctx, carrierID, pickingIDs)
}

// TestConnection checks the carrier configuration through its method
func (s *Service) TestConnection(ctx context.Context, carrierID int64) error {
	_, sender, err := s.senderFor(ctx, carrierID)
	if err != nil {
		return err
	}
	return sender.TestConnection(ctx, carrierID)
}

// ProcessPendingShipments sends queued pickings, one batch per carrier.
// This is called by the background worker.
func (s *Service) ProcessPendingShipments(ctx context.Context) error {
	var pending []models.StockPickingDelivery
	if err := s.db.WithContext(ctx).
		Where("status = ? AND carrier_id IS NOT NULL", models.DeliveryStatusPending).
		Order("id ASC").
		Find(&pending).Error; err != nil {
		return fmt.Errorf("failed to fetch pending deliveries: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	batches := groupByCarrier(pending)
	carrierIDs := make([]int64, 0, len(batches))
	for id := range batches {
		carrierIDs = append(carrierIDs, id)
	}
	sort.Slice(carrierIDs, func(i, j int) bool { return carrierIDs[i] < carrierIDs[j] })

	for _, carrierID := range carrierIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		pickingIDs := batches[carrierID]
		result, err := s.SendShipments(ctx, carrierID, pickingIDs)
		if err != nil {
			// Batch-level failure: keep going with the other carriers
			s.markBatchError(ctx, pickingIDs, err)
			continue
		}
		s.logger.Info("Pending shipments processed",
			zap.Int64("carrier", carrierID),
			zap.String("batch", result.BatchID),
			zap.Int("sent", len(result.References)),
			zap.Int("errors", len(result.Errors)))
	}
	return nil
}

// groupByCarrier buckets picking ids by carrier, keeping queue order inside a bucket
func groupByCarrier(records []models.StockPickingDelivery) map[int64][]int64 {
	batches := map[int64][]int64{}
	for _, r := range records {
		if r.CarrierID == nil {
			continue
		}
		batches[*r.CarrierID] = append(batches[*r.CarrierID], r.PickingID)
	}
	return batches
}

func (s *Service) markBatchError(ctx context.Context, pickingIDs []int64, cause error) {
	err := s.db.WithContext(ctx).
		Model(&models.StockPickingDelivery{}).
		Where("picking_id IN ?", pickingIDs).
		Updates(map[string]interface{}{
			"status":        models.DeliveryStatusError,
			"error_message": cause.Error(),
		}).Error
	if err != nil {
		s.logger.Error("Failed to mark shipments as error", zap.Error(err))
	}
}

// GetDeliveryStatus retrieves the delivery status for a picking
func (s *Service) GetDeliveryStatus(ctx context.Context, pickingID int64) (*models.StockPickingDelivery, error) {
	var record models.StockPickingDelivery
	if err := s.db.WithContext(ctx).
		Preload("Carrier").
		Preload("Picking").
		Where("picking_id = ?", pickingID).
		First(&record).Error; err != nil {
		return nil, fmt.Errorf("delivery record not found: %w", err)
	}
	return &record, nil
}

// GetTrackingHistory retrieves the dispatch history of a delivery
func (s *Service) GetTrackingHistory(ctx context.Context, pickingDeliveryID int64) ([]models.DeliveryTracking, error) {
	var tracking []models.DeliveryTracking
	if err := s.db.WithContext(ctx).
		Where("picking_delivery_id = ?", pickingDeliveryID).
		Order("timestamp DESC").
		Find(&tracking).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tracking history: %w", err)
	}
	return tracking, nil
}

// ListShipments returns shipments with optional status filter
func (s *Service) ListShipments(ctx context.Context, status string, limit int) ([]models.StockPickingDelivery, error) {
	var shipments []models.StockPickingDelivery

	query := s.db.WithContext(ctx).Preload("Picking").Preload("Carrier")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit <= 0 {
		limit = 100
	}
	if err := query.Order("created_at DESC").Limit(limit).Find(&shipments).Error; err != nil {
		return nil, err
	}
	return shipments, nil
}

// ListCarriers returns all delivery carriers
func (s *Service) ListCarriers(ctx context.Context) ([]models.DeliveryCarrier, error) {
	var carriers []models.DeliveryCarrier
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&carriers).Error; err != nil {
		return nil, err
	}
	return carriers, nil
}

// CreateCarrier creates a carrier served by a registered method
func (s *Service) CreateCarrier(ctx context.Context, name, method, defaultService string) (*models.DeliveryCarrier, error) {
	if !s.registry.Has(method) {
		return nil, fmt.Errorf("%w: %s", delivery.ErrUnknownMethod, method)
	}
	carrier := models.DeliveryCarrier{
		Name:           name,
		Method:         method,
		DefaultService: defaultService,
		Active:         true,
	}
	if err := s.db.WithContext(ctx).Create(&carrier).Error; err != nil {
		return nil, err
	}
	return &carrier, nil
}

// GetCarrier returns a carrier by ID
func (s *Service) GetCarrier(ctx context.Context, id int64) (*models.DeliveryCarrier, error) {
	var carrier models.DeliveryCarrier
	if err := s.db.WithContext(ctx).First(&carrier, id).Error; err != nil {
		return nil, err
	}
	return &carrier, nil
}

// ToggleCarrier toggles carrier active status
func (s *Service) ToggleCarrier(ctx context.Context, id int64) (*models.DeliveryCarrier, error) {
	carrier, err := s.GetCarrier(ctx, id)
	if err != nil {
		return nil, err
	}
	carrier.Active = !carrier.Active
	if err := s.db.WithContext(ctx).Model(carrier).Update("active", carrier.Active).Error; err != nil {
		return nil, err
	}
	return carrier, nil
}

// uniqueIDs drops repeated ids, keeping the first occurrence
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique
}
