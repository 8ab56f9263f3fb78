package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xelth-com/eckwms-mondialrelay/internal/database"
	"github.com/xelth-com/eckwms-mondialrelay/internal/delivery/mondialrelay"
	"github.com/xelth-com/eckwms-mondialrelay/internal/models"
)

// TrackingPublisher pushes tracking references back to the ERP
type TrackingPublisher interface {
	PublishTracking(ctx context.Context, pickingID int64, reference string) error
}

// Store reads shipments from the local mirror and persists dispatch outcomes
type Store struct {
	db        *database.DB
	publisher TrackingPublisher
	logger    *zap.Logger
}

// NewStore creates a store; publisher may be nil when no ERP is configured
func NewStore(db *database.DB, publisher TrackingPublisher, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, publisher: publisher, logger: logger}
}

// MarkSent records the tracking reference and send stamps on the picking's delivery row
func (s *Store) MarkSent(ctx context.Context, shipment *mondialrelay.Shipment, sent mondialrelay.Sent) error {
	sendDate := sent.SendDate.UTC()
	updates := map[string]interface{}{
		"tracking_number":  sent.TrackingReference,
		"carrier_service":  sent.Service,
		"carrier_delivery": sent.Delivery,
		"carrier_printed":  sent.Printed,
		"send_date":        &sendDate,
		"send_employee_id": sent.SendEmployee,
		"status":           models.DeliveryStatusShipped,
		"error_message":    "",
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := deliveryRecord(tx, shipment.ID)
		if err != nil {
			return err
		}
		return tx.Model(record).Updates(updates).Error
	})
	if err != nil {
		return fmt.Errorf("failed to update delivery of %s: %w", shipment.Code, err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishTracking(ctx, shipment.ID, sent.TrackingReference); err != nil {
			s.logger.Warn("Failed to publish tracking reference",
				zap.String("shipment", shipment.Code), zap.Error(err))
		}
	}
	return nil
}

// deliveryRecord returns the delivery row of a picking, creating it when missing
func deliveryRecord(tx *gorm.DB, pickingID int64) (*models.StockPickingDelivery, error) {
	record := models.StockPickingDelivery{PickingID: pickingID, Status: models.DeliveryStatusDraft, NumberOfPackages: 1}
	if err := tx.Where("picking_id = ?", pickingID).FirstOrCreate(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// LoadShipments builds dispatch shipments for the pickings, keeping the input order
func (s *Store) LoadShipments(ctx context.Context, carrier *models.DeliveryCarrier, pickingIDs []int64) ([]*mondialrelay.Shipment, error) {
	if len(pickingIDs) == 0 {
		return []*mondialrelay.Shipment{}, nil
	}
	db := s.db.WithContext(ctx)

	var pickings []models.StockPicking
	if err := db.
		Preload("Partner.Country").
		Preload("Partner.Parent.Country").
		Preload("Company.Partner.Country").
		Preload("Warehouse.Partner.Country").
		Where("id IN ?", pickingIDs).
		Find(&pickings).Error; err != nil {
		return nil, fmt.Errorf("failed to load pickings: %w", err)
	}
	byID := make(map[int64]*models.StockPicking, len(pickings))
	for i := range pickings {
		byID[pickings[i].ID] = &pickings[i]
	}

	var deliveries []models.StockPickingDelivery
	if err := db.Where("picking_id IN ?", pickingIDs).Find(&deliveries).Error; err != nil {
		return nil, fmt.Errorf("failed to load deliveries: %w", err)
	}
	deliveryByPicking := make(map[int64]*models.StockPickingDelivery, len(deliveries))
	for i := range deliveries {
		deliveryByPicking[deliveries[i].PickingID] = &deliveries[i]
	}

	var contents []models.PickingMondialRelay
	if err := db.Where("picking_id IN ?", pickingIDs).Find(&contents).Error; err != nil {
		return nil, fmt.Errorf("failed to load content descriptions: %w", err)
	}
	contentByPicking := make(map[int64]string, len(contents))
	for _, c := range contents {
		contentByPicking[c.PickingID] = c.ContentDescription
	}

	var partnerIDs []int64
	for _, p := range pickings {
		if p.PartnerID != nil {
			partnerIDs = append(partnerIDs, *p.PartnerID)
		}
	}
	pickupPoints := map[int64]string{}
	if len(partnerIDs) > 0 {
		var points []models.PartnerPickupPoint
		if err := db.Where("partner_id IN ?", partnerIDs).Find(&points).Error; err != nil {
			return nil, fmt.Errorf("failed to load pickup points: %w", err)
		}
		for _, p := range points {
			pickupPoints[p.PartnerID] = p.PickupPoint
		}
	}

	shipments := make([]*mondialrelay.Shipment, 0, len(pickingIDs))
	for _, id := range pickingIDs {
		picking, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("picking %d not found", id)
		}
		shipments = append(shipments, toShipment(shipmentRecord{
			Picking:      picking,
			Delivery:     deliveryByPicking[id],
			Carrier:      carrier,
			PickupPoints: pickupPoints,
			Content:      contentByPicking[id],
		}))
	}
	return shipments, nil
}

// LoadProfile returns the carrier and its Mondial Relay extension
func (s *Store) LoadProfile(ctx context.Context, carrierID int64) (*models.DeliveryCarrier, *models.MondialRelayProfile, error) {
	var profile models.MondialRelayProfile
	if err := s.db.WithContext(ctx).Preload("Carrier").Where("carrier_id = ?", carrierID).First(&profile).Error; err != nil {
		return nil, nil, fmt.Errorf("mondialrelay profile of carrier %d not found: %w", carrierID, err)
	}
	if profile.Carrier == nil {
		return nil, nil, fmt.Errorf("carrier %d not found", carrierID)
	}
	return profile.Carrier, &profile, nil
}

// SaveProfile creates or replaces the extension of a carrier
func (s *Store) SaveProfile(ctx context.Context, profile *models.MondialRelayProfile) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "carrier_id"}},
		UpdateAll: true,
	}).Create(profile).Error
}

// SetPickupPoint stores the relay point an address is delivered to
func (s *Store) SetPickupPoint(ctx context.Context, partnerID int64, pickupPoint string) error {
	point := models.PartnerPickupPoint{PartnerID: partnerID, PickupPoint: pickupPoint}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "partner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"mondialrelay", "updated_at"}),
	}).Create(&point).Error
}

// SetContentDescription stores the parcel content override of a picking
func (s *Store) SetContentDescription(ctx context.Context, pickingID int64, content string) error {
	row := models.PickingMondialRelay{PickingID: pickingID, ContentDescription: content}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "picking_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"content_description"}),
	}).Create(&row).Error
}

// recordOutcome stores the batch result on each picking's delivery row and tracking history.
// Shipments marked sent already carry their status; failures flip the row to error.
func (s *Store) recordOutcome(ctx context.Context, batchID string, shipments []*mondialrelay.Shipment, result *mondialrelay.Result) {
	errorsByShipment := map[string][]*mondialrelay.ShipmentError{}
	for _, e := range result.Errors {
		errorsByShipment[e.Shipment] = append(errorsByShipment[e.Shipment], e)
	}
	sent := map[string]bool{}
	for _, code := range result.References {
		sent[code] = true
	}

	now := time.Now().UTC()
	for _, shipment := range shipments {
		if shipment == nil {
			continue
		}
		shipmentErrors := errorsByShipment[shipment.DisplayName()]
		messages := make([]string, 0, len(shipmentErrors))
		for _, e := range shipmentErrors {
			messages = append(messages, e.Message())
		}
		var payload datatypes.JSON
		if len(shipmentErrors) > 0 {
			payload, _ = json.Marshal(shipmentErrors)
		}

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			record, err := deliveryRecord(tx, shipment.ID)
			if err != nil {
				return err
			}

			status := models.DeliveryStatusShipped
			description := "Shipment sent"
			if !sent[shipment.Code] || hasKind(shipmentErrors, mondialrelay.KindPersist) {
				status = models.DeliveryStatusError
				description = joinMessages(messages, "Shipment not sent")
				if err := tx.Model(record).Updates(map[string]interface{}{
					"status":        status,
					"error_message": description,
				}).Error; err != nil {
					return err
				}
			} else if len(messages) > 0 {
				description = joinMessages(messages, description)
			}

			return tx.Create(&models.DeliveryTracking{
				PickingDeliveryID: record.ID,
				BatchID:           batchID,
				Timestamp:         now,
				Status:            status,
				Description:       description,
				Errors:            payload,
			}).Error
		})
		if err != nil {
			s.logger.Error("Failed to record dispatch outcome",
				zap.String("shipment", shipment.Code), zap.Error(err))
		}
	}
}

func hasKind(errs []*mondialrelay.ShipmentError, kind mondialrelay.ErrorKind) bool {
	for _, e := range errs {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func joinMessages(messages []string, fallback string) string {
	if len(messages) == 0 {
		return fallback
	}
	return strings.Join(messages, "\n")
}
