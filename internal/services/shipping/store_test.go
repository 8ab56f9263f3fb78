package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xelth-com/eckwms-mondialrelay/internal/database"
	"github.com/xelth-com/eckwms-mondialrelay/internal/delivery/mondialrelay"
	"github.com/xelth-com/eckwms-mondialrelay/internal/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "shipping.db")), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(
		&models.ResCountry{},
		&models.ResPartner{},
		&models.ResCompany{},
		&models.StockWarehouse{},
		&models.StockPicking{},
		&models.DeliveryCarrier{},
		&models.StockPickingDelivery{},
		&models.DeliveryTracking{},
		&models.MondialRelayProfile{},
		&models.PartnerPickupPoint{},
		&models.PickingMondialRelay{},
	))
	return &database.DB{DB: gdb}
}

// seedPickings creates one French customer and a picking per name, ids from 101
func seedPickings(t *testing.T, db *database.DB, names ...string) []int64 {
	t.Helper()
	countryID := int64(1)
	partnerID := int64(10)
	require.NoError(t, db.Create(&models.ResCountry{ID: countryID, Name: "France", Code: "FR", PhoneCode: 33}).Error)
	require.NoError(t, db.Create(&models.ResPartner{
		ID: partnerID, Name: "Alice Martin", Street: "3 rue des Lilas", Zip: "75011",
		City: "Paris", CountryID: &countryID, Email: "alice@example.com",
	}).Error)

	ids := make([]int64, 0, len(names))
	for i, name := range names {
		id := int64(101 + i)
		require.NoError(t, db.Create(&models.StockPicking{
			ID: id, Name: name, State: "assigned", PartnerID: &partnerID,
			ShippingWeight: 1.5, WeightUomName: "kg", ScheduledDate: time.Now(),
		}).Error)
		ids = append(ids, id)
	}
	return ids
}

func deliveryOf(t *testing.T, db *database.DB, pickingID int64) models.StockPickingDelivery {
	t.Helper()
	var record models.StockPickingDelivery
	require.NoError(t, db.Where("picking_id = ?", pickingID).First(&record).Error)
	return record
}

type recordingPublisher struct {
	published map[int64]string
	err       error
}

func (p *recordingPublisher) PublishTracking(ctx context.Context, pickingID int64, reference string) error {
	if p.published == nil {
		p.published = map[int64]string{}
	}
	p.published[pickingID] = reference
	return p.err
}

func TestLoadShipmentsKeepsInputOrder(t *testing.T) {
	db := newTestDB(t)
	ids := seedPickings(t, db, "WH/OUT/0001", "WH/OUT/0002", "WH/OUT/0003")
	store := NewStore(db, nil, nil)
	ctx := context.Background()

	require.NoError(t, store.SetPickupPoint(ctx, 10, "FR-012345"))
	require.NoError(t, store.SetContentDescription(ctx, ids[1], "livres"))

	carrier := &models.DeliveryCarrier{ID: 1, Name: "Mondial Relay", Method: mondialrelay.Method, DefaultService: "24R"}
	shipments, err := store.LoadShipments(ctx, carrier, []int64{ids[2], ids[0], ids[1]})
	require.NoError(t, err)
	require.Len(t, shipments, 3)

	assert.Equal(t, "WH/OUT/0003", shipments[0].Code)
	assert.Equal(t, "WH/OUT/0001", shipments[1].Code)
	assert.Equal(t, "WH/OUT/0002", shipments[2].Code)

	assert.Equal(t, "24R", shipments[0].CarrierDefaultService)
	require.NotNil(t, shipments[0].DeliveryAddress)
	assert.Equal(t, "FR-012345", shipments[0].DeliveryAddress.PickupPoint)
	require.NotNil(t, shipments[0].DeliveryAddress.Country)
	assert.Equal(t, "FR", shipments[0].DeliveryAddress.Country.Code)
	assert.Equal(t, "livres", shipments[2].Relay.ContentDescription)
	assert.Empty(t, shipments[0].Relay.ContentDescription)
}

func TestLoadShipmentsMissingPicking(t *testing.T) {
	db := newTestDB(t)
	ids := seedPickings(t, db, "WH/OUT/0001")
	store := NewStore(db, nil, nil)

	_, err := store.LoadShipments(context.Background(), nil, []int64{ids[0], 999})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "picking 999 not found")

	shipments, err := store.LoadShipments(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, shipments)
}

func TestMarkSent(t *testing.T) {
	db := newTestDB(t)
	ids := seedPickings(t, db, "WH/OUT/0001")
	publisher := &recordingPublisher{err: errors.New("erp offline")}
	store := NewStore(db, publisher, nil)

	employee := "6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f"
	shipment := &mondialrelay.Shipment{ID: ids[0], Code: "WH/OUT/0001", Name: "WH/OUT/0001"}
	err := store.MarkSent(context.Background(), shipment, mondialrelay.Sent{
		TrackingReference: "31245678",
		Service:           "24R",
		Delivery:          true,
		Printed:           true,
		SendDate:          time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		SendEmployee:      &employee,
	})
	require.NoError(t, err, "publish failures are only logged")

	record := deliveryOf(t, db, ids[0])
	assert.Equal(t, models.DeliveryStatusShipped, record.Status)
	assert.Equal(t, "31245678", record.TrackingNumber)
	assert.Equal(t, "24R", record.CarrierService)
	assert.True(t, record.CarrierDelivery)
	assert.True(t, record.CarrierPrinted)
	require.NotNil(t, record.SendEmployeeID)
	assert.Equal(t, employee, *record.SendEmployeeID)
	require.NotNil(t, record.SendDate)
	assert.True(t, record.SendDate.Equal(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, record.NumberOfPackages)

	assert.Equal(t, map[int64]string{ids[0]: "31245678"}, publisher.published)
}

func TestRecordOutcome(t *testing.T) {
	db := newTestDB(t)
	names := []string{"WH/OUT/0001", "WH/OUT/0002", "WH/OUT/0003"}
	ids := seedPickings(t, db, names...)
	store := NewStore(db, nil, nil)
	ctx := context.Background()

	shipments := make([]*mondialrelay.Shipment, 0, len(ids))
	for i, id := range ids {
		shipments = append(shipments, &mondialrelay.Shipment{ID: id, Code: names[i], Name: names[i]})
	}
	require.NoError(t, store.MarkSent(ctx, shipments[0], mondialrelay.Sent{TrackingReference: "31245678", SendDate: time.Now()}))
	require.NoError(t, store.MarkSent(ctx, shipments[2], mondialrelay.Sent{TrackingReference: "31245679", SendDate: time.Now()}))

	result := &mondialrelay.Result{
		References: []string{"WH/OUT/0001", "WH/OUT/0003"},
		Errors: []*mondialrelay.ShipmentError{
			{Kind: mondialrelay.KindRemoteRejection, Shipment: "WH/OUT/0002", Detail: "Code postal invalide"},
			{Kind: mondialrelay.KindPersist, Shipment: "WH/OUT/0003", Detail: "reference 31245679: disk full"},
		},
	}
	store.recordOutcome(ctx, "batch-1", shipments, result)

	sent := deliveryOf(t, db, ids[0])
	assert.Equal(t, models.DeliveryStatusShipped, sent.Status)
	assert.Empty(t, sent.ErrorMessage)

	rejected := deliveryOf(t, db, ids[1])
	assert.Equal(t, models.DeliveryStatusError, rejected.Status)
	assert.Equal(t, "Not send shipment WH/OUT/0002. Code postal invalide", rejected.ErrorMessage)

	unsaved := deliveryOf(t, db, ids[2])
	assert.Equal(t, models.DeliveryStatusError, unsaved.Status)
	assert.Contains(t, unsaved.ErrorMessage, "31245679")

	var history []models.DeliveryTracking
	require.NoError(t, db.Where("picking_delivery_id = ?", rejected.ID).Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, "batch-1", history[0].BatchID)
	assert.Equal(t, models.DeliveryStatusError, history[0].Status)

	var stored []map[string]string
	require.NoError(t, json.Unmarshal(history[0].Errors, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "remote_rejection", stored[0]["kind"])
	assert.Equal(t, "WH/OUT/0002", stored[0]["shipment"])

	require.NoError(t, db.Where("picking_delivery_id = ?", sent.ID).Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, "Shipment sent", history[0].Description)
	assert.Empty(t, history[0].Errors)
}
