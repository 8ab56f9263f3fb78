package models

import (
	"time"

	"gorm.io/datatypes"
)

// DeliveryCarrier is the generic carrier API record.
// This is analogous to Odoo's delivery.carrier model; Method selects the integration.
type DeliveryCarrier struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"not null" json:"name"`         // e.g., "Mondial Relay Point Relais"
	Method         string    `gorm:"index;not null" json:"method"` // e.g., "mondialrelay"
	DefaultService string    `json:"defaultService"`               // carrier's own service code, e.g. "24R"
	Active         bool      `gorm:"default:true" json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (DeliveryCarrier) TableName() string { return "delivery_carrier" }

// StockPickingDelivery extends stock_picking with carrier dispatch data
type StockPickingDelivery struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	PickingID int64  `gorm:"uniqueIndex;not null" json:"pickingId"`
	CarrierID *int64 `gorm:"index" json:"carrierId"`

	// Shipment-level service override, replaced by the service actually used once sent
	CarrierService      string  `json:"carrierService"`
	CashOnDelivery      bool    `json:"cashOnDelivery"`
	CashOnDeliveryPrice float64 `json:"cashOnDeliveryPrice"`
	NumberOfPackages    int     `gorm:"default:1" json:"numberOfPackages"`
	CarrierNotes        string  `gorm:"type:text" json:"carrierNotes"`

	TrackingNumber  string     `gorm:"index" json:"trackingNumber"`
	CarrierDelivery bool       `json:"carrierDelivery"` // carrier accepted the shipment
	CarrierPrinted  bool       `json:"carrierPrinted"`  // label generated
	SendDate        *time.Time `json:"sendDate"`
	SendEmployeeID  *string    `gorm:"type:uuid" json:"sendEmployeeId"`

	Status       string    `gorm:"index;default:draft" json:"status"` // draft, pending, shipped, error
	ErrorMessage string    `gorm:"type:text" json:"errorMessage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Relations
	Picking *StockPicking    `gorm:"foreignKey:PickingID" json:"picking,omitempty"`
	Carrier *DeliveryCarrier `gorm:"foreignKey:CarrierID" json:"carrier,omitempty"`
}

func (StockPickingDelivery) TableName() string { return "stock_picking_delivery" }

// Delivery status constants
const (
	DeliveryStatusDraft   = "draft"   // Not yet processed
	DeliveryStatusPending = "pending" // Queued for the dispatch worker
	DeliveryStatusShipped = "shipped" // Carrier assigned a tracking reference
	DeliveryStatusError   = "error"   // Last dispatch attempt failed, can be retried
)

// DeliveryTracking stores the dispatch history of a shipment
type DeliveryTracking struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PickingDeliveryID int64     `gorm:"index;not null" json:"pickingDeliveryId"`
	BatchID           string    `gorm:"type:varchar(36);index" json:"batchId"`
	Timestamp         time.Time `gorm:"not null" json:"timestamp"`
	Status            string    `gorm:"not null" json:"status"`
	Description       string    `gorm:"type:text" json:"description"`
	// Errors keeps the structured shipment errors of the attempt: kind, shipment, address, detail
	Errors    datatypes.JSON `gorm:"type:jsonb" json:"errors,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (DeliveryTracking) TableName() string { return "delivery_tracking" }
