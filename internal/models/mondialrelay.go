package models

import "time"

// MondialRelayProfile extends a delivery_carrier with Mondial Relay account settings
type MondialRelayProfile struct {
	ID                 int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CarrierID          int64  `gorm:"uniqueIndex;not null" json:"carrierId"`
	Username           string `gorm:"not null" json:"username"`
	Password           string `gorm:"not null" json:"-"`
	CustomerID         string `gorm:"not null" json:"customerId"`
	Version            string `gorm:"default:'2.0'" json:"version"`
	Culture            string `gorm:"default:'fr-FR'" json:"culture"`
	LabelFormat        string `gorm:"default:'PdfUrl'" json:"labelFormat"`
	PDFFormat          string `gorm:"column:pdf_format" json:"pdfFormat"`
	ContentDescription string `json:"contentDescription"` // e.g. "livres"

	IncludeWeight bool   `json:"includeWeight"`
	WeightAPIUnit string `gorm:"column:weight_api_unit" json:"weightApiUnit"`
	WeightUnit    string `json:"weightUnit"`

	TimeoutSeconds  int    `gorm:"default:30" json:"timeoutSeconds"`
	Debug           bool   `json:"debug"`
	ReferenceOrigin bool   `json:"referenceOrigin"`
	DefaultService  string `json:"defaultService"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Carrier *DeliveryCarrier `gorm:"foreignKey:CarrierID" json:"carrier,omitempty"`
}

func (MondialRelayProfile) TableName() string { return "delivery_carrier_mondialrelay" }

// PartnerPickupPoint extends an address (res_partner) with its relay point code
type PartnerPickupPoint struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PartnerID   int64     `gorm:"uniqueIndex;not null" json:"partnerId"`
	PickupPoint string    `gorm:"column:mondialrelay;size:32" json:"pickupPoint"` // office code the parcel is delivered to
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (PartnerPickupPoint) TableName() string { return "res_partner_mondialrelay" }

// PickingMondialRelay holds the per-shipment content description override
type PickingMondialRelay struct {
	ID                 int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	PickingID          int64  `gorm:"uniqueIndex;not null" json:"pickingId"`
	ContentDescription string `json:"contentDescription"`
}

func (PickingMondialRelay) TableName() string { return "stock_picking_mondialrelay" }
