package models

import (
	"time"
)

// StockWarehouse mirrors 'stock.warehouse'; PartnerID is the warehouse address
type StockWarehouse struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	PartnerID *int64 `json:"partner_id"`
	CompanyID *int64 `json:"company_id"`

	Partner *ResPartner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
}

func (StockWarehouse) TableName() string {
	return "stock_warehouse"
}

// StockPicking mirrors 'stock.picking' (Transfer Orders)
type StockPicking struct {
	ID             int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name           string    `gorm:"uniqueIndex" json:"name"` // WH/OUT/0001
	State          string    `gorm:"index" json:"state"`      // draft, waiting, confirmed, assigned, done
	Origin         string    `json:"origin"`                  // source document, e.g. S00042
	PartnerID      *int64    `gorm:"index" json:"partner_id"` // delivery address
	CompanyID      *int64    `json:"company_id"`
	WarehouseID    *int64    `json:"warehouse_id"`
	CarrierID      *int64    `json:"carrier_id"`
	ShippingWeight float64   `json:"shipping_weight"`
	WeightUomName  string    `json:"weight_uom_name"` // kg, g, lb...
	AmountTotal    float64   `json:"amount_total"`    // total of the originating order
	ScheduledDate  time.Time `json:"scheduled_date"`

	LastSyncedAt time.Time `json:"last_synced_at"`

	// Relations
	Partner   *ResPartner     `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
	Company   *ResCompany     `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Warehouse *StockWarehouse `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
}

func (StockPicking) TableName() string {
	return "stock_picking"
}
