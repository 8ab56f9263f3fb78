package odoo

import (
	"time"

	"github.com/xelth-com/eckwms-mondialrelay/internal/models"
)

// odooDateTime is the layout of Odoo datetime fields (always UTC)
const odooDateTime = "2006-01-02 15:04:05"

type countryRecord struct {
	ID        int64             `json:"id"`
	Name      models.OdooString `json:"name"`
	Code      models.OdooString `json:"code"`
	PhoneCode int               `json:"phone_code"`
}

func (r countryRecord) toModel() models.ResCountry {
	return models.ResCountry{
		ID:        r.ID,
		Name:      r.Name.String(),
		Code:      r.Code.String(),
		PhoneCode: r.PhoneCode,
	}
}

type partnerRecord struct {
	ID        int64             `json:"id"`
	Name      models.OdooString `json:"name"`
	ParentID  models.OdooID     `json:"parent_id"`
	Type      models.OdooString `json:"type"`
	Street    models.OdooString `json:"street"`
	Street2   models.OdooString `json:"street2"`
	Zip       models.OdooString `json:"zip"`
	City      models.OdooString `json:"city"`
	CountryID models.OdooID     `json:"country_id"`
	Phone     models.OdooString `json:"phone"`
	Mobile    models.OdooString `json:"mobile"`
	Email     models.OdooString `json:"email"`
	IsCompany bool              `json:"is_company"`
}

var partnerFields = []string{
	"name", "parent_id", "type", "street", "street2", "zip", "city",
	"country_id", "phone", "mobile", "email", "is_company",
}

func (r partnerRecord) toModel(now time.Time) models.ResPartner {
	return models.ResPartner{
		ID:           r.ID,
		Name:         r.Name.String(),
		ParentID:     r.ParentID.Ptr(),
		Type:         r.Type.String(),
		Street:       r.Street.String(),
		Street2:      r.Street2.String(),
		Zip:          r.Zip.String(),
		City:         r.City.String(),
		CountryID:    r.CountryID.Ptr(),
		Phone:        r.Phone.String(),
		Mobile:       r.Mobile.String(),
		Email:        r.Email.String(),
		IsCompany:    r.IsCompany,
		LastSyncedAt: now,
	}
}

type companyRecord struct {
	ID        int64             `json:"id"`
	Name      models.OdooString `json:"name"`
	PartnerID models.OdooID     `json:"partner_id"`
}

func (r companyRecord) toModel() models.ResCompany {
	return models.ResCompany{
		ID:        r.ID,
		Name:      r.Name.String(),
		PartnerID: r.PartnerID.ID,
	}
}

type warehouseRecord struct {
	ID        int64             `json:"id"`
	Name      models.OdooString `json:"name"`
	Code      models.OdooString `json:"code"`
	PartnerID models.OdooID     `json:"partner_id"`
	CompanyID models.OdooID     `json:"company_id"`
}

func (r warehouseRecord) toModel() models.StockWarehouse {
	return models.StockWarehouse{
		ID:        r.ID,
		Name:      r.Name.String(),
		Code:      r.Code.String(),
		PartnerID: r.PartnerID.Ptr(),
		CompanyID: r.CompanyID.Ptr(),
	}
}

type pickingTypeRecord struct {
	ID          int64         `json:"id"`
	WarehouseID models.OdooID `json:"warehouse_id"`
}

type pickingRecord struct {
	ID             int64             `json:"id"`
	Name           models.OdooString `json:"name"`
	State          models.OdooString `json:"state"`
	Origin         models.OdooString `json:"origin"`
	PartnerID      models.OdooID     `json:"partner_id"`
	CompanyID      models.OdooID     `json:"company_id"`
	PickingTypeID  models.OdooID     `json:"picking_type_id"`
	SaleID         models.OdooID     `json:"sale_id"`
	ShippingWeight float64           `json:"shipping_weight"`
	WeightUomName  models.OdooString `json:"weight_uom_name"`
	ScheduledDate  models.OdooString `json:"scheduled_date"`
}

var pickingFields = []string{
	"name", "state", "origin", "partner_id", "company_id", "picking_type_id",
	"sale_id", "shipping_weight", "weight_uom_name", "scheduled_date",
}

// toModel maps a picking; warehouses maps picking type ids to warehouse ids,
// amounts maps sale order ids to their totals.
func (r pickingRecord) toModel(warehouses map[int64]int64, amounts map[int64]float64, now time.Time) models.StockPicking {
	picking := models.StockPicking{
		ID:             r.ID,
		Name:           r.Name.String(),
		State:          r.State.String(),
		Origin:         r.Origin.String(),
		PartnerID:      r.PartnerID.Ptr(),
		CompanyID:      r.CompanyID.Ptr(),
		ShippingWeight: r.ShippingWeight,
		WeightUomName:  r.WeightUomName.String(),
		AmountTotal:    amounts[r.SaleID.ID],
		LastSyncedAt:   now,
	}
	if wh, ok := warehouses[r.PickingTypeID.ID]; ok && wh != 0 {
		picking.WarehouseID = &wh
	}
	if t, err := time.Parse(odooDateTime, r.ScheduledDate.String()); err == nil {
		picking.ScheduledDate = t
	}
	return picking
}

type saleRecord struct {
	ID          int64   `json:"id"`
	AmountTotal float64 `json:"amount_total"`
}
