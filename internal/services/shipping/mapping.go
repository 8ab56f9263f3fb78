package shipping

import (
	"strconv"
	"time"

	"github.com/xelth-com/eckwms-mondialrelay/internal/delivery/mondialrelay"
	"github.com/xelth-com/eckwms-mondialrelay/internal/models"
)

// ProfileFromModel converts the stored carrier extension into a dispatch profile
func ProfileFromModel(m *models.MondialRelayProfile) *mondialrelay.Profile {
	return &mondialrelay.Profile{
		CarrierID:          m.CarrierID,
		Method:             mondialrelay.Method,
		Username:           m.Username,
		Password:           m.Password,
		CustomerID:         m.CustomerID,
		Version:            m.Version,
		Culture:            m.Culture,
		LabelFormat:        m.LabelFormat,
		PDFFormat:          m.PDFFormat,
		ContentDescription: m.ContentDescription,
		IncludeWeight:      m.IncludeWeight,
		WeightAPIUnit:      m.WeightAPIUnit,
		WeightUnit:         m.WeightUnit,
		Timeout:            time.Duration(m.TimeoutSeconds) * time.Second,
		Debug:              m.Debug,
		ReferenceOrigin:    m.ReferenceOrigin,
		DefaultService:     m.DefaultService,
	}
}

// shipmentRecord gathers everything loaded for one picking
type shipmentRecord struct {
	Picking      *models.StockPicking
	Delivery     *models.StockPickingDelivery // nil when never queued
	Carrier      *models.DeliveryCarrier
	PickupPoints map[int64]string // partner id -> relay point
	Content      string
}

func toCountry(c *models.ResCountry) *mondialrelay.Country {
	if c == nil {
		return nil
	}
	country := &mondialrelay.Country{Code: c.Code}
	if c.PhoneCode > 0 {
		country.PhoneCode = strconv.Itoa(c.PhoneCode)
	}
	return country
}

func toAddress(p *models.ResPartner, pickupPoints map[int64]string) *mondialrelay.Address {
	if p == nil {
		return nil
	}
	street := p.Street
	if p.Street2 != "" {
		street += " " + p.Street2
	}
	return &mondialrelay.Address{
		ID:          p.ID,
		Name:        p.Name,
		Street:      street,
		City:        p.City,
		Zip:         p.Zip,
		Country:     toCountry(p.Country),
		Phone:       p.Phone,
		Mobile:      p.Mobile,
		Email:       p.Email,
		PickupPoint: pickupPoints[p.ID],
	}
}

// toParty builds a party whose contact mechanisms are the partner's own phone/mobile/email
func toParty(p *models.ResPartner, pickupPoints map[int64]string) *mondialrelay.Party {
	if p == nil {
		return nil
	}
	mechanisms := map[string]string{}
	if p.Phone != "" {
		mechanisms[mondialrelay.MechanismPhone] = p.Phone
	}
	if p.Mobile != "" {
		mechanisms[mondialrelay.MechanismMobile] = p.Mobile
	}
	if p.Email != "" {
		mechanisms[mondialrelay.MechanismEmail] = p.Email
	}
	return &mondialrelay.Party{
		Name:       p.Name,
		Addresses:  []*mondialrelay.Address{toAddress(p, pickupPoints)},
		Mechanisms: mechanisms,
	}
}

func toShipment(rec shipmentRecord) *mondialrelay.Shipment {
	picking := rec.Picking

	shipment := &mondialrelay.Shipment{
		ID:              picking.ID,
		Code:            picking.Name,
		Name:            picking.Name,
		Origin:          picking.Origin,
		DeliveryAddress: toAddress(picking.Partner, rec.PickupPoints),
		TotalAmount:     picking.AmountTotal,
		WeightUnit:      picking.WeightUomName,
		Relay:           mondialrelay.CarrierExtension{ContentDescription: rec.Content},
	}

	weight := picking.ShippingWeight
	shipment.Weight = &weight

	if picking.Partner != nil {
		customer := picking.Partner
		if customer.Parent != nil {
			customer = customer.Parent
		}
		shipment.Customer = toParty(customer, rec.PickupPoints)
	}
	if picking.Company != nil {
		shipment.Company = toParty(picking.Company.Partner, rec.PickupPoints)
		if shipment.Company != nil && picking.Company.Name != "" {
			shipment.Company.Name = picking.Company.Name
		}
	}
	if picking.Warehouse != nil {
		shipment.WarehouseAddress = toAddress(picking.Warehouse.Partner, rec.PickupPoints)
	}
	if rec.Carrier != nil {
		shipment.CarrierDefaultService = rec.Carrier.DefaultService
	}

	if d := rec.Delivery; d != nil {
		shipment.CarrierService = d.CarrierService
		shipment.CashOnDelivery = d.CashOnDelivery
		shipment.CashOnDeliveryPrice = d.CashOnDeliveryPrice
		shipment.CarrierNotes = d.CarrierNotes
		shipment.NumberOfPackages = d.NumberOfPackages
	}

	return shipment
}
