package mondialrelay

// Contact mechanism types looked up on a party when an address lacks a value
const (
	MechanismPhone  = "phone"
	MechanismMobile = "mobile"
	MechanismEmail  = "email"
)

// Country is the subset of a country record the payload needs
type Country struct {
	Code      string // ISO 3166 alpha-2
	PhoneCode string // international dialing code without "+"
}

// Address is a postal address as seen by the dispatcher.
// PickupPoint is the Mondial Relay extension field: the relay point the parcel is routed to.
type Address struct {
	ID          int64
	Name        string // display name used in operator messages
	Street      string
	City        string
	Zip         string
	Country     *Country
	Phone       string
	Mobile      string
	Email       string
	PickupPoint string
}

// Party is a company or customer with its generic contact mechanisms
type Party struct {
	Name       string
	Addresses  []*Address
	Mechanisms map[string]string
}

// Mechanism returns the party's contact value of the given type, or ""
func (p *Party) Mechanism(kind string) string {
	if p == nil || p.Mechanisms == nil {
		return ""
	}
	return p.Mechanisms[kind]
}

// CarrierExtension holds the Mondial Relay fields a shipment carries next to its base record
type CarrierExtension struct {
	ContentDescription string
}

// CarrierShipment is what the dispatcher asks of a shipment beyond its base fields
type CarrierShipment interface {
	ResolveService(profile *Profile) string
	ParcelContent(profile *Profile) string
	Price() float64
	Packages() int
}

var _ CarrierShipment = (*Shipment)(nil)

// Shipment is an outgoing shipment ready for carrier dispatch
type Shipment struct {
	ID   int64
	Code string
	// Name is the display name used in operator messages
	Name string
	// Origin is the display name of the originating document, "" when none
	Origin string

	DeliveryAddress  *Address
	WarehouseAddress *Address
	Company          *Party
	Customer         *Party

	// CarrierService is the shipment-level service override
	CarrierService string
	// CarrierDefaultService is the default service of the shipment's carrier
	CarrierDefaultService string

	CashOnDelivery      bool
	CashOnDeliveryPrice float64
	TotalAmount         float64

	// Weight is nil when the shipment cannot compute one
	Weight     *float64
	WeightUnit string

	CarrierNotes     string
	NumberOfPackages int

	Relay CarrierExtension
}

// DisplayName returns the name used in operator messages
func (s *Shipment) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Code
}

// SenderAddress returns the warehouse address, falling back to the company's first address
func (s *Shipment) SenderAddress() *Address {
	if s.WarehouseAddress != nil {
		return s.WarehouseAddress
	}
	if s.Company != nil && len(s.Company.Addresses) > 0 {
		return s.Company.Addresses[0]
	}
	return nil
}

// Packages returns the number of packages, at least one
func (s *Shipment) Packages() int {
	if s.NumberOfPackages <= 0 {
		return 1
	}
	return s.NumberOfPackages
}

// Price is the amount declared to the carrier: the COD price or the shipment total
func (s *Shipment) Price() float64 {
	if s.CashOnDelivery {
		return s.CashOnDeliveryPrice
	}
	return s.TotalAmount
}

// ResolveService picks the delivery service: shipment override, carrier default, then profile default
func (s *Shipment) ResolveService(profile *Profile) string {
	if s.CarrierService != "" {
		return s.CarrierService
	}
	if s.CarrierDefaultService != "" {
		return s.CarrierDefaultService
	}
	if profile != nil {
		return profile.DefaultService
	}
	return ""
}

// ParcelContent is the shipment's content description, else the profile default
func (s *Shipment) ParcelContent(profile *Profile) string {
	if s.Relay.ContentDescription != "" {
		return s.Relay.ContentDescription
	}
	if profile != nil {
		return profile.ContentDescription
	}
	return ""
}
