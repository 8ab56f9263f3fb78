package mondialrelay

// Payload is the flat field mapping the carrier client sends for one shipment.
// Keys are the client's field names and must not be renamed.
type Payload map[string]interface{}

// Payload keys
const (
	FieldOrderNo              = "OrderNo"
	FieldDeliveryMode         = "DeliveryMode"
	FieldDeliveryLocation     = "DeliveryLocation"
	FieldParcelContent        = "ParcelContent"
	FieldDeliveryInstruction  = "DeliveryInstruction"
	FieldSenderFirstname      = "SenderFirstname"
	FieldSenderStreetname     = "SenderStreetname"
	FieldSenderCountryCode    = "SenderCountryCode"
	FieldSenderPostCode       = "SenderPostCode"
	FieldSenderCity           = "SenderCity"
	FieldSenderPhoneNo        = "SenderPhoneNo"
	FieldSenderMobileNo       = "SenderMobileNo"
	FieldSenderEmail          = "SenderEmail"
	FieldRecipientFirstname   = "RecipientFirstname"
	FieldRecipientStreetname  = "RecipientStreetname"
	FieldRecipientCountryCode = "RecipientCountryCode"
	FieldRecipientPostCode    = "RecipientPostCode"
	FieldRecipientCity        = "RecipientCity"
	FieldRecipientPhoneNo     = "RecipientPhoneNo"
	FieldRecipientMobileNo    = "RecipientMobileNo"
	FieldRecipientEmail       = "RecipientEmail"
	FieldWeight               = "Weight"
	FieldWeightUnit           = "WeightUnit"
)

// String returns the value of a text field, or ""
func (p Payload) String(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

// BuildPayload maps a shipment onto the carrier's request fields.
// It performs no I/O; the caller has already checked the delivery address and service.
// price is informational only: the create call carries no declared amount.
func BuildPayload(profile *Profile, shipment *Shipment, service string, price float64, includeWeight bool) Payload {
	data := make(Payload)

	delivery := shipment.DeliveryAddress
	if delivery == nil {
		delivery = &Address{}
	}
	sender := shipment.SenderAddress()
	if sender == nil {
		sender = &Address{}
	}

	code := shipment.Code
	if profile.ReferenceOrigin && shipment.Origin != "" {
		code = shipment.Origin
	}

	data[FieldOrderNo] = code
	data[FieldDeliveryMode] = service
	setString(data, FieldDeliveryLocation, delivery.PickupPoint)

	data[FieldParcelContent] = shipment.ParcelContent(profile)
	data[FieldDeliveryInstruction] = Unaccent(shipment.CarrierNotes)

	// Sender
	company := shipment.Company
	if company != nil {
		setString(data, FieldSenderFirstname, Unaccent(company.Name))
	}
	setString(data, FieldSenderStreetname, Unaccent(sender.Street))
	setString(data, FieldSenderCountryCode, countryCode(sender.Country))
	setString(data, FieldSenderPostCode, sender.Zip)
	setString(data, FieldSenderCity, Unaccent(sender.City))
	if phone := firstOf(sender.Phone, company.Mechanism(MechanismPhone)); phone != "" {
		data[FieldSenderPhoneNo] = FormatPhone(sender.Country, phone)
	}
	if mobile := firstOf(sender.Mobile, company.Mechanism(MechanismMobile)); mobile != "" {
		data[FieldSenderMobileNo] = FormatPhone(sender.Country, mobile)
	}
	setString(data, FieldSenderEmail, firstOf(sender.Email, company.Mechanism(MechanismEmail)))

	// Recipient
	customer := shipment.Customer
	if customer != nil {
		setString(data, FieldRecipientFirstname, Unaccent(customer.Name))
	}
	setString(data, FieldRecipientStreetname, Unaccent(delivery.Street))
	setString(data, FieldRecipientCountryCode, countryCode(delivery.Country))
	setString(data, FieldRecipientPostCode, delivery.Zip)
	setString(data, FieldRecipientCity, Unaccent(delivery.City))
	if phone := firstOf(delivery.Phone, customer.Mechanism(MechanismPhone)); phone != "" {
		data[FieldRecipientPhoneNo] = FormatPhone(delivery.Country, phone)
	}
	if mobile := firstOf(delivery.Mobile, customer.Mechanism(MechanismMobile)); mobile != "" {
		data[FieldRecipientMobileNo] = FormatPhone(delivery.Country, mobile)
	}
	setString(data, FieldRecipientEmail, firstOf(delivery.Email, customer.Mechanism(MechanismEmail)))

	if includeWeight && shipment.Weight != nil {
		weight, unit := resolveWeight(profile, *shipment.Weight, shipment.WeightUnit)
		data[FieldWeight] = weight
		data[FieldWeightUnit] = unit
	}

	return data
}

func setString(data Payload, key, value string) {
	if value != "" {
		data[key] = value
	}
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func countryCode(c *Country) string {
	if c == nil {
		return ""
	}
	return c.Code
}
