package mondialrelay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayloadIsPure(t *testing.T) {
	profile := testProfile()
	profile.IncludeWeight = true
	shipment := testShipment("WH/OUT/0001")

	first := BuildPayload(profile, shipment, "24R", shipment.Price(), true)
	second := BuildPayload(profile, shipment, "24R", shipment.Price(), true)

	assert.Equal(t, first, second)
	assert.Equal(t, 1.5, *shipment.Weight, "shipment must not be modified")
}

func TestBuildPayloadFields(t *testing.T) {
	shipment := testShipment("WH/OUT/0001")
	p := BuildPayload(testProfile(), shipment, "24R", 0, false)

	assert.Equal(t, "WH/OUT/0001", p[FieldOrderNo])
	assert.Equal(t, "24R", p[FieldDeliveryMode])
	assert.Equal(t, "FR12345", p[FieldDeliveryLocation])

	assert.Equal(t, "Libreria Central", p[FieldSenderFirstname])
	assert.Equal(t, "Calle Mayor 1", p[FieldSenderStreetname])
	assert.Equal(t, "ES", p[FieldSenderCountryCode])
	assert.Equal(t, "08001", p[FieldSenderPostCode])
	assert.Equal(t, "Barcelona", p[FieldSenderCity])
	assert.Equal(t, "shop@example.com", p[FieldSenderEmail], "falls back to the company's contact mechanism")

	assert.Equal(t, "Jane Doe", p[FieldRecipientFirstname])
	assert.Equal(t, "FR", p[FieldRecipientCountryCode])
	assert.Equal(t, "59000", p[FieldRecipientPostCode])
	assert.Equal(t, "Lille", p[FieldRecipientCity])
	assert.Equal(t, "jane@example.com", p[FieldRecipientEmail])
}

func TestBuildPayloadPhones(t *testing.T) {
	shipment := testShipment("WH/OUT/0001")
	p := BuildPayload(testProfile(), shipment, "24R", 0, false)

	assert.Equal(t, "+34666778899", p[FieldSenderPhoneNo])
	assert.Equal(t, "+330612345678", p[FieldRecipientPhoneNo], "recipient uses its own country code")

	_, hasMobile := p[FieldSenderMobileNo]
	assert.False(t, hasMobile)

	shipment.DeliveryAddress.Phone = ""
	shipment.Customer.Mechanisms[MechanismMobile] = "07 00 00 00 01"
	p = BuildPayload(testProfile(), shipment, "24R", 0, false)
	assert.Equal(t, "+330700000001", p[FieldRecipientMobileNo])
	_, hasPhone := p[FieldRecipientPhoneNo]
	assert.False(t, hasPhone)
}

func TestBuildPayloadOrderNo(t *testing.T) {
	profile := testProfile()
	shipment := testShipment("WH/OUT/0001")
	shipment.Origin = "S00042"

	assert.Equal(t, "WH/OUT/0001", BuildPayload(profile, shipment, "24R", 0, false).String(FieldOrderNo))

	profile.ReferenceOrigin = true
	assert.Equal(t, "S00042", BuildPayload(profile, shipment, "24R", 0, false).String(FieldOrderNo))

	shipment.Origin = ""
	assert.Equal(t, "WH/OUT/0001", BuildPayload(profile, shipment, "24R", 0, false).String(FieldOrderNo))
}

func TestBuildPayloadParcelContent(t *testing.T) {
	profile := testProfile()
	shipment := testShipment("WH/OUT/0001")

	p := BuildPayload(profile, shipment, "24R", 0, false)
	content, ok := p[FieldParcelContent]
	require.True(t, ok, "content is always present")
	assert.Equal(t, "", content)

	profile.ContentDescription = "livres"
	assert.Equal(t, "livres", BuildPayload(profile, shipment, "24R", 0, false).String(FieldParcelContent))

	shipment.Relay.ContentDescription = "vêtements"
	assert.Equal(t, "vêtements", BuildPayload(profile, shipment, "24R", 0, false).String(FieldParcelContent))
}

func TestBuildPayloadDeliveryInstruction(t *testing.T) {
	shipment := testShipment("WH/OUT/0001")

	p := BuildPayload(testProfile(), shipment, "24R", 0, false)
	instruction, ok := p[FieldDeliveryInstruction]
	require.True(t, ok)
	assert.Equal(t, "", instruction)

	shipment.CarrierNotes = "Près de la mairie, côté église"
	p = BuildPayload(testProfile(), shipment, "24R", 0, false)
	assert.Equal(t, "Pres de la mairie, cote eglise", p[FieldDeliveryInstruction])
}

func TestBuildPayloadOmitsEmptyFields(t *testing.T) {
	shipment := testShipment("WH/OUT/0001")
	shipment.Company = nil
	shipment.WarehouseAddress.Phone = ""
	shipment.DeliveryAddress.Email = ""

	p := BuildPayload(testProfile(), shipment, "24R", 0, false)

	for _, key := range []string{FieldSenderFirstname, FieldSenderPhoneNo, FieldSenderEmail, FieldRecipientEmail, FieldWeight, FieldWeightUnit} {
		_, ok := p[key]
		assert.False(t, ok, key)
	}
}

func TestBuildPayloadSenderFallsBackToCompanyAddress(t *testing.T) {
	shipment := testShipment("WH/OUT/0001")
	shipment.WarehouseAddress = nil
	shipment.Company.Addresses = []*Address{{
		Street:  "Rue Neuve 5",
		City:    "Bruxelles",
		Zip:     "1000",
		Country: &Country{Code: "BE", PhoneCode: "32"},
		Phone:   "02 123 45 67",
	}}

	p := BuildPayload(testProfile(), shipment, "24R", 0, false)
	assert.Equal(t, "BE", p[FieldSenderCountryCode])
	assert.Equal(t, "Rue Neuve 5", p[FieldSenderStreetname])
	assert.Equal(t, "+32021234567", p[FieldSenderPhoneNo])
}

func TestBuildPayloadWeight(t *testing.T) {
	profile := testProfile()
	shipment := testShipment("WH/OUT/0001")

	p := BuildPayload(profile, shipment, "24R", 0, true)
	assert.Equal(t, 1.5, p[FieldWeight])
	assert.Equal(t, "kg", p[FieldWeightUnit])

	shipment.Weight = floatPtr(1000)
	shipment.WeightUnit = "g"
	profile.WeightAPIUnit = "kg"
	p = BuildPayload(profile, shipment, "24R", 0, true)
	assert.Equal(t, 1.0, p[FieldWeight])
	assert.Equal(t, "kg", p[FieldWeightUnit])

	shipment.Weight = floatPtr(0)
	shipment.WeightUnit = "kg"
	profile.WeightAPIUnit = "g"
	p = BuildPayload(profile, shipment, "24R", 0, true)
	assert.Equal(t, 1000.0, p[FieldWeight], "zero weight is sent as one unit")
	assert.Equal(t, "gr", p[FieldWeightUnit])

	shipment.Weight = nil
	p = BuildPayload(profile, shipment, "24R", 0, true)
	_, ok := p[FieldWeight]
	assert.False(t, ok)
}

func TestBuildPayloadTinyWeightStaysPositive(t *testing.T) {
	profile := testProfile()
	profile.WeightAPIUnit = "kg"
	shipment := testShipment("WH/OUT/0001")
	shipment.Weight = floatPtr(0.4)
	shipment.WeightUnit = "g"

	p := BuildPayload(profile, shipment, "24R", 0, true)
	assert.Equal(t, minWeight, p[FieldWeight])
	assert.Equal(t, "kg", p[FieldWeightUnit])
}

func TestShipmentHelpers(t *testing.T) {
	profile := testProfile()
	profile.DefaultService = "HOM"
	s := testShipment("WH/OUT/0001")

	assert.Equal(t, "24R", s.ResolveService(profile))
	s.CarrierService = ""
	s.CarrierDefaultService = "24L"
	assert.Equal(t, "24L", s.ResolveService(profile))
	s.CarrierDefaultService = ""
	assert.Equal(t, "HOM", s.ResolveService(profile))
	assert.Equal(t, "", s.ResolveService(nil))

	s.TotalAmount = 42.5
	assert.Equal(t, 42.5, s.Price())
	s.CashOnDelivery = true
	s.CashOnDeliveryPrice = 30
	assert.Equal(t, 30.0, s.Price())

	assert.Equal(t, 1, s.Packages())
	s.NumberOfPackages = 3
	assert.Equal(t, 3, s.Packages())

	s.Name = ""
	assert.Equal(t, "WH/OUT/0001", s.DisplayName())

	var nobody *Party
	assert.Equal(t, "", nobody.Mechanism(MechanismPhone))
}
