package mondialrelay

import "time"

func testProfile() *Profile {
	return &Profile{
		CarrierID:   1,
		Method:      Method,
		Username:    "BDTEST13",
		Password:    "secret",
		CustomerID:  "BDTEST",
		Version:     "2.0",
		Culture:     "fr-FR",
		LabelFormat: LabelPdfURL,
		PDFFormat:   "10x15",
		Timeout:     10 * time.Second,
	}
}

func floatPtr(v float64) *float64 { return &v }

// testShipment returns a shipment from a Spanish warehouse to a French relay point
func testShipment(code string) *Shipment {
	spain := &Country{Code: "ES", PhoneCode: "34"}
	france := &Country{Code: "FR", PhoneCode: "33"}

	return &Shipment{
		ID:   1,
		Code: code,
		Name: code,
		DeliveryAddress: &Address{
			ID:          20,
			Name:        "Jane Doe",
			Street:      "12 rue de la Paix",
			City:        "Lille",
			Zip:         "59000",
			Country:     france,
			Phone:       "06 12 34 56 78",
			Email:       "jane@example.com",
			PickupPoint: "FR12345",
		},
		WarehouseAddress: &Address{
			ID:      10,
			Name:    "Main warehouse",
			Street:  "Calle Mayor 1",
			City:    "Barcelona",
			Zip:     "08001",
			Country: spain,
			Phone:   "666 77 88 99",
		},
		Company: &Party{
			Name:       "Librería Central",
			Mechanisms: map[string]string{MechanismEmail: "shop@example.com"},
		},
		Customer: &Party{
			Name:       "Jane Doe",
			Mechanisms: map[string]string{},
		},
		CarrierService: "24R",
		Weight:         floatPtr(1.5),
		WeightUnit:     "kg",
	}
}
