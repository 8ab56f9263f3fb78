package models

import "time"

// ResPartner mirrors res.partner: customers, companies and their addresses.
// A partner with a ParentID is an address of its commercial partner.
type ResPartner struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name      string `gorm:"index" json:"name"`
	ParentID  *int64 `gorm:"index" json:"parent_id"`
	Type      string `json:"type"` // contact, delivery, invoice, other
	Street    string `json:"street"`
	Street2   string `json:"street2"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	CountryID *int64 `json:"country_id"`
	Phone     string `json:"phone"`
	Mobile    string `json:"mobile"`
	Email     string `json:"email"`
	IsCompany bool   `json:"is_company"`

	LastSyncedAt time.Time `json:"last_synced_at"`

	// Relations
	Parent  *ResPartner `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Country *ResCountry `gorm:"foreignKey:CountryID" json:"country,omitempty"`
}

func (ResPartner) TableName() string { return "res_partner" }

// CommercialID returns the id of the partner holding the generic contact data
func (p *ResPartner) CommercialID() int64 {
	if p.ParentID != nil && *p.ParentID != 0 {
		return *p.ParentID
	}
	return p.ID
}

// ResCountry mirrors res.country
type ResCountry struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name      string `json:"name"`
	Code      string `gorm:"size:2;index" json:"code"`
	PhoneCode int    `json:"phone_code"`
}

func (ResCountry) TableName() string { return "res_country" }

// ResCompany mirrors res.company; PartnerID holds the company's address
type ResCompany struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name      string `json:"name"`
	PartnerID int64  `json:"partner_id"`

	Partner *ResPartner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
}

func (ResCompany) TableName() string { return "res_company" }
