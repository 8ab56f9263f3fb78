package models

import (
	"encoding/json"
	"errors"
)

// OdooString is a custom string type that handles Odoo's dynamic typing.
// Odoo returns `false` (boolean) for empty text fields instead of an empty string.
type OdooString string

// UnmarshalJSON accepts a string or false
func (os *OdooString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*os = OdooString(s)
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*os = ""
		return nil
	}

	return errors.New("OdooString: cannot unmarshal value into string")
}

// String returns native string value
func (os OdooString) String() string {
	return string(os)
}

// OdooID is a many2one value: Odoo sends [id, "display name"] or false
type OdooID struct {
	ID   int64
	Name string
}

// UnmarshalJSON accepts [id, name], a bare id, or false
func (o *OdooID) UnmarshalJSON(data []byte) error {
	var pair []interface{}
	if err := json.Unmarshal(data, &pair); err == nil {
		*o = OdooID{}
		if len(pair) > 0 {
			if id, ok := pair[0].(float64); ok {
				o.ID = int64(id)
			}
		}
		if len(pair) > 1 {
			if name, ok := pair[1].(string); ok {
				o.Name = name
			}
		}
		return nil
	}

	var id int64
	if err := json.Unmarshal(data, &id); err == nil {
		*o = OdooID{ID: id}
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*o = OdooID{}
		return nil
	}

	return errors.New("OdooID: cannot unmarshal many2one value")
}

// Ptr returns the id as a nullable foreign key
func (o OdooID) Ptr() *int64 {
	if o.ID == 0 {
		return nil
	}
	id := o.ID
	return &id
}
