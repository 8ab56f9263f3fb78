package mondialrelay

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Method is the carrier API method this package serves
const Method = "mondialrelay"

// Label formats accepted by the carrier
const (
	LabelPdfURL  = "PdfUrl"
	LabelZplCode = "ZplCode"
	LabelIplCode = "IplCode"
)

var (
	// Versions lists the API versions the client understands
	Versions = []string{"2.0"}

	// Cultures lists the locales the carrier accepts for labels and messages
	Cultures = []string{"fr-FR", "es-ES", "en-GB", "de-DE", "it-IT", "nl-NL", "pt-PT", "pl-PL"}

	// LabelFormats lists the label outputs the carrier can return
	LabelFormats = []string{LabelPdfURL, LabelZplCode, LabelIplCode}

	// PDFFormats lists the paper sizes for PDF labels
	PDFFormats = []string{"A4", "A5", "10x15"}
)

// ErrProfileInvalid is returned when a profile misses a required field
var ErrProfileInvalid = errors.New("invalid mondialrelay profile")

// ErrTestUnavailable is returned by TestConnection; the carrier offers no ping endpoint
var ErrTestUnavailable = errors.New("MondialRelay test is not available")

// Profile is the per-account configuration of a Mondial Relay carrier API record.
// A dispatch run reads it and never modifies it.
type Profile struct {
	CarrierID          int64
	Method             string
	Username           string
	Password           string
	CustomerID         string
	Version            string
	Culture            string
	LabelFormat        string
	PDFFormat          string
	ContentDescription string

	// IncludeWeight attaches Weight/WeightUnit to every payload
	IncludeWeight bool
	// WeightAPIUnit is the unit the carrier expects weights in (empty: no conversion)
	WeightAPIUnit string
	// WeightUnit is the unit assumed for shipments that carry no unit of their own
	WeightUnit string

	Timeout         time.Duration
	Debug           bool
	ReferenceOrigin bool
	DefaultService  string
}

// Validate checks the fields the carrier requires before a session can be opened
func (p *Profile) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: profile is nil", ErrProfileInvalid)
	}
	if p.Method != Method {
		return fmt.Errorf("%w: method %q is not %s", ErrProfileInvalid, p.Method, Method)
	}
	if p.Username == "" || p.Password == "" {
		return fmt.Errorf("%w: username and password are required", ErrProfileInvalid)
	}
	if p.CustomerID == "" {
		return fmt.Errorf("%w: customer id is required", ErrProfileInvalid)
	}
	if !slices.Contains(Versions, p.Version) {
		return fmt.Errorf("%w: unsupported version %q", ErrProfileInvalid, p.Version)
	}
	if !slices.Contains(Cultures, p.Culture) {
		return fmt.Errorf("%w: unsupported culture %q", ErrProfileInvalid, p.Culture)
	}
	if !slices.Contains(LabelFormats, p.LabelFormat) {
		return fmt.Errorf("%w: unsupported label format %q", ErrProfileInvalid, p.LabelFormat)
	}
	if p.PDFFormat != "" && !slices.Contains(PDFFormats, p.PDFFormat) {
		return fmt.Errorf("%w: unsupported pdf format %q", ErrProfileInvalid, p.PDFFormat)
	}
	if p.WeightAPIUnit != "" && !knownUnit(p.WeightAPIUnit) {
		return fmt.Errorf("%w: unknown weight unit %q", ErrProfileInvalid, p.WeightAPIUnit)
	}
	return nil
}

// TestConnection reports that a connection test cannot be performed for this carrier
func (p *Profile) TestConnection() error {
	return ErrTestUnavailable
}

// LabelExtension maps the profile's label format to the file extension of stored labels
func (p *Profile) LabelExtension() string {
	switch p.LabelFormat {
	case LabelZplCode:
		return "zpl"
	case LabelIplCode:
		return "ipl"
	default:
		return "pdf"
	}
}

// Credentials returns the session parameters for the carrier client
func (p *Profile) Credentials() Credentials {
	return Credentials{
		Username:    p.Username,
		Password:    p.Password,
		CustomerID:  p.CustomerID,
		Culture:     p.Culture,
		LabelFormat: p.LabelFormat,
		PDFFormat:   p.PDFFormat,
		Version:     p.Version,
		Timeout:     p.Timeout,
		Debug:       p.Debug,
	}
}
