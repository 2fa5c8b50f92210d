// Package core provides the business logic for the bulk shipping label
// pipeline: manifest parsing, record validation, price quoting, and the
// batch ingestion orchestrator. This package has no HTTP or storage
// dependencies and can be exercised against any Store implementation.
package core

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status classifies a shipment record after validation.
// The values are part of the stable API contract.
type Status string

const (
	StatusValid          Status = "valid"
	StatusDefaultApplied Status = "default_applied"
	StatusWarning        Status = "warning"
	StatusError          Status = "error"
)

// statusRank orders statuses by severity. Escalation only ever moves a
// record to a strictly more severe status; warning and default_applied
// share a rank because their triggers are mutually exclusive and the
// first one assigned wins.
var statusRank = map[Status]int{
	StatusValid:          0,
	StatusDefaultApplied: 1,
	StatusWarning:        1,
	StatusError:          2,
}

// Cents represents a money amount in US cents. Keeping prices integral
// makes the clamp and rounding in the quoter exact.
type Cents int64

// Dollars returns the amount as a float64 dollar value.
func (c Cents) Dollars() float64 {
	return float64(c) / 100
}

// MarshalJSON renders the amount as a JSON number in dollars with two
// decimal places (4.10, not 4.1).
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(c.Dollars(), 'f', 2, 64)), nil
}

// UnmarshalJSON accepts a dollar amount and stores it as cents.
func (c *Cents) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return err
	}
	*c = Cents(f*100 + 0.5)
	return nil
}

// Address is one party's mailing address. Street corresponds to the
// primary address line, Street2 to the optional secondary line.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Street    string `json:"address"`
	Street2   string `json:"address2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip_code"`
	Phone     string `json:"phone"`
}

// PackageDetails carries the physical attributes of a package. All
// fields are optional; nil means the manifest did not supply a value,
// which is distinct from an explicit zero.
type PackageDetails struct {
	WeightLbs *int     `json:"weight_lbs"`
	WeightOz  *int     `json:"weight_oz"`
	Length    *float64 `json:"length"`
	Width     *float64 `json:"width"`
	Height    *float64 `json:"height"`
}

// HasWeight reports whether any weight was supplied (non-nil and non-zero).
func (p PackageDetails) HasWeight() bool {
	return (p.WeightLbs != nil && *p.WeightLbs != 0) || (p.WeightOz != nil && *p.WeightOz != 0)
}

// HasDimensions reports whether all three dimensions were supplied.
func (p PackageDetails) HasDimensions() bool {
	return p.Length != nil && *p.Length != 0 &&
		p.Width != nil && *p.Width != 0 &&
		p.Height != nil && *p.Height != 0
}

// ShipmentRecord is one parsed manifest row. The field names mirror the
// 23-column manifest layout; JSON tags are the stable wire names.
type ShipmentRecord struct {
	// Ship From (columns 0-6, phone in column 20)
	ShipFromFirstName string `json:"ship_from_first_name"`
	ShipFromLastName  string `json:"ship_from_last_name"`
	ShipFromStreet    string `json:"ship_from_address"`
	ShipFromStreet2   string `json:"ship_from_address2"`
	ShipFromCity      string `json:"ship_from_city"`
	ShipFromZip       string `json:"ship_from_zip"`
	ShipFromState     string `json:"ship_from_state"`
	ShipFromPhone     string `json:"ship_from_phone"`

	// Ship To (columns 7-13, phone in column 19)
	ShipToFirstName string `json:"ship_to_first_name"`
	ShipToLastName  string `json:"ship_to_last_name"`
	ShipToStreet    string `json:"ship_to_address"`
	ShipToStreet2   string `json:"ship_to_address2"`
	ShipToCity      string `json:"ship_to_city"`
	ShipToZip       string `json:"ship_to_zip"`
	ShipToState     string `json:"ship_to_state"`
	ShipToPhone     string `json:"ship_to_phone"`

	// Package (columns 14-18)
	WeightLbs *int     `json:"weight_lbs"`
	WeightOz  *int     `json:"weight_oz"`
	Length    *float64 `json:"length"`
	Width     *float64 `json:"width"`
	Height    *float64 `json:"height"`

	// Reference (columns 21-22)
	OrderNo string `json:"order_no"`
	ItemSKU string `json:"item_sku"`

	// RowNumber is the 1-based position of this row among the data
	// lines (everything after the two header rows), used for error
	// reporting. Blank skipped lines still consume a number.
	RowNumber int `json:"row_number"`

	// Populated by Validate.
	Status Status   `json:"status"`
	Issues []string `json:"validation_issues"`
}

// Package returns the record's package attributes.
func (r *ShipmentRecord) Package() PackageDetails {
	return PackageDetails{
		WeightLbs: r.WeightLbs,
		WeightOz:  r.WeightOz,
		Length:    r.Length,
		Width:     r.Width,
		Height:    r.Height,
	}
}

// SenderAddress returns the ship-from fields as an Address.
func (r *ShipmentRecord) SenderAddress() Address {
	return Address{
		FirstName: r.ShipFromFirstName,
		LastName:  r.ShipFromLastName,
		Street:    r.ShipFromStreet,
		Street2:   r.ShipFromStreet2,
		City:      r.ShipFromCity,
		State:     r.ShipFromState,
		Zip:       r.ShipFromZip,
		Phone:     r.ShipFromPhone,
	}
}

// SetSenderAddress writes addr onto the ship-from fields.
func (r *ShipmentRecord) SetSenderAddress(addr Address) {
	r.ShipFromFirstName = addr.FirstName
	r.ShipFromLastName = addr.LastName
	r.ShipFromStreet = addr.Street
	r.ShipFromStreet2 = addr.Street2
	r.ShipFromCity = addr.City
	r.ShipFromState = addr.State
	r.ShipFromZip = addr.Zip
	r.ShipFromPhone = addr.Phone
}

// RecipientAddress returns the ship-to fields as an Address.
func (r *ShipmentRecord) RecipientAddress() Address {
	return Address{
		FirstName: r.ShipToFirstName,
		LastName:  r.ShipToLastName,
		Street:    r.ShipToStreet,
		Street2:   r.ShipToStreet2,
		City:      r.ShipToCity,
		State:     r.ShipToState,
		Zip:       r.ShipToZip,
		Phone:     r.ShipToPhone,
	}
}

// escalate moves the record to status s only if s is strictly more
// severe than the current status.
func (r *ShipmentRecord) escalate(s Status) {
	if statusRank[s] > statusRank[r.Status] {
		r.Status = s
	}
}

// VerifySourceNone marks a shipment whose address could not be checked
// against any provider.
const VerifySourceNone = "none"

// VerificationOutcome is the result of checking an address against an
// external verification provider.
type VerificationOutcome struct {
	Verified   bool     `json:"verified"`
	Source     string   `json:"source"`
	Message    string   `json:"message"`
	Normalized *Address `json:"normalized_address,omitempty"`
}

// Shipment is the persisted form of a validated manifest row plus the
// fields the pipeline writes back after verification and pricing.
type Shipment struct {
	ID uuid.UUID `json:"id"`
	ShipmentRecord

	// Address verification (three scalars copied from the recipient's
	// VerificationOutcome).
	AddressVerifyStatus  string `json:"address_validation_status"`
	AddressVerifySource  string `json:"address_validation_source"`
	AddressVerifyMessage string `json:"address_validation_message"`

	// Shipping selection.
	ShippingService string `json:"shipping_service"`
	CalculatedPrice *Cents `json:"calculated_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewShipment wraps a validated record in a Shipment with a fresh id.
func NewShipment(rec ShipmentRecord) *Shipment {
	return &Shipment{
		ID:             uuid.New(),
		ShipmentRecord: rec,
	}
}

// SavedAddress is a reusable ship-from address. At most one should be
// marked as the default; the store falls back to the oldest entry when
// none is.
type SavedAddress struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Address
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SavedPackage is a reusable package preset.
type SavedPackage struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Length    float64   `json:"length"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	WeightLbs int       `json:"weight_lbs"`
	WeightOz  int       `json:"weight_oz"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Details returns the preset as optional package attributes for pricing.
func (p *SavedPackage) Details() PackageDetails {
	lbs, oz := p.WeightLbs, p.WeightOz
	l, w, h := p.Length, p.Width, p.Height
	return PackageDetails{
		WeightLbs: &lbs,
		WeightOz:  &oz,
		Length:    &l,
		Width:     &w,
		Height:    &h,
	}
}
