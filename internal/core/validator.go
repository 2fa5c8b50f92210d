package core

// validator.go derives a status classification and issue list for one
// parsed manifest record.
//
// Every check runs; none short-circuits, because each contributes its own
// entry to the issues list. The final status is the most severe one any
// check assigned: error (broken recipient address) beats warning and
// default_applied, which beat valid. Validation is a pure function of the
// record plus the optional default sender address, so re-running it on
// its own output changes nothing.

// Issue strings surfaced to users. These are part of the stable API
// contract; do not reword without a migration plan.
const (
	IssueMissingShipToName    = "Missing Ship To name"
	IssueMissingShipToStreet  = "Missing Ship To address"
	IssueMissingShipToCity    = "Missing Ship To city"
	IssueMissingShipToState   = "Missing Ship To state"
	IssueMissingShipToZip     = "Missing Ship To ZIP code"
	IssueMissingShipFrom      = "Missing Ship From address"
	IssueMissingWeightAndDims = "Missing package weight and dimensions"
	IssueMissingWeight        = "Missing package weight"
	IssueMissingDims          = "Missing package dimensions"
)

// Validate classifies rec in place, backfilling the sender address from
// defaultSender when the record has none. defaultSender may be nil.
// It never fails; problems surface as data on the record itself.
func Validate(rec *ShipmentRecord, defaultSender *SavedAddress) {
	rec.Status = StatusValid
	rec.Issues = nil

	// Recipient address is required.
	if rec.ShipToFirstName == "" && rec.ShipToLastName == "" {
		rec.escalate(StatusError)
		rec.Issues = append(rec.Issues, IssueMissingShipToName)
	}
	if rec.ShipToStreet == "" {
		rec.escalate(StatusError)
		rec.Issues = append(rec.Issues, IssueMissingShipToStreet)
	}
	if rec.ShipToCity == "" {
		rec.escalate(StatusError)
		rec.Issues = append(rec.Issues, IssueMissingShipToCity)
	}
	if rec.ShipToState == "" {
		rec.escalate(StatusError)
		rec.Issues = append(rec.Issues, IssueMissingShipToState)
	}
	if rec.ShipToZip == "" {
		rec.escalate(StatusError)
		rec.Issues = append(rec.Issues, IssueMissingShipToZip)
	}

	// Sender address: missing means street-level absence, not partial
	// gaps. A missing sender is backfilled from the default when one is
	// configured, otherwise it is a warning.
	senderMissing := rec.ShipFromFirstName == "" && rec.ShipFromStreet == "" && rec.ShipFromCity == ""
	switch {
	case senderMissing && defaultSender != nil:
		rec.SetSenderAddress(defaultSender.Address)
		rec.escalate(StatusDefaultApplied)
	case senderMissing:
		rec.escalate(StatusWarning)
		rec.Issues = append(rec.Issues, IssueMissingShipFrom)
	case defaultSender != nil && rec.SenderAddress() == defaultSender.Address:
		// The sender fields match the default exactly: this record was
		// backfilled on an earlier pass. Classifying it as
		// default_applied again keeps validation idempotent.
		rec.escalate(StatusDefaultApplied)
	}

	// Package gaps are never fatal.
	pkg := rec.Package()
	switch {
	case !pkg.HasWeight() && !pkg.HasDimensions():
		rec.escalate(StatusWarning)
		rec.Issues = append(rec.Issues, IssueMissingWeightAndDims)
	case !pkg.HasWeight():
		rec.escalate(StatusWarning)
		rec.Issues = append(rec.Issues, IssueMissingWeight)
	case !pkg.HasDimensions():
		rec.escalate(StatusWarning)
		rec.Issues = append(rec.Issues, IssueMissingDims)
	}
}
