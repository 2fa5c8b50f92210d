package core

import (
	"reflect"
	"testing"
)

// completeRecord returns a record that passes every validation check.
func completeRecord() ShipmentRecord {
	return ShipmentRecord{
		ShipFromFirstName: "Jane",
		ShipFromLastName:  "Doe",
		ShipFromStreet:    "1 Sender St",
		ShipFromCity:      "Springfield",
		ShipFromState:     "IL",
		ShipFromZip:       "62701",
		ShipToFirstName:   "John",
		ShipToLastName:    "Smith",
		ShipToStreet:      "2 Recipient Ave",
		ShipToCity:        "Portland",
		ShipToState:       "OR",
		ShipToZip:         "97201",
		WeightLbs:         intPtr(2),
		Length:            floatPtr(10),
		Width:             floatPtr(8),
		Height:            floatPtr(6),
	}
}

func testDefaultAddress() *SavedAddress {
	return &SavedAddress{
		Name: "Warehouse",
		Address: Address{
			FirstName: "Acme",
			LastName:  "Fulfillment",
			Street:    "100 Depot Rd",
			City:      "Reno",
			State:     "NV",
			Zip:       "89501",
			Phone:     "555-0300",
		},
		IsDefault: true,
	}
}

func TestValidate_CompleteRecordIsValid(t *testing.T) {
	rec := completeRecord()
	Validate(&rec, nil)

	if rec.Status != StatusValid {
		t.Errorf("Status = %q, want %q", rec.Status, StatusValid)
	}
	if len(rec.Issues) != 0 {
		t.Errorf("Issues = %v, want none", rec.Issues)
	}
}

func TestValidate_BackfillsDefaultSender(t *testing.T) {
	rec := completeRecord()
	rec.ShipFromFirstName = ""
	rec.ShipFromLastName = ""
	rec.ShipFromStreet = ""
	rec.ShipFromCity = ""
	def := testDefaultAddress()

	Validate(&rec, def)

	if rec.Status != StatusDefaultApplied {
		t.Errorf("Status = %q, want %q", rec.Status, StatusDefaultApplied)
	}
	if rec.SenderAddress() != def.Address {
		t.Errorf("sender = %+v, want backfilled default %+v", rec.SenderAddress(), def.Address)
	}
	if len(rec.Issues) != 0 {
		t.Errorf("Issues = %v, want none on backfill", rec.Issues)
	}
}

func TestValidate_MissingSenderWithoutDefaultWarns(t *testing.T) {
	rec := completeRecord()
	rec.ShipFromFirstName = ""
	rec.ShipFromStreet = ""
	rec.ShipFromCity = ""

	Validate(&rec, nil)

	if rec.Status != StatusWarning {
		t.Errorf("Status = %q, want %q", rec.Status, StatusWarning)
	}
	if !reflect.DeepEqual(rec.Issues, []string{IssueMissingShipFrom}) {
		t.Errorf("Issues = %v, want [%q]", rec.Issues, IssueMissingShipFrom)
	}
}

func TestValidate_MissingRecipientIsError(t *testing.T) {
	rec := completeRecord()
	rec.ShipToFirstName = ""
	rec.ShipToLastName = ""
	rec.ShipToStreet = ""
	rec.ShipToCity = ""
	rec.ShipToState = ""
	rec.ShipToZip = ""

	Validate(&rec, nil)

	if rec.Status != StatusError {
		t.Errorf("Status = %q, want %q", rec.Status, StatusError)
	}
	want := []string{
		IssueMissingShipToName,
		IssueMissingShipToStreet,
		IssueMissingShipToCity,
		IssueMissingShipToState,
		IssueMissingShipToZip,
	}
	if !reflect.DeepEqual(rec.Issues, want) {
		t.Errorf("Issues = %v, want %v", rec.Issues, want)
	}
}

func TestValidate_ErrorOutranksWarning(t *testing.T) {
	rec := completeRecord()
	rec.ShipToZip = ""
	rec.WeightLbs = nil
	rec.Length = nil
	rec.Width = nil
	rec.Height = nil

	Validate(&rec, nil)

	if rec.Status != StatusError {
		t.Errorf("Status = %q, want %q", rec.Status, StatusError)
	}
	// All checks still run; issues accumulate in order.
	want := []string{IssueMissingShipToZip, IssueMissingWeightAndDims}
	if !reflect.DeepEqual(rec.Issues, want) {
		t.Errorf("Issues = %v, want %v", rec.Issues, want)
	}
}

func TestValidate_PackageGaps(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*ShipmentRecord)
		wantIssue string
	}{
		{
			name: "weight and dimensions missing",
			mutate: func(r *ShipmentRecord) {
				r.WeightLbs = nil
				r.WeightOz = nil
				r.Length = nil
				r.Width = nil
				r.Height = nil
			},
			wantIssue: IssueMissingWeightAndDims,
		},
		{
			name: "weight missing",
			mutate: func(r *ShipmentRecord) {
				r.WeightLbs = nil
				r.WeightOz = nil
			},
			wantIssue: IssueMissingWeight,
		},
		{
			name: "dimensions missing",
			mutate: func(r *ShipmentRecord) {
				r.Length = nil
				r.Width = nil
				r.Height = nil
			},
			wantIssue: IssueMissingDims,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := completeRecord()
			tt.mutate(&rec)
			Validate(&rec, nil)

			if rec.Status != StatusWarning {
				t.Errorf("Status = %q, want %q", rec.Status, StatusWarning)
			}
			if !reflect.DeepEqual(rec.Issues, []string{tt.wantIssue}) {
				t.Errorf("Issues = %v, want [%q]", rec.Issues, tt.wantIssue)
			}
		})
	}
}

func TestValidate_ZeroWeightCountsAsMissing(t *testing.T) {
	rec := completeRecord()
	rec.WeightLbs = intPtr(0)
	rec.WeightOz = intPtr(0)

	Validate(&rec, nil)

	if rec.Status != StatusWarning {
		t.Errorf("Status = %q, want %q", rec.Status, StatusWarning)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	rec := completeRecord()
	rec.ShipFromFirstName = ""
	rec.ShipFromStreet = ""
	rec.ShipFromCity = ""
	def := testDefaultAddress()

	Validate(&rec, def)
	first := rec

	// A second pass over the already backfilled record must not change
	// anything, in particular not downgrade default_applied.
	Validate(&rec, def)

	if !reflect.DeepEqual(rec, first) {
		t.Errorf("second Validate changed the record:\nfirst:  %+v\nsecond: %+v", first, rec)
	}
	if rec.Status != StatusDefaultApplied {
		t.Errorf("Status after revalidation = %q, want %q", rec.Status, StatusDefaultApplied)
	}
}

func TestValidate_ResetsPreviousState(t *testing.T) {
	rec := completeRecord()
	rec.Status = StatusError
	rec.Issues = []string{"stale issue"}

	Validate(&rec, nil)

	if rec.Status != StatusValid {
		t.Errorf("Status = %q, want %q", rec.Status, StatusValid)
	}
	if len(rec.Issues) != 0 {
		t.Errorf("Issues = %v, want stale issues cleared", rec.Issues)
	}
}
