package core

// ingest.go is the batch orchestrator: it turns one uploaded manifest
// into zero or more persisted shipments plus a structured error report.
//
// Per record the sequence is parse -> validate (with default sender
// backfill) -> persist -> best-effort address verification -> initial
// price quote. Each row is isolated: a failure in persistence or pricing
// for one row is recorded against its row number and processing moves on.
// Partial success is the expected outcome of a dirty manifest, not a
// failure state. Only a manifest-level format problem aborts the batch,
// and it does so before any row is created.

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// RowError records one row that could not be turned into a shipment.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"error"`
}

// IngestResult reports the outcome of one manifest ingestion. Created
// ids and row errors both preserve manifest row order.
type IngestResult struct {
	Created []uuid.UUID `json:"shipment_ids"`
	Errors  []RowError  `json:"error_details"`
}

// Ingest parses, validates, persists, verifies, and prices every row of
// a manifest upload. The returned error is non-nil only for fatal
// manifest-level problems; row-level failures are in the result.
func (s *Service) Ingest(ctx context.Context, data []byte) (*IngestResult, error) {
	var records []ShipmentRecord
	var err error
	if s.strictHeaders {
		records, err = ParseManifestStrict(data)
	} else {
		records, err = ParseManifest(data)
	}
	if err != nil {
		return nil, err
	}

	// Default sender address is best-effort: ingestion proceeds without
	// one, records just validate to "warning" instead of backfilling.
	defaultSender, err := s.store.DefaultAddress(ctx)
	if err != nil {
		slog.Warn("default address lookup failed", "error", err)
		defaultSender = nil
	}

	result := &IngestResult{
		Created: []uuid.UUID{},
		Errors:  []RowError{},
	}
	for _, rec := range records {
		id, err := s.ingestRow(ctx, rec, defaultSender)
		if err != nil {
			slog.Error("row ingestion failed", "row", rec.RowNumber, "error", err)
			result.Errors = append(result.Errors, RowError{
				Row:     rec.RowNumber,
				Message: err.Error(),
			})
			continue
		}
		result.Created = append(result.Created, id)
	}

	slog.Info("manifest ingested",
		"created", len(result.Created),
		"failed", len(result.Errors),
	)
	return result, nil
}

// ingestRow runs one record through validate -> persist -> verify ->
// price. Verification can never fail the row; persistence and pricing
// can.
func (s *Service) ingestRow(ctx context.Context, rec ShipmentRecord, defaultSender *SavedAddress) (uuid.UUID, error) {
	Validate(&rec, defaultSender)

	shipment := NewShipment(rec)
	if err := s.store.CreateShipment(ctx, shipment); err != nil {
		return uuid.Nil, err
	}

	s.verifyShipment(ctx, shipment)

	// Price only when the manifest supplied some weight; a weightless
	// shipment keeps its pricing unset until a package is assigned.
	if shipment.Package().HasWeight() {
		tierID := s.quoter.Cheapest(shipment.Package())
		price, err := s.quoter.Quote(tierID, shipment.Package())
		if err != nil {
			return uuid.Nil, err
		}
		shipment.ShippingService = tierID
		shipment.CalculatedPrice = &price
	}

	if err := s.store.UpdateShipment(ctx, shipment); err != nil {
		return uuid.Nil, err
	}
	return shipment.ID, nil
}

// verifyShipment checks the recipient address (and, when present, the
// sender address) against the verification providers and writes the
// recipient outcome onto the shipment. Verification is best-effort and
// never blocks shipment creation.
func (s *Service) verifyShipment(ctx context.Context, shipment *Shipment) {
	if shipment.ShipToStreet != "" {
		outcome := s.verifier.Verify(ctx, shipment.RecipientAddress())
		applyOutcome(shipment, outcome)
	}

	if shipment.ShipFromStreet != "" {
		outcome := s.verifier.Verify(ctx, shipment.SenderAddress())
		if !outcome.Verified {
			slog.Debug("sender address unverified",
				"shipment_id", shipment.ID,
				"source", outcome.Source,
			)
		}
	}
}

// applyOutcome copies the three verification scalars onto the shipment.
func applyOutcome(shipment *Shipment, outcome VerificationOutcome) {
	if outcome.Verified {
		shipment.AddressVerifyStatus = "valid"
	} else {
		shipment.AddressVerifyStatus = "invalid"
	}
	shipment.AddressVerifySource = outcome.Source
	shipment.AddressVerifyMessage = outcome.Message
}
