package core

// bulk.go implements the bulk mutation workflows over already-persisted
// shipments: assigning a saved address or package to many shipments,
// re-selecting the shipping service, re-running address verification,
// and the purchase (label generation stub) flow.
//
// The address and package sub-operations of a bulk update are
// independent: the store applies each atomically, and a not-found
// failure in one does not prevent the other from proceeding.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// BulkUpdateRequest targets a set of shipments with an optional saved
// address and/or saved package to apply.
type BulkUpdateRequest struct {
	ShipmentIDs []uuid.UUID `json:"shipment_ids"`
	AddressID   *uuid.UUID  `json:"address_id"`
	PackageID   *uuid.UUID  `json:"package_id"`
}

// BulkUpdate applies a saved ship-from address and/or a saved package
// preset to the targeted shipments. It returns the total number of
// shipment updates applied. When one sub-operation fails the other
// still runs; the returned error joins whatever failed.
func (s *Service) BulkUpdate(ctx context.Context, req BulkUpdateRequest) (int64, error) {
	var updated int64
	var addrErr, pkgErr error

	if req.AddressID != nil {
		addr, err := s.store.GetAddress(ctx, *req.AddressID)
		if err != nil {
			addrErr = fmt.Errorf("address %s: %w", req.AddressID, err)
		} else {
			n, err := s.store.AssignSenderAddress(ctx, req.ShipmentIDs, addr.Address)
			if err != nil {
				addrErr = err
			} else {
				updated += n
			}
		}
	}

	if req.PackageID != nil {
		pkg, err := s.store.GetPackage(ctx, *req.PackageID)
		if err != nil {
			pkgErr = fmt.Errorf("package %s: %w", req.PackageID, err)
		} else {
			n, err := s.assignPackage(ctx, req.ShipmentIDs, pkg)
			if err != nil {
				pkgErr = err
			} else {
				updated += n
			}
		}
	}

	return updated, errors.Join(addrErr, pkgErr)
}

// assignPackage writes the preset's package fields onto the shipments,
// then recomputes the price of every shipment that already has a
// service selected. Quotes are never carried over; weight changes
// invalidate them.
func (s *Service) assignPackage(ctx context.Context, ids []uuid.UUID, pkg *SavedPackage) (int64, error) {
	n, err := s.store.AssignPackage(ctx, ids, pkg.Details())
	if err != nil {
		return 0, err
	}

	shipments, err := s.store.ShipmentsByIDs(ctx, ids)
	if err != nil {
		return n, err
	}
	for _, shipment := range shipments {
		if shipment.ShippingService == "" {
			continue
		}
		price, err := s.quoter.Quote(shipment.ShippingService, shipment.Package())
		if err != nil {
			slog.Warn("reprice skipped", "shipment_id", shipment.ID, "error", err)
			continue
		}
		shipment.CalculatedPrice = &price
		if err := s.store.UpdateShipment(ctx, shipment); err != nil {
			return n, err
		}
	}
	return n, nil
}

// MostAffordable selects the cheapest tier per shipment instead of a
// fixed tier id in BulkSelectService.
const MostAffordable = "most_affordable"

// BulkSelectService sets the shipping service (a tier id, or
// MostAffordable to pick the cheapest per shipment) on the targeted
// shipments and recomputes each price. Returns the number updated.
func (s *Service) BulkSelectService(ctx context.Context, ids []uuid.UUID, service string) (int64, error) {
	if service != MostAffordable {
		if _, ok := s.quoter.Tier(service); !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownService, service)
		}
	}

	shipments, err := s.store.ShipmentsByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	var updated int64
	for _, shipment := range shipments {
		tierID := service
		if service == MostAffordable {
			tierID = s.quoter.Cheapest(shipment.Package())
		}
		price, err := s.quoter.Quote(tierID, shipment.Package())
		if err != nil {
			return updated, err
		}
		shipment.ShippingService = tierID
		shipment.CalculatedPrice = &price
		if err := s.store.UpdateShipment(ctx, shipment); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// BulkDelete removes the targeted shipments, returning the number
// deleted.
func (s *Service) BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return s.store.DeleteShipments(ctx, ids)
}

// VerifyShipments re-runs address verification for the targeted
// shipments, or for every shipment when ids is empty. Returns the
// number of shipments whose verification fields were refreshed.
// Provider outages never fail the call; affected shipments keep a
// "none" source for a later retry.
func (s *Service) VerifyShipments(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var shipments []*Shipment
	var err error
	if len(ids) == 0 {
		shipments, err = s.store.ListShipments(ctx, ShipmentFilter{})
	} else {
		shipments, err = s.store.ShipmentsByIDs(ctx, ids)
	}
	if err != nil {
		return 0, err
	}

	var verified int64
	for _, shipment := range shipments {
		if shipment.ShipToStreet == "" {
			continue
		}
		outcome := s.verifier.Verify(ctx, shipment.RecipientAddress())
		applyOutcome(shipment, outcome)
		if err := s.store.UpdateShipment(ctx, shipment); err != nil {
			return verified, err
		}
		verified++
	}
	return verified, nil
}

// PurchaseResult reports a completed purchase (label generation stub).
type PurchaseResult struct {
	OrderID       uuid.UUID `json:"order_id"`
	LabelSize     string    `json:"label_size"`
	ShipmentCount int       `json:"shipment_count"`
	GrandTotal    Cents     `json:"grand_total"`
	Message       string    `json:"message"`
}

// Purchase totals the selected shipments' computed prices and returns a
// generated order id. Real payment processing and label rendering live
// outside this service; the terms gate is enforced here so the request
// is rejected before any side effect.
func (s *Service) Purchase(ctx context.Context, ids []uuid.UUID, labelSize string, termsAccepted bool) (*PurchaseResult, error) {
	if !termsAccepted {
		return nil, ErrTermsNotAccepted
	}

	shipments, err := s.store.ShipmentsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var total Cents
	for _, shipment := range shipments {
		if shipment.CalculatedPrice != nil {
			total += *shipment.CalculatedPrice
		}
	}

	result := &PurchaseResult{
		OrderID:       uuid.New(),
		LabelSize:     labelSize,
		ShipmentCount: len(shipments),
		GrandTotal:    total,
		Message:       "Labels created successfully",
	}
	slog.Info("purchase completed",
		"order_id", result.OrderID,
		"shipments", result.ShipmentCount,
		"grand_total", result.GrandTotal.Dollars(),
	)
	return result, nil
}
