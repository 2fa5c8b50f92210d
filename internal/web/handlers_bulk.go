package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/core"
)

func (s *Server) handleBulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req core.BulkUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, badRequest(fmt.Errorf("decode bulk update: %w", err)))
		return
	}
	if len(req.ShipmentIDs) == 0 {
		s.respondError(w, r, badRequest(fmt.Errorf("shipment_ids is required")))
		return
	}

	updated, err := s.service.BulkUpdate(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}

type idsRequest struct {
	ShipmentIDs []uuid.UUID `json:"shipment_ids"`
}

func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, badRequest(fmt.Errorf("decode bulk delete: %w", err)))
		return
	}
	if len(req.ShipmentIDs) == 0 {
		s.respondError(w, r, badRequest(fmt.Errorf("shipment_ids is required")))
		return
	}

	deleted, err := s.service.BulkDelete(r.Context(), req.ShipmentIDs)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

// handleValidateAddresses re-runs address verification. An absent or
// empty shipment_ids list means every shipment.
func (s *Server) handleValidateAddresses(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, badRequest(fmt.Errorf("decode validate addresses: %w", err)))
		return
	}

	validated, err := s.service.VerifyShipments(r.Context(), req.ShipmentIDs)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"validated": validated})
}

// handleListServices quotes every service tier for the package described
// in the query string, cheapest first.
func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	pkg, err := packageFromQuery(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	quotes := s.service.Quoter().QuoteAll(pkg)
	writeJSON(w, http.StatusOK, map[string]any{"services": quotes})
}

// packageFromQuery builds package attributes from optional query
// parameters. Absent parameters stay nil.
func packageFromQuery(r *http.Request) (core.PackageDetails, error) {
	var pkg core.PackageDetails
	q := r.URL.Query()

	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"weight_lbs", &pkg.WeightLbs},
		{"weight_oz", &pkg.WeightOz},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return pkg, badRequest(fmt.Errorf("invalid %s %q", p.name, raw))
		}
		*p.dst = &v
	}

	for _, p := range []struct {
		name string
		dst  **float64
	}{
		{"length", &pkg.Length},
		{"width", &pkg.Width},
		{"height", &pkg.Height},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return pkg, badRequest(fmt.Errorf("invalid %s %q", p.name, raw))
		}
		*p.dst = &v
	}

	return pkg, nil
}

type selectServiceRequest struct {
	ShipmentIDs []uuid.UUID `json:"shipment_ids"`
	Service     string      `json:"service"`
}

func (s *Server) handleSelectService(w http.ResponseWriter, r *http.Request) {
	var req selectServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, badRequest(fmt.Errorf("decode service selection: %w", err)))
		return
	}
	if len(req.ShipmentIDs) == 0 {
		s.respondError(w, r, badRequest(fmt.Errorf("shipment_ids is required")))
		return
	}
	if req.Service == "" {
		s.respondError(w, r, badRequest(fmt.Errorf("service is required")))
		return
	}

	updated, err := s.service.BulkSelectService(r.Context(), req.ShipmentIDs, req.Service)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}

type purchaseRequest struct {
	ShipmentIDs   []uuid.UUID `json:"shipment_ids"`
	LabelSize     string      `json:"label_size"`
	TermsAccepted bool        `json:"terms_accepted"`
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, badRequest(fmt.Errorf("decode purchase: %w", err)))
		return
	}
	if len(req.ShipmentIDs) == 0 {
		s.respondError(w, r, badRequest(fmt.Errorf("shipment_ids is required")))
		return
	}

	result, err := s.service.Purchase(r.Context(), req.ShipmentIDs, req.LabelSize, req.TermsAccepted)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
