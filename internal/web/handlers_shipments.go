package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/core"
)

// pathID parses the {id} URL parameter as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, badRequest(fmt.Errorf("invalid id %q", raw))
	}
	return id, nil
}

func (s *Server) handleListShipments(w http.ResponseWriter, r *http.Request) {
	filter := core.ShipmentFilter{
		Status: core.Status(r.URL.Query().Get("status")),
		Search: r.URL.Query().Get("search"),
	}

	shipments, err := s.service.Store().ListShipments(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if shipments == nil {
		shipments = []*core.Shipment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"shipments": shipments,
		"count":     len(shipments),
	})
}

func (s *Server) handleGetShipment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	shipment, err := s.service.Store().GetShipment(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shipment)
}

// handleUpdateShipment applies a partial update to one shipment. The
// record is re-validated afterwards so the stored status always
// reflects the current field values, and any selected service is
// re-priced against the possibly changed package attributes.
func (s *Server) handleUpdateShipment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	store := s.service.Store()
	shipment, err := store.GetShipment(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	// Decoding over the fetched shipment merges supplied fields and
	// leaves the rest untouched.
	if err := json.NewDecoder(r.Body).Decode(shipment); err != nil {
		s.respondError(w, r, badRequest(fmt.Errorf("decode shipment: %w", err)))
		return
	}
	shipment.ID = id

	defaultSender, err := store.DefaultAddress(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	core.Validate(&shipment.ShipmentRecord, defaultSender)

	if shipment.ShippingService != "" && shipment.Package().HasWeight() {
		price, err := s.service.Quoter().Quote(shipment.ShippingService, shipment.Package())
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		shipment.CalculatedPrice = &price
	}

	if err := store.UpdateShipment(r.Context(), shipment); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shipment)
}

func (s *Server) handleDeleteShipment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	n, err := s.service.Store().DeleteShipments(r.Context(), []uuid.UUID{id})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if n == 0 {
		s.respondError(w, r, core.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
