package web

// handlers_refs.go implements CRUD for the reusable references a user
// applies to shipments in bulk: saved ship-from addresses and saved
// package presets.

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/core"
)

func (s *Server) handleListAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := s.service.Store().ListAddresses(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if addresses == nil {
		addresses = []*core.SavedAddress{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"addresses": addresses})
}

func (s *Server) handleCreateAddress(w http.ResponseWriter, r *http.Request) {
	var addr core.SavedAddress
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		s.respondError(w, r, badRequest(fmt.Errorf("decode address: %w", err)))
		return
	}

	if err := s.service.Store().CreateAddress(r.Context(), &addr); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, addr)
}

func (s *Server) handleGetAddress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	addr, err := s.service.Store().GetAddress(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, addr)
}

func (s *Server) handleUpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	store := s.service.Store()
	addr, err := store.GetAddress(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(addr); err != nil {
		s.respondError(w, r, badRequest(fmt.Errorf("decode address: %w", err)))
		return
	}
	addr.ID = id

	if err := store.UpdateAddress(r.Context(), addr); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, addr)
}

func (s *Server) handleDeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.service.Store().DeleteAddress(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := s.service.Store().ListPackages(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if packages == nil {
		packages = []*core.SavedPackage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"packages": packages})
}

func (s *Server) handleCreatePackage(w http.ResponseWriter, r *http.Request) {
	var pkg core.SavedPackage
	if err := json.NewDecoder(r.Body).Decode(&pkg); err != nil {
		s.respondError(w, r, badRequest(fmt.Errorf("decode package: %w", err)))
		return
	}

	if err := s.service.Store().CreatePackage(r.Context(), &pkg); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pkg)
}

func (s *Server) handleGetPackage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	pkg, err := s.service.Store().GetPackage(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

func (s *Server) handleUpdatePackage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	store := s.service.Store()
	pkg, err := store.GetPackage(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(pkg); err != nil {
		s.respondError(w, r, badRequest(fmt.Errorf("decode package: %w", err)))
		return
	}
	pkg.ID = id

	if err := store.UpdatePackage(r.Context(), pkg); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

func (s *Server) handleDeletePackage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.service.Store().DeletePackage(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
