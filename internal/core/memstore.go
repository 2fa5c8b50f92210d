package core

// memstore.go is an in-memory Store used by the test suite and the dev
// loop. It mirrors the semantics the Postgres store provides: insertion
// order is creation order, bulk writes are all-or-nothing per call, and
// lookups of missing ids return ErrNotFound.

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is a thread-safe in-memory Store.
type MemStore struct {
	mu        sync.RWMutex
	shipments []*Shipment
	addresses []*SavedAddress
	packages  []*SavedPackage
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (m *MemStore) CreateShipment(_ context.Context, s *Shipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	clone := *s
	m.shipments = append(m.shipments, &clone)
	return nil
}

func (m *MemStore) GetShipment(_ context.Context, id uuid.UUID) (*Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.shipments {
		if s.ID == id {
			clone := *s
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemStore) ListShipments(_ context.Context, f ShipmentFilter) ([]*Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Shipment
	for _, s := range m.shipments {
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.Search != "" && !matchesSearch(s, f.Search) {
			continue
		}
		clone := *s
		out = append(out, &clone)
	}
	// Newest first, matching the Postgres store's ORDER BY created_at DESC.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemStore) ShipmentsByIDs(_ context.Context, ids []uuid.UUID) ([]*Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*Shipment
	for _, s := range m.shipments {
		if want[s.ID] {
			clone := *s
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *MemStore) UpdateShipment(_ context.Context, s *Shipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.shipments {
		if existing.ID == s.ID {
			clone := *s
			clone.CreatedAt = existing.CreatedAt
			clone.UpdatedAt = time.Now()
			m.shipments[i] = &clone
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemStore) DeleteShipments(_ context.Context, ids []uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var kept []*Shipment
	var deleted int64
	for _, s := range m.shipments {
		if want[s.ID] {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	m.shipments = kept
	return deleted, nil
}

func (m *MemStore) AssignSenderAddress(_ context.Context, ids []uuid.UUID, addr Address) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var updated int64
	for _, s := range m.shipments {
		if want[s.ID] {
			s.SetSenderAddress(addr)
			s.UpdatedAt = time.Now()
			updated++
		}
	}
	return updated, nil
}

func (m *MemStore) AssignPackage(_ context.Context, ids []uuid.UUID, pkg PackageDetails) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var updated int64
	for _, s := range m.shipments {
		if want[s.ID] {
			s.WeightLbs = pkg.WeightLbs
			s.WeightOz = pkg.WeightOz
			s.Length = pkg.Length
			s.Width = pkg.Width
			s.Height = pkg.Height
			s.UpdatedAt = time.Now()
			updated++
		}
	}
	return updated, nil
}

func (m *MemStore) CreateAddress(_ context.Context, a *SavedAddress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	clone := *a
	m.addresses = append(m.addresses, &clone)
	return nil
}

func (m *MemStore) GetAddress(_ context.Context, id uuid.UUID) (*SavedAddress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.addresses {
		if a.ID == id {
			clone := *a
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemStore) ListAddresses(_ context.Context) ([]*SavedAddress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*SavedAddress, 0, len(m.addresses))
	for _, a := range m.addresses {
		clone := *a
		out = append(out, &clone)
	}
	return out, nil
}

func (m *MemStore) UpdateAddress(_ context.Context, a *SavedAddress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.addresses {
		if existing.ID == a.ID {
			clone := *a
			clone.CreatedAt = existing.CreatedAt
			clone.UpdatedAt = time.Now()
			m.addresses[i] = &clone
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemStore) DeleteAddress(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.addresses {
		if a.ID == id {
			m.addresses = append(m.addresses[:i], m.addresses[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemStore) DefaultAddress(_ context.Context) (*SavedAddress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.addresses {
		if a.IsDefault {
			clone := *a
			return &clone, nil
		}
	}
	if len(m.addresses) > 0 {
		clone := *m.addresses[0]
		return &clone, nil
	}
	return nil, nil
}

func (m *MemStore) CreatePackage(_ context.Context, p *SavedPackage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	clone := *p
	m.packages = append(m.packages, &clone)
	return nil
}

func (m *MemStore) GetPackage(_ context.Context, id uuid.UUID) (*SavedPackage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.packages {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemStore) ListPackages(_ context.Context) ([]*SavedPackage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*SavedPackage, 0, len(m.packages))
	for _, p := range m.packages {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (m *MemStore) UpdatePackage(_ context.Context, p *SavedPackage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.packages {
		if existing.ID == p.ID {
			clone := *p
			clone.CreatedAt = existing.CreatedAt
			clone.UpdatedAt = time.Now()
			m.packages[i] = &clone
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemStore) DeletePackage(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.packages {
		if p.ID == id {
			m.packages = append(m.packages[:i], m.packages[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// matchesSearch implements the free-text shipment search: order number
// plus recipient name, street, and city.
func matchesSearch(s *Shipment, query string) bool {
	q := strings.ToLower(query)
	for _, field := range []string{
		s.OrderNo,
		s.ShipToFirstName,
		s.ShipToLastName,
		s.ShipToStreet,
		s.ShipToCity,
	} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
