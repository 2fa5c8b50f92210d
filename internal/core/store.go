package core

// store.go defines the persistence boundary for the pipeline. The core
// never owns a shipment's lifecycle; it reads fields from and writes
// specific fields back to whatever Store implementation it is given
// (Postgres in production, the in-memory store in tests).

import (
	"context"

	"github.com/google/uuid"
)

// ShipmentFilter narrows a shipment listing. Zero values mean "no
// filter". Search matches case-insensitively against the order number
// and the recipient's name, street, and city.
type ShipmentFilter struct {
	Status Status
	Search string
}

// Store is the persistence contract consumed by the Service.
//
// Bulk operations (AssignSenderAddress, AssignPackage, DeleteShipments)
// must apply atomically per call: a failure on one target id must not
// leave part of the id-set updated.
type Store interface {
	CreateShipment(ctx context.Context, s *Shipment) error
	GetShipment(ctx context.Context, id uuid.UUID) (*Shipment, error)
	ListShipments(ctx context.Context, f ShipmentFilter) ([]*Shipment, error)
	ShipmentsByIDs(ctx context.Context, ids []uuid.UUID) ([]*Shipment, error)
	UpdateShipment(ctx context.Context, s *Shipment) error
	DeleteShipments(ctx context.Context, ids []uuid.UUID) (int64, error)

	// AssignSenderAddress overwrites the ship-from fields on every
	// shipment in ids, returning the number touched.
	AssignSenderAddress(ctx context.Context, ids []uuid.UUID, addr Address) (int64, error)

	// AssignPackage overwrites the package fields on every shipment in
	// ids, returning the number touched.
	AssignPackage(ctx context.Context, ids []uuid.UUID, pkg PackageDetails) (int64, error)

	CreateAddress(ctx context.Context, a *SavedAddress) error
	GetAddress(ctx context.Context, id uuid.UUID) (*SavedAddress, error)
	ListAddresses(ctx context.Context) ([]*SavedAddress, error)
	UpdateAddress(ctx context.Context, a *SavedAddress) error
	DeleteAddress(ctx context.Context, id uuid.UUID) error

	// DefaultAddress returns the saved address marked is_default, the
	// oldest saved address when none is marked, or (nil, nil) when no
	// addresses exist at all.
	DefaultAddress(ctx context.Context) (*SavedAddress, error)

	CreatePackage(ctx context.Context, p *SavedPackage) error
	GetPackage(ctx context.Context, id uuid.UUID) (*SavedPackage, error)
	ListPackages(ctx context.Context) ([]*SavedPackage, error)
	UpdatePackage(ctx context.Context, p *SavedPackage) error
	DeletePackage(ctx context.Context, id uuid.UUID) error
}

// AddressVerifier checks an address against external verification
// providers. Implementations never fail; unavailability is reported
// through the outcome itself.
type AddressVerifier interface {
	Verify(ctx context.Context, addr Address) VerificationOutcome
}
