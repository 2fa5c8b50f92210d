package core

// Service wires the pipeline components together: parsing, validation,
// persistence, address verification, and pricing. It holds no mutable
// state of its own and is safe for concurrent use.
type Service struct {
	store    Store
	verifier AddressVerifier
	quoter   *Quoter

	// strictHeaders enables manifest header validation (fail fast on
	// column drift) instead of the positional compatibility mode.
	strictHeaders bool
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithStrictHeaders enables header validation during manifest parsing.
func WithStrictHeaders() ServiceOption {
	return func(s *Service) { s.strictHeaders = true }
}

// WithTiers replaces the default rate card.
func WithTiers(tiers []ServiceTier) ServiceOption {
	return func(s *Service) { s.quoter = NewQuoter(tiers) }
}

// NewService creates a Service over the given store and verifier.
func NewService(store Store, verifier AddressVerifier, opts ...ServiceOption) *Service {
	s := &Service{
		store:    store,
		verifier: verifier,
		quoter:   NewQuoter(DefaultTiers()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store exposes the persistence layer for the CRUD handlers.
func (s *Service) Store() Store {
	return s.store
}

// Quoter exposes the price quoter.
func (s *Service) Quoter() *Quoter {
	return s.quoter
}
