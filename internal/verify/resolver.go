// Package verify checks shipment addresses against external
// verification providers with automatic fallback.
//
// The resolver tries the primary provider (USPS), then the secondary
// (Google Address Validation). Address correctness is best-effort and
// must never block shipment creation, so every provider failure is
// absorbed: a transport error or a negative answer just means "try the
// next provider", and when nothing answers affirmatively the outcome
// asks for manual verification. Each provider sits behind the same
// small contract, so either can be swapped or stubbed without touching
// the resolver's control flow.
package verify

import (
	"context"
	"log/slog"
	"time"

	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/core"
)

// DefaultTimeout bounds each outbound provider call.
const DefaultTimeout = 10 * time.Second

// Provider contract: check one address. A returned error signals a
// transport-level failure, which is distinct from a successful call
// that could not verify the address (Outcome.Verified == false).
type Provider interface {
	Name() string
	Verify(ctx context.Context, addr core.Address) (core.VerificationOutcome, error)
}

// Resolver verifies addresses through a primary provider with fallback
// to a secondary one. A nil provider means "not configured"; there is
// no empty-credential sentinel.
type Resolver struct {
	Primary   Provider
	Secondary Provider

	// Timeout applies per provider call. Zero means DefaultTimeout.
	Timeout time.Duration

	// Cache, when set, short-circuits repeat lookups of the same
	// address. Manifest uploads routinely repeat the ship-from address
	// on every row.
	Cache *OutcomeCache
}

// Verify checks addr against the configured providers. It never returns
// an error: unavailability is reported through the outcome itself. The
// input address is not mutated; a provider's normalized replacement, if
// any, rides along in the outcome.
func (r *Resolver) Verify(ctx context.Context, addr core.Address) core.VerificationOutcome {
	if r.Cache != nil {
		if outcome, ok := r.Cache.Get(ctx, addr); ok {
			return outcome
		}
	}

	for _, p := range []Provider{r.Primary, r.Secondary} {
		if p == nil {
			continue
		}
		outcome, err := r.tryProvider(ctx, p, addr)
		if err != nil {
			slog.Warn("address verification error",
				"provider", p.Name(),
				"city", addr.City,
				"state", addr.State,
				"error", err,
			)
			continue
		}
		if !outcome.Verified {
			slog.Warn("address verification negative",
				"provider", p.Name(),
				"message", outcome.Message,
			)
			continue
		}
		slog.Info("address verified",
			"provider", p.Name(),
			"city", addr.City,
			"state", addr.State,
		)
		if r.Cache != nil {
			r.Cache.Put(ctx, addr, outcome)
		}
		return outcome
	}

	return core.VerificationOutcome{
		Verified: false,
		Source:   core.VerifySourceNone,
		Message:  "manual verification required",
	}
}

func (r *Resolver) tryProvider(ctx context.Context, p Provider, addr core.Address) (core.VerificationOutcome, error) {
	timeout := r.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.Verify(ctx, addr)
}
