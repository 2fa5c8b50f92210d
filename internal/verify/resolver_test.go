package verify

import (
	"context"
	"errors"
	"testing"

	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/core"
)

// stubProvider answers with a fixed outcome or error and counts calls.
type stubProvider struct {
	name    string
	outcome core.VerificationOutcome
	err     error
	calls   int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Verify(_ context.Context, _ core.Address) (core.VerificationOutcome, error) {
	p.calls++
	return p.outcome, p.err
}

func affirmative(name string) *stubProvider {
	return &stubProvider{name: name, outcome: core.VerificationOutcome{
		Verified: true,
		Source:   name,
		Message:  "Address validated",
	}}
}

func negative(name string) *stubProvider {
	return &stubProvider{name: name, outcome: core.VerificationOutcome{
		Verified: false,
		Source:   name,
		Message:  "Address could not be validated",
	}}
}

func failing(name string) *stubProvider {
	return &stubProvider{name: name, err: errors.New("connection refused")}
}

func testAddr() core.Address {
	return core.Address{
		FirstName: "John",
		Street:    "2 Recipient Ave",
		City:      "Portland",
		State:     "OR",
		Zip:       "97201",
	}
}

func TestResolver_PrimaryAffirmativeShortCircuits(t *testing.T) {
	primary := affirmative("usps")
	secondary := affirmative("google")
	r := &Resolver{Primary: primary, Secondary: secondary}

	outcome := r.Verify(context.Background(), testAddr())

	if !outcome.Verified || outcome.Source != "usps" {
		t.Errorf("outcome = %+v, want verified by usps", outcome)
	}
	if secondary.calls != 0 {
		t.Errorf("secondary calls = %d, want 0", secondary.calls)
	}
}

func TestResolver_FallsBackOnTransportError(t *testing.T) {
	primary := failing("usps")
	secondary := affirmative("google")
	r := &Resolver{Primary: primary, Secondary: secondary}

	outcome := r.Verify(context.Background(), testAddr())

	if !outcome.Verified || outcome.Source != "google" {
		t.Errorf("outcome = %+v, want verified by google after usps failure", outcome)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", primary.calls, secondary.calls)
	}
}

func TestResolver_FallsBackOnNegativeAnswer(t *testing.T) {
	r := &Resolver{Primary: negative("usps"), Secondary: affirmative("google")}

	outcome := r.Verify(context.Background(), testAddr())

	if !outcome.Verified || outcome.Source != "google" {
		t.Errorf("outcome = %+v, want verified by google after usps negative", outcome)
	}
}

func TestResolver_ManualFallthrough(t *testing.T) {
	r := &Resolver{Primary: failing("usps"), Secondary: negative("google")}

	outcome := r.Verify(context.Background(), testAddr())

	if outcome.Verified {
		t.Error("outcome verified, want unverified fallthrough")
	}
	if outcome.Source != core.VerifySourceNone {
		t.Errorf("Source = %q, want %q", outcome.Source, core.VerifySourceNone)
	}
	if outcome.Message != "manual verification required" {
		t.Errorf("Message = %q, want manual verification required", outcome.Message)
	}
}

func TestResolver_NoProvidersConfigured(t *testing.T) {
	r := &Resolver{}

	outcome := r.Verify(context.Background(), testAddr())

	if outcome.Verified || outcome.Source != core.VerifySourceNone {
		t.Errorf("outcome = %+v, want unverified with source none", outcome)
	}
}

func TestResolver_DoesNotMutateInput(t *testing.T) {
	normalized := core.Address{Street: "2 RECIPIENT AVE", City: "PORTLAND", State: "OR", Zip: "97201"}
	primary := &stubProvider{name: "usps", outcome: core.VerificationOutcome{
		Verified:   true,
		Source:     "usps",
		Message:    "Address validated",
		Normalized: &normalized,
	}}
	r := &Resolver{Primary: primary}

	addr := testAddr()
	before := addr
	outcome := r.Verify(context.Background(), addr)

	if addr != before {
		t.Errorf("input mutated: %+v -> %+v", before, addr)
	}
	if outcome.Normalized == nil || outcome.Normalized.Street != "2 RECIPIENT AVE" {
		t.Errorf("Normalized = %+v, want the provider's normalized address", outcome.Normalized)
	}
}
