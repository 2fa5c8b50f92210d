package verify

// google.go adapts the Google Address Validation API to the Provider
// contract: a JSON POST with the API key in the query string.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/core"
)

// googleBaseURL is the production Address Validation endpoint.
const googleBaseURL = "https://addressvalidation.googleapis.com/v1:validateAddress"

// GoogleProvider verifies addresses against the Google Address
// Validation API.
type GoogleProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGoogleProvider creates a Google provider with the given API key.
func NewGoogleProvider(apiKey string) *GoogleProvider {
	return &GoogleProvider{
		apiKey:  apiKey,
		baseURL: googleBaseURL,
		client:  &http.Client{},
	}
}

func (p *GoogleProvider) Name() string { return "google" }

type googleRequest struct {
	Address googlePostalAddress `json:"address"`
}

type googlePostalAddress struct {
	AddressLines       []string `json:"addressLines"`
	Locality           string   `json:"locality"`
	AdministrativeArea string   `json:"administrativeArea"`
	PostalCode         string   `json:"postalCode"`
	RegionCode         string   `json:"regionCode"`
}

type googleResponse struct {
	Result struct {
		Verdict struct {
			AddressComplete bool `json:"addressComplete"`
		} `json:"verdict"`
		Address struct {
			PostalAddress googlePostalAddress `json:"postalAddress"`
		} `json:"address"`
	} `json:"result"`
}

// Verify submits the address for validation. An addressComplete verdict
// is affirmative; anything else is negative-but-successful. Transport
// and HTTP-level failures return an error.
func (p *GoogleProvider) Verify(ctx context.Context, addr core.Address) (core.VerificationOutcome, error) {
	var lines []string
	if addr.Street != "" {
		lines = append(lines, addr.Street)
	}
	if addr.Street2 != "" {
		lines = append(lines, addr.Street2)
	}

	body, err := json.Marshal(googleRequest{
		Address: googlePostalAddress{
			AddressLines:       lines,
			Locality:           addr.City,
			AdministrativeArea: addr.State,
			PostalCode:         addr.Zip,
			RegionCode:         "US",
		},
	})
	if err != nil {
		return core.VerificationOutcome{}, fmt.Errorf("build google request: %w", err)
	}

	endpoint := p.baseURL + "?" + url.Values{"key": {p.apiKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return core.VerificationOutcome{}, fmt.Errorf("create google request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return core.VerificationOutcome{}, fmt.Errorf("google request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return core.VerificationOutcome{}, fmt.Errorf("google status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var decoded googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return core.VerificationOutcome{}, fmt.Errorf("decode google response: %w", err)
	}

	if !decoded.Result.Verdict.AddressComplete {
		return core.VerificationOutcome{
			Verified: false,
			Source:   p.Name(),
			Message:  "Address could not be validated",
		}, nil
	}

	validated := decoded.Result.Address.PostalAddress
	normalized := &core.Address{
		Street: strings.Join(validated.AddressLines, " "),
		City:   validated.Locality,
		State:  validated.AdministrativeArea,
		Zip:    validated.PostalCode,
	}
	return core.VerificationOutcome{
		Verified:   true,
		Source:     p.Name(),
		Message:    "Address validated",
		Normalized: normalized,
	}, nil
}
