package verify

// usps.go adapts the USPS Address Validation API to the Provider
// contract. USPS takes an XML document in a query parameter of a GET
// request and answers with XML; all of that shaping stays inside this
// file.

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/core"
)

// uspsBaseURL is the production USPS shipping API endpoint.
const uspsBaseURL = "https://secure.shippingapis.com/ShippingAPI.dll"

// USPSProvider verifies addresses against the USPS API.
type USPSProvider struct {
	userID  string
	baseURL string
	client  *http.Client
}

// NewUSPSProvider creates a USPS provider with the given API user id.
func NewUSPSProvider(userID string) *USPSProvider {
	return &USPSProvider{
		userID:  userID,
		baseURL: uspsBaseURL,
		client:  &http.Client{},
	}
}

func (p *USPSProvider) Name() string { return "usps" }

type uspsAddressRequest struct {
	XMLName xml.Name    `xml:"AddressValidateRequest"`
	UserID  string      `xml:"USERID,attr"`
	Address uspsAddress `xml:"Address"`
}

// uspsAddress follows the USPS convention: Address1 is the secondary
// line (apt/suite), Address2 the street line.
type uspsAddress struct {
	Address1 string `xml:"Address1"`
	Address2 string `xml:"Address2"`
	City     string `xml:"City"`
	State    string `xml:"State"`
	Zip5     string `xml:"Zip5"`
	Zip4     string `xml:"Zip4"`
}

type uspsAddressResponse struct {
	XMLName xml.Name `xml:"AddressValidateResponse"`
	Address struct {
		Address1 string `xml:"Address1"`
		Address2 string `xml:"Address2"`
		City     string `xml:"City"`
		State    string `xml:"State"`
		Zip5     string `xml:"Zip5"`
		Error    *struct {
			Description string `xml:"Description"`
		} `xml:"Error"`
	} `xml:"Address"`
}

// Verify submits the address to USPS. A non-2xx response or transport
// failure returns an error; a USPS-level error in the payload is a
// negative-but-successful verification.
func (p *USPSProvider) Verify(ctx context.Context, addr core.Address) (core.VerificationOutcome, error) {
	zip5 := addr.Zip
	if len(zip5) > 5 {
		zip5 = zip5[:5]
	}
	payload, err := xml.Marshal(uspsAddressRequest{
		UserID: p.userID,
		Address: uspsAddress{
			Address1: addr.Street2,
			Address2: addr.Street,
			City:     addr.City,
			State:    addr.State,
			Zip5:     zip5,
		},
	})
	if err != nil {
		return core.VerificationOutcome{}, fmt.Errorf("build usps request: %w", err)
	}

	query := url.Values{}
	query.Set("API", "Verify")
	query.Set("XML", string(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return core.VerificationOutcome{}, fmt.Errorf("create usps request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return core.VerificationOutcome{}, fmt.Errorf("usps request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.VerificationOutcome{}, fmt.Errorf("read usps response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return core.VerificationOutcome{}, fmt.Errorf("usps status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// A top-level <Error> means the request itself was rejected.
	if strings.Contains(string(body), "<Error>") {
		var decoded uspsAddressResponse
		if err := xml.Unmarshal(body, &decoded); err == nil && decoded.Address.Error != nil {
			return core.VerificationOutcome{
				Verified: false,
				Source:   p.Name(),
				Message:  decoded.Address.Error.Description,
			}, nil
		}
		return core.VerificationOutcome{
			Verified: false,
			Source:   p.Name(),
			Message:  "USPS validation error",
		}, nil
	}

	var decoded uspsAddressResponse
	if err := xml.Unmarshal(body, &decoded); err != nil {
		return core.VerificationOutcome{}, fmt.Errorf("decode usps response: %w", err)
	}

	normalized := &core.Address{
		Street:  decoded.Address.Address2,
		Street2: decoded.Address.Address1,
		City:    decoded.Address.City,
		State:   decoded.Address.State,
		Zip:     decoded.Address.Zip5,
	}
	return core.VerificationOutcome{
		Verified:   true,
		Source:     p.Name(),
		Message:    "Address validated",
		Normalized: normalized,
	}, nil
}
