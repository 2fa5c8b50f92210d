package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/config"
	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/core"
)

// stubVerifier satisfies core.AddressVerifier with a fixed affirmative
// outcome.
type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, _ core.Address) core.VerificationOutcome {
	return core.VerificationOutcome{Verified: true, Source: "usps", Message: "Address validated"}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			RequestTimeout: time.Minute,
		},
		Upload: config.UploadConfig{MaxFileSize: 10 << 20},
	}
}

// newTestServer wires a Server over an in-memory store.
func newTestServer(t *testing.T) (*Server, *core.MemStore) {
	t.Helper()
	store := core.NewMemStore()
	service := core.NewService(store, stubVerifier{})
	return NewServer(service, testConfig()), store
}

// manifestCSV builds a minimal manifest: two header rows plus data rows
// of 23 positional columns each.
func manifestCSV(rows ...string) string {
	lines := append([]string{
		"Shipment Manifest",
		"Ship From First Name,Ship From Last Name,Ship From Address,Ship From Address 2,Ship From City,Ship From Zip,Ship From State,Ship To First Name,Ship To Last Name,Ship To Address,Ship To Address 2,Ship To City,Ship To Zip,Ship To State,Weight (lbs),Weight (oz),Length,Width,Height,Ship To Phone,Ship From Phone,Order Number,Item SKU",
	}, rows...)
	return strings.Join(lines, "\n")
}

// dataRow fills the 23 manifest columns from a sparse index map.
func dataRow(cells map[int]string) string {
	row := make([]string, 23)
	for i, v := range cells {
		row[i] = v
	}
	return strings.Join(row, ",")
}

func goodRow(order string) string {
	return dataRow(map[int]string{
		0: "Jane", 2: "1 Sender St", 4: "Springfield", 5: "62701", 6: "IL",
		7: "John", 9: "2 Recipient Ave", 11: "Portland", 12: "97201", 13: "OR",
		14: "2", 21: order,
	})
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rec.Body.String())
	}
}

func uploadManifest(t *testing.T, srv *Server, csv string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "manifest.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fmt.Fprint(fw, csv)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/shipments/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestUpload(t *testing.T) {
	srv, store := newTestServer(t)

	rec := uploadManifest(t, srv, manifestCSV(goodRow("ORD-1"), goodRow("ORD-2")))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Created      int             `json:"created"`
		Errors       int             `json:"errors"`
		ShipmentIDs  []uuid.UUID     `json:"shipment_ids"`
		ErrorDetails []core.RowError `json:"error_details"`
	}
	decodeBody(t, rec, &resp)

	if resp.Created != 2 || resp.Errors != 0 {
		t.Errorf("created/errors = %d/%d, want 2/0", resp.Created, resp.Errors)
	}
	if len(resp.ShipmentIDs) != 2 {
		t.Errorf("shipment_ids = %d, want 2", len(resp.ShipmentIDs))
	}

	shipments, _ := store.ListShipments(context.Background(), core.ShipmentFilter{})
	if len(shipments) != 2 {
		t.Errorf("persisted shipments = %d, want 2", len(shipments))
	}
}

func TestUpload_MissingFileField(t *testing.T) {
	srv, _ := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("note", "no file here")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/shipments/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpload_MissingHeadersIsBadRequest(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := uploadManifest(t, srv, "only one line")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400\nbody: %s", rec.Code, rec.Body.String())
	}

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Code != "FILE002" {
		t.Errorf("code = %q, want FILE002", resp.Code)
	}
}

func TestListShipments_StatusFilter(t *testing.T) {
	srv, _ := newTestServer(t)

	// One complete row and one with no recipient at all.
	uploadManifest(t, srv, manifestCSV(
		goodRow("ORD-1"),
		dataRow(map[int]string{0: "Jane", 2: "1 Sender St", 4: "Springfield"}),
	))

	rec := doJSON(t, srv, http.MethodGet, "/api/shipments?status=error", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Shipments []core.Shipment `json:"shipments"`
		Count     int             `json:"count"`
	}
	decodeBody(t, rec, &resp)
	if resp.Count != 1 {
		t.Fatalf("count = %d, want 1", resp.Count)
	}
	if resp.Shipments[0].Status != core.StatusError {
		t.Errorf("status = %q, want error", resp.Shipments[0].Status)
	}
}

func TestGetShipment_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/shipments/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/shipments/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status for malformed id = %d, want 400", rec.Code)
	}
}

func TestUpdateShipment_Revalidates(t *testing.T) {
	srv, store := newTestServer(t)
	uploadManifest(t, srv, manifestCSV(goodRow("ORD-1")))

	shipments, _ := store.ListShipments(context.Background(), core.ShipmentFilter{})
	id := shipments[0].ID

	rec := doJSON(t, srv, http.MethodPut, "/api/shipments/"+id.String(), map[string]any{
		"ship_to_zip": "",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	updated, _ := store.GetShipment(context.Background(), id)
	if updated.Status != core.StatusError {
		t.Errorf("status after clearing zip = %q, want error", updated.Status)
	}
}

func TestDeleteShipment(t *testing.T) {
	srv, store := newTestServer(t)
	uploadManifest(t, srv, manifestCSV(goodRow("ORD-1")))

	shipments, _ := store.ListShipments(context.Background(), core.ShipmentFilter{})
	id := shipments[0].ID

	rec := doJSON(t, srv, http.MethodDelete, "/api/shipments/"+id.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/shipments/"+id.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestBulkUpdate(t *testing.T) {
	srv, store := newTestServer(t)
	uploadManifest(t, srv, manifestCSV(goodRow("ORD-1"), goodRow("ORD-2")))

	shipments, _ := store.ListShipments(context.Background(), core.ShipmentFilter{})
	ids := []uuid.UUID{shipments[0].ID, shipments[1].ID}

	addr := &core.SavedAddress{Name: "Warehouse", Address: core.Address{
		FirstName: "Acme", Street: "100 Depot Rd", City: "Reno", State: "NV", Zip: "89501",
	}}
	if err := store.CreateAddress(context.Background(), addr); err != nil {
		t.Fatalf("CreateAddress: %v", err)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/shipments/bulk-update", map[string]any{
		"shipment_ids": ids,
		"address_id":   addr.ID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Updated int64 `json:"updated"`
	}
	decodeBody(t, rec, &resp)
	if resp.Updated != 2 {
		t.Errorf("updated = %d, want 2", resp.Updated)
	}
}

func TestBulkUpdate_RequiresIDs(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/api/shipments/bulk-update", map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestBulkUpdate_MissingAddressIs404(t *testing.T) {
	srv, store := newTestServer(t)
	uploadManifest(t, srv, manifestCSV(goodRow("ORD-1")))

	shipments, _ := store.ListShipments(context.Background(), core.ShipmentFilter{})

	rec := doJSON(t, srv, http.MethodPost, "/api/shipments/bulk-update", map[string]any{
		"shipment_ids": []uuid.UUID{shipments[0].ID},
		"address_id":   uuid.New(),
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListServices(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/services?weight_lbs=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Services []struct {
			ID    string  `json:"id"`
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		} `json:"services"`
	}
	decodeBody(t, rec, &resp)

	if len(resp.Services) != 2 {
		t.Fatalf("services = %d, want 2", len(resp.Services))
	}
	if resp.Services[0].ID != "ground_shipping" {
		t.Errorf("cheapest first = %q, want ground_shipping", resp.Services[0].ID)
	}
	if resp.Services[0].Price != 4.10 {
		t.Errorf("price = %v, want 4.10 dollars", resp.Services[0].Price)
	}
}

func TestListServices_BadParam(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/api/services?weight_lbs=heavy", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSelectService(t *testing.T) {
	srv, store := newTestServer(t)
	uploadManifest(t, srv, manifestCSV(goodRow("ORD-1")))

	shipments, _ := store.ListShipments(context.Background(), core.ShipmentFilter{})
	id := shipments[0].ID

	rec := doJSON(t, srv, http.MethodPost, "/api/services/bulk-update", map[string]any{
		"shipment_ids": []uuid.UUID{id},
		"service":      "priority_mail",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	updated, _ := store.GetShipment(context.Background(), id)
	if updated.ShippingService != "priority_mail" {
		t.Errorf("service = %q, want priority_mail", updated.ShippingService)
	}
}

func TestSelectService_UnknownTier(t *testing.T) {
	srv, store := newTestServer(t)
	uploadManifest(t, srv, manifestCSV(goodRow("ORD-1")))
	shipments, _ := store.ListShipments(context.Background(), core.ShipmentFilter{})

	rec := doJSON(t, srv, http.MethodPost, "/api/services/bulk-update", map[string]any{
		"shipment_ids": []uuid.UUID{shipments[0].ID},
		"service":      "overnight_rocket",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Code != "SVC001" {
		t.Errorf("code = %q, want SVC001", resp.Code)
	}
}

func TestPurchase_TermsGate(t *testing.T) {
	srv, store := newTestServer(t)
	uploadManifest(t, srv, manifestCSV(goodRow("ORD-1")))
	shipments, _ := store.ListShipments(context.Background(), core.ShipmentFilter{})
	ids := []uuid.UUID{shipments[0].ID}

	rec := doJSON(t, srv, http.MethodPost, "/api/purchase", map[string]any{
		"shipment_ids":   ids,
		"label_size":     "4x6",
		"terms_accepted": false,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status without terms = %d, want 400", rec.Code)
	}
	var errResp ErrorResponse
	decodeBody(t, rec, &errResp)
	if errResp.Code != "PUR001" {
		t.Errorf("code = %q, want PUR001", errResp.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/purchase", map[string]any{
		"shipment_ids":   ids,
		"label_size":     "4x6",
		"terms_accepted": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status with terms = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		OrderID       uuid.UUID `json:"order_id"`
		ShipmentCount int       `json:"shipment_count"`
		GrandTotal    float64   `json:"grand_total"`
		Message       string    `json:"message"`
	}
	decodeBody(t, rec, &resp)
	if resp.OrderID == uuid.Nil {
		t.Error("order_id is nil")
	}
	if resp.ShipmentCount != 1 {
		t.Errorf("shipment_count = %d, want 1", resp.ShipmentCount)
	}
	// 2 lbs on ground_shipping: $4.10.
	if resp.GrandTotal != 4.10 {
		t.Errorf("grand_total = %v, want 4.10", resp.GrandTotal)
	}
}

func TestAddressCRUD(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/addresses", map[string]any{
		"name":       "Warehouse",
		"first_name": "Acme",
		"address":    "100 Depot Rd",
		"city":       "Reno",
		"state":      "NV",
		"zip_code":   "89501",
		"is_default": true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201\nbody: %s", rec.Code, rec.Body.String())
	}
	var created core.SavedAddress
	decodeBody(t, rec, &created)
	if created.ID == uuid.Nil {
		t.Fatal("created address has nil id")
	}

	rec = doJSON(t, srv, http.MethodPut, "/api/addresses/"+created.ID.String(), map[string]any{
		"city": "Sparks",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/addresses/"+created.ID.String(), nil)
	var fetched core.SavedAddress
	decodeBody(t, rec, &fetched)
	if fetched.City != "Sparks" {
		t.Errorf("city = %q, want Sparks", fetched.City)
	}
	if fetched.Street != "100 Depot Rd" {
		t.Errorf("street = %q, want unchanged 100 Depot Rd", fetched.Street)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/addresses/"+created.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/addresses/"+created.ID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
}

func TestPackageCRUD(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/packages", map[string]any{
		"name":       "Small Box",
		"length":     6,
		"width":      6,
		"height":     4,
		"weight_lbs": 1,
		"weight_oz":  8,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201\nbody: %s", rec.Code, rec.Body.String())
	}
	var created core.SavedPackage
	decodeBody(t, rec, &created)
	if created.ID == uuid.Nil {
		t.Fatal("created package has nil id")
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/packages", nil)
	var list struct {
		Packages []core.SavedPackage `json:"packages"`
	}
	decodeBody(t, rec, &list)
	if len(list.Packages) != 1 {
		t.Errorf("packages = %d, want 1", len(list.Packages))
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/packages/"+created.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}
}

func TestValidateAddressesEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	uploadManifest(t, srv, manifestCSV(goodRow("ORD-1"), goodRow("ORD-2")))

	rec := doJSON(t, srv, http.MethodPost, "/api/shipments/validate-addresses", map[string]any{})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Validated int64 `json:"validated"`
	}
	decodeBody(t, rec, &resp)
	if resp.Validated != 2 {
		t.Errorf("validated = %d, want 2", resp.Validated)
	}
}

func TestBulkDeleteEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	uploadManifest(t, srv, manifestCSV(goodRow("ORD-1"), goodRow("ORD-2")))

	shipments, _ := store.ListShipments(context.Background(), core.ShipmentFilter{})
	ids := []uuid.UUID{shipments[0].ID, shipments[1].ID}

	rec := doJSON(t, srv, http.MethodPost, "/api/shipments/bulk-delete", map[string]any{
		"shipment_ids": ids,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Deleted int64 `json:"deleted"`
	}
	decodeBody(t, rec, &resp)
	if resp.Deleted != 2 {
		t.Errorf("deleted = %d, want 2", resp.Deleted)
	}
}
