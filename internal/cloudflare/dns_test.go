package cloudflare

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Esysc/cloudflare-ddns/internal/config"
	"github.com/Esysc/cloudflare-ddns/internal/ddns"
	"github.com/cloudflare/cloudflare-go/v6"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestAPI(t *testing.T, handler http.Handler, opts ...Option) *API {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithLogger(testLogger())}, opts...)
	return New("fake-token", opts...)
}

func writeEnvelope(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

// --- Zone lookup ---

func TestZoneIDByName(t *testing.T) {
	var gotName string
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotName = r.URL.Query().Get("name")
		writeEnvelope(w, http.StatusOK, `{
			"success": true, "errors": [], "messages": [],
			"result": [{"id": "zone123", "name": "example.com"}],
			"result_info": {"page": 1, "per_page": 20, "count": 1, "total_count": 1}
		}`)
	}))

	zoneID, err := api.ZoneIDByName(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zoneID != "zone123" {
		t.Errorf("zoneID = %q, want %q", zoneID, "zone123")
	}
	if gotName != "example.com" {
		t.Errorf("name filter = %q, want %q", gotName, "example.com")
	}
}

func TestZoneIDByName_NotFound(t *testing.T) {
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, `{
			"success": true, "errors": [], "messages": [], "result": [],
			"result_info": {"page": 1, "per_page": 20, "count": 0, "total_count": 0}
		}`)
	}))

	zoneID, err := api.ZoneIDByName(context.Background(), "missing.example")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zoneID != "" {
		t.Errorf("zoneID = %q, want empty", zoneID)
	}
}

func TestZoneIDByName_ForbiddenPropagates(t *testing.T) {
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusForbidden, `{
			"success": false,
			"errors": [{"code": 9109, "message": "Unauthorized to access requested resource"}],
			"messages": [], "result": null
		}`)
	}))

	_, err := api.ZoneIDByName(context.Background(), "example.com")
	var apiErr *cloudflare.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected the error response to propagate, got: %v", err)
	}
}

func TestZoneIDByName_TransportErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	api := New("fake-token", WithBaseURL(url), WithLogger(testLogger()))

	_, err := api.ZoneIDByName(context.Background(), "example.com")
	if err == nil {
		t.Fatal("expected a transport error from a closed server")
	}
}

// --- Record listing ---

func TestListARecords(t *testing.T) {
	var gotQuery map[string]string
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"name.exact": r.URL.Query().Get("name.exact"),
			"type":       r.URL.Query().Get("type"),
		}
		writeEnvelope(w, http.StatusOK, `{
			"success": true, "errors": [], "messages": [],
			"result": [
				{"id": "rec1", "name": "host.example.com", "type": "A", "content": "192.0.2.1"},
				{"id": "rec2", "name": "host.example.com", "type": "A", "content": "192.0.2.2"}
			],
			"result_info": {"page": 1, "per_page": 100, "count": 2, "total_count": 2}
		}`)
	}))

	records, err := api.ListARecords(context.Background(), "zone123", "host.example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].ID != "rec1" || records[0].Content != "192.0.2.1" || records[0].Type != "A" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	want := map[string]string{"name.exact": "host.example.com", "type": "A"}
	if diff := cmp.Diff(want, gotQuery); diff != "" {
		t.Errorf("query params mismatch (-want +got):\n%s", diff)
	}
}

func TestListARecords_ErrorResponsePropagates(t *testing.T) {
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusBadRequest, `{
			"success": false,
			"errors": [{"code": 7003, "message": "Could not route to dns_records"}],
			"messages": [], "result": null
		}`)
	}))

	_, err := api.ListARecords(context.Background(), "badzone", "host.example.com")
	var apiErr *cloudflare.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected the error response to propagate, got: %v", err)
	}
}

type staticResolver struct{ ip string }

func (s staticResolver) Resolve(_ context.Context) (string, error) { return s.ip, nil }

// An auth failure must surface as a network error, never as "zone not found"
// or "no records".
func TestReconcile_AuthFailureIsNetworkError(t *testing.T) {
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusForbidden, `{
			"success": false,
			"errors": [{"code": 9109, "message": "Unauthorized to access requested resource"}],
			"messages": [], "result": null
		}`)
	}))
	cfg := config.Config{
		APIToken:   "fake-token",
		ZoneName:   "example.com",
		RecordName: "host.example.com",
	}

	code := ddns.Run(context.Background(), cfg, api, staticResolver{ip: "192.0.2.100"}, testLogger())

	if code != ddns.ExitNetworkError {
		t.Errorf("code = %d, want %d", code, ddns.ExitNetworkError)
	}
}

// --- Record update ---

func TestUpdateRecordContent_PatchesOnlyContent(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		writeEnvelope(w, http.StatusOK, `{
			"success": true, "errors": [], "messages": [],
			"result": {"id": "rec1", "name": "host.example.com", "type": "A", "content": "192.0.2.100"}
		}`)
	}))

	record, err := api.UpdateRecordContent(context.Background(), "zone123", "rec1", "192.0.2.100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPatch {
		t.Errorf("method = %s, want PATCH", gotMethod)
	}
	if gotPath != "/zones/zone123/dns_records/rec1" {
		t.Errorf("path = %q", gotPath)
	}
	if diff := cmp.Diff(map[string]any{"content": "192.0.2.100"}, gotBody); diff != "" {
		t.Errorf("PATCH body mismatch (-want +got):\n%s", diff)
	}
	if record.Content != "192.0.2.100" || record.ID != "rec1" {
		t.Errorf("unexpected record: %+v", record)
	}
}

func TestUpdateRecordContent_DryRunMakesNoRequests(t *testing.T) {
	requests := 0
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}), WithDryRun())

	record, err := api.UpdateRecordContent(context.Background(), "zone123", "rec1", "192.0.2.100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requests != 0 {
		t.Errorf("requests = %d, want 0 in dry-run mode", requests)
	}
	if record.ID != "rec1" || record.Content != "192.0.2.100" {
		t.Errorf("unexpected synthetic record: %+v", record)
	}
}
