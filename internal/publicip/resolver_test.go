package publicip

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func textServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResolve_TrimsWhitespace(t *testing.T) {
	srv := textServer(t, "\n  192.0.2.1\n")
	resolver := New(WithEndpoints(Endpoint{URL: srv.URL}))

	ip, err := resolver.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ip != "192.0.2.1" {
		t.Errorf("ip = %q, want %q", ip, "192.0.2.1")
	}
}

func TestResolve_JSONEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"ip": "198.51.100.7"}`)
	}))
	t.Cleanup(srv.Close)
	resolver := New(WithEndpoints(Endpoint{URL: srv.URL, JSON: true}))

	ip, err := resolver.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ip != "198.51.100.7" {
		t.Errorf("ip = %q, want %q", ip, "198.51.100.7")
	}
}

func TestResolve_FallsBackToNextEndpoint(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(broken.Close)
	working := textServer(t, "203.0.113.9")

	resolver := New(WithEndpoints(
		Endpoint{URL: broken.URL},
		Endpoint{URL: working.URL},
	))

	ip, err := resolver.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ip != "203.0.113.9" {
		t.Errorf("ip = %q, want %q", ip, "203.0.113.9")
	}
}

func TestResolve_RejectsNonIPv4(t *testing.T) {
	srv := textServer(t, "2001:db8::1")
	resolver := New(WithEndpoints(Endpoint{URL: srv.URL}))

	if _, err := resolver.Resolve(context.Background()); err == nil {
		t.Fatal("expected an error for an IPv6 answer")
	}
}

func TestResolve_RejectsGarbage(t *testing.T) {
	srv := textServer(t, "<html>not an ip</html>")
	resolver := New(WithEndpoints(Endpoint{URL: srv.URL}))

	if _, err := resolver.Resolve(context.Background()); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestResolve_SlowEndpointTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		io.WriteString(w, "192.0.2.1")
	}))
	t.Cleanup(srv.Close)
	resolver := New(
		WithEndpoints(Endpoint{URL: srv.URL}),
		WithTimeout(50*time.Millisecond),
	)

	if _, err := resolver.Resolve(context.Background()); err == nil {
		t.Fatal("expected a timeout error from a slow endpoint")
	}
}

func TestResolve_AllEndpointsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	resolver := New(WithEndpoints(
		Endpoint{URL: srv.URL},
		Endpoint{URL: srv.URL, JSON: true},
	))

	if _, err := resolver.Resolve(context.Background()); err == nil {
		t.Fatal("expected an error when every endpoint fails")
	}
}
