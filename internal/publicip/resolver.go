// Package publicip looks up the machine's current public IPv4 address from
// external IP-echo services.
package publicip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"time"

	"github.com/Esysc/cloudflare-ddns/internal/httpx"
	"github.com/sirupsen/logrus"
)

const defaultTimeout = 10 * time.Second

// Endpoint is one IP-echo service. Plain-text endpoints return the address
// as the whole body; JSON endpoints return {"ip": "..."}.
type Endpoint struct {
	URL  string
	JSON bool
}

func defaultEndpoints() []Endpoint {
	return []Endpoint{
		{URL: "https://api.ipify.org"},
		{URL: "https://api.ipify.org/?format=json", JSON: true},
	}
}

type Resolver struct {
	client    *httpx.Client
	endpoints []Endpoint
	log       *logrus.Logger
}

type Option func(*Resolver)

func WithEndpoints(endpoints ...Endpoint) Option {
	return func(r *Resolver) {
		if len(endpoints) > 0 {
			r.endpoints = endpoints
		}
	}
}

func WithLogger(log *logrus.Logger) Option {
	return func(r *Resolver) {
		r.log = log
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(r *Resolver) {
		r.client = httpx.New(timeout)
	}
}

func New(opts ...Option) *Resolver {
	r := &Resolver{
		client:    httpx.New(defaultTimeout),
		endpoints: defaultEndpoints(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logrus.New()
		r.log.SetOutput(io.Discard)
	}
	return r
}

// Resolve returns the current public IPv4 address as a dotted quad.
// Endpoints are tried in order; the first valid answer wins.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	var errs []error
	for _, endpoint := range r.endpoints {
		ip, err := r.lookup(ctx, endpoint)
		if err != nil {
			r.log.Debugf("public IP lookup via %s failed: %v", endpoint.URL, err)
			errs = append(errs, err)
			continue
		}
		return ip, nil
	}
	return "", fmt.Errorf("no public IP endpoint answered: %w", errors.Join(errs...))
}

func (r *Resolver) lookup(ctx context.Context, endpoint Endpoint) (string, error) {
	var raw string
	if endpoint.JSON {
		var body struct {
			IP string `json:"ip"`
		}
		if err := r.client.JSON(ctx, http.MethodGet, endpoint.URL, &body); err != nil {
			return "", err
		}
		raw = body.IP
	} else {
		var err error
		raw, err = r.client.Text(ctx, http.MethodGet, endpoint.URL)
		if err != nil {
			return "", err
		}
	}

	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return "", fmt.Errorf("error parsing IP address from response body: %w", err)
	}
	if !addr.Is4() {
		return "", fmt.Errorf("%s is not an IPv4 address", addr)
	}
	return addr.String(), nil
}
