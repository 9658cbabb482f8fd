package cloudflare

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"time"

	"github.com/Esysc/cloudflare-ddns/internal/constants"
	"github.com/cloudflare/cloudflare-go/v6"
	"github.com/cloudflare/cloudflare-go/v6/option"
	"github.com/sirupsen/logrus"
)

// Per-call budget for API requests. The run is single-shot; a slow call is
// treated the same as any other transport failure.
const requestTimeout = 15 * time.Second

func UserAgent() string {
	return fmt.Sprintf("cloudflare-ddns/%s (%s; %s) +%s", constants.Version, runtime.GOOS, runtime.GOARCH, constants.ProjectURL)
}

// API wraps the Cloudflare SDK client with the three operations the updater
// needs. The update strategy (real PATCH vs dry-run simulation) is fixed at
// construction time.
type API struct {
	client  *cloudflare.Client
	log     *logrus.Logger
	update  updateFunc
	reqOpts []option.RequestOption
}

type Option func(*API)

// WithDryRun swaps the record update for a simulation that logs the intended
// mutation and performs no network I/O.
func WithDryRun() Option {
	return func(a *API) {
		a.update = a.simulateUpdate
	}
}

func WithLogger(log *logrus.Logger) Option {
	return func(a *API) {
		a.log = log
	}
}

// WithBaseURL points the SDK at a different API endpoint. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(a *API) {
		a.reqOpts = append(a.reqOpts, option.WithBaseURL(baseURL))
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(a *API) {
		a.reqOpts = append(a.reqOpts, option.WithHTTPClient(hc))
	}
}

func New(token string, opts ...Option) *API {
	a := &API{
		reqOpts: []option.RequestOption{
			option.WithAPIToken(token),
			option.WithHeader("User-Agent", UserAgent()),
			option.WithMaxRetries(0),
			option.WithRequestTimeout(requestTimeout),
		},
	}
	a.update = a.patchRecord
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logrus.New()
		a.log.SetOutput(io.Discard)
	}
	a.client = cloudflare.NewClient(a.reqOpts...)
	return a
}

// VerifyToken checks that the token authenticates against the API. Used by
// the login flow before the token is persisted.
func VerifyToken(ctx context.Context, token string) error {
	client := cloudflare.NewClient(
		option.WithAPIToken(token),
		option.WithHeader("User-Agent", UserAgent()),
		option.WithRequestTimeout(requestTimeout),
	)
	if _, err := client.User.Get(ctx); err != nil {
		return err
	}
	return nil
}
