// Package authclient wires the token verifier to the identity provider's
// key set endpoint.
package authclient

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Skotchmaster/facility_platform/pkg/config"
	"github.com/Skotchmaster/facility_platform/pkg/tokens"
)

const requestTimeout = 5 * time.Second

// NewHTTPClient returns the client used for key set downloads. Outgoing
// requests carry the caller's trace context.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: requestTimeout,
		Transport: otelhttp.NewTransport(&http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: requestTimeout,
		}),
	}
}

// NewVerifier builds a verifier for the configured user pool. Issuer and
// client checks are enabled only when the pool and client id are set.
func NewVerifier(cfg config.Auth, client *http.Client) *tokens.Verifier {
	if client == nil {
		client = NewHTTPClient()
	}
	keys := tokens.NewKeySet(cfg.KeySetURL(), cfg.RequestsPerMinute, client)

	var opts []tokens.Option
	if iss := cfg.Issuer(); iss != "" {
		opts = append(opts, tokens.WithIssuer(iss))
	}
	if cfg.ClientID != "" {
		opts = append(opts, tokens.WithClientID(cfg.ClientID))
	}
	return tokens.NewVerifier(keys, opts...)
}
