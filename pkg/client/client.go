// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-core-stack/zerokit-admin-client/pkg/auth"
	"github.com/go-core-stack/zerokit-admin-client/pkg/config"
)

const defaultRequestTimeout = 15 * time.Second

// Client issues signed calls on behalf of a single tenant admin. It holds no
// mutable state and is safe for concurrent use.
type Client struct {
	// identity is the resolved tenant admin the calls are made as.
	identity *auth.Identity
	// signer computes the admin-key signature of every request.
	signer *auth.Signer
	// httpClient performs the round trips; TLS verification is never disabled.
	httpClient *http.Client
	// logger emits structured logs for observability.
	logger zerolog.Logger
}

type options struct {
	httpClient *http.Client
	logger     *zerolog.Logger
	now        func() time.Time
	timeout    time.Duration
}

// Option customizes a Client.
type Option func(*options)

// WithHTTPClient replaces the default transport. New rejects a client whose
// transport skips TLS certificate and host name verification.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithLogger sets the logger calls are reported to.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = &logger }
}

// WithClock overrides the clock used for the TresoritDate header.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithTimeout sets the request timeout of the default transport.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) { o.timeout = timeout }
}

// New resolves the tenant identity from the service URL, the 64 hex digit
// admin key and an optional tenant id, and returns a ready client.
func New(serviceURL, adminKey, tenantID string, opts ...Option) (*Client, error) {
	identity, err := auth.ResolveIdentity(serviceURL, adminKey, tenantID)
	if err != nil {
		return nil, err
	}

	o := options{timeout: defaultRequestTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	if o.httpClient != nil && skipsTLSVerification(o.httpClient) {
		return nil, fmt.Errorf("%w: httpClient", auth.ErrInvalidConfig)
	}

	c := &Client{
		identity:   identity,
		signer:     auth.NewSigner(identity),
		httpClient: o.httpClient,
	}
	if c.httpClient == nil {
		c.httpClient = newHTTPClient(o.timeout)
	}
	if o.now != nil {
		c.signer.Now = o.now
	}
	if o.logger != nil {
		c.logger = o.logger.With().Str("component", "zerokit-client").Logger()
	} else {
		c.logger = log.With().Str("component", "zerokit-client").Logger()
	}

	c.logger.Debug().Object("identity", identity).Msg("admin client ready")

	return c, nil
}

// NewFromConfig builds a client from loaded runtime configuration.
func NewFromConfig(cfg config.Config, opts ...Option) (*Client, error) {
	if cfg.RequestTimeout > 0 {
		opts = append([]Option{WithTimeout(cfg.RequestTimeout)}, opts...)
	}
	return New(cfg.ServiceURL, cfg.AdminKey, cfg.TenantID, opts...)
}

// Identity returns the resolved tenant admin identity.
func (c *Client) Identity() *auth.Identity {
	return c.identity
}

// Call performs a signed request against pathWithQuery, relative to the
// service URL. A nil payload sends no body. The response is returned only
// when its status is 2xx; otherwise the error is an *APIError or a
// *TransportError.
func (c *Client) Call(ctx context.Context, method, pathWithQuery string, payload []byte, contentType string) (*Response, error) {
	if !auth.ValidMethod(method) {
		return nil, fmt.Errorf("%w: method", auth.ErrInvalidConfig)
	}
	if payload != nil && contentType == "" {
		return nil, fmt.Errorf("%w: contentType", auth.ErrInvalidConfig)
	}

	target := c.identity.ServiceURL + "/" + strings.TrimLeft(pathWithQuery, "/")

	event := c.logger.With().
		Str("call_id", uuid.NewString()).
		Str("method", method).
		Str("path", pathWithQuery).
		Logger()

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: endpointPathWithQuery", auth.ErrInvalidConfig)
	}

	if err := c.signer.AttachSignature(req, payload, contentType); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		event.Error().
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("admin call failed")
		return nil, &TransportError{Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			event.Error().
				Err(closeErr).
				Msg("close response body failed")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("read response body: %w", err),
		}
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}

	if !out.Success() {
		if apiErr := decodeAPIError(out.StatusCode, body); apiErr != nil {
			event.Warn().
				Int("status", out.StatusCode).
				Str("error_code", apiErr.Code).
				Dur("duration", time.Since(start)).
				Msg("admin api returned error")
			return nil, apiErr
		}
		event.Error().
			Int("status", out.StatusCode).
			Dur("duration", time.Since(start)).
			Msg("admin call failed without api error")
		return nil, &TransportError{
			StatusCode: out.StatusCode,
			Err:        fmt.Errorf("unrecognized failure, status=%d", out.StatusCode),
		}
	}

	event.Debug().
		Int("status", out.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("admin call succeeded")

	return out, nil
}

// Do performs a signed request and returns the raw response body.
func (c *Client) Do(ctx context.Context, method, pathWithQuery string, payload []byte, contentType string) ([]byte, error) {
	resp, err := c.Call(ctx, method, pathWithQuery, payload, contentType)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
