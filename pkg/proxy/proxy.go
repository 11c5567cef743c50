// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-core-stack/zerokit-admin-client/pkg/auth"
	"github.com/go-core-stack/zerokit-admin-client/pkg/client"
)

// maxRequestBody bounds the payload accepted from local callers.
const maxRequestBody = 32 << 20

// hopHeaders lists standard hop-by-hop headers that must be stripped before a
// response is copied back to the local caller.
var hopHeaders = map[string]struct{}{
	"Connection":          {},
	"Proxy-Connection":    {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Te":                  {},
	"Trailer":             {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
	"Content-Length":      {},
}

// Proxy forwards local requests to the admin API as signed calls.
type Proxy struct {
	// client signs and performs the upstream calls.
	client *client.Client
	// logger emits structured logs for observability.
	logger zerolog.Logger
}

// New constructs a Proxy on top of an admin client.
func New(c *client.Client) http.Handler {
	return &Proxy{
		client: c,
		logger: log.With().Str("component", "proxy").Logger(),
	}
}

// ServeHTTP signs the inbound method, path, query and body and relays the
// admin API response.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	event := p.logger.With().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("remote_addr", r.RemoteAddr).
		Logger()

	if !auth.ValidMethod(r.Method) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		event.Warn().Msg("method not supported by admin api")
		return
	}

	payload, err := readPayload(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		event.Error().Err(err).Msg("read request body failed")
		return
	}

	resp, err := p.client.Call(r.Context(), r.Method, r.URL.RequestURI(), payload, r.Header.Get("Content-Type"))
	if err != nil {
		p.writeError(w, err)
		event.Error().
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("request failed")
		return
	}

	copyResponseHeaders(w.Header(), resp.Header)
	cleanHopHeaders(w.Header())
	w.WriteHeader(resp.StatusCode)

	if _, err := w.Write(resp.Body); err != nil {
		event.Error().
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("write response failed")
		return
	}

	event.Info().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request proxied")
}

// writeError maps a call failure to a local response. API errors are relayed
// with their original status and envelope.
func (p *Proxy) writeError(w http.ResponseWriter, err error) {
	var apiErr *client.APIError
	var transportErr *client.TransportError

	switch {
	case errors.As(err, &apiErr):
		w.Header().Set("Content-Type", client.ContentTypeJSON)
		w.WriteHeader(apiErr.StatusCode)
		if encodeErr := json.NewEncoder(w).Encode(map[string]string{
			"ErrorCode":    apiErr.Code,
			"ErrorMessage": apiErr.Message,
		}); encodeErr != nil {
			p.logger.Error().Err(encodeErr).Msg("write api error failed")
		}
	case errors.Is(err, auth.ErrInvalidConfig):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &transportErr) && transportErr.Timeout():
		http.Error(w, http.StatusText(http.StatusGatewayTimeout), http.StatusGatewayTimeout)
	default:
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
	}
}

// readPayload returns nil when the request carries no body.
func readPayload(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody+1))
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	if len(body) > maxRequestBody {
		return nil, fmt.Errorf("request body exceeds %d bytes", maxRequestBody)
	}
	if len(body) == 0 {
		return nil, nil
	}
	return body, nil
}

// cleanHopHeaders removes hop-by-hop headers that should not be forwarded.
func cleanHopHeaders(h http.Header) {
	for k := range hopHeaders {
		h.Del(k)
	}
}

// copyResponseHeaders mirrors headers from the upstream response to the writer.
func copyResponseHeaders(dst, src http.Header) {
	for k, vv := range src {
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
}
