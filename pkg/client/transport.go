// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package client

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// newHTTPClient builds an http.Client that honours system proxies and keeps
// connections warm. Certificate and host name verification are always on.
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// skipsTLSVerification reports whether hc is known to accept any server
// certificate. Round trippers other than *http.Transport are trusted as given.
func skipsTLSVerification(hc *http.Client) bool {
	rt := hc.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	transport, ok := rt.(*http.Transport)
	if !ok || transport.TLSClientConfig == nil {
		return false
	}
	return transport.TLSClientConfig.InsecureSkipVerify
}
