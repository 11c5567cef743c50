// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package auth

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	HeaderUserID        = "UserId"
	HeaderDate          = "TresoritDate"
	HeaderContentType   = "Content-Type"
	HeaderContentSHA256 = "Content-SHA256"
	HeaderHMACHeaders   = "HMACHeaders"
	HeaderAuthorization = "Authorization"
	HeaderContentLength = "Content-length"

	// AuthScheme prefixes the signature in the Authorization header.
	AuthScheme = "AdminKey"

	// DateFormat is the second-precision UTC layout of TresoritDate.
	DateFormat = "2006-01-02T15:04:05Z"

	// EmptyContentSHA256 is the SHA-256 digest of zero bytes.
	EmptyContentSHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)

// SignedHeaderNames is the fixed HMACHeaders value. Its order must match the
// order in which SignedHeaders assembles the headers.
var SignedHeaderNames = strings.Join([]string{
	HeaderUserID,
	HeaderDate,
	HeaderContentType,
	HeaderContentSHA256,
	HeaderHMACHeaders,
}, ",")

// Signer computes admin-key signatures for a single identity.
type Signer struct {
	Identity *Identity
	Now      func() time.Time
}

// NewSigner constructs a signer for the identity using the UTC wall clock.
func NewSigner(identity *Identity) *Signer {
	return &Signer{
		Identity: identity,
		Now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Sign returns base64(HMAC-SHA256(adminKey, stringToSign)).
func (s *Signer) Sign(stringToSign string) (string, error) {
	if s.Identity == nil || len(s.Identity.adminKey) == 0 {
		return "", invalid("adminKey")
	}
	mac := hmac.New(sha256.New, s.Identity.adminKey)
	if _, err := mac.Write([]byte(stringToSign)); err != nil {
		return "", fmt.Errorf("compute signature: %w", err)
	}

	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// ContentSHA256 returns the lowercase hex SHA-256 digest of payload.
func ContentSHA256(payload []byte) string {
	if len(payload) == 0 {
		return EmptyContentSHA256
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// SignedHeaders assembles the signed header set for a request, followed by
// the Authorization and Content-length headers which are not part of the
// string-to-sign.
func (s *Signer) SignedHeaders(method, rawURL string, payload []byte, contentType string) (HeaderSet, error) {
	if s.Identity == nil {
		return nil, invalid("identity")
	}
	if payload != nil && contentType == "" {
		return nil, invalid("contentType")
	}

	headers := HeaderSet{}
	headers.Add(HeaderUserID, s.Identity.AdminUserID)
	headers.Add(HeaderDate, s.Now().UTC().Format(DateFormat))
	headers.Add(HeaderContentType, contentType)
	headers.Add(HeaderContentSHA256, ContentSHA256(payload))
	headers.Add(HeaderHMACHeaders, SignedHeaderNames)

	stringToSign, err := Canonicalize(method, rawURL, headers)
	if err != nil {
		return nil, err
	}

	signature, err := s.Sign(stringToSign)
	if err != nil {
		return nil, err
	}

	headers.Add(HeaderAuthorization, AuthScheme+" "+signature)
	headers.Add(HeaderContentLength, strconv.Itoa(len(payload)))

	return headers, nil
}

// AttachSignature mutates the request by injecting the signed headers
// computed from its method, URL, payload and content type. The request body
// is replaced with payload.
func (s *Signer) AttachSignature(req *http.Request, payload []byte, contentType string) error {
	headers, err := s.SignedHeaders(req.Method, req.URL.String(), payload, contentType)
	if err != nil {
		return err
	}

	// net/http writes Content-Length from the request itself, except for an
	// empty body on methods other than POST and PUT.
	headers.Without(HeaderContentLength).Apply(req.Header)
	if len(payload) == 0 && req.Method != http.MethodPost && req.Method != http.MethodPut {
		req.Header[HeaderContentLength] = []string{"0"}
	}

	req.ContentLength = int64(len(payload))
	if len(payload) > 0 {
		req.Body = io.NopCloser(bytes.NewReader(payload))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(payload)), nil
		}
	} else {
		req.Body = http.NoBody
		req.GetBody = func() (io.ReadCloser, error) { return http.NoBody, nil }
	}

	return nil
}
