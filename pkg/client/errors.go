// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

// ErrTransport matches every *TransportError via errors.Is.
var ErrTransport = errors.New("zerokit: transport failure")

// TransportError reports a network failure, or a non-2xx response whose body
// is not the API error envelope. StatusCode is zero when no response was
// received.
type TransportError struct {
	StatusCode int
	Err        error
}

// Error implements the error interface for TransportError.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%v: %v", ErrTransport, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As checks.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Timeout reports whether the failure was a deadline or network timeout.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// APIError is a logical failure asserted by the service. Callers are
// expected to branch on Code.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	return fmt.Sprintf("zerokit: api error %s (status %d): %s", e.Code, e.StatusCode, e.Message)
}

// decodeAPIError returns nil unless body is a JSON object carrying both
// ErrorCode and ErrorMessage as strings. Key names must match exactly;
// encoding/json struct decoding would also accept "errorcode".
func decodeAPIError(status int, body []byte) *APIError {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}

	code, ok := envelopeString(envelope, "ErrorCode")
	if !ok {
		return nil
	}
	message, ok := envelopeString(envelope, "ErrorMessage")
	if !ok {
		return nil
	}

	return &APIError{
		StatusCode: status,
		Code:       code,
		Message:    message,
	}
}

func envelopeString(envelope map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := envelope[key]
	if !ok {
		return "", false
	}
	var value *string
	if err := json.Unmarshal(raw, &value); err != nil || value == nil {
		return "", false
	}
	return *value, true
}
