// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package client performs signed calls against the ZeroKit tenant admin API.
// A Client resolves the tenant identity once, signs every request with the
// admin key and turns non-2xx responses into either an *APIError, when the
// service answered with its {ErrorCode, ErrorMessage} envelope, or a
// *TransportError otherwise. Calls are never retried.
package client
