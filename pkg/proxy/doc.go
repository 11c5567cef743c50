// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package proxy provides a local HTTP endpoint that turns unsigned requests
// from trusted local tools into signed ZeroKit admin API calls. The admin key
// never leaves the process; callers only see the upstream response or the
// API error envelope.
package proxy
