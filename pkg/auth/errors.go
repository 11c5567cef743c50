// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package auth

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned for malformed or contradictory input to
// identity resolution, canonicalization, or signing. It is always detected
// before any network activity.
var ErrInvalidConfig = errors.New("zerokit: invalid configuration")

// invalid wraps ErrInvalidConfig with the name of the offending input.
func invalid(field string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, field)
}
