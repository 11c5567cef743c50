// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-core-stack/zerokit-admin-client/pkg/auth"
)

// ContentTypeJSON is the content type of every JSON call.
const ContentTypeJSON = "application/json"

// EncodeJSON marshals a request payload and returns it together with the
// content type it has to be sent with.
func EncodeJSON(v any) ([]byte, string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, "", fmt.Errorf("%w: payload: %v", auth.ErrInvalidConfig, err)
	}
	return data, ContentTypeJSON, nil
}

// DoJSON sends payload as JSON (no body when payload is nil) and decodes the
// response into out. It reports false, leaving out untouched, when the
// response body is empty. Pass an *OrderedObject as out to keep the key order
// of the response.
func (c *Client) DoJSON(ctx context.Context, method, pathWithQuery string, payload, out any) (bool, error) {
	var body []byte
	contentType := ContentTypeJSON
	if payload != nil {
		var err error
		if body, contentType, err = EncodeJSON(payload); err != nil {
			return false, err
		}
	}

	raw, err := c.Do(ctx, method, pathWithQuery, body, contentType)
	if err != nil {
		return false, err
	}
	if len(raw) == 0 {
		return false, nil
	}
	if out == nil {
		return true, nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return true, nil
}

// CallJSON is DoJSON with a typed result. It returns nil when the response
// body is empty.
func CallJSON[T any](ctx context.Context, c *Client, method, pathWithQuery string, payload any) (*T, error) {
	out := new(T)
	found, err := c.DoJSON(ctx, method, pathWithQuery, payload, out)
	if err != nil || !found {
		return nil, err
	}
	return out, nil
}
