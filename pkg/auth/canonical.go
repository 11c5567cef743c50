// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package auth

import (
	"net/http"
	"net/url"
	"strings"
)

// Methods lists the HTTP methods accepted by the admin API.
var Methods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodOptions,
}

// ValidMethod reports whether method is one of Methods.
func ValidMethod(method string) bool {
	for _, m := range Methods {
		if m == method {
			return true
		}
	}
	return false
}

// Canonicalize builds the string-to-sign of a request:
//
//	{method}\n{path without leading slash}[?{raw query}]\n{name:value}\n...
//
// Headers are rendered in the order of the set.
func Canonicalize(method, rawURL string, headers HeaderSet) (string, error) {
	if !ValidMethod(method) {
		return "", invalid("method")
	}

	u, err := url.Parse(rawURL)
	if err != nil || (u.Path == "" && u.RawPath == "") {
		return "", invalid("url")
	}

	path := strings.TrimLeft(u.EscapedPath(), "/")
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	rendered := make([]string, 0, len(headers))
	for _, hdr := range headers {
		if hdr.Name == "" {
			return "", invalid("headers")
		}
		rendered = append(rendered, hdr.Name+":"+hdr.Value)
	}

	return method + "\n" + path + "\n" + strings.Join(rendered, "\n"), nil
}
