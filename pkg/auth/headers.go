// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package auth

import "net/http"

// Header is a single name/value pair of a HeaderSet.
type Header struct {
	Name  string
	Value string
}

// HeaderSet is an ordered list of headers. The order is part of what gets
// signed, so it is kept exactly as headers were added.
type HeaderSet []Header

// Add appends a header, keeping insertion order.
func (h *HeaderSet) Add(name, value string) {
	*h = append(*h, Header{Name: name, Value: value})
}

// Get returns the value of the first header with the given name.
func (h HeaderSet) Get(name string) (string, bool) {
	for _, hdr := range h {
		if hdr.Name == name {
			return hdr.Value, true
		}
	}
	return "", false
}

// Names lists the header names in order.
func (h HeaderSet) Names() []string {
	names := make([]string, 0, len(h))
	for _, hdr := range h {
		names = append(names, hdr.Name)
	}
	return names
}

// Without returns a copy of the set with every header named name removed.
func (h HeaderSet) Without(name string) HeaderSet {
	out := make(HeaderSet, 0, len(h))
	for _, hdr := range h {
		if hdr.Name != name {
			out = append(out, hdr)
		}
	}
	return out
}

// Apply writes the headers into dst keeping the exact name case, since
// http.Header.Set would canonicalize e.g. "UserId" into "Userid".
func (h HeaderSet) Apply(dst http.Header) {
	for _, hdr := range h {
		dst[hdr.Name] = []string{hdr.Value}
	}
}
