// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package auth

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

const (
	adminKeyHexLen   = 64
	adminUserDomain  = ".tresorit.io"
	hostedPathPrefix = "tenant-"
	minTenantIDLen   = 8
	maxTenantIDLen   = 10
)

// Identity is the validated, immutable client configuration of a tenant
// admin. The admin key is kept as raw bytes and is never exposed again.
type Identity struct {
	ServiceURL  string
	TenantID    string
	AdminUserID string

	adminKey []byte
}

// ResolveIdentity validates the admin key and service URL and determines the
// tenant id. An empty tenantID requests derivation from the service URL.
func ResolveIdentity(serviceURL, adminKey, tenantID string) (*Identity, error) {
	if len(adminKey) != adminKeyHexLen {
		return nil, invalid("adminKey")
	}
	key, err := hex.DecodeString(adminKey)
	if err != nil {
		return nil, invalid("adminKey")
	}

	u, err := url.Parse(serviceURL)
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, invalid("serviceUrl")
	}

	if tenantID != "" {
		if !ValidTenantID(tenantID) {
			return nil, invalid("tenantId")
		}
	} else {
		id, ok := tenantFromHost(u)
		if !ok {
			id, ok = tenantFromPath(u)
		}
		if !ok {
			return nil, invalid("tenantId not derivable")
		}
		tenantID = id
	}

	return &Identity{
		ServiceURL:  strings.TrimRight(serviceURL, "/"),
		TenantID:    tenantID,
		AdminUserID: AdminUserID(tenantID),
		adminKey:    key,
	}, nil
}

// AdminUserID returns the admin user identity for a tenant.
func AdminUserID(tenantID string) string {
	return "admin@" + tenantID + adminUserDomain
}

// ValidTenantID reports whether id is one lowercase letter followed by 7 to 9
// lowercase letters or digits.
func ValidTenantID(id string) bool {
	if len(id) < minTenantIDLen || len(id) > maxTenantIDLen {
		return false
	}
	if id[0] < 'a' || id[0] > 'z' {
		return false
	}
	for i := 1; i < len(id); i++ {
		c := id[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// tenantFromHost matches the production layout https://{tenantId}.api.host/.
func tenantFromHost(u *url.URL) (string, bool) {
	label, rest, found := strings.Cut(u.Hostname(), ".")
	if !found || rest == "" || !ValidTenantID(label) {
		return "", false
	}
	return label, true
}

// tenantFromPath matches the hosted layout https://host/tenant-{tenantId}.
func tenantFromPath(u *url.URL) (string, bool) {
	path := strings.TrimRight(u.Path, "/")
	segment := path[strings.LastIndex(path, "/")+1:]
	id, found := strings.CutPrefix(segment, hostedPathPrefix)
	if !found || !ValidTenantID(id) {
		return "", false
	}
	return id, true
}

// String renders the identity without key material.
func (i *Identity) String() string {
	return fmt.Sprintf("%s (%s)", i.AdminUserID, i.ServiceURL)
}

// MarshalZerologObject lets the identity be logged without key material.
func (i *Identity) MarshalZerologObject(e *zerolog.Event) {
	e.Str("tenant_id", i.TenantID).
		Str("user_id", i.AdminUserID).
		Str("service_url", i.ServiceURL)
}
