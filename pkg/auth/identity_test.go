// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package auth

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestResolveIdentityDerivesTenant(t *testing.T) {
	tests := []struct {
		name       string
		serviceURL string
		tenantID   string
		wantTenant string
		wantURL    string
	}{
		{
			name:       "production host prefix",
			serviceURL: "https://abcdefgh.api.example/",
			wantTenant: "abcdefgh",
			wantURL:    "https://abcdefgh.api.example",
		},
		{
			name:       "production host with ten char tenant",
			serviceURL: "https://a123456789.api.tresorit.io",
			wantTenant: "a123456789",
			wantURL:    "https://a123456789.api.tresorit.io",
		},
		{
			name:       "hosted path suffix",
			serviceURL: "https://host-1.example/tenant-abcdefgh",
			wantTenant: "abcdefgh",
			wantURL:    "https://host-1.example/tenant-abcdefgh",
		},
		{
			name:       "hosted path suffix with trailing slash",
			serviceURL: "https://host-1.example/tenant-abcdefgh//",
			wantTenant: "abcdefgh",
			wantURL:    "https://host-1.example/tenant-abcdefgh",
		},
		{
			name:       "host prefix wins over path",
			serviceURL: "https://abcdefgh.api.example/tenant-zyxwvuts",
			wantTenant: "abcdefgh",
			wantURL:    "https://abcdefgh.api.example/tenant-zyxwvuts",
		},
		{
			name:       "explicit tenant skips derivation",
			serviceURL: "https://example.com/",
			tenantID:   "testtenant",
			wantTenant: "testtenant",
			wantURL:    "https://example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ResolveIdentity(tt.serviceURL, testAdminKey, tt.tenantID)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTenant, id.TenantID)
			assert.Equal(t, "admin@"+tt.wantTenant+".tresorit.io", id.AdminUserID)
			assert.Equal(t, tt.wantURL, id.ServiceURL)
			assert.True(t, ValidTenantID(id.TenantID))
			assert.Len(t, id.adminKey, 32)
		})
	}
}

func TestResolveIdentityRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		serviceURL string
		adminKey   string
		tenantID   string
		field      string
	}{
		{"short admin key", "https://abcdefgh.api.example", testAdminKey[2:], "", "adminKey"},
		{"non hex admin key", "https://abcdefgh.api.example", "no" + testAdminKey[2:], "", "adminKey"},
		{"empty admin key", "https://abcdefgh.api.example", "", "", "adminKey"},
		{"empty url", "", testAdminKey, "", "serviceUrl"},
		{"relative url", "abcdefgh.api.example", testAdminKey, "", "serviceUrl"},
		{"unsupported scheme", "badurl://bad.bad", testAdminKey, "", "serviceUrl"},
		{"unparsable url", "https://abc def.example/%zz", testAdminKey, "", "serviceUrl"},
		{"tenant with leading digits", "https://example.com", testAdminKey, "00testtest", "tenantId"},
		{"tenant too short", "https://example.com", testAdminKey, "nope", "tenantId"},
		{"tenant too long", "https://example.com", testAdminKey, "abcdefghijk", "tenantId"},
		{"tenant upper case", "https://example.com", testAdminKey, "Abcdefgh", "tenantId"},
		{"nothing derivable", "https://example.com/", testAdminKey, "", "tenantId not derivable"},
		{"hosted segment not last", "https://host-1.example/tenant-abcdefgh/api", testAdminKey, "", "tenantId not derivable"},
		{"ip host", "https://127.0.0.1:8443/", testAdminKey, "", "tenantId not derivable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ResolveIdentity(tt.serviceURL, tt.adminKey, tt.tenantID)
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Nil(t, id)
			assert.True(t, strings.HasSuffix(err.Error(), ": "+tt.field), "unexpected error %q", err)
		})
	}
}

func TestValidTenantID(t *testing.T) {
	assert.True(t, ValidTenantID("abcdefgh"))
	assert.True(t, ValidTenantID("a1b2c3d4e5"))
	assert.False(t, ValidTenantID("abcdefg"))
	assert.False(t, ValidTenantID("1bcdefgh"))
	assert.False(t, ValidTenantID("abcd-fgh"))
	assert.False(t, ValidTenantID(""))
}

func TestIdentityNeverLogsKey(t *testing.T) {
	id, err := ResolveIdentity("https://abcdefgh.api.example", testAdminKey, "")
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Info().Object("identity", id).Msg("resolved")

	out := buf.String()
	assert.Contains(t, out, `"tenant_id":"abcdefgh"`)
	assert.Contains(t, out, `"user_id":"admin@abcdefgh.tresorit.io"`)
	assert.NotContains(t, out, testAdminKey)
	assert.NotContains(t, id.String(), testAdminKey)
}
