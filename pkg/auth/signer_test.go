// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package auth

import (
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()

	id, err := ResolveIdentity("https://abcdefgh.api.example", testAdminKey, "")
	require.NoError(t, err)

	signer := NewSigner(id)
	signer.Now = func() time.Time {
		return time.Unix(1_700_000_000, 0).UTC()
	}
	return signer
}

func TestSignerSign(t *testing.T) {
	signer := newTestSigner(t)

	got, err := signer.Sign("GET\nfoo")
	require.NoError(t, err)
	assert.Equal(t, "NIy1gqSDAbwmFvefdRnA6WLpmDzlZy6i1DwmREmi9uI=", got)

	again, err := signer.Sign("GET\nfoo")
	require.NoError(t, err)
	assert.Equal(t, got, again)

	changed, err := signer.Sign("GET\nfop")
	require.NoError(t, err)
	assert.NotEqual(t, got, changed)

	other, err := ResolveIdentity("https://abcdefgh.api.example", "1"+testAdminKey[1:], "")
	require.NoError(t, err)
	otherSig, err := NewSigner(other).Sign("GET\nfoo")
	require.NoError(t, err)
	assert.NotEqual(t, got, otherSig)
}

func TestSignerSignEmptyString(t *testing.T) {
	signer := newTestSigner(t)

	got, err := signer.Sign("")
	require.NoError(t, err)
	assert.Equal(t, "x7XhLsApqIcCKrvcZI+DgNsvQeRCIOwVMFU8JNgdL+4=", got)
}

func TestSignerSignRejectsInvalidInput(t *testing.T) {
	_ = newTestSigner(t)

	_, err := (&Signer{}).Sign("GET\nfoo")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestContentSHA256(t *testing.T) {
	assert.Equal(t, EmptyContentSHA256, ContentSHA256(nil))
	assert.Equal(t, EmptyContentSHA256, ContentSHA256([]byte{}))
	assert.Equal(t,
		"c22e0cb8cc0d094aafb2a88ee55c6db106ab1ee0f25641dd1717083932c9fe22",
		ContentSHA256([]byte(`{"UserId":"u1","Enable":true}`)))
}

func TestSignerSignedHeaders(t *testing.T) {
	signer := newTestSigner(t)

	headers, err := signer.SignedHeaders(http.MethodPost,
		"https://abcdefgh.api.example/api/v4/admin/user/init-user-registration", nil, "application/json")
	require.NoError(t, err)

	assert.Equal(t, []string{
		HeaderUserID,
		HeaderDate,
		HeaderContentType,
		HeaderContentSHA256,
		HeaderHMACHeaders,
		HeaderAuthorization,
		HeaderContentLength,
	}, headers.Names())

	want := map[string]string{
		HeaderUserID:        "admin@abcdefgh.tresorit.io",
		HeaderDate:          "2023-11-14T22:13:20Z",
		HeaderContentType:   "application/json",
		HeaderContentSHA256: EmptyContentSHA256,
		HeaderHMACHeaders:   "UserId,TresoritDate,Content-Type,Content-SHA256,HMACHeaders",
		HeaderAuthorization: "AdminKey btdf/2zwwMHMddL47LcK+44czLTC2gRQ0WGr8AiyOlA=",
		HeaderContentLength: "0",
	}
	for name, value := range want {
		got, ok := headers.Get(name)
		assert.True(t, ok, name)
		assert.Equal(t, value, got, name)
	}
}

func TestSignerSignedHeadersRequiresContentType(t *testing.T) {
	signer := newTestSigner(t)

	_, err := signer.SignedHeaders(http.MethodPost, "https://abcdefgh.api.example/x", []byte("body"), "")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = signer.SignedHeaders("PATCH", "https://abcdefgh.api.example/x", nil, "")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSignerAttachSignature(t *testing.T) {
	signer := newTestSigner(t)

	u, err := url.Parse("https://abcdefgh.api.example/api/v4/admin/tenant/upload-custom-content?fileName=css/login.css")
	require.NoError(t, err)

	req := &http.Request{
		Method: http.MethodPut,
		URL:    u,
		Header: make(http.Header),
	}

	payload := []byte("body { background-color: red; }")
	require.NoError(t, signer.AttachSignature(req, payload, "text/css"))

	assert.Equal(t, []string{"admin@abcdefgh.tresorit.io"}, req.Header["UserId"])
	assert.Equal(t, []string{"2023-11-14T22:13:20Z"}, req.Header["TresoritDate"])
	assert.Equal(t, []string{"text/css"}, req.Header["Content-Type"])
	assert.Equal(t,
		[]string{"ac05e05bbc5e5410e5c9e7531bbd20c45803d479bb10e5a6e9d3c61d40e3e811"},
		req.Header["Content-SHA256"])
	assert.Equal(t,
		[]string{"AdminKey YwpuDhbJItw6tp4vnjrXr+KWb0nz6rc7WH41xeg2Aus="},
		req.Header["Authorization"])
	assert.NotContains(t, req.Header, HeaderContentLength)
	assert.Equal(t, int64(len(payload)), req.ContentLength)

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, body)

	replay, err := req.GetBody()
	require.NoError(t, err)
	body, err = io.ReadAll(replay)
	require.NoError(t, err)
	assert.Equal(t, payload, body)
}

func TestSignerAttachSignatureEmptyBodyLength(t *testing.T) {
	signer := newTestSigner(t)

	tests := []struct {
		method     string
		wantHeader bool
	}{
		{http.MethodGet, true},
		{http.MethodHead, true},
		{http.MethodDelete, true},
		{http.MethodOptions, true},
		{http.MethodPost, false},
		{http.MethodPut, false},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			u, err := url.Parse("https://abcdefgh.api.example/api/v4/admin/user")
			require.NoError(t, err)
			req := &http.Request{Method: tt.method, URL: u, Header: make(http.Header)}

			require.NoError(t, signer.AttachSignature(req, nil, ""))

			assert.Equal(t, int64(0), req.ContentLength)
			if tt.wantHeader {
				assert.Equal(t, []string{"0"}, req.Header[HeaderContentLength])
			} else {
				assert.NotContains(t, req.Header, HeaderContentLength)
			}
		})
	}
}
