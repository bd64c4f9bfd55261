package executor

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/studiowebux/itemconsole/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_SendsJSONContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/items", r.URL.Path)
		assert.Equal(t, ContentTypeJSON, r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"Widget"}`, string(body))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"Item created","id":"42"}`))
	}))
	defer server.Close()

	client, err := NewClient()
	require.NoError(t, err)

	result, err := client.Execute(context.Background(), &types.HttpRequest{
		Method: "POST",
		URL:    server.URL + "/items",
		Body:   `{"name":"Widget"}`,
	})

	require.NoError(t, err)
	assert.Equal(t, 200, result.Status)
	assert.Empty(t, result.Error)
	assert.Contains(t, result.Body, `"id":"42"`)
	assert.Equal(t, len(`{"name":"Widget"}`), result.RequestSize)
	assert.Equal(t, "application/json", result.Headers["Content-Type"])
}

func TestExecute_NetworkFailureIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient()
	require.NoError(t, err)

	result, err := client.Execute(context.Background(), &types.HttpRequest{Method: "GET", URL: url + "/items/1"})

	require.NoError(t, err)
	assert.Equal(t, types.StatusNetworkError, result.Status)
	assert.NotEmpty(t, result.Error)
}

func TestExecute_InvalidMethodFailsToBuild(t *testing.T) {
	client, err := NewClient()
	require.NoError(t, err)

	_, err = client.Execute(context.Background(), &types.HttpRequest{Method: "BAD METHOD", URL: "http://x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create request")
}

func TestExecute_WithTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(WithTimeout(50 * time.Millisecond))
	require.NoError(t, err)

	result, err := client.Execute(context.Background(), &types.HttpRequest{Method: "GET", URL: server.URL})

	require.NoError(t, err)
	assert.Equal(t, types.StatusNetworkError, result.Status)
	assert.NotEmpty(t, result.Error)
}

func TestNewClient_MissingCAFile(t *testing.T) {
	_, err := NewClient(WithTLSConfig(&types.TLSConfig{CAFile: "/does/not/exist.pem"}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read CA certificate")
}

// writeClientCert writes a self-signed client certificate and its key as PEM files
func writeClientCert(t *testing.T, dir string) (certFile, keyFile string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "itemconsole-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certFile = filepath.Join(dir, "client.pem")
	keyFile = filepath.Join(dir, "client-key.pem")
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0600))
	return certFile, keyFile
}

func TestExecute_ClientCertificate(t *testing.T) {
	server := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil || len(r.TLS.PeerCertificates) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"cn":"` + r.TLS.PeerCertificates[0].Subject.CommonName + `"}`))
	}))
	server.TLS = &tls.Config{ClientAuth: tls.RequireAnyClientCert}
	server.StartTLS()
	defer server.Close()

	dir := t.TempDir()
	caFile := filepath.Join(dir, "ca.pem")
	require.NoError(t, os.WriteFile(caFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: server.Certificate().Raw}), 0600))
	certFile, keyFile := writeClientCert(t, dir)

	client, err := NewClient(WithTLSConfig(&types.TLSConfig{CAFile: caFile, CertFile: certFile, KeyFile: keyFile}))
	require.NoError(t, err)

	result, err := client.Execute(context.Background(), &types.HttpRequest{Method: "GET", URL: server.URL + "/items/1"})
	require.NoError(t, err)
	assert.Equal(t, 200, result.Status)
	assert.JSONEq(t, `{"cn":"itemconsole-test"}`, result.Body)

	withoutCert, err := NewClient(WithTLSConfig(&types.TLSConfig{CAFile: caFile}))
	require.NoError(t, err)
	result, err = withoutCert.Execute(context.Background(), &types.HttpRequest{Method: "GET", URL: server.URL + "/items/1"})
	require.NoError(t, err)
	assert.Equal(t, types.StatusNetworkError, result.Status)
}

func TestNewClient_CertificateNeedsKey(t *testing.T) {
	certFile, keyFile := writeClientCert(t, t.TempDir())

	_, err := NewClient(WithTLSConfig(&types.TLSConfig{CertFile: certFile}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be set together")

	_, err = NewClient(WithTLSConfig(&types.TLSConfig{KeyFile: keyFile}))
	require.Error(t, err)

	_, err = NewClient(WithTLSConfig(&types.TLSConfig{CertFile: keyFile, KeyFile: keyFile}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load client certificate")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", FormatDuration(250))
	assert.Equal(t, "1.50s", FormatDuration(1500))
}

func TestStatusClassification(t *testing.T) {
	assert.True(t, IsSuccessStatus(200))
	assert.True(t, IsSuccessStatus(299))
	assert.False(t, IsSuccessStatus(300))
	assert.False(t, IsSuccessStatus(199))
	assert.True(t, IsClientErrorStatus(404))
	assert.True(t, IsServerErrorStatus(502))
	assert.False(t, IsServerErrorStatus(0))
}
