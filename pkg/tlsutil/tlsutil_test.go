package tlsutil

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLeaf(t *testing.T, path string) *x509.Certificate {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	block, _ := pem.Decode(data)
	require.NotNil(t, block)
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	return cert
}

func TestEnsureDevCertificates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "certs")

	certs, err := EnsureDevCertificates(dir, []string{"localhost", "127.0.0.1"})
	require.NoError(t, err)

	for _, path := range []string{certs.CAFile, certs.CertFile, certs.KeyFile} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.NotZero(t, info.Size(), path)
	}
	_, err = os.Stat(filepath.Join(dir, "ca-key.pem"))
	assert.True(t, os.IsNotExist(err), "CA key must not be written")

	keyInfo, err := os.Stat(certs.KeyFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), keyInfo.Mode().Perm())

	ca := readLeaf(t, certs.CAFile)
	leaf := readLeaf(t, certs.CertFile)
	assert.True(t, ca.IsCA)
	assert.NoError(t, leaf.VerifyHostname("localhost"))
	assert.NoError(t, leaf.VerifyHostname("127.0.0.1"))
	assert.NotEqual(t, 0, leaf.SerialNumber.Cmp(ca.SerialNumber))

	roots := x509.NewCertPool()
	roots.AddCert(ca)
	_, err = leaf.Verify(x509.VerifyOptions{
		Roots:     roots,
		DNSName:   "localhost",
		KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	})
	assert.NoError(t, err)
}

func TestEnsureDevCertificatesReuse(t *testing.T) {
	tests := []struct {
		name       string
		firstHosts []string
		thenHosts  []string
		reissued   bool
	}{
		{name: "same hosts reuse files", firstHosts: []string{"localhost"}, thenHosts: []string{"localhost"}, reissued: false},
		{name: "subset of hosts reuses files", firstHosts: []string{"localhost", "127.0.0.1"}, thenHosts: []string{"127.0.0.1"}, reissued: false},
		{name: "new host reissues", firstHosts: []string{"localhost"}, thenHosts: []string{"localhost", "assessment.internal"}, reissued: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			first, err := EnsureDevCertificates(dir, tt.firstHosts)
			require.NoError(t, err)
			before := readLeaf(t, first.CertFile)

			second, err := EnsureDevCertificates(dir, tt.thenHosts)
			require.NoError(t, err)
			after := readLeaf(t, second.CertFile)

			if tt.reissued {
				assert.NotEqual(t, 0, before.SerialNumber.Cmp(after.SerialNumber))
				for _, h := range tt.thenHosts {
					assert.NoError(t, after.VerifyHostname(h))
				}
			} else {
				assert.Equal(t, 0, before.SerialNumber.Cmp(after.SerialNumber))
			}
		})
	}
}

func TestEnsureDevCertificatesReplacesCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "server.pem"), []byte("garbage"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "server-key.pem"), []byte("garbage"), 0o600))

	certs, err := EnsureDevCertificates(dir, []string{"localhost"})
	require.NoError(t, err)

	_, err = tls.LoadX509KeyPair(certs.CertFile, certs.KeyFile)
	assert.NoError(t, err)
}

func TestEnsureDevCertificatesRequiresHost(t *testing.T) {
	_, err := EnsureDevCertificates(t.TempDir(), nil)
	assert.Error(t, err)
}

func TestReusableRejectsCertificateNearExpiry(t *testing.T) {
	dir := t.TempDir()
	certs, err := EnsureDevCertificates(dir, []string{"localhost"})
	require.NoError(t, err)

	assert.True(t, reusable(certs, []string{"localhost"}, time.Now()))
	assert.False(t, reusable(certs, []string{"localhost"}, time.Now().Add(devCertValidity)))
}

func TestCredentials(t *testing.T) {
	certs, err := EnsureDevCertificates(t.TempDir(), []string{"localhost"})
	require.NoError(t, err)

	serverCreds, err := ServerCredentials(certs.CertFile, certs.KeyFile)
	require.NoError(t, err)
	assert.Equal(t, "tls", serverCreds.Info().SecurityProtocol)

	clientCreds, err := ClientCredentials(ClientOptions{CAFile: certs.CAFile, ServerName: "localhost"})
	require.NoError(t, err)
	assert.Equal(t, "tls", clientCreds.Info().SecurityProtocol)
	assert.Equal(t, "localhost", clientCreds.Info().ServerName)

	systemRoots, err := ClientCredentials(ClientOptions{})
	require.NoError(t, err)
	assert.Equal(t, "tls", systemRoots.Info().SecurityProtocol)
}

func TestCredentialErrors(t *testing.T) {
	garbage := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(garbage, []byte("not a certificate"), 0o600))

	tests := []struct {
		name string
		run  func() error
	}{
		{name: "missing server key pair", run: func() error {
			_, err := ServerCredentials("/nonexistent/cert.pem", "/nonexistent/key.pem")
			return err
		}},
		{name: "missing CA file", run: func() error {
			_, err := ClientCredentials(ClientOptions{CAFile: "/nonexistent/ca.pem"})
			return err
		}},
		{name: "CA file without certificates", run: func() error {
			_, err := ClientCredentials(ClientOptions{CAFile: garbage})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.run())
		})
	}
}
