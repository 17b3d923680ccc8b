// Package tlsutil loads gRPC transport credentials for the assessment service
// and its clients, and issues a throwaway CA plus server certificate for
// development deployments.
package tlsutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"slices"
	"time"

	"google.golang.org/grpc/credentials"
)

const (
	devCAFile   = "ca.pem"
	devCertFile = "server.pem"
	devKeyFile  = "server-key.pem"

	devCAValidity   = 365 * 24 * time.Hour
	devCertValidity = 90 * 24 * time.Hour
	// devRenewBefore is how close to expiry a reused certificate may be.
	devRenewBefore = 24 * time.Hour
)

// ServerCredentials loads a certificate and key for a gRPC server.
func ServerCredentials(certFile, keyFile string) (credentials.TransportCredentials, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: load server key pair: %w", err)
	}
	return credentials.NewTLS(&tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}), nil
}

// ClientOptions configures ClientCredentials.
type ClientOptions struct {
	// CAFile is a PEM bundle trusted instead of the system roots.
	CAFile string
	// ServerName overrides the name checked against the server certificate.
	ServerName string
	// InsecureSkipVerify disables verification; development only.
	InsecureSkipVerify bool
}

// ClientCredentials builds transport credentials for calling the service.
func ClientCredentials(opts ClientOptions) (credentials.TransportCredentials, error) {
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		ServerName:         opts.ServerName,
		InsecureSkipVerify: opts.InsecureSkipVerify, //nolint:gosec // opt-in for dev clusters
	}

	if opts.CAFile != "" {
		caPEM, err := os.ReadFile(opts.CAFile)
		if err != nil {
			return nil, fmt.Errorf("tlsutil: read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, fmt.Errorf("tlsutil: no certificates in %s", opts.CAFile)
		}
		cfg.RootCAs = pool
	}

	return credentials.NewTLS(cfg), nil
}

// DevCertificates names the files managed by EnsureDevCertificates.
type DevCertificates struct {
	CAFile   string
	CertFile string
	KeyFile  string
}

// EnsureDevCertificates returns a development CA and a server certificate
// for hosts under dir. Existing files are reused while the certificate covers
// every host and is more than a day from expiry; otherwise a fresh CA and
// certificate replace them.
func EnsureDevCertificates(dir string, hosts []string) (DevCertificates, error) {
	if len(hosts) == 0 {
		return DevCertificates{}, errors.New("tlsutil: at least one host is required")
	}
	certs := DevCertificates{
		CAFile:   filepath.Join(dir, devCAFile),
		CertFile: filepath.Join(dir, devCertFile),
		KeyFile:  filepath.Join(dir, devKeyFile),
	}

	if reusable(certs, hosts, time.Now()) {
		return certs, nil
	}
	if err := issueDevCertificates(certs, hosts, time.Now()); err != nil {
		return DevCertificates{}, err
	}
	return certs, nil
}

func reusable(certs DevCertificates, hosts []string, now time.Time) bool {
	pair, err := tls.LoadX509KeyPair(certs.CertFile, certs.KeyFile)
	if err != nil || len(pair.Certificate) == 0 {
		return false
	}
	if _, err := os.Stat(certs.CAFile); err != nil {
		return false
	}
	leaf, err := x509.ParseCertificate(pair.Certificate[0])
	if err != nil || now.Add(devRenewBefore).After(leaf.NotAfter) {
		return false
	}
	for _, h := range hosts {
		if leaf.VerifyHostname(h) != nil {
			return false
		}
	}
	return true
}

func issueDevCertificates(certs DevCertificates, hosts []string, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(certs.CertFile), 0o700); err != nil {
		return fmt.Errorf("tlsutil: create %s: %w", filepath.Dir(certs.CertFile), err)
	}

	caKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("tlsutil: generate CA key: %w", err)
	}
	caSerial, err := randomSerial()
	if err != nil {
		return err
	}
	caTemplate := &x509.Certificate{
		SerialNumber:          caSerial,
		Subject:               pkix.Name{Organization: []string{"LoanLens Assessment Dev CA"}},
		NotBefore:             now.Add(-time.Minute),
		NotAfter:              now.Add(devCAValidity),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
		MaxPathLenZero:        true,
	}
	caDER, err := x509.CreateCertificate(rand.Reader, caTemplate, caTemplate, &caKey.PublicKey, caKey)
	if err != nil {
		return fmt.Errorf("tlsutil: create CA certificate: %w", err)
	}
	caCert, err := x509.ParseCertificate(caDER)
	if err != nil {
		return fmt.Errorf("tlsutil: parse CA certificate: %w", err)
	}

	serverKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("tlsutil: generate server key: %w", err)
	}
	serverSerial, err := randomSerial()
	if err != nil {
		return err
	}
	serverTemplate := &x509.Certificate{
		SerialNumber: serverSerial,
		Subject:      pkix.Name{Organization: []string{"LoanLens Assessment Dev"}, CommonName: hosts[0]},
		NotBefore:    now.Add(-time.Minute),
		NotAfter:     now.Add(devCertValidity),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			serverTemplate.IPAddresses = append(serverTemplate.IPAddresses, ip)
		} else if !slices.Contains(serverTemplate.DNSNames, h) {
			serverTemplate.DNSNames = append(serverTemplate.DNSNames, h)
		}
	}
	serverDER, err := x509.CreateCertificate(rand.Reader, serverTemplate, caCert, &serverKey.PublicKey, caKey)
	if err != nil {
		return fmt.Errorf("tlsutil: create server certificate: %w", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(serverKey)
	if err != nil {
		return fmt.Errorf("tlsutil: marshal server key: %w", err)
	}

	// The CA key is never written; a new CA is issued on renewal.
	if err := writePEM(certs.CAFile, "CERTIFICATE", caDER, 0o644); err != nil {
		return err
	}
	if err := writePEM(certs.CertFile, "CERTIFICATE", serverDER, 0o644); err != nil {
		return err
	}
	return writePEM(certs.KeyFile, "EC PRIVATE KEY", keyDER, 0o600)
}

func randomSerial() (*big.Int, error) {
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("tlsutil: generate serial: %w", err)
	}
	return serial, nil
}

func writePEM(path, blockType string, der []byte, perm os.FileMode) error {
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("tlsutil: write %s: %w", path, err)
	}
	return nil
}
