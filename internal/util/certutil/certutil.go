/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package certutil issues short-lived certificates from an in-memory CA. It backs the TLS tests of the API server
// and its clients.
package certutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"
)

var (
	ErrGenerateKey       = errors.New("generating private key")
	ErrCreateCertificate = errors.New("creating certificate")
	ErrWriteFiles        = errors.New("writing certificate files")
)

const (
	organization = "vncfleet test CA"
	validity     = 2 * time.Hour
)

// ------------------------------------------------------- CA ------------------------------------------------------- //

// CA is a self-signed certificate authority.
type CA struct {
	key      *ecdsa.PrivateKey
	pool     *x509.CertPool
	rootCert *x509.Certificate
}

// NewCA creates a new CA.
func NewCA() (*CA, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, errors.Join(err, ErrGenerateKey)
	}

	template := &x509.Certificate{
		Subject:               pkix.Name{Organization: []string{organization}},
		SerialNumber:          serialNumber(),
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(validity),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
	}

	root, err := sign(template, template, key.Public(), key)
	if err != nil {
		return nil, err
	}

	pool := x509.NewCertPool()
	pool.AddCert(root)

	return &CA{
		key:      key,
		pool:     pool,
		rootCert: root,
	}, nil
}

// Pool returns a pool trusting the CA.
func (ca *CA) Pool() *x509.CertPool {
	return ca.pool
}

// Cert returns the CA's root certificate in PEM format.
func (ca *CA) Cert() []byte {
	return certToPEM(ca.rootCert)
}

// ------------------------------------------------ CertifiedKeypair ------------------------------------------------ //

// NewCertifiedKey issues a key pair valid for client and server auth. Hosts that parse as IP addresses become IP
// SANs, others DNS SANs.
func (ca *CA) NewCertifiedKey(hosts ...string) (*ecdsa.PrivateKey, *x509.Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, errors.Join(err, ErrGenerateKey)
	}

	template := &x509.Certificate{
		Subject:      pkix.Name{Organization: []string{organization}},
		SerialNumber: serialNumber(),
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(validity),
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth},
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}

	for _, host := range hosts {
		if ip := net.ParseIP(host); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, host)
		}
	}

	cert, err := sign(template, ca.rootCert, key.Public(), ca.key)
	if err != nil {
		return nil, nil, errors.Join(err, fmt.Errorf("hosts=%v", hosts))
	}

	return key, cert, nil
}

// NewCertifiedKeyPEM is NewCertifiedKey in PEM format.
func (ca *CA) NewCertifiedKeyPEM(hosts ...string) (key []byte, cert []byte, err error) {
	k, c, err := ca.NewCertifiedKey(hosts...)
	if err != nil {
		return nil, nil, err
	}

	keyPEM, err := privateKeyToPEM(k)
	if err != nil {
		return nil, nil, err
	}

	return keyPEM, certToPEM(c), nil
}

// Files holds the paths written by WriteFiles.
type Files struct {
	CertPath string
	KeyPath  string
	CAPath   string
}

// WriteFiles issues a key pair for hosts and writes it to dir along with the CA certificate.
func (ca *CA) WriteFiles(dir string, hosts ...string) (Files, error) {
	key, cert, err := ca.NewCertifiedKeyPEM(hosts...)
	if err != nil {
		return Files{}, err
	}

	files := Files{
		CertPath: filepath.Join(dir, "tls.crt"),
		KeyPath:  filepath.Join(dir, "tls.key"),
		CAPath:   filepath.Join(dir, "ca.crt"),
	}

	for path, content := range map[string][]byte{
		files.CertPath: cert,
		files.KeyPath:  key,
		files.CAPath:   ca.Cert(),
	} {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return Files{}, errors.Join(err, fmt.Errorf("path=%s", path), ErrWriteFiles)
		}
	}

	return files, nil
}

func sign(template, parent *x509.Certificate, pub any, priv *ecdsa.PrivateKey) (*x509.Certificate, error) {
	raw, err := x509.CreateCertificate(rand.Reader, template, parent, pub, priv)
	if err != nil {
		return nil, errors.Join(err, ErrCreateCertificate)
	}

	cert, err := x509.ParseCertificate(raw)
	if err != nil {
		return nil, errors.Join(err, ErrCreateCertificate)
	}

	return cert, nil
}

func serialNumber() *big.Int {
	n, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		return big.NewInt(time.Now().UnixNano())
	}

	return n
}

func privateKeyToPEM(key *ecdsa.PrivateKey) ([]byte, error) {
	kb, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, errors.Join(err, ErrGenerateKey)
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: kb}), nil
}

func certToPEM(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
}
