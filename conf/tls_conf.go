// Copyright 2024 The Tektite Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package conf

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/spirit-labs/endbclient/errors"
)

type TLSConfig struct {
	TrustedCertsPath string `help:"Path to a PEM encoded file containing certificate(s) of trusted servers and/or certificate authorities" type:"existingfile"`
	KeyPath          string `help:"Path to a PEM encoded file containing the client private key. Required with TLS client authentication" type:"existingfile"`
	CertPath         string `help:"Path to a PEM encoded file containing the client certificate. Required with TLS client authentication" type:"existingfile"`
	NoVerify         bool   `help:"Set to true to disable server certificate verification. WARNING use only for testing, setting this can expose you to man-in-the-middle attacks"`
}

// IsZero returns true if no TLS setting has been provided, in which case the transport defaults are used.
func (t *TLSConfig) IsZero() bool {
	return t == nil || *t == TLSConfig{}
}

func (t *TLSConfig) Validate() error {
	if t.IsZero() {
		return nil
	}
	if (t.CertPath == "") != (t.KeyPath == "") {
		return errors.NewInvalidConfigurationError("cert-path and key-path must be specified together")
	}
	return nil
}

func (t *TLSConfig) ToGoTLSConfig() (*tls.Config, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	tlsConfig := &tls.Config{ // nolint: gosec
		MinVersion: tls.VersionTLS12,
	}
	if t.TrustedCertsPath != "" {
		rootCerts, err := os.ReadFile(t.TrustedCertsPath)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		rootCertPool := x509.NewCertPool()
		if ok := rootCertPool.AppendCertsFromPEM(rootCerts); !ok {
			return nil, errors.Errorf("failed to append root certs PEM (invalid PEM block?)")
		}
		tlsConfig.RootCAs = rootCertPool
	}
	if t.CertPath != "" {
		keyPair, err := createKeyPair(t.CertPath, t.KeyPath)
		if err != nil {
			return nil, err
		}
		tlsConfig.Certificates = []tls.Certificate{keyPair}
	}
	if t.NoVerify {
		tlsConfig.InsecureSkipVerify = true
	}
	return tlsConfig, nil
}

func createKeyPair(certPath string, keyPath string) (tls.Certificate, error) {
	clientCert, err := os.ReadFile(certPath)
	if err != nil {
		return tls.Certificate{}, errors.WithStack(err)
	}
	clientKey, err := os.ReadFile(keyPath)
	if err != nil {
		return tls.Certificate{}, errors.WithStack(err)
	}
	keyPair, err := tls.X509KeyPair(clientCert, clientKey)
	if err != nil {
		return tls.Certificate{}, errors.WithStack(err)
	}
	return keyPair, nil
}
