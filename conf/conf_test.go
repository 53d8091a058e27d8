package conf

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spirit-labs/endbclient/errors"
	"github.com/stretchr/testify/require"
)

type configPair struct {
	errMsg   string
	endpoint string
}

var invalidEndpoints = []configPair{
	{"invalid configuration: url must be specified", ""},
	{"invalid configuration: url must use the http or https scheme", "ftp://localhost:3803/sql"},
	{"invalid configuration: url must use the http or https scheme", "localhost:3803/sql"},
	{"invalid configuration: url must include a host", "http:///sql"},
}

func TestValidateEndpoint(t *testing.T) {
	for _, cp := range invalidEndpoints {
		err := ValidateEndpoint(cp.endpoint)
		require.Error(t, err, "Didn't get error, expected: %s", cp.errMsg)
		pe, ok := err.(errors.EndbError)
		require.True(t, ok)
		require.Equal(t, errors.InvalidConfiguration, pe.Code)
		require.Equal(t, cp.errMsg, pe.Msg)
	}
	require.NoError(t, ValidateEndpoint(DefaultEndpoint))
	require.NoError(t, ValidateEndpoint("https://endb.example.com/sql"))
}

func TestTLSConfigZero(t *testing.T) {
	var nilConf *TLSConfig
	require.True(t, nilConf.IsZero())
	require.True(t, (&TLSConfig{}).IsZero())
	require.False(t, (&TLSConfig{NoVerify: true}).IsZero())
}

func TestTLSConfigRequiresCertAndKeyTogether(t *testing.T) {
	conf := &TLSConfig{CertPath: "cert.pem"}
	_, err := conf.ToGoTLSConfig()
	require.Error(t, err)
	require.True(t, errors.IsCode(err, errors.InvalidConfiguration))
}

func TestTLSConfigToGoTLSConfig(t *testing.T) {
	certPath, keyPath := writeSelfSignedCert(t)
	conf := &TLSConfig{
		TrustedCertsPath: certPath,
		CertPath:         certPath,
		KeyPath:          keyPath,
		NoVerify:         true,
	}
	tlsConf, err := conf.ToGoTLSConfig()
	require.NoError(t, err)
	require.NotNil(t, tlsConf.RootCAs)
	require.Len(t, tlsConf.Certificates, 1)
	require.True(t, tlsConf.InsecureSkipVerify)
}

func TestTLSConfigInvalidTrustedCerts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a pem"), 0o600))
	_, err := (&TLSConfig{TrustedCertsPath: path}).ToGoTLSConfig()
	require.Error(t, err)
}

func writeSelfSignedCert(t *testing.T) (string, string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		DNSNames:     []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	keyDer, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	dir := t.TempDir()
	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certPath, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDer}), 0o600))
	return certPath, keyPath
}
