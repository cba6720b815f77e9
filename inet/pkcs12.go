package inet

import (
	"crypto/tls"
	"io/ioutil"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pkcs12"
)

// LoadClientCert reads a PKCS#12 container from disk and produces the
// certificate presented during the TLS handshake. PKCS#12 is the only
// accepted container format; PEM and bare private-key files are rejected by
// the decoder.
func LoadClientCert(path, passphrase string) (*tls.Certificate, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "inet: reading client certificate %s", path)
	}

	key, cert, err := pkcs12.Decode(data, passphrase)
	if err != nil {
		return nil, errors.Wrapf(err, "inet: decoding client certificate %s", path)
	}

	return &tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  key,
		Leaf:        cert,
	}, nil
}
