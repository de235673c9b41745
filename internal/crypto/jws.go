package crypto

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
)

// JWS is a flattened JWS with a detached payload. The signed content travels
// next to it, so Payload is normally empty.
type JWS struct {
	Protected string `json:"protected"`
	Payload   string `json:"payload,omitempty"`
	Signature string `json:"signature"`
}

type jwsHeader struct {
	Alg  string   `json:"alg"`
	B64  *bool    `json:"b64,omitempty"`
	Crit []string `json:"crit"`
	Kid  string   `json:"kid,omitempty"`
}

var (
	ErrBadSignature      = errors.New("signature does not match payload")
	ErrUnsupportedKey    = errors.New("unsupported key type")
	ErrUnsupportedHeader = errors.New("protected header must set b64 false and list it as critical")
)

// SignDetachedJWS signs payload with an RSA private key (PKCS#1 or PKCS#8 PEM)
// using RS256 and the unencoded payload option, so verification only needs
// the original bytes.
func SignDetachedJWS(payload []byte, privateKeyPEM []byte, kid string) (JWS, error) {
	priv, err := parseRSAPrivateKey(privateKeyPEM)
	if err != nil {
		return JWS{}, err
	}
	unencoded := false
	hb, err := json.Marshal(jwsHeader{Alg: "RS256", B64: &unencoded, Crit: []string{"b64"}, Kid: kid})
	if err != nil {
		return JWS{}, err
	}
	protected := base64.RawURLEncoding.EncodeToString(hb)
	h := signingDigest(protected, payload)
	sig, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, h[:])
	if err != nil {
		return JWS{}, err
	}
	return JWS{
		Protected: protected,
		Signature: base64.RawURLEncoding.EncodeToString(sig),
	}, nil
}

// VerifyDetachedJWS checks sig over payload against the RSA key in the PEM
// certificate.
func VerifyDetachedJWS(payload []byte, sig JWS, certPEM []byte) error {
	cert, err := ParseCertificate(certPEM)
	if err != nil {
		return err
	}
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return ErrUnsupportedKey
	}
	hb, err := base64.RawURLEncoding.DecodeString(sig.Protected)
	if err != nil {
		return fmt.Errorf("decode protected header: %w", err)
	}
	var hdr jwsHeader
	if err := json.Unmarshal(hb, &hdr); err != nil {
		return fmt.Errorf("parse protected header: %w", err)
	}
	if hdr.Alg != "RS256" {
		return fmt.Errorf("unsupported alg %q", hdr.Alg)
	}
	if hdr.B64 == nil || *hdr.B64 || len(hdr.Crit) != 1 || hdr.Crit[0] != "b64" {
		return ErrUnsupportedHeader
	}
	if sig.Payload != "" && sig.Payload != string(payload) {
		return ErrBadSignature
	}
	raw, err := base64.RawURLEncoding.DecodeString(sig.Signature)
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}
	h := signingDigest(sig.Protected, payload)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, h[:], raw); err != nil {
		return ErrBadSignature
	}
	return nil
}

// ParseCertificate decodes the first PEM block of certPEM as an X.509
// certificate.
func ParseCertificate(certPEM []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(certPEM)
	if block == nil {
		return nil, errors.New("no pem block")
	}
	return x509.ParseCertificate(block.Bytes)
}

func signingDigest(protected string, payload []byte) [32]byte {
	h := sha256.New()
	h.Write([]byte(protected))
	h.Write([]byte{'.'})
	h.Write(payload)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func parseRSAPrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("no pem block")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrUnsupportedKey
	}
	return rsaKey, nil
}
