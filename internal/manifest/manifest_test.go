package manifest

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"example.com/disgate/internal/capture"
	"example.com/disgate/internal/crypto"
	"example.com/disgate/internal/dis"
)

func writeFiles(t *testing.T) (dir string, paths []string) {
	t.Helper()
	dir = t.TempDir()
	var buf bytes.Buffer
	w := capture.NewWriter(&buf)
	for i := 0; i < 3; i++ {
		es := dis.NewEntityStatePdu()
		es.ExerciseID = 1
		if _, err := w.WritePDU(es); err != nil {
			t.Fatalf("WritePDU: %v", err)
		}
	}
	capPath := filepath.Join(dir, "range.dis")
	accPath := filepath.Join(dir, "acceptance.json")
	if err := os.WriteFile(capPath, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(accPath, []byte(`{"summary":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, []string{capPath, accPath}
}

func signer(t *testing.T) (keyPEM, certPEM []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(42),
		Subject:      pkix.Name{CommonName: "range-gate"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("CreateCertificate: %v", err)
	}
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	return keyPEM, certPEM
}

func TestBuildScansCaptures(t *testing.T) {
	_, paths := writeFiles(t)
	m, err := Build(paths)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(m.Items) != 2 {
		t.Fatalf("items = %d", len(m.Items))
	}
	c := m.Items[0]
	if c.Type != "dis" || c.Size != 3*144 || c.PDUs == nil || *c.PDUs != 3 || *c.Resyncs != 0 {
		t.Fatalf("capture item %+v", c)
	}
	if j := m.Items[1]; j.Type != "json" || j.PDUs != nil {
		t.Fatalf("json item %+v", j)
	}
	if len(c.Sha256) != 64 {
		t.Fatalf("sha256 %q", c.Sha256)
	}

	changed, err := Check(m)
	if err != nil || len(changed) != 0 {
		t.Fatalf("Check = %v, %v", changed, err)
	}
	if err := os.WriteFile(paths[1], []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	changed, err = Check(m)
	if err != nil || len(changed) != 1 || changed[0] != paths[1] {
		t.Fatalf("Check after edit = %v, %v", changed, err)
	}
}

func TestSaveSignedAndVerify(t *testing.T) {
	dir, paths := writeFiles(t)
	m, err := Build(paths)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	keyPEM, certPEM := signer(t)
	out := filepath.Join(dir, "manifest.json")
	sigPath := SignaturePath(out)
	if sigPath != filepath.Join(dir, "manifest.jws") {
		t.Fatalf("SignaturePath = %s", sigPath)
	}
	if err := SaveSigned(m, out, sigPath, keyPEM, certPEM); err != nil {
		t.Fatalf("SaveSigned: %v", err)
	}
	if err := Verify(out, sigPath, certPEM); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	loaded, err := Load(out)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Signature == nil || loaded.Signature.CertSubject != "CN=range-gate" {
		t.Fatalf("signature %+v", loaded.Signature)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	b[len(b)-2] = ' '
	if err := os.WriteFile(out, b, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Verify(out, sigPath, certPEM); !errors.Is(err, crypto.ErrBadSignature) {
		t.Fatalf("Verify after tamper = %v", err)
	}
}

func TestSignaturePathWithoutExtension(t *testing.T) {
	if got := SignaturePath("out/manifest"); got != "out/manifest.jws" {
		t.Fatalf("SignaturePath = %s", got)
	}
}
