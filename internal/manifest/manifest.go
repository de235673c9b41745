package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"example.com/disgate/internal/capture"
	"example.com/disgate/internal/common"
	"example.com/disgate/internal/crypto"
)

type Item struct {
	Path    string `json:"path"`
	Size    int64  `json:"size"`
	Sha256  string `json:"sha256"`
	Type    string `json:"type"`
	PDUs    *int   `json:"pdus,omitempty"`
	Resyncs *int   `json:"resyncs,omitempty"`
}

// Manifest lists the files of a validation run with their digests.
type Manifest struct {
	CreatedAt time.Time  `json:"createdAt"`
	ShaAlgo   string     `json:"shaAlgo"`
	Items     []Item     `json:"items"`
	Signature *Signature `json:"signature,omitempty"`
}

type Signature struct {
	Type          string `json:"type"`
	CertSubject   string `json:"certSubject,omitempty"`
	Issuer        string `json:"issuer,omitempty"`
	SignatureFile string `json:"signatureFile,omitempty"`
}

// Build hashes every path. Capture files are also scanned so the manifest
// records how many PDUs they frame.
func Build(paths []string) (Manifest, error) {
	m := Manifest{CreatedAt: time.Now().UTC(), ShaAlgo: "sha256"}
	for _, p := range paths {
		hex, sz, err := common.Sha256OfFile(p)
		if err != nil {
			return m, err
		}
		item := Item{Path: p, Size: sz, Sha256: hex, Type: classify(p)}
		if item.Type == "dis" {
			idx, err := capture.ScanFile(p)
			if err != nil {
				return m, fmt.Errorf("scan %s: %w", p, err)
			}
			n, r := len(idx.PDUs), idx.Resyncs
			item.PDUs, item.Resyncs = &n, &r
		}
		m.Items = append(m.Items, item)
	}
	return m, nil
}

func classify(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dis", ".pdu", ".bin":
		return "dis"
	case ".yaml", ".yml":
		return "yaml"
	case ".jsonl":
		return "jsonl"
	case ".json":
		return "json"
	case ".pdf":
		return "pdf"
	}
	return "other"
}

func Marshal(m Manifest) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

func Save(m Manifest, out string) error {
	b, err := Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(out, b, 0644)
}

func Load(path string) (Manifest, error) {
	var m Manifest
	b, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	err = json.Unmarshal(b, &m)
	return m, err
}

// SignaturePath is the default location of the detached signature for a
// manifest written to out.
func SignaturePath(out string) string {
	ext := filepath.Ext(out)
	if ext != "" {
		return out[:len(out)-len(ext)] + ".jws"
	}
	return out + ".jws"
}

// SaveSigned records the signer in m, writes the manifest to out and a
// detached JWS over the written bytes to sigPath.
func SaveSigned(m Manifest, out, sigPath string, keyPEM, certPEM []byte) error {
	cert, err := crypto.ParseCertificate(certPEM)
	if err != nil {
		return fmt.Errorf("parse cert: %w", err)
	}
	m.Signature = &Signature{
		Type:          "jws-detached",
		CertSubject:   cert.Subject.String(),
		Issuer:        cert.Issuer.String(),
		SignatureFile: sigPath,
	}
	payload, err := Marshal(m)
	if err != nil {
		return err
	}
	sig, err := crypto.SignDetachedJWS(payload, keyPEM, cert.SerialNumber.String())
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}
	sigBytes, err := json.MarshalIndent(sig, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(sigPath, sigBytes, 0644); err != nil {
		return err
	}
	return os.WriteFile(out, payload, 0644)
}

// Verify checks the detached signature of the manifest file at path.
func Verify(path, sigPath string, certPEM []byte) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	b, err := os.ReadFile(sigPath)
	if err != nil {
		return err
	}
	var sig crypto.JWS
	if err := json.Unmarshal(b, &sig); err != nil {
		return fmt.Errorf("parse jws: %w", err)
	}
	return crypto.VerifyDetachedJWS(payload, sig, certPEM)
}

// Check re-hashes every item and returns the paths whose content changed.
func Check(m Manifest) ([]string, error) {
	var changed []string
	for _, it := range m.Items {
		hex, sz, err := common.Sha256OfFile(it.Path)
		if err != nil {
			return changed, err
		}
		if hex != it.Sha256 || sz != it.Size {
			changed = append(changed, it.Path)
		}
	}
	return changed, nil
}
