package main

import (
	"bufio"
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"example.com/disgate/internal/dis"
	"example.com/disgate/internal/ebv"
	"example.com/disgate/internal/manifest"
	"example.com/disgate/internal/report"
)

func encodeSample(t *testing.T, dir string, extra ...string) string {
	t.Helper()
	out := filepath.Join(dir, "sample.dis")
	args := append([]string{"--out", out}, extra...)
	if err := encodeSampleCmd(args); err != nil {
		t.Fatalf("encode-sample: %v", err)
	}
	return out
}

func TestEncodeSampleValidateAndInspect(t *testing.T) {
	dir := t.TempDir()
	capPath := encodeSample(t, dir, "--exercise", "3")

	diagPath := filepath.Join(dir, "diagnostics.jsonl")
	accPath := filepath.Join(dir, "acceptance.json")
	if err := validateCmd([]string{"--in", capPath, "--out", diagPath, "--acceptance", accPath, "--metrics"}); err != nil {
		t.Fatalf("validate: %v", err)
	}
	rep, err := report.LoadAcceptanceJSON(accPath)
	if err != nil {
		t.Fatalf("LoadAcceptanceJSON: %v", err)
	}
	if !rep.Summary.Pass || rep.Summary.Warnings != 0 {
		t.Fatalf("sample capture summary %+v", rep.Summary)
	}

	var buf bytes.Buffer
	if err := inspect(capPath, &buf, "json", nil, 0); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	var recs []inspectRecord
	sc := bufio.NewScanner(&buf)
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	for sc.Scan() {
		var rec inspectRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("decode record: %v", err)
		}
		recs = append(recs, rec)
	}
	if len(recs) != len(dis.Supported()) {
		t.Fatalf("inspected %d PDUs, want %d", len(recs), len(dis.Supported()))
	}
	first := recs[0]
	if first.Type != "Entity State" || first.Tree == nil || first.Error != "" {
		t.Fatalf("first record %+v", first)
	}
	if first.Tree.Children[1].Name != "exerciseID" || first.Tree.Children[1].Value != "3" {
		t.Fatalf("exercise node %+v", first.Tree.Children[1])
	}

	buf.Reset()
	if err := inspect(capPath, &buf, "xml", nil, 2); err != nil {
		t.Fatalf("inspect xml: %v", err)
	}
	if n := bytes.Count(buf.Bytes(), []byte("<!-- PDU ")); n != 2 {
		t.Fatalf("xml dump has %d PDUs, want 2", n)
	}
	if !bytes.Contains(buf.Bytes(), []byte("<EntityStatePdu>")) {
		t.Fatalf("xml dump missing root element:\n%s", buf.String())
	}
}

func TestAutofixAndUndo(t *testing.T) {
	dir := t.TempDir()
	capPath := encodeSample(t, dir, "--types", "Fire,1")
	data, err := os.ReadFile(capPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	data[3] = byte(ebv.FamilyOther)
	if err := os.WriteFile(capPath, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	corrupted := append([]byte(nil), data...)

	audit := filepath.Join(dir, "audit.jsonl")
	if err := autofixCmd([]string{"--in", capPath, "--audit", audit}); err != nil {
		t.Fatalf("autofix: %v", err)
	}
	fixed, _ := os.ReadFile(capPath)
	if fixed[3] != byte(ebv.FamilyWarfare) {
		t.Fatalf("family byte = %d after autofix", fixed[3])
	}

	restored := filepath.Join(dir, "restored.dis")
	if err := undoCmd([]string{"--in", capPath, "--audit", audit, "--out", restored}); err != nil {
		t.Fatalf("undo: %v", err)
	}
	got, _ := os.ReadFile(restored)
	if !bytes.Equal(got, corrupted) {
		t.Fatalf("undo did not restore the original bytes")
	}

	if err := undoCmd([]string{"--in", capPath}); err == nil {
		t.Fatalf("undo without --audit succeeded")
	}
}

func TestReportWritesPDF(t *testing.T) {
	dir := t.TempDir()
	capPath := encodeSample(t, dir)
	accPath := filepath.Join(dir, "acceptance.json")
	if err := validateCmd([]string{"--in", capPath, "--out", filepath.Join(dir, "d.jsonl"), "--acceptance", accPath}); err != nil {
		t.Fatalf("validate: %v", err)
	}
	pdfPath := filepath.Join(dir, "report.pdf")
	if err := reportCmd([]string{"--acceptance", accPath, "--pdf", pdfPath, "--in", capPath}); err != nil {
		t.Fatalf("report: %v", err)
	}
	if info, err := os.Stat(pdfPath); err != nil || info.Size() == 0 {
		t.Fatalf("pdf not written: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disctl.yaml")
	body := `logs:
  path: logs/disctl.log
  compress: true
enums: overlay.yaml
rules: /etc/disgate/rules.yaml
diagIncludeTimestamps: false
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Logs.Path != filepath.Join(dir, "logs", "disctl.log") || cfg.Logs.MaxSizeMB != 25 || !cfg.Logs.Compress {
		t.Fatalf("logs %+v", cfg.Logs)
	}
	if cfg.Enums != filepath.Join(dir, "overlay.yaml") || cfg.Rules != "/etc/disgate/rules.yaml" {
		t.Fatalf("paths %q %q", cfg.Enums, cfg.Rules)
	}
	if cfg.DiagIncludeTimestamps == nil || *cfg.DiagIncludeTimestamps {
		t.Fatalf("diagIncludeTimestamps not parsed")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("colour: blue\n"), 0o644)
	if _, err := loadConfig(bad); err == nil {
		t.Fatalf("unknown config key accepted")
	}
	if cfg, err := loadConfig(""); err != nil || cfg.Logs.Path != "" {
		t.Fatalf("empty config path: %+v, %v", cfg, err)
	}
}

func TestParsePDUTypes(t *testing.T) {
	got, err := parsePDUTypes(" 1, Signal ,entity-state ")
	if err != nil {
		t.Fatalf("parsePDUTypes: %v", err)
	}
	want := []ebv.PDUType{ebv.PDUTypeEntityState, ebv.PDUTypeSignal, ebv.PDUTypeEntityState}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	for _, bad := range []string{"28", "bogus", " , "} {
		if _, err := parsePDUTypes(bad); err == nil {
			t.Fatalf("parsePDUTypes(%q) succeeded", bad)
		}
	}
	all, err := parsePDUTypes("")
	if err != nil || len(all) != len(dis.Supported()) {
		t.Fatalf("default types: %d, %v", len(all), err)
	}
}

func TestManifestRecordsCapture(t *testing.T) {
	dir := t.TempDir()
	capPath := encodeSample(t, dir, "--types", "EntityState,Fire")
	out := filepath.Join(dir, "manifest.json")
	if err := manifestCmd([]string{"--inputs", capPath + ", ", "--out", out}); err != nil {
		t.Fatalf("manifest: %v", err)
	}
	m, err := manifest.Load(out)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(m.Items) != 1 || m.Items[0].Type != "dis" || *m.Items[0].PDUs != 2 || m.Signature != nil {
		t.Fatalf("manifest %+v", m)
	}
	if err := manifestCmd([]string{"--inputs", capPath, "--sign"}); err != errUsage {
		t.Fatalf("sign without key = %v", err)
	}
}

func writeSigner(t *testing.T, dir string) (keyPath, certPath string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(7),
		Subject:      pkix.Name{CommonName: "disctl"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("CreateCertificate: %v", err)
	}
	keyPath = filepath.Join(dir, "signer.key")
	certPath = filepath.Join(dir, "signer.pem")
	if err := os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(certPath, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o644); err != nil {
		t.Fatal(err)
	}
	return keyPath, certPath
}

func TestVerifySignatureHonoursConfig(t *testing.T) {
	dir := t.TempDir()
	capPath := encodeSample(t, dir, "--types", "Fire")
	keyPath, certPath := writeSigner(t, dir)
	out := filepath.Join(dir, "manifest.json")
	if err := manifestCmd([]string{"--inputs", capPath, "--out", out, "--sign", "--key", keyPath, "--cert", certPath}); err != nil {
		t.Fatalf("manifest --sign: %v", err)
	}

	cfgPath := filepath.Join(dir, "disctl.yaml")
	if err := os.WriteFile(cfgPath, []byte("logs:\n  path: logs/verify.log\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := verifySignatureCmd([]string{"--manifest", out, "--cert", certPath, "--config", cfgPath, "--check"}); err != nil {
		t.Fatalf("verify-signature: %v", err)
	}
	logged, err := os.ReadFile(filepath.Join(dir, "logs", "verify.log"))
	if err != nil {
		t.Fatalf("log file: %v", err)
	}
	if !strings.Contains(string(logged), "verified manifest signature") {
		t.Fatalf("log file missing verification line: %q", logged)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("colour: blue\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := verifySignatureCmd([]string{"--manifest", out, "--cert", certPath, "--config", bad}); err == nil {
		t.Fatalf("invalid config accepted")
	}
}
