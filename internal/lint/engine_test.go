package lint

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"example.com/disgate/internal/capture"
	"example.com/disgate/internal/common"
	"example.com/disgate/internal/dis"
	"example.com/disgate/internal/ebv"
)

type captureBuilder struct {
	t   *testing.T
	buf bytes.Buffer
	w   *capture.Writer
}

func newCaptureBuilder(t *testing.T) *captureBuilder {
	b := &captureBuilder{t: t}
	b.w = capture.NewWriter(&b.buf)
	return b
}

// add writes p after letting mutate adjust its encoded bytes.
func (b *captureBuilder) add(p dis.PDU, mutate func([]byte)) {
	b.t.Helper()
	raw, err := dis.Marshal(p)
	if err != nil {
		b.t.Fatalf("Marshal %T: %v", p, err)
	}
	if mutate != nil {
		mutate(raw)
	}
	if _, err := b.w.WriteRaw(raw); err != nil {
		b.t.Fatalf("WriteRaw: %v", err)
	}
}

func (b *captureBuilder) save() string {
	b.t.Helper()
	path := filepath.Join(b.t.TempDir(), "capture.dis")
	if err := os.WriteFile(path, b.buf.Bytes(), 0o644); err != nil {
		b.t.Fatalf("write capture: %v", err)
	}
	return path
}

func iffStub(exercise uint8) []byte {
	buf := make([]byte, 16)
	buf[0] = byte(ebv.CurrentProtocolVersion)
	buf[1] = exercise
	buf[2] = byte(ebv.PDUTypeIFF)
	buf[3] = byte(ebv.FamilyDistributedEmission)
	binary.BigEndian.PutUint16(buf[8:10], 16)
	return buf
}

func findings(diags []Diagnostic, ruleID string) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.RuleId == ruleID && d.Severity != INFO {
			out = append(out, d)
		}
	}
	return out
}

func mixedCapture(t *testing.T) string {
	b := newCaptureBuilder(t)
	es := dis.NewEntityStatePdu()
	es.ExerciseID = 1
	b.add(es, nil)

	fire := dis.NewFirePdu()
	fire.ExerciseID = 1
	b.add(fire, func(raw []byte) { raw[3] = byte(ebv.FamilyEntityInformation) })

	if _, err := b.w.WriteRaw(iffStub(1)); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}

	create := dis.NewCreateEntityPdu()
	create.ExerciseID = 1
	b.add(create, func(raw []byte) { raw[10] = 0xAA })

	comment := dis.NewCommentPdu()
	comment.ExerciseID = 9
	b.add(comment, nil)
	return b.save()
}

func TestEvalDefaultPackWithFixes(t *testing.T) {
	path := mixedCapture(t)
	audit := filepath.Join(t.TempDir(), "audit", "patches.jsonl")
	ctx := &Context{InputFile: path, Apply: true, AuditLog: common.NewPatchLog(audit)}
	eng := NewEngine(DefaultRulePack())
	eng.RegisterBuiltins()

	diags, err := eng.Eval(ctx)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := findings(diags, "DIS-HDR-002"); len(got) != 1 || *got[0].PDUIndex != 2 {
		t.Fatalf("unsupported type findings: %+v", got)
	}
	if got := findings(diags, "DIS-HDR-004"); len(got) != 1 || *got[0].PDUIndex != 4 {
		t.Fatalf("exercise findings: %+v", got)
	}
	family := findings(diags, "DIS-PDU-002")
	if len(family) != 1 || !family[0].FixApplied || family[0].FixPatchId != audit {
		t.Fatalf("family findings: %+v", family)
	}
	for _, id := range []string{"DIS-FILE-001", "DIS-HDR-001", "DIS-HDR-003", "DIS-PDU-001"} {
		if got := findings(diags, id); len(got) != 0 {
			t.Fatalf("%s: unexpected findings %+v", id, got)
		}
	}
	// Canonical-encoding findings are INFO, so look at them directly.
	var canonical []Diagnostic
	for _, d := range diags {
		if d.RuleId == "DIS-PDU-003" && d.FixSuggested {
			canonical = append(canonical, d)
		}
	}
	if len(canonical) != 1 || *canonical[0].PDUIndex != 3 || !canonical[0].FixApplied {
		t.Fatalf("canonical findings: %+v", canonical)
	}

	rep := eng.MakeAcceptance()
	if !rep.Summary.Pass || rep.Summary.Errors != 0 || rep.Summary.Warnings != 3 {
		t.Fatalf("summary %+v", rep.Summary)
	}
	if len(rep.GateMatrix) != len(DefaultRulePack().Rules) {
		t.Fatalf("gate matrix has %d rows", len(rep.GateMatrix))
	}
	for _, row := range rep.GateMatrix {
		if row.RuleId == "DIS-PDU-002" && (row.Fixed != 1 || row.Findings != 1 || !row.Pass) {
			t.Fatalf("family gate row %+v", row)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read capture: %v", err)
	}
	if data[144+3] != byte(ebv.FamilyWarfare) {
		t.Fatalf("family byte not patched: %d", data[144+3])
	}
	if off := 144 + 96 + 16 + 10; data[off] != 0 {
		t.Fatalf("header padding not patched: %#x", data[off])
	}

	entries, err := common.ReadPatchLog(audit)
	if err != nil {
		t.Fatalf("ReadPatchLog: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(entries))
	}
	if entries[0].RuleID != "DIS-PDU-002" || entries[0].Offset != 147 || entries[0].BeforeHex != "01" || entries[0].AfterHex != "02" {
		t.Fatalf("family entry %+v", entries[0])
	}

	// A second pass over the patched file has nothing left to fix.
	eng = NewEngine(DefaultRulePack())
	eng.RegisterBuiltins()
	diags, err = eng.Eval(&Context{InputFile: path})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	for _, d := range diags {
		if d.FixSuggested {
			t.Fatalf("fix still suggested after patch: %+v", d)
		}
	}
}

func TestEvalWithoutApplyLeavesFile(t *testing.T) {
	path := mixedCapture(t)
	before, _ := os.ReadFile(path)
	eng := NewEngine(DefaultRulePack())
	eng.RegisterBuiltins()
	diags, err := eng.Eval(&Context{InputFile: path})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := findings(diags, "DIS-PDU-002"); len(got) != 1 || got[0].FixApplied || !got[0].FixSuggested {
		t.Fatalf("family findings: %+v", got)
	}
	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Fatalf("capture modified without Apply")
	}
}

func TestEvalReportsDecodeFailure(t *testing.T) {
	b := newCaptureBuilder(t)
	sig := dis.NewSignalPdu()
	sig.Data = []byte{1, 2, 3, 4}
	b.add(sig, func(raw []byte) { binary.BigEndian.PutUint16(raw[28:30], 64) })
	b.add(dis.NewCreateEntityPdu(), nil)
	path := b.save()

	eng := NewEngine(DefaultRulePack())
	eng.RegisterBuiltins()
	diags, err := eng.Eval(&Context{InputFile: path})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := findings(diags, "DIS-PDU-001"); len(got) != 1 || got[0].Severity != ERROR {
		t.Fatalf("decode findings: %+v", got)
	}
	if rep := eng.MakeAcceptance(); rep.Summary.Pass {
		t.Fatalf("capture with undecodable PDU passed")
	}
}

func TestEvalReportsPaddedHeaderLength(t *testing.T) {
	b := newCaptureBuilder(t)
	b.add(dis.NewEntityStatePdu(), nil)
	raw, err := dis.Marshal(dis.NewAcknowledgePdu())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	raw = append(raw, 0, 0, 0, 0)
	binary.BigEndian.PutUint16(raw[8:10], uint16(len(raw)))
	if _, err := b.w.WriteRaw(raw); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	path := b.save()

	eng := NewEngine(DefaultRulePack())
	eng.RegisterBuiltins()
	diags, err := eng.Eval(&Context{InputFile: path})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	got := findings(diags, "DIS-HDR-003")
	if len(got) != 1 || got[0].Severity != ERROR || *got[0].PDUIndex != 1 {
		t.Fatalf("length findings: %+v", got)
	}
	if got[0].Message != "header length 36, canonical size 32" {
		t.Fatalf("length message %q", got[0].Message)
	}
	if got := findings(diags, "DIS-FILE-001"); len(got) != 0 {
		t.Fatalf("padded PDU broke framing: %+v", got)
	}
	if rep := eng.MakeAcceptance(); rep.Summary.Pass {
		t.Fatalf("capture with wrong header length passed")
	}
}

func TestEvalReportsShortTrailingBytes(t *testing.T) {
	b := newCaptureBuilder(t)
	b.add(dis.NewCreateEntityPdu(), nil)
	if _, err := b.w.WriteRaw([]byte{6, 1, 11, 5, 0, 0}); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	eng := NewEngine(DefaultRulePack())
	eng.RegisterBuiltins()
	diags, err := eng.Eval(&Context{InputFile: b.save()})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	got := findings(diags, "DIS-FILE-001")
	if len(got) != 1 || got[0].Severity != WARN {
		t.Fatalf("framing findings: %+v", got)
	}
	if rep := eng.MakeAcceptance(); !rep.Summary.Pass || rep.Summary.Warnings != 1 {
		t.Fatalf("summary %+v", rep.Summary)
	}
}

func TestLoadRulePackYAMLAndMissingFunction(t *testing.T) {
	dir := t.TempDir()
	packPath := filepath.Join(dir, "pack.yaml")
	pack := `rulePackId: site
version: "2"
profile: test
rules:
  - ruleId: SITE-001
    scope: file
    severity: ERROR
    checkFunction: CheckExerciseID
    params:
      exerciseId: 7
    message: wrong exercise
  - ruleId: SITE-002
    scope: pdu
    severity: WARN
    checkFunction: NoSuchCheck
    message: missing
`
	if err := os.WriteFile(packPath, []byte(pack), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}
	rp, err := LoadRulePack(packPath)
	if err != nil {
		t.Fatalf("LoadRulePack: %v", err)
	}
	if rp.RulePackId != "site" || len(rp.Rules) != 2 {
		t.Fatalf("pack %+v", rp)
	}

	b := newCaptureBuilder(t)
	es := dis.NewEntityStatePdu()
	es.ExerciseID = 7
	b.add(es, nil)
	b.add(dis.NewFirePdu(), nil)
	eng := NewEngine(rp)
	eng.RegisterBuiltins()
	diags, err := eng.Eval(&Context{InputFile: b.save()})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := findings(diags, "SITE-001"); len(got) != 1 || got[0].Severity != ERROR || *got[0].PDUIndex != 1 {
		t.Fatalf("exercise findings: %+v", got)
	}
	if got := findings(diags, "SITE-002"); len(got) != 1 || got[0].Message != "no function for rule" {
		t.Fatalf("missing function findings: %+v", got)
	}

	empty := filepath.Join(dir, "empty.json")
	os.WriteFile(empty, []byte(`{"rulePackId":"x","rules":[]}`), 0o644)
	if _, err := LoadRulePack(empty); err == nil {
		t.Fatalf("empty rule pack accepted")
	}
}

func TestWriteDiagnosticsNDJSONTimestampToggle(t *testing.T) {
	ts := uint32(123456)
	eng := NewEngine(RulePack{})
	eng.diagnostics = []Diagnostic{
		{Ts: time.Unix(0, 0), File: "a.dis", RuleId: "T-1", Severity: INFO, Message: "with", TimestampRaw: &ts},
		{Ts: time.Unix(1, 0), File: "a.dis", RuleId: "T-2", Severity: INFO, Message: "without"},
	}
	dir := t.TempDir()
	outPath := filepath.Join(dir, "diagnostics.jsonl")
	if err := eng.WriteDiagnosticsNDJSON(outPath); err != nil {
		t.Fatalf("WriteDiagnosticsNDJSON failed: %v", err)
	}
	lines := readLines(t, outPath)
	if len(lines) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(lines))
	}
	var first, second map[string]any
	if err := json.Unmarshal(lines[0], &first); err != nil {
		t.Fatalf("unmarshal first line failed: %v", err)
	}
	if v, ok := first["timestamp_raw"].(float64); !ok || uint32(v) != ts {
		t.Fatalf("timestamp_raw = %v, want %d", first["timestamp_raw"], ts)
	}
	if err := json.Unmarshal(lines[1], &second); err != nil {
		t.Fatalf("unmarshal second line failed: %v", err)
	}
	if v, ok := second["timestamp_raw"]; !ok || v != nil {
		t.Fatalf("timestamp_raw expected null, got %v", v)
	}

	eng.SetConfigValue("diag.include_timestamps", "false")
	if err := eng.WriteDiagnosticsNDJSON(outPath); err != nil {
		t.Fatalf("WriteDiagnosticsNDJSON failed: %v", err)
	}
	lines = readLines(t, outPath)
	if err := json.Unmarshal(lines[0], &first); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if first["timestamp_raw"] != nil {
		t.Fatalf("timestamp_raw written with timestamps disabled")
	}
}

func readLines(t *testing.T, path string) [][]byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var out [][]byte
	for _, line := range bytes.Split(bytes.TrimSpace(data), []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) > 0 {
			out = append(out, line)
		}
	}
	return out
}
