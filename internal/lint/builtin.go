package lint

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"example.com/disgate/internal/capture"
	"example.com/disgate/internal/common"
	"example.com/disgate/internal/dis"
	"example.com/disgate/internal/ebv"
)

const (
	refStandard = "IEEE 1278.1A-1998"
	refEnums    = "SISO-REF-010"
)

func (e *Engine) RegisterBuiltins() {
	e.Register("CheckFraming", CheckFraming)
	e.Register("CheckProtocolVersion", CheckProtocolVersion)
	e.Register("CheckSupportedType", CheckSupportedType)
	e.Register("CheckLength", CheckLength)
	e.Register("CheckExerciseID", CheckExerciseID)
	e.Register("CheckDecode", CheckDecode)
	e.Register("FixFamily", FixFamily)
	e.Register("FixCanonicalEncoding", FixCanonicalEncoding)
}

// DefaultRulePack returns the rules applied when no pack is configured.
func DefaultRulePack() RulePack {
	return RulePack{
		RulePackId: "disgate-default",
		Version:    "1.0.0",
		Profile:    "1278.1A-1998",
		Rules: []Rule{
			{RuleId: "DIS-FILE-001", Name: "framing", Scope: "file", Severity: WARN, CheckFunc: "CheckFraming",
				Refs: []string{refStandard}, Message: "capture contains unframed bytes"},
			{RuleId: "DIS-HDR-001", Name: "protocol version", Scope: "pdu", Severity: WARN, CheckFunc: "CheckProtocolVersion",
				Refs: []string{refStandard, refEnums}, Message: "protocol version is not IEEE 1278.1A-1998"},
			{RuleId: "DIS-HDR-002", Name: "supported type", Scope: "pdu", Severity: WARN, CheckFunc: "CheckSupportedType",
				Refs: []string{refEnums}, Message: "PDU type has no codec binding"},
			{RuleId: "DIS-HDR-003", Name: "length", Scope: "pdu", Severity: ERROR, CheckFunc: "CheckLength",
				Refs: []string{refStandard}, Message: "header length differs from canonical size"},
			{RuleId: "DIS-HDR-004", Name: "exercise id", Scope: "file", Severity: WARN, CheckFunc: "CheckExerciseID",
				Refs: []string{refStandard}, Message: "exercise identifier differs from the capture's exercise"},
			{RuleId: "DIS-PDU-001", Name: "decode", Scope: "pdu", Severity: ERROR, CheckFunc: "CheckDecode",
				Refs: []string{refStandard}, Message: "PDU body does not decode"},
			{RuleId: "DIS-PDU-002", Name: "family", Scope: "pdu", Severity: WARN, Fixable: true, CheckFunc: "FixFamily",
				Refs: []string{refEnums}, Message: "protocol family does not match PDU type"},
			{RuleId: "DIS-PDU-003", Name: "canonical encoding", Scope: "pdu", Severity: INFO, Fixable: true, CheckFunc: "FixCanonicalEncoding",
				Refs: []string{refStandard}, Message: "PDU bytes differ from canonical encoding"},
		},
	}
}

// fixEdit is one proposed in-place edit, tied to the finding that asked for it.
type fixEdit struct {
	finding int
	pdu     int
	offset  int64
	before  []byte
	after   []byte
}

func severityOf(rule Rule, fallback Severity) Severity {
	if rule.Severity == "" {
		return fallback
	}
	return rule.Severity
}

func finding(ctx *Context, rule Rule, i int, idx capture.PDUIndex, sev Severity, msg string) Diagnostic {
	pdu := i
	ts := idx.Timestamp
	return Diagnostic{
		Ts:           time.Now(),
		File:         ctx.InputFile,
		PDUIndex:     &pdu,
		PDUType:      idx.Type.String(),
		Offset:       fmt.Sprintf("0x%X", idx.Offset),
		RuleId:       rule.RuleId,
		Severity:     sev,
		Message:      msg,
		Refs:         rule.Refs,
		TimestampRaw: &ts,
	}
}

func passed(ctx *Context, rule Rule, msg string) []Diagnostic {
	return []Diagnostic{{
		Ts: time.Now(), File: ctx.InputFile, RuleId: rule.RuleId, Severity: INFO,
		Message: msg, Refs: rule.Refs,
	}}
}

// eachPDU reads every indexed PDU from disk, so checks see earlier fixes.
func (ctx *Context) eachPDU(fn func(i int, idx capture.PDUIndex, raw []byte) error) error {
	if err := ctx.EnsureFileIndex(); err != nil {
		return err
	}
	if ctx.Index == nil {
		return nil
	}
	reader, err := capture.NewReader(ctx.InputFile)
	if err != nil {
		return err
	}
	defer reader.Close()
	for i, idx := range ctx.Index.PDUs {
		raw, err := reader.Bytes(idx)
		if err != nil {
			return fmt.Errorf("read PDU %d at offset %d: %w", i, idx.Offset, err)
		}
		if err := fn(i, idx, raw); err != nil {
			return err
		}
	}
	return nil
}

// applyFixes writes edits when the context allows it and records each one in
// the audit log.
func applyFixes(ctx *Context, rule Rule, diags []Diagnostic, edits []fixEdit) error {
	if len(edits) == 0 || !ctx.Apply || !rule.Fixable {
		return nil
	}
	patch := make([]capture.PatchEdit, 0, len(edits))
	for _, e := range edits {
		patch = append(patch, capture.PatchEdit{Offset: e.offset, Data: e.after})
	}
	if err := capture.ApplyPatch(ctx.InputFile, patch); err != nil {
		return err
	}
	for _, e := range edits {
		if ctx.AuditLog != nil {
			entry := common.PatchEntry{
				RuleID:    rule.RuleId,
				File:      ctx.InputFile,
				PDUIndex:  e.pdu,
				Offset:    e.offset,
				BeforeHex: hex.EncodeToString(e.before),
				AfterHex:  hex.EncodeToString(e.after),
			}
			if err := ctx.AuditLog.Append(entry); err != nil {
				return err
			}
		}
		diags[e.finding].FixApplied = true
		diags[e.finding].FixPatchId = ctx.AuditLog.Path()
	}
	common.Logf("%s: patched %d PDUs in %s", rule.RuleId, len(edits), ctx.InputFile)
	return nil
}

func CheckFraming(ctx *Context, rule Rule) ([]Diagnostic, error) {
	if err := ctx.EnsureFileIndex(); err != nil {
		return nil, err
	}
	if ctx.Index.Resyncs == 0 {
		return passed(ctx, rule, fmt.Sprintf("%d PDUs framed back to back", len(ctx.Index.PDUs))), nil
	}
	return []Diagnostic{{
		Ts: time.Now(), File: ctx.InputFile, RuleId: rule.RuleId, Severity: severityOf(rule, WARN),
		Message: fmt.Sprintf("%s: resynchronised %d times", rule.Message, ctx.Index.Resyncs), Refs: rule.Refs,
	}}, nil
}

func CheckProtocolVersion(ctx *Context, rule Rule) ([]Diagnostic, error) {
	if err := ctx.EnsureFileIndex(); err != nil {
		return nil, err
	}
	var diags []Diagnostic
	for i, idx := range ctx.Index.PDUs {
		if idx.Version == ebv.CurrentProtocolVersion {
			continue
		}
		diags = append(diags, finding(ctx, rule, i, idx, severityOf(rule, WARN),
			fmt.Sprintf("protocol version %d (%v)", uint8(idx.Version), idx.Version)))
	}
	if len(diags) == 0 {
		return passed(ctx, rule, "protocol version ok"), nil
	}
	return diags, nil
}

func CheckSupportedType(ctx *Context, rule Rule) ([]Diagnostic, error) {
	if err := ctx.EnsureFileIndex(); err != nil {
		return nil, err
	}
	var diags []Diagnostic
	for i, idx := range ctx.Index.PDUs {
		if idx.Supported {
			continue
		}
		diags = append(diags, finding(ctx, rule, i, idx, severityOf(rule, WARN),
			fmt.Sprintf("PDU type %d (%v) not supported", uint8(idx.Type), idx.Type)))
	}
	if len(diags) == 0 {
		return passed(ctx, rule, "all PDU types supported"), nil
	}
	return diags, nil
}

// CheckLength compares the header length with the size of the PDU's content,
// or with the minimum size of its type when the content does not decode.
func CheckLength(ctx *Context, rule Rule) ([]Diagnostic, error) {
	var diags []Diagnostic
	err := ctx.eachPDU(func(i int, idx capture.PDUIndex, raw []byte) error {
		if !idx.Supported {
			return nil
		}
		if _, _, err := dis.DecodePDU(raw); err == nil {
			return nil
		}
		if _, size, err := dis.DecodeContent(raw); err == nil {
			if size != idx.Length {
				diags = append(diags, finding(ctx, rule, i, idx, severityOf(rule, ERROR),
					fmt.Sprintf("header length %d, canonical size %d", idx.Length, size)))
			}
			return nil
		}
		empty, err := dis.NewPDU(idx.Type)
		if err != nil {
			return err
		}
		if least := dis.Size(empty); idx.Length < least {
			diags = append(diags, finding(ctx, rule, i, idx, severityOf(rule, ERROR),
				fmt.Sprintf("header length %d below minimum %d for %v", idx.Length, least, idx.Type)))
		}
		return nil
	})
	if err != nil {
		return diags, err
	}
	if len(diags) == 0 {
		return passed(ctx, rule, "header lengths ok"), nil
	}
	return diags, nil
}

// CheckExerciseID flags PDUs outside the capture's exercise. The exercise is
// the exerciseId parameter when set, otherwise the most frequent one.
func CheckExerciseID(ctx *Context, rule Rule) ([]Diagnostic, error) {
	if err := ctx.EnsureFileIndex(); err != nil {
		return nil, err
	}
	want, ok := paramInt(rule.Params, "exerciseId")
	if !ok {
		counts := make(map[uint8]int)
		for _, idx := range ctx.Index.PDUs {
			counts[idx.ExerciseID]++
		}
		ids := make([]int, 0, len(counts))
		for id := range counts {
			ids = append(ids, int(id))
		}
		sort.Ints(ids)
		best := -1
		for _, id := range ids {
			if best < 0 || counts[uint8(id)] > counts[uint8(best)] {
				best = id
			}
		}
		want = best
	}
	var diags []Diagnostic
	for i, idx := range ctx.Index.PDUs {
		if int(idx.ExerciseID) == want {
			continue
		}
		diags = append(diags, finding(ctx, rule, i, idx, severityOf(rule, WARN),
			fmt.Sprintf("exercise %d, capture exercise is %d", idx.ExerciseID, want)))
	}
	if len(diags) == 0 {
		return passed(ctx, rule, fmt.Sprintf("all PDUs in exercise %d", want)), nil
	}
	return diags, nil
}

func CheckDecode(ctx *Context, rule Rule) ([]Diagnostic, error) {
	var diags []Diagnostic
	err := ctx.eachPDU(func(i int, idx capture.PDUIndex, raw []byte) error {
		if !idx.Supported {
			return nil
		}
		if _, _, err := dis.DecodePDU(raw); err != nil {
			diags = append(diags, finding(ctx, rule, i, idx, severityOf(rule, ERROR), err.Error()))
		}
		return nil
	})
	if err != nil {
		return diags, err
	}
	if len(diags) == 0 {
		return passed(ctx, rule, "all supported PDUs decode"), nil
	}
	return diags, nil
}

// FixFamily rewrites the protocol family byte to the family of the PDU type.
func FixFamily(ctx *Context, rule Rule) ([]Diagnostic, error) {
	var diags []Diagnostic
	var edits []fixEdit
	err := ctx.eachPDU(func(i int, idx capture.PDUIndex, raw []byte) error {
		want, ok := idx.Type.Family()
		if !ok || ebv.ProtocolFamily(raw[3]) == want {
			return nil
		}
		d := finding(ctx, rule, i, idx, severityOf(rule, WARN),
			fmt.Sprintf("family %v, %v belongs to %v", ebv.ProtocolFamily(raw[3]), idx.Type, want))
		d.FixSuggested = true
		diags = append(diags, d)
		edits = append(edits, fixEdit{
			finding: len(diags) - 1,
			pdu:     i,
			offset:  idx.Offset + 3,
			before:  []byte{raw[3]},
			after:   []byte{byte(want)},
		})
		return nil
	})
	if err != nil {
		return diags, err
	}
	if len(diags) == 0 {
		return passed(ctx, rule, "protocol families match PDU types"), nil
	}
	return diags, applyFixes(ctx, rule, diags, edits)
}

// FixCanonicalEncoding re-encodes each decoded PDU and compares the result with
// the stored bytes. Differences of the same length are patched in place.
func FixCanonicalEncoding(ctx *Context, rule Rule) ([]Diagnostic, error) {
	var diags []Diagnostic
	var edits []fixEdit
	err := ctx.eachPDU(func(i int, idx capture.PDUIndex, raw []byte) error {
		if !idx.Supported {
			return nil
		}
		p, _, err := dis.DecodePDU(raw)
		if err != nil {
			return nil
		}
		enc, err := dis.Marshal(p)
		if err != nil {
			diags = append(diags, finding(ctx, rule, i, idx, severityOf(rule, INFO),
				fmt.Sprintf("cannot re-encode: %v", err)))
			return nil
		}
		if bytes.Equal(enc, raw) {
			return nil
		}
		if len(enc) != len(raw) {
			diags = append(diags, finding(ctx, rule, i, idx, severityOf(rule, INFO),
				fmt.Sprintf("canonical encoding is %d bytes, stored %d", len(enc), len(raw))))
			return nil
		}
		first, last := diffSpan(raw, enc)
		d := finding(ctx, rule, i, idx, severityOf(rule, INFO),
			fmt.Sprintf("bytes %d..%d differ from canonical encoding", first, last))
		d.FixSuggested = true
		diags = append(diags, d)
		edits = append(edits, fixEdit{
			finding: len(diags) - 1,
			pdu:     i,
			offset:  idx.Offset + int64(first),
			before:  append([]byte(nil), raw[first:last+1]...),
			after:   enc[first : last+1],
		})
		return nil
	})
	if err != nil {
		return diags, err
	}
	if len(diags) == 0 {
		return passed(ctx, rule, "all PDUs canonically encoded"), nil
	}
	return diags, applyFixes(ctx, rule, diags, edits)
}

func diffSpan(a, b []byte) (first, last int) {
	first = -1
	for i := range a {
		if a[i] != b[i] {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return first, last
}

func paramInt(params map[string]any, key string) (int, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
