package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"example.com/disgate/internal/capture"
	"example.com/disgate/internal/common"
	"example.com/disgate/internal/dis"
	"example.com/disgate/internal/ebv"
	"example.com/disgate/internal/lint"
	"example.com/disgate/internal/manifest"
	"example.com/disgate/internal/report"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

var errUsage = errors.New("invalid arguments")

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	cmd := os.Args[1]
	var run func([]string) error
	switch cmd {
	case "inspect":
		run = inspectCmd
	case "validate":
		run = validateCmd
	case "autofix":
		run = autofixCmd
	case "undo":
		run = undoCmd
	case "report":
		run = reportCmd
	case "encode-sample":
		run = encodeSampleCmd
	case "manifest":
		run = manifestCmd
	case "verify-signature":
		run = verifySignatureCmd
	default:
		usage()
		return
	}
	if err := run(os.Args[2:]); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", cmd, err)
		}
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf(`disctl %s (built %s) <command> [options]

Commands:
  inspect        --in <capture.dis> [--format xml|json] [--enums <overlay.yaml>] [--limit <n>] [--out <file>]
  validate       --in <capture.dis> [--rules <rulepack.yaml>] --out <diagnostics.jsonl> --acceptance <acceptance.json>
  autofix        --in <capture.dis> [--rules <rulepack.yaml>] [--audit <audit.jsonl>]
  undo           --in <capture.dis> --audit <audit.jsonl> --out <restored.dis>
  report         --acceptance <acceptance.json> --pdf <report.pdf> [--in <capture.dis>]
  encode-sample  --out <capture.dis> [--types <list>] [--exercise <id>]
  manifest       --inputs <comma-separated> --out <manifest.json> [--sign --key <key.pem> --cert <cert.pem> [--jws-out <file>]]
  verify-signature --manifest <manifest.json> --cert <cert.pem> [--jws <manifest.jws>] [--check]

Every command accepts --config <config.yaml>.
`, version, buildDate)
}

// setup loads the configuration and starts file logging when configured.
// The returned function stops file logging.
func setup(configPath string) (config, func(), error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}
	closer, err := common.ConfigureLogging(cfg.Logs)
	if err != nil {
		return cfg, nil, fmt.Errorf("setup logging: %w", err)
	}
	return cfg, func() { closer.Close() }, nil
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return errUsage
	}
	return nil
}

func loadRulePack(path string) (lint.RulePack, error) {
	if path == "" {
		return lint.DefaultRulePack(), nil
	}
	return lint.LoadRulePack(path)
}

type inspectRecord struct {
	Index  int       `json:"index"`
	Offset int64     `json:"offset"`
	Length int       `json:"length"`
	Type   string    `json:"type"`
	Error  string    `json:"error,omitempty"`
	Tree   *dis.Node `json:"tree,omitempty"`
}

func inspectCmd(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	in := fs.String("in", "", "input capture")
	format := fs.String("format", "xml", "output format: xml or json")
	enumsPath := fs.String("enums", "", "enumeration overlay (JSON or YAML)")
	limit := fs.Int("limit", 0, "stop after this many PDUs (0 for all)")
	outPath := fs.String("out", "", "output file (default stdout)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *in == "" {
		fmt.Fprintln(fs.Output(), "required: --in")
		return errUsage
	}
	if *format != "xml" && *format != "json" {
		return fmt.Errorf("unknown format %q", *format)
	}
	cfg, done, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer done()

	var store *ebv.Store
	if path := firstNonEmpty(*enumsPath, cfg.Enums); path != "" {
		store, err = ebv.EnsureLoaded(path)
		if err != nil {
			return fmt.Errorf("load enumerations %s: %w", path, err)
		}
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return inspect(*in, out, *format, store, *limit)
}

func inspect(path string, out io.Writer, format string, store *ebv.Store, limit int) error {
	reader, err := capture.NewReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()
	enc := json.NewEncoder(out)
	opt := dis.WithDescriber(store)
	for n := 0; limit <= 0 || n < limit; n++ {
		p, idx, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		rec := inspectRecord{Index: n, Offset: idx.Offset, Length: idx.Length, Type: idx.Type.String()}
		switch {
		case !idx.Supported:
			rec.Error = "unsupported PDU type"
		case p == nil:
			rec.Error = idx.DecodeError
		}
		if format == "json" {
			if p != nil {
				tree := dis.Tree(p, opt)
				rec.Tree = &tree
			}
			if err := enc.Encode(rec); err != nil {
				return err
			}
			continue
		}
		if p == nil {
			fmt.Fprintf(out, "<!-- PDU %d at offset %d: %s (%s) -->\n", n, idx.Offset, rec.Type, rec.Error)
			continue
		}
		fmt.Fprintf(out, "<!-- PDU %d at offset %d -->\n", n, idx.Offset)
		io.WriteString(out, dis.Dump(p, opt))
	}
	if resyncs := reader.Index().Resyncs; resyncs > 0 {
		common.Logf("%s: skipped %d unframed regions", path, resyncs)
	}
	return nil
}

func validateCmd(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	in := fs.String("in", "", "input capture")
	rulesPath := fs.String("rules", "", "rule pack (JSON or YAML); built-in pack when empty")
	outDiag := fs.String("out", "diagnostics.jsonl", "diagnostics output")
	outAcc := fs.String("acceptance", "acceptance_report.json", "acceptance json")
	includeTimestamps := fs.Bool("diag-include-timestamps", true, "include PDU timestamps in diagnostics output")
	metricsFlag := fs.Bool("metrics", false, "print validation throughput metrics")
	progressFlag := fs.Bool("progress", false, "display validation progress updates")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *in == "" {
		fmt.Fprintln(fs.Output(), "required: --in")
		return errUsage
	}
	cfg, done, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer done()

	rp, err := loadRulePack(firstNonEmpty(*rulesPath, cfg.Rules))
	if err != nil {
		return fmt.Errorf("load rule pack: %w", err)
	}
	var metrics *common.Metrics
	if *metricsFlag || *progressFlag {
		metrics = common.NewMetrics()
	}
	engine := lint.NewEngine(rp)
	engine.RegisterBuiltins()
	engine.SetConfigValue("diag.include_timestamps", *includeTimestamps)
	if cfg.DiagIncludeTimestamps != nil && !flagWasSet(fs, "diag-include-timestamps") {
		engine.SetConfigValue("diag.include_timestamps", *cfg.DiagIncludeTimestamps)
	}

	ctx := &lint.Context{InputFile: *in, Profile: rp.Profile, Metrics: metrics}
	if metrics != nil {
		metrics.Start()
	}
	var stopProgress func()
	if metrics != nil && *progressFlag {
		stopProgress = common.StartProgressPrinter(os.Stderr, metrics, 500*time.Millisecond)
	}
	diags, err := engine.Eval(ctx)
	if stopProgress != nil {
		stopProgress()
	}
	if metrics != nil {
		metrics.Stop()
	}
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}

	if err := engine.WriteDiagnosticsNDJSON(*outDiag); err != nil {
		return fmt.Errorf("write diags: %w", err)
	}
	rep := engine.MakeAcceptance()
	if err := report.SaveAcceptanceJSON(rep, *outAcc); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Printf("PASS=%v, errors=%d, warnings=%d, diagnostics=%d\n", rep.Summary.Pass, rep.Summary.Errors, rep.Summary.Warnings, len(diags))
	if metrics != nil && *metricsFlag {
		snap := metrics.Snapshot()
		mbPerSec := snap.ThroughputBytesPerSecond() / 1_000_000
		fmt.Printf("Metrics: duration=%s pdus=%d undecoded=%d resyncs=%d skipped=%s processed=%s throughput=%.2f MB/s\n",
			snap.Duration.Round(10*time.Millisecond),
			snap.PDUs,
			snap.Undecoded,
			snap.Resyncs,
			common.FormatBytes(snap.Skipped),
			common.FormatBytes(snap.Bytes),
			mbPerSec,
		)
	}
	return nil
}

func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func autofixCmd(args []string) error {
	fs := flag.NewFlagSet("autofix", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	in := fs.String("in", "", "capture to fix in place")
	rulesPath := fs.String("rules", "", "rule pack (JSON or YAML); built-in pack when empty")
	auditPath := fs.String("audit", "", "audit log output (jsonl)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *in == "" {
		fmt.Fprintln(fs.Output(), "required: --in")
		return errUsage
	}
	cfg, done, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer done()

	auditLogPath := *auditPath
	if auditLogPath == "" {
		auditLogPath = *in + ".audit.jsonl"
	}
	rp, err := loadRulePack(firstNonEmpty(*rulesPath, cfg.Rules))
	if err != nil {
		return fmt.Errorf("load rule pack: %w", err)
	}
	engine := lint.NewEngine(rp)
	engine.RegisterBuiltins()

	ctx := &lint.Context{
		InputFile: *in,
		Profile:   rp.Profile,
		Apply:     true,
		AuditLog:  common.NewPatchLog(auditLogPath),
	}
	diags, err := engine.Eval(ctx)
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}

	fixes := 0
	for _, d := range diags {
		if !d.FixApplied {
			continue
		}
		fixes++
		fmt.Printf("%s: fixed PDU %d at %s\n", d.RuleId, *d.PDUIndex, d.Offset)
	}
	if fixes == 0 {
		fmt.Println("No fixes applied")
		return nil
	}
	fmt.Printf("Audit log: %s\n", ctx.AuditLog.Path())
	return nil
}

func undoCmd(args []string) error {
	fs := flag.NewFlagSet("undo", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	in := fs.String("in", "", "fixed capture")
	audit := fs.String("audit", "", "audit log (jsonl)")
	out := fs.String("out", "", "restored output file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *in == "" || *audit == "" || *out == "" {
		fmt.Fprintln(fs.Output(), "required: --in, --audit, --out")
		return errUsage
	}
	_, done, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer done()

	entries, err := common.ReadPatchLog(*audit)
	if err != nil {
		return fmt.Errorf("read audit: %w", err)
	}
	if len(entries) == 0 {
		return errors.New("audit log is empty")
	}
	patchedHash, _, err := common.Sha256OfFile(*in)
	if err != nil {
		return fmt.Errorf("hash input: %w", err)
	}
	if err := common.CopyFile(*in, *out); err != nil {
		return fmt.Errorf("copy input: %w", err)
	}
	applied, mismatches, err := revertPatches(*out, entries)
	if err != nil {
		return err
	}
	restoredHash, _, err := common.Sha256OfFile(*out)
	if err != nil {
		return fmt.Errorf("hash restored: %w", err)
	}

	fmt.Printf("Restored %d patch(es) to %s\n", applied, *out)
	fmt.Printf("Patched SHA256: %s\n", patchedHash)
	fmt.Printf("Restored SHA256: %s\n", restoredHash)
	if mismatches > 0 {
		fmt.Printf("Warning: %d patch(es) did not match expected fixed bytes; original bytes reapplied regardless.\n", mismatches)
	}
	return nil
}

// revertPatches writes the before bytes of each entry back into path, newest
// first.
func revertPatches(path string, entries []common.PatchEntry) (applied, mismatches int, err error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return 0, 0, fmt.Errorf("open output: %w", err)
	}
	defer f.Close()
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		before, err := entry.BeforeBytes()
		if err != nil {
			common.Logf("skip entry %d: decode beforeHex failed: %v", i, err)
			continue
		}
		after, err := entry.AfterBytes()
		if err != nil {
			common.Logf("skip entry %d: decode afterHex failed: %v", i, err)
			continue
		}
		if entry.Offset < 0 {
			common.Logf("skip entry %d: invalid offset %d", i, entry.Offset)
			continue
		}
		mismatch := len(after) != len(before)
		if len(after) > 0 {
			buf := make([]byte, len(after))
			if _, err := f.ReadAt(buf, entry.Offset); err != nil || !bytes.Equal(buf, after) {
				mismatch = true
			}
		}
		if len(before) > 0 {
			if _, err := f.WriteAt(before, entry.Offset); err != nil {
				return applied, mismatches, fmt.Errorf("write patch: %w", err)
			}
		}
		if mismatch {
			mismatches++
		}
		applied++
	}
	if err := f.Sync(); err != nil {
		return applied, mismatches, fmt.Errorf("sync output: %w", err)
	}
	return applied, mismatches, nil
}

func reportCmd(args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	accPath := fs.String("acceptance", "", "acceptance_report.json")
	pdfPath := fs.String("pdf", "", "output acceptance report PDF")
	in := fs.String("in", "", "capture the report was produced for")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *accPath == "" || *pdfPath == "" {
		fmt.Fprintln(fs.Output(), "required: --acceptance, --pdf")
		return errUsage
	}
	_, done, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer done()

	rep, err := report.LoadAcceptanceJSON(*accPath)
	if err != nil {
		return fmt.Errorf("load acceptance: %w", err)
	}
	var summary report.CaptureSummary
	if *in != "" {
		summary, err = report.SummarizeCapture(*in)
		if err != nil {
			return fmt.Errorf("summarize capture: %w", err)
		}
	}
	if err := report.SaveAcceptancePDF(rep, summary, *pdfPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	fmt.Println("Wrote PDF:", *pdfPath)
	return nil
}

func manifestCmd(args []string) error {
	fs := flag.NewFlagSet("manifest", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	inputs := fs.String("inputs", "", "comma-separated paths")
	out := fs.String("out", "manifest.json", "output json")
	sign := fs.Bool("sign", false, "sign manifest (detached JWS over JSON)")
	keyPath := fs.String("key", "", "PEM private key for signing (requires --sign)")
	certPath := fs.String("cert", "", "PEM certificate describing signer (requires --sign)")
	jwsOut := fs.String("jws-out", "", "output JWS file (defaults to manifest path with .jws)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	var paths []string
	for _, p := range strings.Split(*inputs, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		fmt.Fprintln(fs.Output(), "required: --inputs")
		return errUsage
	}
	if *sign && (*keyPath == "" || *certPath == "") {
		fmt.Fprintln(fs.Output(), "--sign requires --key and --cert")
		return errUsage
	}
	_, done, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer done()

	m, err := manifest.Build(paths)
	if err != nil {
		return fmt.Errorf("manifest build: %w", err)
	}
	if !*sign {
		if err := manifest.Save(m, *out); err != nil {
			return fmt.Errorf("manifest save: %w", err)
		}
		fmt.Println("Wrote", *out)
		return nil
	}
	keyBytes, err := os.ReadFile(*keyPath)
	if err != nil {
		return fmt.Errorf("read key: %w", err)
	}
	certBytes, err := os.ReadFile(*certPath)
	if err != nil {
		return fmt.Errorf("read cert: %w", err)
	}
	sigPath := *jwsOut
	if sigPath == "" {
		sigPath = manifest.SignaturePath(*out)
	}
	if err := manifest.SaveSigned(m, *out, sigPath, keyBytes, certBytes); err != nil {
		return fmt.Errorf("manifest sign: %w", err)
	}
	common.Logf("signed manifest %s (%d items)", *out, len(m.Items))
	fmt.Println("Wrote", *out)
	fmt.Println("Wrote signature", sigPath)
	return nil
}

func verifySignatureCmd(args []string) error {
	fs := flag.NewFlagSet("verify-signature", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	manifestPath := fs.String("manifest", "", "manifest JSON file")
	jwsPath := fs.String("jws", "", "manifest JWS signature file (defaults to manifest path with .jws)")
	certPath := fs.String("cert", "", "signer certificate (PEM)")
	check := fs.Bool("check", false, "also re-hash the listed files")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *manifestPath == "" || *certPath == "" {
		fmt.Fprintln(fs.Output(), "required: --manifest, --cert")
		return errUsage
	}
	_, done, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer done()

	sigPath := *jwsPath
	if sigPath == "" {
		sigPath = manifest.SignaturePath(*manifestPath)
	}
	certBytes, err := os.ReadFile(*certPath)
	if err != nil {
		return fmt.Errorf("read cert: %w", err)
	}
	if err := manifest.Verify(*manifestPath, sigPath, certBytes); err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}
	common.Logf("verified manifest signature %s", sigPath)
	fmt.Println("Signature OK")
	if !*check {
		return nil
	}
	m, err := manifest.Load(*manifestPath)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}
	changed, err := manifest.Check(m)
	if err != nil {
		return fmt.Errorf("check files: %w", err)
	}
	if len(changed) > 0 {
		return fmt.Errorf("%d file(s) changed since signing: %s", len(changed), strings.Join(changed, ", "))
	}
	fmt.Printf("All %d files match\n", len(m.Items))
	return nil
}

func encodeSampleCmd(args []string) error {
	fs := flag.NewFlagSet("encode-sample", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	out := fs.String("out", "", "output capture")
	typesFlag := fs.String("types", "", "comma-separated PDU types by number or name (default all supported)")
	exercise := fs.Uint("exercise", 1, "exercise identifier")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *out == "" {
		fmt.Fprintln(fs.Output(), "required: --out")
		return errUsage
	}
	if *exercise > 0xFF {
		return fmt.Errorf("exercise %d out of range", *exercise)
	}
	_, done, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer done()

	types, err := parsePDUTypes(*typesFlag)
	if err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	w := capture.NewWriter(f)
	for i, t := range types {
		p, err := dis.NewPDU(t)
		if err != nil {
			f.Close()
			return err
		}
		h := p.PDUHeader()
		h.ExerciseID = uint8(*exercise)
		h.Timestamp = uint32(i) << 1
		if _, err := w.WritePDU(p); err != nil {
			f.Close()
			return err
		}
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote %d PDUs (%s) to %s\n", w.Count(), common.FormatBytes(w.Bytes()), *out)
	fmt.Printf("SHA256: %s\n", w.Digest())
	return nil
}

// parsePDUTypes accepts PDU type numbers or names such as "Entity State" or
// "entitystate". An empty list selects every supported type.
func parsePDUTypes(list string) ([]ebv.PDUType, error) {
	if strings.TrimSpace(list) == "" {
		return dis.Supported(), nil
	}
	byName := make(map[string]ebv.PDUType)
	for _, t := range dis.Supported() {
		byName[normalizeName(t.String())] = t
	}
	var out []ebv.PDUType
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if n, err := strconv.Atoi(item); err == nil {
			if n < 0 || n > 0xFF || !dis.IsSupported(ebv.PDUType(n)) {
				return nil, fmt.Errorf("PDU type %d not supported", n)
			}
			out = append(out, ebv.PDUType(n))
			continue
		}
		t, ok := byName[normalizeName(item)]
		if !ok {
			return nil, fmt.Errorf("unknown PDU type %q", item)
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, errors.New("no PDU types selected")
	}
	return out, nil
}

func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
