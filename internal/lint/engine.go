package lint

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"example.com/disgate/internal/capture"
	"example.com/disgate/internal/common"
)

type Severity string

const (
	ERROR Severity = "ERROR"
	WARN  Severity = "WARN"
	INFO  Severity = "INFO"
)

type Rule struct {
	RuleId    string         `json:"ruleId" yaml:"ruleId"`
	Name      string         `json:"name,omitempty" yaml:"name,omitempty"`
	Scope     string         `json:"scope" yaml:"scope"` // pdu|file
	Severity  Severity       `json:"severity" yaml:"severity"`
	Fixable   bool           `json:"fixable" yaml:"fixable"`
	CheckFunc string         `json:"checkFunction,omitempty" yaml:"checkFunction,omitempty"`
	Refs      []string       `json:"refs" yaml:"refs"`
	Params    map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	Message   string         `json:"message" yaml:"message"`
}

type RulePack struct {
	RulePackId string `json:"rulePackId" yaml:"rulePackId"`
	Version    string `json:"version" yaml:"version"`
	Profile    string `json:"profile" yaml:"profile"`
	Rules      []Rule `json:"rules" yaml:"rules"`
}

type Diagnostic struct {
	Ts           time.Time `json:"ts"`
	File         string    `json:"file"`
	PDUIndex     *int      `json:"pduIndex,omitempty"`
	PDUType      string    `json:"pduType,omitempty"`
	Offset       string    `json:"offset,omitempty"`
	RuleId       string    `json:"ruleId"`
	Severity     Severity  `json:"severity"`
	Message      string    `json:"message"`
	Refs         []string  `json:"refs"`
	FixSuggested bool      `json:"fixSuggested"`
	FixApplied   bool      `json:"fixApplied"`
	FixPatchId   string    `json:"fixPatchId,omitempty"`
	TimestampRaw *uint32   `json:"timestamp_raw"`
}

type AcceptanceReport struct {
	Summary struct {
		Total    int  `json:"total"`
		Errors   int  `json:"errors"`
		Warnings int  `json:"warnings"`
		Pass     bool `json:"pass"`
	} `json:"summary"`
	GateMatrix []GateResult `json:"gateMatrix"`
	Findings   []Diagnostic `json:"findings,omitempty"`
}

// GateResult is one row of the acceptance gate matrix.
type GateResult struct {
	RuleId   string   `json:"ruleId"`
	Name     string   `json:"name,omitempty"`
	Severity Severity `json:"severity"`
	Pass     bool     `json:"pass"`
	Findings int      `json:"findings"`
	Fixed    int      `json:"fixed,omitempty"`
}

// Context carries the capture under evaluation. Fixes are only written when
// Apply is set.
type Context struct {
	InputFile string
	Profile   string
	Apply     bool

	Index    *capture.FileIndex
	AuditLog *common.PatchLog
	Metrics  *common.Metrics
}

// EnsureFileIndex scans the capture once and caches its index.
func (ctx *Context) EnsureFileIndex() error {
	if ctx == nil {
		return errors.New("nil context")
	}
	if ctx.InputFile == "" {
		return errors.New("no input file")
	}
	if ctx.Index != nil {
		return nil
	}
	reader, err := capture.NewReader(ctx.InputFile)
	if err != nil {
		return err
	}
	defer reader.Close()
	reader.SetMetrics(ctx.Metrics)
	for {
		_, _, err := reader.Next()
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		return err
	}
	idx := reader.Index()
	if len(idx.PDUs) == 0 {
		return capture.ErrNoHeader
	}
	ctx.Index = &idx
	return nil
}

type Engine struct {
	rulePack               RulePack
	registry               map[string]CheckFunc
	diagnostics            []Diagnostic
	includeTimestampFields bool
}

func NewEngine(rp RulePack) *Engine {
	return &Engine{
		rulePack:               rp,
		registry:               make(map[string]CheckFunc),
		includeTimestampFields: true,
	}
}

// CheckFunc evaluates one rule against the capture. It returns every finding
// it produced; an error aborts the rule and is reported as an ERROR finding.
type CheckFunc func(ctx *Context, rule Rule) ([]Diagnostic, error)

func (e *Engine) Register(name string, f CheckFunc) {
	e.registry[name] = f
}

func (e *Engine) Eval(ctx *Context) ([]Diagnostic, error) {
	if ctx == nil {
		return nil, errors.New("nil context")
	}
	if err := ctx.EnsureFileIndex(); err != nil {
		return nil, err
	}
	var diags []Diagnostic
	for _, r := range e.rulePack.Rules {
		if r.CheckFunc == "" {
			continue
		}
		fn, ok := e.registry[r.CheckFunc]
		if !ok {
			diags = append(diags, Diagnostic{
				Ts: time.Now(), File: ctx.InputFile, RuleId: r.RuleId, Severity: WARN,
				Message: "no function for rule", Refs: r.Refs,
			})
			continue
		}
		found, err := fn(ctx, r)
		if err != nil {
			found = append(found, Diagnostic{
				Ts: time.Now(), File: ctx.InputFile, RuleId: r.RuleId, Severity: ERROR,
				Message: fmt.Sprintf("%s (%v)", r.Message, err), Refs: r.Refs,
			})
		}
		diags = append(diags, found...)
	}
	e.diagnostics = diags
	return diags, nil
}

func (e *Engine) WriteDiagnosticsNDJSON(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, d := range e.diagnostics {
		if !e.includeTimestampFields {
			d.TimestampRaw = nil
		}
		b, err := json.Marshal(d)
		if err != nil {
			return err
		}
		w.Write(b)
		w.WriteString("\n")
	}
	return w.Flush()
}

func (e *Engine) SetConfigValue(key string, value any) {
	if e == nil {
		return
	}
	switch key {
	case "diag.include_timestamps":
		switch v := value.(type) {
		case bool:
			e.includeTimestampFields = v
		case string:
			if b, err := strconv.ParseBool(v); err == nil {
				e.includeTimestampFields = b
			}
		}
	}
}

// MakeAcceptance summarises the last evaluation. The capture passes when no
// finding is an ERROR.
func (e *Engine) MakeAcceptance() AcceptanceReport {
	var rep AcceptanceReport
	rows := make(map[string]int)
	for _, r := range e.rulePack.Rules {
		if r.CheckFunc == "" {
			continue
		}
		if _, dup := rows[r.RuleId]; dup {
			continue
		}
		rows[r.RuleId] = len(rep.GateMatrix)
		rep.GateMatrix = append(rep.GateMatrix, GateResult{
			RuleId: r.RuleId, Name: r.Name, Severity: r.Severity, Pass: true,
		})
	}
	var errs, warns int
	for _, d := range e.diagnostics {
		switch d.Severity {
		case ERROR:
			errs++
		case WARN:
			warns++
		}
		i, ok := rows[d.RuleId]
		if !ok {
			continue
		}
		row := &rep.GateMatrix[i]
		if d.Severity != INFO || d.FixSuggested {
			row.Findings++
		}
		if d.Severity == ERROR {
			row.Pass = false
		}
		if d.FixApplied {
			row.Fixed++
		}
	}
	rep.Summary.Total = len(e.diagnostics)
	rep.Summary.Errors = errs
	rep.Summary.Warnings = warns
	rep.Summary.Pass = errs == 0
	rep.Findings = e.diagnostics
	return rep
}

// LoadRulePack reads a rule pack from JSON, or YAML for .yaml/.yml files.
func LoadRulePack(path string) (RulePack, error) {
	var rp RulePack
	b, err := os.ReadFile(path)
	if err != nil {
		return rp, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &rp)
	default:
		err = json.Unmarshal(b, &rp)
	}
	if err != nil {
		return rp, fmt.Errorf("rule pack %s: %w", path, err)
	}
	if len(rp.Rules) == 0 {
		return rp, fmt.Errorf("rule pack %s: no rules", path)
	}
	return rp, nil
}
