package checker

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Location is a 1-based source position reported by the checker.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (l Location) zero() bool {
	return l.Line == 0 && l.Column == 0
}

type Warning struct {
	Message string   `json:"warning_message"`
	ID      int      `json:"warning_id"`
	Start   Location `json:"start_location"`
	End     Location `json:"end_location"`
}

type Error struct {
	Message string   `json:"error_message"`
	Start   Location `json:"start_location"`
	End     Location `json:"end_location"`
}

type TypeInfo struct {
	Name  string   `json:"vname"`
	Type  string   `json:"type"`
	Start Location `json:"start_location"`
	End   Location `json:"end_location"`
}

// StateVariable is the cash-flow tag inferred for one contract field.
type StateVariable struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
}

type CashFlow struct {
	StateVariables  []StateVariable   `json:"State variables"`
	ADTConstructors []json.RawMessage `json:"ADT constructors"`
}

// Report is the JSON document printed by scilla-checker with -jsonerrors and
// returned by the remote debugging service.
type Report struct {
	Warnings []Warning  `json:"warnings"`
	Errors   []Error    `json:"errors"`
	TypeInfo []TypeInfo `json:"type_info"`

	GasRemaining string `json:"gas_remaining"`
	GasUsage     string `json:"gas_usage"`
	GasLimit     string `json:"gas_limit"`

	CashFlow *CashFlow `json:"cashflow_tags"`
}

// UnmarshalJSON accepts both "errors" and the remote service's "error" key,
// and both cash-flow keys.
func (r *Report) UnmarshalJSON(data []byte) error {
	type plain Report
	var aux struct {
		plain
		Error            []Error   `json:"error"`
		CashFlowAnalysis *CashFlow `json:"cash_flow_analysis"`
		GasRemaining     any       `json:"gas_remaining"`
		GasUsage         any       `json:"gas_usage"`
		GasLimit         any       `json:"gas_limit"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = Report(aux.plain)
	r.Errors = append(r.Errors, aux.Error...)
	if r.CashFlow == nil {
		r.CashFlow = aux.CashFlowAnalysis
	}
	r.GasRemaining = scalar(aux.GasRemaining)
	r.GasUsage = scalar(aux.GasUsage)
	r.GasLimit = scalar(aux.GasLimit)
	return nil
}

// scalar renders a JSON string or number as text.
func scalar(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// ParseReport decodes checker output.
func ParseReport(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// HasErrors reports whether the checker rejected the contract.
func (r *Report) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// Severity mirrors the LSP diagnostic severities.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

const (
	SourceWarning  = "scilla-checker (Warning)"
	SourceError    = "scilla-checker (Error)"
	SourceTypeInfo = "scilla-checker (Type Information)"
)

// Diagnostic is a checker finding with a 0-based range.
type Diagnostic struct {
	Code        string
	Message     string
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
	Severity    Severity
	Source      string
}

// Options selects which report sections become diagnostics.
type Options struct {
	TypeInfo bool
}

// Diagnostics converts a report into diagnostics: errors first, then
// warnings, then type information when requested.
func (r *Report) Diagnostics(opts Options) []Diagnostic {
	if r == nil {
		return nil
	}

	var out []Diagnostic
	for _, e := range r.Errors {
		out = append(out, newDiagnostic("", e.Message, e.Start, e.End, SeverityError, SourceError))
	}
	for _, w := range r.Warnings {
		out = append(out, newDiagnostic(strconv.Itoa(w.ID), w.Message, w.Start, w.End, SeverityWarning, SourceWarning))
	}
	if opts.TypeInfo {
		for _, ti := range r.TypeInfo {
			out = append(out, newDiagnostic(ti.Name, ti.Type, ti.Start, ti.End, SeverityHint, SourceTypeInfo))
		}
	}
	return out
}

func newDiagnostic(code, message string, start, end Location, sev Severity, source string) Diagnostic {
	d := Diagnostic{
		Code:        code,
		Message:     strings.TrimSpace(message),
		StartLine:   toZero(start.Line),
		StartColumn: toZero(start.Column),
		Severity:    sev,
		Source:      source,
	}

	if end.zero() || end.Line < start.Line || (end.Line == start.Line && end.Column <= start.Column) {
		d.EndLine = d.StartLine
		d.EndColumn = d.StartColumn + 1
	} else {
		d.EndLine = toZero(end.Line)
		d.EndColumn = toZero(end.Column)
	}
	return d
}

func toZero(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}
