package lsp

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"scilla/internal/checker"
	"scilla/internal/config"
	"scilla/internal/remote"
)

// DiagnoseTimeout bounds one checker or remote service run.
var DiagnoseTimeout = time.Minute

// Checked reports whether diagnostics are produced for the file.
func Checked(path string) bool {
	switch filepath.Ext(path) {
	case ".scilla", ".scillib":
		return true
	}
	return false
}

func (h *ScillaHandler) diagnoserFor(s config.Settings) checker.Diagnoser {
	if h.diagnoser != nil {
		return h.diagnoser
	}
	if s.RemoteDebugging {
		return remote.New(s.RemoteURL, s.GasLimit)
	}
	return &checker.Runner{
		BinDir:    s.BinariesPath,
		StdlibDir: s.StdlibPath,
		GasLimit:  s.GasLimit,
		TypeInfo:  s.TypeInfo,
	}
}

// diagnose checks the stored document in the background and publishes the
// result. Documents that are not contracts or libraries are skipped.
func (h *ScillaHandler) diagnose(ctx *glsp.Context, uri protocol.DocumentUri) {
	path, err := uriToPath(string(uri))
	if err != nil {
		log.Warningf("%s", err)
		return
	}
	if !Checked(path) {
		return
	}

	text, err := h.document(uri)
	if err != nil {
		log.Warningf("%s", err)
		return
	}

	settings := h.Settings()
	d := h.diagnoserFor(settings)
	doc := checker.Document{Path: path, Text: text}

	h.pending.Add(1)
	go func() {
		defer h.pending.Done()

		runCtx, cancel := context.WithTimeout(context.Background(), DiagnoseTimeout)
		defer cancel()

		report, err := d.Diagnose(runCtx, doc)
		if err != nil {
			log.Errorf("checking %s: %s", path, err)
			showMessage(ctx, protocol.MessageTypeError, fmt.Sprintf("Could not check %s: %s", filepath.Base(path), err))
			return
		}

		diags := report.Diagnostics(checker.Options{TypeInfo: settings.TypeInfo})
		sendDiagnosticNotification(ctx, uri, ConvertDiagnostics(diags))

		if settings.GasReport {
			if gas := gasRemaining(report); gas != "" {
				showMessage(ctx, protocol.MessageTypeInfo, gas+" of Gas remaining")
			}
		}
	}()
}

func gasRemaining(r *checker.Report) string {
	if r.GasUsage != "" {
		return r.GasUsage
	}
	return r.GasRemaining
}

var severities = map[checker.Severity]protocol.DiagnosticSeverity{
	checker.SeverityError:       protocol.DiagnosticSeverityError,
	checker.SeverityWarning:     protocol.DiagnosticSeverityWarning,
	checker.SeverityInformation: protocol.DiagnosticSeverityInformation,
	checker.SeverityHint:        protocol.DiagnosticSeverityHint,
}

// ConvertDiagnostics transforms checker findings into LSP diagnostics for IDE display.
func ConvertDiagnostics(diags []checker.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))

	for _, d := range diags {
		diagnostic := protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: u32(d.StartLine), Character: u32(d.StartColumn)},
				End:   protocol.Position{Line: u32(d.EndLine), Character: u32(d.EndColumn)},
			},
			Severity: ptrSeverity(severities[d.Severity]),
			Source:   ptrString(d.Source),
			Message:  d.Message,
		}
		if d.Code != "" {
			diagnostic.Code = &protocol.IntegerOrString{Value: d.Code}
		}
		out = append(out, diagnostic)
	}

	return out
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	log.Debugf("publishing %d diagnostics for %s", len(diagnostics), uri)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}
