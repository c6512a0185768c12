package lsp

import (
	"encoding/json"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"gitlab.com/tozd/go/errors"

	"scilla/internal/checker"
	"scilla/internal/config"
)

// Name identifies the server to clients.
const Name = "scilla"

// Version is reported in the initialize response.
var Version = "0.1.0"

var log = commonlog.GetLogger("scilla.lsp")

// Define the set of supported semantic token types (advertised in the legend)
var SemanticTokenTypes = []string{
	"namespace",
	"type",
	"function",
	"property",
	"keyword",
	"number",
	"comment",
}

// Define the set of supported semantic token modifiers
var SemanticTokenModifiers = []string{
	"declaration",
	"defaultLibrary",
}

// ScillaHandler implements the LSP server handlers for Scilla
type ScillaHandler struct {
	mu       sync.RWMutex
	content  map[protocol.DocumentUri]string
	settings config.Settings

	// diagnoser, when set, replaces the checker picked from the settings
	diagnoser checker.Diagnoser
	pending   sync.WaitGroup
}

// Option configures a ScillaHandler.
type Option func(*ScillaHandler)

// WithSettings sets the settings used until the client sends its own.
func WithSettings(s config.Settings) Option {
	return func(h *ScillaHandler) {
		h.settings = s
	}
}

// WithDiagnoser makes every diagnostics run go through d.
func WithDiagnoser(d checker.Diagnoser) Option {
	return func(h *ScillaHandler) {
		h.diagnoser = d
	}
}

// NewScillaHandler creates and returns a new ScillaHandler instance
func NewScillaHandler(opts ...Option) *ScillaHandler {
	h := &ScillaHandler{
		content:  make(map[protocol.DocumentUri]string),
		settings: config.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *ScillaHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	if params.InitializationOptions != nil {
		if err := h.applySettings(params.InitializationOptions); err != nil {
			log.Warningf("ignoring initialization options: %s", err)
		}
	}

	version := Version
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
				Save:      &protocol.SaveOptions{IncludeText: ptrBool(true)},
			},
			HoverProvider: true,
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false),
			},
			DocumentFormattingProvider: true,
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &version,
		},
	}, nil
}

// Initialized is called after the client receives the server's capabilities
func (h *ScillaHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

// Shutdown waits for in-flight diagnostics before the client exits
func (h *ScillaHandler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	h.Wait()
	return nil
}

// SetTrace records the trace level requested by the client
func (h *ScillaHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen stores the document and checks it
func (h *ScillaHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debugf("opened %s", uri)

	h.mu.Lock()
	h.content[uri] = params.TextDocument.Text
	h.mu.Unlock()

	h.diagnose(ctx, uri)
	return nil
}

// TextDocumentDidChange replaces the stored text
func (h *ScillaHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	h.mu.Lock()
	defer h.mu.Unlock()

	text, ok := h.content[uri]
	if !ok {
		return errors.Errorf("change for unknown document %s", uri)
	}

	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text = c.Text
				continue
			}
			start, end := offsetAt(text, c.Range.Start), offsetAt(text, c.Range.End)
			if end < start {
				return errors.Errorf("change for %s has an inverted range", uri)
			}
			text = text[:start] + c.Text + text[end:]
		default:
			return errors.Errorf("unsupported content change %T", change)
		}
	}

	h.content[uri] = text
	return nil
}

// TextDocumentDidSave refreshes the stored text and checks the document again
func (h *ScillaHandler) TextDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debugf("saved %s", uri)

	if params.Text != nil {
		h.mu.Lock()
		h.content[uri] = *params.Text
		h.mu.Unlock()
	}

	h.diagnose(ctx, uri)
	return nil
}

// TextDocumentDidClose forgets the document and clears its diagnostics
func (h *ScillaHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debugf("closed %s", uri)

	h.mu.Lock()
	delete(h.content, uri)
	h.mu.Unlock()

	sendDiagnosticNotification(ctx, uri, []protocol.Diagnostic{})
	return nil
}

// WorkspaceDidChangeConfiguration merges the client's "scilla" settings
func (h *ScillaHandler) WorkspaceDidChangeConfiguration(ctx *glsp.Context, params *protocol.DidChangeConfigurationParams) error {
	if err := h.applySettings(params.Settings); err != nil {
		showMessage(ctx, protocol.MessageTypeError, "Invalid scilla settings: "+err.Error())
		return nil
	}
	log.Info("settings updated")
	return nil
}

// Settings returns the settings currently in effect.
func (h *ScillaHandler) Settings() config.Settings {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.settings
}

// Wait blocks until every diagnostics run started so far has published.
func (h *ScillaHandler) Wait() {
	h.pending.Wait()
}

func (h *ScillaHandler) applySettings(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Errorf("encode settings: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	s, err := h.settings.ApplyJSON(raw)
	if err != nil {
		return err
	}
	h.settings = s
	return nil
}

func (h *ScillaHandler) document(uri protocol.DocumentUri) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	text, ok := h.content[uri]
	if !ok {
		return "", errors.Errorf("document %s is not open", uri)
	}
	return text, nil
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", errors.Errorf("invalid URI %s: %w", rawURI, err)
	}
	if u.Scheme != "" && u.Scheme != "file" {
		return "", errors.Errorf("unsupported URI scheme %q", u.Scheme)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) to get C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func showMessage(ctx *glsp.Context, kind protocol.MessageType, message string) {
	ctx.Notify(protocol.ServerWindowShowMessage, &protocol.ShowMessageParams{
		Type:    kind,
		Message: message,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrString(s string) *string {
	return &s
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
