// Package lsp serves parse diagnostics for shrinker rule files over the
// language server protocol, so editors can surface errors and
// forward-compatibility warnings while a configuration is being written.
package lsp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/keeper/rules"
)

const lsName = "keeper"

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string

	// dalvik enables Dalvik identifier checking for every parsed document.
	dalvik bool
}

func NewServer(version string, dalvik bool) *Server {
	s := &Server{
		version: version,
		dalvik:  dalvik,
	}

	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.publishDiagnostics(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		s.publishDiagnostics(ctx, params.TextDocument.URI, textChange.Text)
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) publishDiagnostics(ctx *glsp.Context, uri string, text string) {
	diagnostics := CheckText(text, s.dalvik)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// CheckText parses one rule document and converts the outcome to LSP
// diagnostics: buffered warnings become Warning entries, a parse error
// becomes a single Error entry on the offending line.
func CheckText(text string, dalvik bool) []protocol.Diagnostic {
	config := &rules.Configuration{DalvikIdentifiers: dalvik}
	parser := rules.NewStringParser(text, "", nil)
	err := parser.Parse(config)

	diagnostics := []protocol.Diagnostic{}
	for _, warning := range parser.Warnings() {
		severity := protocol.DiagnosticSeverityWarning
		source := lsName
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Severity: &severity,
			Source:   &source,
			Message:  strings.ReplaceAll(warning, "\n", " "),
		})
	}

	if err != nil {
		severity := protocol.DiagnosticSeverityError
		source := lsName
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    errorRange(err, text),
			Severity: &severity,
			Source:   &source,
			Message:  err.Error(),
		})
	}

	return diagnostics
}

// errorRange places a parse error on the line named by its location
// description, spanning the whole line.
func errorRange(err error, text string) protocol.Range {
	var pe *rules.ParseError
	if !errors.As(err, &pe) {
		return protocol.Range{}
	}

	var lineNum int
	if _, scanErr := fmt.Sscanf(pe.Location, "line %d", &lineNum); scanErr != nil || lineNum < 1 {
		return protocol.Range{}
	}

	lines := strings.Split(text, "\n")
	length := 0
	if lineNum <= len(lines) {
		length = len(lines[lineNum-1])
	}
	line := protocol.UInteger(lineNum - 1)
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: 0},
		End:   protocol.Position{Line: line, Character: protocol.UInteger(length)},
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
