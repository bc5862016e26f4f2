// Package lsp serves document formatting over the Language Server
// Protocol so editors can bind the formatter to a key.
package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/xmlalign/format"
	"github.com/dhamidi/xmlalign/project"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "xmlalign"

var log = commonlog.GetLogger("xmlalign.lsp")

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string

	mu   sync.RWMutex
	docs map[string]string
}

func NewServer(version string) *Server {
	s := &Server{
		version: version,
		docs:    make(map[string]string),
	}

	s.handler = protocol.Handler{
		Initialize:             s.initialize,
		Initialized:            s.initialized,
		Shutdown:               s.shutdown,
		SetTrace:               s.setTrace,
		TextDocumentDidOpen:    s.textDocumentDidOpen,
		TextDocumentDidChange:  s.textDocumentDidChange,
		TextDocumentDidClose:   s.textDocumentDidClose,
		TextDocumentDidSave:    s.textDocumentDidSave,
		TextDocumentFormatting: s.textDocumentFormatting,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if params.RootURI != nil {
		log.Infof("initialize: root %s", *params.RootURI)
	}

	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.DocumentFormattingProvider = true

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
	s.setDocument(params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.setDocument(params.TextDocument.URI, textChange.Text)
		}
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, params.TextDocument.URI)
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.setDocument(params.TextDocument.URI, *params.Text)
	}
	return nil
}

func (s *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	uri := params.TextDocument.URI
	text, err := s.text(uri)
	if err != nil {
		return nil, err
	}

	opts := s.optionsFor(uri, params.Options)
	res, err := format.Format([]byte(text), opts)
	if err != nil {
		log.Infof("format %s: %v", uri, err)
		showMessage(ctx, protocol.MessageTypeWarning, format.FailedMessage(err))
		return nil, nil
	}

	log.Debugf("format %s: %s", uri, res.Elapsed)
	showMessage(ctx, protocol.MessageTypeInfo, format.CompletedMessage(res.Elapsed))
	if !res.Changed {
		return []protocol.TextEdit{}, nil
	}
	return []protocol.TextEdit{{
		Range:   wholeDocument(text),
		NewText: string(res.Formatted),
	}}, nil
}

func (s *Server) setDocument(uri, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = text
}

// text returns the open document, falling back to the file on disk for
// documents the client never opened.
func (s *Server) text(uri string) (string, error) {
	s.mu.RLock()
	text, ok := s.docs[uri]
	s.mu.RUnlock()
	if ok {
		return text, nil
	}

	path, err := uriToPath(uri)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("document %s is not open: %w", uri, err)
	}
	return string(data), nil
}

// optionsFor merges the project configuration for uri with the editor's
// indentation settings.
func (s *Server) optionsFor(uri string, editor protocol.FormattingOptions) format.Options {
	cfg := project.Default()
	if path, err := uriToPath(uri); err == nil {
		if proj, err := project.LoadFrom(filepath.Dir(path)); err == nil {
			cfg = proj.Config
		} else {
			log.Warningf("config for %s: %v", uri, err)
		}
	}

	opts := cfg.Options().Options
	if indent, ok := editorIndent(editor); ok && cfg.Indent == "" {
		opts.Indent = indent
	}
	return opts
}

func editorIndent(editor protocol.FormattingOptions) (string, bool) {
	spaces, ok := editor[protocol.FormattingOptionInsertSpaces].(bool)
	if !ok {
		return "", false
	}
	if !spaces {
		return "\t", true
	}

	size := 4
	switch v := editor[protocol.FormattingOptionTabSize].(type) {
	case float64:
		size = int(v)
	case int:
		size = v
	case protocol.UInteger:
		size = int(v)
	}
	if size <= 0 {
		size = 4
	}
	return strings.Repeat(" ", size), true
}

func showMessage(ctx *glsp.Context, kind protocol.MessageType, message string) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	ctx.Notify(protocol.ServerWindowShowMessage, protocol.ShowMessageParams{
		Type:    kind,
		Message: message,
	})
}

// wholeDocument is the range covering all of text, with the end column
// counted in UTF-16 code units.
func wholeDocument(text string) protocol.Range {
	lines := strings.Count(text, "\n")
	last := text[strings.LastIndexByte(text, '\n')+1:]

	width := 0
	for _, r := range last {
		if n := utf16.RuneLen(r); n > 0 {
			width += n
		} else {
			width++
		}
	}

	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End: protocol.Position{
			Line:      protocol.UInteger(lines),
			Character: protocol.UInteger(width),
		},
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
