// Package lsp serves parse trees and lint results to editors over the
// Language Server Protocol.
package lsp

import (
	"encoding/json"
	"errors"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	// Register the commonlog backend used by glsp.
	_ "github.com/tliron/commonlog/simple"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/lint"
	"github.com/yaklabco/hl7lint/pkg/parser/er7"
)

const serverName = "hl7lint"

// diagnosticSource labels every published diagnostic.
const diagnosticSource = "hl7lint"

var errNotInitialized = errors.New("server not initialized")

// Options configures a Server.
type Options struct {
	// Version is reported to the client in serverInfo.
	Version string

	// Config selects and tunes the lint rules. Nil means defaults.
	Config *config.Config

	// Registry supplies the lint rules. Nil means lint.DefaultRegistry.
	Registry *lint.Registry

	// Debug logs every JSON-RPC message.
	Debug bool
}

// Server is a language server for HL7 v2 messages.
type Server struct {
	handler protocol.Handler
	server  *server.Server

	parser  *er7.Parser
	engine  *lint.Engine
	cfg     *config.Config
	docs    *documentStore
	version string
	log     commonlog.Logger
}

// New creates a Server.
func New(opts Options) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}

	registry := opts.Registry
	if registry == nil {
		registry = lint.DefaultRegistry
	}

	parser := er7.New()

	s := &Server{
		parser:  parser,
		engine:  lint.NewEngine(parser, registry),
		cfg:     cfg,
		docs:    newDocumentStore(),
		version: opts.Version,
		log:     commonlog.GetLogger(serverName + ".lsp"),
	}

	s.handler = protocol.Handler{
		Initialize:                 s.initialize,
		Initialized:                s.initialized,
		Shutdown:                   s.shutdown,
		SetTrace:                   s.setTrace,
		TextDocumentDidOpen:        s.didOpen,
		TextDocumentDidChange:      s.didChange,
		TextDocumentDidClose:       s.didClose,
		TextDocumentHover:          s.hover,
		TextDocumentDocumentSymbol: s.documentSymbols,
	}

	s.server = server.NewServer(s, serverName, opts.Debug)

	return s
}

// RunStdio serves a single client over stdin and stdout.
func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

// Handle implements glsp.Handler. Inlay hints postdate the protocol
// version glsp implements, so they are dispatched here.
func (s *Server) Handle(ctx *glsp.Context) (any, bool, bool, error) {
	if ctx.Method != methodInlayHint {
		return s.handler.Handle(ctx)
	}

	if !s.handler.IsInitialized() {
		return nil, true, true, errNotInitialized
	}

	var params InlayHintParams
	if err := json.Unmarshal(ctx.Params, &params); err != nil {
		return nil, true, false, err
	}

	return s.inlayHints(&params), true, true, nil
}

// serverCapabilities adds the capabilities glsp has no fields for.
type serverCapabilities struct {
	protocol.ServerCapabilities

	InlayHintProvider bool `json:"inlayHintProvider"`
}

type initializeResult struct {
	Capabilities serverCapabilities                   `json:"capabilities"`
	ServerInfo   *protocol.InitializeResultServerInfo `json:"serverInfo,omitempty"`
}

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if params.ClientInfo != nil {
		s.log.Infof("client: %s", params.ClientInfo.Name)
	}

	capabilities := s.handler.CreateServerCapabilities()

	return initializeResult{
		Capabilities: serverCapabilities{ServerCapabilities: capabilities, InlayHintProvider: true},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	s.log.Info("initialized")

	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)

	return nil
}

func (s *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)

	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	item := params.TextDocument

	doc := s.docs.open(item.URI, uriToPath(item.URI), item.Version, []byte(item.Text), s.parser)
	s.log.Debugf("opened %s: %d segments", item.URI, doc.segmentCount())
	s.publishDiagnostics(ctx, doc)

	return nil
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	doc, err := s.docs.change(params.TextDocument.URI, params.TextDocument.Version, params.ContentChanges, s.parser)
	if err != nil {
		return err
	}

	s.log.Debugf("changed %s: v%d, %d reused, %d rebuilt, %d full reparses",
		doc.uri, doc.version, doc.stats.Reused, doc.stats.Rebuilt, doc.fullReparses)
	s.publishDiagnostics(ctx, doc)

	return nil
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.docs.close(uri)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})

	return nil
}

func uriToPath(uri string) string {
	if !strings.HasPrefix(uri, "file://") {
		return uri
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return uri
	}

	return filepath.Clean(parsed.Path)
}
