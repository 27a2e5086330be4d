package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
	"github.com/yaklabco/hl7lint/pkg/lint"
	"github.com/yaklabco/hl7lint/pkg/lint/rules"
	"github.com/yaklabco/hl7lint/pkg/parser/er7"
	"github.com/yaklabco/hl7lint/pkg/reporter"
	"github.com/yaklabco/hl7lint/pkg/runner"
	"github.com/yaklabco/hl7lint/pkg/treefmt"
)

// defaultName labels request bodies sent without a name.
const defaultName = "message.hl7"

// ParseRequest selects what Service.Parse returns.
type ParseRequest struct {
	Name       string
	Content    []byte
	Select     string
	MaxDepth   int
	Delimiters bool
}

// LintRequest is the input of Service.Lint.
type LintRequest struct {
	Name    string
	Content []byte
	Fix     bool
}

// LintResponse is the output of Service.Lint.
type LintResponse struct {
	Report *reporter.JSONOutput `json:"report"`

	// Content holds the fixed message when fixes were requested and applied.
	Content string `json:"content,omitempty"`
}

// Service parses and lints message bodies.
type Service struct {
	parser   *er7.Parser
	pipeline *lint.Pipeline
	registry *lint.Registry
	cfg      *config.Config
}

// NewService creates a Service. Nil arguments select defaults.
func NewService(cfg *config.Config, registry *lint.Registry) *Service {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	if registry == nil {
		registry = lint.DefaultRegistry
	}

	parser := er7.New()

	return &Service{
		parser:   parser,
		pipeline: lint.NewPipeline(lint.NewEngine(parser, registry)),
		registry: registry,
		cfg:      cfg,
	}
}

// Parse builds the serialized tree of req.Content.
func (s *Service) Parse(ctx context.Context, req ParseRequest) (*treefmt.Document, error) {
	opts := treefmt.Options{MaxDepth: req.MaxDepth, Delimiters: req.Delimiters}

	if req.Select != "" {
		path, err := hl7ast.ParsePath(req.Select)
		if err != nil {
			return nil, newStatusError(fiber.StatusBadRequest, "invalid path", err)
		}

		opts.Select = &path
	}

	snap, err := s.parser.Parse(ctx, nameOr(req.Name), req.Content)
	if err != nil {
		return nil, classify(err)
	}

	return treefmt.Build(snap, opts), nil
}

// Lint lints req.Content. With req.Fix the fix loop runs in memory and the
// fixed message is returned alongside the findings that remain.
func (s *Service) Lint(ctx context.Context, req LintRequest) (*LintResponse, error) {
	name := nameOr(req.Name)

	cfg := s.cfg.Clone()
	cfg.Fix = req.Fix

	opts := lint.DefaultPipelineOptions()
	opts.Fix = req.Fix
	opts.DryRun = true

	pr, err := s.pipeline.ProcessContent(ctx, name, req.Content, cfg, opts)
	if err != nil {
		return nil, classify(err)
	}

	result := &runner.Result{}
	result.Add(runner.FileOutcome{Path: name, Result: pr})

	rep := reporter.NewJSONReporter(reporter.Options{Writer: io.Discard, RuleFormat: s.cfg.RuleFormat})

	resp := &LintResponse{Report: rep.BuildOutput(result)}
	if pr.Modified {
		resp.Content = string(pr.ModifiedContent)
	}

	return resp, nil
}

// Rules describes the registered rules.
func (s *Service) Rules() []config.RuleInfo {
	return rules.RuleInfos(s.registry)
}

// classify maps parse failures to client errors.
func classify(err error) error {
	switch {
	case errors.Is(err, er7.ErrMalformedHeader):
		var he *er7.HeaderError
		if errors.As(err, &he) {
			return newStatusError(fiber.StatusUnprocessableEntity, he.Error(), nil)
		}

		return newStatusError(fiber.StatusUnprocessableEntity, er7.ErrMalformedHeader.Error(), nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return newStatusError(fiber.StatusServiceUnavailable, "request cancelled", err)
	default:
		return fmt.Errorf("process message: %w", err)
	}
}

func nameOr(name string) string {
	if name == "" {
		return defaultName
	}

	return name
}
