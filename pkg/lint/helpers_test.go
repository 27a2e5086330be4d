package lint_test

import (
	"context"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
	"github.com/yaklabco/hl7lint/pkg/lint"
	"github.com/yaklabco/hl7lint/pkg/parser/er7"
)

const adt = "MSH|^~\\&|APP|FAC\rPID|1||123^^^MR\rNK1|1|DOE^JANE\r"

// funcRule adapts a function into a rule.
type funcRule struct {
	lint.BaseRule
	apply func(*lint.RuleContext) ([]lint.Diagnostic, error)
}

func (r *funcRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	return r.apply(ctx)
}

func newFuncRule(id, name string, fn func(*lint.RuleContext) ([]lint.Diagnostic, error)) *funcRule {
	return &funcRule{
		BaseRule: lint.NewBaseRule(id, name, "test rule "+name, []string{"test"}, true),
		apply:    fn,
	}
}

// replaceRule flags every literal equal to from and offers to rewrite it.
func replaceRule(id, from, to string) *funcRule {
	return newFuncRule(id, "replace-"+from, func(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
		var diags []lint.Diagnostic

		for leaf := range hl7ast.Leaves(ctx.Root) {
			if leaf.Kind() != hl7ast.NodeLiteral || string(leaf.Text()) != from {
				continue
			}

			ctx.Builder.ReplaceNode(leaf, to)
		}

		for _, edit := range ctx.Builder.Edits {
			diags = append(diags, lint.NewDiagnosticAt(id, ctx.File,
				hl7ast.SourceRange{StartOffset: edit.StartOffset, EndOffset: edit.EndOffset},
				from+" should be "+to).WithEdit(edit).Build())
		}

		return diags, nil
	})
}

func newEngine(rules ...lint.Rule) *lint.Engine {
	registry := lint.NewRegistry()
	for _, rule := range rules {
		registry.Register(rule)
	}

	return lint.NewEngine(er7.New(), registry)
}

func fixConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Fix = true

	return cfg
}

// parseOnly hides Reparse from the pipeline.
type parseOnly struct{ inner *er7.Parser }

func (p parseOnly) Parse(ctx context.Context, path string, content []byte) (*hl7ast.Snapshot, error) {
	return p.inner.Parse(ctx, path, content)
}
