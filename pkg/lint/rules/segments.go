package rules

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/fix"
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
	"github.com/yaklabco/hl7lint/pkg/lint"
)

// segmentIDPattern matches a well-formed segment ID.
var segmentIDPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{2}$`)

// standardSegments is the set of segment IDs defined by HL7 v2.x.
//
//nolint:gochecknoglobals // lookup table
var standardSegments = []string{
	"ABS", "ACC", "ADD", "ADJ", "AFF", "AIG", "AIL", "AIP", "AIS", "AL1", "APR", "ARQ", "ARV", "AUT",
	"BHS", "BLC", "BLG", "BPO", "BPX", "BTS", "BTX", "BUI",
	"CDM", "CDO", "CER", "CM0", "CM1", "CM2", "CNS", "CON", "CSP", "CSR", "CSS", "CTD", "CTI",
	"DB1", "DG1", "DMI", "DON", "DRG", "DSC", "DSP",
	"ECD", "ECR", "EDU", "EQP", "EQU", "ERR", "EVN",
	"FAC", "FHS", "FT1", "FTS",
	"GOL", "GP1", "GP2", "GT1",
	"IAM", "IAR", "IIM", "ILT", "IN1", "IN2", "IN3", "INV", "IPC", "IPR", "ISD", "ITM", "IVC", "IVT",
	"LAN", "LCC", "LCH", "LDP", "LOC", "LRL",
	"MFA", "MFE", "MFI", "MRG", "MSA", "MSH",
	"NCK", "NDS", "NK1", "NPU", "NSC", "NST", "NTE",
	"OBR", "OBX", "ODS", "ODT", "OM1", "OM2", "OM3", "OM4", "OM5", "OM6", "OM7", "ORC", "ORG", "OVR",
	"PAC", "PCE", "PCR", "PD1", "PDA", "PDC", "PEO", "PES", "PID", "PKG", "PMT", "PR1", "PRA", "PRB",
	"PRC", "PRD", "PRT", "PSG", "PSH", "PSL", "PSS", "PTH", "PV1", "PV2", "PYE",
	"QAK", "QID", "QPD", "QRD", "QRF", "QRI", "RCP", "RDF", "RDT", "REL", "RF1", "RFI", "RGS", "RMI",
	"ROL", "RQ1", "RQD", "RXA", "RXC", "RXD", "RXE", "RXG", "RXO", "RXR", "RXV",
	"SAC", "SCD", "SCH", "SCP", "SDD", "SFT", "SHP", "SID", "SLT", "SPM", "STF", "STZ",
	"TCC", "TCD", "TQ1", "TQ2", "TXA",
	"UAC", "UB1", "UB2", "URD", "URS",
	"VAR", "VND",
}

// SegmentIDRule checks segment IDs against the HL7 naming rules and the
// standard segment list.
type SegmentIDRule struct {
	lint.BaseRule
}

// NewSegmentIDRule creates a new segment ID rule.
func NewSegmentIDRule() *SegmentIDRule {
	return &SegmentIDRule{
		BaseRule: lint.NewBaseRule(
			"HL7003",
			"segment-id",
			"Segment IDs must be three characters naming a known segment",
			[]string{"segment", "structure"},
			false,
		).WithSeverity(config.SeverityError),
	}
}

// Apply reports missing, malformed and unknown segment IDs.
//
// Options:
//   - allow: extra segment IDs to accept
//   - allow_z_segments: accept any Zxx segment (default true)
func (r *SegmentIDRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	allow := ctx.OptionStringSlice("allow", nil)
	allowZ := ctx.OptionBool("allow_z_segments", true)

	known := slices.Concat(standardSegments, allow)

	var diags []lint.Diagnostic

	for _, seg := range ctx.Segments() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		if seg.ChildCount() == 0 || isBlankSegment(seg) {
			continue
		}

		id := seg.Child(0)
		if id.Kind() != hl7ast.NodeLiteral {
			diags = append(diags, lint.NewDiagnostic(r.ID(), id, "Segment has no ID").
				WithSeverity(config.SeverityError).
				WithPath(fmt.Sprintf("#%d", seg.SegmentIndex()+1)).
				Build())

			continue
		}

		name := string(id.Text())

		switch {
		case !segmentIDPattern.MatchString(name):
			b := lint.NewDiagnostic(r.ID(), id, fmt.Sprintf("Malformed segment ID %q", name)).
				WithSeverity(config.SeverityError)
			if match := lint.ClosestMatch(strings.TrimSpace(name), known); match != "" {
				b.WithSuggestion(fmt.Sprintf("Did you mean %s?", match))
			}

			diags = append(diags, b.Build())
		case slices.Contains(known, name):
		case allowZ && name[0] == 'Z':
		default:
			b := lint.NewDiagnostic(r.ID(), id, fmt.Sprintf("Unknown segment ID %q", name)).
				WithSeverity(config.SeverityError)
			if match := lint.ClosestMatch(name, known); match != "" {
				b.WithSuggestion(fmt.Sprintf("Did you mean %s?", match))
			} else {
				b.WithSuggestion("Use a standard segment, a Z-segment, or list it under allow")
			}

			diags = append(diags, b.Build())
		}
	}

	return diags, nil
}

// EmptySegmentRule reports segments that hold nothing but a terminator.
type EmptySegmentRule struct {
	lint.BaseRule
}

// NewEmptySegmentRule creates a new empty segment rule.
func NewEmptySegmentRule() *EmptySegmentRule {
	return &EmptySegmentRule{
		BaseRule: lint.NewBaseRule(
			"HL7006",
			"empty-segment",
			"Messages should not contain blank segments",
			[]string{"segment", "whitespace"},
			true,
		),
	}
}

// Apply reports each blank segment and offers to delete it.
func (r *EmptySegmentRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	var diags []lint.Diagnostic

	for _, seg := range ctx.Segments() {
		if !isBlankSegment(seg) {
			continue
		}

		builder := fix.NewEditBuilder()
		builder.DeleteNode(seg)

		diag := lint.NewDiagnostic(r.ID(), seg, "Blank segment").
			WithSeverity(config.SeverityWarning).
			WithPath(fmt.Sprintf("#%d", seg.SegmentIndex()+1)).
			WithSuggestion("Remove the blank segment").
			WithFix(builder).
			Build()
		diags = append(diags, diag)
	}

	return diags, nil
}

// isBlankSegment reports whether seg is a bare terminator.
func isBlankSegment(seg hl7ast.Node) bool {
	return seg.ChildCount() == 1 && seg.Child(0).Kind() == hl7ast.NodeDelimiter
}
