package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/aescanero/dago-node-formatter/internal/eval/template"
	"github.com/aescanero/dago-node-formatter/internal/selector"
	"github.com/aescanero/dago-node-formatter/pkg/format"
	"go.uber.org/zap"
)

// Syntax selects how a request's template is rendered
type Syntax string

const (
	// SyntaxNamed renders {Name[,alignment][:format]} placeholders
	SyntaxNamed Syntax = "named"

	// SyntaxHandlebars renders {{Name}} expressions with raymond
	SyntaxHandlebars Syntax = "handlebars"
)

// FormatRequest represents a format work request
type FormatRequest struct {
	RequestID string             `json:"request_id"`
	Template  string             `json:"template"`
	Values    []any              `json:"values"`
	Names     []string           `json:"names,omitempty"`
	Syntax    Syntax             `json:"syntax,omitempty"`
	Variants  []selector.Variant `json:"variants,omitempty"`
}

// FormatResult is published for every successfully rendered request
type FormatResult struct {
	RequestID      string        `json:"request_id"`
	Output         string        `json:"output"`
	OriginalFormat string        `json:"original_format"`
	ValueNames     []string      `json:"value_names"`
	Pairs          []format.Pair `json:"pairs"`
	Syntax         Syntax        `json:"syntax"`
	Variant        int           `json:"variant"`
	PathTaken      selector.Path `json:"path_taken"`
	Reasoning      string        `json:"reasoning"`
	Timestamp      time.Time     `json:"timestamp"`
}

// ProcessorOptions configures a Processor
type ProcessorOptions struct {
	CELEnabled        bool
	HandlebarsEnabled bool
	MaxTemplateLength int
}

// Processor turns format requests into results. It holds no per-request
// state and is safe for concurrent use.
type Processor struct {
	cache    *format.Cache
	selector *selector.Selector
	engine   *template.Engine
	opts     ProcessorOptions
	logger   *zap.Logger
}

// NewProcessor creates a new processor
func NewProcessor(opts ProcessorOptions, logger *zap.Logger) *Processor {
	p := &Processor{
		cache:    format.NewCache(),
		selector: selector.NewSelector(opts.CELEnabled, logger),
		opts:     opts,
		logger:   logger,
	}
	if opts.HandlebarsEnabled {
		p.engine = template.NewEngine()
	}
	return p
}

// CachedTemplates returns the number of compiled named templates held
func (p *Processor) CachedTemplates() int {
	return p.cache.Len()
}

// Syntaxes returns the template syntaxes this processor accepts
func (p *Processor) Syntaxes() []Syntax {
	if p.engine == nil {
		return []Syntax{SyntaxNamed}
	}
	return []Syntax{SyntaxNamed, SyntaxHandlebars}
}

// Process renders a single request
func (p *Processor) Process(ctx context.Context, req *FormatRequest) (*FormatResult, error) {
	if err := p.validateRequest(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	syntax := req.Syntax
	if syntax == "" {
		syntax = SyntaxNamed
	}

	var (
		result *FormatResult
		err    error
	)

	switch syntax {
	case SyntaxNamed:
		result, err = p.renderNamed(ctx, req)
	case SyntaxHandlebars:
		result, err = p.renderHandlebars(ctx, req)
	default:
		return nil, fmt.Errorf("unknown syntax: %s", syntax)
	}

	if err != nil {
		return nil, err
	}

	result.RequestID = req.RequestID
	result.Syntax = syntax
	result.Timestamp = time.Now().UTC()

	return result, nil
}

// renderNamed renders a request in the named placeholder syntax
func (p *Processor) renderNamed(ctx context.Context, req *FormatRequest) (*FormatResult, error) {
	base := p.cache.Get(req.Template)

	selection, err := p.selector.Select(ctx, &selector.Input{
		Template: req.Template,
		Names:    base.ValueNames(),
		Values:   req.Values,
		Variants: req.Variants,
	})
	if err != nil {
		return nil, fmt.Errorf("variant selection failed: %w", err)
	}

	tmpl := p.cache.Get(selection.Template)
	values := req.Values
	if selection.Variant >= 0 {
		values = rebind(base, tmpl, req.Values)
	}
	bound := format.Bind(tmpl, values...)

	output, err := bound.Render()
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}

	p.logger.Debug("rendered named template",
		zap.String("request_id", req.RequestID),
		zap.Int("variant", selection.Variant),
		zap.Object("values", bound),
	)

	return &FormatResult{
		Output:         output,
		OriginalFormat: tmpl.OriginalFormat(),
		ValueNames:     tmpl.ValueNames(),
		Pairs:          bound.Pairs(),
		Variant:        selection.Variant,
		PathTaken:      selection.PathTaken,
		Reasoning:      selection.Reasoning,
	}, nil
}

// renderHandlebars renders a request with raymond. Handlebars templates have
// no positional order, so values are bound to the request's explicit names.
// Nil values stay nil so that {{#if}} and the default helper see them.
func (p *Processor) renderHandlebars(ctx context.Context, req *FormatRequest) (*FormatResult, error) {
	if p.engine == nil {
		return nil, fmt.Errorf("handlebars syntax is disabled")
	}
	if len(req.Values) > len(req.Names) {
		return nil, fmt.Errorf("%d values supplied for %d names", len(req.Values), len(req.Names))
	}

	selection, err := p.selector.Select(ctx, &selector.Input{
		Template: req.Template,
		Names:    req.Names,
		Values:   req.Values,
		Variants: req.Variants,
	})
	if err != nil {
		return nil, fmt.Errorf("variant selection failed: %w", err)
	}

	pairs := make([]format.Pair, 0, len(req.Names)+1)
	data := make(map[string]interface{}, len(req.Names)+1)
	for i, name := range req.Names {
		var value any
		if i < len(req.Values) {
			value = req.Values[i]
		}
		pairs = append(pairs, format.Pair{Name: name, Value: value})
		data[name] = nil
		if value != nil {
			data[name] = format.Coerce(value)
		}
	}
	pairs = append(pairs, format.Pair{Name: format.OriginalFormatKey, Value: selection.Template})
	data["OriginalFormat"] = selection.Template

	output, err := p.engine.Render(selection.Template, data)
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}

	p.logger.Debug("rendered handlebars template",
		zap.String("request_id", req.RequestID),
		zap.Int("variant", selection.Variant),
	)

	names := make([]string, len(req.Names))
	copy(names, req.Names)

	return &FormatResult{
		Output:         output,
		OriginalFormat: selection.Template,
		ValueNames:     names,
		Pairs:          pairs,
		Variant:        selection.Variant,
		PathTaken:      selection.PathTaken,
		Reasoning:      selection.Reasoning,
	}, nil
}

// rebind reorders values bound to from's names into to's name order.
// Names to uses that from lacks are bound to nil.
func rebind(from, to *format.Template, values []any) []any {
	byName := make(map[string]any, len(values))
	for i, name := range from.ValueNames() {
		if i < len(values) {
			byName[name] = values[i]
		}
	}

	names := to.ValueNames()
	out := make([]any, len(names))
	for i, name := range names {
		out[i] = byName[name]
	}
	return out
}

// validateRequest validates a format request
func (p *Processor) validateRequest(req *FormatRequest) error {
	if req == nil {
		return fmt.Errorf("request is nil")
	}

	if req.RequestID == "" {
		return fmt.Errorf("request_id is required")
	}

	if len(req.Template) > p.opts.MaxTemplateLength {
		return fmt.Errorf("template length %d exceeds limit %d", len(req.Template), p.opts.MaxTemplateLength)
	}

	for i, variant := range req.Variants {
		if len(variant.Template) > p.opts.MaxTemplateLength {
			return fmt.Errorf("variant %d: template length %d exceeds limit %d",
				i, len(variant.Template), p.opts.MaxTemplateLength)
		}
		if variant.Condition == "" {
			return fmt.Errorf("variant %d: condition is required", i)
		}
		if p.opts.CELEnabled {
			if err := p.selector.ValidateCondition(variant.Condition); err != nil {
				return fmt.Errorf("variant %d: invalid condition: %w", i, err)
			}
		}
	}

	if req.Syntax == SyntaxHandlebars && p.engine != nil {
		if err := p.engine.ValidateTemplate(req.Template); err != nil {
			return fmt.Errorf("invalid handlebars template: %w", err)
		}
		for i, variant := range req.Variants {
			if err := p.engine.ValidateTemplate(variant.Template); err != nil {
				return fmt.Errorf("variant %d: invalid handlebars template: %w", i, err)
			}
		}
	}

	return nil
}
