package selector

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aescanero/dago-node-formatter/internal/eval/cel"
	"go.uber.org/zap"
)

// Path records how a template was chosen
type Path string

const (
	// PathBase means no variants were configured
	PathBase Path = "base"

	// PathVariant means a variant condition matched
	PathVariant Path = "variant"

	// PathFallback means variants were configured but none matched
	PathFallback Path = "fallback"

	// PathDisabled means variants were ignored because CEL is disabled
	PathDisabled Path = "disabled"
)

// Variant is an alternative template guarded by a CEL condition
type Variant struct {
	Condition string `json:"condition"`
	Template  string `json:"template"`
}

// Input is what a selection is made over
type Input struct {
	// Template is the base template, used when no variant matches
	Template string
	// Names are the placeholder names values are bound to
	Names []string
	// Values are positionally aligned with Names
	Values []any
	// Variants are tried in order
	Variants []Variant
}

// Selection is the outcome of choosing a template
type Selection struct {
	Template  string `json:"template"`
	Variant   int    `json:"variant"`
	Reasoning string `json:"reasoning"`
	PathTaken Path   `json:"path_taken"`
}

// Selector chooses between a base template and its variants
type Selector struct {
	celEvaluator *cel.Evaluator
	enabled      bool
	logger       *zap.Logger
}

// NewSelector creates a new selector. With enabled false, variants are
// never evaluated and the base template always wins.
func NewSelector(enabled bool, logger *zap.Logger) *Selector {
	return &Selector{
		celEvaluator: cel.NewEvaluator(),
		enabled:      enabled,
		logger:       logger,
	}
}

// Select returns the template to render for in
func (s *Selector) Select(ctx context.Context, in *Input) (*Selection, error) {
	if err := validateInput(in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	if len(in.Variants) == 0 {
		return &Selection{
			Template:  in.Template,
			Variant:   -1,
			Reasoning: "no variants configured",
			PathTaken: PathBase,
		}, nil
	}

	if !s.enabled {
		s.logger.Debug("cel disabled, ignoring variants",
			zap.Int("num_variants", len(in.Variants)),
		)
		return &Selection{
			Template:  in.Template,
			Variant:   -1,
			Reasoning: "variant evaluation disabled",
			PathTaken: PathDisabled,
		}, nil
	}

	vars := prepareVars(in)

	for i, variant := range in.Variants {
		s.logger.Debug("evaluating variant",
			zap.Int("variant_index", i),
			zap.String("condition", variant.Condition),
		)

		matched, err := s.celEvaluator.EvaluateBool(ctx, variant.Condition, vars)
		if err != nil {
			s.logger.Warn("variant evaluation error",
				zap.Int("variant_index", i),
				zap.String("condition", variant.Condition),
				zap.Error(err),
			)
			// Continue to next variant on error
			continue
		}

		if matched {
			s.logger.Debug("variant matched",
				zap.Int("variant_index", i),
				zap.String("condition", variant.Condition),
			)
			return &Selection{
				Template:  variant.Template,
				Variant:   i,
				Reasoning: fmt.Sprintf("matched variant %d: %s", i, variant.Condition),
				PathTaken: PathVariant,
			}, nil
		}
	}

	s.logger.Debug("no variants matched, using base template")

	return &Selection{
		Template:  in.Template,
		Variant:   -1,
		Reasoning: "no variants matched",
		PathTaken: PathFallback,
	}, nil
}

// ValidateCondition reports whether condition compiles to a boolean CEL
// expression over values and template
func (s *Selector) ValidateCondition(condition string) error {
	return s.celEvaluator.ValidateExpression(condition)
}

// validateInput validates the selection input
func validateInput(in *Input) error {
	if in == nil {
		return fmt.Errorf("input is nil")
	}

	for i, variant := range in.Variants {
		if variant.Condition == "" {
			return fmt.Errorf("variant %d: condition is required", i)
		}
		if variant.Template == "" {
			return fmt.Errorf("variant %d: template is required", i)
		}
	}

	return nil
}

// prepareVars builds the CEL activation: values maps each name to its
// value, template is the base template text
func prepareVars(in *Input) map[string]interface{} {
	values := make(map[string]interface{}, len(in.Names))
	for i, name := range in.Names {
		var value interface{}
		if i < len(in.Values) {
			value = celValue(in.Values[i])
		}
		values[name] = value
	}

	return map[string]interface{}{
		"values":   values,
		"template": in.Template,
	}
}

// celValue converts decoded JSON into types CEL adapts natively
func celValue(v interface{}) interface{} {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case int:
		return int64(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = celValue(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, e := range val {
			out[k] = celValue(e)
		}
		return out
	}
	return v
}
