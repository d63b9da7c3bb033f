package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aescanero/dago-node-formatter/pkg/format"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	msgShort = "Render a named template with positional values"
	msgLong  = `Render TEMPLATE, replacing each distinct {Name} placeholder with the
VALUE at the same position. Placeholders accept alignment and format
suffixes: {Name,-10}, {Total:N2}, {Id,8:X}. Write literal braces doubled.`
	msgExample = `  interpolate "Hello {Name}, you have {Count} items" World 3
  interpolate --json "{Tags} / {Missing}" '["a","b"]' null
  interpolate --pairs "{User} from {Addr}" ann 10.0.0.1`
)

type options struct {
	json    bool
	pairs   bool
	names   bool
	verbose bool
}

// NewRootCmd creates the interpolate command
func NewRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "interpolate [flags] TEMPLATE [VALUE...]",
		Short:   msgShort,
		Long:    msgLong,
		Example: msgExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), opts, args[0], args[1:])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "parse each VALUE as JSON")
	cmd.Flags().BoolVar(&opts.pairs, "pairs", false, "print name=value pairs instead of the rendered text")
	cmd.Flags().BoolVar(&opts.names, "names", false, "print the distinct placeholder names")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log compilation details to stderr")

	return cmd
}

func run(out io.Writer, opts options, raw string, args []string) error {
	logger := zap.NewNop()
	if opts.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		defer func() { _ = logger.Sync() }()
	}

	values, err := parseValues(args, opts.json)
	if err != nil {
		return err
	}

	tmpl := format.Compile(raw)
	logger.Debug("compiled template",
		zap.String("positional", tmpl.Positional()),
		zap.Strings("names", tmpl.ValueNames()),
		zap.Object("values", format.Bind(tmpl, values...)),
	)

	switch {
	case opts.names:
		for _, name := range tmpl.ValueNames() {
			fmt.Fprintln(out, name)
		}
		return nil

	case opts.pairs:
		for i := 0; i < tmpl.Len(); i++ {
			p, err := tmpl.Pair(values, i)
			if err != nil {
				return fmt.Errorf("value for %q: %w", tmpl.ValueNames()[i], err)
			}
			fmt.Fprintf(out, "%s=%v\n", p.Name, format.Coerce(p.Value))
		}
		return nil
	}

	rendered, err := tmpl.Render(values)
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	fmt.Fprintln(out, rendered)
	return nil
}

// parseValues converts command-line arguments into template values
func parseValues(args []string, asJSON bool) ([]any, error) {
	values := make([]any, len(args))
	for i, arg := range args {
		if !asJSON {
			values[i] = arg
			continue
		}

		decoder := json.NewDecoder(strings.NewReader(arg))
		decoder.UseNumber()
		if err := decoder.Decode(&values[i]); err != nil {
			return nil, fmt.Errorf("value %d is not valid JSON: %w", i+1, err)
		}
		var extra any
		if err := decoder.Decode(&extra); err != io.EOF {
			return nil, fmt.Errorf("value %d has trailing content after the JSON value", i+1)
		}
	}
	return values, nil
}
