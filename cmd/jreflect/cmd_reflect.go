package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jreflect/diag"
	"github.com/dhamidi/jreflect/format"
	"github.com/dhamidi/jreflect/reflector"
	"github.com/dhamidi/jreflect/signature"
)

func newReflectCmd(opts *globalOptions) *cobra.Command {
	var outFormat string

	cmd := &cobra.Command{
		Use:   "reflect <class>...",
		Short: "Print the public signatures of one or more classes",
		Long: `Run javap on each class and print the parsed signatures.

Examples:
  jreflect reflect java.util.ArrayList
  jreflect reflect -f json java.lang.String java.util.Map`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReflect(cmd.Context(), opts, outFormat, args)
		},
	}

	cmd.Flags().StringVarP(&outFormat, "format", "f", "java", "output format (java, line, json)")

	return cmd
}

func runReflect(ctx context.Context, opts *globalOptions, outFormat string, classes []string) error {
	enc, err := format.NewEncoder(outFormat, os.Stdout)
	if err != nil {
		return err
	}
	r, cfg, err := opts.newReflector()
	if err != nil {
		return err
	}

	reqs := make([]reflector.Request, len(classes))
	for i, arg := range classes {
		name, err := signature.ParseQualifiedName(arg)
		if err != nil {
			return err
		}
		reqs[i] = reflector.Request{Name: name, Span: argSpan(i)}
	}
	if err := r.Prefetch(ctx, reqs, cfg.Jobs); err != nil {
		return err
	}

	for _, req := range reqs {
		info, err := r.Reflect(ctx, req.Name, req.Span)
		if err != nil {
			return err
		}
		if err := enc.Encode(info); err != nil {
			return fmt.Errorf("encode %s: %w", req.Name, err)
		}
	}
	return nil
}

// argSpan locates the i-th positional argument in error messages.
func argSpan(i int) diag.Span {
	return diag.At(diag.Position{File: fmt.Sprintf("arg %d", i+1)})
}
