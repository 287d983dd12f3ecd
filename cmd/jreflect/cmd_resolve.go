package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jreflect/decl"
	"github.com/dhamidi/jreflect/reflector"
	"github.com/dhamidi/jreflect/signature"
)

func newResolveCmd(opts *globalOptions) *cobra.Command {
	var declFile string

	cmd := &cobra.Command{
		Use:   "resolve <selector>...",
		Short: "Resolve class or Class::method selectors to a single callable",
		Long: `Resolve each selector to exactly one constructor or method.

A selector without ::method picks the class's only constructor. Overloads
are never picked by argument types; declare the class in a declaration
file with the one overload you want and pass it with -d.

Examples:
  jreflect resolve java.lang.Object
  jreflect resolve java.util.ArrayList::size
  jreflect resolve -d decl.yaml com.example.Widget`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), opts, declFile, args)
		},
	}

	cmd.Flags().StringVarP(&declFile, "decl", "d", "", "declaration file whose classes take precedence")

	return cmd
}

func runResolve(ctx context.Context, opts *globalOptions, declFile string, selectors []string) error {
	r, cfg, err := opts.newReflector()
	if err != nil {
		return err
	}

	var classes reflector.ClassLookup = r
	if declFile != "" {
		d, err := decl.LoadFile(declFile)
		if err != nil {
			return err
		}
		root, err := decl.Build(ctx, d, r, decl.WithJobs(cfg.Jobs))
		if err != nil {
			return err
		}
		classes = root.WithFallback(r)
	}
	resolver := reflector.NewResolver(classes)

	for i, arg := range selectors {
		sel, err := reflector.ParseMethodSelector(arg, argSpan(i))
		if err != nil {
			return err
		}
		m, err := resolver.Resolve(ctx, sel)
		if err != nil {
			return err
		}
		fmt.Println(describeMethod(m))
	}
	return nil
}

// describeMethod renders m as tab-separated kind, selector, static flag and
// signature.
func describeMethod(m *reflector.ReflectedMethod) string {
	static := "instance"
	if m.IsStatic() {
		static = "static"
	}
	var sb strings.Builder
	sb.WriteString(signature.GenericsString(m.Generics()))
	if sb.Len() > 0 {
		sb.WriteString(" ")
	}
	sb.WriteString(m.ReturnType().String())
	sb.WriteString(" (")
	sb.WriteString(signature.ArgsString(m.ArgumentTypes(), m.IsVarargs()))
	sb.WriteString(")")
	return fmt.Sprintf("%s\t%s::%s\t%s\t%s", m.Kind(), m.Class().Name, m.Name(), static, sb.String())
}
