package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jreflect/decl"
	"github.com/dhamidi/jreflect/diag"
	"github.com/dhamidi/jreflect/reflector"
)

func newCheckCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <decl.yaml>...",
		Short: "Check that declaration files build and their selectors resolve",
		Long: `Build every declaration file and resolve its selectors. Problems are
printed as file:line:column: message. All files share one reflection
cache, so a class is disassembled once no matter how many files use it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), opts, args)
		},
	}
}

var errCheckFailed = errors.New("check failed")

func runCheck(ctx context.Context, opts *globalOptions, paths []string) error {
	r, cfg, err := opts.newReflector()
	if err != nil {
		return err
	}

	failed := false
	for _, path := range paths {
		problems := checkFile(ctx, r, cfg.Jobs, path)
		for _, p := range problems {
			fmt.Fprintln(os.Stderr, diag.Format(p))
		}
		if len(problems) > 0 {
			failed = true
		}
	}
	if failed {
		return errCheckFailed
	}
	return nil
}

// checkFile returns the build error of path, or every selector that does
// not resolve.
func checkFile(ctx context.Context, r *reflector.Reflector, jobs int, path string) []error {
	d, err := decl.LoadFile(path)
	if err != nil {
		return []error{err}
	}
	root, err := decl.Build(ctx, d, r, decl.WithJobs(jobs))
	if err != nil {
		return []error{err}
	}

	var problems []error
	resolver := reflector.NewResolver(root.WithFallback(r))
	for _, sel := range d.Selectors {
		if _, err := resolver.Resolve(ctx, sel); err != nil {
			problems = append(problems, err)
		}
	}
	return problems
}
