package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jreflect/decl"
	"github.com/dhamidi/jreflect/format"
)

func newTreeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <decl.yaml>",
		Short: "Build a declaration file and print its package tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd.Context(), opts, args[0])
		},
	}
}

func runTree(ctx context.Context, opts *globalOptions, path string) error {
	r, cfg, err := opts.newReflector()
	if err != nil {
		return err
	}
	d, err := decl.LoadFile(path)
	if err != nil {
		return err
	}
	root, err := decl.Build(ctx, d, r, decl.WithJobs(cfg.Jobs))
	if err != nil {
		return err
	}
	return format.NewTreeEncoder(os.Stdout).Encode(root)
}
