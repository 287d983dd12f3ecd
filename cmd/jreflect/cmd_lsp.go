package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/jreflect/lsp"
)

func newLSPCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server for declaration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, cfg, err := opts.newReflector()
			if err != nil {
				return err
			}
			return lsp.NewServer(r, cfg.Jobs, version).RunStdio()
		},
	}
}
