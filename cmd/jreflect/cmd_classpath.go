package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClasspathCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classpath",
		Short: "Print the class search path handed to javap",
		Long: `Print the class search path: the configured classpath followed by
every .jar in lib_dir.

The classpath comes from, in increasing priority, classpath in
jreflect.toml, $CLASSPATH and --classpath.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClasspath(opts)
		},
	}
}

func runClasspath(opts *globalOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	path, err := cfg.SearchPath()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
