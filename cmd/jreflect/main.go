package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/jreflect/diag"
	"github.com/dhamidi/jreflect/reflector"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

// globalOptions are the persistent flags shared by every subcommand. Flags
// override jreflect.toml and the environment.
type globalOptions struct {
	config    string
	classpath string
	javap     string
	listings  string
	jobs      int
	verbose   int
}

func main() {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "jreflect",
		Short:         "Reflect Java class signatures through javap",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(opts.verbose, nil)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.config, "config", "", "config file (default ./"+reflector.DefaultConfigFile+" if present)")
	flags.StringVar(&opts.classpath, "classpath", "", "class search path (overrides $"+reflector.EnvClasspath+")")
	flags.StringVar(&opts.javap, "javap", "", "javap binary (overrides $"+reflector.EnvJavap+")")
	flags.StringVar(&opts.listings, "listings", "", "read saved <class>.javap listings from this directory instead of running javap")
	flags.IntVarP(&opts.jobs, "jobs", "j", 0, "classes to reflect in parallel")
	flags.CountVarP(&opts.verbose, "verbose", "v", "log more (repeat for debug output)")

	rootCmd.AddCommand(newReflectCmd(opts))
	rootCmd.AddCommand(newResolveCmd(opts))
	rootCmd.AddCommand(newTreeCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newClasspathCmd(opts))
	rootCmd.AddCommand(newLSPCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "jreflect: "+diag.Format(err))
		os.Exit(1)
	}
}

// loadConfig merges jreflect.toml, the environment and the flags.
func (o *globalOptions) loadConfig() (reflector.Config, error) {
	cfg, err := reflector.LoadConfig(o.config)
	if err != nil {
		return reflector.Config{}, err
	}
	if o.classpath != "" {
		cfg.Classpath = o.classpath
	}
	if o.javap != "" {
		cfg.Javap = o.javap
	}
	if o.jobs != 0 {
		cfg.Jobs = o.jobs
	}
	if o.listings != "" && cfg.Classpath == "" && cfg.LibDir == "" {
		// Saved listings need no class path, but the reflector still
		// insists on one being configured.
		cfg.Classpath = o.listings
	}
	return cfg, nil
}

func (o *globalOptions) newReflector() (*reflector.Reflector, reflector.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, reflector.Config{}, err
	}
	var tool reflector.Disassembler = reflector.NewJavap(cfg.JavapPath())
	if o.listings != "" {
		tool = reflector.ListingDir{Dir: o.listings}
	}
	return reflector.New(cfg, tool), cfg, nil
}
