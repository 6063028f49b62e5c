package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// newRootCmd builds the command tree around env. Each run resolves the
// configuration once, before the subcommand, into env.Config.
func newRootCmd(env *Environment) *cobra.Command {
	var common commonFlags

	root := &cobra.Command{
		Use:   "docx2html",
		Short: "Re-segment Word documents into bold-anchored HTML",
		Long: `docx2html converts .docx files to HTML and regroups the result into
paragraphs that each start at a bold span. Documents can be exported as
dokuman.html, Markdown or PDF, or copied to the clipboard, from the command
line or from a local web UI.

Settings come from flags, then DOCX2HTML_* environment variables, then the
config file given with --config, then defaults.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configureMaxprocs(env.Stderr, common.verbose)
			if !common.quiet {
				warnUnknownEnvVars(env.Stderr)
			}
			cfg, err := loadSettings(cmd.Flags())
			if err != nil {
				return err
			}
			env.Config = cfg
			return nil
		},
	}

	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&common.config, keyConfig, "c", "", "config file name or path")
	pf.BoolVarP(&common.quiet, "quiet", "q", false, "only print errors")
	pf.BoolVarP(&common.verbose, "verbose", "v", false, "print timings and diagnostics")

	root.AddCommand(
		newConvertCmd(env, &common),
		newServeCmd(env, &common),
		newDoctorCmd(env),
		newConfigCmd(env),
		newVersionCmd(env),
	)
	return root
}

func newVersionCmd(env *Environment) *cobra.Command {
	return &cobra.Command{
		Use:              "version",
		Short:            "Show version information",
		Args:             noArgs,
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(env.Stdout, "docx2html %s (%s, %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

// configureMaxprocs sets GOMAXPROCS from the container CPU quota, logging
// the decision only when verbose.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func configureMaxprocs(w io.Writer, verbose bool) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(w, format+"\n", args...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}
