package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/go-docx2html/internal/yamlutil"
)

// newConfigCmd prints the configuration a run would use, after the config
// file and DOCX2HTML_* variables are applied. The output is a valid config
// file.
func newConfigCmd(env *Environment) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Example: `  docx2html config
  docx2html config -c team > docx2html.yaml`,
		Args: noArgs,
		RunE: func(*cobra.Command, []string) error {
			out, err := yamlutil.Encode(env.Config)
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			_, err = env.Stdout.Write(out)
			return err
		},
	}
}
