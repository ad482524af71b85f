package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	indentTabs  bool
	indentWidth int
)

var rootCmd = &cobra.Command{
	Use:   "rea",
	Short: "Tooling for rea behavior tree scripts",
	Long: `rea is the command-line companion of the go-rea behavior tree
engine. It parses and syntax-checks .rea scripts: indentation
sensitive declarations of nodes (reusable logic subtrees) and
actions (parameterized operations with preconditions and effects).

Identifier resolution happens against host-registered primitives at
embed time, so this tool checks syntax and structure only.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVar(&indentTabs, "tabs", false, "scripts are indented with tabs")
	rootCmd.PersistentFlags().IntVar(&indentWidth, "indent", 2, "indentation width in characters")
}
