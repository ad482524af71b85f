package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-rea/pkg/script"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file...]",
	Short: "Parse rea scripts and display their directive trees",
	Long: `Parse rea scripts and display the normalized directive tree.

If no file is provided, reads from stdin. The output is the parsed
statement/directive structure with canonical two-space indentation,
comments stripped.`,
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func indentUnit() script.Indent {
	if indentTabs {
		return script.Tabs(indentWidth)
	}
	return script.Spaces(indentWidth)
}

func runParse(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		tree, err := script.Parse("<stdin>", string(data), indentUnit())
		if err != nil {
			return err
		}
		fmt.Print(tree.Dump())
		return nil
	}
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		tree, err := script.Parse(path, string(data), indentUnit())
		if err != nil {
			return err
		}
		fmt.Print(tree.Dump())
	}
	return nil
}
