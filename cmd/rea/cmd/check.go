package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-rea/pkg/script"
)

var checkColor bool

var checkCmd = &cobra.Command{
	Use:   "check [file|dir...]",
	Short: "Syntax-check rea scripts",
	Long: `Parse every given script, or every .rea file under a given
directory, and report the first syntax error with source context.
Exits nonzero if any source fails to parse.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkColor, "color", false, "colorize error output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	paths, err := collectScripts(args)
	if err != nil {
		return err
	}
	failed := 0
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		if _, err := script.Parse(path, string(data), indentUnit()); err != nil {
			failed++
			var parseErr *script.ParseError
			if errors.As(err, &parseErr) {
				printParseError(parseErr)
			} else {
				fmt.Fprintln(os.Stderr, err)
			}
			continue
		}
		fmt.Printf("%s: ok\n", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed", failed, len(paths))
	}
	return nil
}

func printParseError(e *script.ParseError) {
	fmt.Fprintf(os.Stderr, "Error in %s:%d:%d\n", e.Name, e.Pos.Line, e.Pos.Column)
	if e.Line != "" {
		lineNum := fmt.Sprintf("%4d | ", e.Pos.Line)
		fmt.Fprintf(os.Stderr, "%s%s\n", lineNum, e.Line)
		for i := 0; i < len(lineNum)+e.Pos.Column-1; i++ {
			fmt.Fprint(os.Stderr, " ")
		}
		if checkColor {
			fmt.Fprint(os.Stderr, "\033[1;31m^\033[0m\n")
		} else {
			fmt.Fprintln(os.Stderr, "^")
		}
	}
	fmt.Fprintln(os.Stderr, e.Message)
}

func collectScripts(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		found, err := globScripts(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}
