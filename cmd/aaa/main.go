package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/golangee/aaa/backend"
	"github.com/golangee/aaa/compiler"
	"github.com/golangee/aaa/stdlibcfg"
)

func main() {
	err := rootCmd().Execute()
	if err == nil {
		return
	}

	if silent, ok := err.(errSilentCode); ok {
		os.Exit(silent.code)
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "aaa",
		Short:         "aaa is the compiler for the Aaa stack language",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(checkCmd(), runCmd(), testCmd())

	return root
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <entry-file>",
		Short: "Type-check a program without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := compileEntry(args[0])
			if err != nil {
				return err
			}

			res.Reporter.PrintTo(cmd.OutOrStderr(), colorEnabled(cmd))

			if res.Reporter.HasErrors() {
				return errSilent(res.Reporter.ExitCode())
			}

			fmt.Fprintln(cmd.OutOrStdout(), "no errors")

			return nil
		},
	}
}

func runCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "run <entry-file>",
		Short: "Compile and run a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildAndGenerate(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "path to write the generated artifact to")

	return cmd
}

func testCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "test <entry-file>",
		Short: "Compile a program's test entry point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildAndGenerate(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "path to write the generated artifact to")

	return cmd
}

func buildAndGenerate(cmd *cobra.Command, entryFile, output string) error {
	res, err := compileEntry(entryFile)
	if err != nil {
		return err
	}

	res.Reporter.PrintTo(cmd.OutOrStderr(), colorEnabled(cmd))

	if res.Reporter.HasErrors() {
		return errSilent(res.Reporter.ExitCode())
	}

	if output == "" {
		output = entryFile + ".out"
	}

	gen := backend.ErrNoBackend{}

	fmt.Fprintf(cmd.OutOrStderr(), "error: %v (wanted to write %q)\n", gen, output)

	return errSilent(1)
}

func compileEntry(entryFile string) (*compiler.Result, error) {
	stdlib, err := stdlibcfg.Load()
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return compiler.Compile(entryFile, stdlib), nil
}

// colorEnabled defers to fatih/color's own terminal and NO_COLOR detection.
func colorEnabled(cmd *cobra.Command) bool {
	return !color.NoColor
}

// errSilentCode lets main map a non-zero exit code without cobra re-printing
// the error text (already printed via the reporter).
type errSilentCode struct{ code int }

func (e errSilentCode) Error() string { return "" }

func errSilent(code int) error {
	return errSilentCode{code: code}
}
