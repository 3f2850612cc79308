package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"stacky/internal/codegen"
	"stacky/internal/compiler"
	"stacky/internal/debugviz"
	"stacky/internal/dumpfmt"
	"stacky/internal/manifest"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] <sources...>",
	Short: "Compile one or more stacky source files into an executable",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBuild,
}

func init() {
	addCommonFlags(buildCmd)
	buildCmd.Flags().StringP("output", "o", "", "file name of the produced executable")
	buildCmd.Flags().Bool("keep-asm", false, "keep the generated .asm/.o next to the output instead of a temp dir")
}

func runBuild(cmd *cobra.Command, args []string) error {
	_, err := buildProgram(cmd, args)
	return err
}

// buildProgram runs the full pipeline for sources and, unless -c/--check
// was given, links an executable. It is shared by `build` and `run`,
// which additionally execs whatever this returns.
func buildProgram(cmd *cobra.Command, args []string) (outputPath string, err error) {
	common, err := readCommonFlags(cmd)
	if err != nil {
		return "", err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", fmt.Errorf("failed to get output flag: %w", err)
	}
	keepAsm, err := cmd.Flags().GetBool("keep-asm")
	if err != nil {
		return "", fmt.Errorf("failed to get keep-asm flag: %w", err)
	}

	sources, _ := splitAtDash(cmd, args)
	if len(sources) == 0 {
		return "", fmt.Errorf("no input files")
	}

	if err := checkSourceFiles(cmd.Context(), sources); err != nil {
		return "", err
	}

	m, _, err := manifest.Load(".")
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", manifest.FileName, err)
	}

	outputPath = output
	if outputPath == "" {
		outputPath = m.Config.Build.Output
	}
	if outputPath == "" {
		outputPath = defaultOutputPath(sources[0])
	}

	c := compiler.New(compiler.Options{
		IncludeDirs:       resolveIncludeDirs(m, common.include),
		WarnRedefinitions: true,
		Optimize:          true,
		Verbose:           common.verbose,
	})

	compileErr := c.Compile(sources)

	color := wantColor(common.noColors, os.Stdout)
	exitCode := printDiagnostics(os.Stdout, c.Bag, color)
	if compileErr != nil || exitCode != 0 || c.Failed {
		os.Exit(1)
	}

	if common.dumpEffects {
		if err := writeEffectsDump(c, outputPath); err != nil {
			return "", err
		}
	}
	if common.controlFlow {
		if err := showControlFlow(c, outputPath, common.controlFlowFor); err != nil {
			return "", err
		}
	}

	if common.check {
		return outputPath, nil
	}

	sink := codegen.NewNasmSink(codegen.Options{OutputPath: outputPath, KeepAsm: keepAsm})
	if err := c.Emit(sink); err != nil {
		return "", err
	}
	return outputPath, nil
}

// splitAtDash separates the positional source files from any `--
// <args...>` trailer `run` forwards to the compiled program (spec §6:
// "`run` ... forwarding `--`-separated arguments").
func splitAtDash(cmd *cobra.Command, args []string) (sources, forwarded []string) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		return args, nil
	}
	return args[:dash], args[dash:]
}

func writeEffectsDump(c *compiler.Compiler, outputPath string) error {
	f, err := os.Create(outputPath + ".effects")
	if err != nil {
		return fmt.Errorf("dump-effects: %w", err)
	}
	defer f.Close()
	return dumpfmt.Encode(f, dumpfmt.Build(c.Program))
}

// showControlFlow renders the requested function's (or main's, if
// function is empty) control flow. When stdout is a terminal it opens
// the interactive browser; otherwise it writes a static .dot file next
// to outputPath, named the way original_source/src/arguments.cc derives
// `control_flow`/`control_flow_function` paths from the executable name.
func showControlFlow(c *compiler.Compiler, outputPath, function string) error {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		model, err := debugviz.NewBrowser(c.Program, function)
		if err != nil {
			return fmt.Errorf("control-flow: %w", err)
		}
		_, err = tea.NewProgram(model).Run()
		return err
	}

	suffix := ".dot"
	if function != "" {
		suffix = ".fun.dot"
	}
	f, err := os.Create(outputPath + suffix)
	if err != nil {
		return fmt.Errorf("control-flow: %w", err)
	}
	defer f.Close()
	if err := debugviz.WriteDOT(f, c.Program, function); err != nil {
		return fmt.Errorf("control-flow: %w", err)
	}
	return nil
}
