// Package cli implements the mlang command line interface.
//
// License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
//
// Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
//
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/mlang"
	"github.com/npillmayer/mlang/mlang/ui/termui"
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
)

const version = "0.1 experimental"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mlang [file]",
	Short: "An interpreter for a small matrix language",
	Long: `Welcome to mlang V0.1 (experimental)

mlang interprets programs written in a small language for matrix
calculations: integer, float and string scalars, matrices of any rank,
elementwise and matrix operators, loops and conditionals.

Given a file, mlang checks and executes it. Without a file, or with flag -i,
it prompts for statements in a terminal REPL.

`,
	Args: cobra.MaximumNArgs(1),
	Run:  runMlangCmd,
}

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Check and execute a program",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mlang.Exit(processFile(args[0], phaseRun, nil))
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Check a program without executing it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mlang.Exit(processFile(args[0], phaseCheck, nil))
	},
}

var astCmd = &cobra.Command{
	Use:   "ast <file>",
	Short: "Print the syntax tree of a program",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mlang.Exit(processFile(args[0], phaseAST, nil))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called exactly once by mlang.main().
func Execute() {
	rootCmd.AddCommand(runCmd, checkCmd, astCmd)
	if rootCmd.Execute() != nil {
		mlang.Exit(2)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	// persistent flags which will be global for the application
	rootCmd.PersistentFlags().BoolP("interactive", "i", false, "Force run in interactive mode")
	rootCmd.PersistentFlags().String("logfile", "stderr", "URL of log output location")
	rootCmd.PersistentFlags().String("config", "", "YAML configuration file")
	rootCmd.PersistentFlags().String("color", "auto", "Colored output: auto, always or never")
}

// runMlangCmd executes a file, if given, and enters the REPL if no file is
// given or flag -i is set. The REPL continues with the variables of the file.
func runMlangCmd(cmd *cobra.Command, args []string) {
	interactive, _ := cmd.Flags().GetBool("interactive")
	s := newSession(os.Stdout, os.Stderr)
	if len(args) > 0 {
		code := processFile(args[0], phaseRun, s)
		if !interactive {
			mlang.Exit(code)
		}
	}
	runMlangCmdIntpr(s)
}

// processFile reads a source file and runs it through the toolchain. A file
// which cannot be read is reported on stdout and does not count as a failure.
// If s is nil, a new session is created.
func processFile(path string, ph phase, s *session) int {
	src, err := os.ReadFile(path)
	if err != nil {
		tracer().Errorf("cannot read %s: %v", path, err)
		fmt.Fprintf(os.Stdout, "cannot open file %s\n", path)
		return 0
	}
	if s == nil {
		s = newSession(os.Stdout, os.Stderr)
	}
	tracer().P("file", path).Infof("processing %d bytes", len(src))
	_, err = s.process(string(src), ph)
	return exitCode(err)
}

func runMlangCmdIntpr(s *session) {
	tracing.Infof("mlang interpreter called")
	mcmd := &mlangCmdIntpr{session: s}
	mcmd.BaseREPL = termui.NewBaseREPL("mlang", version, locatePaths().HistoryFile())
	mcmd.Interpreter = mcmd
	mcmd.Helper = func(w io.Writer) {
		io.WriteString(w, `
Any other input is a statement of the language, which is checked and executed
immediately. Variables survive from one statement to the next.

  A = eye(3);
  for i = 0:3 A[i, i] = i;
  print A * A';

`)
	}
	stdout, stderr := mcmd.Outputs()
	s.out, s.errout = stdout, stderr
	s.intp.SetOutput(stdout)
	mcmd.Prompt(true)
}

type mlangCmdIntpr struct {
	*termui.BaseREPL
	session *session
}

// InterpretCommand executes a statement. The value of a return statement is
// echoed.
func (mcmd *mlangCmdIntpr) InterpretCommand(command string) {
	command = strings.Trim(command, "\x00")
	tracer().Debugf("mlang interpreter: %q", command)
	v, err := mcmd.session.process(command, phaseRun)
	if err == nil && v != nil {
		mcmd.Format(v, mcmd.session.out)
	}
}

// Symbols lists the global variables of the session, for the REPL command
// 'vars'.
func (mcmd *mlangCmdIntpr) Symbols() []termui.Symbol {
	var symbols []termui.Symbol
	mcmd.session.intp.Globals().Each(func(name string, v mlang.Value) {
		sym := termui.Symbol{Name: name, Type: v.Type().String(), Value: v.String()}
		if m, ok := v.(mlang.Matrix); ok {
			sym.Shape = m.Shape().String()
		}
		symbols = append(symbols, sym)
	})
	return symbols
}

// Tree parses a statement and prints its syntax tree, for the REPL command
// 'ast'.
func (mcmd *mlangCmdIntpr) Tree(command string) {
	mcmd.session.process(command, phaseAST)
}
