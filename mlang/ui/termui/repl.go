package termui

// Utilities for interactive command line interfaces.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/table"
	prtxt "github.com/jedib0t/go-pretty/v6/text"
	"github.com/npillmayer/mlang"
)

// Some global defaults
var welcomeMessage = "Welcome to %s [V%s]"
var editmode string = "emacs"

// BaseREPL is a base type to instantiate a REPL interpreter.
// Concrete REPL implementations will usually use this as a base type.
type BaseREPL struct {
	Interpreter REPLCommandInterpreter // the interpreter this REPL runs for
	Helper      func(io.Writer)        // print out help information
	Formatter   Formatter              // formats results of statements
	readline    *readline.Instance
	toolname    string
	version     string
}

// NewBaseREPL create a new REPL base object intialized for an interpreter tool
// and a given version. Input lines are remembered in histfile. Prompt and
// editing mode are taken from configuration keys 'repl.prompt' and
// 'repl.editmode'.
func NewBaseREPL(toolname, version, histfile string) *BaseREPL {
	repl := &BaseREPL{
		Formatter: DefaultFormatter{},
		readline:  newReadline(toolname, histfile),
		toolname:  toolname,
		version:   version,
	}
	if mlang.ConfigString("repl.editmode", editmode) == "vi" {
		repl.readline.SetVimMode(true)
		editmode = "vi"
	}
	return repl
}

// REPLCommandInterpreter is an interface all interpreters have to implement.
// It is the workhorse doing interpretation of interactive
// commands.
//
// The REPL will delegate interpreting command strings (i.e. those which do not represent
// internal administrative commands) to the interpreter.
type REPLCommandInterpreter interface {
	InterpretCommand(string)
}

// SymbolLister is implemented by interpreters which are able to list their
// global variables. It enables the REPL command 'vars'.
type SymbolLister interface {
	Symbols() []Symbol
}

// TreePrinter is implemented by interpreters which are able to print the
// syntax tree of a statement. It enables the REPL command 'ast'.
type TreePrinter interface {
	Tree(string)
}

// Symbol describes a variable for display.
type Symbol struct {
	Name  string
	Type  string
	Shape string // empty for scalars
	Value string
}

// stdprompt returns the configured prompt, in color.
func stdprompt(toolname string) string {
	prompt := mlang.ConfigString("repl.prompt", toolname+"> ")
	return prtxt.FgGreen.Sprint(prompt)
}

// Create a readline instance.
func newReadline(toolname, histfile string) *readline.Instance {
	if histfile == "" {
		histfile = filepath.Join(os.TempDir(), toolname+"-repl-history.tmp")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:              stdprompt(toolname),
		HistoryFile:         histfile,
		AutoComplete:        replCompleter,
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterReplInput,
	})
	if err != nil {
		panic(err)
	}
	return rl
}

// displayCommands prints a help message with available commands
// We support some internal interactive sub-commands (not part of the interpreter).
func (repl *BaseREPL) displayCommands(out io.Writer) {
	io.WriteString(out, fmt.Sprintf(welcomeMessage, repl.toolname, repl.version))
	io.WriteString(out, "\n\nThe following commands are available:\n\n")
	io.WriteString(out, "  help               : print this message\n")
	io.WriteString(out, "  bye                : quit application\n")
	io.WriteString(out, "  mode [mode]        : display or set current editing mode\n")
	io.WriteString(out, "  setprompt [prompt] : set current prompt [to default]\n")
	io.WriteString(out, "  vars               : list global variables\n")
	io.WriteString(out, "  ast <statement>    : print the syntax tree of a statement\n")
}

// Completer-tree for interactive frames sub-commands
var replCompleter = readline.NewPrefixCompleter(
	readline.PcItem("help"),
	readline.PcItem("bye"),
	readline.PcItem("mode",
		readline.PcItem("vi"),
		readline.PcItem("emacs"),
	),
	readline.PcItem("setprompt"),
	readline.PcItem("vars"),
	readline.PcItem("ast"),
	readline.PcItem("print"),
	readline.PcItem("for"),
	readline.PcItem("while"),
)

// Outputs returns stdout and stderr of this REPL.
func (repl *BaseREPL) Outputs() (io.Writer, io.Writer) {
	return repl.readline.Stdout(), repl.readline.Stderr()
}

// Format writes a result of a statement, using the REPL's formatter.
func (repl *BaseREPL) Format(item interface{}, w io.Writer) {
	if repl.Formatter == nil {
		repl.Formatter = DefaultFormatter{}
	}
	if _, err := repl.Formatter.Format(item, w); err != nil {
		trace().Errorf("cannot format %T: %v", item, err)
	}
}

// Prompt enters a REPL and executes commands.
// Commands are either internal administrative (setprompt, help, etc.)
// or interpreted statements.
func (repl *BaseREPL) Prompt(exitOnBye bool) {
	defer repl.readline.Close()
	io.WriteString(repl.readline.Stderr(),
		fmt.Sprintf(welcomeMessage, repl.toolname, repl.version))
	if !strings.HasSuffix(welcomeMessage, "\n") {
		repl.readline.Stderr().Write([]byte{'\n'})
	}
	for mlang.SignalContext.Err() == nil {
		line, err := repl.readline.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		words := strings.Fields(line)
		command := ""
		if len(words) > 0 {
			command = words[0]
		}
		if doExit := repl.executeCommand(command, words, line); doExit {
			break
		}
	}
	if exitOnBye {
		mlang.Exit(0)
	}
}

// Central dispatcher function to execute internal REPL commands or interpreter
// statements. It receives the command (i.e. the first word of the line),
// a list of words (args) including the command, and the complete line of text.
// If it returns true, the REPL should terminate.
func (repl *BaseREPL) executeCommand(cmd string, args []string, line string) bool {
	switch {
	case cmd == "":
		// do nothing
	case assigns(args):
		repl.interpret(line)
	case cmd == "help":
		repl.displayCommands(repl.readline.Stderr())
		if repl.Helper != nil {
			repl.Helper(repl.readline.Stderr())
		}
	case cmd == "bye":
		println("> goodbye!")
		return true
	case cmd == "mode":
		if len(args) > 1 {
			switch args[1] {
			case "vi":
				repl.readline.SetVimMode(true)
				editmode = "vi"
				return false
			case "emacs":
				repl.readline.SetVimMode(false)
				editmode = "emacs"
				return false
			}
		}
		io.WriteString(repl.readline.Stderr(),
			fmt.Sprintf("> current input mode: %s\n", editmode))
	case cmd == "setprompt":
		var prmpt string
		if len(line) <= 10 {
			prmpt = stdprompt(repl.toolname)
		} else {
			prmpt = line[10:] + " "
		}
		repl.readline.SetPrompt(prmpt)
	case cmd == "vars":
		if lister, ok := repl.Interpreter.(SymbolLister); ok {
			repl.Format(SymbolTable(lister.Symbols()), repl.readline.Stdout())
		}
	case cmd == "ast" && len(line) > 4:
		if printer, ok := repl.Interpreter.(TreePrinter); ok {
			printer.Tree(line[4:])
			return false
		}
		repl.interpret(line)
	default:
		trace().Debugf("call interpreter on: '%s'", line)
		repl.interpret(line)
	}
	return false // do not exit
}

// assigns is a predicate: is the line an assignment to a variable which is
// named like a REPL command, as in 'vars = 3;'?
func assigns(args []string) bool {
	if len(args) < 2 {
		return false
	}
	for _, op := range []string{"=", "+=", "-=", "*=", "/="} {
		if strings.HasPrefix(args[1], op) {
			return true
		}
	}
	return false
}

// interpret calls the interpreter, sending a statement.
func (repl *BaseREPL) interpret(line string) {
	if repl.Interpreter == nil {
		return
	}
	repl.Interpreter.InterpretCommand(line)
}

// SymbolTable renders a list of symbols as a table.
func SymbolTable(symbols []Symbol) table.Writer {
	if len(symbols) == 0 {
		return nil
	}
	tw := table.NewWriter()
	tw.SetTitle("Global variables")
	tw.AppendHeader(table.Row{"name", "type", "shape", "value"})
	for _, sym := range symbols {
		tw.AppendRow(table.Row{sym.Name, sym.Type, sym.Shape, sym.Value})
	}
	tw.SetStyle(table.StyleLight)
	return tw
}

// Input filter for REPL. Blocks ctrl-z.
func filterReplInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}
