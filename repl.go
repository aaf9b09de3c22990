package main

import (
	goerrors "errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/peterh/liner"
	"github.com/pontaoski/redstone/errors"
	"github.com/pontaoski/redstone/interp"
	"github.com/pontaoski/redstone/lexer"
	"github.com/pontaoski/redstone/parser"
)

const (
	historyFile = ".redstone_history"
	promptMain  = "[Redstone] >>> "
	promptCont  = "[Redstone] ... "
)

const splash = `
██████╗ ███████╗██████╗ ███████╗████████╗ ██████╗ ███╗   ██╗███████╗
██╔══██╗██╔════╝██╔══██╗██╔════╝╚══██╔══╝██╔═══██╗████╗  ██║██╔════╝
██████╔╝█████╗  ██║  ██║███████╗   ██║   ██║   ██║██╔██╗ ██║█████╗
██╔══██╗██╔══╝  ██║  ██║╚════██║   ██║   ██║   ██║██║╚██╗██║██╔══╝
██║  ██║███████╗██████╔╝███████║   ██║   ╚██████╔╝██║ ╚████║███████╗
╚═╝  ╚═╝╚══════╝╚═════╝ ╚══════╝   ╚═╝    ╚═════╝ ╚═╝  ╚═══╝╚══════╝
`

// repl keeps one global scope alive across inputs.
type repl struct {
	keywords lexer.Keywords
	out      io.Writer
	in       *interp.Interpreter
	globals  *interp.Scope
	showAst  bool
}

func newRepl(kw lexer.Keywords, out io.Writer) *repl {
	return &repl{
		keywords: kw,
		out:      out,
		in:       interp.New().WithKeywords(kw),
		globals:  interp.NewGlobalScope(out),
	}
}

func (r *repl) loop() error {
	fmt.Fprintln(r.out, red(splash))
	fmt.Fprintln(r.out, gray("Type 'exit' to quit."))
	fmt.Fprintln(r.out)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		input, ok := r.read(ln)
		if !ok {
			fmt.Fprintln(r.out)
			return nil
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))

		if done := r.handle(input); done {
			return nil
		}
		fmt.Fprintln(r.out)
	}
}

// read collects lines until they form a complete program or fail to parse
// for a reason other than running out of input.
func (r *repl) read(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if goerrors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if isCommand(src) {
			return src, true
		}
		if _, err := parser.ParseSource(src, "<repl>", r.keywords); err != nil && errors.Incomplete(err) {
			continue
		}
		return src, true
	}
}

func isCommand(src string) bool {
	switch word := strings.Fields(src); len(word) {
	case 1:
		switch strings.ToLower(word[0]) {
		case "exit", "clear", "cls", "debug":
			return true
		}
	case 2:
		return word[0] == "run"
	}
	return false
}

// handle runs one REPL input and reports whether the session should end.
func (r *repl) handle(input string) bool {
	trimmed := strings.TrimSpace(input)

	switch strings.ToLower(trimmed) {
	case "exit":
		return true
	case "clear", "cls":
		fmt.Fprint(r.out, "\x1b[H\x1b[2J")
		return false
	case "debug":
		r.showAst = !r.showAst
		state := "off"
		if r.showAst {
			state = "on"
		}
		fmt.Fprintln(r.out, cyan("Debug "+state+"."))
		return false
	}

	source, name := input, "<repl>"
	if isCommand(trimmed) {
		name = strings.Fields(trimmed)[1]
		data, err := ioutil.ReadFile(name)
		if err != nil {
			fmt.Fprintln(r.out, red("Error: "+err.Error()))
			return false
		}
		source = string(data)
	}

	v, err := r.eval(source, name)
	if err != nil {
		fmt.Fprintln(r.out, red("Error: "+err.Error()))
		return false
	}
	if _, void := v.(interp.Void); !void {
		fmt.Fprintln(r.out, green(interp.Format(v)))
	}
	return false
}

func (r *repl) eval(source, name string) (interp.Value, error) {
	prog, err := parser.ParseSource(source, name, r.keywords)
	if err != nil {
		return nil, err
	}

	if r.showAst {
		fmt.Fprintln(r.out, cyan(repr.String(prog, repr.Indent("  "))))
	}

	return r.in.EvaluateProgram(prog, r.globals)
}
