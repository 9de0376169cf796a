package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"lorgn/interpreter-go/pkg/driver"
	"lorgn/interpreter-go/pkg/interpreter"
)

const (
	replPrompt      = "lorgn> "
	replHistoryFile = "repl_history"
)

func (c *cli) runRepl(args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(c.stderr, "lorgn repl does not take arguments (received %s)\n", strings.Join(args, " "))
		return 1
	}
	program, err := c.optionalProgram()
	if err != nil {
		fmt.Fprintf(c.stderr, "failed to load program: %v\n", err)
		return 1
	}
	interp, _ := c.newInterpreter(program)

	if f, ok := c.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return c.interactiveRepl(interp)
	}
	return c.scriptedRepl(interp, c.stdin)
}

// interactiveRepl reads lines with history and editing support.
func (c *cli) interactiveRepl(interp *interpreter.Interpreter) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := resolveLorgnHome(); err == nil {
		histPath = filepath.Join(home, replHistoryFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if err := os.MkdirAll(filepath.Dir(histPath), 0o755); err != nil {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintln(c.stdout, "lorgn repl: one JSON expression per line, :quit to exit")
	for {
		line, err := ln.Prompt(replPrompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(c.stdout)
			return 0
		}
		if err != nil {
			fmt.Fprintf(c.stderr, "read error: %v\n", err)
			return 1
		}
		if done := c.replLine(interp, line); done {
			return 0
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
	}
}

// scriptedRepl evaluates piped input line by line without prompting.
func (c *cli) scriptedRepl(interp *interpreter.Interpreter, in io.Reader) int {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if done := c.replLine(interp, scanner.Text()); done {
			return 0
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(c.stderr, "read error: %v\n", err)
		return 1
	}
	return 0
}

// replLine evaluates one line and reports whether the session should end.
// Failures are printed and the session continues.
func (c *cli) replLine(interp *interpreter.Interpreter, line string) bool {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return false
	case line == ":quit" || line == ":q":
		return true
	case strings.HasPrefix(line, ":"):
		fmt.Fprintln(c.stderr, "unknown command. Type :quit to exit.")
		return false
	}

	expr, err := driver.DecodeExpression([]byte(line), driver.FormatJSON)
	if err != nil {
		fmt.Fprintf(c.stderr, "%v\n", err)
		return false
	}
	result, err := interp.Evaluate(expr)
	if err != nil {
		c.reportRuntimeError(err)
		return false
	}
	c.printResult(result)
	return false
}
