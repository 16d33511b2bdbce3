package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/SirMathhman/Tuff-sub000/pkg/interpreter"
)

const replPrompt = "tuff> "

// replSession keeps the lines accepted so far. Every entry re-evaluates the
// whole session in a fresh interpreter, so a rejected line leaves no trace.
type replSession struct {
	lines   []string
	printed int
}

// Feed evaluates the session extended by line. On success the line is kept
// and the output printed since the previous entry is returned.
func (s *replSession) Feed(line string) (string, []string, error) {
	candidate := append(append([]string(nil), s.lines...), line)
	rendered, output, err := interpreter.New(nil).Run(strings.Join(candidate, "\n"))
	if err != nil {
		return "", nil, err
	}
	s.lines = candidate
	var fresh []string
	if len(output) > s.printed {
		fresh = output[s.printed:]
	}
	s.printed = len(output)
	return rendered, fresh, nil
}

func (s *replSession) Reset() {
	s.lines = nil
	s.printed = 0
}

func runRepl() int {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return runPiped(os.Stdin)
	}

	cli := liner.NewLiner()
	defer cli.Close()
	cli.SetCtrlCAborts(true)

	session := &replSession{}
	for {
		line, err := cli.Prompt(replPrompt)
		switch {
		case err == nil:
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(os.Stdout)
			return 0
		default:
			fmt.Fprintf(os.Stderr, "tuff repl: %v\n", err)
			return 1
		}

		trimmed := strings.TrimSpace(line)
		switch trimmed {
		case "":
			continue
		case ":quit", ":q":
			return 0
		case ":reset":
			session.Reset()
			continue
		}
		cli.AppendHistory(line)

		rendered, output, err := session.Feed(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, describeError(err))
			continue
		}
		for _, out := range output {
			fmt.Fprintln(os.Stdout, out)
		}
		if rendered != "" {
			fmt.Fprintln(os.Stdout, rendered)
		}
	}
}

// runPiped evaluates everything on r as one program.
func runPiped(r io.Reader) int {
	data, err := io.ReadAll(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tuff repl: %v\n", err)
		return 1
	}
	rendered, output, err := interpreter.New(nil).Run(string(data))
	for _, out := range output {
		fmt.Fprintln(os.Stdout, out)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "tuff repl: %s\n", describeError(err))
		return 1
	}
	if rendered != "" {
		fmt.Fprintln(os.Stdout, rendered)
	}
	return 0
}
